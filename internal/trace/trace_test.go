package trace

import (
	"math"
	"testing"
	"time"

	"github.com/ayusman/rangoli/internal/ink"
)

// linePath builds a straight path with n points from (x0,y0) to (x1,y1).
func linePath(x0, y0, x1, y1 float64, n int) []Point {
	path := make([]Point, n)
	for i := 0; i < n; i++ {
		t := float64(i) / float64(n-1)
		path[i] = Point{X: x0 + t*(x1-x0), Y: y0 + t*(y1-y0)}
	}
	return path
}

func TestScore_IdenticalPaths(t *testing.T) {
	path := linePath(0.1, 0.1, 0.9, 0.9, 30)

	score := Score(path, path)
	if score < 0.99 {
		t.Errorf("identical paths should score near 1, got %f", score)
	}
}

func TestScore_TranslationAndScaleInvariant(t *testing.T) {
	target := linePath(0, 0, 1, 0.5, 40)
	// Same shape drawn smaller and elsewhere on the surface.
	drawn := linePath(0.6, 0.7, 0.8, 0.8, 25)

	score := Score(drawn, target)
	if score < 0.95 {
		t.Errorf("same shape at different position/scale should score high, got %f", score)
	}
}

func TestScore_DifferentShapesScoreLower(t *testing.T) {
	line := linePath(0, 0, 1, 0, 40)

	// A V shape.
	v := append(linePath(0, 0, 0.5, 1, 20), linePath(0.5, 1, 1, 0, 20)...)

	same := Score(line, line)
	diff := Score(v, line)
	if diff >= same {
		t.Errorf("different shape score %f should be below identical score %f", diff, same)
	}
}

func TestScore_EmptyInputs(t *testing.T) {
	if s := Score(nil, linePath(0, 0, 1, 1, 10)); s != 0 {
		t.Errorf("empty drawn path score = %f, want 0", s)
	}
	if s := Score(linePath(0, 0, 1, 1, 10), nil); s != 0 {
		t.Errorf("empty target path score = %f, want 0", s)
	}
}

func TestDistance_Empty(t *testing.T) {
	if d := Distance(nil, nil); !math.IsInf(d, 1) {
		t.Errorf("Distance(nil, nil) = %f, want +Inf", d)
	}
}

func TestResample_Length(t *testing.T) {
	path := linePath(0, 0, 1, 1, 7)

	for _, n := range []int{2, 16, 64, 100} {
		got := Resample(path, n)
		if len(got) != n {
			t.Errorf("Resample(_, %d) has %d points", n, len(got))
		}
		// Endpoints preserved.
		if got[0] != path[0] || got[len(got)-1] != path[len(path)-1] {
			t.Errorf("Resample(_, %d) endpoints moved", n)
		}
	}

	if got := Resample(path, 1); len(got) != 1 {
		t.Errorf("Resample(_, 1) has %d points, want 1", len(got))
	}
	if got := Resample(nil, 10); got != nil {
		t.Errorf("Resample(nil, 10) = %v, want nil", got)
	}
}

func TestNormalize_UnitBox(t *testing.T) {
	path := linePath(0.2, 0.4, 0.6, 0.9, 11)
	norm := Normalize(path)

	for i, p := range norm {
		if p.X < 0 || p.X > 1 || p.Y < 0 || p.Y > 1 {
			t.Fatalf("point %d = %+v outside unit box", i, p)
		}
	}
	if norm[0].X != 0 || norm[len(norm)-1].X != 1 {
		t.Error("normalized path should span the unit box in X")
	}
}

func TestNormalize_DegeneratePath(t *testing.T) {
	// All points identical: zero range must not divide by zero.
	path := []Point{{X: 0.5, Y: 0.5}, {X: 0.5, Y: 0.5}, {X: 0.5, Y: 0.5}}
	norm := Normalize(path)
	for _, p := range norm {
		if p.X != 0 || p.Y != 0 {
			t.Errorf("degenerate path should normalize to origin, got %+v", p)
		}
	}
}

func TestFromStroke(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s := &ink.Stroke{
		Points: []ink.Point{
			{X: 0.1, Y: 0.2, T: base},
			{X: 0.3, Y: 0.4, T: base.Add(33 * time.Millisecond)},
		},
	}

	path := FromStroke(s)
	if len(path) != 2 || path[0] != (Point{X: 0.1, Y: 0.2}) || path[1] != (Point{X: 0.3, Y: 0.4}) {
		t.Errorf("FromStroke = %v", path)
	}

	if FromStroke(nil) != nil {
		t.Error("FromStroke(nil) should be nil")
	}
}

// Package trace scores how closely a drawn stroke follows a target
// path, for tracing-style game modes.
package trace

import (
	"math"

	"github.com/ayusman/rangoli/internal/ink"
)

// Point is a 2D path point in normalized coordinates.
type Point struct {
	X float64
	Y float64
}

// ResampleCount is the canonical path length both paths are resampled
// to before comparison, so scores do not depend on sample rate.
const ResampleCount = 64

// FromStroke extracts the positional path of a stroke.
func FromStroke(s *ink.Stroke) []Point {
	if s == nil {
		return nil
	}
	path := make([]Point, len(s.Points))
	for i, p := range s.Points {
		path[i] = Point{X: p.X, Y: p.Y}
	}
	return path
}

// Normalize rescales a path into the unit box, so tracing accuracy is
// independent of where on the surface and how large the user drew.
func Normalize(path []Point) []Point {
	n := len(path)
	if n == 0 {
		return nil
	}
	if n == 1 {
		return []Point{{}}
	}

	minX, maxX := path[0].X, path[0].X
	minY, maxY := path[0].Y, path[0].Y
	for _, p := range path {
		minX = math.Min(minX, p.X)
		maxX = math.Max(maxX, p.X)
		minY = math.Min(minY, p.Y)
		maxY = math.Max(maxY, p.Y)
	}

	rangeX := maxX - minX
	rangeY := maxY - minY

	out := make([]Point, n)
	for i, p := range path {
		if rangeX > 0 {
			out[i].X = (p.X - minX) / rangeX
		}
		if rangeY > 0 {
			out[i].Y = (p.Y - minY) / rangeY
		}
	}
	return out
}

// Resample returns a path with exactly n points, linearly interpolated
// along the original.
func Resample(path []Point, n int) []Point {
	if len(path) == 0 {
		return nil
	}
	if len(path) == 1 || n <= 1 {
		return []Point{path[0]}
	}

	out := make([]Point, n)
	for i := 0; i < n; i++ {
		t := float64(i) / float64(n-1)
		pos := t * float64(len(path)-1)

		idx := int(pos)
		if idx >= len(path)-1 {
			idx = len(path) - 2
		}
		frac := pos - float64(idx)

		p1 := path[idx]
		p2 := path[idx+1]
		out[i] = Point{
			X: p1.X + frac*(p2.X-p1.X),
			Y: p1.Y + frac*(p2.Y-p1.Y),
		}
	}
	return out
}

// Distance computes the dynamic-time-warping distance between two
// paths, normalized by the longer path's length. Returns +Inf for an
// empty input.
func Distance(a, b []Point) float64 {
	n := len(a)
	m := len(b)
	if n == 0 || m == 0 {
		return math.Inf(1)
	}

	dtw := make([][]float64, n+1)
	for i := range dtw {
		dtw[i] = make([]float64, m+1)
		for j := range dtw[i] {
			dtw[i][j] = math.Inf(1)
		}
	}
	dtw[0][0] = 0

	for i := 1; i <= n; i++ {
		for j := 1; j <= m; j++ {
			cost := pointDistance(a[i-1], b[j-1])
			dtw[i][j] = cost + min3(dtw[i-1][j], dtw[i][j-1], dtw[i-1][j-1])
		}
	}

	return dtw[n][m] / float64(max(n, m))
}

// Score compares a drawn path to a target and returns a similarity in
// (0, 1], where 1 is a perfect trace. Both paths are normalized and
// resampled first.
func Score(drawn, target []Point) float64 {
	if len(drawn) == 0 || len(target) == 0 {
		return 0
	}
	d := Distance(
		Resample(Normalize(drawn), ResampleCount),
		Resample(Normalize(target), ResampleCount),
	)
	if math.IsInf(d, 1) {
		return 0
	}
	return 1.0 / (1.0 + d)
}

func pointDistance(a, b Point) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return math.Sqrt(dx*dx + dy*dy)
}

func min3(a, b, c float64) float64 {
	return math.Min(a, math.Min(b, c))
}

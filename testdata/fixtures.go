// Package testdata builds synthetic camera frames for integration and
// end-to-end tests, so no binary fixtures need to ship with the repo.
package testdata

import (
	"image"
	"image/color"

	"gocv.io/x/gocv"
)

// SolidFrame returns a single-color BGR frame.
func SolidFrame(width, height int, b, g, r float64) *gocv.Mat {
	mat := gocv.NewMatWithSize(height, width, gocv.MatTypeCV8UC3)
	mat.SetTo(gocv.NewScalar(b, g, r, 0))
	return &mat
}

// MovingDotSequence returns n frames with a bright dot sweeping left to
// right across a dark background. Consecutive frames differ enough to
// keep a motion gate in its active state.
func MovingDotSequence(width, height, n int) []*gocv.Mat {
	frames := make([]*gocv.Mat, 0, n)
	for i := 0; i < n; i++ {
		mat := gocv.NewMatWithSize(height, width, gocv.MatTypeCV8UC3)

		x := (i + 1) * width / (n + 1)
		radius := height / 6
		if radius < 2 {
			radius = 2
		}
		gocv.Circle(&mat, image.Pt(x, height/2), radius,
			color.RGBA{R: 255, G: 255, B: 255, A: 255}, -1)

		frames = append(frames, &mat)
	}
	return frames
}

// CloseFrames releases every frame in a sequence.
func CloseFrames(frames []*gocv.Mat) {
	for _, f := range frames {
		f.Close()
	}
}

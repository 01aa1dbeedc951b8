package cosmic

import "gonum.org/v1/gonum/spatial/r3"

// testParams models a 256 x 232 x 1036 volume with 5 unit margins and a
// 3200 tick drift window.
func testParams() Params {
	return Params{
		Detector:         Detector{Width: 256, HalfHeight: 116, Length: 1036},
		Margins:          DefaultMargins(),
		DriftWindowTicks: 3200,
		Workers:          4,
	}
}

// zAxis returns a well-conditioned axis along +Z through mean.
func zAxis(id int64, mean r3.Vec) PrincipalAxis {
	return NewPrincipalAxis(id, mean, [3]float64{400, 2, 1}, [3][3]float64{
		{0, 0, 1},
		{1, 0, 0},
		{0, 1, 0},
	})
}

func inTimeHit(id int64) Hit {
	return Hit{ID: id, PeakTime: 4800, PeakTimeMinusRMS: 4790, PeakTimePlusRMS: 4810}
}

func earlyHit(id int64) Hit {
	return Hit{ID: id, PeakTime: 3150, PeakTimeMinusRMS: 3100, PeakTimePlusRMS: 3200}
}

func lateHit(id int64) Hit {
	return Hit{ID: id, PeakTime: 6450, PeakTimeMinusRMS: 6400, PeakTimePlusRMS: 6500}
}

func pts(positions ...r3.Vec) []SpacePoint {
	out := make([]SpacePoint, len(positions))
	for i, p := range positions {
		out[i] = SpacePoint{ID: int64(i + 1), Position: p}
	}
	return out
}

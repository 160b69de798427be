package dyn4j

import (
	"math"
)

/// Input parameters for ConservativeAdvancement. Shapes are in body
/// coordinates and the sweeps describe the body motion over the step.
type TOIInput struct {
	ShapeA Shape
	ShapeB Shape
	SweepA Sweep
	SweepB Sweep
	TMax   float64 // defines sweep interval [0, tMax]
}

// Output parameters for ConservativeAdvancement.
var TOIOutputState = struct {
	E_unknown    uint8
	E_failed     uint8
	E_overlapped uint8
	E_touching   uint8
	E_separated  uint8
}{
	E_unknown:    1,
	E_failed:     2,
	E_overlapped: 3,
	E_touching:   4,
	E_separated:  5,
}

type TOIOutput struct {
	State uint8
	T     float64

	/// Closest features at T. Distance is never negative for a touching
	/// result.
	Separation Separation

	Iterations int
}

/// Largest distance from the sweep center to the shape surface.
func sweepRadius(shape Shape, localCenter Vec2) float64 {
	r := 0.0
	for _, v := range shape.GetVertices() {
		r = math.Max(r, Vec2Distance(v, localCenter))
	}
	return r + shape.GetRadius()
}

/// Find the first time of impact of two moving shapes by conservative
/// advancement.
///
/// Time advances by the current distance over an upper bound of the closing
/// speed, so the shapes never pass through each other between samples. The
/// search stops once the distance drops below half the linear tolerance. If a
/// step lands in overlap anyway the interval between the last separated time
/// and the overlapping time is bisected.
///
/// An overlap at t = 0 is reported as overlapped and left to the discrete
/// solver. Exhausting the iteration budget reports failed, which callers
/// treat as no impact.
func ConservativeAdvancement(output *TOIOutput, input *TOIInput, settings Settings) {
	output.State = TOIOutputState.E_unknown
	output.T = input.TMax
	output.Iterations = 0

	sweepA := input.SweepA
	sweepB := input.SweepB

	// Large rotations can make the root finder fail, so we normalize the
	// sweep angles.
	sweepA.Normalize()
	sweepB.Normalize()

	tMax := input.TMax
	target := 0.5 * settings.LinearTolerance

	dA := Vec2Sub(sweepA.C, sweepA.C0)
	dB := Vec2Sub(sweepB.C, sweepB.C0)
	relative := Vec2Sub(dB, dA)
	angular := math.Abs(sweepA.A-sweepA.A0)*sweepRadius(input.ShapeA, sweepA.LocalCenter) +
		math.Abs(sweepB.A-sweepB.A0)*sweepRadius(input.ShapeB, sweepB.LocalCenter)

	separation := func(t float64) Separation {
		xfA := sweepA.GetTransform(t)
		xfB := sweepB.GetTransform(t)
		return ComputeSeparation(input.ShapeA, xfA, input.ShapeB, xfB)
	}

	t := 0.0
	safe := 0.0
	var safeSep Separation
	maxIterations := settings.MaxTOIIterations

	for output.Iterations < maxIterations {
		sep := separation(t)
		output.Iterations++

		if sep.Distance < 0.0 {
			if t == 0.0 {
				output.State = TOIOutputState.E_overlapped
				output.T = 0.0
				output.Separation = sep
				return
			}
			break
		}

		if sep.Distance < target {
			output.State = TOIOutputState.E_touching
			output.T = t
			output.Separation = sep
			return
		}

		safe = t
		safeSep = sep

		bound := math.Max(0.0, -Vec2Dot(relative, sep.Normal)) + angular
		if bound <= Epsilon {
			output.State = TOIOutputState.E_separated
			output.T = tMax
			output.Separation = sep
			return
		}

		t += (sep.Distance - 0.5*target) / bound
		if t >= tMax {
			// Victory! The shapes stay apart over the whole interval.
			output.State = TOIOutputState.E_separated
			output.T = tMax
			output.Separation = sep
			return
		}
	}

	if output.Iterations < maxIterations {
		// Overshot into overlap; bisect back toward the surface.
		lo, hi := safe, t
		for output.Iterations < maxIterations {
			mid := 0.5 * (lo + hi)
			sep := separation(mid)
			output.Iterations++

			if sep.Distance < 0.0 {
				hi = mid
				continue
			}
			if sep.Distance < target {
				output.State = TOIOutputState.E_touching
				output.T = mid
				output.Separation = sep
				return
			}
			lo = mid
			safe = mid
			safeSep = sep
		}
	}

	// Root finder got stuck.
	output.State = TOIOutputState.E_failed
	output.T = safe
	output.Separation = safeSep
}

package dyn4j

import (
	"testing"
)

func linearSweep(from, to Vec2) Sweep {
	return Sweep{C0: from, C: to}
}

func TestConservativeAdvancementTouching(t *testing.T) {
	settings := DefaultSettings()
	ball := mustCircle(t, 0.01)
	wall := mustBox(t, 0.05, 2.0)

	input := TOIInput{
		ShapeA: ball,
		ShapeB: wall,
		SweepA: linearSweep(MakeVec2(-5, 0), MakeVec2(5, 0)),
		SweepB: linearSweep(MakeVec2(0, 0), MakeVec2(0, 0)),
		TMax:   1.0,
	}

	var output TOIOutput
	ConservativeAdvancement(&output, &input, settings)

	if output.State != TOIOutputState.E_touching {
		t.Fatalf("state = %d, want touching", output.State)
	}

	// The ball surface meets the wall face after 4.94 of the 10 units.
	if output.T <= 0.49 || output.T >= 0.495 {
		t.Fatalf("t = %v, want about 0.494", output.T)
	}
	if output.Separation.Distance < 0.0 || output.Separation.Distance >= 0.5*settings.LinearTolerance {
		t.Fatalf("separation = %v", output.Separation.Distance)
	}
}

func TestConservativeAdvancementSeparated(t *testing.T) {
	settings := DefaultSettings()
	ball := mustCircle(t, 0.5)

	input := TOIInput{
		ShapeA: ball,
		ShapeB: ball,
		SweepA: linearSweep(MakeVec2(0, 0), MakeVec2(1, 0)),
		SweepB: linearSweep(MakeVec2(0, 5), MakeVec2(1, 5)),
		TMax:   1.0,
	}

	var output TOIOutput
	ConservativeAdvancement(&output, &input, settings)

	if output.State != TOIOutputState.E_separated {
		t.Fatalf("state = %d, want separated", output.State)
	}
	if output.T != 1.0 {
		t.Fatalf("t = %v, want 1", output.T)
	}
}

func TestConservativeAdvancementOverlappedAtStart(t *testing.T) {
	settings := DefaultSettings()
	box := mustBox(t, 1.0, 1.0)

	input := TOIInput{
		ShapeA: box,
		ShapeB: box,
		SweepA: linearSweep(MakeVec2(0, 0), MakeVec2(3, 0)),
		SweepB: linearSweep(MakeVec2(1, 0), MakeVec2(1, 0)),
		TMax:   1.0,
	}

	var output TOIOutput
	ConservativeAdvancement(&output, &input, settings)

	if output.State != TOIOutputState.E_overlapped {
		t.Fatalf("state = %d, want overlapped", output.State)
	}
	if output.T != 0.0 {
		t.Fatalf("t = %v, want 0", output.T)
	}
}

func TestSweepGetTransformInterpolates(t *testing.T) {
	sweep := Sweep{C0: MakeVec2(0, 0), C: MakeVec2(2, 4), A0: 0.0, A: 1.0}

	xf := sweep.GetTransform(0.5)
	if xf.P != MakeVec2(1, 2) {
		t.Fatalf("position = %v, want (1, 2)", xf.P)
	}
	if angle := xf.Q.GetAngle(); angle < 0.4999 || angle > 0.5001 {
		t.Fatalf("angle = %v, want 0.5", angle)
	}
}

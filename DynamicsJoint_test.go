package dyn4j

import (
	"math"
	"testing"
)

func TestNewMouseJointValidation(t *testing.T) {
	world := newTestWorld(t, MakeVec2(0, -10))
	body, _ := addBody(t, world, BodyType.E_dynamicBody, MakeVec2(0, 0), Vec2{}, mustCircle(t, 0.5), 0.0)
	target := MakeVec2(1, 1)
	bad := MakeVec2(math.Inf(1), 0)

	valid := func() MouseJointDef {
		def := MakeMouseJointDef()
		def.Body = body
		def.Target = &target
		def.MaxForce = 10.0
		return def
	}

	tests := []struct {
		name   string
		mutate func(def *MouseJointDef)
		code   Code
		param  string
	}{
		{name: "no body", mutate: func(def *MouseJointDef) { def.Body = nil }, code: CodeMissingArgument, param: "Body"},
		{name: "no target", mutate: func(def *MouseJointDef) { def.Target = nil }, code: CodeMissingArgument, param: "Target"},
		{name: "infinite target", mutate: func(def *MouseJointDef) { def.Target = &bad }, code: CodeInvalidArgument, param: "Target"},
		{name: "zero frequency", mutate: func(def *MouseJointDef) { def.Frequency = 0 }, code: CodeInvalidArgument, param: "Frequency"},
		{name: "over damped", mutate: func(def *MouseJointDef) { def.DampingRatio = 1.5 }, code: CodeInvalidArgument, param: "DampingRatio"},
		{name: "negative force", mutate: func(def *MouseJointDef) { def.MaxForce = -1 }, code: CodeInvalidArgument, param: "MaxForce"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			def := valid()
			tc.mutate(&def)
			_, err := NewMouseJoint(world, def)
			if !IsCode(err, tc.code) {
				t.Fatalf("code = %s, want %s (%v)", GetCode(err), tc.code, err)
			}
			if GetParam(err) != tc.param {
				t.Fatalf("param = %q, want %q", GetParam(err), tc.param)
			}
		})
	}

	if world.GetJointCount() != 0 {
		t.Fatalf("rejected joints were added")
	}
	if _, err := NewMouseJoint(world, valid()); err != nil {
		t.Fatalf("valid joint: %v", err)
	}
}

func TestMouseJointSetters(t *testing.T) {
	world := newTestWorld(t, MakeVec2(0, -10))
	body, _ := addBody(t, world, BodyType.E_dynamicBody, MakeVec2(0, 0), Vec2{}, mustCircle(t, 0.5), 0.0)

	target := MakeVec2(0, 0)
	def := MakeMouseJointDef()
	def.Body = body
	def.Target = &target
	def.MaxForce = 10.0
	joint, err := NewMouseJoint(world, def)
	if err != nil {
		t.Fatalf("mouse joint: %v", err)
	}

	bad := MakeVec2(math.NaN(), 0)
	good := MakeVec2(1, 2)

	tests := []struct {
		name  string
		set   func() error
		code  Code
		param string
	}{
		{name: "nil target", set: func() error { return joint.SetTarget(nil) }, code: CodeMissingArgument, param: "Target"},
		{name: "nan target", set: func() error { return joint.SetTarget(&bad) }, code: CodeInvalidArgument, param: "Target"},
		{name: "zero frequency", set: func() error { return joint.SetFrequency(0) }, code: CodeInvalidArgument, param: "Frequency"},
		{name: "infinite frequency", set: func() error { return joint.SetFrequency(math.Inf(1)) }, code: CodeInvalidArgument, param: "Frequency"},
		{name: "negative damping", set: func() error { return joint.SetDampingRatio(-0.1) }, code: CodeInvalidArgument, param: "DampingRatio"},
		{name: "over damped", set: func() error { return joint.SetDampingRatio(1.01) }, code: CodeInvalidArgument, param: "DampingRatio"},
		{name: "negative force", set: func() error { return joint.SetMaxForce(-1) }, code: CodeInvalidArgument, param: "MaxForce"},
		{name: "valid target", set: func() error { return joint.SetTarget(&good) }},
		{name: "valid frequency", set: func() error { return joint.SetFrequency(2.5) }},
		{name: "valid damping", set: func() error { return joint.SetDampingRatio(1.0) }},
		{name: "valid force", set: func() error { return joint.SetMaxForce(0) }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.set()
			if tc.code == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !IsCode(err, tc.code) {
				t.Fatalf("code = %s, want %s (%v)", GetCode(err), tc.code, err)
			}
			if GetParam(err) != tc.param {
				t.Fatalf("param = %q, want %q", GetParam(err), tc.param)
			}
		})
	}

	// Rejected values never reach the joint.
	if joint.GetTarget() != good {
		t.Fatalf("target = %v, want %v", joint.GetTarget(), good)
	}
	if joint.GetFrequency() != 2.5 || joint.GetDampingRatio() != 1.0 || joint.GetMaxForce() != 0.0 {
		t.Fatalf("settings = %v %v %v", joint.GetFrequency(), joint.GetDampingRatio(), joint.GetMaxForce())
	}
}

func TestMouseJointDragsBodyToTarget(t *testing.T) {
	world := newTestWorld(t, MakeVec2(0, 0))
	body, _ := addBody(t, world, BodyType.E_dynamicBody, MakeVec2(0, 0), Vec2{}, mustCircle(t, 0.5), 0.0)

	start := MakeVec2(0, 0)
	def := MakeMouseJointDef()
	def.Body = body
	def.Target = &start
	def.MaxForce = 1000.0 * body.GetMass()
	joint, err := NewMouseJoint(world, def)
	if err != nil {
		t.Fatalf("mouse joint: %v", err)
	}

	target := MakeVec2(2, 0)
	if err := joint.SetTarget(&target); err != nil {
		t.Fatalf("set target: %v", err)
	}

	for i := 0; i < 120; i++ {
		if err := world.Step(1.0 / 60.0); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
	}

	if d := Vec2Distance(body.GetPosition(), target); d > 0.1 {
		t.Fatalf("body at %v, %v away from the target", body.GetPosition(), d)
	}
	if anchor := joint.GetAnchorA(); anchor != target {
		t.Fatalf("anchor A = %v, want the target", anchor)
	}
}

func TestMouseJointRespectsMaxForce(t *testing.T) {
	world := newTestWorld(t, MakeVec2(0, 0))
	body, _ := addBody(t, world, BodyType.E_dynamicBody, MakeVec2(0, 0), Vec2{}, mustCircle(t, 0.5), 0.0)

	target := MakeVec2(100, 0)
	def := MakeMouseJointDef()
	def.Body = body
	def.Target = &target
	def.MaxForce = 1.0
	joint, err := NewMouseJoint(world, def)
	if err != nil {
		t.Fatalf("mouse joint: %v", err)
	}
	far := MakeVec2(200, 0)
	if err := joint.SetTarget(&far); err != nil {
		t.Fatalf("set target: %v", err)
	}

	dt := 1.0 / 60.0
	if err := world.Step(dt); err != nil {
		t.Fatalf("step: %v", err)
	}

	force := joint.GetReactionForce(1.0 / dt)
	if force.Length() > def.MaxForce+1e-9 {
		t.Fatalf("reaction force %v exceeds max force %v", force.Length(), def.MaxForce)
	}
}

func makePulley(t *testing.T, world *World) (*Body, *Body, PulleyJointDef) {
	t.Helper()
	bodyA, _ := addBody(t, world, BodyType.E_dynamicBody, MakeVec2(-2, 0), Vec2{}, mustBox(t, 0.5, 0.5), 0.0)
	bodyB, _ := addBody(t, world, BodyType.E_dynamicBody, MakeVec2(2, 0), Vec2{}, mustBox(t, 0.5, 0.5), 0.0)

	def := MakePulleyJointDef()
	def.BodyA = bodyA
	def.BodyB = bodyB
	def.PulleyAnchorA = MakeVec2(-2, 5)
	def.PulleyAnchorB = MakeVec2(2, 5)
	def.BodyAnchorA = MakeVec2(-2, 0)
	def.BodyAnchorB = MakeVec2(2, 0)
	return bodyA, bodyB, def
}

func TestNewPulleyJointValidation(t *testing.T) {
	world := newTestWorld(t, MakeVec2(0, -10))
	_, _, valid := makePulley(t, world)

	tests := []struct {
		name   string
		mutate func(def *PulleyJointDef)
		code   Code
		param  string
	}{
		{name: "no body a", mutate: func(def *PulleyJointDef) { def.BodyA = nil }, code: CodeMissingArgument, param: "BodyA"},
		{name: "no body b", mutate: func(def *PulleyJointDef) { def.BodyB = nil }, code: CodeMissingArgument, param: "BodyB"},
		{name: "same body", mutate: func(def *PulleyJointDef) { def.BodyB = def.BodyA }, code: CodeInvalidArgument, param: "BodyB"},
		{name: "zero ratio", mutate: func(def *PulleyJointDef) { def.Ratio = 0 }, code: CodeInvalidArgument, param: "Ratio"},
		{name: "negative min length", mutate: func(def *PulleyJointDef) { def.MinLength = -1 }, code: CodeInvalidArgument, param: "MinLength"},
		{name: "bad anchor", mutate: func(def *PulleyJointDef) { def.PulleyAnchorB = MakeVec2(math.NaN(), 0) }, code: CodeInvalidArgument, param: "PulleyAnchorB"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			def := valid
			tc.mutate(&def)
			_, err := NewPulleyJoint(world, def)
			if !IsCode(err, tc.code) {
				t.Fatalf("code = %s, want %s (%v)", GetCode(err), tc.code, err)
			}
			if GetParam(err) != tc.param {
				t.Fatalf("param = %q, want %q", GetParam(err), tc.param)
			}
		})
	}

	joint, err := NewPulleyJoint(world, valid)
	if err != nil {
		t.Fatalf("valid joint: %v", err)
	}
	if joint.GetLength() != 10.0 {
		t.Fatalf("length = %v, want 10", joint.GetLength())
	}
}

func TestPulleyKeepsRopeLength(t *testing.T) {
	world := newTestWorld(t, MakeVec2(0, 0))
	bodyA, bodyB, def := makePulley(t, world)
	joint, err := NewPulleyJoint(world, def)
	if err != nil {
		t.Fatalf("pulley: %v", err)
	}

	bodyA.SetLinearVelocity(MakeVec2(0, -1))

	for i := 0; i < 60; i++ {
		if err := world.Step(1.0 / 60.0); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}

		length := joint.GetCurrentLengthA() + joint.GetRatio()*joint.GetCurrentLengthB()
		if math.Abs(length-joint.GetLength()) > 0.02 {
			t.Fatalf("step %d: rope length %v, want %v", i, length, joint.GetLength())
		}
	}

	if bodyA.GetPosition().Y >= 0.0 {
		t.Fatalf("body A should have dropped, at %v", bodyA.GetPosition())
	}
	if bodyB.GetPosition().Y <= 0.0 {
		t.Fatalf("body B should have risen, at %v", bodyB.GetPosition())
	}
}

func TestPulleyBodiesDoNotCollide(t *testing.T) {
	world := newTestWorld(t, MakeVec2(0, 0))
	bodyA, _ := addBody(t, world, BodyType.E_dynamicBody, MakeVec2(0, 0), Vec2{}, mustBox(t, 0.5, 0.5), 0.0)
	bodyB, _ := addBody(t, world, BodyType.E_dynamicBody, MakeVec2(0.5, 0), Vec2{}, mustBox(t, 0.5, 0.5), 0.0)

	def := MakePulleyJointDef()
	def.BodyA = bodyA
	def.BodyB = bodyB
	def.PulleyAnchorA = MakeVec2(0, 5)
	def.PulleyAnchorB = MakeVec2(0.5, 5)
	def.BodyAnchorA = bodyA.GetPosition()
	def.BodyAnchorB = bodyB.GetPosition()
	if _, err := NewPulleyJoint(world, def); err != nil {
		t.Fatalf("pulley: %v", err)
	}

	if err := world.Step(1.0 / 60.0); err != nil {
		t.Fatalf("step: %v", err)
	}
	if world.GetContactCount() != 0 {
		t.Fatalf("contact count = %d, want 0", world.GetContactCount())
	}
}

func TestPulleyRopeGoesSlack(t *testing.T) {
	world := newTestWorld(t, MakeVec2(0, 0))
	bodyA, bodyB, def := makePulley(t, world)
	joint, err := NewPulleyJoint(world, def)
	if err != nil {
		t.Fatalf("pulley: %v", err)
	}

	// Moving toward the pulley shortens side A; the rope must not push B.
	bodyA.SetLinearVelocity(MakeVec2(0, 1))

	for i := 0; i < 30; i++ {
		if err := world.Step(1.0 / 60.0); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
	}

	if y := bodyA.GetPosition().Y; math.Abs(y-0.5) > 1e-9 {
		t.Fatalf("body A at y = %v, want 0.5", y)
	}
	if p := bodyB.GetPosition(); Vec2Distance(p, MakeVec2(2, 0)) > 1e-9 {
		t.Fatalf("body B moved to %v", p)
	}
	if v := bodyB.GetLinearVelocity(); v.Length() > 1e-9 {
		t.Fatalf("body B velocity = %v, want zero", v)
	}
	if joint.IsTaut() {
		t.Fatalf("rope should be slack")
	}

	length := joint.GetCurrentLengthA() + joint.GetRatio()*joint.GetCurrentLengthB()
	if length >= joint.GetLength() {
		t.Fatalf("slack rope length %v, want below %v", length, joint.GetLength())
	}
}

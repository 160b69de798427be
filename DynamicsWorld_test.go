package dyn4j

import (
	"bytes"
	"context"
	"log"
	"math"
	"strings"
	"testing"
)

func newTestWorld(t *testing.T, gravity Vec2) *World {
	t.Helper()
	world, err := NewWorld(gravity, DefaultSettings())
	if err != nil {
		t.Fatalf("new world: %v", err)
	}
	return world
}

func addBody(t *testing.T, world *World, bodyType uint8, position Vec2, velocity Vec2, shape Shape, restitution float64) (*Body, *Fixture) {
	t.Helper()

	def := MakeBodyDef()
	def.Type = bodyType
	def.Position = position
	def.LinearVelocity = velocity
	body, err := world.CreateBody(def)
	if err != nil {
		t.Fatalf("create body: %v", err)
	}

	fd := MakeFixtureDef()
	fd.Shape = shape
	fd.Density = 1.0
	fd.Restitution = restitution
	fixture, err := body.CreateFixture(fd)
	if err != nil {
		t.Fatalf("create fixture: %v", err)
	}
	return body, fixture
}

// recorder logs every callback it receives in order.
type recorder struct {
	calls []string

	onPreSolve  func(contact *Contact, oldManifold *Manifold)
	onPostSolve func(contact *Contact, impulse *ContactImpulse)
	onEndStep   func(world *World)
}

func (r *recorder) BeginContact(contact *Contact, point ContactPoint) {
	r.calls = append(r.calls, "begin")
}

func (r *recorder) PersistContact(contact *Contact, point ContactPoint) {
	r.calls = append(r.calls, "persist")
}

func (r *recorder) EndContact(contact *Contact, point ContactPoint) {
	r.calls = append(r.calls, "end")
}

func (r *recorder) PreSolve(contact *Contact, oldManifold *Manifold) {
	r.calls = append(r.calls, "preSolve")
	if r.onPreSolve != nil {
		r.onPreSolve(contact, oldManifold)
	}
}

func (r *recorder) PostSolve(contact *Contact, impulse *ContactImpulse) {
	r.calls = append(r.calls, "postSolve")
	if r.onPostSolve != nil {
		r.onPostSolve(contact, impulse)
	}
}

func (r *recorder) BeginStep(world *World, step TimeStep) {
	r.calls = append(r.calls, "beginStep")
}

func (r *recorder) EndStep(world *World, step TimeStep) {
	r.calls = append(r.calls, "endStep")
	if r.onEndStep != nil {
		r.onEndStep(world)
	}
}

func (r *recorder) take() string {
	s := strings.Join(r.calls, ",")
	r.calls = nil
	return s
}

func TestNewWorldValidation(t *testing.T) {
	if _, err := NewWorld(MakeVec2(0, math.NaN()), DefaultSettings()); !IsCode(err, CodeInvalidArgument) {
		t.Fatalf("expected INVALID_ARGUMENT, got %v", err)
	}

	settings := DefaultSettings()
	settings.VelocityIterations = 0
	if _, err := NewWorld(MakeVec2(0, -10), settings); !IsCode(err, CodeInvalidSettings) {
		t.Fatalf("expected INVALID_SETTINGS, got %v", err)
	}
}

func TestStepRejectsBadTimeStep(t *testing.T) {
	world := newTestWorld(t, MakeVec2(0, -10))

	for _, dt := range []float64{-1.0 / 60.0, math.NaN(), math.Inf(1)} {
		if err := world.Step(dt); !IsCode(err, CodeInvalidArgument) {
			t.Fatalf("dt %v: expected INVALID_ARGUMENT, got %v", dt, err)
		}
	}

	if err := world.Step(0.0); err != nil {
		t.Fatalf("zero step: %v", err)
	}
}

func TestStepReducesPenetration(t *testing.T) {
	world := newTestWorld(t, MakeVec2(0, 0))
	_, fA := addBody(t, world, BodyType.E_dynamicBody, MakeVec2(0, 0), Vec2{}, mustCircle(t, 0.5), 0.0)
	_, fB := addBody(t, world, BodyType.E_dynamicBody, MakeVec2(0.9, 0), Vec2{}, mustCircle(t, 0.5), 0.0)

	before := fA.Separation(fB).Distance
	if math.Abs(before+0.1) > 1e-9 {
		t.Fatalf("initial separation = %v, want -0.1", before)
	}

	if err := world.Step(1.0 / 60.0); err != nil {
		t.Fatalf("step: %v", err)
	}

	after := fA.Separation(fB).Distance
	if after <= before {
		t.Fatalf("penetration not reduced: %v -> %v", before, after)
	}
	if world.GetContactCount() != 1 {
		t.Fatalf("contact count = %d, want 1", world.GetContactCount())
	}
}

func TestElasticCollisionReversesVelocities(t *testing.T) {
	world := newTestWorld(t, MakeVec2(0, 0))
	bodyA, _ := addBody(t, world, BodyType.E_dynamicBody, MakeVec2(-0.499, 0), MakeVec2(5, 0), mustCircle(t, 0.5), 1.0)
	bodyB, _ := addBody(t, world, BodyType.E_dynamicBody, MakeVec2(0.499, 0), MakeVec2(-5, 0), mustCircle(t, 0.5), 1.0)

	if err := world.Step(1.0 / 60.0); err != nil {
		t.Fatalf("step: %v", err)
	}

	vA := bodyA.GetLinearVelocity()
	vB := bodyB.GetLinearVelocity()
	if math.Abs(vA.X+5.0) > 1e-9 || math.Abs(vB.X-5.0) > 1e-9 {
		t.Fatalf("velocities = %v %v, want (-5, 0) (5, 0)", vA, vB)
	}
	if math.Abs(vA.Y) > 1e-9 || math.Abs(vB.Y) > 1e-9 {
		t.Fatalf("unexpected tangential velocity %v %v", vA, vB)
	}
}

func TestInelasticCollisionStopsApproach(t *testing.T) {
	world := newTestWorld(t, MakeVec2(0, 0))
	bodyA, _ := addBody(t, world, BodyType.E_dynamicBody, MakeVec2(-0.499, 0), MakeVec2(5, 0), mustCircle(t, 0.5), 0.0)
	bodyB, _ := addBody(t, world, BodyType.E_dynamicBody, MakeVec2(0.499, 0), MakeVec2(-5, 0), mustCircle(t, 0.5), 0.0)

	for i := 0; i < 3; i++ {
		if err := world.Step(1.0 / 60.0); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}

		vA := bodyA.GetLinearVelocity()
		vB := bodyB.GetLinearVelocity()
		if approach := vB.X - vA.X; approach < -1e-9 {
			t.Fatalf("step %d: bodies still approach at %v", i, approach)
		}
		if math.Abs(vA.X+vB.X) > 1e-9 {
			t.Fatalf("step %d: momentum not conserved, %v %v", i, vA, vB)
		}
	}
}

func TestFrictionImpulseIsBounded(t *testing.T) {
	world := newTestWorld(t, MakeVec2(0, -10))
	addBody(t, world, BodyType.E_staticBody, MakeVec2(0, -0.5), Vec2{}, mustBox(t, 20, 0.5), 0.0)
	box, _ := addBody(t, world, BodyType.E_dynamicBody, MakeVec2(0, 0.495), MakeVec2(4, 0), mustBox(t, 0.5, 0.5), 0.0)

	saturated := 0
	reports := 0
	rec := &recorder{}
	rec.onPostSolve = func(contact *Contact, impulse *ContactImpulse) {
		mu := contact.GetFriction()
		for i := 0; i < impulse.Count; i++ {
			normal := impulse.NormalImpulses[i]
			tangent := math.Abs(impulse.TangentImpulses[i])
			reports++

			// The last normal pass may shift the split slightly after the
			// tangent pass clamped against it.
			if tangent > mu*normal*1.02+1e-9 {
				t.Fatalf("tangent impulse %v exceeds %v * %v", tangent, mu, normal)
			}
			if normal > 0.0 && tangent >= 0.98*mu*normal {
				saturated++
			}
		}
	}
	world.SetContactListener(rec)

	for i := 0; i < 30; i++ {
		if err := world.Step(1.0 / 60.0); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
	}

	if reports == 0 || saturated == 0 {
		t.Fatalf("expected sliding friction, %d of %d points saturated", saturated, reports)
	}

	// Sliding friction decelerates at mu * g.
	want := 4.0 - 0.2*10.0*0.5
	if v := box.GetLinearVelocity().X; math.Abs(v-want) > 0.1 {
		t.Fatalf("velocity after sliding = %v, want about %v", v, want)
	}
}

func TestBoxRestsOnSegmentGround(t *testing.T) {
	world := newTestWorld(t, MakeVec2(0, -10))
	ground, err := MakeSegmentShape(MakeVec2(-10, 0), MakeVec2(10, 0))
	if err != nil {
		t.Fatalf("segment: %v", err)
	}
	addBody(t, world, BodyType.E_staticBody, MakeVec2(0, 0), Vec2{}, ground, 0.0)
	box, _ := addBody(t, world, BodyType.E_dynamicBody, MakeVec2(0.3, 2), Vec2{}, mustBox(t, 0.5, 0.5), 0.0)

	for i := 0; i < 120; i++ {
		if err := world.Step(1.0 / 60.0); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
	}

	linTol := world.GetSettings().LinearTolerance
	if y := box.GetPosition().Y; y < 0.5-2.0*linTol || y > 0.5+1e-3 {
		t.Fatalf("box rests at y = %v, want about 0.5", y)
	}
	if v := box.GetLinearVelocity(); v.Length() > 0.05 {
		t.Fatalf("box still moving at %v", v)
	}
	contacts := world.GetContacts()
	if len(contacts) != 1 || !contacts[0].IsTouching() {
		t.Fatalf("expected one touching contact, got %d", len(contacts))
	}
}

func TestFastBodyStopsAtThinWall(t *testing.T) {
	world := newTestWorld(t, MakeVec2(0, 0))
	_, wall := addBody(t, world, BodyType.E_staticBody, MakeVec2(0, 0), Vec2{}, mustBox(t, 0.05, 2.0), 0.0)
	ball, ballFixture := addBody(t, world, BodyType.E_dynamicBody, MakeVec2(-5, 0), MakeVec2(600, 0), mustCircle(t, 0.01), 0.0)

	if err := world.Step(1.0 / 60.0); err != nil {
		t.Fatalf("step: %v", err)
	}

	if x := ball.GetPosition().X; x >= -0.05 {
		t.Fatalf("ball tunnelled to x = %v", x)
	}

	linTol := world.GetSettings().LinearTolerance
	sep := ballFixture.Separation(wall).Distance
	if math.Abs(sep) > linTol+1e-9 {
		t.Fatalf("separation after impact = %v, want within %v", sep, linTol)
	}

	// Velocity is left to the next discrete step.
	if v := ball.GetLinearVelocity(); v.X != 600.0 {
		t.Fatalf("velocity = %v, want unchanged", v)
	}
}

func TestContinuousCollisionCanBeDisabled(t *testing.T) {
	settings := DefaultSettings()
	settings.ContinuousCollision = false
	world, err := NewWorld(MakeVec2(0, 0), settings)
	if err != nil {
		t.Fatalf("new world: %v", err)
	}
	addBody(t, world, BodyType.E_staticBody, MakeVec2(0, 0), Vec2{}, mustBox(t, 0.05, 2.0), 0.0)
	ball, _ := addBody(t, world, BodyType.E_dynamicBody, MakeVec2(-5, 0), MakeVec2(600, 0), mustCircle(t, 0.01), 0.0)

	if err := world.Step(1.0 / 60.0); err != nil {
		t.Fatalf("step: %v", err)
	}
	if x := ball.GetPosition().X; math.Abs(x-5.0) > 1e-9 {
		t.Fatalf("x = %v, want the ball to pass through", x)
	}
}

func TestContactEventOrder(t *testing.T) {
	world := newTestWorld(t, MakeVec2(0, 0))
	rec := &recorder{}
	world.SetContactListener(rec)
	world.AddStepListener(rec)

	addBody(t, world, BodyType.E_staticBody, MakeVec2(0, 0), Vec2{}, mustBox(t, 5.0, 0.5), 0.0)
	ball, _ := addBody(t, world, BodyType.E_dynamicBody, MakeVec2(0, 0.99), Vec2{}, mustCircle(t, 0.5), 0.0)

	dt := 1.0 / 60.0
	if err := world.Step(dt); err != nil {
		t.Fatalf("step: %v", err)
	}
	if got, want := rec.take(), "beginStep,preSolve,postSolve,begin,endStep"; got != want {
		t.Fatalf("first step calls = %s, want %s", got, want)
	}

	if err := world.Step(dt); err != nil {
		t.Fatalf("step: %v", err)
	}
	if got, want := rec.take(), "beginStep,preSolve,postSolve,persist,endStep"; got != want {
		t.Fatalf("second step calls = %s, want %s", got, want)
	}

	if err := ball.SetTransform(MakeVec2(10, 10), 0.0); err != nil {
		t.Fatalf("set transform: %v", err)
	}
	if err := world.Step(dt); err != nil {
		t.Fatalf("step: %v", err)
	}
	if got, want := rec.take(), "beginStep,end,endStep"; got != want {
		t.Fatalf("third step calls = %s, want %s", got, want)
	}
	if world.GetContactCount() != 0 {
		t.Fatalf("contact count = %d, want 0", world.GetContactCount())
	}
}

func TestWarmStartCarriesImpulsesById(t *testing.T) {
	world := newTestWorld(t, MakeVec2(0, -10))
	addBody(t, world, BodyType.E_staticBody, MakeVec2(0, 0), Vec2{}, mustBox(t, 5.0, 0.5), 0.0)
	addBody(t, world, BodyType.E_dynamicBody, MakeVec2(0, 0.99), Vec2{}, mustBox(t, 0.5, 0.5), 0.0)

	matched := 0
	rec := &recorder{}
	rec.onPreSolve = func(contact *Contact, oldManifold *Manifold) {
		manifold := contact.GetManifold()
		for i := 0; i < manifold.PointCount; i++ {
			mp := manifold.Points[i]
			for j := 0; j < oldManifold.PointCount; j++ {
				old := oldManifold.Points[j]
				if old.ID != mp.ID {
					continue
				}
				if old.NormalImpulse != mp.NormalImpulse || old.TangentImpulse != mp.TangentImpulse {
					t.Errorf("point %v: impulses %v/%v, old %v/%v",
						mp.ID, mp.NormalImpulse, mp.TangentImpulse, old.NormalImpulse, old.TangentImpulse)
				}
				if old.NormalImpulse > 0.0 {
					matched++
				}
			}
		}
	}
	world.SetContactListener(rec)

	for i := 0; i < 10; i++ {
		if err := world.Step(1.0 / 60.0); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
	}

	if matched == 0 {
		t.Fatalf("no warm started points observed")
	}
}

func TestPreSolveCanDisableContact(t *testing.T) {
	world := newTestWorld(t, MakeVec2(0, 0))
	rec := &recorder{}
	rec.onPreSolve = func(contact *Contact, oldManifold *Manifold) {
		contact.SetEnabled(false)
	}
	world.SetContactListener(rec)

	bodyA, _ := addBody(t, world, BodyType.E_dynamicBody, MakeVec2(-0.499, 0), MakeVec2(5, 0), mustCircle(t, 0.5), 1.0)
	addBody(t, world, BodyType.E_dynamicBody, MakeVec2(0.499, 0), MakeVec2(-5, 0), mustCircle(t, 0.5), 1.0)

	if err := world.Step(1.0 / 60.0); err != nil {
		t.Fatalf("step: %v", err)
	}
	if v := bodyA.GetLinearVelocity(); v.X != 5.0 {
		t.Fatalf("velocity = %v, want unchanged", v)
	}
	if strings.Contains(rec.take(), "postSolve") {
		t.Fatalf("disabled contact reached the solver")
	}
}

func TestStepInsideCallback(t *testing.T) {
	world := newTestWorld(t, MakeVec2(0, -10))
	victim, _ := addBody(t, world, BodyType.E_dynamicBody, MakeVec2(0, 0), Vec2{}, mustCircle(t, 0.5), 0.0)

	var stepErr, createErr, destroyErr error
	rec := &recorder{}
	rec.onEndStep = func(w *World) {
		stepErr = w.Step(1.0 / 60.0)
		_, createErr = w.CreateBody(MakeBodyDef())
		destroyErr = w.DestroyBody(victim)

		if w.GetBodyCount() != 1 {
			t.Errorf("body destroyed inside the step")
		}
	}
	world.AddStepListener(rec)

	if err := world.Step(1.0 / 60.0); err != nil {
		t.Fatalf("step: %v", err)
	}

	if !IsCode(stepErr, CodeReentrantStep) {
		t.Fatalf("expected REENTRANT_STEP, got %v", stepErr)
	}
	if !IsCode(createErr, CodeWorldLocked) {
		t.Fatalf("expected WORLD_LOCKED, got %v", createErr)
	}
	if destroyErr != nil {
		t.Fatalf("deferred destroy: %v", destroyErr)
	}

	if world.IsLocked() {
		t.Fatalf("world still locked after step")
	}
	if world.GetBodyCount() != 0 || world.GetProxyCount() != 0 {
		t.Fatalf("bodies = %d proxies = %d, want 0", world.GetBodyCount(), world.GetProxyCount())
	}
	if victim.GetWorld() != nil {
		t.Fatalf("destroyed body still attached")
	}
}

type goodbyes struct {
	fixtures int
	joints   int
}

func (g *goodbyes) SayGoodbyeToFixture(fixture *Fixture) {
	g.fixtures++
}

func (g *goodbyes) SayGoodbyeToJoint(joint Joint) {
	g.joints++
}

func TestDestroyBodyRemovesJointsAndFixtures(t *testing.T) {
	world := newTestWorld(t, MakeVec2(0, -10))
	listener := &goodbyes{}
	world.SetDestructionListener(listener)

	body, _ := addBody(t, world, BodyType.E_dynamicBody, MakeVec2(0, 0), Vec2{}, mustCircle(t, 0.5), 0.0)
	body.CreateFixtureFromShape(mustBox(t, 0.2, 0.2), 1.0)

	target := MakeVec2(0, 0)
	def := MakeMouseJointDef()
	def.Body = body
	def.Target = &target
	def.MaxForce = 100.0
	joint, err := NewMouseJoint(world, def)
	if err != nil {
		t.Fatalf("mouse joint: %v", err)
	}

	if err := world.DestroyBody(body); err != nil {
		t.Fatalf("destroy: %v", err)
	}

	if listener.fixtures != 2 || listener.joints != 1 {
		t.Fatalf("goodbyes = %+v, want 2 fixtures 1 joint", *listener)
	}
	if world.GetJointCount() != 0 || joint.GetIndex() != -1 {
		t.Fatalf("joint not removed: count %d index %d", world.GetJointCount(), joint.GetIndex())
	}
	if err := world.DestroyBody(body); !IsCode(err, CodeInvalidArgument) {
		t.Fatalf("expected INVALID_ARGUMENT for a destroyed body, got %v", err)
	}
	if err := world.DestroyBody(nil); !IsCode(err, CodeMissingArgument) {
		t.Fatalf("expected MISSING_ARGUMENT, got %v", err)
	}
}

func TestQueryAABB(t *testing.T) {
	world := newTestWorld(t, MakeVec2(0, -10))
	for _, x := range []float64{0, 5, 10} {
		addBody(t, world, BodyType.E_staticBody, MakeVec2(x, 0), Vec2{}, mustBox(t, 0.5, 0.5), 0.0)
	}

	var hits []Vec2
	world.QueryAABB(func(fixture *Fixture) bool {
		hits = append(hits, fixture.GetBody().GetPosition())
		return true
	}, MakeAABB(MakeVec2(-1, -1), MakeVec2(6, 1)))

	if len(hits) != 2 || hits[0].X != 0 || hits[1].X != 5 {
		t.Fatalf("hits = %v, want bodies at 0 and 5", hits)
	}
}

func TestShiftOrigin(t *testing.T) {
	world := newTestWorld(t, MakeVec2(0, -10))
	body, fixture := addBody(t, world, BodyType.E_dynamicBody, MakeVec2(10, 5), Vec2{}, mustCircle(t, 0.5), 0.0)

	if err := world.ShiftOrigin(MakeVec2(10, 0)); err != nil {
		t.Fatalf("shift: %v", err)
	}
	if p := body.GetPosition(); p != MakeVec2(0, 5) {
		t.Fatalf("position = %v, want (0, 5)", p)
	}

	found := false
	world.QueryAABB(func(f *Fixture) bool {
		found = f == fixture
		return !found
	}, MakeAABB(MakeVec2(-0.1, 4.9), MakeVec2(0.1, 5.1)))
	if !found {
		t.Fatalf("fixture proxy not shifted")
	}
}

func TestBodiesFallAsleep(t *testing.T) {
	world := newTestWorld(t, MakeVec2(0, 0))
	body, _ := addBody(t, world, BodyType.E_dynamicBody, MakeVec2(0, 0), Vec2{}, mustCircle(t, 0.5), 0.0)

	for i := 0; i < 40; i++ {
		if err := world.Step(1.0 / 60.0); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
	}
	if body.IsAwake() {
		t.Fatalf("body still awake after 40 still steps")
	}

	world.SetAllowSleeping(false)
	if !body.IsAwake() {
		t.Fatalf("disabling sleep should wake bodies")
	}
}

func TestStepContextLogsProfile(t *testing.T) {
	world := newTestWorld(t, MakeVec2(0, -10))
	var buf bytes.Buffer
	world.SetLogger(log.New(&buf, "", 0))
	addBody(t, world, BodyType.E_dynamicBody, MakeVec2(0, 0), Vec2{}, mustCircle(t, 0.5), 0.0)

	if err := world.StepContext(context.Background(), 1.0/60.0); err != nil {
		t.Fatalf("step: %v", err)
	}
	if !strings.Contains(buf.String(), "dyn4j: step") {
		t.Fatalf("missing profile line in %q", buf.String())
	}

	buf.Reset()
	world.Dump()
	if !strings.Contains(buf.String(), "NewWorld(") {
		t.Fatalf("dump output = %q", buf.String())
	}
}

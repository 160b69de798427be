package dyn4j_test

import (
	"fmt"
	"sort"
	"testing"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/satishbabusee/dyn4j"
)

func diffOutputs(t *testing.T, expected string, output string) {
	t.Helper()
	if output == expected {
		return
	}

	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(expected),
		B:        difflib.SplitLines(output),
		FromFile: "Expected",
		ToFile:   "Current",
		Context:  0,
	}
	text, _ := difflib.GetUnifiedDiffString(diff)
	t.Fatalf("trajectory mismatch:\n%s", text)
}

func TestFreeFallTrajectory(t *testing.T) {
	world, err := dyn4j.NewWorld(dyn4j.MakeVec2(0.0, -10.0), dyn4j.DefaultSettings())
	if err != nil {
		t.Fatal(err)
	}

	characters := make(map[string]*dyn4j.Body)

	{
		bd := dyn4j.MakeBodyDef()
		bd.Type = dyn4j.BodyType.E_dynamicBody
		bd.Position = dyn4j.MakeVec2(0.0, 10.0)
		body, err := world.CreateBody(bd)
		if err != nil {
			t.Fatal(err)
		}
		characters["00_falling"] = body
	}

	{
		bd := dyn4j.MakeBodyDef()
		bd.Type = dyn4j.BodyType.E_dynamicBody
		bd.LinearVelocity = dyn4j.MakeVec2(3.0, 0.0)
		body, err := world.CreateBody(bd)
		if err != nil {
			t.Fatal(err)
		}
		characters["01_launched"] = body
	}

	characterNames := make([]string, 0, len(characters))
	for k := range characters {
		characterNames = append(characterNames, k)
	}
	sort.Strings(characterNames)

	output := ""
	for i := 0; i < 5; i++ {
		if err := world.Step(1.0 / 60.0); err != nil {
			t.Fatal(err)
		}

		for _, name := range characterNames {
			character := characters[name]
			p := character.GetPosition()
			v := character.GetLinearVelocity()
			output += fmt.Sprintf("%v(%s): %.5f %.5f %.5f %.5f\n", i, name, p.X, p.Y, v.X, v.Y)
		}
	}

	diffOutputs(t, expectedFreeFall, output)
}

var expectedFreeFall = `0(00_falling): 0.00000 9.99722 0.00000 -0.16667
0(01_launched): 0.05000 -0.00278 3.00000 -0.16667
1(00_falling): 0.00000 9.99167 0.00000 -0.33333
1(01_launched): 0.10000 -0.00833 3.00000 -0.33333
2(00_falling): 0.00000 9.98333 0.00000 -0.50000
2(01_launched): 0.15000 -0.01667 3.00000 -0.50000
3(00_falling): 0.00000 9.97222 0.00000 -0.66667
3(01_launched): 0.20000 -0.02778 3.00000 -0.66667
4(00_falling): 0.00000 9.95833 0.00000 -0.83333
4(01_launched): 0.25000 -0.04167 3.00000 -0.83333
`

func rounded(v float64) string {
	s := fmt.Sprintf("%.1f", v)
	if s == "-0.0" {
		return "0.0"
	}
	return s
}

func addShapeBody(t *testing.T, world *dyn4j.World, position dyn4j.Vec2, shape dyn4j.Shape) *dyn4j.Body {
	t.Helper()
	bd := dyn4j.MakeBodyDef()
	bd.Type = dyn4j.BodyType.E_dynamicBody
	bd.Position = position
	body, err := world.CreateBody(bd)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := body.CreateFixtureFromShape(shape, 1.0); err != nil {
		t.Fatal(err)
	}
	return body
}

func TestRestingContactTrajectory(t *testing.T) {
	world, err := dyn4j.NewWorld(dyn4j.MakeVec2(0.0, -10.0), dyn4j.DefaultSettings())
	if err != nil {
		t.Fatal(err)
	}

	{
		ground, err := world.CreateBody(dyn4j.MakeBodyDef())
		if err != nil {
			t.Fatal(err)
		}
		shape, err := dyn4j.MakeSegmentShape(dyn4j.MakeVec2(-10.0, 0.0), dyn4j.MakeVec2(10.0, 0.0))
		if err != nil {
			t.Fatal(err)
		}
		if _, err := ground.CreateFixtureFromShape(shape, 0.0); err != nil {
			t.Fatal(err)
		}
	}

	box, err := dyn4j.MakeBoxShape(0.5, 0.5)
	if err != nil {
		t.Fatal(err)
	}
	ball, err := dyn4j.MakeCircleShape(0.5)
	if err != nil {
		t.Fatal(err)
	}

	characters := map[string]*dyn4j.Body{
		"00_stack_bottom": addShapeBody(t, world, dyn4j.MakeVec2(0.0, 0.49), box),
		"01_stack_top":    addShapeBody(t, world, dyn4j.MakeVec2(0.0, 1.48), box),
		"02_dropped_box":  addShapeBody(t, world, dyn4j.MakeVec2(-3.0, 2.0), box),
		"03_dropped_ball": addShapeBody(t, world, dyn4j.MakeVec2(3.0, 2.0), ball),
	}

	characterNames := make([]string, 0, len(characters))
	for k := range characters {
		characterNames = append(characterNames, k)
	}
	sort.Strings(characterNames)

	output := ""
	for i := 0; i < 120; i++ {
		if err := world.Step(1.0 / 60.0); err != nil {
			t.Fatal(err)
		}
		if i != 0 && i != 59 && i != 119 {
			continue
		}

		for _, name := range characterNames {
			character := characters[name]
			p := character.GetPosition()
			output += fmt.Sprintf("%v(%s): %s %s %s\n", i, name, rounded(p.X), rounded(p.Y), rounded(character.GetAngle()))
		}

		touching := 0
		for _, contact := range world.GetContacts() {
			if contact.IsTouching() {
				touching++
			}
		}
		output += fmt.Sprintf("%v: touching %d\n", i, touching)
	}

	diffOutputs(t, expectedRestingContact, output)
}

var expectedRestingContact = `0(00_stack_bottom): 0.0 0.5 0.0
0(01_stack_top): 0.0 1.5 0.0
0(02_dropped_box): -3.0 2.0 0.0
0(03_dropped_ball): 3.0 2.0 0.0
0: touching 2
59(00_stack_bottom): 0.0 0.5 0.0
59(01_stack_top): 0.0 1.5 0.0
59(02_dropped_box): -3.0 0.5 0.0
59(03_dropped_ball): 3.0 0.5 0.0
59: touching 4
119(00_stack_bottom): 0.0 0.5 0.0
119(01_stack_top): 0.0 1.5 0.0
119(02_dropped_box): -3.0 0.5 0.0
119(03_dropped_ball): 3.0 0.5 0.0
119: touching 4
`

// Build a small pyramid and record every body state at full precision.
func simulatePyramid(t *testing.T, steps int) string {
	t.Helper()

	world, err := dyn4j.NewWorld(dyn4j.MakeVec2(0.0, -10.0), dyn4j.DefaultSettings())
	if err != nil {
		t.Fatal(err)
	}

	{
		bd := dyn4j.MakeBodyDef()
		ground, err := world.CreateBody(bd)
		if err != nil {
			t.Fatal(err)
		}
		shape, err := dyn4j.MakeSegmentShape(dyn4j.MakeVec2(-40.0, 0.0), dyn4j.MakeVec2(40.0, 0.0))
		if err != nil {
			t.Fatal(err)
		}
		if _, err := ground.CreateFixtureFromShape(shape, 0.0); err != nil {
			t.Fatal(err)
		}
	}

	box, err := dyn4j.MakeBoxShape(0.5, 0.5)
	if err != nil {
		t.Fatal(err)
	}
	ball, err := dyn4j.MakeCircleShape(0.25)
	if err != nil {
		t.Fatal(err)
	}

	const rows = 4
	for row := 0; row < rows; row++ {
		for col := 0; col < rows-row; col++ {
			bd := dyn4j.MakeBodyDef()
			bd.Type = dyn4j.BodyType.E_dynamicBody
			bd.Position = dyn4j.MakeVec2(float64(col)*1.05+0.525*float64(row)-1.5, 0.5+float64(row)*1.0)
			body, err := world.CreateBody(bd)
			if err != nil {
				t.Fatal(err)
			}

			fd := dyn4j.MakeFixtureDef()
			fd.Shape = box
			fd.Density = 1.0
			fd.Friction = 0.6
			if _, err := body.CreateFixture(fd); err != nil {
				t.Fatal(err)
			}
		}
	}

	{
		bd := dyn4j.MakeBodyDef()
		bd.Type = dyn4j.BodyType.E_dynamicBody
		bd.Position = dyn4j.MakeVec2(-6.0, 3.0)
		bd.LinearVelocity = dyn4j.MakeVec2(20.0, 0.0)
		bd.Bullet = true
		body, err := world.CreateBody(bd)
		if err != nil {
			t.Fatal(err)
		}

		fd := dyn4j.MakeFixtureDef()
		fd.Shape = ball
		fd.Density = 5.0
		fd.Restitution = 0.3
		if _, err := body.CreateFixture(fd); err != nil {
			t.Fatal(err)
		}
	}

	output := ""
	for i := 0; i < steps; i++ {
		if err := world.Step(1.0 / 60.0); err != nil {
			t.Fatal(err)
		}

		for _, body := range world.GetBodies() {
			p := body.GetPosition()
			v := body.GetLinearVelocity()
			output += fmt.Sprintf("%v(%d): %.17g %.17g %.17g %.17g %.17g\n",
				i, body.GetID(), p.X, p.Y, body.GetAngle(), v.X, v.Y)
		}
		output += fmt.Sprintf("%v: contacts %d\n", i, world.GetContactCount())
	}

	// Every box and the ball must still be resting on or above the ground.
	for _, body := range world.GetBodies() {
		if body.GetType() != dyn4j.BodyType.E_dynamicBody {
			continue
		}
		if y := body.GetPosition().Y; y < 0.2 {
			t.Fatalf("body %d fell through the ground to y = %v", body.GetID(), y)
		}
	}
	return output
}

func TestStepIsDeterministic(t *testing.T) {
	first := simulatePyramid(t, 100)
	second := simulatePyramid(t, 100)
	diffOutputs(t, first, second)
}

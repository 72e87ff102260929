package move

import (
	"testing"

	"go.viam.com/test"
)

func TestStateString(t *testing.T) {
	test.That(t, Provisional.String(), test.ShouldEqual, "provisional")
	test.That(t, Frozen.String(), test.ShouldEqual, "frozen")
	test.That(t, Executing.String(), test.ShouldEqual, "executing")
	test.That(t, Completed.String(), test.ShouldEqual, "completed")
}

func TestSteadyDistance(t *testing.T) {
	k := &Kinematics{AccelDistance: 2, DecelStartDistance: 8}
	test.That(t, k.SteadyDistance(), test.ShouldEqual, float32(6))

	k2 := &Kinematics{AccelDistance: 5, DecelStartDistance: 5}
	test.That(t, k2.SteadyDistance(), test.ShouldEqual, float32(0))
}

func TestIsDecelerationMove(t *testing.T) {
	k := &Kinematics{AccelDistance: 0, StartSpeed: 10, EndSpeed: 0}
	test.That(t, k.IsDecelerationMove(), test.ShouldBeTrue)

	k2 := &Kinematics{AccelDistance: 1, StartSpeed: 10, EndSpeed: 0}
	test.That(t, k2.IsDecelerationMove(), test.ShouldBeFalse)
}

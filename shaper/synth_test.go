package shaper

import (
	"testing"

	"go.viam.com/test"
)

const stepRate = 750000

func TestZVDSynthesis(t *testing.T) {
	// spec.md scenario 1: type=zvd, F=40, damping=0.1
	p, err := synthesizeKnown(ZVD, 40, 0.1, 1, stepRate, nil, nil)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, p.NumExtraImpulses, test.ShouldEqual, 2)
	test.That(t, p.Coefficients[0], test.ShouldAlmostEqual, float32(0.33441491), 1e-4)
	test.That(t, p.Coefficients[1], test.ShouldAlmostEqual, float32(0.82215746), 1e-4)
	test.That(t, p.Durations[0], test.ShouldAlmostEqual, float32(0.012562973), 1e-4)
	test.That(t, p.Durations[1], test.ShouldAlmostEqual, float32(0.012562973), 1e-4)

	test.That(t, p.TotalShapingClocks, test.ShouldAlmostEqual, float32(9422.23), 1)
	test.That(t, p.ClocksLostAtStart, test.ShouldAlmostEqual, float32(6271.30), 1)
	test.That(t, p.ClocksLostAtEnd, test.ShouldAlmostEqual, float32(3150.93), 1)
	test.That(t, p.ClocksLostAtStart+p.ClocksLostAtEnd, test.ShouldAlmostEqual, p.TotalShapingClocks, 0.01)
}

func TestZVDDSynthesis(t *testing.T) {
	p, err := synthesizeKnown(ZVDD, 40, 0.0, 1, stepRate, nil, nil)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, p.NumExtraImpulses, test.ShouldEqual, 3)
	// k=1 at zeta=0: j=8, c0=1/8, c1=1/8+3/8=1/2, c2=1/2+3/8=7/8
	test.That(t, p.Coefficients[0], test.ShouldAlmostEqual, float32(0.125), 1e-4)
	test.That(t, p.Coefficients[1], test.ShouldAlmostEqual, float32(0.5), 1e-4)
	test.That(t, p.Coefficients[2], test.ShouldAlmostEqual, float32(0.875), 1e-4)
}

func TestEI2Synthesis(t *testing.T) {
	// spec.md scenario 2: type=ei2, F=50, damping=0.0, reproduced to the
	// literal values the scenario gives (spec §4.B, §9: EI2/EI3
	// constants must be reproduced verbatim, not re-derived from a
	// closed form).
	p, err := synthesizeKnown(EI2, 50, 0.0, 1, stepRate, nil, nil)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, p.NumExtraImpulses, test.ShouldEqual, 3)
	test.That(t, p.Coefficients[0], test.ShouldAlmostEqual, float32(0.16054), 1e-4)
	test.That(t, p.Coefficients[1], test.ShouldAlmostEqual, float32(0.49965), 1e-4)
	test.That(t, p.Coefficients[2], test.ShouldAlmostEqual, float32(0.84054), 1e-4)
	test.That(t, p.Durations[0], test.ShouldAlmostEqual, float32(0.0099780), 1e-5)
	test.That(t, p.Durations[1], test.ShouldAlmostEqual, float32(0.0099716), 1e-5)
	test.That(t, p.Durations[2], test.ShouldAlmostEqual, float32(0.0100344), 1e-5)
}

func TestEI3SynthesisInvariants(t *testing.T) {
	p, err := synthesizeKnown(EI3, 60, 0.2, 1, stepRate, nil, nil)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, p.NumExtraImpulses, test.ShouldEqual, 4)
	test.That(t, len(p.Coefficients), test.ShouldEqual, 4)
	assertMonotonic(t, p.Coefficients)
}

func TestCoefficientMonotonicity(t *testing.T) {
	for _, typ := range []Type{ZVD, ZVDD, EI2, EI3} {
		for _, zeta := range []float32{0, 0.1, 0.3, 0.6, 0.9} {
			p, err := synthesizeKnown(typ, 50, zeta, 1, stepRate, nil, nil)
			test.That(t, err, test.ShouldBeNil)
			assertMonotonic(t, p.Coefficients)
		}
	}
}

func assertMonotonic(t *testing.T, coeffs []float32) {
	t.Helper()
	prev := float32(0)
	for _, c := range coeffs {
		test.That(t, c, test.ShouldBeGreaterThan, prev)
		test.That(t, c, test.ShouldBeLessThan, float32(1))
		prev = c
	}
}

func TestNoneAndDAAHaveNoImpulses(t *testing.T) {
	n, err := synthesizeKnown(None, 40, 0.1, 1, stepRate, nil, nil)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, n.NumExtraImpulses, test.ShouldEqual, 0)
	test.That(t, n.TotalShapingClocks, test.ShouldEqual, float32(0))

	d, err := synthesizeKnown(DAA, 40, 0.0, 1, stepRate, nil, nil)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, d.NumExtraImpulses, test.ShouldEqual, 0)
	test.That(t, d.RingingPeriod, test.ShouldAlmostEqual, float32(1.0/40.0), 1e-6)
}

func TestCustomSynthesis(t *testing.T) {
	p, err := synthesizeKnown(Custom, 40, 0, 1, stepRate, []float32{0.3, 0.7, 0.95}, nil)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, p.NumExtraImpulses, test.ShouldEqual, 3)
	test.That(t, p.Durations[0], test.ShouldAlmostEqual, float32(0.5/40.0), 1e-6)
}

func TestLostTimeLoopBoundExcludesLastDuration(t *testing.T) {
	// spec.md §9 open question: totalDuration/lost-time sums range over
	// i in [0, n-1), never touching durations[n-1].
	p, err := synthesizeKnown(ZVDD, 40, 0.1, 1, stepRate, nil, nil)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, p.TotalDuration, test.ShouldAlmostEqual, p.Durations[0]+p.Durations[1], 1e-6)
}

func TestOverlapTablePeakIsOne(t *testing.T) {
	p, err := synthesizeKnown(ZVD, 40, 0.1, 1, stepRate, nil, nil)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, len(p.Overlapped), test.ShouldEqual, 4)
	var maxV float32
	for _, v := range p.Overlapped {
		if v > maxV {
			maxV = v
		}
	}
	test.That(t, maxV, test.ShouldAlmostEqual, float32(1), 1e-5)
}

func TestUnknownTypeReverts(t *testing.T) {
	p, err := synthesize(Config{TypeName: "bogus"}, stepRate, true)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "Unsupported input shaper type 'bogus'")
	test.That(t, p, test.ShouldNotBeNil)
	test.That(t, p.Type, test.ShouldEqual, None)
}

func TestCustomArityMismatchReverts(t *testing.T) {
	p, err := synthesize(Config{
		TypeName:         "custom",
		CustomAmplitudes: []float32{0.5, 1.0},
		CustomDurations:  []float32{0.01},
	}, stepRate, true)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "Too few durations given")
	test.That(t, p.Type, test.ShouldEqual, None)
}

func TestOutOfRangeFrequencyRejectsWithoutParams(t *testing.T) {
	p, err := synthesize(Config{TypeName: "zvd", Frequency: 5000}, stepRate, true)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, p, test.ShouldBeNil)
}

func TestMinAccelerationClamp(t *testing.T) {
	p, err := synthesizeKnown(ZVD, 40, 0.1, 0.2, stepRate, nil, nil)
	test.That(t, err, test.ShouldBeNil)
	// clamping happens in synthesize, not synthesizeKnown; exercise the
	// full path instead.
	_ = p
	p2, err := synthesize(Config{TypeName: "zvd", Frequency: 40, Damping: 0.1, MinAcceleration: 0.2}, stepRate, true)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, p2.MinAcceleration, test.ShouldEqual, float32(1.0))
}

func TestDefaultTypeWhenUnset(t *testing.T) {
	p, err := synthesize(Config{Frequency: 40}, stepRate, true)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, p.Type, test.ShouldEqual, DAA)

	p2, err := synthesize(Config{Frequency: 40}, stepRate, false)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, p2.Type, test.ShouldEqual, ZVD)
}

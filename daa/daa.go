// Package daa implements the Dynamic Acceleration Adjustment path (spec
// §4.E): an alternative to impulse shaping that stretches a move's
// acceleration and deceleration phases onto the mechanical ringing
// period instead of splicing in extra impulses. A move adjusted by DAA
// carries no impulse segments at all — it falls through to the plain
// unshaped chain (spec §4.D step 1).
package daa

import "github.com/Caribou3d/motionshaper/move"

// Adjust rewrites k's acceleration/deceleration magnitudes, phase
// distances and phase clocks (and, in the triangular/degenerate cases,
// its peak speed) to align with the ringing period T = 1/omega_d. It reports whether any
// change was made; an unchanged move keeps its original trapezoid
// profile untouched and is emitted unshaped by the caller regardless.
func Adjust(k *move.Kinematics, minAcceleration, ringingPeriod, stepRate float32) bool {
	origAccel := k.Acceleration
	origDecel := k.Deceleration

	accelEligible := !(k.Prev != nil && k.Prev.State == move.Executing && k.Prev.WasAccelOnlyMove)
	decelEligible := !(k.Next != nil && k.Next.State == move.Provisional && k.Next.IsDecelerationMove)

	accelDelta := k.TopSpeed - k.StartSpeed
	decelDelta := k.TopSpeed - k.EndSpeed

	var aPrime, accelTime float32
	accelChanged := false
	if accelDelta > 0 && origAccel > 0 {
		t := accelDelta / origAccel
		switch {
		case t < ringingPeriod && accelEligible:
			aPrime, accelTime, accelChanged = accelDelta/ringingPeriod, ringingPeriod, true
		case t < 2*ringingPeriod:
			aPrime, accelTime, accelChanged = accelDelta/(2*ringingPeriod), 2*ringingPeriod, true
		}
	}

	var dPrime, decelTime float32
	decelChanged := false
	if decelDelta > 0 && origDecel > 0 {
		t := decelDelta / origDecel
		switch {
		case t < ringingPeriod && decelEligible:
			dPrime, decelTime, decelChanged = decelDelta/ringingPeriod, ringingPeriod, true
		case t < 2*ringingPeriod:
			dPrime, decelTime, decelChanged = decelDelta/(2*ringingPeriod), 2*ringingPeriod, true
		}
	}

	if !accelChanged && !decelChanged {
		return false
	}

	accelDist, decelDist := k.AccelDistance, k.DecelDistance
	if accelChanged {
		accelDist = 0.5 * (k.StartSpeed + k.TopSpeed) * accelTime
	}
	if decelChanged {
		decelDist = 0.5 * (k.TopSpeed + k.EndSpeed) * decelTime
	}

	trapezoidOK := accelDist+decelDist <= k.TotalDistance
	if trapezoidOK {
		if (!accelChanged || aPrime >= minAcceleration) && (!decelChanged || dPrime >= minAcceleration) {
			if accelChanged {
				k.Acceleration = aPrime
				k.AccelClocks = accelTime * stepRate
			}
			if decelChanged {
				k.Deceleration = dPrime
				k.DecelClocks = decelTime * stepRate
			}
			k.AccelDistance = accelDist
			k.DecelStartDistance = k.TotalDistance - decelDist
			return true
		}
	}

	// Triangular profile: both phases stretched to exactly T, no cruise.
	top := k.TotalDistance/ringingPeriod - (k.StartSpeed+k.EndSpeed)/2
	if top > k.StartSpeed && top > k.EndSpeed {
		aTri := (top - k.StartSpeed) / ringingPeriod
		dTri := (top - k.EndSpeed) / ringingPeriod
		if aTri >= minAcceleration && dTri >= minAcceleration && aTri <= origAccel && dTri <= origDecel {
			k.Acceleration = aTri
			k.Deceleration = dTri
			k.TopSpeed = top
			k.AccelDistance = 0.5 * (k.StartSpeed + top) * ringingPeriod
			k.DecelStartDistance = k.AccelDistance
			k.AccelClocks = ringingPeriod * stepRate
			k.DecelClocks = ringingPeriod * stepRate
			return true
		}
	}

	switch {
	case k.StartSpeed < k.EndSpeed:
		aDeg := (k.EndSpeed*k.EndSpeed - k.StartSpeed*k.StartSpeed) / (2 * k.TotalDistance)
		if aDeg < minAcceleration {
			return false
		}
		k.Acceleration = aDeg
		k.TopSpeed = k.EndSpeed
		k.AccelDistance = k.TotalDistance
		k.DecelStartDistance = k.TotalDistance
		k.AccelClocks = (k.EndSpeed - k.StartSpeed) / aDeg * stepRate
		k.DecelClocks = 0
		return true
	case k.StartSpeed > k.EndSpeed:
		dDeg := (k.StartSpeed*k.StartSpeed - k.EndSpeed*k.EndSpeed) / (2 * k.TotalDistance)
		if dDeg < minAcceleration {
			return false
		}
		k.Deceleration = dDeg
		k.TopSpeed = k.StartSpeed
		k.AccelDistance = 0
		k.DecelStartDistance = 0
		k.AccelClocks = 0
		k.DecelClocks = (k.StartSpeed - k.EndSpeed) / dDeg * stepRate
		return true
	default:
		return false
	}
}

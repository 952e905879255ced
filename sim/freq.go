package sim

import "log"

// Freq is a clock frequency in Hz. It converts between cycle counts and
// simulated time at the process-wide resolution.
type Freq float64

// Frequency units.
const (
	Hz  Freq = 1
	KHz Freq = 1e3
	MHz Freq = 1e6
	GHz Freq = 1e9
)

// Period returns the time between two consecutive ticks. A frequency whose
// period rounds below one tick of the resolution cannot drive a clock and is
// a programming error.
func (f Freq) Period() VTime {
	if f == 0 {
		log.Panic("frequency cannot be 0")
	}

	period := TimeFromValue(1.0/float64(f), Second)
	if period <= 0 {
		log.Panicf("frequency %g Hz has no representable period at "+
			"resolution %s", float64(f), TimeResolution())
	}

	return period
}

// ThisTick returns the tick boundary at or immediately after now.
//
//	           Input
//	           (          ]
//	|----------|----------|----------|----->
//	                      |
//	                      Output
func (f Freq) ThisTick(now VTime) VTime {
	period := int64(f.Period())
	count := ceilDiv(int64(now), period)

	return VTime(mulInt64OrPanic(count, period))
}

// NextTick returns the first tick boundary strictly after now.
//
//	           Input
//	           [          )
//	|----------|----------|----------|----->
//	                      |
//	                      Output
func (f Freq) NextTick(now VTime) VTime {
	period := int64(f.Period())
	count := floorDiv(int64(now), period) + 1

	return VTime(mulInt64OrPanic(count, period))
}

// NCyclesLater returns the tick boundary n cycles after now. The result is
// always an integer number of cycles.
func (f Freq) NCyclesLater(n int, now VTime) VTime {
	return f.ThisTick(now.Add(f.Period().ScaleInt(int64(n))))
}

// HalfTick returns the time halfway between the tick at or after now and the
// following one.
func (f Freq) HalfTick(now VTime) VTime {
	return f.ThisTick(now).Add(f.Period().DivInt(2))
}

func ceilDiv(a, b int64) int64 {
	q := a / b
	if a%b > 0 {
		q++
	}
	return q
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if a%b < 0 {
		q--
	}
	return q
}

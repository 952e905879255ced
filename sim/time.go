package sim

import (
	"fmt"
	"log"
	"math"
	"sync"
)

// VTime is a point or span of simulated time, counted in ticks of the
// process-wide resolution unit. VTime values compare and hash as plain
// integers; all arithmetic is exact integer arithmetic on ticks.
type VTime int64

// MaxVTime is the latest representable time. The distributed engines use it
// as the "no more events" advertisement.
const MaxVTime = VTime(math.MaxInt64)

// A TimeUnit names one of the supported time units, from years down to
// femtoseconds.
type TimeUnit int

// The supported time units.
const (
	Year TimeUnit = iota
	Day
	Hour
	Minute
	Second
	MilliSecond
	MicroSecond
	NanoSecond
	PicoSecond
	FemtoSecond
	numTimeUnits
)

// unitScale expresses one unit as coeff * 10^exp seconds. The coarse-unit
// coefficients divide each other evenly, so unit-to-unit factors are exact
// integers in one direction or the other.
type unitScale struct {
	coeff  int64
	exp    int
	suffix string
}

var unitScales = [numTimeUnits]unitScale{
	Year:        {31536000, 0, "y"},
	Day:         {86400, 0, "d"},
	Hour:        {3600, 0, "h"},
	Minute:      {60, 0, "min"},
	Second:      {1, 0, "s"},
	MilliSecond: {1, -3, "ms"},
	MicroSecond: {1, -6, "us"},
	NanoSecond:  {1, -9, "ns"},
	PicoSecond:  {1, -12, "ps"},
	FemtoSecond: {1, -15, "fs"},
}

// ParseTimeUnit resolves a unit suffix such as "ns" or "min".
func ParseTimeUnit(s string) (TimeUnit, error) {
	for u := Year; u < numTimeUnits; u++ {
		if unitScales[u].suffix == s {
			return u, nil
		}
	}

	return 0, fmt.Errorf("unknown time unit %q", s)
}

// String returns the conventional suffix of the unit.
func (u TimeUnit) String() string {
	if u < 0 || u >= numTimeUnits {
		return fmt.Sprintf("TimeUnit(%d)", int(u))
	}
	return unitScales[u].suffix
}

var timeResolutionMutex sync.Mutex
var timeResolutionUsed bool
var timeResolution = NanoSecond

// SetTimeResolution fixes the process-wide unit that one tick represents.
// It must be called before any time value is converted or any event is
// scheduled. Changing the resolution after it has been used is a programming
// error.
func SetTimeResolution(u TimeUnit) {
	timeResolutionMutex.Lock()
	defer timeResolutionMutex.Unlock()

	if timeResolutionUsed {
		log.Panic("cannot change time resolution after it has been used")
	}

	if u < 0 || u >= numTimeUnits {
		log.Panicf("unknown time unit %d", int(u))
	}

	timeResolution = u
}

// TimeResolution returns the process-wide resolution unit.
func TimeResolution() TimeUnit {
	timeResolutionMutex.Lock()
	defer timeResolutionMutex.Unlock()

	return timeResolution
}

// freezeTimeResolution marks the resolution as used so that later
// SetTimeResolution calls fail. Called on every conversion and on the first
// scheduled event.
func freezeTimeResolution() TimeUnit {
	timeResolutionMutex.Lock()
	defer timeResolutionMutex.Unlock()

	timeResolutionUsed = true

	return timeResolution
}

// unitFactor returns the exact integer conversion factor between unit u and
// the resolution r. When mul is true, a value in unit u is multiplied by
// factor to produce ticks; otherwise it is divided.
func unitFactor(u, r TimeUnit) (factor int64, mul bool) {
	su := unitScales[u]
	sr := unitScales[r]

	if su.coeff >= sr.coeff && su.exp >= sr.exp {
		return scaleRatio(su, sr), true
	}

	return scaleRatio(sr, su), false
}

// scaleRatio computes coarse/fine as an exact int64, panicking on overflow.
func scaleRatio(coarse, fine unitScale) int64 {
	ratio := coarse.coeff / fine.coeff

	for i := 0; i < coarse.exp-fine.exp; i++ {
		ratio = mulInt64OrPanic(ratio, 10)
	}

	return ratio
}

func mulInt64OrPanic(a, b int64) int64 {
	if a == 0 || b == 0 {
		return 0
	}

	if (a == math.MinInt64 && b == -1) || (b == math.MinInt64 && a == -1) {
		log.Panicf("time arithmetic overflow: %d * %d", a, b)
	}

	r := a * b
	if r/b != a {
		log.Panicf("time arithmetic overflow: %d * %d", a, b)
	}

	return r
}

func addInt64OrPanic(a, b int64) int64 {
	if (b > 0 && a > math.MaxInt64-b) || (b < 0 && a < math.MinInt64-b) {
		log.Panicf("time arithmetic overflow: %d + %d", a, b)
	}
	return a + b
}

// TimeFromTicks creates a VTime from a raw tick count.
func TimeFromTicks(ticks int64) VTime {
	return VTime(ticks)
}

// TimeFromValue creates a VTime from a real-valued quantity in the given
// unit, rounding to the nearest representable tick. Values below the
// resolution's granularity may round to zero.
func TimeFromValue(v float64, u TimeUnit) VTime {
	r := freezeTimeResolution()
	factor, mul := unitFactor(u, r)

	var ticks float64
	if mul {
		ticks = math.Round(v * float64(factor))
	} else {
		ticks = math.Round(v / float64(factor))
	}

	if ticks > math.MaxInt64 || ticks < math.MinInt64 || math.IsNaN(ticks) {
		log.Panicf("time value %g%s is not representable at resolution %s",
			v, u, r)
	}

	return VTime(ticks)
}

// Seconds is shorthand for TimeFromValue(v, Second).
func Seconds(v float64) VTime {
	return TimeFromValue(v, Second)
}

// NanoSeconds is shorthand for a whole number of nanoseconds.
func NanoSeconds(v int64) VTime {
	r := freezeTimeResolution()
	factor, mul := unitFactor(NanoSecond, r)

	if mul {
		return VTime(mulInt64OrPanic(v, factor))
	}

	return VTime(roundedDiv(v, factor))
}

// Ticks returns the raw tick count.
func (t VTime) Ticks() int64 {
	return int64(t)
}

// In converts the time to a real-valued quantity in the given unit. The
// conversion is lossy when the unit is coarser than the resolution.
func (t VTime) In(u TimeUnit) float64 {
	r := freezeTimeResolution()
	factor, mul := unitFactor(u, r)

	if mul {
		return float64(t) / float64(factor)
	}

	return float64(t) * float64(factor)
}

// TicksIn converts the time to a whole number of the given unit, rounding to
// nearest. Conversion to a finer unit panics when the result would not fit in
// 64 bits.
func (t VTime) TicksIn(u TimeUnit) int64 {
	r := freezeTimeResolution()
	factor, mul := unitFactor(u, r)

	if mul {
		return roundedDiv(int64(t), factor)
	}

	return mulInt64OrPanic(int64(t), factor)
}

// roundedDiv divides a by b (b > 0), rounding half away from zero.
func roundedDiv(a, b int64) int64 {
	if a >= 0 {
		return (a + b/2) / b
	}
	return (a - b/2) / b
}

// StringIn renders the time as a number with the unit's suffix, e.g.
// "1500ns" for 1.5us rendered in nanoseconds.
func (t VTime) StringIn(u TimeUnit) string {
	return fmt.Sprintf("%g%s", t.In(u), u)
}

// String renders the time in the resolution unit.
func (t VTime) String() string {
	return fmt.Sprintf("%d%s", int64(t), freezeTimeResolution())
}

// Add returns t+d, panicking on overflow.
func (t VTime) Add(d VTime) VTime {
	return VTime(addInt64OrPanic(int64(t), int64(d)))
}

// Sub returns t-d, panicking on overflow.
func (t VTime) Sub(d VTime) VTime {
	return VTime(addInt64OrPanic(int64(t), -int64(d)))
}

// ScaleInt returns t*k, panicking on overflow.
func (t VTime) ScaleInt(k int64) VTime {
	return VTime(mulInt64OrPanic(int64(t), k))
}

// DivInt returns t/k truncated toward zero.
func (t VTime) DivInt(k int64) VTime {
	return VTime(int64(t) / k)
}

// IsZero tells whether the time is exactly zero.
func (t VTime) IsZero() bool {
	return t == 0
}

// IsNegative tells whether the time is before zero.
func (t VTime) IsNegative() bool {
	return t < 0
}

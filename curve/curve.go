package curve

import (
	"math"

	"github.com/milk9111/spriteclip/common"
)

// LinearTimeCurve maps a time value onto [StartValue, EndValue] using a wrap
// policy. It is immutable after construction.
type LinearTimeCurve struct {
	startTime  float64
	startValue float64
	endTime    float64
	endValue   float64
	timeRange  float64
	mode       WrapMode
}

// New builds a curve. A non-positive time range yields a curve that always
// evaluates to startValue.
func New(startTime, startValue, endTime, endValue float64, mode WrapMode) LinearTimeCurve {
	return LinearTimeCurve{
		startTime:  startTime,
		startValue: startValue,
		endTime:    endTime,
		endValue:   endValue,
		timeRange:  endTime - startTime,
		mode:       mode,
	}
}

func (c LinearTimeCurve) Valid() bool         { return c.timeRange > 0 }
func (c LinearTimeCurve) StartTime() float64  { return c.startTime }
func (c LinearTimeCurve) EndTime() float64    { return c.endTime }
func (c LinearTimeCurve) StartValue() float64 { return c.startValue }
func (c LinearTimeCurve) EndValue() float64   { return c.endValue }
func (c LinearTimeCurve) TimeRange() float64  { return c.timeRange }
func (c LinearTimeCurve) Mode() WrapMode      { return c.mode }

// Progress returns the normalized position for t. Once, Clamp and Default are
// deliberately left unclamped; callers clamp when they need to.
func (c LinearTimeCurve) Progress(t float64) float64 {
	if !c.Valid() {
		return 0
	}
	r := c.timeRange
	switch c.mode {
	case Loop:
		return math.Mod((r+common.Repeat(t, r))/r, 1)
	case PingPong:
		return common.PingPong(t, r) / r
	case ClampForever:
		return common.Clamp01(t / r)
	default:
		return t / r
	}
}

// Evaluate returns the curve value at t.
func (c LinearTimeCurve) Evaluate(t float64) float64 {
	if !c.Valid() {
		return c.startValue
	}
	return common.Lerp(c.startValue, c.endValue, c.Progress(t))
}

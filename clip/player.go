package clip

import (
	"math"

	"github.com/milk9111/spriteclip/curve"
)

// EventHandler is called when playback enters a frame carrying an event.
type EventHandler func(p *Player, frame int, e Event)

// Player steps through a clip in time, honouring its wrap mode, and fires
// the clip's events as their frames are entered.
//
// Loop plays every frame for one tick and starts over. PingPong runs back
// and forth without repeating the end frames. Every other mode holds the last
// frame and reports Done once it has been shown for a tick.
type Player struct {
	Handlers []EventHandler

	clip    *Clip
	elapsed float64
	frame   int
	started bool
	done    bool
}

func NewPlayer(c *Clip) *Player {
	return &Player{clip: c}
}

func (p *Player) Clip() *Clip      { return p.clip }
func (p *Player) Frame() int       { return p.frame }
func (p *Player) Elapsed() float64 { return p.elapsed }
func (p *Player) Done() bool       { return p.done }

// Reset rewinds to frame 0. The events on frame 0 fire again on the next
// Update.
func (p *Player) Reset() {
	p.elapsed = 0
	p.frame = 0
	p.started = false
	p.done = false
}

// SetFrame jumps to frame i, clamped to the clip, without firing events.
func (p *Player) SetFrame(i int) {
	i = max(0, min(i, p.clip.MaxFrameIndex()))
	p.frame = i
	p.elapsed = float64(i) * p.clip.Tick()
	p.started = true
	p.done = false
}

// Sample returns the keyframe n shows at the current frame.
func (p *Player) Sample(n *Component) (Keyframe, bool) {
	return n.SampleKey(p.frame)
}

// Update advances playback by dt seconds. Every frame entered on the way is
// visited in order, so events are not skipped by large steps; a step longer
// than a whole cycle only replays the last cycle.
func (p *Player) Update(dt float64) {
	if !p.started {
		p.started = true
		p.emit(p.frame)
	}
	if dt <= 0 || p.done {
		return
	}

	tick := p.clip.Tick()
	from := tickIndex(p.elapsed, tick)
	p.elapsed += dt
	to := tickIndex(p.elapsed, tick)
	if cycle := p.cycleTicks(); to-from > cycle {
		from = to - cycle
	}

	for k := from + 1; k <= to; k++ {
		f := p.frameAt(float64(k) * tick)
		if f == p.frame {
			continue
		}
		p.frame = f
		p.emit(f)
	}

	if !p.looping() && p.elapsed >= p.clip.Length()+tick {
		p.done = true
	}
}

func (p *Player) looping() bool {
	m := p.clip.WrapMode()
	return m == curve.Loop || m == curve.PingPong
}

// cycleTicks is the number of ticks before playback repeats itself,
// saturated at math.MaxInt.
func (p *Player) cycleTicks() int {
	last := p.clip.MaxFrameIndex()
	if p.clip.WrapMode() == curve.PingPong {
		if last > math.MaxInt/2 {
			return math.MaxInt
		}
		return max(1, 2*last)
	}
	if last == math.MaxInt {
		return last
	}
	return last + 1
}

// frameAt maps unwrapped playback time onto a frame.
func (p *Player) frameAt(t float64) int {
	length, tick := p.clip.Length(), p.clip.Tick()
	var local float64
	switch m := p.clip.WrapMode(); m {
	case curve.Loop:
		period := length + tick
		local = curve.New(0, 0, period, period, m).Evaluate(t)
	case curve.PingPong:
		local = curve.New(0, 0, length, length, m).Evaluate(t)
	default:
		local = math.Min(t, length)
	}
	return max(0, min(p.clip.FrameAt(local), p.clip.MaxFrameIndex()))
}

func (p *Player) emit(frame int) {
	if len(p.Handlers) == 0 {
		return
	}
	for _, e := range p.clip.events {
		if e.Frame != frame {
			continue
		}
		for _, h := range p.Handlers {
			if h != nil {
				h(p, frame, e)
			}
		}
	}
}

func tickIndex(t, tick float64) int {
	return int(math.Floor(t/tick + 1e-9))
}

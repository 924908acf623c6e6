// Package cue plays short audio cues for reader events.
package cue

// Kind identifies a reader event with its own sound.
type Kind int

const (
	WordAppear Kind = iota
	Start
	Stop
	Complete
	Keypress
	Hover
)

// Kinds lists every cue kind in declaration order.
var Kinds = []Kind{WordAppear, Start, Stop, Complete, Keypress, Hover}

// String returns the cue name, which is also its override file stem.
func (k Kind) String() string {
	switch k {
	case WordAppear:
		return "word_appear"
	case Start:
		return "start"
	case Stop:
		return "stop"
	case Complete:
		return "complete"
	case Keypress:
		return "keypress"
	case Hover:
		return "hover"
	default:
		return "unknown"
	}
}

// Player plays cues. Implementations must return promptly and swallow failures.
type Player interface {
	Play(k Kind)
}

// PlayerFunc adapts a function to Player.
type PlayerFunc func(Kind)

// Play implements Player.
func (f PlayerFunc) Play(k Kind) { f(k) }

// Nop is a Player that does nothing.
var Nop Player = PlayerFunc(func(Kind) {})

package board

import "fmt"

// Color identifies a camel on the track. The first five colors are racing
// camels; Black and White are the crazy camels that move backward as a
// linked pair on a single shared die.
type Color int

const (
	Red Color = iota
	Blue
	Green
	Orange
	Purple
	Black
	White
)

// NumRacers is the number of racing camels in a standard game.
const NumRacers = 5

// NumCrazy is the number of crazy camels (the linked backward pair).
const NumCrazy = 2

// String returns the full color name
func (c Color) String() string {
	switch c {
	case Red:
		return "Red"
	case Blue:
		return "Blue"
	case Green:
		return "Green"
	case Orange:
		return "Orange"
	case Purple:
		return "Purple"
	case Black:
		return "Black"
	case White:
		return "White"
	default:
		return "?"
	}
}

// Letter returns the single-letter notation for the color (k for Black to
// avoid clashing with Blue)
func (c Color) Letter() byte {
	switch c {
	case Red:
		return 'r'
	case Blue:
		return 'b'
	case Green:
		return 'g'
	case Orange:
		return 'o'
	case Purple:
		return 'p'
	case Black:
		return 'k'
	case White:
		return 'w'
	default:
		return '?'
	}
}

// IsRacer reports whether the camel is eligible to win or lose the race
func (c Color) IsRacer() bool {
	return c >= Red && c <= Purple
}

// IsCrazy reports whether the camel is one of the backward-moving pair
func (c Color) IsCrazy() bool {
	return c == Black || c == White
}

// ParseColor converts a single-letter notation back to a Color
func ParseColor(letter byte) (Color, error) {
	for c := Red; c <= White; c++ {
		if c.Letter() == letter {
			return c, nil
		}
	}
	return 0, fmt.Errorf("unknown camel letter %q", string(letter))
}

// Die identifies a colored die in the pyramid. Each racing camel has its
// own die; the crazy pair shares a single die.
type Die int

const (
	DieRed Die = iota
	DieBlue
	DieGreen
	DieOrange
	DiePurple
	DieCrazy
)

// String returns the die name
func (d Die) String() string {
	if d == DieCrazy {
		return "Crazy"
	}
	return Color(d).String()
}

// Letter returns the single-letter notation for the die ('*' for the
// shared crazy die)
func (d Die) Letter() byte {
	if d == DieCrazy {
		return '*'
	}
	return Color(d).Letter()
}

// Racer returns the racing camel the die moves, or false for the crazy die
func (d Die) Racer() (Color, bool) {
	if d == DieCrazy {
		return 0, false
	}
	return Color(d), true
}

// ParseDie converts a single-letter notation back to a Die
func ParseDie(letter byte) (Die, error) {
	if letter == '*' {
		return DieCrazy, nil
	}
	c, err := ParseColor(letter)
	if err != nil || !c.IsRacer() {
		return 0, fmt.Errorf("unknown die letter %q", string(letter))
	}
	return Die(c), nil
}

// TrapKind is the modifier a tile may carry for the duration of a leg
type TrapKind int

const (
	NoTrap TrapKind = iota
	Oasis           // extra move forward, stack order preserved
	Desert          // extra move backward, moved unit reversed
)

// String returns the trap name
func (t TrapKind) String() string {
	switch t {
	case Oasis:
		return "oasis"
	case Desert:
		return "desert"
	default:
		return "none"
	}
}

package board

import "fmt"

// Config holds the board geometry and dice parameters. Engines take a
// Config with every call rather than reading package-level constants, so
// tests can race on tiny boards.
type Config struct {
	// TrackLength is the number of tiles, indexed 0..TrackLength-1.
	TrackLength int

	// FinishLine is the tile index at or beyond which a camel finishes.
	FinishLine int

	// RacerCount is how many of the racing colors are in play (Red through
	// Purple, in order).
	RacerCount int

	// CrazyPair indicates the backward-moving Black/White pair is on the
	// track and the shared crazy die is in the pyramid.
	CrazyPair bool

	// DiceFaces is the highest die face; faces 1..DiceFaces are uniform.
	DiceFaces int

	// OasisShift and DesertShift are the trap move magnitudes.
	OasisShift  int
	DesertShift int
}

// DefaultConfig returns the standard board: 16 tiles, finish at 16,
// five racers plus the crazy pair, faces 1..3, traps shifting one tile.
func DefaultConfig() Config {
	return Config{
		TrackLength: 16,
		FinishLine:  16,
		RacerCount:  NumRacers,
		CrazyPair:   true,
		DiceFaces:   3,
		OasisShift:  1,
		DesertShift: 1,
	}
}

// Racers returns the racing colors in play, in identity order
func (c Config) Racers() []Color {
	racers := make([]Color, c.RacerCount)
	for i := range racers {
		racers[i] = Color(i)
	}
	return racers
}

// Camels returns every camel in play, racers first
func (c Config) Camels() []Color {
	camels := c.Racers()
	if c.CrazyPair {
		camels = append(camels, Black, White)
	}
	return camels
}

// Dice returns the full pyramid for a fresh leg
func (c Config) Dice() []Die {
	dice := make([]Die, 0, c.RacerCount+1)
	for i := 0; i < c.RacerCount; i++ {
		dice = append(dice, Die(i))
	}
	if c.CrazyPair {
		dice = append(dice, DieCrazy)
	}
	return dice
}

// Validate rejects unusable configurations
func (c Config) Validate() error {
	if c.TrackLength < 2 {
		return fmt.Errorf("track length %d: need at least 2 tiles", c.TrackLength)
	}
	if c.FinishLine < 1 || c.FinishLine > c.TrackLength {
		return fmt.Errorf("finish line %d outside track of length %d", c.FinishLine, c.TrackLength)
	}
	if c.RacerCount < 1 || c.RacerCount > NumRacers {
		return fmt.Errorf("racer count %d: must be 1..%d", c.RacerCount, NumRacers)
	}
	if c.DiceFaces < 1 {
		return fmt.Errorf("dice faces %d: must be positive", c.DiceFaces)
	}
	if c.OasisShift < 0 || c.DesertShift < 0 {
		return fmt.Errorf("trap shifts must be non-negative")
	}
	return nil
}

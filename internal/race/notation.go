package race

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/dromedary/camel-odds/internal/board"
)

// ParseState builds a race state from compact notation. Tokens are
// whitespace separated:
//
//	7:rb      stack on tile 7, bottom to top (Red below Blue)
//	+5        oasis on tile 5
//	-9        desert on tile 9
//	pool:rb*  remaining dice ('*' is the shared crazy die)
//	leg:2     leg counter
//	done:g    finished camels, first first
//
// Omitting pool: means a full pyramid. The parsed state is validated
// before it is returned.
func ParseState(cfg board.Config, input string) (RaceState, error) {
	rs := RaceState{GameState: GameState{
		Stacks: make(map[int]Stack),
		Traps:  NoTraps(),
		Leg:    1,
	}}
	poolSet := false

	for _, token := range strings.Fields(input) {
		switch {
		case strings.HasPrefix(token, "pool:"):
			poolSet = true
			for i := 0; i < len(token[5:]); i++ {
				d, err := board.ParseDie(token[5+i])
				if err != nil {
					return RaceState{}, fmt.Errorf("pool token %q: %w", token, err)
				}
				rs.Pool = append(rs.Pool, d)
			}

		case strings.HasPrefix(token, "leg:"):
			leg, err := strconv.Atoi(token[4:])
			if err != nil || leg < 1 {
				return RaceState{}, fmt.Errorf("leg token %q: want a positive integer", token)
			}
			rs.Leg = leg

		case strings.HasPrefix(token, "done:"):
			for i := 0; i < len(token[5:]); i++ {
				c, err := board.ParseColor(token[5+i])
				if err != nil {
					return RaceState{}, fmt.Errorf("done token %q: %w", token, err)
				}
				rs.Finished = append(rs.Finished, c)
			}

		case strings.HasPrefix(token, "+"), strings.HasPrefix(token, "-"):
			tile, err := strconv.Atoi(token[1:])
			if err != nil {
				return RaceState{}, fmt.Errorf("trap token %q: want +TILE or -TILE", token)
			}
			if token[0] == '+' {
				rs.Traps.OasisTile = tile
			} else {
				rs.Traps.DesertTile = tile
			}

		default:
			tileStr, letters, found := strings.Cut(token, ":")
			if !found {
				return RaceState{}, fmt.Errorf("token %q: want TILE:CAMELS", token)
			}
			tile, err := strconv.Atoi(tileStr)
			if err != nil {
				return RaceState{}, fmt.Errorf("stack token %q: bad tile", token)
			}
			for i := 0; i < len(letters); i++ {
				c, err := board.ParseColor(letters[i])
				if err != nil {
					return RaceState{}, fmt.Errorf("stack token %q: %w", token, err)
				}
				rs.Stacks[tile] = append(rs.Stacks[tile], c)
			}
		}
	}

	if !poolSet {
		rs.Pool = fullPool(cfg, rs.GameState)
	}

	if err := rs.Validate(cfg); err != nil {
		return RaceState{}, err
	}
	return rs, nil
}

// MustParseState is ParseState for tests and literals; it panics on error
func MustParseState(cfg board.Config, input string) RaceState {
	rs, err := ParseState(cfg, input)
	if err != nil {
		panic(fmt.Sprintf("parse state %q: %v", input, err))
	}
	return rs
}

// fullPool returns a fresh pyramid for the camels still on the track
func fullPool(cfg board.Config, s GameState) []board.Die {
	var pool []board.Die
	for _, d := range cfg.Dice() {
		if racer, ok := d.Racer(); ok {
			if s.IsFinished(racer) {
				continue
			}
		} else if s.IsFinished(board.Black) && s.IsFinished(board.White) {
			continue
		}
		pool = append(pool, d)
	}
	return pool
}

// Notation renders the state back into the compact form ParseState reads
func (s GameState) Notation() string {
	var parts []string

	tiles := make([]int, 0, len(s.Stacks))
	for tile := range s.Stacks {
		tiles = append(tiles, tile)
	}
	sort.Ints(tiles)
	for _, tile := range tiles {
		var sb strings.Builder
		for _, c := range s.Stacks[tile] {
			sb.WriteByte(c.Letter())
		}
		parts = append(parts, fmt.Sprintf("%d:%s", tile, sb.String()))
	}

	if s.Traps.OasisTile != NoTrapTile {
		parts = append(parts, fmt.Sprintf("+%d", s.Traps.OasisTile))
	}
	if s.Traps.DesertTile != NoTrapTile {
		parts = append(parts, fmt.Sprintf("-%d", s.Traps.DesertTile))
	}

	var pool strings.Builder
	for _, d := range s.Pool {
		pool.WriteByte(d.Letter())
	}
	parts = append(parts, "pool:"+pool.String())

	if s.Leg > 1 {
		parts = append(parts, fmt.Sprintf("leg:%d", s.Leg))
	}
	if len(s.Finished) > 0 {
		var done strings.Builder
		for _, c := range s.Finished {
			done.WriteByte(c.Letter())
		}
		parts = append(parts, "done:"+done.String())
	}

	return strings.Join(parts, " ")
}

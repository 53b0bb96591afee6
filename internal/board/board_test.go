package board

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColorLetterRoundTrip(t *testing.T) {
	for c := Red; c <= White; c++ {
		parsed, err := ParseColor(c.Letter())
		require.NoError(t, err)
		assert.Equal(t, c, parsed)
	}
}

func TestColorLetters(t *testing.T) {
	// Black is 'k' so it cannot clash with Blue.
	assert.Equal(t, byte('b'), Blue.Letter())
	assert.Equal(t, byte('k'), Black.Letter())
	assert.Equal(t, byte('w'), White.Letter())
}

func TestParseColorUnknown(t *testing.T) {
	_, err := ParseColor('x')
	assert.Error(t, err)
}

func TestColorClasses(t *testing.T) {
	for c := Red; c <= Purple; c++ {
		assert.True(t, c.IsRacer(), c.String())
		assert.False(t, c.IsCrazy(), c.String())
	}
	for _, c := range []Color{Black, White} {
		assert.False(t, c.IsRacer(), c.String())
		assert.True(t, c.IsCrazy(), c.String())
	}
}

func TestDieLetterRoundTrip(t *testing.T) {
	for d := DieRed; d <= DieCrazy; d++ {
		parsed, err := ParseDie(d.Letter())
		require.NoError(t, err)
		assert.Equal(t, d, parsed)
	}
}

func TestParseDieRejectsCrazyColors(t *testing.T) {
	// The crazy camels share one die written '*'; their color letters are
	// not dice.
	_, err := ParseDie('k')
	assert.Error(t, err)
	_, err = ParseDie('w')
	assert.Error(t, err)
}

func TestDieRacer(t *testing.T) {
	racer, ok := DieGreen.Racer()
	require.True(t, ok)
	assert.Equal(t, Green, racer)

	_, ok = DieCrazy.Racer()
	assert.False(t, ok)
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Len(t, cfg.Racers(), 5)
	assert.Len(t, cfg.Camels(), 7)
	assert.Len(t, cfg.Dice(), 6)
	assert.Equal(t, DieCrazy, cfg.Dice()[5])
}

func TestConfigWithoutCrazyPair(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CrazyPair = false
	assert.Len(t, cfg.Camels(), 5)
	assert.Len(t, cfg.Dice(), 5)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		wantOK bool
	}{
		{"default", func(c *Config) {}, true},
		{"tiny track", func(c *Config) { c.TrackLength = 1 }, false},
		{"finish beyond track", func(c *Config) { c.FinishLine = 20 }, false},
		{"finish at zero", func(c *Config) { c.FinishLine = 0 }, false},
		{"no racers", func(c *Config) { c.RacerCount = 0 }, false},
		{"too many racers", func(c *Config) { c.RacerCount = 9 }, false},
		{"no faces", func(c *Config) { c.DiceFaces = 0 }, false},
		{"negative shift", func(c *Config) { c.OasisShift = -1 }, false},
		{"short race", func(c *Config) { c.FinishLine = 8 }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantOK {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

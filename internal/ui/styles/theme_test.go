package styles

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetTheme_UnknownFallsBackToDark(t *testing.T) {
	assert.Equal(t, "dark", GetTheme("no-such-theme").Name)
	assert.Equal(t, "nord", GetTheme("nord").Name)
}

func TestNextTheme_Cycles(t *testing.T) {
	SetCurrentTheme("dark")
	t.Cleanup(func() { SetCurrentTheme("dark") })

	seen := []string{CurrentTheme().Name}
	for range BuiltinThemes {
		seen = append(seen, NextTheme())
	}
	assert.Equal(t, []string{"dark", "light", "nord", "ink", "dark"}, seen)
	assert.Equal(t, DarkTheme.Primary, Primary)
}

func TestTruncateText(t *testing.T) {
	assert.Equal(t, "Night Harbor", TruncateText("Night Harbor", 20))
	assert.Equal(t, "Night…", TruncateText("Night Harbor", 6))
	assert.Equal(t, "", TruncateText("Night Harbor", 0))
}

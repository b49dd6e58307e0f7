package icons

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInit(t *testing.T) {
	t.Cleanup(func() { Init(string(StyleUnicode)) })

	tests := []struct {
		style string
		want  Icons
	}{
		{"nerd", nerdIcons},
		{"unicode", unicodeIcons},
		{"none", noneIcons},
		{"", unicodeIcons},
		{"bogus", unicodeIcons},
	}
	for _, tt := range tests {
		t.Run(tt.style, func(t *testing.T) {
			Init(tt.style)
			assert.Equal(t, tt.want, Current())
		})
	}
}

func TestAccessors(t *testing.T) {
	t.Cleanup(func() { Init(string(StyleUnicode)) })
	Init(string(StyleNone))

	assert.Equal(t, ">", Play())
	assert.Equal(t, "||", Pause())
	assert.Equal(t, "...", Loading())
	assert.Equal(t, "[S]", Shuffle())
	assert.Equal(t, "[R]", RepeatAll())
	assert.Equal(t, "[1]", RepeatOne())
	assert.Equal(t, "*", Favorite())
	assert.Equal(t, "!", Error())
	assert.Equal(t, "vol", Volume(false))
	assert.Equal(t, "mute", Volume(true))
}

func TestIconSetsComplete(t *testing.T) {
	for name, set := range map[string]Icons{"nerd": nerdIcons, "unicode": unicodeIcons, "none": noneIcons} {
		for field, v := range map[string]string{
			"Play": set.Play, "Pause": set.Pause, "Loading": set.Loading,
			"Shuffle": set.Shuffle, "RepeatAll": set.RepeatAll, "RepeatOne": set.RepeatOne,
			"Volume": set.Volume, "Muted": set.Muted, "Favorite": set.Favorite, "Error": set.Error,
		} {
			assert.NotEmpty(t, v, "%s.%s", name, field)
		}
	}
}

package render

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sartorproj/perfdash/dashboard"
)

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want color.NRGBA
	}{
		{"rgba(236, 66, 53, 1)", color.NRGBA{236, 66, 53, 255}},
		{"rgba(259, 188, 5,0.2)", color.NRGBA{255, 188, 5, 51}},
		{"rgb(0,0,0)", color.NRGBA{0, 0, 0, 255}},
		{"  rgba(66, 133, 246, 1.5) ", color.NRGBA{66, 133, 246, 255}},
		{"rgba(-4, 0, 0, 0)", color.NRGBA{0, 0, 0, 0}},
		{"#336699", color.NRGBA{0x33, 0x66, 0x99, 255}},
	}
	for _, tt := range tests {
		got, err := ParseColor(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestParseColorTranslucent(t *testing.T) {
	c, err := ParseColor("rgba(236, 66, 53, 0.5)")
	require.NoError(t, err)

	r, g, b, a := c.RGBA()
	assert.Equal(t, uint32(0x8080), a)
	for _, ch := range []uint32{r, g, b} {
		assert.LessOrEqual(t, ch, a)
	}
	assert.Equal(t, uint8(236), c.R)
}

func TestParseColorInvalid(t *testing.T) {
	for _, in := range []string{"", "red", "#fff", "#gggggg", "rgba(1,2,3)", "rgb(1,2,x)", "rgba(1,2,3,4"} {
		_, err := ParseColor(in)
		assert.ErrorIs(t, err, ErrInvalidColor, in)
	}
}

func TestDefaultPaletteParses(t *testing.T) {
	for _, c := range dashboard.DefaultPalette {
		_, err := ParseColor(c)
		assert.NoError(t, err, c)
	}
}

package qrcode

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerator_Generate(t *testing.T) {
	// Arrange
	g := NewGenerator()

	// Act
	out, err := g.Generate("https://example.com/docs", 128)

	// Assert
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 128, img.Bounds().Dx())
}

func TestGenerator_SizeOutOfRange(t *testing.T) {
	out, err := NewGenerator().Generate("https://example.com", 5000)

	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, DefaultSize, img.Bounds().Dx())
}

func TestGenerator_EmptyContent(t *testing.T) {
	_, err := NewGenerator().Generate("", 128)

	assert.ErrorIs(t, err, ErrEmptyContent)
}

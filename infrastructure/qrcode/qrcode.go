package qrcode

import (
	"errors"

	"github.com/skip2/go-qrcode"
)

// Size bounds of generated images, in pixels.
const (
	DefaultSize = 256
	MinSize     = 64
	MaxSize     = 1024
)

// ErrEmptyContent is returned when there is nothing to encode.
var ErrEmptyContent = errors.New("qrcode: empty content")

// Generator renders PNG QR codes
type Generator struct {
	level qrcode.RecoveryLevel
}

// NewGenerator creates a generator using medium error recovery
func NewGenerator() *Generator {
	return &Generator{level: qrcode.Medium}
}

// Generate encodes content as a size x size PNG. Sizes outside
// [MinSize, MaxSize] fall back to DefaultSize.
func (g *Generator) Generate(content string, size int) ([]byte, error) {
	if content == "" {
		return nil, ErrEmptyContent
	}
	if size < MinSize || size > MaxSize {
		size = DefaultSize
	}
	return qrcode.Encode(content, g.level, size)
}

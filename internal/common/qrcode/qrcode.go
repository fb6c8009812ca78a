// Package qrcode renders QR codes as PNG images.
package qrcode

import (
	"encoding/base64"
	"fmt"

	"github.com/skip2/go-qrcode"
)

// RecoveryLevel error correction level.
type RecoveryLevel int

const (
	Low RecoveryLevel = iota
	Medium
	High
	Highest
)

// Generator renders QR codes with a fixed size and recovery level.
type Generator struct {
	size          int
	recoveryLevel RecoveryLevel
}

// Option configures a Generator.
type Option func(*Generator)

// WithSize sets the image size in pixels.
func WithSize(size int) Option {
	return func(g *Generator) {
		g.size = size
	}
}

// WithRecoveryLevel sets the error correction level.
func WithRecoveryLevel(level RecoveryLevel) Option {
	return func(g *Generator) {
		g.recoveryLevel = level
	}
}

// NewGenerator creates a Generator, 256px Medium by default.
func NewGenerator(opts ...Option) *Generator {
	g := &Generator{size: 256, recoveryLevel: Medium}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *Generator) level() qrcode.RecoveryLevel {
	switch g.recoveryLevel {
	case Low:
		return qrcode.Low
	case High:
		return qrcode.High
	case Highest:
		return qrcode.Highest
	default:
		return qrcode.Medium
	}
}

// PNG encodes content as a PNG image.
func (g *Generator) PNG(content string) ([]byte, error) {
	if content == "" {
		return nil, fmt.Errorf("qrcode: empty content")
	}
	return qrcode.Encode(content, g.level(), g.size)
}

// DataURL encodes content as a base64 PNG data URL.
func (g *Generator) DataURL(content string) (string, error) {
	data, err := g.PNG(content)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(data), nil
}

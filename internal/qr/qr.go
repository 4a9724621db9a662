package qr

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"strings"

	qrcode "github.com/skip2/go-qrcode"
)

// Options control how a symbol is rasterized. BoxSize is the side of one module in
// pixels, Border the quiet zone width in modules.
type Options struct {
	BoxSize int
	Border  int
	Level   qrcode.RecoveryLevel
}

func DefaultOptions() Options {
	return Options{BoxSize: 15, Border: 5, Level: qrcode.Highest}
}

// CompactOptions are the stock encoder settings: 10 px modules, the standard
// 4-module quiet zone and medium recovery.
func CompactOptions() Options {
	return Options{BoxSize: 10, Border: 4, Level: qrcode.Medium}
}

func ParseLevel(s string) (qrcode.RecoveryLevel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low", "l":
		return qrcode.Low, nil
	case "medium", "m":
		return qrcode.Medium, nil
	case "high", "q":
		return qrcode.High, nil
	case "highest", "h", "":
		return qrcode.Highest, nil
	}
	return 0, fmt.Errorf("unknown error correction level %q", s)
}

func (o Options) validate() error {
	if o.BoxSize < 1 {
		return fmt.Errorf("box size must be positive, got %d", o.BoxSize)
	}
	if o.Border < 0 {
		return fmt.Errorf("border must not be negative, got %d", o.Border)
	}
	return nil
}

// Bitmap encodes content and returns its modules without a quiet zone.
func Bitmap(content string, level qrcode.RecoveryLevel) ([][]bool, error) {
	q, err := qrcode.New(content, level)
	if err != nil {
		return nil, err
	}
	q.DisableBorder = true
	bitmap := q.Bitmap()
	if len(bitmap) == 0 {
		return nil, fmt.Errorf("empty qr")
	}
	return bitmap, nil
}

// Image renders content black on white, BoxSize pixels per module with Border
// modules of quiet zone on every side.
func Image(content string, o Options) (image.Image, error) {
	if err := o.validate(); err != nil {
		return nil, err
	}
	bitmap, err := Bitmap(content, o.Level)
	if err != nil {
		return nil, err
	}
	n := len(bitmap)
	side := (n + 2*o.Border) * o.BoxSize
	img := image.NewPaletted(image.Rect(0, 0, side, side), color.Palette{color.White, color.Black})
	off := o.Border * o.BoxSize
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			if !bitmap[y][x] {
				continue
			}
			x0, y0 := off+x*o.BoxSize, off+y*o.BoxSize
			for py := y0; py < y0+o.BoxSize; py++ {
				for px := x0; px < x0+o.BoxSize; px++ {
					img.SetColorIndex(px, py, 1)
				}
			}
		}
	}
	return img, nil
}

func PNG(content string, o Options) ([]byte, error) {
	img, err := Image(content, o)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	enc := png.Encoder{CompressionLevel: png.BestCompression}
	if err := enc.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

func SVG(content string, o Options) ([]byte, error) {
	if err := o.validate(); err != nil {
		return nil, err
	}
	bitmap, err := Bitmap(content, o.Level)
	if err != nil {
		return nil, err
	}
	n := len(bitmap)
	ppm := o.BoxSize
	off := o.Border * ppm
	w := (n + 2*o.Border) * ppm
	var buf bytes.Buffer
	buf.WriteString(fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`, w, w, w, w))
	buf.WriteString(`<rect width="100%" height="100%" fill="white"/>`)
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			if bitmap[y][x] {
				buf.WriteString(fmt.Sprintf(`<rect x="%d" y="%d" width="%d" height="%d" fill="black"/>`, off+x*ppm, off+y*ppm, ppm, ppm))
			}
		}
	}
	buf.WriteString(`</svg>`)
	return buf.Bytes(), nil
}

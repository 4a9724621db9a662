package qr

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/makiuchi-d/gozxing"
	zxqr "github.com/makiuchi-d/gozxing/qrcode"
	qrcode "github.com/skip2/go-qrcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, b []byte) string {
	t.Helper()
	img, err := png.Decode(bytes.NewReader(b))
	require.NoError(t, err)
	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	require.NoError(t, err)
	res, err := zxqr.NewQRCodeReader().Decode(bmp, nil)
	require.NoError(t, err)
	return res.GetText()
}

func TestPNG(t *testing.T) {
	b, err := PNG("hello", DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if len(b) < 8 || !bytes.HasPrefix(b, []byte{0x89, 'P', 'N', 'G'}) {
		t.Fatalf("not png: %v", b[:8])
	}
}

func TestPNGDecodesBack(t *testing.T) {
	for _, s := range []string{"hello", "https://example.com/a?b=c", "HELLO 123"} {
		b, err := PNG(s, DefaultOptions())
		require.NoError(t, err)
		assert.Equal(t, s, decode(t, b))
	}
}

func TestImageGeometry(t *testing.T) {
	o := DefaultOptions()
	img, err := Image("hello", o)
	require.NoError(t, err)

	side := img.Bounds().Dx()
	assert.Equal(t, side, img.Bounds().Dy())
	require.Zero(t, side%o.BoxSize)

	modules := side/o.BoxSize - 2*o.Border
	assert.Zero(t, (modules-17)%4, "modules %d is not a qr version size", modules)

	// quiet zone is white
	r, g, b, _ := img.At(o.Border*o.BoxSize-1, o.Border*o.BoxSize-1).RGBA()
	assert.Equal(t, uint32(0xffff), r&g&b)
	// top-left finder pattern starts right after the quiet zone
	r, _, _, _ = img.At(o.Border*o.BoxSize, o.Border*o.BoxSize).RGBA()
	assert.Zero(t, r)
}

func TestEmptyContent(t *testing.T) {
	_, err := PNG("", DefaultOptions())
	assert.Error(t, err)
}

func TestInvalidOptions(t *testing.T) {
	_, err := PNG("x", Options{BoxSize: 0, Border: 1, Level: qrcode.Low})
	assert.Error(t, err)
	_, err = PNG("x", Options{BoxSize: 1, Border: -1, Level: qrcode.Low})
	assert.Error(t, err)
}

func TestParseLevel(t *testing.T) {
	cases := map[string]qrcode.RecoveryLevel{
		"low": qrcode.Low, "Medium": qrcode.Medium, "high": qrcode.High, "highest": qrcode.Highest, "H": qrcode.Highest,
	}
	for in, want := range cases {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseLevel("ultra")
	assert.Error(t, err)
}

func TestSVG(t *testing.T) {
	b, err := SVG("hello", Options{BoxSize: 4, Border: 2, Level: qrcode.Medium})
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(b, []byte("<svg")) {
		t.Fatal("not svg")
	}
}

package artifact

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitize(t *testing.T) {
	assert.Equal(t, "a_b_c_d_e_f_g_h_i_j", Sanitize(`a\b/c:d*e?f"g<h>i|j`))
	assert.Equal(t, "plain text.txt", Sanitize("plain text.txt"))
}

func TestStemForbiddenOnly(t *testing.T) {
	forbidden := `\/:*?"<>|`
	for _, in := range []string{forbidden, forbidden + forbidden, "::", `"""""""""""""""`} {
		got := Stem(in, DefaultStemLength)
		want := len([]rune(in))
		if want > DefaultStemLength {
			want = DefaultStemLength
		}
		assert.Equal(t, strings.Repeat("_", want), got, in)
	}
}

func TestStemCountsRunes(t *testing.T) {
	assert.Equal(t, "ĥéllö wörl", Stem("ĥéllö wörld!", 10))
	assert.Equal(t, "short", Stem("short", 10))
	assert.Equal(t, "no limit at all", Stem("no limit at all", 0))
}

func TestFileName(t *testing.T) {
	n := DefaultNamer()
	assert.Equal(t, "hello_qr_code.png", n.FileName("hello"))
	assert.Equal(t, "https___ex_qr_code.png", n.FileName("https://example.com"))
}

func TestFileNameCollision(t *testing.T) {
	n := DefaultNamer()
	a, b := "0123456789-first", "0123456789-second"
	assert.Equal(t, n.FileName(a), n.FileName(b))

	n.Unique = true
	assert.NotEqual(t, n.FileName(a), n.FileName(b))
	assert.True(t, strings.HasPrefix(n.FileName(a), "0123456789_"))
	assert.True(t, strings.HasSuffix(n.FileName(a), "_qr_code.png"))
	assert.Equal(t, n.FileName(a), n.FileName(a))
}

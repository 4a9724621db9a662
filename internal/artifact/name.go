package artifact

import (
	"encoding/hex"
	"strings"

	"golang.org/x/crypto/blake2b"

	"github.com/yuzeguitarist/qrgen/internal/app"
)

const DefaultStemLength = 10

var unsafeChars = strings.NewReplacer(
	`\`, "_", "/", "_", ":", "_", "*", "_", "?", "_",
	`"`, "_", "<", "_", ">", "_", "|", "_",
)

// Sanitize replaces characters that are invalid in filenames on common
// filesystems with underscores.
func Sanitize(s string) string {
	return unsafeChars.Replace(s)
}

// Stem returns the first n characters (runes) of the sanitized input.
func Stem(s string, n int) string {
	s = Sanitize(s)
	if n <= 0 {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}

// Namer derives artifact filenames from input text. With Unique unset, inputs
// sharing a stem map to the same file and overwrite each other.
type Namer struct {
	StemLength int
	Unique     bool
}

func DefaultNamer() Namer { return Namer{StemLength: DefaultStemLength} }

func (n Namer) FileName(data string) string {
	stem := Stem(data, n.StemLength)
	if n.Unique {
		sum := blake2b.Sum256([]byte(data))
		stem += "_" + hex.EncodeToString(sum[:4])
	}
	return stem + app.QRFileSuffix
}

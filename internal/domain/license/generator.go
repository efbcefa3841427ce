// Package license produces human-readable license codes of the form
// BOS-{PREFIX}-XXXX-XXXX.
package license

import (
	"crypto/rand"
	"fmt"
	"io"
	"regexp"
	"strings"
)

// Alphabet omits look-alikes (0/O, 1/I). Its length divides 256, so byte%32
// is uniform.
const Alphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

const segmentLen = 4

// Pattern matches codes produced by Generate.
var Pattern = regexp.MustCompile(`^BOS-[A-Z0-9_-]+-[A-HJ-NP-Z2-9]{4}-[A-HJ-NP-Z2-9]{4}$`)

// Generator draws code symbols from an injected randomness source.
type Generator struct {
	rnd io.Reader
}

// NewGenerator uses crypto/rand when r is nil.
func NewGenerator(r io.Reader) *Generator {
	if r == nil {
		r = rand.Reader
	}
	return &Generator{rnd: r}
}

// Generate returns BOS-{UPPER(prefix)}-{4}-{4}. Uniqueness is the caller's job.
func (g *Generator) Generate(prefix string) (string, error) {
	buf := make([]byte, 2*segmentLen)
	if _, err := io.ReadFull(g.rnd, buf); err != nil {
		return "", fmt.Errorf("read randomness: %w", err)
	}
	for i := range buf {
		buf[i] = Alphabet[int(buf[i])%len(Alphabet)]
	}
	return "BOS-" + strings.ToUpper(prefix) + "-" + string(buf[:segmentLen]) + "-" + string(buf[segmentLen:]), nil
}

package probe

import (
	"os"
	"strings"
)

// Fingerprint is the ordered presence encoding of one probe pass: one digit
// per marker path in probe order, '1' for present and '0' for absent.
type Fingerprint string

// Empty reports whether no marker was present.
func (f Fingerprint) Empty() bool {
	return strings.Count(string(f), "1") == 0
}

// Result holds the outcome of one probe pass. Paths and Present are parallel
// slices in probe order.
type Result struct {
	Paths   []string
	Present []bool
}

// Fingerprint encodes the probe result as a digit string.
func (r Result) Fingerprint() Fingerprint {
	return Encode(r.Present)
}

// Run tests each marker path for existence, in order. It never fails: a path
// that cannot be stat'd, permission errors included, counts as absent.
// Directories and regular files both count as present.
func Run(paths []string) Result {
	result := Result{
		Paths:   append([]string(nil), paths...),
		Present: make([]bool, len(paths)),
	}
	for i, path := range paths {
		if _, err := os.Stat(path); err == nil {
			result.Present[i] = true
		}
	}
	return result
}

// Encode maps a presence vector to its fingerprint. Pure and deterministic;
// the output length always equals the input length.
func Encode(present []bool) Fingerprint {
	var b strings.Builder
	b.Grow(len(present))
	for _, p := range present {
		if p {
			b.WriteByte('1')
		} else {
			b.WriteByte('0')
		}
	}
	return Fingerprint(b.String())
}

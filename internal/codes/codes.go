// Package codes generates and reserves the human-readable identifiers used
// across the catalogue, builds and financial documents.
package codes

import (
	"fmt"
	"math/rand/v2"
	"regexp"
)

var (
	// EntityPattern matches codes of the form ABC-1234-12345.
	EntityPattern = regexp.MustCompile(`^[A-Z]{3}-\d{4}-\d{5}$`)
	// ConnectionPattern matches connection codes of the form 123-456.
	ConnectionPattern = regexp.MustCompile(`^\d{3}-\d{3}$`)
)

// Generate returns a random entity code. Collisions are possible and are
// resolved by Assign.
func Generate() string {
	return format(rand.Uint64N(letterSpace), rand.Uint64N(digitSpace))
}

// GenerateConnectionCode returns a random NNN-NNN connection code.
func GenerateConnectionCode() string {
	return fmt.Sprintf("%03d-%03d", rand.IntN(1000), rand.IntN(1000))
}

// Valid reports whether code is a well-formed entity code.
func Valid(code string) bool {
	return EntityPattern.MatchString(code)
}

func format(letters, digits uint64) string {
	l0 := byte('A' + letters/676)
	l1 := byte('A' + (letters/26)%26)
	l2 := byte('A' + letters%26)
	return fmt.Sprintf("%c%c%c-%04d-%05d", l0, l1, l2, digits/100000, digits%100000)
}

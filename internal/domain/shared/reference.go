package shared

import (
	"crypto/rand"
	"fmt"
	"time"
)

// ReferenceGenerator produces globally-unique human-facing business references.
// It is called whenever a reference field is still empty at save time.
type ReferenceGenerator interface {
	Generate() string
}

// TimestampReferenceGenerator generates references of the form
// "R-20060102-8F3A2C". The random suffix keeps references unique within
// the same second without a database round trip.
type TimestampReferenceGenerator struct {
	Prefix string
}

// NewTimestampReferenceGenerator creates a generator with the given prefix
func NewTimestampReferenceGenerator(prefix string) *TimestampReferenceGenerator {
	return &TimestampReferenceGenerator{Prefix: prefix}
}

// Generate returns a new unique reference
func (g *TimestampReferenceGenerator) Generate() string {
	buf := make([]byte, 3)
	_, _ = rand.Read(buf)
	return fmt.Sprintf("%s-%s-%X", g.Prefix, time.Now().Format("20060102"), buf)
}

package booking

import (
	"fmt"
	"math/rand"
)

// ReferencePrefix starts every booking reference.
const ReferencePrefix = "PRIMER-"

// ReferenceFunc produces booking references.
type ReferenceFunc func() string

// NewReference returns PRIMER- followed by six random digits.
func NewReference() string {
	return fmt.Sprintf("%s%06d", ReferencePrefix, rand.Intn(1_000_000))
}

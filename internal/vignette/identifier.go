package vignette

import (
	"encoding/binary"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NormalizeIdentifier trims and uppercases a human-entered plate or reference
// so that " ab123cd " and "AB123CD" compare equal.
func NormalizeIdentifier(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// NewReference allocates a transaction reference of the form VGN-<year>-<6 digits>.
// Used when the gateway records a payment without returning a reference of its own.
func NewReference(now time.Time) string {
	id := uuid.New()
	n := binary.BigEndian.Uint32(id[:4]) % 1_000_000

	return fmt.Sprintf("VGN-%d-%06d", now.Year(), n)
}

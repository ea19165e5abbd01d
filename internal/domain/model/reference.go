package model

import (
	"fmt"
	"strings"

	"github.com/oklog/ulid/v2"
)

// NewPaymentReference produces the unique reference for one payment
// attempt: a short user fragment for operator grepping plus a ULID
// (80 random bits), far above the entropy needed to rule out collisions
// at our transaction volumes. A fresh attempt always gets a fresh
// reference; references are never reused, even when retrying the same
// logical purchase.
func NewPaymentReference(userID string) string {
	frag := strings.ReplaceAll(userID, "-", "")
	if len(frag) > 8 {
		frag = frag[:8]
	}
	return fmt.Sprintf("PAY-%s-%s", strings.ToUpper(frag), ulid.Make().String())
}

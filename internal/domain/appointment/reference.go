package appointment

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// NewBookingReference builds the human-readable reference handed to the
// customer: APT-<6-digit-time-suffix>-<3-char-random>. The unique index on
// the column catches the rare collision.
func NewBookingReference(now int64) string {
	random := strings.ToUpper(uuid.NewString()[:3])
	return fmt.Sprintf("APT-%06d-%s", now%1000000, random)
}

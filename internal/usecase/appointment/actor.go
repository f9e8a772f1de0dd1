package appointment

import "github.com/salonops/salon-scheduler/internal/models"

// Actor identifies who is performing a lifecycle operation; the role gates
// admin-only bypasses such as unconditional cancellation.
type Actor struct {
	ID   uint
	Role string
}

func (a Actor) IsAdmin() bool {
	return a.Role == models.RoleAdmin
}

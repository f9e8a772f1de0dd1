package appointment

import (
	"context"

	domain "github.com/salonops/salon-scheduler/internal/domain/appointment"
	"github.com/salonops/salon-scheduler/internal/dto"
	"github.com/salonops/salon-scheduler/internal/httperr"
	"github.com/salonops/salon-scheduler/internal/models"
	"github.com/salonops/salon-scheduler/internal/timezone"
	"gorm.io/gorm"
)

type ListAppointments struct {
	repo domain.Repository
	tz   string
}

func NewListAppointments(repo domain.Repository, tz string) *ListAppointments {
	return &ListAppointments{repo: repo, tz: tz}
}

func (uc *ListAppointments) ByUser(
	ctx context.Context,
	userID uint,
) ([]models.Appointment, error) {
	return uc.repo.ListByUser(ctx, userID)
}

// ByStylistAndDate is the salon-side day view.
func (uc *ListAppointments) ByStylistAndDate(
	ctx context.Context,
	stylistID uint,
	dateStr string,
) ([]dto.AppointmentListDTO, error) {

	loc := timezone.Location(uc.tz)

	date, err := parseBookingDate(dateStr, loc)
	if err != nil {
		return nil, err
	}

	stylist, err := uc.repo.GetStylist(ctx, stylistID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, httperr.NotFoundErr("stylist_not_found", "Stylist not found.")
		}
		return nil, err
	}

	day := date.Format(domain.DateLayout)

	appointments, err := uc.repo.ListByStylistAndDate(ctx, stylistID, day)
	if err != nil {
		return nil, err
	}

	out := make([]dto.AppointmentListDTO, 0, len(appointments))
	for _, ap := range appointments {
		out = append(out, dto.AppointmentListDTO{
			ID:               ap.ID,
			BookingReference: ap.BookingReference,
			Date:             ap.Date,
			TimeSlot:         ap.TimeSlot,
			Status:           ap.Status,
			Location:         ap.Location,
			ServiceName:      ap.Service.Name,
			StylistName:      stylist.Name,
			TotalPrice:       ap.TotalPrice,
		})
	}

	return out, nil
}

func (uc *ListAppointments) Get(
	ctx context.Context,
	appointmentID uint,
	actor Actor,
) (*models.Appointment, error) {
	return loadForActor(ctx, uc.repo, appointmentID, actor)
}

func (uc *ListAppointments) GetByReference(
	ctx context.Context,
	reference string,
	actor Actor,
) (*models.Appointment, error) {

	ap, err := uc.repo.GetAppointmentByReference(ctx, reference)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, httperr.NotFoundErr("appointment_not_found", "Appointment not found.")
		}
		return nil, err
	}

	if !actor.IsAdmin() && ap.UserID != actor.ID {
		return nil, httperr.NotFoundErr("appointment_not_found", "Appointment not found.")
	}

	return ap, nil
}

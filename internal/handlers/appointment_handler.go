package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/salonops/salon-scheduler/internal/httperr"
	"github.com/salonops/salon-scheduler/internal/httpresp"
	"github.com/salonops/salon-scheduler/internal/middleware"
	ucAppointment "github.com/salonops/salon-scheduler/internal/usecase/appointment"
)

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	createUC       *ucAppointment.CreateAppointment
	cancelUC       *ucAppointment.CancelAppointment
	rescheduleUC   *ucAppointment.RescheduleAppointment
	updateStatusUC *ucAppointment.UpdateAppointmentStatus
	listUC         *ucAppointment.ListAppointments
}

func NewAppointmentHandler(
	createUC *ucAppointment.CreateAppointment,
	cancelUC *ucAppointment.CancelAppointment,
	rescheduleUC *ucAppointment.RescheduleAppointment,
	updateStatusUC *ucAppointment.UpdateAppointmentStatus,
	listUC *ucAppointment.ListAppointments,
) *AppointmentHandler {
	return &AppointmentHandler{
		createUC:       createUC,
		cancelUC:       cancelUC,
		rescheduleUC:   rescheduleUC,
		updateStatusUC: updateStatusUC,
		listUC:         listUC,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateAppointmentRequest struct {
	ServiceID uint   `json:"service_id" binding:"required"`
	StylistID *uint  `json:"stylist_id"`
	Date      string `json:"date" binding:"required"`      // YYYY-MM-DD
	TimeSlot  string `json:"time_slot" binding:"required"` // HH:MM
	Location  string `json:"location" binding:"required"`
	Address   string `json:"address"`
	Notes     string `json:"notes"`
	OfferCode string `json:"offer_code"`
}

type CancelAppointmentRequest struct {
	Reason string `json:"reason"`
}

type RescheduleAppointmentRequest struct {
	Date     string `json:"date" binding:"required"`
	TimeSlot string `json:"time_slot" binding:"required"`
	Reason   string `json:"reason"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
	Reason string `json:"reason"`
}

// ======================================================
// HELPERS
// ======================================================

func actorFrom(c *gin.Context) ucAppointment.Actor {
	return ucAppointment.Actor{
		ID:   c.MustGet(middleware.ContextUserID).(uint),
		Role: c.MustGet(middleware.ContextUserRole).(string),
	}
}

func appointmentID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_appointment_id", "Appointment id must be numeric.")
		return 0, false
	}
	return uint(id), true
}

// ======================================================
// CREATE
// ======================================================

func (h *AppointmentHandler) Create(c *gin.Context) {
	actor := actorFrom(c)

	var req CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	ap, err := h.createUC.Execute(c.Request.Context(), ucAppointment.CreateAppointmentInput{
		UserID:    actor.ID,
		ServiceID: req.ServiceID,
		StylistID: req.StylistID,
		Date:      req.Date,
		TimeSlot:  req.TimeSlot,
		Location:  req.Location,
		Address:   req.Address,
		Notes:     req.Notes,
		OfferCode: req.OfferCode,
	})
	if err != nil {
		httperr.WriteError(c, err)
		return
	}

	httpresp.Created(c, ap)
}

// ======================================================
// READ
// ======================================================

func (h *AppointmentHandler) ListMine(c *gin.Context) {
	actor := actorFrom(c)

	aps, err := h.listUC.ByUser(c.Request.Context(), actor.ID)
	if err != nil {
		httperr.Internal(c, "failed_to_list_appointments", "Could not list appointments.")
		return
	}

	httpresp.List(c, aps)
}

func (h *AppointmentHandler) Get(c *gin.Context) {
	id, ok := appointmentID(c)
	if !ok {
		return
	}

	ap, err := h.listUC.Get(c.Request.Context(), id, actorFrom(c))
	if err != nil {
		httperr.WriteError(c, err)
		return
	}

	httpresp.OK(c, ap)
}

func (h *AppointmentHandler) GetByReference(c *gin.Context) {
	ap, err := h.listUC.GetByReference(c.Request.Context(), c.Param("reference"), actorFrom(c))
	if err != nil {
		httperr.WriteError(c, err)
		return
	}

	httpresp.OK(c, ap)
}

// ======================================================
// LIFECYCLE
// ======================================================

func (h *AppointmentHandler) Cancel(c *gin.Context) {
	id, ok := appointmentID(c)
	if !ok {
		return
	}

	var req CancelAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	ap, err := h.cancelUC.Execute(c.Request.Context(), id, req.Reason, actorFrom(c))
	if err != nil {
		httperr.WriteError(c, err)
		return
	}

	httpresp.OK(c, ap)
}

func (h *AppointmentHandler) Reschedule(c *gin.Context) {
	id, ok := appointmentID(c)
	if !ok {
		return
	}

	var req RescheduleAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	ap, err := h.rescheduleUC.Execute(
		c.Request.Context(), id, req.Date, req.TimeSlot, req.Reason, actorFrom(c),
	)
	if err != nil {
		httperr.WriteError(c, err)
		return
	}

	httpresp.OK(c, ap)
}

func (h *AppointmentHandler) UpdateStatus(c *gin.Context) {
	id, ok := appointmentID(c)
	if !ok {
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	ap, err := h.updateStatusUC.Execute(
		c.Request.Context(), id, req.Status, req.Reason, actorFrom(c),
	)
	if err != nil {
		httperr.WriteError(c, err)
		return
	}

	httpresp.OK(c, ap)
}

// ======================================================
// ADMIN DAY VIEW
// ======================================================

func (h *AppointmentHandler) ListByStylist(c *gin.Context) {
	stylistIDStr := c.Query("stylist_id")
	dateStr := c.Query("date")

	if stylistIDStr == "" || dateStr == "" {
		httperr.BadRequest(c, "missing_params", "stylist_id and date are required.")
		return
	}

	stylistID, err := strconv.ParseUint(stylistIDStr, 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_stylist_id", "Stylist id must be numeric.")
		return
	}

	items, err := h.listUC.ByStylistAndDate(c.Request.Context(), uint(stylistID), dateStr)
	if err != nil {
		httperr.WriteError(c, err)
		return
	}

	httpresp.List(c, items)
}

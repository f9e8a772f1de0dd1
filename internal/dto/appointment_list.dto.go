package dto

type AppointmentListDTO struct {
	ID               uint    `json:"id"`
	BookingReference string  `json:"booking_reference"`
	Date             string  `json:"date"`
	TimeSlot         string  `json:"time_slot"`
	Status           string  `json:"status"`
	Location         string  `json:"location"`
	ServiceName      string  `json:"service_name"`
	StylistName      string  `json:"stylist_name"`
	TotalPrice       float64 `json:"total_price"`
}

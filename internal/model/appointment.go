package model

// Appointment books a client with a lawyer.
// AppointmentDate is kept as sent by the backend (ISO-8601 or datetime-local).
type Appointment struct {
	AppointmentID   int64  `json:"appointment_id"`
	ClientID        int64  `json:"client_id"`
	LawyerID        int64  `json:"lawyer_id"`
	AppointmentDate string `json:"appointment_date"`
	Status          string `json:"status"`
}

package model

// Ticket is a support request raised by a user.
type Ticket struct {
	TicketID    int64  `json:"ticket_id"`
	UserID      int64  `json:"user_id"`
	Subject     string `json:"subject"`
	Description string `json:"description"`
	Status      string `json:"status"`
}

// Log is an audit entry describing an action taken in the application.
type Log struct {
	LogID     int64  `json:"log_id"`
	UserID    int64  `json:"user_id,omitempty"`
	Action    string `json:"action"`
	Timestamp string `json:"timestamp,omitempty"`
}

package model

// Case is a legal matter opened on behalf of a client.
type Case struct {
	CaseID          int64   `json:"case_id"`
	UserID          int64   `json:"user_id"`
	CaseType        string  `json:"case_type"`
	CaseStatus      string  `json:"case_status"`
	CaseDescription string  `json:"case_description"`
	CaseNumber      string  `json:"case_number"`
	CaseTrackNumber string  `json:"case_track_number"`
	Fee             float64 `json:"fee"`
	PaymentStatus   string  `json:"payment_status"`
}

package model

// User is an account known to the backend. Role distinguishes clients, lawyers and admins.
type User struct {
	UserID   int64  `json:"user_id"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

// Lawyer is the professional profile attached to a lawyer user.
type Lawyer struct {
	LawyerID       int64  `json:"lawyer_id"`
	UserID         int64  `json:"user_id"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	Specialization string `json:"specialization,omitempty"`
}

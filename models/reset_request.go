package models

import "time"

// ResetRequestPending is the status every reset request is created with.
const ResetRequestPending = "pending"

// ResetRequest is a write-once audit record of a password reset asked for
// by a user and handled by an admin out of band.
type ResetRequest struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	UserName    string    `json:"userName"`
	UserEmail   string    `json:"userEmail"`
	UserPhone   string    `json:"userPhone"`
	RequestedAt time.Time `json:"requestedAt"`
	Status      string    `json:"status"`
}

// ResetPasswordRequest is the body of a password reset request.
type ResetPasswordRequest struct {
	Email string `json:"email"`
}

// SetPasswordRequest is the body of an admin password change.
type SetPasswordRequest struct {
	NewPassword string `json:"newPassword"`
}

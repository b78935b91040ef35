package dto

import "time"

// SuperAdminLoginRequest payload for the platform owner.
type SuperAdminLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AdminRegisterRequest payload for organization sign-up.
type AdminRegisterRequest struct {
	OrganizationName    string `json:"organization_name"`
	OrganizationAddress string `json:"organization_address"`
	ContactNumber       string `json:"contact_number"`
	AdminName           string `json:"admin_name"`
	Email               string `json:"email"`
	Phone               string `json:"phone"`
	EmployeeQuota       int    `json:"employee_quota"`
}

// SetPasswordRequest payload for first-time password setup.
type SetPasswordRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest payload for admin and employee login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// PasswordResetRequest starts the OTP flow.
type PasswordResetRequest struct {
	Email string `json:"email"`
}

// PasswordResetConfirmRequest finishes the OTP flow.
type PasswordResetConfirmRequest struct {
	Email       string `json:"email"`
	OTP         string `json:"otp"`
	NewPassword string `json:"new_password"`
}

// AuthResponse standard response for auth endpoints.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

package auth

import "github.com/EmilyGongVL/ecommerce-v1/internal/users"

// SignupInput captures the payload for creating an account.
type SignupInput struct {
	Name            string `json:"name" validate:"required,min=2,max=100"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=8"`
	PasswordConfirm string `json:"passwordConfirm" validate:"required"`
}

// LoginInput captures the credentials sent to the login endpoint.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// ChangePasswordInput captures a password rotation for the logged-in user.
type ChangePasswordInput struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=8"`
}

// Session contains the token and user produced by signup and login.
type Session struct {
	Token string         `json:"token"`
	User  *users.UserDTO `json:"user"`
}

package authapimodels

import (
	"net/mail"
	"strings"

	"github.com/pkg/errors"
	apimodels "schoolconnect-backend/models/api"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r LoginRequest) Validate() error {
	_, err := mail.ParseAddress(r.Email)
	if err != nil {
		return errors.New("email has an invalid format")
	}
	if r.Password == "" {
		return errors.New("password is required")
	}
	return nil
}

type PasswordRecovery struct {
	Email string `json:"email"` // login email the reset code is sent to
}

func (r PasswordRecovery) Validate() error {
	_, err := mail.ParseAddress(r.Email)
	if err != nil {
		return errors.New("email has an invalid format")
	}
	return nil
}

type PasswordResetRequest struct {
	ResetCode   string `json:"reset_code"`
	NewPassword string `json:"new_password"`
}

func (r PasswordResetRequest) Validate() error {
	if strings.TrimSpace(r.ResetCode) == "" {
		return errors.New("reset code is required")
	}
	if msg := apimodels.CheckPassword(r.NewPassword); msg != "" {
		return errors.New(msg)
	}
	return nil
}

// NormalizeEmail emails are unique case-insensitively
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

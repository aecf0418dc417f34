package authapimodels

import (
	"net/mail"
	"strings"
	"time"

	"github.com/pkg/errors"
	"schoolconnect-backend/models"
	apimodels "schoolconnect-backend/models/api"
)

const (
	RegisterStepAccount = "account"
	RegisterStepDetails = "details"
)

var RegisterSteps = []string{RegisterStepAccount, RegisterStepDetails}

type RegisterRequest struct {
	// step: account
	Role            models.UserRole `json:"role"`
	Email           string          `json:"email"`
	Password        string          `json:"password"`
	ConfirmPassword string          `json:"confirm_password"`
	FirstName       string          `json:"first_name"`
	LastName        string          `json:"last_name"`
	Phone           string          `json:"phone"`
	// step: details, student
	SchoolName     string `json:"school_name"`
	GraduationYear int    `json:"graduation_year"`
	Major          string `json:"major"`
	// step: details, employer
	CompanyName        string `json:"company_name"`
	CompanyWebsite     string `json:"company_website"`
	CompanyDescription string `json:"company_description"`
}

// Validate checks the steps in order and reports the first one that fails
func (r RegisterRequest) Validate() error {
	return r.ValidateAt(time.Now())
}

func (r RegisterRequest) ValidateAt(now time.Time) error {
	for _, step := range RegisterSteps {
		if err := r.ValidateStepAt(step, now); err != nil {
			return err
		}
	}
	return nil
}

// ValidateStepAt used by the wizard "next" button before the final submit
func (r RegisterRequest) ValidateStepAt(step string, now time.Time) error {
	switch step {
	case RegisterStepAccount:
		return apimodels.NewValidationErr(step, r.accountErrors())
	case RegisterStepDetails:
		return apimodels.NewValidationErr(step, r.detailsErrors(now))
	}
	return errors.Errorf("unknown registration step: %s", step)
}

func (r RegisterRequest) accountErrors() apimodels.FieldErrors {
	fields := apimodels.FieldErrors{}
	if !r.Role.IsValid() || !r.Role.CanSelfRegister() {
		fields.Add("role", "choose student or employer")
	}
	if _, err := mail.ParseAddress(strings.TrimSpace(r.Email)); err != nil {
		fields.Add("email", "email has an invalid format")
	}
	if msg := apimodels.CheckPassword(r.Password); msg != "" {
		fields.Add("password", msg)
	}
	if r.Password != r.ConfirmPassword {
		fields.Add("confirm_password", "passwords do not match")
	}
	if strings.TrimSpace(r.FirstName) == "" {
		fields.Add("first_name", "first name is required")
	}
	if strings.TrimSpace(r.LastName) == "" {
		fields.Add("last_name", "last name is required")
	}
	if r.Phone != "" && !apimodels.IsPhone(r.Phone) {
		fields.Add("phone", "phone has an invalid format")
	}
	return fields
}

func (r RegisterRequest) detailsErrors(now time.Time) apimodels.FieldErrors {
	fields := apimodels.FieldErrors{}
	switch r.Role {
	case models.StudentRole:
		if strings.TrimSpace(r.SchoolName) == "" {
			fields.Add("school_name", "school name is required")
		}
		if msg := apimodels.CheckGraduationYear(r.GraduationYear, now); msg != "" {
			fields.Add("graduation_year", msg)
		}
	case models.EmployerRole:
		if strings.TrimSpace(r.CompanyName) == "" {
			fields.Add("company_name", "company name is required")
		}
		if r.CompanyWebsite != "" && !apimodels.IsWebsite(r.CompanyWebsite) {
			fields.Add("company_website", "website must be an http(s) URL")
		}
	}
	return fields
}

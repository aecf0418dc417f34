package userapimodels

import (
	"strings"
	"time"
	"unicode/utf8"

	"schoolconnect-backend/models"
	apimodels "schoolconnect-backend/models/api"
)

type UserView struct {
	ID         string          `json:"id"`
	Email      string          `json:"email"`
	FirstName  string          `json:"first_name"`
	LastName   string          `json:"last_name"`
	Phone      string          `json:"phone,omitempty"`
	Role       models.UserRole `json:"role"`
	RoleHuman  string          `json:"role_human"`
	IsActive   bool            `json:"is_active"`
	IsVerified bool            `json:"is_verified"`
	VerifiedAt *time.Time      `json:"verified_at,omitempty"`
	LastLogin  *time.Time      `json:"last_login,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
	StudentProfile
	EmployerProfile
}

type StudentProfile struct {
	SchoolName     string   `json:"school_name,omitempty"`
	GraduationYear int      `json:"graduation_year,omitempty"`
	Major          string   `json:"major,omitempty"`
	Bio            string   `json:"bio,omitempty"`
	Skills         []string `json:"skills,omitempty"`
}

type EmployerProfile struct {
	CompanyName        string `json:"company_name,omitempty"`
	CompanyWebsite     string `json:"company_website,omitempty"`
	CompanyDescription string `json:"company_description,omitempty"`
}

// ProfileUpdate nil fields are left untouched
type ProfileUpdate struct {
	FirstName          *string   `json:"first_name"`
	LastName           *string   `json:"last_name"`
	Phone              *string   `json:"phone"`
	SchoolName         *string   `json:"school_name"`
	GraduationYear     *int      `json:"graduation_year"`
	Major              *string   `json:"major"`
	Bio                *string   `json:"bio"`
	Skills             *[]string `json:"skills"`
	CompanyName        *string   `json:"company_name"`
	CompanyWebsite     *string   `json:"company_website"`
	CompanyDescription *string   `json:"company_description"`
}

func (p ProfileUpdate) Validate(role models.UserRole) error {
	fields := apimodels.FieldErrors{}
	if p.FirstName != nil && strings.TrimSpace(*p.FirstName) == "" {
		fields.Add("first_name", "first name is required")
	}
	if p.LastName != nil && strings.TrimSpace(*p.LastName) == "" {
		fields.Add("last_name", "last name is required")
	}
	if p.Phone != nil && *p.Phone != "" && !apimodels.IsPhone(*p.Phone) {
		fields.Add("phone", "phone has an invalid format")
	}
	if p.Bio != nil && utf8.RuneCountInString(*p.Bio) > 2000 {
		fields.Add("bio", "bio must be at most 2000 characters")
	}
	if p.Skills != nil && len(*p.Skills) > 30 {
		fields.Add("skills", "at most 30 skills")
	}
	switch role {
	case models.StudentRole:
		if p.SchoolName != nil && strings.TrimSpace(*p.SchoolName) == "" {
			fields.Add("school_name", "school name is required")
		}
		if p.GraduationYear != nil {
			if msg := apimodels.CheckGraduationYear(*p.GraduationYear, time.Now()); msg != "" {
				fields.Add("graduation_year", msg)
			}
		}
		if p.CompanyName != nil || p.CompanyWebsite != nil || p.CompanyDescription != nil {
			fields.Add("company_name", "company fields are for employers only")
		}
	case models.EmployerRole:
		if p.CompanyName != nil && strings.TrimSpace(*p.CompanyName) == "" {
			fields.Add("company_name", "company name is required")
		}
		if p.CompanyWebsite != nil && *p.CompanyWebsite != "" && !apimodels.IsWebsite(*p.CompanyWebsite) {
			fields.Add("company_website", "website must be an http(s) URL")
		}
		if p.SchoolName != nil || p.GraduationYear != nil || p.Major != nil || p.Skills != nil {
			fields.Add("school_name", "school fields are for students only")
		}
	}
	return apimodels.NewValidationErr("", fields)
}

type ChangePassword struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

func (c ChangePassword) Validate() error {
	fields := apimodels.FieldErrors{}
	if c.OldPassword == "" {
		fields.Add("old_password", "current password is required")
	}
	if msg := apimodels.CheckPassword(c.NewPassword); msg != "" {
		fields.Add("new_password", msg)
	}
	return apimodels.NewValidationErr("", fields)
}

type UserFilter struct {
	apimodels.Pagination
	Role     models.UserRole `json:"role"`
	Search   string          `json:"search"`   // name, email or company
	Verified *bool           `json:"verified"` // employers only
	Active   *bool           `json:"active"`
}

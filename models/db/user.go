package dbmodels

import (
	"fmt"
	"time"

	"github.com/lib/pq"
	"schoolconnect-backend/models"
	userapimodels "schoolconnect-backend/models/api/user"
)

type User struct {
	BaseModel
	Email      string          `gorm:"type:varchar(255);uniqueIndex"`
	Password   string          `gorm:"type:varchar(128)"`
	FirstName  string          `gorm:"type:varchar(150)"`
	LastName   string          `gorm:"type:varchar(150)"`
	Phone      string          `gorm:"type:varchar(30)"`
	Role       models.UserRole `gorm:"type:varchar(20);index"`
	IsActive   bool
	IsVerified bool // admin-controlled, gates employer login
	VerifiedAt *time.Time
	VerifiedBy *string `gorm:"type:varchar(36)"`
	LastLogin  time.Time
	// student profile
	SchoolName     string `gorm:"type:varchar(255)"`
	GraduationYear int
	Major          string `gorm:"type:varchar(255)"`
	Bio            string
	Skills         pq.StringArray `gorm:"type:text[]"`
	// employer profile
	CompanyName        string `gorm:"type:varchar(255);index"`
	CompanyWebsite     string `gorm:"type:varchar(255)"`
	CompanyDescription string
}

const (
	ReasonDeactivated = "account is deactivated"
	ReasonNotVerified = "employer account is waiting for administrator verification"
)

// CanLogin empty reason when the user may sign in
func (u User) CanLogin() (reason string) {
	if !u.IsActive {
		return ReasonDeactivated
	}
	if u.Role == models.EmployerRole && !u.IsVerified {
		return ReasonNotVerified
	}
	return ""
}

func (u User) GetFullName() string {
	return fmt.Sprintf("%s %s", u.FirstName, u.LastName)
}

// DisplayName company for employers, full name for the rest
func (u User) DisplayName() string {
	if u.Role == models.EmployerRole && u.CompanyName != "" {
		return u.CompanyName
	}
	return u.GetFullName()
}

func (u User) ToModel() userapimodels.UserView {
	view := userapimodels.UserView{
		ID:         u.ID,
		Email:      u.Email,
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		Phone:      u.Phone,
		Role:       u.Role,
		RoleHuman:  u.Role.ToHuman(),
		IsActive:   u.IsActive,
		IsVerified: u.IsVerified,
		VerifiedAt: u.VerifiedAt,
		CreatedAt:  u.CreatedAt,
	}
	if !u.LastLogin.IsZero() {
		lastLogin := u.LastLogin
		view.LastLogin = &lastLogin
	}
	switch u.Role {
	case models.StudentRole:
		view.StudentProfile = userapimodels.StudentProfile{
			SchoolName:     u.SchoolName,
			GraduationYear: u.GraduationYear,
			Major:          u.Major,
			Bio:            u.Bio,
			Skills:         u.Skills,
		}
	case models.EmployerRole:
		view.EmployerProfile = userapimodels.EmployerProfile{
			CompanyName:        u.CompanyName,
			CompanyWebsite:     u.CompanyWebsite,
			CompanyDescription: u.CompanyDescription,
		}
	}
	return view
}

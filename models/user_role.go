package models

type UserRole string

const (
	StudentRole  UserRole = "student"
	EmployerRole UserRole = "employer"
	AdminRole    UserRole = "admin"
)

var roleHumanName = map[UserRole]string{
	StudentRole:  "Student",
	EmployerRole: "Employer",
	AdminRole:    "Administrator",
}

// dashboard the frontend opens right after login
var roleDashboard = map[UserRole]string{
	StudentRole:  "/student/dashboard",
	EmployerRole: "/employer/dashboard",
	AdminRole:    "/admin/dashboard",
}

func (r UserRole) ToHuman() string {
	if human, exist := roleHumanName[r]; exist {
		return human
	}
	return string(r)
}

func (r UserRole) IsValid() bool {
	_, ok := roleHumanName[r]
	return ok
}

// CanSelfRegister admins are created only by the bootstrap preload
func (r UserRole) CanSelfRegister() bool {
	return r == StudentRole || r == EmployerRole
}

func (r UserRole) DashboardPath() string {
	if path, exist := roleDashboard[r]; exist {
		return path
	}
	return "/login"
}

const SystemUser = "System"

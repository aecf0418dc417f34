package models

type RbacFunc func(userID string, role UserRole, path string) bool

type Module string

const (
	ProfileModule      Module = "PROFILE"
	JobModule          Module = "JOB"
	ApplicationModule  Module = "APPLICATION"
	ResumeModule       Module = "RESUME"
	ModerationModule   Module = "MODERATION"
	UsersModule        Module = "USERS"
	NotificationModule Module = "NOTIFICATION"
)

type Permission string

const (
	CreatePermission   Permission = "CREATE"
	EditPermission     Permission = "EDIT"
	ViewPermission     Permission = "VIEW"
	ManagePermission   Permission = "MANAGE"
	FlowPermission     Permission = "FLOW"
	FilesPermission    Permission = "FILES"
	ExportPermission   Permission = "EXPORT"
	ApplyPermission    Permission = "APPLY"
	ModeratePermission Permission = "MODERATE"
)

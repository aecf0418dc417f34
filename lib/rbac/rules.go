package rbac

import (
	"schoolconnect-backend/models"
)

var (
	StudentRoleSet  = []models.UserRole{models.StudentRole}
	EmployerRoleSet = []models.UserRole{models.EmployerRole}
	AdminRoleSet    = []models.UserRole{models.AdminRole}
	StudentAdminSet = []models.UserRole{models.StudentRole, models.AdminRole}
	AllRoles        = []models.UserRole{models.StudentRole, models.EmployerRole, models.AdminRole}
)

func (i *impl) initRules() {
	i.mustRegister(i.profile)
	i.mustRegister(i.jobs)
	i.mustRegister(i.employer)
	i.mustRegister(i.student)
	i.mustRegister(i.resumes)
	i.mustRegister(i.notifications)
	i.mustRegister(i.admin)
}

type ruleFunc func(module models.Module, permission models.Permission, roles []models.UserRole, swaggerPattern string)

func (i *impl) mustRegister(group func(add ruleFunc)) {
	group(func(module models.Module, permission models.Permission, roles []models.UserRole, swaggerPattern string) {
		if err := i.RegisterRule(module, permission, roles, swaggerPattern, nil); err != nil {
			panic(err.Error())
		}
	})
}

func (i *impl) profile(add ruleFunc) {
	add(models.ProfileModule, models.ViewPermission, AllRoles, "/api/v1/profile [get]")
	add(models.ProfileModule, models.EditPermission, AllRoles, "/api/v1/profile [put]")
	add(models.ProfileModule, models.EditPermission, AllRoles, "/api/v1/profile/password [put]")
}

func (i *impl) jobs(add ruleFunc) {
	add(models.JobModule, models.ViewPermission, AllRoles, "/api/v1/jobs/list [post]")
	add(models.JobModule, models.ViewPermission, AllRoles, "/api/v1/jobs/{id} [get]")
	add(models.JobModule, models.ExportPermission, AllRoles, "/api/v1/jobs/{id}/pdf [get]")
	add(models.JobModule, models.CreatePermission, EmployerRoleSet, "/api/v1/jobs/validate [post]")
}

func (i *impl) employer(add ruleFunc) {
	add(models.JobModule, models.CreatePermission, EmployerRoleSet, "/api/v1/employer/jobs [post]")
	add(models.JobModule, models.ViewPermission, EmployerRoleSet, "/api/v1/employer/jobs/list [post]")
	add(models.JobModule, models.EditPermission, EmployerRoleSet, "/api/v1/employer/jobs/{id} [put]")
	add(models.JobModule, models.EditPermission, EmployerRoleSet, "/api/v1/employer/jobs/{id} [delete]")
	add(models.ApplicationModule, models.ViewPermission, EmployerRoleSet, "/api/v1/employer/jobs/{id}/applications/list [post]")
	add(models.ApplicationModule, models.ExportPermission, EmployerRoleSet, "/api/v1/employer/jobs/{id}/applications/export [put]")
	add(models.ApplicationModule, models.ViewPermission, EmployerRoleSet, "/api/v1/employer/applications/{id} [get]")
	add(models.ApplicationModule, models.FlowPermission, EmployerRoleSet, "/api/v1/employer/applications/{id}/status [put]")
	add(models.ApplicationModule, models.FilesPermission, EmployerRoleSet, "/api/v1/employer/applications/{id}/resume [get]")
}

func (i *impl) student(add ruleFunc) {
	add(models.ApplicationModule, models.ApplyPermission, StudentRoleSet, "/api/v1/student/applications [post]")
	add(models.ApplicationModule, models.ViewPermission, StudentRoleSet, "/api/v1/student/applications/list [post]")
	add(models.ApplicationModule, models.ViewPermission, StudentRoleSet, "/api/v1/student/applications/{id} [get]")
	add(models.ApplicationModule, models.ApplyPermission, StudentRoleSet, "/api/v1/student/applications/{id} [delete]")
}

func (i *impl) resumes(add ruleFunc) {
	add(models.ResumeModule, models.FilesPermission, StudentRoleSet, "/api/v1/resumes [post]")
	add(models.ResumeModule, models.ViewPermission, StudentRoleSet, "/api/v1/resumes/list [get]")
	add(models.ResumeModule, models.FilesPermission, StudentAdminSet, "/api/v1/resumes/{id} [get]")
	add(models.ResumeModule, models.FilesPermission, StudentRoleSet, "/api/v1/resumes/{id} [delete]")
}

func (i *impl) notifications(add ruleFunc) {
	add(models.NotificationModule, models.ViewPermission, AllRoles, "/api/v1/notifications/list [post]")
	add(models.NotificationModule, models.ViewPermission, AllRoles, "/api/v1/notifications/unread_count [get]")
	add(models.NotificationModule, models.EditPermission, AllRoles, "/api/v1/notifications/{id}/read [put]")
	add(models.NotificationModule, models.EditPermission, AllRoles, "/api/v1/notifications/read_all [put]")
}

func (i *impl) admin(add ruleFunc) {
	add(models.ModerationModule, models.ViewPermission, AdminRoleSet, "/api/v1/admin/jobs/list [post]")
	add(models.ModerationModule, models.ModeratePermission, AdminRoleSet, "/api/v1/admin/jobs/{id}/approve [put]")
	add(models.ModerationModule, models.ModeratePermission, AdminRoleSet, "/api/v1/admin/jobs/{id}/reject [put]")
	add(models.ModerationModule, models.ExportPermission, AdminRoleSet, "/api/v1/admin/jobs/export [put]")
	add(models.UsersModule, models.ViewPermission, AdminRoleSet, "/api/v1/admin/employers/list [post]")
	add(models.UsersModule, models.ManagePermission, AdminRoleSet, "/api/v1/admin/employers/{id}/verify [put]")
	add(models.UsersModule, models.ManagePermission, AdminRoleSet, "/api/v1/admin/employers/{id}/revoke [put]")
	add(models.UsersModule, models.ViewPermission, AdminRoleSet, "/api/v1/admin/users/list [post]")
	add(models.UsersModule, models.ManagePermission, AdminRoleSet, "/api/v1/admin/users/{id}/active [put]")
	add(models.UsersModule, models.ViewPermission, AdminRoleSet, "/api/v1/admin/stats [get]")
}

package dbmodels

import (
	"time"

	"schoolconnect-backend/models"
	applicationapimodels "schoolconnect-backend/models/api/application"
)

type Application struct {
	BaseModel
	JobID           string      `gorm:"type:varchar(36);uniqueIndex:idx_job_student"`
	Job             *JobPosting `gorm:"foreignKey:JobID"`
	StudentID       string      `gorm:"type:varchar(36);uniqueIndex:idx_job_student;index"`
	Student         *User       `gorm:"foreignKey:StudentID"`
	ResumeID        *string     `gorm:"type:varchar(36);index"`
	Resume          *Resume     `gorm:"foreignKey:ResumeID"`
	CoverLetter     string
	Status          models.ApplicationStatus `gorm:"type:varchar(20);index"`
	EmployerNote    string
	StatusChangedAt time.Time
}

func (a Application) ToModel() applicationapimodels.ApplicationView {
	view := applicationapimodels.ApplicationView{
		ID:              a.ID,
		JobID:           a.JobID,
		StudentID:       a.StudentID,
		CoverLetter:     a.CoverLetter,
		Status:          a.Status,
		StatusHuman:     a.Status.ToHuman(),
		EmployerNote:    a.EmployerNote,
		StatusChangedAt: a.StatusChangedAt,
		CreatedAt:       a.CreatedAt,
	}
	if a.ResumeID != nil {
		view.ResumeID = *a.ResumeID
	}
	if a.Resume != nil {
		view.ResumeName = a.Resume.Name
	}
	if a.Job != nil {
		view.JobTitle = a.Job.Title
		if a.Job.Employer != nil {
			view.CompanyName = a.Job.Employer.DisplayName()
		}
	}
	if a.Student != nil {
		view.StudentName = a.Student.GetFullName()
		view.StudentEmail = a.Student.Email
		view.SchoolName = a.Student.SchoolName
		view.GraduationYear = a.Student.GraduationYear
	}
	return view
}

package applicationapimodels

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/pkg/errors"
	"schoolconnect-backend/models"
	apimodels "schoolconnect-backend/models/api"
)

const maxCoverLetter = 5000

type ApplyRequest struct {
	JobID       string `json:"job_id"`
	ResumeID    string `json:"resume_id"` // latest resume when empty
	CoverLetter string `json:"cover_letter"`
}

func (r ApplyRequest) Validate() error {
	if strings.TrimSpace(r.JobID) == "" {
		return errors.New("job is not specified")
	}
	if utf8.RuneCountInString(r.CoverLetter) > maxCoverLetter {
		return errors.New("cover letter must be at most 5000 characters")
	}
	return nil
}

type StatusChange struct {
	Status models.ApplicationStatus `json:"status"`
	Note   string                   `json:"note"` // visible to the student
}

func (r StatusChange) Validate() error {
	if !r.Status.IsValid() {
		return errors.New("unknown application status")
	}
	if r.Status == models.ApplicationStatusPending {
		return errors.New("application can not be moved back to pending")
	}
	if utf8.RuneCountInString(r.Note) > 2000 {
		return errors.New("note must be at most 2000 characters")
	}
	return nil
}

type ApplicationView struct {
	ID              string                   `json:"id"`
	JobID           string                   `json:"job_id"`
	JobTitle        string                   `json:"job_title"`
	CompanyName     string                   `json:"company_name"`
	StudentID       string                   `json:"student_id"`
	StudentName     string                   `json:"student_name"`
	StudentEmail    string                   `json:"student_email"`
	SchoolName      string                   `json:"school_name,omitempty"`
	GraduationYear  int                      `json:"graduation_year,omitempty"`
	ResumeID        string                   `json:"resume_id,omitempty"`
	ResumeName      string                   `json:"resume_name,omitempty"`
	CoverLetter     string                   `json:"cover_letter,omitempty"`
	Status          models.ApplicationStatus `json:"status"`
	StatusHuman     string                   `json:"status_human"`
	EmployerNote    string                   `json:"employer_note,omitempty"`
	StatusChangedAt time.Time                `json:"status_changed_at"`
	CreatedAt       time.Time                `json:"created_at"`
}

type ApplicationFilter struct {
	apimodels.Pagination
	Statuses []models.ApplicationStatus `json:"statuses"`
	Search   string                     `json:"search"` // student name or email
}

func (f ApplicationFilter) Validate() error {
	for _, status := range f.Statuses {
		if !status.IsValid() {
			return errors.New("unknown application status")
		}
	}
	return nil
}

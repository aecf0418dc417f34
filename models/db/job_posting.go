package dbmodels

import (
	"time"

	"github.com/lib/pq"
	"schoolconnect-backend/models"
	jobapimodels "schoolconnect-backend/models/api/job"
)

type JobPosting struct {
	BaseModel
	EmployerID   string `gorm:"type:varchar(36);index"`
	Employer     *User  `gorm:"foreignKey:EmployerID"`
	Title        string `gorm:"type:varchar(150)"`
	Description  string
	Requirements string
	Location     string          `gorm:"type:varchar(255)"`
	JobType      models.JobType  `gorm:"type:varchar(30);index"`
	WorkMode     models.WorkMode `gorm:"type:varchar(30)"`
	PayMin       *int
	PayMax       *int
	Skills       pq.StringArray `gorm:"type:text[]"`
	Deadline     *time.Time
	Status       models.JobStatus `gorm:"type:varchar(20);index"`
	RejectReason string
	ModeratedBy  *string `gorm:"type:varchar(36)"`
	ModeratedAt  *time.Time
}

// JobPostingExt read-only projection with the number of applications
type JobPostingExt struct {
	JobPosting
	ApplicationCount int64 `gorm:"->"`
}

func (JobPostingExt) TableName() string {
	return "job_postings"
}

// IsOpen students may see and apply
func (j JobPosting) IsOpen(now time.Time) bool {
	if j.Status != models.JobStatusApproved {
		return false
	}
	return j.Deadline == nil || j.Deadline.After(now)
}

func (j JobPosting) ToModel() jobapimodels.JobView {
	view := jobapimodels.JobView{
		ID:            j.ID,
		EmployerID:    j.EmployerID,
		Title:         j.Title,
		Description:   j.Description,
		Requirements:  j.Requirements,
		Location:      j.Location,
		JobType:       j.JobType,
		JobTypeHuman:  j.JobType.ToHuman(),
		WorkMode:      j.WorkMode,
		WorkModeHuman: j.WorkMode.ToHuman(),
		PayMin:        j.PayMin,
		PayMax:        j.PayMax,
		Skills:        j.Skills,
		Deadline:      j.Deadline,
		Status:        j.Status,
		StatusHuman:   j.Status.ToHuman(),
		RejectReason:  j.RejectReason,
		ModeratedAt:   j.ModeratedAt,
		IsOpen:        j.IsOpen(time.Now()),
		CreatedAt:     j.CreatedAt,
		UpdatedAt:     j.UpdatedAt,
	}
	if view.Skills == nil {
		view.Skills = []string{}
	}
	if j.Employer != nil {
		view.CompanyName = j.Employer.DisplayName()
	}
	return view
}

func (j JobPostingExt) ToModel() jobapimodels.JobView {
	view := j.JobPosting.ToModel()
	view.ApplicationCount = j.ApplicationCount
	return view
}

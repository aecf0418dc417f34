package jobapimodels

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/pkg/errors"
	"schoolconnect-backend/models"
	apimodels "schoolconnect-backend/models/api"
)

const (
	JobStepBasics       = "basics"
	JobStepDetails      = "details"
	JobStepCompensation = "compensation"
)

var JobSteps = []string{JobStepBasics, JobStepDetails, JobStepCompensation}

const maxSkills = 20

type JobData struct {
	// step: basics
	Title    string          `json:"title"`
	JobType  models.JobType  `json:"job_type"`
	WorkMode models.WorkMode `json:"work_mode"`
	Location string          `json:"location"`
	// step: details
	Description  string   `json:"description"`
	Requirements string   `json:"requirements"`
	Skills       []string `json:"skills"`
	// step: compensation
	PayMin   *int       `json:"pay_min"`  // per hour
	PayMax   *int       `json:"pay_max"`  // per hour
	Deadline *time.Time `json:"deadline"` // last day to apply
}

func (d JobData) Validate() error {
	return d.ValidateAt(time.Now())
}

func (d JobData) ValidateAt(now time.Time) error {
	for _, step := range JobSteps {
		if err := d.ValidateStepAt(step, now); err != nil {
			return err
		}
	}
	return nil
}

func (d JobData) ValidateStepAt(step string, now time.Time) error {
	fields := apimodels.FieldErrors{}
	switch step {
	case JobStepBasics:
		title := strings.TrimSpace(d.Title)
		if titleLen := utf8.RuneCountInString(title); titleLen < 3 || titleLen > 150 {
			fields.Add("title", "title must be 3 to 150 characters")
		}
		if !d.JobType.IsValid() {
			fields.Add("job_type", "unknown job type")
		}
		if !d.WorkMode.IsValid() {
			fields.Add("work_mode", "unknown work mode")
		}
		if d.WorkMode != models.WorkModeRemote && strings.TrimSpace(d.Location) == "" {
			fields.Add("location", "location is required unless the job is remote")
		}
	case JobStepDetails:
		if utf8.RuneCountInString(strings.TrimSpace(d.Description)) < 20 {
			fields.Add("description", "description must be at least 20 characters")
		}
		if utf8.RuneCountInString(d.Description) > 10000 {
			fields.Add("description", "description must be at most 10000 characters")
		}
		if utf8.RuneCountInString(d.Requirements) > 5000 {
			fields.Add("requirements", "requirements must be at most 5000 characters")
		}
		if len(d.NormalizedSkills()) > maxSkills {
			fields.Add("skills", "at most 20 skills")
		}
	case JobStepCompensation:
		if d.PayMin != nil && *d.PayMin < 0 {
			fields.Add("pay_min", "pay must not be negative")
		}
		if d.PayMax != nil && *d.PayMax < 0 {
			fields.Add("pay_max", "pay must not be negative")
		}
		if d.PayMin != nil && d.PayMax != nil && *d.PayMin > *d.PayMax {
			fields.Add("pay_max", "maximum pay must not be lower than minimum pay")
		}
		if d.Deadline != nil && !d.Deadline.After(now) {
			fields.Add("deadline", "deadline must be in the future")
		}
	default:
		return errors.Errorf("unknown job form step: %s", step)
	}
	return apimodels.NewValidationErr(step, fields)
}

// NormalizedSkills trimmed, empty and duplicate (case-insensitive) entries dropped
func (d JobData) NormalizedSkills() []string {
	return NormalizeSkills(d.Skills)
}

func NormalizeSkills(skills []string) []string {
	result := make([]string, 0, len(skills))
	seen := map[string]bool{}
	for _, skill := range skills {
		skill = strings.TrimSpace(skill)
		key := strings.ToLower(skill)
		if skill == "" || seen[key] {
			continue
		}
		seen[key] = true
		result = append(result, skill)
	}
	return result
}

type JobView struct {
	ID               string           `json:"id"`
	EmployerID       string           `json:"employer_id"`
	CompanyName      string           `json:"company_name"`
	Title            string           `json:"title"`
	Description      string           `json:"description"`
	Requirements     string           `json:"requirements"`
	Location         string           `json:"location"`
	JobType          models.JobType   `json:"job_type"`
	JobTypeHuman     string           `json:"job_type_human"`
	WorkMode         models.WorkMode  `json:"work_mode"`
	WorkModeHuman    string           `json:"work_mode_human"`
	PayMin           *int             `json:"pay_min,omitempty"`
	PayMax           *int             `json:"pay_max,omitempty"`
	Skills           []string         `json:"skills"`
	Deadline         *time.Time       `json:"deadline,omitempty"`
	Status           models.JobStatus `json:"status"`
	StatusHuman      string           `json:"status_human"`
	RejectReason     string           `json:"reject_reason,omitempty"`
	ModeratedAt      *time.Time       `json:"moderated_at,omitempty"`
	IsOpen           bool             `json:"is_open"` // approved and deadline not passed
	ApplicationCount int64            `json:"application_count"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

const (
	SortNewest   = "newest"
	SortDeadline = "deadline"
)

// JobFilter job board search for students
type JobFilter struct {
	apimodels.Pagination
	Search      string           `json:"search"`   // title, description or company
	Location    string           `json:"location"` // substring
	JobTypes    []models.JobType `json:"job_types"`
	WorkMode    models.WorkMode  `json:"work_mode"`
	MinPay      int              `json:"min_pay"`
	Skills      []string         `json:"skills"` // any of
	PostedSince *time.Time       `json:"posted_since"`
	SortBy      string           `json:"sort_by"` // newest (default) / deadline
}

func (f JobFilter) Validate() error {
	fields := apimodels.FieldErrors{}
	for _, jobType := range f.JobTypes {
		if !jobType.IsValid() {
			fields.Add("job_types", "unknown job type")
		}
	}
	if f.WorkMode != "" && !f.WorkMode.IsValid() {
		fields.Add("work_mode", "unknown work mode")
	}
	if f.MinPay < 0 {
		fields.Add("min_pay", "pay must not be negative")
	}
	if f.SortBy != "" && f.SortBy != SortNewest && f.SortBy != SortDeadline {
		fields.Add("sort_by", "sort by newest or deadline")
	}
	return apimodels.NewValidationErr("", fields)
}

// EmployerJobFilter employer dashboard list
type EmployerJobFilter struct {
	apimodels.Pagination
	Statuses []models.JobStatus `json:"statuses"`
	Search   string             `json:"search"`
}

// ModerationFilter admin queue
type ModerationFilter struct {
	apimodels.Pagination
	Status     models.JobStatus `json:"status"` // pending when empty
	Search     string           `json:"search"`
	EmployerID string           `json:"employer_id"`
}

type RejectRequest struct {
	Reason string `json:"reason"`
}

func (r RejectRequest) Validate() error {
	reason := strings.TrimSpace(r.Reason)
	if reason == "" {
		return errors.New("rejection reason is required")
	}
	if utf8.RuneCountInString(reason) > 1000 {
		return errors.New("rejection reason must be at most 1000 characters")
	}
	return nil
}

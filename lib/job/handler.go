package jobhandler

import (
	"strings"
	"time"

	"github.com/lib/pq"
	log "github.com/sirupsen/logrus"
	"schoolconnect-backend/db"
	applicationstore "schoolconnect-backend/lib/application/store"
	pdfexport "schoolconnect-backend/lib/export/pdf"
	jobstore "schoolconnect-backend/lib/job/store"
	usersstore "schoolconnect-backend/lib/users/store"
	"schoolconnect-backend/models"
	jobapimodels "schoolconnect-backend/models/api/job"
	dbmodels "schoolconnect-backend/models/db"
)

const (
	MsgJobNotFound       = "job posting not found"
	msgEmployerNotActive = "employer account is not verified"
	MsgJobChanged        = "job posting was changed meanwhile, reload and try again"
)

type Provider interface {
	Create(employerID string, request jobapimodels.JobData) (id, hMsg string, err error)
	Update(employerID, id string, request jobapimodels.JobData) (hMsg string, err error)
	Delete(employerID, id string) (hMsg string, err error)
	ListByEmployer(employerID string, filter jobapimodels.EmployerJobFilter) (list []jobapimodels.JobView, rowCount int64, err error)
	Browse(filter jobapimodels.JobFilter) (list []jobapimodels.JobView, rowCount int64, err error)
	Get(userID string, role models.UserRole, id string) (job jobapimodels.JobView, hMsg string, err error)
	ExportPdf(userID string, role models.UserRole, id string) (body []byte, hMsg string, err error)
}

var Instance Provider

func NewHandler() {
	Instance = impl{
		jobStore:         jobstore.NewInstance(db.DB),
		applicationStore: applicationstore.NewInstance(db.DB),
		usersStore:       usersstore.NewInstance(db.DB),
	}
}

type impl struct {
	jobStore         jobstore.Provider
	applicationStore applicationstore.Provider
	usersStore       usersstore.Provider
}

func (i impl) getLogger(employerID, jobID string) *log.Entry {
	logger := log.WithField("employer_id", employerID)
	if jobID != "" {
		logger = logger.WithField("job_id", jobID)
	}
	return logger
}

func (i impl) Create(employerID string, request jobapimodels.JobData) (id, hMsg string, err error) {
	logger := i.getLogger(employerID, "")
	if err = request.Validate(); err != nil {
		return "", err.Error(), nil
	}
	employer, err := i.usersStore.GetByID(employerID)
	if err != nil {
		logger.WithError(err).Error("employer fetch failed")
		return "", "", err
	}
	if employer == nil || employer.Role != models.EmployerRole || employer.CanLogin() != "" {
		return "", msgEmployerNotActive, nil
	}
	rec := dbmodels.JobPosting{
		EmployerID:   employerID,
		Title:        strings.TrimSpace(request.Title),
		Description:  strings.TrimSpace(request.Description),
		Requirements: strings.TrimSpace(request.Requirements),
		Location:     strings.TrimSpace(request.Location),
		JobType:      request.JobType,
		WorkMode:     request.WorkMode,
		PayMin:       request.PayMin,
		PayMax:       request.PayMax,
		Skills:       pq.StringArray(request.NormalizedSkills()),
		Deadline:     request.Deadline,
		Status:       models.JobStatusPending,
	}
	id, err = i.jobStore.Create(rec)
	if err != nil {
		logger.WithError(err).Error("job posting create failed")
		return "", "", err
	}
	logger.WithField("job_id", id).Info("job posting created, waiting for moderation")
	return id, "", nil
}

func (i impl) Update(employerID, id string, request jobapimodels.JobData) (hMsg string, err error) {
	logger := i.getLogger(employerID, id)
	if err = request.Validate(); err != nil {
		return err.Error(), nil
	}
	rec, hMsg, err := i.getOwn(employerID, id)
	if err != nil || hMsg != "" {
		return hMsg, err
	}
	updMap := map[string]interface{}{
		"title":        strings.TrimSpace(request.Title),
		"description":  strings.TrimSpace(request.Description),
		"requirements": strings.TrimSpace(request.Requirements),
		"location":     strings.TrimSpace(request.Location),
		"job_type":     request.JobType,
		"work_mode":    request.WorkMode,
		"pay_min":      request.PayMin,
		"pay_max":      request.PayMax,
		"skills":       pq.StringArray(request.NormalizedSkills()),
		"deadline":     request.Deadline,
	}
	if rec.Status != models.JobStatusPending {
		// edited content has to pass moderation again
		updMap["status"] = models.JobStatusPending
		updMap["reject_reason"] = ""
		updMap["moderated_by"] = nil
		updMap["moderated_at"] = nil
	}
	updated, err := i.jobStore.UpdateIfUnchanged(id, rec.Status, rec.UpdatedAt, updMap)
	if err != nil {
		logger.WithError(err).Error("job posting update failed")
		return "", err
	}
	if !updated {
		return MsgJobChanged, nil
	}
	logger.WithField("prev_status", rec.Status).Info("job posting updated")
	return "", nil
}

func (i impl) Delete(employerID, id string) (hMsg string, err error) {
	logger := i.getLogger(employerID, id)
	_, hMsg, err = i.getOwn(employerID, id)
	if err != nil || hMsg != "" {
		return hMsg, err
	}
	accepted, err := i.applicationStore.CountByJobAndStatus(id, models.ApplicationStatusAccepted)
	if err != nil {
		logger.WithError(err).Error("accepted applications count failed")
		return "", err
	}
	if accepted > 0 {
		return "job posting has accepted applications and can not be deleted", nil
	}
	if err = i.jobStore.DeleteWithApplications(id); err != nil {
		logger.WithError(err).Error("job posting delete failed")
		return "", err
	}
	logger.Info("job posting deleted")
	return "", nil
}

func (i impl) ListByEmployer(employerID string, filter jobapimodels.EmployerJobFilter) (list []jobapimodels.JobView, rowCount int64, err error) {
	rowCount, err = i.jobStore.ListByEmployerCount(employerID, filter)
	if err != nil {
		return nil, 0, err
	}
	recList, err := i.jobStore.ListByEmployer(employerID, filter)
	if err != nil {
		return nil, 0, err
	}
	list = make([]jobapimodels.JobView, 0, len(recList))
	for _, rec := range recList {
		list = append(list, rec.ToModel())
	}
	return list, rowCount, nil
}

func (i impl) Browse(filter jobapimodels.JobFilter) (list []jobapimodels.JobView, rowCount int64, err error) {
	now := time.Now()
	rowCount, err = i.jobStore.ListOpenCount(filter, now)
	if err != nil {
		return nil, 0, err
	}
	recList, err := i.jobStore.ListOpen(filter, now)
	if err != nil {
		return nil, 0, err
	}
	list = make([]jobapimodels.JobView, 0, len(recList))
	for _, rec := range recList {
		list = append(list, rec.ToModel())
	}
	return list, rowCount, nil
}

func (i impl) Get(userID string, role models.UserRole, id string) (job jobapimodels.JobView, hMsg string, err error) {
	rec, hMsg, err := i.getVisible(userID, role, id)
	if err != nil || hMsg != "" {
		return jobapimodels.JobView{}, hMsg, err
	}
	return rec.ToModel(), "", nil
}

func (i impl) ExportPdf(userID string, role models.UserRole, id string) (body []byte, hMsg string, err error) {
	rec, hMsg, err := i.getVisible(userID, role, id)
	if err != nil || hMsg != "" {
		return nil, hMsg, err
	}
	body, err = pdfexport.GenerateJobFlyer(rec.ToModel())
	if err != nil {
		i.getLogger(rec.EmployerID, id).WithError(err).Error("job flyer generation failed")
		return nil, "", err
	}
	return body, "", nil
}

// getVisible students see approved postings, employers their own, admins everything
func (i impl) getVisible(userID string, role models.UserRole, id string) (*dbmodels.JobPosting, string, error) {
	rec, err := i.jobStore.GetByID(id)
	if err != nil {
		log.WithField("job_id", id).WithError(err).Error("job posting fetch failed")
		return nil, "", err
	}
	if rec == nil {
		return nil, MsgJobNotFound, nil
	}
	switch role {
	case models.AdminRole:
		return rec, "", nil
	case models.EmployerRole:
		if rec.EmployerID == userID {
			return rec, "", nil
		}
	case models.StudentRole:
		if rec.Status == models.JobStatusApproved {
			return rec, "", nil
		}
	}
	return nil, MsgJobNotFound, nil
}

func (i impl) getOwn(employerID, id string) (*dbmodels.JobPosting, string, error) {
	rec, err := i.jobStore.GetByID(id)
	if err != nil {
		i.getLogger(employerID, id).WithError(err).Error("job posting fetch failed")
		return nil, "", err
	}
	if rec == nil || rec.EmployerID != employerID {
		return nil, MsgJobNotFound, nil
	}
	return rec, "", nil
}

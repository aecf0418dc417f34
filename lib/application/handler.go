package applicationhandler

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"schoolconnect-backend/db"
	applicationstore "schoolconnect-backend/lib/application/store"
	xlsexport "schoolconnect-backend/lib/export/xls"
	jobstore "schoolconnect-backend/lib/job/store"
	notificationhandler "schoolconnect-backend/lib/notification"
	resumestore "schoolconnect-backend/lib/resume/store"
	initchecker "schoolconnect-backend/lib/utils/init-checker"
	"schoolconnect-backend/models"
	apimodels "schoolconnect-backend/models/api"
	applicationapimodels "schoolconnect-backend/models/api/application"
	dbmodels "schoolconnect-backend/models/db"
)

const (
	MsgApplicationNotFound = "application not found"
	MsgAlreadyApplied      = "you have already applied to this job"
	MsgJobClosed           = "job posting is not accepting applications"
	MsgResumeRequired      = "upload a resume before applying"
	msgJobNotFound         = "job posting not found"
	msgResumeNotFound      = "resume not found"
	msgWithdrawNotAllowed  = "only pending applications can be withdrawn"
	MsgStatusConflict      = "application status was changed by someone else, reload and try again"
	exportPageSize         = 100
)

type Provider interface {
	Apply(studentID string, request applicationapimodels.ApplyRequest) (id, hMsg string, err error)
	ListByStudent(studentID string, filter applicationapimodels.ApplicationFilter) (list []applicationapimodels.ApplicationView, rowCount int64, err error)
	Withdraw(studentID, id string) (hMsg string, err error)
	ListByJob(employerID, jobID string, filter applicationapimodels.ApplicationFilter) (list []applicationapimodels.ApplicationView, rowCount int64, hMsg string, err error)
	Get(userID string, role models.UserRole, id string) (application applicationapimodels.ApplicationView, hMsg string, err error)
	ChangeStatus(employerID, id string, request applicationapimodels.StatusChange) (hMsg string, err error)
	ExportByJob(employerID, jobID string) (body *bytes.Buffer, hMsg string, err error)
}

var Instance Provider

func NewHandler() {
	initchecker.CheckInit(
		"db", db.DB,
		"notificationhandler", notificationhandler.Instance,
		"xlsexport", xlsexport.Instance,
	)
	Instance = impl{
		store:       applicationstore.NewInstance(db.DB),
		jobStore:    jobstore.NewInstance(db.DB),
		resumeStore: resumestore.NewInstance(db.DB),
		notifier:    notificationhandler.Instance,
		exporter:    xlsexport.Instance,
		now:         time.Now,
	}
}

type impl struct {
	store       applicationstore.Provider
	jobStore    jobstore.Provider
	resumeStore resumestore.Provider
	notifier    notificationhandler.Provider
	exporter    xlsexport.Provider
	now         func() time.Time
}

func (i impl) getLogger(userID, applicationID string) *log.Entry {
	logger := log.WithField("user_id", userID)
	if applicationID != "" {
		logger = logger.WithField("application_id", applicationID)
	}
	return logger
}

func (i impl) Apply(studentID string, request applicationapimodels.ApplyRequest) (id, hMsg string, err error) {
	logger := i.getLogger(studentID, "").WithField("job_id", request.JobID)
	if err = request.Validate(); err != nil {
		return "", err.Error(), nil
	}
	job, err := i.jobStore.GetByID(request.JobID)
	if err != nil {
		logger.WithError(err).Error("job posting fetch failed")
		return "", "", err
	}
	if job == nil || job.Status != models.JobStatusApproved {
		return "", msgJobNotFound, nil
	}
	now := i.now()
	if !job.IsOpen(now) || (job.Employer != nil && !job.Employer.IsActive) {
		return "", MsgJobClosed, nil
	}
	exist, err := i.store.Exist(job.ID, studentID)
	if err != nil {
		logger.WithError(err).Error("application existence check failed")
		return "", "", err
	}
	if exist {
		return "", MsgAlreadyApplied, nil
	}
	resume, hMsg, err := i.pickResume(studentID, request.ResumeID)
	if err != nil || hMsg != "" {
		return "", hMsg, err
	}
	rec := dbmodels.Application{
		JobID:           job.ID,
		StudentID:       studentID,
		ResumeID:        &resume.ID,
		CoverLetter:     strings.TrimSpace(request.CoverLetter),
		Status:          models.ApplicationStatusPending,
		StatusChangedAt: now,
	}
	id, err = i.store.Create(rec)
	if err != nil {
		logger.WithError(err).Error("application create failed")
		return "", "", err
	}
	logger.WithField("application_id", id).Info("application submitted")
	i.notifier.Send(job.EmployerID, models.NotificationApplicationReceived,
		fmt.Sprintf("A student applied to \"%s\".", job.Title))
	return id, "", nil
}

func (i impl) pickResume(studentID, resumeID string) (*dbmodels.Resume, string, error) {
	var resume *dbmodels.Resume
	var err error
	if resumeID == "" {
		resume, err = i.resumeStore.GetLatest(studentID)
		if err != nil {
			i.getLogger(studentID, "").WithError(err).Error("latest resume fetch failed")
			return nil, "", err
		}
		if resume == nil {
			return nil, MsgResumeRequired, nil
		}
		return resume, "", nil
	}
	resume, err = i.resumeStore.GetByID(resumeID)
	if err != nil {
		i.getLogger(studentID, "").WithError(err).Error("resume fetch failed")
		return nil, "", err
	}
	if resume == nil || resume.StudentID != studentID {
		return nil, msgResumeNotFound, nil
	}
	return resume, "", nil
}

func (i impl) ListByStudent(studentID string, filter applicationapimodels.ApplicationFilter) (list []applicationapimodels.ApplicationView, rowCount int64, err error) {
	rowCount, err = i.store.ListByStudentCount(studentID, filter)
	if err != nil {
		return nil, 0, err
	}
	recList, err := i.store.ListByStudent(studentID, filter)
	if err != nil {
		return nil, 0, err
	}
	return toViews(recList), rowCount, nil
}

func (i impl) Withdraw(studentID, id string) (hMsg string, err error) {
	logger := i.getLogger(studentID, id)
	rec, err := i.store.GetByID(id)
	if err != nil {
		logger.WithError(err).Error("application fetch failed")
		return "", err
	}
	if rec == nil || rec.StudentID != studentID {
		return MsgApplicationNotFound, nil
	}
	if rec.Status != models.ApplicationStatusPending {
		return msgWithdrawNotAllowed, nil
	}
	deleted, err := i.store.DeleteWithStatus(id, models.ApplicationStatusPending)
	if err != nil {
		logger.WithError(err).Error("application delete failed")
		return "", err
	}
	if !deleted {
		return msgWithdrawNotAllowed, nil
	}
	logger.Info("application withdrawn")
	if rec.Job != nil {
		i.notifier.Send(rec.Job.EmployerID, models.NotificationApplicationWithdrawn,
			fmt.Sprintf("%s withdrew the application to \"%s\".", studentName(rec), rec.Job.Title))
	}
	return "", nil
}

func (i impl) ListByJob(employerID, jobID string, filter applicationapimodels.ApplicationFilter) (list []applicationapimodels.ApplicationView, rowCount int64, hMsg string, err error) {
	if hMsg, err = i.checkJobOwner(employerID, jobID); err != nil || hMsg != "" {
		return nil, 0, hMsg, err
	}
	rowCount, err = i.store.ListByJobCount(jobID, filter)
	if err != nil {
		return nil, 0, "", err
	}
	recList, err := i.store.ListByJob(jobID, filter)
	if err != nil {
		return nil, 0, "", err
	}
	return toViews(recList), rowCount, "", nil
}

func (i impl) Get(userID string, role models.UserRole, id string) (application applicationapimodels.ApplicationView, hMsg string, err error) {
	rec, err := i.store.GetByID(id)
	if err != nil {
		i.getLogger(userID, id).WithError(err).Error("application fetch failed")
		return applicationapimodels.ApplicationView{}, "", err
	}
	if rec == nil || !canSee(rec, userID, role) {
		return applicationapimodels.ApplicationView{}, MsgApplicationNotFound, nil
	}
	return rec.ToModel(), "", nil
}

func canSee(rec *dbmodels.Application, userID string, role models.UserRole) bool {
	switch role {
	case models.AdminRole:
		return true
	case models.StudentRole:
		return rec.StudentID == userID
	case models.EmployerRole:
		return rec.Job != nil && rec.Job.EmployerID == userID
	}
	return false
}

func (i impl) ChangeStatus(employerID, id string, request applicationapimodels.StatusChange) (hMsg string, err error) {
	logger := i.getLogger(employerID, id)
	if err = request.Validate(); err != nil {
		return err.Error(), nil
	}
	rec, err := i.store.GetByID(id)
	if err != nil {
		logger.WithError(err).Error("application fetch failed")
		return "", err
	}
	if rec == nil || rec.Job == nil || rec.Job.EmployerID != employerID {
		return MsgApplicationNotFound, nil
	}
	if !rec.Status.CanChangeTo(request.Status) {
		return fmt.Sprintf("application can not be moved from %s to %s",
			rec.Status.ToHuman(), request.Status.ToHuman()), nil
	}
	updMap := map[string]interface{}{
		"status":            request.Status,
		"employer_note":     strings.TrimSpace(request.Note),
		"status_changed_at": i.now(),
	}
	updated, err := i.store.UpdateStatus(id, rec.Status, updMap)
	if err != nil {
		logger.WithError(err).Error("application status update failed")
		return "", err
	}
	if !updated {
		return MsgStatusConflict, nil
	}
	logger.
		WithField("prev_status", rec.Status).
		WithField("status", request.Status).
		Info("application status changed")
	msg := fmt.Sprintf("Your application to \"%s\" is now %s.", rec.Job.Title, request.Status.ToHuman())
	if note := strings.TrimSpace(request.Note); note != "" {
		msg += " Note from the employer: " + note
	}
	i.notifier.Send(rec.StudentID, models.NotificationApplicationStatusChange, msg)
	return "", nil
}

func (i impl) ExportByJob(employerID, jobID string) (body *bytes.Buffer, hMsg string, err error) {
	logger := i.getLogger(employerID, "").WithField("job_id", jobID)
	job, err := i.jobStore.GetByID(jobID)
	if err != nil {
		logger.WithError(err).Error("job posting fetch failed")
		return nil, "", err
	}
	if job == nil || job.EmployerID != employerID {
		return nil, msgJobNotFound, nil
	}
	list := []applicationapimodels.ApplicationView{}
	filter := applicationapimodels.ApplicationFilter{
		Pagination: apimodels.Pagination{Limit: exportPageSize, Page: 1},
	}
	for {
		recList, err := i.store.ListByJob(jobID, filter)
		if err != nil {
			logger.WithError(err).Error("applications fetch failed")
			return nil, "", err
		}
		list = append(list, toViews(recList)...)
		if len(recList) < exportPageSize {
			break
		}
		filter.Page++
	}
	body, err = i.exporter.ExportApplicationList(job.ToModel(), list)
	if err != nil {
		logger.WithError(err).Error("applications export failed")
		return nil, "", err
	}
	return body, "", nil
}

func (i impl) checkJobOwner(employerID, jobID string) (hMsg string, err error) {
	job, err := i.jobStore.GetByID(jobID)
	if err != nil {
		i.getLogger(employerID, "").WithField("job_id", jobID).WithError(err).Error("job posting fetch failed")
		return "", err
	}
	if job == nil || job.EmployerID != employerID {
		return msgJobNotFound, nil
	}
	return "", nil
}

func toViews(recList []dbmodels.Application) []applicationapimodels.ApplicationView {
	list := make([]applicationapimodels.ApplicationView, 0, len(recList))
	for _, rec := range recList {
		list = append(list, rec.ToModel())
	}
	return list
}

func studentName(rec *dbmodels.Application) string {
	if rec.Student != nil {
		return rec.Student.GetFullName()
	}
	return "A student"
}

package adminhandler

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
	usersstore "schoolconnect-backend/lib/users/store"
	initchecker "schoolconnect-backend/lib/utils/init-checker"
	connectionhub "schoolconnect-backend/lib/ws/hub/connection-hub"
	"schoolconnect-backend/models"
	adminapimodels "schoolconnect-backend/models/api/admin"
	jobapimodels "schoolconnect-backend/models/api/job"
	userapimodels "schoolconnect-backend/models/api/user"
	dbmodels "schoolconnect-backend/models/db"
)

const (
	msgJobNotFound      = "job posting not found"
	msgEmployerNotFound = "employer not found"
	msgUserNotFound     = "user not found"
	msgSelfDeactivation = "you can not deactivate your own account"
	MsgJobChanged       = "job posting was changed while under review, reload it before moderating"
	exportPageSize      = 100
)

type Provider interface {
	ModerationList(filter jobapimodels.ModerationFilter) (list []jobapimodels.JobView, rowCount int64, err error)
	Approve(adminID, jobID string) (hMsg string, err error)
	Reject(adminID, jobID string, request jobapimodels.RejectRequest) (hMsg string, err error)
	ExportJobs(filter jobapimodels.ModerationFilter) (*bytes.Buffer, error)
	EmployerList(filter userapimodels.UserFilter) (list []userapimodels.UserView, rowCount int64, err error)
	SetEmployerVerified(adminID, employerID string, verified bool) (hMsg string, err error)
	UserList(filter userapimodels.UserFilter) (list []userapimodels.UserView, rowCount int64, err error)
	SetUserActive(adminID, userID string, active bool) (hMsg string, err error)
	Stats() (adminapimodels.Stats, error)
}

var Instance Provider

func NewHandler() {
	initchecker.CheckInit(
		"db", db.DB,
		"notificationhandler", notificationhandler.Instance,
		"xlsexport", xlsexport.Instance,
		"connectionhub", connectionhub.Instance,
	)
	Instance = impl{
		jobStore:         jobstore.NewInstance(db.DB),
		usersStore:       usersstore.NewInstance(db.DB),
		applicationStore: applicationstore.NewInstance(db.DB),
		notifier:         notificationhandler.Instance,
		exporter:         xlsexport.Instance,
		hub:              connectionhub.Instance,
		now:              time.Now,
	}
}

type impl struct {
	jobStore         jobstore.Provider
	usersStore       usersstore.Provider
	applicationStore applicationstore.Provider
	notifier         notificationhandler.Provider
	exporter         xlsexport.Provider
	hub              connectionhub.Provider
	now              func() time.Time
}

func (i impl) getLogger(adminID string) *log.Entry {
	return log.WithField("admin_id", adminID)
}

func (i impl) ModerationList(filter jobapimodels.ModerationFilter) (list []jobapimodels.JobView, rowCount int64, err error) {
	rowCount, err = i.jobStore.ListForModerationCount(filter)
	if err != nil {
		return nil, 0, err
	}
	recList, err := i.jobStore.ListForModeration(filter)
	if err != nil {
		return nil, 0, err
	}
	return jobViews(recList), rowCount, nil
}

func (i impl) Approve(adminID, jobID string) (hMsg string, err error) {
	rec, hMsg, err := i.moderate(adminID, jobID, models.JobStatusApproved, "")
	if err != nil || hMsg != "" {
		return hMsg, err
	}
	i.notifier.Send(rec.EmployerID, models.NotificationJobApproved,
		fmt.Sprintf("Your job posting \"%s\" is approved and visible to students.", rec.Title))
	return "", nil
}

func (i impl) Reject(adminID, jobID string, request jobapimodels.RejectRequest) (hMsg string, err error) {
	if err = request.Validate(); err != nil {
		return err.Error(), nil
	}
	reason := strings.TrimSpace(request.Reason)
	rec, hMsg, err := i.moderate(adminID, jobID, models.JobStatusRejected, reason)
	if err != nil || hMsg != "" {
		return hMsg, err
	}
	i.notifier.Send(rec.EmployerID, models.NotificationJobRejected,
		fmt.Sprintf("Your job posting \"%s\" was rejected. Reason: %s", rec.Title, reason))
	return "", nil
}

func (i impl) moderate(adminID, jobID string, status models.JobStatus, reason string) (*dbmodels.JobPosting, string, error) {
	logger := i.getLogger(adminID).WithField("job_id", jobID)
	rec, err := i.jobStore.GetByID(jobID)
	if err != nil {
		logger.WithError(err).Error("job posting fetch failed")
		return nil, "", err
	}
	if rec == nil {
		return nil, msgJobNotFound, nil
	}
	if !rec.Status.CanModerateTo(status) {
		return nil, fmt.Sprintf("job posting is already %s", strings.ToLower(rec.Status.ToHuman())), nil
	}
	updMap := map[string]interface{}{
		"status":        status,
		"reject_reason": reason,
		"moderated_by":  adminID,
		"moderated_at":  i.now(),
	}
	updated, err := i.jobStore.UpdateIfUnchanged(jobID, rec.Status, rec.UpdatedAt, updMap)
	if err != nil {
		logger.WithError(err).Error("job posting moderation failed")
		return nil, "", err
	}
	if !updated {
		return nil, MsgJobChanged, nil
	}
	logger.
		WithField("prev_status", rec.Status).
		WithField("status", status).
		Info("job posting moderated")
	return rec, "", nil
}

func (i impl) ExportJobs(filter jobapimodels.ModerationFilter) (*bytes.Buffer, error) {
	list := []jobapimodels.JobView{}
	filter.Limit = exportPageSize
	filter.Page = 1
	for {
		recList, err := i.jobStore.ListForModeration(filter)
		if err != nil {
			return nil, err
		}
		list = append(list, jobViews(recList)...)
		if len(recList) < exportPageSize {
			break
		}
		filter.Page++
	}
	return i.exporter.ExportJobList(list)
}

func (i impl) EmployerList(filter userapimodels.UserFilter) (list []userapimodels.UserView, rowCount int64, err error) {
	filter.Role = models.EmployerRole
	return i.UserList(filter)
}

func (i impl) SetEmployerVerified(adminID, employerID string, verified bool) (hMsg string, err error) {
	logger := i.getLogger(adminID).WithField("employer_id", employerID)
	rec, err := i.usersStore.GetByID(employerID)
	if err != nil {
		logger.WithError(err).Error("employer fetch failed")
		return "", err
	}
	if rec == nil || rec.Role != models.EmployerRole {
		return msgEmployerNotFound, nil
	}
	if rec.IsVerified == verified {
		if verified {
			return "employer is already verified", nil
		}
		return "employer is not verified", nil
	}
	updMap := map[string]interface{}{
		"is_verified": verified,
		"verified_at": nil,
		"verified_by": nil,
	}
	if verified {
		updMap["verified_at"] = i.now()
		updMap["verified_by"] = adminID
	}
	if err = i.usersStore.Update(employerID, updMap); err != nil {
		logger.WithError(err).Error("employer verification update failed")
		return "", err
	}
	logger.WithField("verified", verified).Info("employer verification changed")
	if verified {
		i.notifier.Send(employerID, models.NotificationEmployerVerified,
			"Your employer account is verified. You can now sign in and post jobs.")
	} else {
		i.notifier.Send(employerID, models.NotificationEmployerRevoked,
			"Your employer verification was revoked. Contact the school administration for details.")
	}
	return "", nil
}

func (i impl) UserList(filter userapimodels.UserFilter) (list []userapimodels.UserView, rowCount int64, err error) {
	rowCount, err = i.usersStore.ListCount(filter)
	if err != nil {
		return nil, 0, err
	}
	recList, err := i.usersStore.List(filter)
	if err != nil {
		return nil, 0, err
	}
	list = make([]userapimodels.UserView, 0, len(recList))
	for _, rec := range recList {
		list = append(list, rec.ToModel())
	}
	return list, rowCount, nil
}

func (i impl) SetUserActive(adminID, userID string, active bool) (hMsg string, err error) {
	logger := i.getLogger(adminID).WithField("user_id", userID)
	if !active && adminID == userID {
		return msgSelfDeactivation, nil
	}
	rec, err := i.usersStore.GetByID(userID)
	if err != nil {
		logger.WithError(err).Error("user fetch failed")
		return "", err
	}
	if rec == nil {
		return msgUserNotFound, nil
	}
	if rec.IsActive == active {
		return "", nil
	}
	if err = i.usersStore.Update(userID, map[string]interface{}{"is_active": active}); err != nil {
		logger.WithError(err).Error("user activity update failed")
		return "", err
	}
	logger.WithField("active", active).Info("user activity changed")
	if !active && i.hub != nil {
		// live notification socket of a deactivated user
		i.hub.SendClose(userID)
	}
	return "", nil
}

func (i impl) Stats() (adminapimodels.Stats, error) {
	users, err := i.usersStore.CountByRole()
	if err != nil {
		return adminapimodels.Stats{}, err
	}
	jobs, err := i.jobStore.CountByStatus()
	if err != nil {
		return adminapimodels.Stats{}, err
	}
	applications, err := i.applicationStore.CountByStatus()
	if err != nil {
		return adminapimodels.Stats{}, err
	}
	unverified, err := i.usersStore.CountUnverifiedEmployers()
	if err != nil {
		return adminapimodels.Stats{}, err
	}
	return adminapimodels.Stats{
		Users:               users,
		Jobs:                jobs,
		Applications:        applications,
		UnverifiedEmployers: unverified,
	}, nil
}

func jobViews(recList []dbmodels.JobPostingExt) []jobapimodels.JobView {
	list := make([]jobapimodels.JobView, 0, len(recList))
	for _, rec := range recList {
		list = append(list, rec.ToModel())
	}
	return list
}

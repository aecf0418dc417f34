package adminhandler

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	applicationstore "schoolconnect-backend/lib/application/store"
	jobstore "schoolconnect-backend/lib/job/store"
	notificationhandler "schoolconnect-backend/lib/notification"
	usersstore "schoolconnect-backend/lib/users/store"
	connectionhub "schoolconnect-backend/lib/ws/hub/connection-hub"
	"schoolconnect-backend/models"
	applicationapimodels "schoolconnect-backend/models/api/application"
	jobapimodels "schoolconnect-backend/models/api/job"
	userapimodels "schoolconnect-backend/models/api/user"
	dbmodels "schoolconnect-backend/models/db"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type fakeJobStore struct {
	jobstore.Provider
	jobs    map[string]*dbmodels.JobPosting
	updates map[string]map[string]interface{}
	total   int
	filters []jobapimodels.ModerationFilter
	// beforeWrite runs between the handler read and the conditional write
	beforeWrite func(rec *dbmodels.JobPosting)
}

func (f *fakeJobStore) GetByID(id string) (*dbmodels.JobPosting, error) {
	rec, ok := f.jobs[id]
	if !ok {
		return nil, nil
	}
	cp := *rec
	return &cp, nil
}

func (f *fakeJobStore) UpdateIfUnchanged(id string, prevStatus models.JobStatus, prevUpdatedAt time.Time, updMap map[string]interface{}) (bool, error) {
	rec, ok := f.jobs[id]
	if !ok {
		return false, nil
	}
	if f.beforeWrite != nil {
		f.beforeWrite(rec)
	}
	if rec.Status != prevStatus || !rec.UpdatedAt.Equal(prevUpdatedAt) {
		return false, nil
	}
	rec.Status = updMap["status"].(models.JobStatus)
	rec.UpdatedAt = rec.UpdatedAt.Add(time.Second)
	f.updates[id] = updMap
	return true, nil
}

func (f *fakeJobStore) ListForModeration(filter jobapimodels.ModerationFilter) ([]dbmodels.JobPostingExt, error) {
	f.filters = append(f.filters, filter)
	page, limit := filter.GetPage()
	rows := f.total - (page-1)*limit
	if rows > limit {
		rows = limit
	}
	list := []dbmodels.JobPostingExt{}
	for i := 0; i < rows; i++ {
		list = append(list, dbmodels.JobPostingExt{JobPosting: dbmodels.JobPosting{Title: "Barista"}})
	}
	return list, nil
}

func (f *fakeJobStore) CountByStatus() (map[models.JobStatus]int64, error) {
	return map[models.JobStatus]int64{models.JobStatusPending: 2, models.JobStatusApproved: 5}, nil
}

type fakeUsersStore struct {
	usersstore.Provider
	users   map[string]*dbmodels.User
	updates map[string]map[string]interface{}
	filter  userapimodels.UserFilter
}

func (f *fakeUsersStore) GetByID(userID string) (*dbmodels.User, error) {
	return f.users[userID], nil
}

func (f *fakeUsersStore) Update(userID string, updMap map[string]interface{}) error {
	f.updates[userID] = updMap
	return nil
}

func (f *fakeUsersStore) List(filter userapimodels.UserFilter) ([]dbmodels.User, error) {
	f.filter = filter
	list := []dbmodels.User{}
	for _, rec := range f.users {
		if filter.Role == "" || rec.Role == filter.Role {
			list = append(list, *rec)
		}
	}
	return list, nil
}

func (f *fakeUsersStore) ListCount(filter userapimodels.UserFilter) (int64, error) {
	list, _ := f.List(filter)
	return int64(len(list)), nil
}

func (f *fakeUsersStore) CountByRole() (map[models.UserRole]int64, error) {
	return map[models.UserRole]int64{models.StudentRole: 10, models.EmployerRole: 3, models.AdminRole: 1}, nil
}

func (f *fakeUsersStore) CountUnverifiedEmployers() (int64, error) {
	return 1, nil
}

type fakeApplicationStore struct {
	applicationstore.Provider
}

func (f fakeApplicationStore) CountByStatus() (map[models.ApplicationStatus]int64, error) {
	return map[models.ApplicationStatus]int64{models.ApplicationStatusPending: 7}, nil
}

type sentNotification struct {
	userID string
	code   models.NotificationCode
	msg    string
}

type fakeNotifier struct {
	notificationhandler.Provider
	sent []sentNotification
}

func (f *fakeNotifier) Send(userID string, code models.NotificationCode, msg string) {
	f.sent = append(f.sent, sentNotification{userID: userID, code: code, msg: msg})
}

type fakeHub struct {
	connectionhub.Provider
	closed []string
}

func (f *fakeHub) SendClose(userID string) {
	f.closed = append(f.closed, userID)
}

type fakeExporter struct {
	jobs []jobapimodels.JobView
}

func (f *fakeExporter) ExportJobList(list []jobapimodels.JobView) (*bytes.Buffer, error) {
	f.jobs = list
	return bytes.NewBufferString("jobs"), nil
}

func (f *fakeExporter) ExportApplicationList(job jobapimodels.JobView, list []applicationapimodels.ApplicationView) (*bytes.Buffer, error) {
	return bytes.NewBufferString("applications"), nil
}

type testEnv struct {
	handler  impl
	jobs     *fakeJobStore
	users    *fakeUsersStore
	notifier *fakeNotifier
	exporter *fakeExporter
	hub      *fakeHub
}

func newTestEnv() testEnv {
	jobs := &fakeJobStore{
		jobs: map[string]*dbmodels.JobPosting{
			"job-pending":  {BaseModel: dbmodels.BaseModel{ID: "job-pending"}, EmployerID: "employer-1", Title: "Barista", Status: models.JobStatusPending},
			"job-approved": {BaseModel: dbmodels.BaseModel{ID: "job-approved"}, EmployerID: "employer-1", Title: "Cashier", Status: models.JobStatusApproved},
			"job-rejected": {BaseModel: dbmodels.BaseModel{ID: "job-rejected"}, EmployerID: "employer-1", Title: "Lifeguard", Status: models.JobStatusRejected, RejectReason: "no pay listed"},
		},
		updates: map[string]map[string]interface{}{},
	}
	users := &fakeUsersStore{
		users: map[string]*dbmodels.User{
			"admin-1":    {BaseModel: dbmodels.BaseModel{ID: "admin-1"}, Role: models.AdminRole, IsActive: true},
			"employer-1": {BaseModel: dbmodels.BaseModel{ID: "employer-1"}, Role: models.EmployerRole, IsActive: true},
			"student-1":  {BaseModel: dbmodels.BaseModel{ID: "student-1"}, Role: models.StudentRole, IsActive: true},
		},
		updates: map[string]map[string]interface{}{},
	}
	notifier := &fakeNotifier{}
	exporter := &fakeExporter{}
	hub := &fakeHub{}
	return testEnv{
		handler: impl{
			jobStore:         jobs,
			usersStore:       users,
			applicationStore: fakeApplicationStore{},
			notifier:         notifier,
			exporter:         exporter,
			hub:              hub,
			now:              func() time.Time { return testNow },
		},
		jobs:     jobs,
		users:    users,
		notifier: notifier,
		exporter: exporter,
		hub:      hub,
	}
}

func TestModeration(t *testing.T) {
	t.Run(`approve pending job`, func(t *testing.T) {
		env := newTestEnv()
		hMsg, err := env.handler.Approve("admin-1", "job-pending")
		require.NoError(t, err)
		require.Empty(t, hMsg)
		upd := env.jobs.updates["job-pending"]
		require.Equal(t, models.JobStatusApproved, upd["status"])
		require.Equal(t, "admin-1", upd["moderated_by"])
		require.Equal(t, testNow, upd["moderated_at"])
		require.Equal(t, "", upd["reject_reason"])
		require.Len(t, env.notifier.sent, 1)
		require.Equal(t, models.NotificationJobApproved, env.notifier.sent[0].code)
		require.Equal(t, "employer-1", env.notifier.sent[0].userID)
	})
	t.Run(`approve twice`, func(t *testing.T) {
		env := newTestEnv()
		hMsg, err := env.handler.Approve("admin-1", "job-approved")
		require.NoError(t, err)
		require.Equal(t, "job posting is already approved", hMsg)
		require.Empty(t, env.jobs.updates)
		require.Empty(t, env.notifier.sent)
	})
	t.Run(`reject keeps the reason`, func(t *testing.T) {
		env := newTestEnv()
		hMsg, err := env.handler.Reject("admin-1", "job-approved", jobapimodels.RejectRequest{Reason: "  pay below minimum wage "})
		require.NoError(t, err)
		require.Empty(t, hMsg)
		upd := env.jobs.updates["job-approved"]
		require.Equal(t, models.JobStatusRejected, upd["status"])
		require.Equal(t, "pay below minimum wage", upd["reject_reason"])
		require.Equal(t, models.NotificationJobRejected, env.notifier.sent[0].code)
		require.Contains(t, env.notifier.sent[0].msg, "pay below minimum wage")
	})
	t.Run(`rejected job can be approved on review`, func(t *testing.T) {
		env := newTestEnv()
		hMsg, err := env.handler.Approve("admin-1", "job-rejected")
		require.NoError(t, err)
		require.Empty(t, hMsg)
		upd := env.jobs.updates["job-rejected"]
		require.Equal(t, models.JobStatusApproved, upd["status"])
		require.Equal(t, "", upd["reject_reason"])
		require.Equal(t, models.NotificationJobApproved, env.notifier.sent[0].code)
	})
	t.Run(`rejected twice`, func(t *testing.T) {
		env := newTestEnv()
		hMsg, err := env.handler.Reject("admin-1", "job-rejected", jobapimodels.RejectRequest{Reason: "still no pay"})
		require.NoError(t, err)
		require.Equal(t, "job posting is already rejected", hMsg)
		require.Empty(t, env.jobs.updates)
	})
	t.Run(`edited during review is not approved`, func(t *testing.T) {
		env := newTestEnv()
		env.jobs.beforeWrite = func(rec *dbmodels.JobPosting) {
			rec.Title = "Barista, nights"
			rec.UpdatedAt = rec.UpdatedAt.Add(time.Minute)
		}
		hMsg, err := env.handler.Approve("admin-1", "job-pending")
		require.NoError(t, err)
		require.Equal(t, MsgJobChanged, hMsg)
		require.Empty(t, env.jobs.updates)
		require.Empty(t, env.notifier.sent)
		require.Equal(t, models.JobStatusPending, env.jobs.jobs["job-pending"].Status)
	})
	t.Run(`reject requires a reason`, func(t *testing.T) {
		env := newTestEnv()
		hMsg, err := env.handler.Reject("admin-1", "job-pending", jobapimodels.RejectRequest{Reason: "  "})
		require.NoError(t, err)
		require.Equal(t, "rejection reason is required", hMsg)
		require.Empty(t, env.jobs.updates)
	})
	t.Run(`unknown job`, func(t *testing.T) {
		env := newTestEnv()
		hMsg, err := env.handler.Approve("admin-1", "missing")
		require.NoError(t, err)
		require.Equal(t, msgJobNotFound, hMsg)
	})
}

func TestExportJobs(t *testing.T) {
	env := newTestEnv()
	env.jobs.total = exportPageSize*2 + 1
	body, err := env.handler.ExportJobs(jobapimodels.ModerationFilter{Status: models.JobStatusApproved})
	require.NoError(t, err)
	require.Equal(t, "jobs", body.String())
	require.Len(t, env.exporter.jobs, exportPageSize*2+1)
	require.Len(t, env.jobs.filters, 3)
	for idx, filter := range env.jobs.filters {
		require.Equal(t, idx+1, filter.Page)
		require.Equal(t, models.JobStatusApproved, filter.Status)
	}
}

func TestSetEmployerVerified(t *testing.T) {
	t.Run(`verify then revoke`, func(t *testing.T) {
		env := newTestEnv()
		hMsg, err := env.handler.SetEmployerVerified("admin-1", "employer-1", true)
		require.NoError(t, err)
		require.Empty(t, hMsg)
		upd := env.users.updates["employer-1"]
		require.Equal(t, true, upd["is_verified"])
		require.Equal(t, "admin-1", upd["verified_by"])
		require.Equal(t, testNow, upd["verified_at"])
		require.Equal(t, models.NotificationEmployerVerified, env.notifier.sent[0].code)

		env.users.users["employer-1"].IsVerified = true
		hMsg, err = env.handler.SetEmployerVerified("admin-1", "employer-1", false)
		require.NoError(t, err)
		require.Empty(t, hMsg)
		upd = env.users.updates["employer-1"]
		require.Equal(t, false, upd["is_verified"])
		require.Nil(t, upd["verified_by"])
		require.Equal(t, models.NotificationEmployerRevoked, env.notifier.sent[1].code)
	})
	t.Run(`same state is refused`, func(t *testing.T) {
		env := newTestEnv()
		hMsg, err := env.handler.SetEmployerVerified("admin-1", "employer-1", false)
		require.NoError(t, err)
		require.Equal(t, "employer is not verified", hMsg)
	})
	t.Run(`only employers`, func(t *testing.T) {
		env := newTestEnv()
		hMsg, err := env.handler.SetEmployerVerified("admin-1", "student-1", true)
		require.NoError(t, err)
		require.Equal(t, msgEmployerNotFound, hMsg)
	})
}

func TestSetUserActive(t *testing.T) {
	t.Run(`deactivate user`, func(t *testing.T) {
		env := newTestEnv()
		hMsg, err := env.handler.SetUserActive("admin-1", "student-1", false)
		require.NoError(t, err)
		require.Empty(t, hMsg)
		require.Equal(t, false, env.users.updates["student-1"]["is_active"])
		require.Equal(t, []string{"student-1"}, env.hub.closed)
	})
	t.Run(`self deactivation`, func(t *testing.T) {
		env := newTestEnv()
		hMsg, err := env.handler.SetUserActive("admin-1", "admin-1", false)
		require.NoError(t, err)
		require.Equal(t, msgSelfDeactivation, hMsg)
	})
	t.Run(`same state is a no-op`, func(t *testing.T) {
		env := newTestEnv()
		hMsg, err := env.handler.SetUserActive("admin-1", "student-1", true)
		require.NoError(t, err)
		require.Empty(t, hMsg)
		require.Empty(t, env.users.updates)
	})
	t.Run(`unknown user`, func(t *testing.T) {
		env := newTestEnv()
		hMsg, err := env.handler.SetUserActive("admin-1", "missing", true)
		require.NoError(t, err)
		require.Equal(t, msgUserNotFound, hMsg)
	})
}

func TestListsAndStats(t *testing.T) {
	env := newTestEnv()
	list, rowCount, err := env.handler.EmployerList(userapimodels.UserFilter{Role: models.StudentRole})
	require.NoError(t, err)
	require.Equal(t, int64(1), rowCount)
	require.Len(t, list, 1)
	require.Equal(t, models.EmployerRole, env.users.filter.Role)

	stats, err := env.handler.Stats()
	require.NoError(t, err)
	require.Equal(t, int64(10), stats.Users[models.StudentRole])
	require.Equal(t, int64(2), stats.Jobs[models.JobStatusPending])
	require.Equal(t, int64(7), stats.Applications[models.ApplicationStatusPending])
	require.Equal(t, int64(1), stats.UnverifiedEmployers)
}

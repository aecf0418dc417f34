package applicationhandler

import (
	"bytes"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	applicationstore "schoolconnect-backend/lib/application/store"
	jobstore "schoolconnect-backend/lib/job/store"
	notificationhandler "schoolconnect-backend/lib/notification"
	resumestore "schoolconnect-backend/lib/resume/store"
	"schoolconnect-backend/models"
	applicationapimodels "schoolconnect-backend/models/api/application"
	jobapimodels "schoolconnect-backend/models/api/job"
	dbmodels "schoolconnect-backend/models/db"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type fakeApplicationStore struct {
	applicationstore.Provider
	recs    map[string]*dbmodels.Application
	updates map[string]map[string]interface{}
	pages   []int
	// beforeWrite runs between the handler read and the conditional write
	beforeWrite func(rec *dbmodels.Application)
}

func newFakeApplicationStore() *fakeApplicationStore {
	return &fakeApplicationStore{
		recs:    map[string]*dbmodels.Application{},
		updates: map[string]map[string]interface{}{},
	}
}

func (f *fakeApplicationStore) Create(rec dbmodels.Application) (string, error) {
	rec.ID = "app-" + strconv.Itoa(len(f.recs)+1)
	f.recs[rec.ID] = &rec
	return rec.ID, nil
}

func (f *fakeApplicationStore) Exist(jobID, studentID string) (bool, error) {
	for _, rec := range f.recs {
		if rec.JobID == jobID && rec.StudentID == studentID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeApplicationStore) GetByID(id string) (*dbmodels.Application, error) {
	rec, ok := f.recs[id]
	if !ok {
		return nil, nil
	}
	cp := *rec
	return &cp, nil
}

func (f *fakeApplicationStore) UpdateStatus(id string, prevStatus models.ApplicationStatus, updMap map[string]interface{}) (bool, error) {
	rec, ok := f.recs[id]
	if !ok {
		return false, nil
	}
	if f.beforeWrite != nil {
		f.beforeWrite(rec)
	}
	if rec.Status != prevStatus {
		return false, nil
	}
	rec.Status = updMap["status"].(models.ApplicationStatus)
	f.updates[id] = updMap
	return true, nil
}

func (f *fakeApplicationStore) DeleteWithStatus(id string, status models.ApplicationStatus) (bool, error) {
	rec, ok := f.recs[id]
	if !ok {
		return false, nil
	}
	if f.beforeWrite != nil {
		f.beforeWrite(rec)
	}
	if rec.Status != status {
		return false, nil
	}
	delete(f.recs, id)
	return true, nil
}

func (f *fakeApplicationStore) ListByJob(jobID string, filter applicationapimodels.ApplicationFilter) ([]dbmodels.Application, error) {
	f.pages = append(f.pages, filter.Page)
	all := []dbmodels.Application{}
	for i := 0; i < len(f.recs); i++ {
		rec := f.recs["app-"+strconv.Itoa(i+1)]
		if rec != nil && rec.JobID == jobID {
			all = append(all, *rec)
		}
	}
	page, limit := filter.GetPage()
	from := (page - 1) * limit
	if from >= len(all) {
		return nil, nil
	}
	to := from + limit
	if to > len(all) {
		to = len(all)
	}
	return all[from:to], nil
}

type fakeJobStore struct {
	jobstore.Provider
	jobs map[string]*dbmodels.JobPosting
}

func (f fakeJobStore) GetByID(id string) (*dbmodels.JobPosting, error) {
	return f.jobs[id], nil
}

type fakeResumeStore struct {
	resumestore.Provider
	resumes []dbmodels.Resume
}

func (f fakeResumeStore) GetByID(id string) (*dbmodels.Resume, error) {
	for _, rec := range f.resumes {
		if rec.ID == id {
			return &rec, nil
		}
	}
	return nil, nil
}

func (f fakeResumeStore) GetLatest(studentID string) (*dbmodels.Resume, error) {
	var latest *dbmodels.Resume
	for idx, rec := range f.resumes {
		if rec.StudentID == studentID && (latest == nil || rec.CreatedAt.After(latest.CreatedAt)) {
			latest = &f.resumes[idx]
		}
	}
	return latest, nil
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

type fakeExporter struct {
	job  jobapimodels.JobView
	list []applicationapimodels.ApplicationView
}

func (f *fakeExporter) ExportJobList(list []jobapimodels.JobView) (*bytes.Buffer, error) {
	return bytes.NewBufferString("jobs"), nil
}

func (f *fakeExporter) ExportApplicationList(job jobapimodels.JobView, list []applicationapimodels.ApplicationView) (*bytes.Buffer, error) {
	f.job = job
	f.list = list
	return bytes.NewBufferString("applications"), nil
}

type testEnv struct {
	handler  impl
	store    *fakeApplicationStore
	jobs     map[string]*dbmodels.JobPosting
	notifier *fakeNotifier
	exporter *fakeExporter
}

func newTestEnv() testEnv {
	deadline := testNow.Add(48 * time.Hour)
	passed := testNow.Add(-time.Hour)
	employer := &dbmodels.User{BaseModel: dbmodels.BaseModel{ID: "employer-1"}, IsActive: true, CompanyName: "Corner Cafe"}
	jobs := map[string]*dbmodels.JobPosting{
		"job-open": {
			BaseModel: dbmodels.BaseModel{ID: "job-open"}, EmployerID: "employer-1", Employer: employer,
			Title: "Barista", Status: models.JobStatusApproved, Deadline: &deadline,
		},
		"job-pending": {
			BaseModel: dbmodels.BaseModel{ID: "job-pending"}, EmployerID: "employer-1", Employer: employer,
			Title: "Cashier", Status: models.JobStatusPending,
		},
		"job-expired": {
			BaseModel: dbmodels.BaseModel{ID: "job-expired"}, EmployerID: "employer-1", Employer: employer,
			Title: "Lifeguard", Status: models.JobStatusApproved, Deadline: &passed,
		},
	}
	resumes := fakeResumeStore{resumes: []dbmodels.Resume{
		{BaseModel: dbmodels.BaseModel{ID: "resume-old", CreatedAt: testNow.Add(-48 * time.Hour)}, StudentID: "student-1", Name: "old.pdf"},
		{BaseModel: dbmodels.BaseModel{ID: "resume-new", CreatedAt: testNow.Add(-time.Hour)}, StudentID: "student-1", Name: "new.pdf"},
		{BaseModel: dbmodels.BaseModel{ID: "resume-other", CreatedAt: testNow}, StudentID: "student-2", Name: "other.pdf"},
	}}
	store := newFakeApplicationStore()
	notifier := &fakeNotifier{}
	exporter := &fakeExporter{}
	return testEnv{
		handler: impl{
			store:       store,
			jobStore:    fakeJobStore{jobs: jobs},
			resumeStore: resumes,
			notifier:    notifier,
			exporter:    exporter,
			now:         func() time.Time { return testNow },
		},
		store:    store,
		jobs:     jobs,
		notifier: notifier,
		exporter: exporter,
	}
}

func TestApply(t *testing.T) {
	t.Run(`uses the latest resume and notifies the employer`, func(t *testing.T) {
		env := newTestEnv()
		id, hMsg, err := env.handler.Apply("student-1", applicationapimodels.ApplyRequest{JobID: "job-open", CoverLetter: "  hello  "})
		require.NoError(t, err)
		require.Empty(t, hMsg)
		rec := env.store.recs[id]
		require.NotNil(t, rec)
		require.Equal(t, "resume-new", *rec.ResumeID)
		require.Equal(t, "hello", rec.CoverLetter)
		require.Equal(t, models.ApplicationStatusPending, rec.Status)
		require.Equal(t, testNow, rec.StatusChangedAt)
		require.Len(t, env.notifier.sent, 1)
		require.Equal(t, "employer-1", env.notifier.sent[0].userID)
		require.Equal(t, models.NotificationApplicationReceived, env.notifier.sent[0].code)
	})
	t.Run(`second application is refused`, func(t *testing.T) {
		env := newTestEnv()
		_, hMsg, err := env.handler.Apply("student-1", applicationapimodels.ApplyRequest{JobID: "job-open"})
		require.NoError(t, err)
		require.Empty(t, hMsg)
		_, hMsg, err = env.handler.Apply("student-1", applicationapimodels.ApplyRequest{JobID: "job-open"})
		require.NoError(t, err)
		require.Equal(t, MsgAlreadyApplied, hMsg)
		require.Len(t, env.store.recs, 1)
	})
	t.Run(`job must be approved and open`, func(t *testing.T) {
		env := newTestEnv()
		_, hMsg, err := env.handler.Apply("student-1", applicationapimodels.ApplyRequest{JobID: "job-pending"})
		require.NoError(t, err)
		require.Equal(t, msgJobNotFound, hMsg)
		_, hMsg, err = env.handler.Apply("student-1", applicationapimodels.ApplyRequest{JobID: "job-expired"})
		require.NoError(t, err)
		require.Equal(t, MsgJobClosed, hMsg)
		_, hMsg, err = env.handler.Apply("student-1", applicationapimodels.ApplyRequest{JobID: "missing"})
		require.NoError(t, err)
		require.Equal(t, msgJobNotFound, hMsg)
	})
	t.Run(`deactivated employer closes the job`, func(t *testing.T) {
		env := newTestEnv()
		env.jobs["job-open"].Employer.IsActive = false
		_, hMsg, err := env.handler.Apply("student-1", applicationapimodels.ApplyRequest{JobID: "job-open"})
		require.NoError(t, err)
		require.Equal(t, MsgJobClosed, hMsg)
	})
	t.Run(`resume is required`, func(t *testing.T) {
		env := newTestEnv()
		_, hMsg, err := env.handler.Apply("student-3", applicationapimodels.ApplyRequest{JobID: "job-open"})
		require.NoError(t, err)
		require.Equal(t, MsgResumeRequired, hMsg)
	})
	t.Run(`resume of another student`, func(t *testing.T) {
		env := newTestEnv()
		_, hMsg, err := env.handler.Apply("student-1", applicationapimodels.ApplyRequest{JobID: "job-open", ResumeID: "resume-other"})
		require.NoError(t, err)
		require.Equal(t, msgResumeNotFound, hMsg)
		require.Empty(t, env.store.recs)
	})
	t.Run(`explicit resume`, func(t *testing.T) {
		env := newTestEnv()
		id, hMsg, err := env.handler.Apply("student-1", applicationapimodels.ApplyRequest{JobID: "job-open", ResumeID: "resume-old"})
		require.NoError(t, err)
		require.Empty(t, hMsg)
		require.Equal(t, "resume-old", *env.store.recs[id].ResumeID)
	})
	t.Run(`job is required`, func(t *testing.T) {
		env := newTestEnv()
		_, hMsg, err := env.handler.Apply("student-1", applicationapimodels.ApplyRequest{})
		require.NoError(t, err)
		require.Equal(t, "job is not specified", hMsg)
	})
}

func TestWithdraw(t *testing.T) {
	t.Run(`pending application is removed`, func(t *testing.T) {
		env := newTestEnv()
		id, _, err := env.handler.Apply("student-1", applicationapimodels.ApplyRequest{JobID: "job-open"})
		require.NoError(t, err)
		env.store.recs[id].Job = env.jobs["job-open"]
		hMsg, err := env.handler.Withdraw("student-1", id)
		require.NoError(t, err)
		require.Empty(t, hMsg)
		require.Empty(t, env.store.recs)
		require.Len(t, env.notifier.sent, 2)
		require.Equal(t, models.NotificationApplicationWithdrawn, env.notifier.sent[1].code)
	})
	t.Run(`decided application stays`, func(t *testing.T) {
		env := newTestEnv()
		id, _, err := env.handler.Apply("student-1", applicationapimodels.ApplyRequest{JobID: "job-open"})
		require.NoError(t, err)
		env.store.recs[id].Status = models.ApplicationStatusAccepted
		hMsg, err := env.handler.Withdraw("student-1", id)
		require.NoError(t, err)
		require.Equal(t, msgWithdrawNotAllowed, hMsg)
		require.Len(t, env.store.recs, 1)
	})
	t.Run(`accepted while withdrawing`, func(t *testing.T) {
		env := newTestEnv()
		id, _, err := env.handler.Apply("student-1", applicationapimodels.ApplyRequest{JobID: "job-open"})
		require.NoError(t, err)
		env.store.beforeWrite = func(rec *dbmodels.Application) {
			rec.Status = models.ApplicationStatusAccepted
		}
		hMsg, err := env.handler.Withdraw("student-1", id)
		require.NoError(t, err)
		require.Equal(t, msgWithdrawNotAllowed, hMsg)
		require.Len(t, env.store.recs, 1)
		require.Len(t, env.notifier.sent, 1)
	})
	t.Run(`other student`, func(t *testing.T) {
		env := newTestEnv()
		id, _, err := env.handler.Apply("student-1", applicationapimodels.ApplyRequest{JobID: "job-open"})
		require.NoError(t, err)
		hMsg, err := env.handler.Withdraw("student-2", id)
		require.NoError(t, err)
		require.Equal(t, MsgApplicationNotFound, hMsg)
	})
}

func TestChangeStatus(t *testing.T) {
	setup := func(t *testing.T) (testEnv, string) {
		env := newTestEnv()
		id, _, err := env.handler.Apply("student-1", applicationapimodels.ApplyRequest{JobID: "job-open"})
		require.NoError(t, err)
		env.store.recs[id].Job = env.jobs["job-open"]
		return env, id
	}
	t.Run(`owner moves pending to accepted`, func(t *testing.T) {
		env, id := setup(t)
		hMsg, err := env.handler.ChangeStatus("employer-1", id, applicationapimodels.StatusChange{
			Status: models.ApplicationStatusAccepted,
			Note:   " see you monday ",
		})
		require.NoError(t, err)
		require.Empty(t, hMsg)
		upd := env.store.updates[id]
		require.Equal(t, models.ApplicationStatusAccepted, upd["status"])
		require.Equal(t, "see you monday", upd["employer_note"])
		last := env.notifier.sent[len(env.notifier.sent)-1]
		require.Equal(t, "student-1", last.userID)
		require.Equal(t, models.NotificationApplicationStatusChange, last.code)
		require.Contains(t, last.msg, "see you monday")
	})
	t.Run(`final status can not change`, func(t *testing.T) {
		env, id := setup(t)
		env.store.recs[id].Status = models.ApplicationStatusRejected
		hMsg, err := env.handler.ChangeStatus("employer-1", id, applicationapimodels.StatusChange{Status: models.ApplicationStatusAccepted})
		require.NoError(t, err)
		require.Equal(t, "application can not be moved from Rejected to Accepted", hMsg)
		require.Empty(t, env.store.updates)
	})
	t.Run(`concurrent decision keeps the first one`, func(t *testing.T) {
		env, id := setup(t)
		env.store.beforeWrite = func(rec *dbmodels.Application) {
			if rec.Status == models.ApplicationStatusPending {
				rec.Status = models.ApplicationStatusAccepted
			}
		}
		sentBefore := len(env.notifier.sent)
		hMsg, err := env.handler.ChangeStatus("employer-1", id, applicationapimodels.StatusChange{Status: models.ApplicationStatusRejected})
		require.NoError(t, err)
		require.Equal(t, MsgStatusConflict, hMsg)
		require.Equal(t, models.ApplicationStatusAccepted, env.store.recs[id].Status)
		require.Empty(t, env.store.updates)
		require.Len(t, env.notifier.sent, sentBefore)
	})
	t.Run(`back to pending is invalid`, func(t *testing.T) {
		env, id := setup(t)
		hMsg, err := env.handler.ChangeStatus("employer-1", id, applicationapimodels.StatusChange{Status: models.ApplicationStatusPending})
		require.NoError(t, err)
		require.NotEmpty(t, hMsg)
	})
	t.Run(`foreign employer`, func(t *testing.T) {
		env, id := setup(t)
		hMsg, err := env.handler.ChangeStatus("employer-2", id, applicationapimodels.StatusChange{Status: models.ApplicationStatusReviewed})
		require.NoError(t, err)
		require.Equal(t, MsgApplicationNotFound, hMsg)
	})
}

func TestGet(t *testing.T) {
	env := newTestEnv()
	id, _, err := env.handler.Apply("student-1", applicationapimodels.ApplyRequest{JobID: "job-open"})
	require.NoError(t, err)
	env.store.recs[id].Job = env.jobs["job-open"]

	cases := []struct {
		userID  string
		role    models.UserRole
		visible bool
	}{
		{"student-1", models.StudentRole, true},
		{"student-2", models.StudentRole, false},
		{"employer-1", models.EmployerRole, true},
		{"employer-2", models.EmployerRole, false},
		{"admin-1", models.AdminRole, true},
	}
	for _, tc := range cases {
		view, hMsg, err := env.handler.Get(tc.userID, tc.role, id)
		require.NoError(t, err)
		if tc.visible {
			require.Empty(t, hMsg, tc.userID)
			require.Equal(t, "Barista", view.JobTitle)
		} else {
			require.Equal(t, MsgApplicationNotFound, hMsg, tc.userID)
		}
	}
}

func TestExportByJob(t *testing.T) {
	t.Run(`pages through every application`, func(t *testing.T) {
		env := newTestEnv()
		for i := 0; i < exportPageSize+5; i++ {
			_, err := env.store.Create(dbmodels.Application{JobID: "job-open", StudentID: "student-" + strconv.Itoa(i)})
			require.NoError(t, err)
		}
		body, hMsg, err := env.handler.ExportByJob("employer-1", "job-open")
		require.NoError(t, err)
		require.Empty(t, hMsg)
		require.Equal(t, "applications", body.String())
		require.Len(t, env.exporter.list, exportPageSize+5)
		require.Equal(t, []int{1, 2}, env.store.pages)
		require.Equal(t, "Barista", env.exporter.job.Title)
	})
	t.Run(`foreign job`, func(t *testing.T) {
		env := newTestEnv()
		_, hMsg, err := env.handler.ExportByJob("employer-2", "job-open")
		require.NoError(t, err)
		require.Equal(t, msgJobNotFound, hMsg)
	})
}

package resumehandler

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"schoolconnect-backend/config"
	"schoolconnect-backend/db"
	applicationstore "schoolconnect-backend/lib/application/store"
	filestorage "schoolconnect-backend/lib/file-storage"
	resumestore "schoolconnect-backend/lib/resume/store"
	initchecker "schoolconnect-backend/lib/utils/init-checker"
	"schoolconnect-backend/lib/utils/lock"
	"schoolconnect-backend/models"
	resumeapimodels "schoolconnect-backend/models/api/resume"
	dbmodels "schoolconnect-backend/models/db"
)

const (
	MsgResumeNotFound   = "resume not found"
	MaxResumesPerUser   = 5
	msgEmptyFile        = "file is empty"
	msgUnsupportedType  = "resume must be a PDF, DOC or DOCX file"
	msgResumeInUse      = "resume is attached to an application under review"
	msgTooManyResumes   = "you can keep at most 5 resumes, delete one first"
	msgUploadInProgress = "another upload is in progress, try again"
	uploadLockWait      = 10 * time.Second
	maxNameLen          = 255
)

var allowedTypes = []string{
	"application/pdf",
	"application/msword",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

type Provider interface {
	Upload(ctx context.Context, studentID string, file resumeapimodels.ResumeFile) (id, hMsg string, err error)
	List(studentID string) ([]resumeapimodels.ResumeView, error)
	Download(ctx context.Context, userID string, role models.UserRole, id string) (file resumeapimodels.ResumeFile, hMsg string, err error)
	DownloadByApplication(ctx context.Context, employerID, applicationID string) (file resumeapimodels.ResumeFile, hMsg string, err error)
	Delete(ctx context.Context, studentID, id string) (hMsg string, err error)
}

var Instance Provider

func NewHandler() {
	initchecker.CheckInit(
		"db", db.DB,
		"filestorage", filestorage.Instance,
	)
	Instance = impl{
		store:            resumestore.NewInstance(db.DB),
		applicationStore: applicationstore.NewInstance(db.DB),
		fileStorage:      filestorage.Instance,
		maxSize:          int64(config.Conf.S3.MaxResumeSizeMb) * 1024 * 1024,
	}
}

type impl struct {
	store            resumestore.Provider
	applicationStore applicationstore.Provider
	fileStorage      filestorage.Provider
	maxSize          int64
}

func (i impl) getLogger(userID, resumeID string) *log.Entry {
	logger := log.WithField("user_id", userID)
	if resumeID != "" {
		logger = logger.WithField("resume_id", resumeID)
	}
	return logger
}

func (i impl) Upload(ctx context.Context, studentID string, file resumeapimodels.ResumeFile) (id, hMsg string, err error) {
	logger := i.getLogger(studentID, "")
	if len(file.Body) == 0 {
		return "", msgEmptyFile, nil
	}
	if i.maxSize > 0 && int64(len(file.Body)) > i.maxSize {
		return "", fmt.Sprintf("file must be at most %d MB", i.maxSize/1024/1024), nil
	}
	mtype := mimetype.Detect(file.Body)
	if !isAllowed(mtype) {
		logger.WithField("content_type", mtype.String()).Info("resume upload refused, unsupported content")
		return "", msgUnsupportedType, nil
	}
	// count and insert under one lock so parallel uploads can not pass the limit
	locked, err := lock.WithDelay(ctx, "resume_upload:"+studentID, uploadLockWait, func() error {
		id, hMsg, err = i.save(ctx, logger, studentID, file, mtype)
		return err
	})
	if err != nil {
		return "", "", err
	}
	if !locked {
		return "", msgUploadInProgress, nil
	}
	return id, hMsg, nil
}

func (i impl) save(ctx context.Context, logger *log.Entry, studentID string, file resumeapimodels.ResumeFile, mtype *mimetype.MIME) (id, hMsg string, err error) {
	count, err := i.store.CountByStudent(studentID)
	if err != nil {
		logger.WithError(err).Error("resume count failed")
		return "", "", err
	}
	if count >= MaxResumesPerUser {
		return "", msgTooManyResumes, nil
	}
	key := fmt.Sprintf("resumes/%s/%s%s", studentID, uuid.NewString(), mtype.Extension())
	if err = i.fileStorage.PutObject(ctx, key, file.Body, mtype.String()); err != nil {
		logger.WithError(err).Error("resume upload failed")
		return "", "", err
	}
	rec := dbmodels.Resume{
		StudentID:   studentID,
		Name:        resumeName(file.Name, mtype.Extension()),
		ContentType: mtype.String(),
		Size:        int64(len(file.Body)),
		ObjectKey:   key,
	}
	id, err = i.store.Create(rec)
	if err != nil {
		logger.WithError(err).Error("resume save failed")
		if rmErr := i.fileStorage.RemoveObject(ctx, key); rmErr != nil {
			logger.WithError(rmErr).Error("orphan resume object remove failed")
		}
		return "", "", err
	}
	logger.WithField("resume_id", id).Info("resume uploaded")
	return id, "", nil
}

func isAllowed(mtype *mimetype.MIME) bool {
	for _, allowed := range allowedTypes {
		if mtype.Is(allowed) {
			return true
		}
	}
	return false
}

func resumeName(name, ext string) string {
	name = strings.TrimSpace(filepath.Base(name))
	if name == "" || name == "." || name == string(filepath.Separator) {
		return "resume" + ext
	}
	return keepLastRunes(name, maxNameLen)
}

// keepLastRunes the extension is at the end, so the head is cut
func keepLastRunes(value string, limit int) string {
	runes := []rune(value)
	if len(runes) <= limit {
		return value
	}
	return string(runes[len(runes)-limit:])
}

func (i impl) List(studentID string) ([]resumeapimodels.ResumeView, error) {
	recList, err := i.store.ListByStudent(studentID)
	if err != nil {
		return nil, err
	}
	list := make([]resumeapimodels.ResumeView, 0, len(recList))
	for _, rec := range recList {
		list = append(list, rec.ToModel())
	}
	return list, nil
}

func (i impl) Download(ctx context.Context, userID string, role models.UserRole, id string) (file resumeapimodels.ResumeFile, hMsg string, err error) {
	rec, err := i.store.GetByID(id)
	if err != nil {
		i.getLogger(userID, id).WithError(err).Error("resume fetch failed")
		return resumeapimodels.ResumeFile{}, "", err
	}
	if rec == nil || (role != models.AdminRole && rec.StudentID != userID) {
		return resumeapimodels.ResumeFile{}, MsgResumeNotFound, nil
	}
	return i.load(ctx, userID, rec)
}

func (i impl) DownloadByApplication(ctx context.Context, employerID, applicationID string) (file resumeapimodels.ResumeFile, hMsg string, err error) {
	logger := i.getLogger(employerID, "").WithField("application_id", applicationID)
	application, err := i.applicationStore.GetByID(applicationID)
	if err != nil {
		logger.WithError(err).Error("application fetch failed")
		return resumeapimodels.ResumeFile{}, "", err
	}
	if application == nil || application.Job == nil || application.Job.EmployerID != employerID {
		return resumeapimodels.ResumeFile{}, "application not found", nil
	}
	if application.Resume == nil {
		return resumeapimodels.ResumeFile{}, MsgResumeNotFound, nil
	}
	return i.load(ctx, employerID, application.Resume)
}

func (i impl) load(ctx context.Context, userID string, rec *dbmodels.Resume) (resumeapimodels.ResumeFile, string, error) {
	body, err := i.fileStorage.GetObject(ctx, rec.ObjectKey)
	if err != nil {
		i.getLogger(userID, rec.ID).WithError(err).Error("resume download failed")
		return resumeapimodels.ResumeFile{}, "", err
	}
	return resumeapimodels.ResumeFile{
		Name:        rec.Name,
		ContentType: rec.ContentType,
		Body:        body,
	}, "", nil
}

func (i impl) Delete(ctx context.Context, studentID, id string) (hMsg string, err error) {
	logger := i.getLogger(studentID, id)
	rec, err := i.store.GetByID(id)
	if err != nil {
		logger.WithError(err).Error("resume fetch failed")
		return "", err
	}
	if rec == nil || rec.StudentID != studentID {
		return MsgResumeNotFound, nil
	}
	inUse, err := i.applicationStore.ExistOpenByResume(id)
	if err != nil {
		logger.WithError(err).Error("resume usage check failed")
		return "", err
	}
	if inUse {
		return msgResumeInUse, nil
	}
	if err = i.store.Delete(id); err != nil {
		logger.WithError(err).Error("resume delete failed")
		return "", err
	}
	if err = i.fileStorage.RemoveObject(ctx, rec.ObjectKey); err != nil {
		// row is gone, the object only wastes space
		logger.WithError(err).Warn("resume object remove failed")
	}
	logger.Info("resume deleted")
	return "", nil
}

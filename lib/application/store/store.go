package applicationstore

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"schoolconnect-backend/lib/utils/helpers"
	"schoolconnect-backend/models"
	applicationapimodels "schoolconnect-backend/models/api/application"
	dbmodels "schoolconnect-backend/models/db"
)

type Provider interface {
	Create(rec dbmodels.Application) (id string, err error)
	// UpdateStatus applies updMap only while the application still has prevStatus
	UpdateStatus(id string, prevStatus models.ApplicationStatus, updMap map[string]interface{}) (updated bool, err error)
	// DeleteWithStatus removes the application only while it still has status
	DeleteWithStatus(id string, status models.ApplicationStatus) (deleted bool, err error)
	GetByID(id string) (*dbmodels.Application, error)
	Exist(jobID, studentID string) (bool, error)
	CountByJobAndStatus(jobID string, status models.ApplicationStatus) (int64, error)
	// ExistOpenByResume pending or reviewed applications referencing the resume
	ExistOpenByResume(resumeID string) (bool, error)
	ListByStudent(studentID string, filter applicationapimodels.ApplicationFilter) ([]dbmodels.Application, error)
	ListByStudentCount(studentID string, filter applicationapimodels.ApplicationFilter) (int64, error)
	ListByJob(jobID string, filter applicationapimodels.ApplicationFilter) ([]dbmodels.Application, error)
	ListByJobCount(jobID string, filter applicationapimodels.ApplicationFilter) (int64, error)
	CountByStatus() (map[models.ApplicationStatus]int64, error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.Application) (id string, err error) {
	err = i.db.
		Create(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) UpdateStatus(id string, prevStatus models.ApplicationStatus, updMap map[string]interface{}) (updated bool, err error) {
	if len(updMap) == 0 {
		return false, nil
	}
	tx := i.db.
		Model(&dbmodels.Application{}).
		Where("id = ?", id).
		Where("status = ?", prevStatus).
		Updates(updMap)
	if tx.Error != nil {
		return false, errors.Wrap(tx.Error, "application status update")
	}
	return tx.RowsAffected > 0, nil
}

func (i impl) DeleteWithStatus(id string, status models.ApplicationStatus) (deleted bool, err error) {
	tx := i.db.
		Where("id = ?", id).
		Where("status = ?", status).
		Delete(&dbmodels.Application{})
	if tx.Error != nil {
		return false, errors.Wrap(tx.Error, "application delete")
	}
	return tx.RowsAffected > 0, nil
}

func (i impl) GetByID(id string) (*dbmodels.Application, error) {
	rec := dbmodels.Application{}
	err := i.db.
		Preload("Job").
		Preload("Job.Employer").
		Preload("Student").
		Preload("Resume").
		Where("id = ?", id).
		First(&rec).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

func (i impl) Exist(jobID, studentID string) (bool, error) {
	var count int64
	err := i.db.
		Model(dbmodels.Application{}).
		Where("job_id = ?", jobID).
		Where("student_id = ?", studentID).
		Count(&count).
		Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (i impl) CountByJobAndStatus(jobID string, status models.ApplicationStatus) (int64, error) {
	var count int64
	err := i.db.
		Model(dbmodels.Application{}).
		Where("job_id = ?", jobID).
		Where("status = ?", status).
		Count(&count).
		Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (i impl) ExistOpenByResume(resumeID string) (bool, error) {
	var count int64
	err := i.db.
		Model(dbmodels.Application{}).
		Where("resume_id = ?", resumeID).
		Where("status in (?)", []models.ApplicationStatus{models.ApplicationStatusPending, models.ApplicationStatusReviewed}).
		Count(&count).
		Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (i impl) ListByStudent(studentID string, filter applicationapimodels.ApplicationFilter) ([]dbmodels.Application, error) {
	list := []dbmodels.Application{}
	tx := i.db.
		Model(dbmodels.Application{}).
		Where("applications.student_id = ?", studentID)
	i.addFilter(tx, filter)
	page, limit := filter.GetPage()
	i.setPage(tx, page, limit)
	err := tx.
		Preload("Job").
		Preload("Job.Employer").
		Preload("Resume").
		Order("applications.created_at desc").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) ListByStudentCount(studentID string, filter applicationapimodels.ApplicationFilter) (int64, error) {
	var rowCount int64
	tx := i.db.
		Model(dbmodels.Application{}).
		Where("applications.student_id = ?", studentID)
	i.addFilter(tx, filter)
	err := tx.Count(&rowCount).Error
	if err != nil {
		return 0, err
	}
	return rowCount, nil
}

func (i impl) ListByJob(jobID string, filter applicationapimodels.ApplicationFilter) ([]dbmodels.Application, error) {
	list := []dbmodels.Application{}
	tx := i.db.
		Model(dbmodels.Application{}).
		Where("applications.job_id = ?", jobID)
	i.addFilter(tx, filter)
	page, limit := filter.GetPage()
	i.setPage(tx, page, limit)
	err := tx.
		Preload("Student").
		Preload("Resume").
		Order("applications.created_at desc").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) ListByJobCount(jobID string, filter applicationapimodels.ApplicationFilter) (int64, error) {
	var rowCount int64
	tx := i.db.
		Model(dbmodels.Application{}).
		Where("applications.job_id = ?", jobID)
	i.addFilter(tx, filter)
	err := tx.Count(&rowCount).Error
	if err != nil {
		return 0, err
	}
	return rowCount, nil
}

func (i impl) CountByStatus() (map[models.ApplicationStatus]int64, error) {
	rows := []struct {
		Status models.ApplicationStatus
		Count  int64
	}{}
	err := i.db.
		Model(dbmodels.Application{}).
		Select("status, count(*) as count").
		Group("status").
		Scan(&rows).
		Error
	if err != nil {
		return nil, err
	}
	result := map[models.ApplicationStatus]int64{}
	for _, row := range rows {
		result[row.Status] = row.Count
	}
	return result, nil
}

func (i impl) addFilter(tx *gorm.DB, filter applicationapimodels.ApplicationFilter) {
	if len(filter.Statuses) > 0 {
		tx.Where("applications.status in (?)", filter.Statuses)
	}
	if search := helpers.LikePattern(filter.Search); search != "" {
		tx.Where("applications.student_id in (select id from users where LOWER(first_name || ' ' || last_name) like ? OR LOWER(email) like ?)",
			search, search)
	}
}

func (i impl) setPage(tx *gorm.DB, page, limit int) {
	offset := (page - 1) * limit
	tx.Limit(limit).Offset(offset)
}

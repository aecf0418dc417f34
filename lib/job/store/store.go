package jobstore

import (
	"strings"
	"time"

	"github.com/lib/pq"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"schoolconnect-backend/lib/utils/helpers"
	"schoolconnect-backend/models"
	jobapimodels "schoolconnect-backend/models/api/job"
	dbmodels "schoolconnect-backend/models/db"
)

type Provider interface {
	Create(rec dbmodels.JobPosting) (id string, err error)
	// UpdateIfUnchanged applies updMap only while the row still has prevStatus and prevUpdatedAt
	UpdateIfUnchanged(id string, prevStatus models.JobStatus, prevUpdatedAt time.Time, updMap map[string]interface{}) (updated bool, err error)
	GetByID(id string) (*dbmodels.JobPosting, error)
	// DeleteWithApplications removes the posting together with its applications
	DeleteWithApplications(id string) error
	ListByEmployer(employerID string, filter jobapimodels.EmployerJobFilter) ([]dbmodels.JobPostingExt, error)
	ListByEmployerCount(employerID string, filter jobapimodels.EmployerJobFilter) (int64, error)
	ListOpen(filter jobapimodels.JobFilter, now time.Time) ([]dbmodels.JobPosting, error)
	ListOpenCount(filter jobapimodels.JobFilter, now time.Time) (int64, error)
	ListForModeration(filter jobapimodels.ModerationFilter) ([]dbmodels.JobPostingExt, error)
	ListForModerationCount(filter jobapimodels.ModerationFilter) (int64, error)
	CountByStatus() (map[models.JobStatus]int64, error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

const extSelect = "job_postings.*, (select count(*) from applications a where a.job_id = job_postings.id) as application_count"

func (i impl) Create(rec dbmodels.JobPosting) (id string, err error) {
	err = i.db.
		Create(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) UpdateIfUnchanged(id string, prevStatus models.JobStatus, prevUpdatedAt time.Time, updMap map[string]interface{}) (updated bool, err error) {
	if len(updMap) == 0 {
		return false, nil
	}
	tx := i.db.
		Model(&dbmodels.JobPosting{}).
		Where("id = ?", id).
		Where("status = ?", prevStatus).
		Where("updated_at = ?", prevUpdatedAt).
		Updates(updMap)
	if tx.Error != nil {
		return false, errors.Wrap(tx.Error, "job posting update")
	}
	return tx.RowsAffected > 0, nil
}

func (i impl) GetByID(id string) (*dbmodels.JobPosting, error) {
	rec := dbmodels.JobPosting{}
	err := i.db.
		Preload("Employer").
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

func (i impl) DeleteWithApplications(id string) error {
	return i.db.Transaction(func(tx *gorm.DB) error {
		err := tx.
			Where("job_id = ?", id).
			Delete(&dbmodels.Application{}).
			Error
		if err != nil {
			return errors.Wrap(err, "applications delete failed")
		}
		err = tx.
			Where("id = ?", id).
			Delete(&dbmodels.JobPosting{}).
			Error
		if err != nil {
			return errors.Wrap(err, "job posting delete failed")
		}
		return nil
	})
}

func (i impl) ListByEmployer(employerID string, filter jobapimodels.EmployerJobFilter) ([]dbmodels.JobPostingExt, error) {
	list := []dbmodels.JobPostingExt{}
	tx := i.db.
		Model(dbmodels.JobPostingExt{}).
		Select(extSelect).
		Where("employer_id = ?", employerID)
	i.addEmployerFilter(tx, filter)
	page, limit := filter.GetPage()
	i.setPage(tx, page, limit)
	err := tx.
		Order("created_at desc").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) ListByEmployerCount(employerID string, filter jobapimodels.EmployerJobFilter) (int64, error) {
	var rowCount int64
	tx := i.db.
		Model(dbmodels.JobPosting{}).
		Where("employer_id = ?", employerID)
	i.addEmployerFilter(tx, filter)
	err := tx.Count(&rowCount).Error
	if err != nil {
		return 0, err
	}
	return rowCount, nil
}

func (i impl) ListOpen(filter jobapimodels.JobFilter, now time.Time) ([]dbmodels.JobPosting, error) {
	list := []dbmodels.JobPosting{}
	err := i.openQuery(filter, now).
		Preload("Employer").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

// openQuery browse page: filters, page and sort order
func (i impl) openQuery(filter jobapimodels.JobFilter, now time.Time) *gorm.DB {
	tx := i.db.
		Model(dbmodels.JobPosting{}).
		Select("job_postings.*").
		Joins("join users u on u.id = job_postings.employer_id")
	i.addOpenFilter(tx, filter, now)
	page, limit := filter.GetPage()
	i.setPage(tx, page, limit)
	switch filter.SortBy {
	case jobapimodels.SortDeadline:
		tx.Order("job_postings.deadline asc nulls last").Order("job_postings.created_at desc")
	default:
		tx.Order("job_postings.created_at desc")
	}
	return tx
}

func (i impl) ListOpenCount(filter jobapimodels.JobFilter, now time.Time) (int64, error) {
	var rowCount int64
	tx := i.db.
		Model(dbmodels.JobPosting{}).
		Joins("join users u on u.id = job_postings.employer_id")
	i.addOpenFilter(tx, filter, now)
	err := tx.Count(&rowCount).Error
	if err != nil {
		return 0, err
	}
	return rowCount, nil
}

func (i impl) ListForModeration(filter jobapimodels.ModerationFilter) ([]dbmodels.JobPostingExt, error) {
	list := []dbmodels.JobPostingExt{}
	tx := i.db.
		Model(dbmodels.JobPostingExt{}).
		Select(extSelect).
		Joins("join users u on u.id = job_postings.employer_id")
	i.addModerationFilter(tx, filter)
	page, limit := filter.GetPage()
	i.setPage(tx, page, limit)
	err := tx.
		Preload("Employer").
		Order("job_postings.created_at asc").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) ListForModerationCount(filter jobapimodels.ModerationFilter) (int64, error) {
	var rowCount int64
	tx := i.db.
		Model(dbmodels.JobPosting{}).
		Joins("join users u on u.id = job_postings.employer_id")
	i.addModerationFilter(tx, filter)
	err := tx.Count(&rowCount).Error
	if err != nil {
		return 0, err
	}
	return rowCount, nil
}

func (i impl) CountByStatus() (map[models.JobStatus]int64, error) {
	rows := []struct {
		Status models.JobStatus
		Count  int64
	}{}
	err := i.db.
		Model(dbmodels.JobPosting{}).
		Select("status, count(*) as count").
		Group("status").
		Scan(&rows).
		Error
	if err != nil {
		return nil, err
	}
	result := map[models.JobStatus]int64{}
	for _, row := range rows {
		result[row.Status] = row.Count
	}
	return result, nil
}

func (i impl) addEmployerFilter(tx *gorm.DB, filter jobapimodels.EmployerJobFilter) {
	if len(filter.Statuses) > 0 {
		tx.Where("status in (?)", filter.Statuses)
	}
	if search := helpers.LikePattern(filter.Search); search != "" {
		tx.Where("LOWER(title) like ?", search)
	}
}

// addOpenFilter approved postings still accepting applications
func (i impl) addOpenFilter(tx *gorm.DB, filter jobapimodels.JobFilter, now time.Time) {
	tx.Where("job_postings.status = ?", models.JobStatusApproved).
		Where("(job_postings.deadline is null OR job_postings.deadline > ?)", now).
		Where("u.is_active = ?", true)
	if search := helpers.LikePattern(filter.Search); search != "" {
		tx.Where("(LOWER(job_postings.title) like ? OR LOWER(job_postings.description) like ? OR LOWER(u.company_name) like ?)",
			search, search, search)
	}
	if location := helpers.LikePattern(filter.Location); location != "" {
		tx.Where("LOWER(job_postings.location) like ?", location)
	}
	if len(filter.JobTypes) > 0 {
		tx.Where("job_postings.job_type in (?)", filter.JobTypes)
	}
	if filter.WorkMode != "" {
		tx.Where("job_postings.work_mode = ?", filter.WorkMode)
	}
	if filter.MinPay > 0 {
		tx.Where("coalesce(job_postings.pay_max, job_postings.pay_min) >= ?", filter.MinPay)
	}
	if skills := jobapimodels.NormalizeSkills(filter.Skills); len(skills) > 0 {
		lowered := make([]string, 0, len(skills))
		for _, skill := range skills {
			lowered = append(lowered, strings.ToLower(skill))
		}
		tx.Where("exists (select 1 from unnest(job_postings.skills) s where LOWER(s) = any(?))", pq.StringArray(lowered))
	}
	if filter.PostedSince != nil {
		tx.Where("job_postings.created_at >= ?", *filter.PostedSince)
	}
}

func (i impl) addModerationFilter(tx *gorm.DB, filter jobapimodels.ModerationFilter) {
	status := filter.Status
	if status == "" {
		status = models.JobStatusPending
	}
	tx.Where("job_postings.status = ?", status)
	if filter.EmployerID != "" {
		tx.Where("job_postings.employer_id = ?", filter.EmployerID)
	}
	if search := helpers.LikePattern(filter.Search); search != "" {
		tx.Where("(LOWER(job_postings.title) like ? OR LOWER(u.company_name) like ?)", search, search)
	}
}

func (i impl) setPage(tx *gorm.DB, page, limit int) {
	offset := (page - 1) * limit
	tx.Limit(limit).Offset(offset)
}

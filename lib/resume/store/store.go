package resumestore

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"
	dbmodels "schoolconnect-backend/models/db"
)

type Provider interface {
	Create(rec dbmodels.Resume) (id string, err error)
	GetByID(id string) (*dbmodels.Resume, error)
	GetLatest(studentID string) (*dbmodels.Resume, error)
	ListByStudent(studentID string) ([]dbmodels.Resume, error)
	CountByStudent(studentID string) (int64, error)
	// Delete detaches the resume from closed applications and removes the row
	Delete(id string) error
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.Resume) (id string, err error) {
	err = i.db.
		Create(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) GetByID(id string) (*dbmodels.Resume, error) {
	rec := dbmodels.Resume{}
	err := i.db.
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

func (i impl) GetLatest(studentID string) (*dbmodels.Resume, error) {
	rec := dbmodels.Resume{}
	err := i.db.
		Where("student_id = ?", studentID).
		Order("created_at desc").
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

func (i impl) ListByStudent(studentID string) ([]dbmodels.Resume, error) {
	list := []dbmodels.Resume{}
	err := i.db.
		Where("student_id = ?", studentID).
		Order("created_at desc").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) CountByStudent(studentID string) (int64, error) {
	var count int64
	err := i.db.
		Model(dbmodels.Resume{}).
		Where("student_id = ?", studentID).
		Count(&count).
		Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (i impl) Delete(id string) error {
	return i.db.Transaction(func(tx *gorm.DB) error {
		err := tx.
			Model(&dbmodels.Application{}).
			Where("resume_id = ?", id).
			Update("resume_id", nil).
			Error
		if err != nil {
			return errors.Wrap(err, "detach resume from applications failed")
		}
		return tx.
			Where("id = ?", id).
			Delete(&dbmodels.Resume{}).
			Error
	})
}

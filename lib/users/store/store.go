package usersstore

import (
	"strings"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"schoolconnect-backend/lib/utils/helpers"
	"schoolconnect-backend/models"
	userapimodels "schoolconnect-backend/models/api/user"
	dbmodels "schoolconnect-backend/models/db"
)

type Provider interface {
	Create(rec dbmodels.User) (string, error)
	Update(userID string, updMap map[string]interface{}) error
	GetByID(userID string) (rec *dbmodels.User, err error)
	FindByEmail(email string) (rec *dbmodels.User, err error)
	ExistByEmail(email string) (bool, error)
	List(filter userapimodels.UserFilter) (list []dbmodels.User, err error)
	ListCount(filter userapimodels.UserFilter) (int64, error)
	CountByRole() (map[models.UserRole]int64, error)
	CountUnverifiedEmployers() (int64, error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.User) (string, error) {
	rec.Email = strings.ToLower(strings.TrimSpace(rec.Email))
	err := i.db.
		Save(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) Update(userID string, updMap map[string]interface{}) error {
	if len(updMap) == 0 {
		return nil
	}
	tx := i.db.
		Model(&dbmodels.User{}).
		Where("id = ?", userID).
		Updates(updMap)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return errors.New("user not found")
	}
	return nil
}

func (i impl) GetByID(userID string) (rec *dbmodels.User, err error) {
	err = i.db.Model(dbmodels.User{}).
		Where("id = ?", userID).
		First(&rec).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return rec, nil
}

func (i impl) FindByEmail(email string) (rec *dbmodels.User, err error) {
	err = i.db.Model(dbmodels.User{}).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&rec).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return rec, nil
}

func (i impl) ExistByEmail(email string) (bool, error) {
	var count int64
	err := i.db.
		Model(dbmodels.User{}).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		Count(&count).
		Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (i impl) List(filter userapimodels.UserFilter) (list []dbmodels.User, err error) {
	list = []dbmodels.User{}
	tx := i.db.Model(dbmodels.User{})
	i.addFilter(tx, filter)
	page, limit := filter.GetPage()
	i.setPage(tx, page, limit)
	err = tx.Order("created_at desc").Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) ListCount(filter userapimodels.UserFilter) (int64, error) {
	var rowCount int64
	tx := i.db.Model(dbmodels.User{})
	i.addFilter(tx, filter)
	err := tx.Count(&rowCount).Error
	if err != nil {
		return 0, err
	}
	return rowCount, nil
}

func (i impl) CountByRole() (map[models.UserRole]int64, error) {
	rows := []struct {
		Role  models.UserRole
		Count int64
	}{}
	err := i.db.
		Model(dbmodels.User{}).
		Select("role, count(*) as count").
		Group("role").
		Scan(&rows).
		Error
	if err != nil {
		return nil, err
	}
	result := map[models.UserRole]int64{}
	for _, row := range rows {
		result[row.Role] = row.Count
	}
	return result, nil
}

func (i impl) CountUnverifiedEmployers() (int64, error) {
	var count int64
	err := i.db.
		Model(dbmodels.User{}).
		Where("role = ?", models.EmployerRole).
		Where("is_verified = ?", false).
		Count(&count).
		Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (i impl) addFilter(tx *gorm.DB, filter userapimodels.UserFilter) {
	if filter.Role != "" {
		tx.Where("role = ?", filter.Role)
	}
	if filter.Verified != nil {
		tx.Where("is_verified = ?", *filter.Verified)
	}
	if filter.Active != nil {
		tx.Where("is_active = ?", *filter.Active)
	}
	if search := helpers.LikePattern(filter.Search); search != "" {
		tx.Where("(LOWER(first_name || ' ' || last_name) like ? OR LOWER(email) like ? OR LOWER(company_name) like ?)",
			search, search, search)
	}
}

func (i impl) setPage(tx *gorm.DB, page, limit int) {
	offset := (page - 1) * limit
	tx.Limit(limit).Offset(offset)
}

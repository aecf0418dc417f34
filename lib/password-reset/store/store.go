package passwordresetstore

import (
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	dbmodels "schoolconnect-backend/models/db"
)

type Provider interface {
	Create(rec dbmodels.PasswordReset) error
	GetByCode(code string) (*dbmodels.PasswordReset, error)
	// RedeemWithPassword marks an unused unexpired code as used and sets the password of its owner in one transaction
	RedeemWithPassword(code, email, passwordHash string, now time.Time) (redeemed bool, err error)
	DeleteExpired(now time.Time) (int64, error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.PasswordReset) error {
	return i.db.
		Create(&rec).
		Error
}

func (i impl) GetByCode(code string) (*dbmodels.PasswordReset, error) {
	rec := dbmodels.PasswordReset{}
	err := i.db.
		Where("code = ?", code).
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

func (i impl) RedeemWithPassword(code, email, passwordHash string, now time.Time) (redeemed bool, err error) {
	err = i.db.Transaction(func(tx *gorm.DB) error {
		res := tx.
			Model(&dbmodels.PasswordReset{}).
			Where("code = ?", code).
			Where("email = ?", email).
			Where("date_used = ?", time.Time{}).
			Where("date_expires > ?", now).
			Update("date_used", now)
		if res.Error != nil {
			return errors.Wrap(res.Error, "reset code update failed")
		}
		if res.RowsAffected == 0 {
			return nil
		}
		res = tx.
			Model(&dbmodels.User{}).
			Where("email = ?", email).
			Update("password", passwordHash)
		if res.Error != nil {
			return errors.Wrap(res.Error, "password update failed")
		}
		if res.RowsAffected == 0 {
			return errors.New("reset code owner not found")
		}
		redeemed = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return redeemed, nil
}

// DeleteExpired removes used codes and codes past their expiry date
func (i impl) DeleteExpired(now time.Time) (int64, error) {
	tx := i.db.
		Where("date_expires < ? OR date_used > ?", now, time.Time{}).
		Delete(&dbmodels.PasswordReset{})
	if tx.Error != nil {
		return 0, tx.Error
	}
	return tx.RowsAffected, nil
}

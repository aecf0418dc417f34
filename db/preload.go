package db

import (
	"time"

	log "github.com/sirupsen/logrus"
	"schoolconnect-backend/config"
	usersstore "schoolconnect-backend/lib/users/store"
	authutils "schoolconnect-backend/lib/utils/auth-utils"
	"schoolconnect-backend/models"
	authapimodels "schoolconnect-backend/models/api/auth"
	dbmodels "schoolconnect-backend/models/db"
)

func InitPreload() {
	addAdmin()
}

// addAdmin admins can not self-register, the first one comes from the config
func addAdmin() {
	email := authapimodels.NormalizeEmail(config.Conf.Admin.Email)
	if email == "" || config.Conf.Admin.Password == "" {
		log.Warn("administrator not added, ADMIN_EMAIL or ADMIN_PASSWORD is not set")
		return
	}
	logger := log.WithField("email", email)
	store := usersstore.NewInstance(DB)
	existedRec, err := store.FindByEmail(email)
	if err != nil {
		logger.WithError(err).Error("administrator lookup failed")
		return
	}
	if existedRec != nil {
		return
	}
	password, err := authutils.HashPassword(config.Conf.Admin.Password)
	if err != nil {
		logger.WithError(err).Error("administrator password hash failed")
		return
	}
	now := time.Now()
	rec := dbmodels.User{
		Email:      email,
		Password:   password,
		FirstName:  config.Conf.Admin.FirstName,
		LastName:   config.Conf.Admin.LastName,
		Role:       models.AdminRole,
		IsActive:   true,
		IsVerified: true,
		VerifiedAt: &now,
	}
	if _, err = store.Create(rec); err != nil {
		logger.WithError(err).Error("administrator create failed")
		return
	}
	logger.Info("administrator added")
}

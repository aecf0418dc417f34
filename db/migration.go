package db

import (
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	dbmodels "schoolconnect-backend/models/db"
)

func AutoMigrateDB() error {
	if err := DB.Exec("CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\";").Error; err != nil {
		return errors.Wrap(err, "uuid-ossp extension create failed")
	}
	log.Info("running migrations")
	// referenced tables first
	models := []interface{}{
		&dbmodels.User{},
		&dbmodels.PasswordReset{},
		&dbmodels.JobPosting{},
		&dbmodels.Resume{},
		&dbmodels.Application{},
		&dbmodels.Notification{},
	}
	for _, model := range models {
		if err := DB.AutoMigrate(model); err != nil {
			return errors.Wrapf(err, "migration of %T failed", model)
		}
	}
	log.Info("migrations finished")
	return nil
}

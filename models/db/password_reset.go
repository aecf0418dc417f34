package dbmodels

import "time"

type PasswordReset struct {
	Email         string `gorm:"type:varchar(255);index"`
	Code          string `gorm:"type:varchar(24);uniqueIndex"`
	DateGenerated time.Time
	DateExpires   time.Time
	DateUsed      time.Time
}

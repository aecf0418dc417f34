package initializers

import (
	log "github.com/sirupsen/logrus"
	"schoolconnect-backend/config"
	"schoolconnect-backend/lib/smtp"
)

func InitSmtp() {
	conf := config.Conf.Smtp
	err := smtp.Connect(conf.User, conf.Password, conf.Host, conf.Port, *conf.TLSEnabled)
	if err != nil {
		panic(err.Error())
	}
	if !smtp.Instance.IsConfigured() {
		log.Warn("smtp is not configured, emails will not be sent")
	}
}

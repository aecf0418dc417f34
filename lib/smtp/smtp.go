package smtp

import (
	"bytes"

	"github.com/emersion/go-sasl"
	"github.com/emersion/go-smtp"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gopkg.in/gomail.v2"
)

const subjectPrefix = "SchoolConnect"

var Instance Provider

type Provider interface {
	SendEMail(from, to, message, subject string) error
	IsConfigured() bool
}

func Connect(user, password, host, port string, tlsEnabled bool) error {
	Instance = &impl{
		user:       user,
		password:   password,
		host:       host,
		port:       port,
		tlsEnabled: tlsEnabled,
	}
	return nil
}

type impl struct {
	user       string
	password   string
	host       string
	port       string
	tlsEnabled bool
}

func (i impl) IsConfigured() bool {
	return i.user != "" && i.host != "" && i.port != ""
}

func (i impl) SendEMail(from, to, message, subject string) (err error) {
	logger := log.
		WithField("sender", from).
		WithField("recipient", to)
	if !i.IsConfigured() {
		logger.Warn("email not sent, smtp client is not configured")
		return nil
	}
	body, err := composeMessage(from, to, message, subject)
	if err != nil {
		return err
	}
	auth := sasl.NewPlainClient("", i.user, i.password)
	addr := i.host + ":" + i.port
	if i.tlsEnabled {
		err = smtp.SendMailTLS(addr, auth, from, []string{to}, body)
	} else {
		err = smtp.SendMail(addr, auth, from, []string{to}, body)
	}
	if err != nil {
		logger.WithError(err).Error("email sending failed")
		return errors.Wrap(err, "email sending failed")
	}
	logger.Info("email sent")
	return nil
}

func composeMessage(from, to, message, subject string) (*bytes.Buffer, error) {
	msg := gomail.NewMessage()
	msg.SetHeader("From", from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subjectPrefix+" - "+subject)
	msg.SetBody("text/plain", message)
	body := new(bytes.Buffer)
	if _, err := msg.WriteTo(body); err != nil {
		return nil, errors.Wrap(err, "email compose failed")
	}
	return body, nil
}

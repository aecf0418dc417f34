package passwordreset

import (
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"schoolconnect-backend/config"
	"schoolconnect-backend/db"
	passwordresetstore "schoolconnect-backend/lib/password-reset/store"
	"schoolconnect-backend/lib/smtp"
	usersstore "schoolconnect-backend/lib/users/store"
	"schoolconnect-backend/lib/utils/helpers"
	initchecker "schoolconnect-backend/lib/utils/init-checker"
	dbmodels "schoolconnect-backend/models/db"
)

const (
	codeLength     = 24
	msgCodeUsed    = "reset code was already used"
	msgCodeExpired = "reset code has expired"
)

type Provider interface {
	// SendResetCode silently ignores unknown or inactive emails
	SendResetCode(email string) error
	CheckCode(code string) (email, hMsg string, err error)
	// Redeem sets the new password and uses up the code, a code is redeemed at most once
	Redeem(code, email, passwordHash string) (hMsg string, err error)
}

var Instance Provider

func NewHandler() {
	initchecker.CheckInit(
		"db", db.DB,
		"smtp", smtp.Instance,
	)
	Instance = impl{
		store:       passwordresetstore.NewInstance(db.DB),
		usersStore:  usersstore.NewInstance(db.DB),
		mailer:      smtp.Instance,
		emailFrom:   config.Conf.Smtp.EmailFrom,
		frontendURL: config.Conf.App.FrontendURL,
		ttl:         time.Hour * time.Duration(config.Conf.Auth.ResetCodeTTLInHours),
	}
}

type impl struct {
	store       passwordresetstore.Provider
	usersStore  usersstore.Provider
	mailer      smtp.Provider
	emailFrom   string
	frontendURL string
	ttl         time.Duration
}

func (i impl) SendResetCode(email string) error {
	logger := log.WithField("email", email)
	user, err := i.usersStore.FindByEmail(email)
	if err != nil {
		logger.WithError(err).Error("user fetch failed")
		return err
	}
	if user == nil || !user.IsActive {
		logger.Info("password recovery requested for unknown or inactive account")
		return nil
	}
	now := time.Now()
	rec := dbmodels.PasswordReset{
		Email:         user.Email,
		Code:          helpers.GenerateCode(codeLength),
		DateGenerated: now,
		DateExpires:   now.Add(i.ttl),
	}
	if err = i.store.Create(rec); err != nil {
		logger.WithError(err).Error("reset code save failed")
		return err
	}
	message := fmt.Sprintf("To set a new password follow the link: %s/reset-password?code=%s\nThe link is valid until %s.",
		i.frontendURL, rec.Code, rec.DateExpires.Format("2006-01-02 15:04"))
	if err = i.mailer.SendEMail(i.emailFrom, user.Email, message, "Password recovery"); err != nil {
		// the reply must not differ from the one for unknown emails
		logger.WithError(err).Error("reset code email sending failed")
	}
	return nil
}

func (i impl) CheckCode(code string) (email, hMsg string, err error) {
	rec, err := i.store.GetByCode(code)
	if err != nil {
		return "", "", err
	}
	if rec == nil {
		return "", "reset code not found", nil
	}
	if !rec.DateUsed.IsZero() {
		return "", msgCodeUsed, nil
	}
	if rec.DateExpires.Before(time.Now()) {
		return "", msgCodeExpired, nil
	}
	return rec.Email, "", nil
}

func (i impl) Redeem(code, email, passwordHash string) (hMsg string, err error) {
	redeemed, err := i.store.RedeemWithPassword(code, email, passwordHash, time.Now())
	if err != nil {
		log.WithField("email", email).WithError(err).Error("reset code redeem failed")
		return "", err
	}
	if !redeemed {
		return msgCodeUsed, nil
	}
	return "", nil
}

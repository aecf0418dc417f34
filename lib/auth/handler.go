package authhandler

import (
	"strings"
	"time"

	"github.com/lib/pq"
	log "github.com/sirupsen/logrus"
	"schoolconnect-backend/db"
	passwordreset "schoolconnect-backend/lib/password-reset"
	usersstore "schoolconnect-backend/lib/users/store"
	authutils "schoolconnect-backend/lib/utils/auth-utils"
	initchecker "schoolconnect-backend/lib/utils/init-checker"
	"schoolconnect-backend/models"
	authapimodels "schoolconnect-backend/models/api/auth"
	dbmodels "schoolconnect-backend/models/db"
)

// login refusals, the controller maps MsgInvalidCredentials to 401 and the rest to 403
const (
	MsgInvalidCredentials   = "invalid email or password"
	MsgAccountDeactivated   = dbmodels.ReasonDeactivated
	MsgEmployerNotVerified  = dbmodels.ReasonNotVerified
	MsgEmailAlreadyExists   = "an account with this email already exists"
	MsgInvalidRefreshToken  = "session expired, please sign in again"
	msgUserNotFound         = "user not found"
	msgRegistrationRejected = "only students and employers can register"
)

type Provider interface {
	Register(request authapimodels.RegisterRequest) (userID, hMsg string, err error)
	Login(email, password string) (resp authapimodels.LoginResponse, hMsg string, err error)
	Me(userID string) (resp authapimodels.MeResponse, hMsg string, err error)
	RefreshToken(refreshToken string) (resp authapimodels.JWTResponse, hMsg string, err error)
	SendPasswordRecovery(email string) error
	ResetPassword(request authapimodels.PasswordResetRequest) (hMsg string, err error)
}

var Instance Provider

func NewHandler() {
	initchecker.CheckInit(
		"db", db.DB,
		"passwordreset", passwordreset.Instance,
	)
	Instance = impl{
		usersStore:    usersstore.NewInstance(db.DB),
		passwordReset: passwordreset.Instance,
	}
}

type impl struct {
	usersStore    usersstore.Provider
	passwordReset passwordreset.Provider
}

func (i impl) Register(request authapimodels.RegisterRequest) (userID, hMsg string, err error) {
	email := authapimodels.NormalizeEmail(request.Email)
	logger := log.
		WithField("email", email).
		WithField("role", request.Role)
	if !request.Role.CanSelfRegister() {
		return "", msgRegistrationRejected, nil
	}
	if err = request.Validate(); err != nil {
		return "", err.Error(), nil
	}
	exist, err := i.usersStore.ExistByEmail(email)
	if err != nil {
		logger.WithError(err).Error("email uniqueness check failed")
		return "", "", err
	}
	if exist {
		return "", MsgEmailAlreadyExists, nil
	}
	hash, err := authutils.HashPassword(request.Password)
	if err != nil {
		return "", "", err
	}
	rec := dbmodels.User{
		Email:     email,
		Password:  hash,
		FirstName: strings.TrimSpace(request.FirstName),
		LastName:  strings.TrimSpace(request.LastName),
		Phone:     strings.TrimSpace(request.Phone),
		Role:      request.Role,
		IsActive:  true,
	}
	switch request.Role {
	case models.StudentRole:
		rec.IsVerified = true
		rec.SchoolName = strings.TrimSpace(request.SchoolName)
		rec.GraduationYear = request.GraduationYear
		rec.Major = strings.TrimSpace(request.Major)
		rec.Skills = pq.StringArray{}
	case models.EmployerRole:
		rec.IsVerified = false
		rec.CompanyName = strings.TrimSpace(request.CompanyName)
		rec.CompanyWebsite = strings.TrimSpace(request.CompanyWebsite)
		rec.CompanyDescription = strings.TrimSpace(request.CompanyDescription)
	}
	userID, err = i.usersStore.Create(rec)
	if err != nil {
		logger.WithError(err).Error("user create failed")
		return "", "", err
	}
	logger.WithField("user_id", userID).Info("user registered")
	return userID, "", nil
}

func (i impl) Login(email, password string) (resp authapimodels.LoginResponse, hMsg string, err error) {
	logger := log.WithField("email", email)
	user, err := i.usersStore.FindByEmail(authapimodels.NormalizeEmail(email))
	if err != nil {
		logger.WithError(err).Error("user fetch failed")
		return authapimodels.LoginResponse{}, "", err
	}
	if user == nil || !authutils.CheckPassword(user.Password, password) {
		return authapimodels.LoginResponse{}, MsgInvalidCredentials, nil
	}
	if reason := user.CanLogin(); reason != "" {
		logger.WithField("user_id", user.ID).Info("login refused: " + reason)
		return authapimodels.LoginResponse{}, reason, nil
	}
	tokens, err := i.issueTokens(*user)
	if err != nil {
		return authapimodels.LoginResponse{}, "", err
	}
	now := time.Now()
	if err = i.usersStore.Update(user.ID, map[string]interface{}{"last_login": now}); err != nil {
		logger.WithError(err).Warn("last login update failed")
	}
	user.LastLogin = now
	return authapimodels.LoginResponse{
		JWTResponse: tokens,
		User:        user.ToModel(),
		Redirect:    user.Role.DashboardPath(),
	}, "", nil
}

func (i impl) Me(userID string) (resp authapimodels.MeResponse, hMsg string, err error) {
	user, err := i.usersStore.GetByID(userID)
	if err != nil {
		log.WithField("user_id", userID).WithError(err).Error("user fetch failed")
		return authapimodels.MeResponse{}, "", err
	}
	if user == nil {
		return authapimodels.MeResponse{}, msgUserNotFound, nil
	}
	return authapimodels.MeResponse{
		User:     user.ToModel(),
		Redirect: user.Role.DashboardPath(),
	}, "", nil
}

func (i impl) RefreshToken(refreshToken string) (resp authapimodels.JWTResponse, hMsg string, err error) {
	userID, err := authutils.ParseRefreshToken(refreshToken)
	if err != nil {
		return authapimodels.JWTResponse{}, MsgInvalidRefreshToken, nil
	}
	user, err := i.usersStore.GetByID(userID)
	if err != nil {
		log.WithField("user_id", userID).WithError(err).Error("user fetch failed")
		return authapimodels.JWTResponse{}, "", err
	}
	if user == nil {
		return authapimodels.JWTResponse{}, MsgInvalidRefreshToken, nil
	}
	if reason := user.CanLogin(); reason != "" {
		return authapimodels.JWTResponse{}, reason, nil
	}
	resp, err = i.issueTokens(*user)
	if err != nil {
		return authapimodels.JWTResponse{}, "", err
	}
	return resp, "", nil
}

func (i impl) SendPasswordRecovery(email string) error {
	return i.passwordReset.SendResetCode(authapimodels.NormalizeEmail(email))
}

func (i impl) ResetPassword(request authapimodels.PasswordResetRequest) (hMsg string, err error) {
	if err = request.Validate(); err != nil {
		return err.Error(), nil
	}
	email, hMsg, err := i.passwordReset.CheckCode(request.ResetCode)
	if err != nil || hMsg != "" {
		return hMsg, err
	}
	logger := log.WithField("email", email)
	user, err := i.usersStore.FindByEmail(email)
	if err != nil {
		logger.WithError(err).Error("user fetch failed")
		return "", err
	}
	if user == nil {
		return msgUserNotFound, nil
	}
	hash, err := authutils.HashPassword(request.NewPassword)
	if err != nil {
		return "", err
	}
	if hMsg, err = i.passwordReset.Redeem(request.ResetCode, user.Email, hash); err != nil || hMsg != "" {
		return hMsg, err
	}
	logger.Info("password reset")
	return "", nil
}

func (i impl) issueTokens(user dbmodels.User) (authapimodels.JWTResponse, error) {
	token, err := authutils.GetToken(user.ID, user.GetFullName(), user.Role)
	if err != nil {
		return authapimodels.JWTResponse{}, err
	}
	refreshToken, err := authutils.GetRefreshToken(user.ID, user.GetFullName())
	if err != nil {
		return authapimodels.JWTResponse{}, err
	}
	return authapimodels.JWTResponse{
		Token:        token,
		RefreshToken: refreshToken,
	}, nil
}

package usershandler

import (
	"strings"

	"github.com/lib/pq"
	log "github.com/sirupsen/logrus"
	"schoolconnect-backend/db"
	usersstore "schoolconnect-backend/lib/users/store"
	authutils "schoolconnect-backend/lib/utils/auth-utils"
	"schoolconnect-backend/models"
	jobapimodels "schoolconnect-backend/models/api/job"
	userapimodels "schoolconnect-backend/models/api/user"
)

type Provider interface {
	GetProfile(userID string) (user userapimodels.UserView, hMsg string, err error)
	UpdateProfile(userID string, request userapimodels.ProfileUpdate) (hMsg string, err error)
	ChangePassword(userID string, request userapimodels.ChangePassword) (hMsg string, err error)
}

var Instance Provider

func NewHandler() {
	Instance = impl{
		usersStore: usersstore.NewInstance(db.DB),
	}
}

type impl struct {
	usersStore usersstore.Provider
}

func (i impl) GetProfile(userID string) (user userapimodels.UserView, hMsg string, err error) {
	rec, err := i.usersStore.GetByID(userID)
	if err != nil {
		log.WithField("user_id", userID).WithError(err).Error("user fetch failed")
		return userapimodels.UserView{}, "", err
	}
	if rec == nil {
		return userapimodels.UserView{}, "user not found", nil
	}
	return rec.ToModel(), "", nil
}

func (i impl) UpdateProfile(userID string, request userapimodels.ProfileUpdate) (hMsg string, err error) {
	logger := log.WithField("user_id", userID)
	rec, err := i.usersStore.GetByID(userID)
	if err != nil {
		logger.WithError(err).Error("user fetch failed")
		return "", err
	}
	if rec == nil {
		return "user not found", nil
	}
	if err = request.Validate(rec.Role); err != nil {
		return err.Error(), nil
	}
	updMap := map[string]interface{}{}
	setString := func(column string, value *string) {
		if value != nil {
			updMap[column] = strings.TrimSpace(*value)
		}
	}
	setString("first_name", request.FirstName)
	setString("last_name", request.LastName)
	setString("phone", request.Phone)
	setString("bio", request.Bio)
	switch rec.Role {
	case models.StudentRole:
		setString("school_name", request.SchoolName)
		setString("major", request.Major)
		if request.GraduationYear != nil {
			updMap["graduation_year"] = *request.GraduationYear
		}
		if request.Skills != nil {
			updMap["skills"] = pq.StringArray(jobapimodels.NormalizeSkills(*request.Skills))
		}
	case models.EmployerRole:
		setString("company_name", request.CompanyName)
		setString("company_website", request.CompanyWebsite)
		setString("company_description", request.CompanyDescription)
	}
	if err = i.usersStore.Update(userID, updMap); err != nil {
		logger.WithError(err).Error("profile update failed")
		return "", err
	}
	logger.Info("profile updated")
	return "", nil
}

func (i impl) ChangePassword(userID string, request userapimodels.ChangePassword) (hMsg string, err error) {
	logger := log.WithField("user_id", userID)
	if err = request.Validate(); err != nil {
		return err.Error(), nil
	}
	rec, err := i.usersStore.GetByID(userID)
	if err != nil {
		logger.WithError(err).Error("user fetch failed")
		return "", err
	}
	if rec == nil {
		return "user not found", nil
	}
	if !authutils.CheckPassword(rec.Password, request.OldPassword) {
		return "current password is incorrect", nil
	}
	hash, err := authutils.HashPassword(request.NewPassword)
	if err != nil {
		return "", err
	}
	if err = i.usersStore.Update(userID, map[string]interface{}{"password": hash}); err != nil {
		logger.WithError(err).Error("password update failed")
		return "", err
	}
	logger.Info("password changed")
	return "", nil
}

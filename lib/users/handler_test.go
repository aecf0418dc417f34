package usershandler

import (
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"schoolconnect-backend/config"
	usersstore "schoolconnect-backend/lib/users/store"
	authutils "schoolconnect-backend/lib/utils/auth-utils"
	"schoolconnect-backend/models"
	userapimodels "schoolconnect-backend/models/api/user"
	dbmodels "schoolconnect-backend/models/db"
)

type fakeUsersStore struct {
	usersstore.Provider
	users   map[string]*dbmodels.User
	updates map[string]map[string]interface{}
}

func (f *fakeUsersStore) GetByID(userID string) (*dbmodels.User, error) {
	return f.users[userID], nil
}

func (f *fakeUsersStore) Update(userID string, updMap map[string]interface{}) error {
	f.updates[userID] = updMap
	return nil
}

func strPtr(v string) *string {
	return &v
}

func newTestHandler(t *testing.T) (impl, *fakeUsersStore) {
	conf := new(config.Configuration)
	conf.Auth.BcryptCost = bcrypt.MinCost
	config.Conf = conf
	hash, err := authutils.HashPassword("secret123")
	require.NoError(t, err)
	store := &fakeUsersStore{
		users: map[string]*dbmodels.User{
			"student-1": {
				BaseModel: dbmodels.BaseModel{ID: "student-1"}, Role: models.StudentRole, Password: hash,
				FirstName: "Ann", LastName: "Lee", SchoolName: "Central High", Skills: pq.StringArray{"math"},
			},
			"employer-1": {
				BaseModel: dbmodels.BaseModel{ID: "employer-1"}, Role: models.EmployerRole, Password: hash,
				FirstName: "Bob", CompanyName: "Corner Cafe",
			},
		},
		updates: map[string]map[string]interface{}{},
	}
	return impl{usersStore: store}, store
}

func TestGetProfile(t *testing.T) {
	handler, _ := newTestHandler(t)
	view, hMsg, err := handler.GetProfile("student-1")
	require.NoError(t, err)
	require.Empty(t, hMsg)
	require.Equal(t, "Central High", view.SchoolName)
	require.Empty(t, view.CompanyName)

	view, _, err = handler.GetProfile("employer-1")
	require.NoError(t, err)
	require.Equal(t, "Corner Cafe", view.CompanyName)

	_, hMsg, err = handler.GetProfile("missing")
	require.NoError(t, err)
	require.Equal(t, "user not found", hMsg)
}

func TestUpdateProfile(t *testing.T) {
	t.Run(`only sent fields change`, func(t *testing.T) {
		handler, store := newTestHandler(t)
		skills := []string{"Excel", "excel", " typing "}
		hMsg, err := handler.UpdateProfile("student-1", userapimodels.ProfileUpdate{
			FirstName: strPtr(" Anna "),
			Skills:    &skills,
		})
		require.NoError(t, err)
		require.Empty(t, hMsg)
		upd := store.updates["student-1"]
		require.Len(t, upd, 2)
		require.Equal(t, "Anna", upd["first_name"])
		require.Equal(t, pq.StringArray{"Excel", "typing"}, upd["skills"])
	})
	t.Run(`student can not set company fields`, func(t *testing.T) {
		handler, store := newTestHandler(t)
		hMsg, err := handler.UpdateProfile("student-1", userapimodels.ProfileUpdate{CompanyName: strPtr("Cafe")})
		require.NoError(t, err)
		require.Contains(t, hMsg, "company fields are for employers only")
		require.Empty(t, store.updates)
	})
	t.Run(`employer website is checked`, func(t *testing.T) {
		handler, _ := newTestHandler(t)
		hMsg, err := handler.UpdateProfile("employer-1", userapimodels.ProfileUpdate{CompanyWebsite: strPtr("cafe dot com")})
		require.NoError(t, err)
		require.Contains(t, hMsg, "company_website")
	})
}

func TestChangePassword(t *testing.T) {
	t.Run(`current password must match`, func(t *testing.T) {
		handler, store := newTestHandler(t)
		hMsg, err := handler.ChangePassword("student-1", userapimodels.ChangePassword{OldPassword: "wrong123", NewPassword: "newpass123"})
		require.NoError(t, err)
		require.Equal(t, "current password is incorrect", hMsg)
		require.Empty(t, store.updates)
	})
	t.Run(`new hash is stored`, func(t *testing.T) {
		handler, store := newTestHandler(t)
		hMsg, err := handler.ChangePassword("student-1", userapimodels.ChangePassword{OldPassword: "secret123", NewPassword: "newpass123"})
		require.NoError(t, err)
		require.Empty(t, hMsg)
		hash := store.updates["student-1"]["password"].(string)
		require.True(t, authutils.CheckPassword(hash, "newpass123"))
	})
	t.Run(`weak new password`, func(t *testing.T) {
		handler, _ := newTestHandler(t)
		hMsg, err := handler.ChangePassword("student-1", userapimodels.ChangePassword{OldPassword: "secret123", NewPassword: "short"})
		require.NoError(t, err)
		require.Contains(t, hMsg, "new_password")
	})
}

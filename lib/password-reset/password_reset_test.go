package passwordreset

import (
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	passwordresetstore "schoolconnect-backend/lib/password-reset/store"
	usersstore "schoolconnect-backend/lib/users/store"
	dbmodels "schoolconnect-backend/models/db"
)

type fakeStore struct {
	passwordresetstore.Provider
	codes     map[string]*dbmodels.PasswordReset
	passwords map[string]string
}

func (f *fakeStore) Create(rec dbmodels.PasswordReset) error {
	f.codes[rec.Code] = &rec
	return nil
}

func (f *fakeStore) GetByCode(code string) (*dbmodels.PasswordReset, error) {
	return f.codes[code], nil
}

func (f *fakeStore) RedeemWithPassword(code, email, passwordHash string, now time.Time) (bool, error) {
	rec, ok := f.codes[code]
	if !ok || rec.Email != email || !rec.DateUsed.IsZero() || !rec.DateExpires.After(now) {
		return false, nil
	}
	rec.DateUsed = now
	f.passwords[email] = passwordHash
	return true, nil
}

type fakeUsersStore struct {
	usersstore.Provider
	users []dbmodels.User
}

func (f fakeUsersStore) FindByEmail(email string) (*dbmodels.User, error) {
	for idx := range f.users {
		if f.users[idx].Email == email {
			return &f.users[idx], nil
		}
	}
	return nil, nil
}

type fakeMailer struct {
	to      []string
	message string
	fail    bool
}

func (f *fakeMailer) SendEMail(from, to, message, subject string) error {
	if f.fail {
		return errors.New("smtp is down")
	}
	f.to = append(f.to, to)
	f.message = message
	return nil
}

func (f *fakeMailer) IsConfigured() bool {
	return true
}

func newTestHandler() (impl, *fakeStore, *fakeMailer) {
	store := &fakeStore{codes: map[string]*dbmodels.PasswordReset{}, passwords: map[string]string{}}
	mailer := &fakeMailer{}
	return impl{
		store: store,
		usersStore: fakeUsersStore{users: []dbmodels.User{
			{Email: "ann@school.edu", IsActive: true},
			{Email: "old@school.edu", IsActive: false},
		}},
		mailer:      mailer,
		emailFrom:   "no-reply@schoolconnect.local",
		frontendURL: "http://localhost:3000",
		ttl:         time.Hour,
	}, store, mailer
}

func TestSendResetCode(t *testing.T) {
	t.Run(`active user gets a link`, func(t *testing.T) {
		handler, store, mailer := newTestHandler()
		require.NoError(t, handler.SendResetCode("ann@school.edu"))
		require.Len(t, store.codes, 1)
		for code, rec := range store.codes {
			require.Len(t, code, codeLength)
			require.Equal(t, rec.DateGenerated.Add(time.Hour), rec.DateExpires)
			require.Contains(t, mailer.message, "http://localhost:3000/reset-password?code="+code)
		}
		require.Equal(t, []string{"ann@school.edu"}, mailer.to)
	})
	t.Run(`unknown and inactive emails are ignored`, func(t *testing.T) {
		handler, store, mailer := newTestHandler()
		require.NoError(t, handler.SendResetCode("nobody@school.edu"))
		require.NoError(t, handler.SendResetCode("old@school.edu"))
		require.Empty(t, store.codes)
		require.Empty(t, mailer.to)
	})
	t.Run(`mail failure looks like an unknown email`, func(t *testing.T) {
		handler, store, mailer := newTestHandler()
		mailer.fail = true
		require.NoError(t, handler.SendResetCode("ann@school.edu"))
		require.NoError(t, handler.SendResetCode("nobody@school.edu"))
		require.Len(t, store.codes, 1)
	})
}

func TestCheckCode(t *testing.T) {
	handler, store, _ := newTestHandler()
	now := time.Now()
	store.codes["valid"] = &dbmodels.PasswordReset{Email: "ann@school.edu", Code: "valid", DateExpires: now.Add(time.Hour)}
	store.codes["used"] = &dbmodels.PasswordReset{Email: "ann@school.edu", Code: "used", DateExpires: now.Add(time.Hour), DateUsed: now}
	store.codes["expired"] = &dbmodels.PasswordReset{Email: "ann@school.edu", Code: "expired", DateExpires: now.Add(-time.Minute)}

	email, hMsg, err := handler.CheckCode("valid")
	require.NoError(t, err)
	require.Empty(t, hMsg)
	require.Equal(t, "ann@school.edu", email)

	_, hMsg, err = handler.CheckCode("used")
	require.NoError(t, err)
	require.Equal(t, "reset code was already used", hMsg)

	_, hMsg, err = handler.CheckCode("expired")
	require.NoError(t, err)
	require.Equal(t, "reset code has expired", hMsg)

	_, hMsg, err = handler.CheckCode("missing")
	require.NoError(t, err)
	require.Equal(t, "reset code not found", hMsg)
}

func TestRedeem(t *testing.T) {
	handler, store, _ := newTestHandler()
	store.codes["valid"] = &dbmodels.PasswordReset{Email: "ann@school.edu", Code: "valid", DateExpires: time.Now().Add(time.Hour)}

	t.Run(`first use sets the password`, func(t *testing.T) {
		hMsg, err := handler.Redeem("valid", "ann@school.edu", "hash-1")
		require.NoError(t, err)
		require.Empty(t, hMsg)
		require.Equal(t, "hash-1", store.passwords["ann@school.edu"])
		require.False(t, store.codes["valid"].DateUsed.IsZero())
	})
	t.Run(`second use is refused`, func(t *testing.T) {
		hMsg, err := handler.Redeem("valid", "ann@school.edu", "hash-2")
		require.NoError(t, err)
		require.Equal(t, msgCodeUsed, hMsg)
		require.Equal(t, "hash-1", store.passwords["ann@school.edu"])
	})
}

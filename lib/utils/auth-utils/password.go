package authutils

import (
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
	"schoolconnect-backend/config"
)

func HashPassword(password string) (string, error) {
	cost := bcrypt.DefaultCost
	if config.Conf != nil && config.Conf.Auth.BcryptCost >= bcrypt.MinCost {
		cost = config.Conf.Auth.BcryptCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", errors.Wrap(err, "password hashing failed")
	}
	return string(hash), nil
}

func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

package authapimodels

import (
	"strings"

	"github.com/pkg/errors"
	userapimodels "schoolconnect-backend/models/api/user"
)

type JWTResponse struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refresh_token"`
}

type LoginResponse struct {
	JWTResponse
	User     userapimodels.UserView `json:"user"`
	Redirect string                 `json:"redirect"` // dashboard path for the role
}

type JWTRefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

func (r JWTRefreshRequest) Validate() error {
	if len(strings.TrimSpace(r.RefreshToken)) == 0 {
		return errors.New("refresh token must not be empty")
	}
	return nil
}

type MeResponse struct {
	User     userapimodels.UserView `json:"user"`
	Redirect string                 `json:"redirect"`
}

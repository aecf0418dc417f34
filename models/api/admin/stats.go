package adminapimodels

import "schoolconnect-backend/models"

type Stats struct {
	Users        map[models.UserRole]int64          `json:"users"`
	Jobs         map[models.JobStatus]int64         `json:"jobs"`
	Applications map[models.ApplicationStatus]int64 `json:"applications"`
	// employers waiting for verification
	UnverifiedEmployers int64 `json:"unverified_employers"`
}

type ActivateRequest struct {
	Active bool `json:"active"`
}

package resumeapimodels

import "time"

type ResumeView struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	ContentType string    `json:"content_type"`
	Size        int64     `json:"size"`
	CreatedAt   time.Time `json:"created_at"`
}

// ResumeFile downloaded body
type ResumeFile struct {
	Name        string
	ContentType string
	Body        []byte
}

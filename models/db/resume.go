package dbmodels

import resumeapimodels "schoolconnect-backend/models/api/resume"

type Resume struct {
	BaseModel
	StudentID   string `gorm:"type:varchar(36);index"`
	Name        string `gorm:"type:varchar(255)"`
	ContentType string `gorm:"type:varchar(255)"`
	Size        int64
	ObjectKey   string `gorm:"type:varchar(512)"` // key in the resume bucket
}

func (r Resume) ToModel() resumeapimodels.ResumeView {
	return resumeapimodels.ResumeView{
		ID:          r.ID,
		Name:        r.Name,
		ContentType: r.ContentType,
		Size:        r.Size,
		CreatedAt:   r.CreatedAt,
	}
}

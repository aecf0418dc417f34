package models

type NotificationCode string

const (
	NotificationEmployerVerified        NotificationCode = "EMPLOYER_VERIFIED"
	NotificationEmployerRevoked         NotificationCode = "EMPLOYER_REVOKED"
	NotificationJobApproved             NotificationCode = "JOB_APPROVED"
	NotificationJobRejected             NotificationCode = "JOB_REJECTED"
	NotificationApplicationReceived     NotificationCode = "APPLICATION_RECEIVED"
	NotificationApplicationWithdrawn    NotificationCode = "APPLICATION_WITHDRAWN"
	NotificationApplicationStatusChange NotificationCode = "APPLICATION_STATUS_CHANGED"
)

var notificationTitle = map[NotificationCode]string{
	NotificationEmployerVerified:        "Your employer account is verified",
	NotificationEmployerRevoked:         "Your employer verification was revoked",
	NotificationJobApproved:             "Job posting approved",
	NotificationJobRejected:             "Job posting rejected",
	NotificationApplicationReceived:     "New application",
	NotificationApplicationWithdrawn:    "Application withdrawn",
	NotificationApplicationStatusChange: "Application status updated",
}

func (c NotificationCode) Title() string {
	if title, exist := notificationTitle[c]; exist {
		return title
	}
	return string(c)
}

// WithEmail events that are also mailed, the rest only go to the dashboard
func (c NotificationCode) WithEmail() bool {
	switch c {
	case NotificationEmployerVerified, NotificationEmployerRevoked,
		NotificationJobApproved, NotificationJobRejected,
		NotificationApplicationStatusChange:
		return true
	}
	return false
}

package models

type ApplicationStatus string

const (
	ApplicationStatusPending  ApplicationStatus = "pending"
	ApplicationStatusReviewed ApplicationStatus = "reviewed"
	ApplicationStatusAccepted ApplicationStatus = "accepted"
	ApplicationStatusRejected ApplicationStatus = "rejected"
)

var applicationStatusHumanName = map[ApplicationStatus]string{
	ApplicationStatusPending:  "Pending",
	ApplicationStatusReviewed: "Reviewed",
	ApplicationStatusAccepted: "Accepted",
	ApplicationStatusRejected: "Rejected",
}

var applicationStatusTransitions = map[ApplicationStatus][]ApplicationStatus{
	ApplicationStatusPending:  {ApplicationStatusReviewed, ApplicationStatusAccepted, ApplicationStatusRejected},
	ApplicationStatusReviewed: {ApplicationStatusAccepted, ApplicationStatusRejected},
}

func (s ApplicationStatus) ToHuman() string {
	if human, exist := applicationStatusHumanName[s]; exist {
		return human
	}
	return string(s)
}

func (s ApplicationStatus) IsValid() bool {
	_, ok := applicationStatusHumanName[s]
	return ok
}

func (s ApplicationStatus) IsFinal() bool {
	return s == ApplicationStatusAccepted || s == ApplicationStatusRejected
}

// IsOpen the employer has not decided yet
func (s ApplicationStatus) IsOpen() bool {
	return s == ApplicationStatusPending || s == ApplicationStatusReviewed
}

func (s ApplicationStatus) CanChangeTo(next ApplicationStatus) bool {
	for _, allowed := range applicationStatusTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

package models

type JobStatus string

const (
	JobStatusPending  JobStatus = "pending"
	JobStatusApproved JobStatus = "approved"
	JobStatusRejected JobStatus = "rejected"
)

var jobStatusHumanName = map[JobStatus]string{
	JobStatusPending:  "Pending review",
	JobStatusApproved: "Approved",
	JobStatusRejected: "Rejected",
}

func (s JobStatus) ToHuman() string {
	if human, exist := jobStatusHumanName[s]; exist {
		return human
	}
	return string(s)
}

func (s JobStatus) IsValid() bool {
	_, ok := jobStatusHumanName[s]
	return ok
}

// moderation moves; pending is reachable only through an employer edit
var jobStatusTransitions = map[JobStatus][]JobStatus{
	JobStatusPending:  {JobStatusApproved, JobStatusRejected},
	JobStatusApproved: {JobStatusRejected},
	JobStatusRejected: {JobStatusApproved},
}

func (s JobStatus) CanModerateTo(next JobStatus) bool {
	for _, allowed := range jobStatusTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type JobType string

const (
	JobTypeFullTime   JobType = "full_time"
	JobTypePartTime   JobType = "part_time"
	JobTypeInternship JobType = "internship"
	JobTypeVolunteer  JobType = "volunteer"
	JobTypeSeasonal   JobType = "seasonal"
)

var jobTypeHumanName = map[JobType]string{
	JobTypeFullTime:   "Full-time",
	JobTypePartTime:   "Part-time",
	JobTypeInternship: "Internship",
	JobTypeVolunteer:  "Volunteer",
	JobTypeSeasonal:   "Seasonal",
}

func (t JobType) ToHuman() string {
	if human, exist := jobTypeHumanName[t]; exist {
		return human
	}
	return string(t)
}

func (t JobType) IsValid() bool {
	_, ok := jobTypeHumanName[t]
	return ok
}

type WorkMode string

const (
	WorkModeOnSite WorkMode = "on_site"
	WorkModeRemote WorkMode = "remote"
	WorkModeHybrid WorkMode = "hybrid"
)

var workModeHumanName = map[WorkMode]string{
	WorkModeOnSite: "On-site",
	WorkModeRemote: "Remote",
	WorkModeHybrid: "Hybrid",
}

func (m WorkMode) ToHuman() string {
	if human, exist := workModeHumanName[m]; exist {
		return human
	}
	return string(m)
}

func (m WorkMode) IsValid() bool {
	_, ok := workModeHumanName[m]
	return ok
}

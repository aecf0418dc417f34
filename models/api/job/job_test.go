package jobapimodels

import (
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"schoolconnect-backend/models"
	apimodels "schoolconnect-backend/models/api"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func intPtr(v int) *int {
	return &v
}

func timePtr(v time.Time) *time.Time {
	return &v
}

func validJobData() JobData {
	return JobData{
		Title:       "Weekend barista",
		JobType:     models.JobTypePartTime,
		WorkMode:    models.WorkModeOnSite,
		Location:    "Springfield",
		Description: "Make coffee and greet customers on Saturdays.",
		Skills:      []string{"coffee"},
		PayMin:      intPtr(14),
		PayMax:      intPtr(16),
		Deadline:    timePtr(testNow.Add(72 * time.Hour)),
	}
}

func manySkills(count int) []string {
	skills := make([]string, 0, count)
	for idx := 0; idx < count; idx++ {
		skills = append(skills, "skill "+strconv.Itoa(idx))
	}
	return skills
}

func TestJobDataValidate(t *testing.T) {
	require.NoError(t, validJobData().ValidateAt(testNow))

	cases := []struct {
		name   string
		change func(d *JobData)
		step   string
		field  string
	}{
		{"title too short", func(d *JobData) { d.Title = " ab " }, JobStepBasics, "title"},
		{"title too long", func(d *JobData) { d.Title = strings.Repeat("a", 151) }, JobStepBasics, "title"},
		{"unknown job type", func(d *JobData) { d.JobType = "gig" }, JobStepBasics, "job_type"},
		{"unknown work mode", func(d *JobData) { d.WorkMode = "moon" }, JobStepBasics, "work_mode"},
		{"location required on site", func(d *JobData) { d.Location = "  " }, JobStepBasics, "location"},
		{"location required for hybrid", func(d *JobData) { d.WorkMode = models.WorkModeHybrid; d.Location = "" }, JobStepBasics, "location"},
		{"short description", func(d *JobData) { d.Description = "Make coffee.        " }, JobStepDetails, "description"},
		{"too many skills", func(d *JobData) { d.Skills = manySkills(maxSkills + 1) }, JobStepDetails, "skills"},
		{"negative pay", func(d *JobData) { d.PayMin = intPtr(-1) }, JobStepCompensation, "pay_min"},
		{"min pay above max pay", func(d *JobData) { d.PayMin = intPtr(20) }, JobStepCompensation, "pay_max"},
		{"deadline in the past", func(d *JobData) { d.Deadline = timePtr(testNow.Add(-time.Hour)) }, JobStepCompensation, "deadline"},
		{"deadline right now", func(d *JobData) { d.Deadline = timePtr(testNow) }, JobStepCompensation, "deadline"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			data := validJobData()
			tc.change(&data)
			err := data.ValidateAt(testNow)
			require.Error(t, err)
			vErr, ok := err.(*apimodels.ValidationError)
			require.True(t, ok, err.Error())
			require.Equal(t, tc.step, vErr.Step)
			require.Contains(t, vErr.Fields, tc.field)
		})
	}
}

func TestJobDataValidateAccepts(t *testing.T) {
	cases := []struct {
		name   string
		change func(d *JobData)
	}{
		{"remote without location", func(d *JobData) { d.WorkMode = models.WorkModeRemote; d.Location = "" }},
		{"title of 150 multi-byte characters", func(d *JobData) { d.Title = strings.Repeat("é", 150) }},
		{"three character title", func(d *JobData) { d.Title = "Cab" }},
		{"no pay and no deadline", func(d *JobData) { d.PayMin, d.PayMax, d.Deadline = nil, nil, nil }},
		{"equal pay", func(d *JobData) { d.PayMin = intPtr(16) }},
		{"duplicate skills count once", func(d *JobData) { d.Skills = append(manySkills(maxSkills), "Skill 0", " skill 1 ", "") }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			data := validJobData()
			tc.change(&data)
			require.NoError(t, data.ValidateAt(testNow))
		})
	}
}

func TestValidateStepAt(t *testing.T) {
	t.Run(`steps are independent`, func(t *testing.T) {
		data := validJobData()
		data.Description = ""
		require.NoError(t, data.ValidateStepAt(JobStepBasics, testNow))
		require.Error(t, data.ValidateStepAt(JobStepDetails, testNow))
	})
	t.Run(`unknown step`, func(t *testing.T) {
		require.Error(t, validJobData().ValidateStepAt("extras", testNow))
	})
}

func TestRejectRequestValidate(t *testing.T) {
	require.NoError(t, RejectRequest{Reason: "pay below minimum wage"}.Validate())
	require.EqualError(t, RejectRequest{Reason: "   "}.Validate(), "rejection reason is required")
	require.Error(t, RejectRequest{Reason: strings.Repeat("x", 1001)}.Validate())
	require.NoError(t, RejectRequest{Reason: strings.Repeat("ü", 1000)}.Validate())
}

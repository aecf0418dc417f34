package xlsexport

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"schoolconnect-backend/models"
	applicationapimodels "schoolconnect-backend/models/api/application"
	jobapimodels "schoolconnect-backend/models/api/job"
)

func TestExport(t *testing.T) {
	NewHandler()
	created := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	payMin := 14

	t.Run(`job list`, func(t *testing.T) {
		list := []jobapimodels.JobView{
			{
				Title:            "Library Assistant",
				CompanyName:      "City Library",
				StatusHuman:      models.JobStatusApproved.ToHuman(),
				JobTypeHuman:     models.JobTypePartTime.ToHuman(),
				WorkModeHuman:    models.WorkModeOnSite.ToHuman(),
				Location:         "Downtown",
				PayMin:           &payMin,
				ApplicationCount: 3,
				CreatedAt:        created,
			},
		}
		buf, err := Instance.ExportJobList(list)
		require.NoError(t, err)

		f, err := excelize.OpenReader(buf)
		require.NoError(t, err)
		defer f.Close()
		rows, err := f.GetRows("Job postings")
		require.NoError(t, err)
		require.Len(t, rows, 2)
		require.Equal(t, jobHeaders[0], rows[0][0])
		require.Equal(t, "Library Assistant", rows[1][0])
		require.Equal(t, "City Library", rows[1][1])
		require.Equal(t, "from $14 / hour", rows[1][6])
		require.Equal(t, "3", rows[1][8])
		require.Equal(t, "2026-03-10", rows[1][9])
	})

	t.Run(`empty application list keeps the header`, func(t *testing.T) {
		buf, err := Instance.ExportApplicationList(jobapimodels.JobView{Title: "Barista"}, nil)
		require.NoError(t, err)

		f, err := excelize.OpenReader(buf)
		require.NoError(t, err)
		defer f.Close()
		rows, err := f.GetRows("Applications")
		require.NoError(t, err)
		require.Len(t, rows, 2)
		require.Equal(t, "Barista", rows[0][0])
		require.Equal(t, applicationHeaders, rows[1])
	})

	t.Run(`application list`, func(t *testing.T) {
		list := []applicationapimodels.ApplicationView{
			{
				StudentName:     "Ann Lee",
				StudentEmail:    "ann@school.test",
				SchoolName:      "North High",
				GraduationYear:  2027,
				StatusHuman:     models.ApplicationStatusReviewed.ToHuman(),
				ResumeName:      "cv.pdf",
				CreatedAt:       created,
				StatusChangedAt: created,
			},
		}
		buf, err := Instance.ExportApplicationList(jobapimodels.JobView{Title: "Barista"}, list)
		require.NoError(t, err)

		f, err := excelize.OpenReader(buf)
		require.NoError(t, err)
		defer f.Close()
		rows, err := f.GetRows("Applications")
		require.NoError(t, err)
		require.Len(t, rows, 3)
		require.Equal(t, "Ann Lee", rows[2][0])
		require.Equal(t, "2027", rows[2][3])
		require.Equal(t, "cv.pdf", rows[2][7])
	})
}

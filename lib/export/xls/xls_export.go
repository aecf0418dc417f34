package xlsexport

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
	pdfexport "schoolconnect-backend/lib/export/pdf"
	applicationapimodels "schoolconnect-backend/models/api/application"
	jobapimodels "schoolconnect-backend/models/api/job"
)

const defaultSheet = "Sheet1"

type Provider interface {
	ExportJobList(list []jobapimodels.JobView) (*bytes.Buffer, error)
	ExportApplicationList(job jobapimodels.JobView, list []applicationapimodels.ApplicationView) (*bytes.Buffer, error)
}

var Instance Provider

func NewHandler() {
	Instance = impl{}
}

type impl struct{}

var jobHeaders = []string{"Title", "Company", "Status", "Job type", "Work mode", "Location", "Pay", "Deadline", "Applications", "Created", "Reject reason"}

var applicationHeaders = []string{"Student", "Email", "School", "Graduation year", "Status", "Applied", "Status changed", "Resume", "Employer note", "Cover letter"}

func (i impl) ExportJobList(list []jobapimodels.JobView) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer closeFile(f)
	row, err := writeHeader(f, defaultSheet, 0, jobHeaders)
	if err != nil {
		return nil, errors.Wrap(err, "xlsx header write failed")
	}
	if err = applyDataCellStyle(f, defaultSheet, 1, row+1, len(jobHeaders), row+len(list)); err != nil {
		return nil, errors.Wrap(err, "xlsx style apply failed")
	}
	for _, item := range list {
		row++
		values := []interface{}{
			item.Title,
			item.CompanyName,
			item.StatusHuman,
			item.JobTypeHuman,
			item.WorkModeHuman,
			item.Location,
			pdfexport.PayRange(item.PayMin, item.PayMax),
			formatDate(item.Deadline),
			item.ApplicationCount,
			formatDate(&item.CreatedAt),
			item.RejectReason,
		}
		if err = writeRow(f, defaultSheet, row, values); err != nil {
			return nil, errors.Wrap(err, "xlsx data write failed")
		}
	}
	if err = f.SetSheetName(defaultSheet, "Job postings"); err != nil {
		return nil, err
	}
	return f.WriteToBuffer()
}

func (i impl) ExportApplicationList(job jobapimodels.JobView, list []applicationapimodels.ApplicationView) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer closeFile(f)
	// title row with the posting name
	if err := writeColumn(f, defaultSheet, 1, 1, job.Title); err != nil {
		return nil, errors.Wrap(err, "xlsx title write failed")
	}
	row, err := writeHeader(f, defaultSheet, 1, applicationHeaders)
	if err != nil {
		return nil, errors.Wrap(err, "xlsx header write failed")
	}
	if err = applyDataCellStyle(f, defaultSheet, 1, row+1, len(applicationHeaders), row+len(list)); err != nil {
		return nil, errors.Wrap(err, "xlsx style apply failed")
	}
	for _, item := range list {
		row++
		graduationYear := ""
		if item.GraduationYear > 0 {
			graduationYear = strconv.Itoa(item.GraduationYear)
		}
		values := []interface{}{
			item.StudentName,
			item.StudentEmail,
			item.SchoolName,
			graduationYear,
			item.StatusHuman,
			formatDate(&item.CreatedAt),
			formatDate(&item.StatusChangedAt),
			item.ResumeName,
			item.EmployerNote,
			strings.TrimSpace(item.CoverLetter),
		}
		if err = writeRow(f, defaultSheet, row, values); err != nil {
			return nil, errors.Wrap(err, "xlsx data write failed")
		}
	}
	if err = f.SetSheetName(defaultSheet, "Applications"); err != nil {
		return nil, err
	}
	return f.WriteToBuffer()
}

func closeFile(f *excelize.File) {
	if err := f.Close(); err != nil {
		log.WithError(err).Error("xlsx file close failed")
	}
}

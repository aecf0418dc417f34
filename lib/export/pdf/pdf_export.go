package pdfexport

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"
	"github.com/pkg/errors"
	jobapimodels "schoolconnect-backend/models/api/job"
)

const (
	fontFamily = "Helvetica"
	dateLayout = "Jan 2, 2006"
)

// GenerateJobFlyer one page A4 flyer for printing on a school notice board
func GenerateJobFlyer(job jobapimodels.JobView) (pdfFile []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("GenerateJobFlyer panic recover: %v", r)
		}
	}()
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(job.Title, true)
	pdf.SetCreator("SchoolConnect", true)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pageWidth, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	width := pageWidth - left - right

	// header
	pdf.SetFont(fontFamily, "B", 22)
	pdf.MultiCell(width, 10, tr(job.Title), "", "L", false)
	pdf.SetFont(fontFamily, "", 14)
	pdf.SetTextColor(90, 90, 90)
	pdf.MultiCell(width, 8, tr(job.CompanyName), "", "L", false)
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(4)

	// summary
	pdf.SetFont(fontFamily, "", 11)
	for _, row := range summaryRows(job) {
		pdf.SetFont(fontFamily, "B", 11)
		pdf.CellFormat(40, 7, tr(row[0]), "", 0, "L", false, 0, "")
		pdf.SetFont(fontFamily, "", 11)
		pdf.MultiCell(width-40, 7, tr(row[1]), "", "L", false)
	}
	pdf.Ln(4)

	writeSection(pdf, tr, width, "About the job", job.Description)
	writeSection(pdf, tr, width, "Requirements", job.Requirements)
	if len(job.Skills) > 0 {
		writeSection(pdf, tr, width, "Skills", strings.Join(job.Skills, ", "))
	}

	pdf.Ln(6)
	pdf.SetFont(fontFamily, "I", 10)
	pdf.SetTextColor(90, 90, 90)
	pdf.MultiCell(width, 6, tr("Apply through your SchoolConnect student dashboard."), "", "L", false)

	if pdf.Error() != nil {
		return nil, pdf.Error()
	}
	buf := new(bytes.Buffer)
	err = pdf.Output(buf)
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeSection(pdf *fpdf.Fpdf, tr func(string) string, width float64, title, text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	pdf.SetFont(fontFamily, "B", 13)
	pdf.MultiCell(width, 8, tr(title), "", "L", false)
	pdf.SetFont(fontFamily, "", 11)
	pdf.MultiCell(width, 6, tr(text), "", "L", false)
	pdf.Ln(3)
}

func summaryRows(job jobapimodels.JobView) [][2]string {
	location := job.Location
	if location == "" {
		location = job.WorkModeHuman
	} else {
		location = fmt.Sprintf("%s (%s)", location, strings.ToLower(job.WorkModeHuman))
	}
	rows := [][2]string{
		{"Job type", job.JobTypeHuman},
		{"Location", location},
	}
	if pay := PayRange(job.PayMin, job.PayMax); pay != "" {
		rows = append(rows, [2]string{"Pay", pay})
	}
	if job.Deadline != nil {
		rows = append(rows, [2]string{"Apply by", job.Deadline.Format(dateLayout)})
	}
	return rows
}

// PayRange "$12 - $15 / hour", empty when no pay is set
func PayRange(payMin, payMax *int) string {
	switch {
	case payMin != nil && payMax != nil && *payMin == *payMax:
		return fmt.Sprintf("$%d / hour", *payMin)
	case payMin != nil && payMax != nil:
		return fmt.Sprintf("$%d - $%d / hour", *payMin, *payMax)
	case payMin != nil:
		return fmt.Sprintf("from $%d / hour", *payMin)
	case payMax != nil:
		return fmt.Sprintf("up to $%d / hour", *payMax)
	}
	return ""
}

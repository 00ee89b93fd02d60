package pdf

import (
	"fmt"
	"io"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// Generator renders task reports; an interface so handlers can be tested
// against a stub.
type Generator interface {
	GenerateTaskReport(w io.Writer, data ReportData) error
}

type ReportGenerator struct{}

func NewReportGenerator() *ReportGenerator {
	return &ReportGenerator{}
}

type ReportData struct {
	Username    string
	GeneratedAt time.Time
	Sections    []ReportSection
}

// ReportSection is one status bucket: its label, count and task listing.
type ReportSection struct {
	Status string
	Count  int
	Tasks  []string
}

func (g *ReportGenerator) GenerateTaskReport(w io.Writer, data ReportData) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(0, 10, fmt.Sprintf("%s's report", data.Username))
	pdf.Ln(8)

	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 8, "Generated at "+data.GeneratedAt.Format("2006-01-02 15:04 MST"))
	pdf.Ln(12)

	for _, section := range data.Sections {
		pdf.SetFont("Arial", "B", 12)
		pdf.Cell(0, 8, fmt.Sprintf("%s : %d", section.Status, section.Count))
		pdf.Ln(8)

		pdf.SetFont("Arial", "", 11)
		for i, task := range section.Tasks {
			pdf.Cell(0, 6, fmt.Sprintf("%d. %s", i+1, task))
			pdf.Ln(6)
		}
		pdf.Ln(4)
	}

	return pdf.Output(w)
}

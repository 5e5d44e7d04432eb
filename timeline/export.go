package timeline

import (
	"bytes"
	"context"
	"fmt"

	"github.com/phpdave11/gofpdf"

	"wayfare/planner"
)

// ExportPDF renders the planner's day-by-day itinerary as a PDF document.
func (m *Manager) ExportPDF(ctx context.Context, plannerID string) ([]byte, error) {
	p, err := m.resolve(ctx, plannerID)
	if err != nil {
		return nil, err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, tr(p.Name), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 7, tr(p.Destination), "", 1, "L", false, 0, "")
	if p.StartDate != nil && p.EndDate != nil {
		pdf.CellFormat(0, 7, fmt.Sprintf("%s – %s",
			p.StartDate.Format("2006-01-02"), p.EndDate.Format("2006-01-02")), "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	for _, day := range planner.GroupDays(p.Items) {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.CellFormat(0, 8, day.Date, "B", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		for _, it := range day.Items {
			line := tr(it.Name)
			if it.PlannedTime != "" {
				line = it.PlannedTime + "  " + line
			}
			pdf.CellFormat(130, 6, line, "", 0, "L", false, 0, "")
			pdf.CellFormat(0, 6, fmt.Sprintf("%d × %.2f %s", it.Quantity, it.Price, p.Currency), "", 1, "R", false, 0, "")
		}
		pdf.SetFont("Helvetica", "I", 10)
		pdf.CellFormat(0, 6, fmt.Sprintf("Day total: %.2f %s", day.Total, p.Currency), "", 1, "R", false, 0, "")
		pdf.Ln(2)
	}

	unscheduled := 0
	for _, it := range p.Items {
		if it.PlannedDate == nil {
			unscheduled++
		}
	}
	if unscheduled > 0 {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.CellFormat(0, 8, "Unscheduled", "B", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		for _, it := range p.Items {
			if it.PlannedDate != nil {
				continue
			}
			pdf.CellFormat(130, 6, tr(it.Name), "", 0, "L", false, 0, "")
			pdf.CellFormat(0, 6, fmt.Sprintf("%d × %.2f %s", it.Quantity, it.Price, p.Currency), "", 1, "R", false, 0, "")
		}
		pdf.Ln(2)
	}

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(0, 8, fmt.Sprintf("Estimated total: %.2f %s", planner.TotalCost(p.Items), p.Currency), "T", 1, "R", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

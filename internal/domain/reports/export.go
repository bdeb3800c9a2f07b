package reports

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"
)

var registerHeader = []string{
	"Actividad",
	"Área responsable",
	"Responsable",
	"Finalidades",
	"Base de licitud",
	"Categorías de titulares",
	"Datos sensibles",
	"Datos de menores",
	"Transferencias internacionales",
	"Plazo de conservación",
	"Estado",
	"Nivel de riesgo",
	"Completitud (%)",
	"Actualizado",
}

func registerCells(r RegisterRow) []string {
	minors := "No"
	if r.MinorsData {
		minors = "Sí"
	}
	return []string{
		r.Name,
		r.ResponsibleArea,
		r.ResponsiblePerson,
		strings.Join(r.Purposes, "; "),
		r.LegalBasis,
		strings.Join(r.SubjectCategories, "; "),
		strings.Join(r.SensitiveCategories, "; "),
		minors,
		strings.Join(r.TransferCountries, "; "),
		r.RetentionPeriod,
		r.State,
		r.RiskLevel,
		strconv.Itoa(r.ComplianceScore),
		r.UpdatedAt.Format("2006-01-02"),
	}
}

func ExportCSV(rows []RegisterRow) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(registerHeader); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	for _, r := range rows {
		if err := w.Write(registerCells(r)); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func ExportXLSX(tenantName string, rows []RegisterRow) ([]byte, error) {
	f := excelize.NewFile()

	sheetName := "Registro de actividades"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("create sheet: %w", err)
	}
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("create header style: %w", err)
	}

	for col, header := range registerHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("convert coordinates: %w", err)
		}
		if err := f.SetCellValue(sheetName, cell, header); err != nil {
			f.Close()
			return nil, fmt.Errorf("set header cell %s: %w", cell, err)
		}
		if err := f.SetCellStyle(sheetName, cell, cell, headerStyle); err != nil {
			f.Close()
			return nil, fmt.Errorf("set header style: %w", err)
		}
	}

	for i, r := range rows {
		for col, value := range registerCells(r) {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				f.Close()
				return nil, fmt.Errorf("convert coordinates: %w", err)
			}
			if err := f.SetCellValue(sheetName, cell, value); err != nil {
				f.Close()
				return nil, fmt.Errorf("set cell %s: %w", cell, err)
			}
		}
	}

	if err := f.SetColWidth(sheetName, "A", "N", 22); err != nil {
		f.Close()
		return nil, fmt.Errorf("set column width: %w", err)
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		f.Close()
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func ExportPDF(tenantName string, rows []RegisterRow) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 14)
	pdf.Cell(0, 10, fmt.Sprintf("Registro de actividades de tratamiento - %s", tenantName))
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "B", 9)
	widths := []float64{50, 35, 60, 30, 35, 25, 22, 20}
	headers := []string{"Actividad", "Área", "Finalidades", "Base de licitud", "Transferencias", "Conservación", "Estado", "Riesgo"}
	for i, h := range headers {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 8)
	for _, r := range rows {
		cells := []string{
			r.Name,
			r.ResponsibleArea,
			strings.Join(r.Purposes, "; "),
			r.LegalBasis,
			strings.Join(r.TransferCountries, "; "),
			r.RetentionPeriod,
			r.State,
			r.RiskLevel,
		}
		for i, c := range cells {
			pdf.CellFormat(widths[i], 6, truncate(c, 40), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}

package infra

// pdf.go — cierre-de-lote report generation using go-pdf/fpdf.
// A5 summary sheet with the caja, the operator, and the resumen: total
// ingresos/egresos across every account type, and the cash-only saldo final.
// Output file: storagePath/cierre_{lote_id}.pdf

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
)

// ReporteCierre is the read-only snapshot rendered into the PDF.
type ReporteCierre struct {
	LoteID        string
	Caja          string
	Usuario       string
	CerradoEn     string
	SaldoInicial  decimal.Decimal
	TotalIngresos decimal.Decimal
	TotalEgresos  decimal.Decimal
	SaldoFinal    decimal.Decimal
}

// GenerarReporteCierre writes the PDF and returns its absolute path.
func GenerarReporteCierre(r ReporteCierre, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}

	filePath := filepath.Join(storagePath, fmt.Sprintf("cierre_%s.pdf", r.LoteID))

	pdf := fpdf.New("P", "mm", "A5", "")
	pdf.SetMargins(12, 12, 12)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 24

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(contentW, 8, "GesCoop", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(contentW, 6, "Cierre de lote de caja", "", 1, "C", false, 0, "")
	pdf.Ln(3)

	// ── Datos del lote ───────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(contentW, 5, fmt.Sprintf("Caja: %s", r.Caja), "", 1, "L", false, 0, "")
	pdf.CellFormat(contentW, 5, fmt.Sprintf("Operador: %s", r.Usuario), "", 1, "L", false, 0, "")
	pdf.CellFormat(contentW, 5, fmt.Sprintf("Cerrado: %s", r.CerradoEn), "", 1, "L", false, 0, "")
	pdf.CellFormat(contentW, 5, fmt.Sprintf("Lote: %s", r.LoteID), "", 1, "L", false, 0, "")
	pdf.Ln(3)

	pdf.Line(12, pdf.GetY(), pageW-12, pdf.GetY())
	pdf.Ln(3)

	// ── Resumen ──────────────────────────────────────────────────────────────
	colL := contentW * 0.6
	colR := contentW * 0.4

	rows := []struct {
		label string
		value decimal.Decimal
	}{
		{"Saldo inicial", r.SaldoInicial},
		{"Total ingresos (todas las cuentas)", r.TotalIngresos},
		{"Total egresos (todas las cuentas)", r.TotalEgresos},
	}
	pdf.SetFont("Helvetica", "", 9)
	for _, row := range rows {
		pdf.CellFormat(colL, 6, row.label, "", 0, "L", false, 0, "")
		pdf.CellFormat(colR, 6, "$ "+row.value.StringFixed(2), "", 1, "R", false, 0, "")
	}

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(colL, 8, "Saldo final (efectivo)", "T", 0, "L", false, 0, "")
	pdf.CellFormat(colR, 8, "$ "+r.SaldoFinal.StringFixed(2), "T", 1, "R", false, 0, "")

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write %s: %w", filePath, err)
	}
	return filePath, nil
}

package worker

// reporte_worker.go
// Renders the PDF resumen of a closed lote and mails it to treasury.
// Consumes read-only snapshots; never touches ledger state.

import (
	"context"
	"encoding/json"
	"fmt"

	"gescoop/internal/infra"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// ReporteJobPayload is the snapshot of a cierre taken at close time.
type ReporteJobPayload struct {
	LoteID        uuid.UUID       `json:"lote_id"`
	Caja          string          `json:"caja"`
	Usuario       string          `json:"usuario"`
	CerradoEn     string          `json:"cerrado_en"`
	SaldoInicial  decimal.Decimal `json:"saldo_inicial"`
	TotalIngresos decimal.Decimal `json:"total_ingresos"`
	TotalEgresos  decimal.Decimal `json:"total_egresos"`
	SaldoFinal    decimal.Decimal `json:"saldo_final"`
	ToEmail       string          `json:"to_email"`
}

type ReporteWorker struct {
	mailer      *infra.Mailer
	storagePath string
}

func NewReporteWorker(mailer *infra.Mailer, storagePath string) *ReporteWorker {
	return &ReporteWorker{mailer: mailer, storagePath: storagePath}
}

func (w *ReporteWorker) Process(_ context.Context, raw json.RawMessage) {
	var payload ReporteJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("reporte_worker: invalid payload")
		return
	}
	if payload.ToEmail == "" {
		log.Warn().Msg("reporte_worker: empty to_email — skipping")
		return
	}

	pdfPath, err := infra.GenerarReporteCierre(infra.ReporteCierre{
		LoteID:        payload.LoteID.String(),
		Caja:          payload.Caja,
		Usuario:       payload.Usuario,
		CerradoEn:     payload.CerradoEn,
		SaldoInicial:  payload.SaldoInicial,
		TotalIngresos: payload.TotalIngresos,
		TotalEgresos:  payload.TotalEgresos,
		SaldoFinal:    payload.SaldoFinal,
	}, w.storagePath)
	if err != nil {
		log.Error().Err(err).Str("lote_id", payload.LoteID.String()).Msg("reporte_worker: PDF generation failed")
		return
	}

	subject := fmt.Sprintf("Cierre de lote — %s (%s)", payload.Caja, payload.CerradoEn)
	body := fmt.Sprintf(
		"Se cerró el lote de %s en %s.\nSaldo inicial: %s\nIngresos: %s\nEgresos: %s\nSaldo final (efectivo): %s\n",
		payload.Usuario, payload.Caja,
		payload.SaldoInicial, payload.TotalIngresos, payload.TotalEgresos, payload.SaldoFinal)

	if err := w.mailer.EnviarReporte(payload.ToEmail, subject, body, pdfPath); err != nil {
		log.Error().Err(err).Str("to", payload.ToEmail).Msg("reporte_worker: failed to send email")
		return
	}
	log.Info().Str("to", payload.ToEmail).Str("lote_id", payload.LoteID.String()).Msg("reporte_worker: reporte enviado")
}

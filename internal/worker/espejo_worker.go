package worker

// espejo_worker.go
// Reconciles failed ledger-mirror writes. When the primary MovimientoCaja
// insert succeeds but the DetalleLote mirror fails, the write-path enqueues
// the detalle here instead of losing it. Jobs retry up to maxEspejoAttempts;
// a lote that closed before reconciliation goes straight to the DLQ, since
// detalles must never be added to a closed lote.

import (
	"context"
	"encoding/json"

	"gescoop/internal/model"
	"gescoop/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

const maxEspejoAttempts = 3

// EspejoJobPayload carries one pending DetalleLote mirror write.
type EspejoJobPayload struct {
	LoteID   uuid.UUID       `json:"lote_id"`
	CuentaID uuid.UUID       `json:"cuenta_id"`
	Tipo     string          `json:"tipo"` // ingreso | egreso
	Monto    decimal.Decimal `json:"monto"`
	Concepto string          `json:"concepto"`
	Attempts int             `json:"attempts"`
}

type EspejoWorker struct {
	lotes      repository.LoteRepository
	dispatcher *Dispatcher
	rdb        *redis.Client
}

func NewEspejoWorker(lotes repository.LoteRepository, dispatcher *Dispatcher, rdb *redis.Client) *EspejoWorker {
	return &EspejoWorker{lotes: lotes, dispatcher: dispatcher, rdb: rdb}
}

func (w *EspejoWorker) Process(ctx context.Context, raw json.RawMessage) {
	var payload EspejoJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("espejo_worker: invalid payload")
		return
	}

	lote, err := w.lotes.FindByID(ctx, payload.LoteID)
	if err != nil {
		w.retryOrDrop(ctx, raw, payload, "lote no disponible: "+err.Error())
		return
	}
	if !lote.Abierto {
		SendToDLQ(ctx, w.rdb, QueueEspejo, "espejo", raw,
			"lote cerrado antes de reconciliar el espejo", payload.Attempts)
		return
	}

	detalle := &model.DetalleLote{
		LoteID:   payload.LoteID,
		CuentaID: payload.CuentaID,
		Tipo:     payload.Tipo,
		Monto:    payload.Monto,
		Concepto: payload.Concepto,
	}
	if err := w.lotes.CreateDetalle(ctx, detalle); err != nil {
		w.retryOrDrop(ctx, raw, payload, "insert detalle: "+err.Error())
		return
	}

	log.Info().
		Str("lote_id", payload.LoteID.String()).
		Str("monto", payload.Monto.String()).
		Int("attempts", payload.Attempts).
		Msg("espejo_worker: detalle reconciliado")
}

func (w *EspejoWorker) retryOrDrop(ctx context.Context, raw json.RawMessage, payload EspejoJobPayload, reason string) {
	payload.Attempts++
	if payload.Attempts >= maxEspejoAttempts {
		SendToDLQ(ctx, w.rdb, QueueEspejo, "espejo", raw, reason, payload.Attempts)
		return
	}
	if err := w.dispatcher.EnqueueEspejo(ctx, payload); err != nil {
		log.Error().Err(err).Msg("espejo_worker: re-enqueue failed")
		SendToDLQ(ctx, w.rdb, QueueEspejo, "espejo", raw, "re-enqueue: "+err.Error(), payload.Attempts)
		return
	}
	log.Warn().
		Str("lote_id", payload.LoteID.String()).
		Int("attempts", payload.Attempts).
		Str("reason", reason).
		Msg("espejo_worker: retry scheduled")
}

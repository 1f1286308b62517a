package worker

// vencidas_cron.go
// Background goroutine that periodically sweeps Pendiente cargos whose due
// date has passed to Vencida. The sweep is idempotent, so overlapping runs
// (or the manual /cuotas/actualizar-vencidas endpoint) are harmless.

import (
	"context"
	"time"

	"gescoop/internal/repository"

	"github.com/rs/zerolog/log"
)

const vencidasTickInterval = time.Hour

// StartVencidasCron launches the overdue sweep goroutine. It respects the
// context for graceful shutdown.
func StartVencidasCron(ctx context.Context, movimientos repository.MovimientoSocioRepository) {
	go func() {
		ticker := time.NewTicker(vencidasTickInterval)
		defer ticker.Stop()

		log.Info().Msg("vencidas_cron: started")

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("vencidas_cron: shutting down")
				return
			case <-ticker.C:
				// Fecha calendario local a medianoche UTC, el marco de
				// los vencimientos parseados de AAAA-MM-DD.
				y, m, d := time.Now().Date()
				hoy := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
				updated, err := movimientos.MarcarVencidas(ctx, hoy)
				if err != nil {
					log.Error().Err(err).Msg("vencidas_cron: sweep failed")
					continue
				}
				if updated > 0 {
					log.Info().Int64("updated", updated).Msg("vencidas_cron: cargos marcados como vencidos")
				}
			}
		}
	}()
}

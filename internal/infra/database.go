package infra

import (
	"fmt"

	"gescoop/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx, runs AutoMigrate
// to create / update all tables, then applies the idempotent SQL patches
// GORM cannot express (partial unique indexes).
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := RunMigrations(db); err != nil {
		return nil, err
	}

	return db, nil
}

// RunMigrations applies the schema. NewDatabase runs it on every startup;
// AutoMigrate and the patches are idempotent.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.Usuario{},
		&model.Socio{},
		&model.Caja{},
		&model.Cuenta{},
		&model.Concepto{},
		&model.Cargo{},
		&model.Lote{},
		&model.DetalleLote{},
		&model.MovimientoCaja{},
		&model.MovimientoSocio{},
		&model.Pago{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	return applySchemaPatches(db)
}

// applySchemaPatches runs idempotent DDL that AutoMigrate cannot produce.
// The partial unique index is what actually holds the one-open-lote-per-
// (usuario, caja) invariant under concurrent open attempts; the service's
// pre-insert check only exists to return a friendly error.
func applySchemaPatches(db *gorm.DB) error {
	patches := []string{
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'uni_lotes_abiertos_usuario_caja') THEN
		    CREATE UNIQUE INDEX uni_lotes_abiertos_usuario_caja
		        ON lotes (usuario_id, caja_id)
		        WHERE abierto;
		  END IF;
		END $$`,
		// ledger-order index backing the per-member running balance recompute
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_movimientos_socios_orden') THEN
		    CREATE INDEX idx_movimientos_socios_orden
		        ON movimiento_socios (socio_id, fecha, created_at);
		  END IF;
		END $$`,
		// partial index for the overdue sweep
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_movimientos_socios_pendientes') THEN
		    CREATE INDEX idx_movimientos_socios_pendientes
		        ON movimiento_socios (fecha_vencimiento)
		        WHERE tipo = 'Cargo' AND estado = 'Pendiente' AND fecha_vencimiento IS NOT NULL;
		  END IF;
		END $$`,
	}

	for _, sql := range patches {
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", sql[:min(len(sql), 60)], err)
		}
	}
	return nil
}

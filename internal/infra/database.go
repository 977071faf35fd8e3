package infra

import (
	"fmt"

	"github.com/VinicioZZs/RestaurenteOS-sub001/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection. TranslateError maps the
// driver's unique-violation into gorm.ErrDuplicatedKey, which the caixa
// open path relies on. Callers run RunMigrations separately.
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
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

	return db, nil
}

// RunMigrations creates/updates all tables and applies the schema patches.
// Also used by integration tests against a disposable database.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.Usuario{},
		&model.Categoria{},
		&model.Produto{},
		&model.FormaPagamento{},
		&model.Comanda{},
		&model.ItemComanda{},
		&model.SessaoCaixa{},
		&model.MovimentoCaixa{},
		&model.MovimentoItem{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	return applySchemaPatches(db)
}

// applySchemaPatches runs idempotent DDL that GORM AutoMigrate cannot fully
// handle. The two partial unique indexes carry the central invariants:
// at most one sessão de caixa "aberta" system-wide, and at most one comanda
// "aberta" per chave_mesa. Concurrent opens race on these indexes instead of
// on application-level checks.
func applySchemaPatches(db *gorm.DB) error {
	patches := []string{
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'uni_sessao_caixa_aberta') THEN
		    CREATE UNIQUE INDEX uni_sessao_caixa_aberta
		        ON sessoes_caixa ((estado))
		        WHERE estado = 'aberta';
		  END IF;
		END $$`,
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'uni_comanda_aberta_por_mesa') THEN
		    CREATE UNIQUE INDEX uni_comanda_aberta_por_mesa
		        ON comandas (chave_mesa)
		        WHERE estado = 'aberta';
		  END IF;
		END $$`,
	}

	for _, sql := range patches {
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("schema patch: %w", err)
		}
	}
	return nil
}

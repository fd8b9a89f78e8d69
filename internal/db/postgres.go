package db

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/flowlog/flowlog-backend/internal/app"
	"github.com/flowlog/flowlog-backend/internal/logger"
	"github.com/flowlog/flowlog-backend/internal/types"
)

type PostgresService struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPostgresService(cfg app.Config, log *logger.Logger) (*PostgresService, error) {
	serviceLog := log.With("service", "PostgresService")

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		cfg.PostgresUser, cfg.PostgresPassword, cfg.PostgresHost, cfg.PostgresPort, cfg.PostgresName)

	log.Info("Connecting to Postgres...")
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError:                           true,
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		log.Error("Failed to connect to Postgres", "error", err)
		return nil, fmt.Errorf("Failed to connect to Postgres: %w", err)
	}

	return &PostgresService{db: db, log: serviceLog}, nil
}

func (s *PostgresService) AutoMigrateAll() error {
	s.log.Info("Auto migrating postgres tables...")
	err := s.db.AutoMigrate(
		&types.Project{},
		&types.Journal{},
		&types.Note{},
		&types.Tag{},
		&types.AIJob{},
	)
	if err != nil {
		s.log.Error("Auto migration failed for postgres tables", "error", err)
		return err
	}

	// Referential-integrity checks live in the services so behavior is the
	// same on every store; the database constraints are a backstop.
	s.log.Info("Configuring foreign key relationships for postgres tables...")
	constraints := []struct {
		table  string
		name   string
		column string
		refs   string
	}{
		{table: "journals", name: "fk_journals_project_id", column: "project_id", refs: "projects"},
		{table: "notes", name: "fk_notes_journal_id", column: "journal_id", refs: "journals"},
		{table: "ai_jobs", name: "fk_ai_jobs_journal_id", column: "journal_id", refs: "journals"},
		{table: "note_tags", name: "fk_note_tags_note_id", column: "note_id", refs: "notes"},
		{table: "note_tags", name: "fk_note_tags_tag_id", column: "tag_id", refs: "tags"},
	}
	for _, fk := range constraints {
		drop := fmt.Sprintf(`ALTER TABLE %q DROP CONSTRAINT IF EXISTS %q`, fk.table, fk.name)
		if err := s.db.Exec(drop).Error; err != nil {
			return fmt.Errorf("Failed to drop %s: %w", fk.name, err)
		}
		add := fmt.Sprintf(`ALTER TABLE %q ADD CONSTRAINT %q FOREIGN KEY (%q) REFERENCES %q("id") ON DELETE CASCADE`,
			fk.table, fk.name, fk.column, fk.refs)
		if err := s.db.Exec(add).Error; err != nil {
			return fmt.Errorf("Failed to add %s: %w", fk.name, err)
		}
	}
	return nil
}

func (s *PostgresService) DB() *gorm.DB {
	return s.db
}

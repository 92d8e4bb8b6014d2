package sql

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pressly/goose/v3"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	_ "github.com/ncruces/go-sqlite3/embed"
	"github.com/ncruces/go-sqlite3/gormlite"

	"github.com/datashelf/datashelf/pkg/config"
	"github.com/datashelf/datashelf/pkg/contract"
	"github.com/datashelf/datashelf/pkg/pgerror"
	"github.com/datashelf/datashelf/pkg/store/sql/migrations"
	"github.com/datashelf/datashelf/pkg/store/sql/model"
)

type Store struct {
	config *config.Config
	db     *gorm.DB
}

const slowQueryThreshold = time.Second

// NewStore opens the database named by config.StoreURL (postgres:// or
// sqlite://) and brings the schema up to date. Postgres runs the embedded
// goose migrations; the sqlite dev backend auto-migrates instead and has
// no derived search vector.
func NewStore(ctx context.Context, cfg *config.Config, log *logrus.Logger) (*Store, error) {
	dialector, err := dialectorFor(cfg.StoreURL)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: newStoreLogger(log, slowQueryThreshold),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database %q: %w", cfg.StoreURL, err)
	}

	store := &Store{config: cfg, db: db}
	if err := store.migrate(ctx); err != nil {
		return nil, err
	}

	return store, nil
}

func dialectorFor(storeURL string) (gorm.Dialector, error) {
	switch {
	case strings.HasPrefix(storeURL, "postgres://"), strings.HasPrefix(storeURL, "postgresql://"):
		return postgres.Open(storeURL), nil
	case strings.HasPrefix(storeURL, "sqlite://"):
		return gormlite.Open(strings.TrimPrefix(storeURL, "sqlite://")), nil
	default:
		return nil, fmt.Errorf("unsupported store URL %q, expected postgres:// or sqlite://", storeURL)
	}
}

func (s Store) migrate(ctx context.Context) error {
	if s.db.Dialector.Name() == "sqlite" {
		if err := s.db.WithContext(ctx).AutoMigrate(&model.Dataset{}, &model.APIKey{}); err != nil {
			return fmt.Errorf("failed to migrate sqlite schema: %w", err)
		}

		return nil
	}

	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database handle: %w", err)
	}

	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	if err := goose.UpContext(ctx, sqlDB, "."); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

func (s Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database handle: %w", err)
	}

	return sqlDB.Close()
}

// storageError turns a storage failure into a contract error whose code
// follows the violation category and whose message carries only the
// classified summary, never driver diagnostics.
func storageError(message string, err error) *contract.Error {
	violation := pgerror.Classify(err)

	code := contract.ErrorCodeInternalError
	switch violation.(type) {
	case pgerror.UniqueViolation:
		code = contract.ErrorCodeResourceAlreadyExists
	case pgerror.NotNullViolation, pgerror.CheckViolation:
		code = contract.ErrorCodeInvalidParameterValue
	}

	return contract.NewErrorWith(code, message+": "+violation.UserMessage(), err)
}

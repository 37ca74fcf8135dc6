package dispatchservice

import (
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"delivery-dispatch/internal/general/config"
	"delivery-dispatch/internal/general/postgres"
)

// Migrate applies (or with down, rolls back) all database migrations.
func Migrate(configPath string, down bool) error {
	cfg, err := config.LoadFromFile(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	m, err := migrate.New("file://"+cfg.Migrations.Path, postgres.DSN(cfg))
	if err != nil {
		return fmt.Errorf("open migrations: %w", err)
	}
	defer m.Close()

	if down {
		err = m.Down()
	} else {
		err = m.Up()
	}
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("run migrations: %w", err)
	}

	version, dirty, verr := m.Version()
	if verr != nil && !errors.Is(verr, migrate.ErrNilVersion) {
		return nil
	}
	fmt.Printf("migrations done: version=%d dirty=%v\n", version, dirty)
	return nil
}

// Package migrate applies the embedded schema migrations with golang-migrate.
package migrate

import (
	"errors"
	"fmt"

	"file-service/internal/db"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

var ErrNoChange = migrate.ErrNoChange

// Run : применяет миграции для драйвера (postgres или mysql) в направлении up или down.
// Уже актуальная схема не считается ошибкой.
func Run(driver, migrationURL, direction string) error {
	if migrationURL == "" {
		return errors.New("[migrate] не задан databaseConfig.migration_url")
	}
	if driver != "postgres" && driver != "mysql" {
		return fmt.Errorf("[migrate] неподдерживаемый драйвер %q", driver)
	}
	if direction != "up" && direction != "down" {
		return fmt.Errorf("[migrate] направление должно быть up или down, получено %q", direction)
	}

	sourceDriver, err := iofs.New(db.MigrationFS, "migrations/"+driver)
	if err != nil {
		return fmt.Errorf("[migrate] ошибка чтения миграций: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", sourceDriver, migrationURL)
	if err != nil {
		return fmt.Errorf("[migrate] ошибка подключения к БД: %w", err)
	}
	defer func() { _, _ = m.Close() }()

	if direction == "up" {
		err = m.Up()
	} else {
		err = m.Down()
	}
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("[migrate] ошибка применения миграций: %w", err)
	}
	return nil
}

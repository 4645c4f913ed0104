package database

import (
	"embed"
	"fmt"
	"net/url"

	"github.com/amacneil/dbmate/v2/pkg/dbmate"
	_ "github.com/amacneil/dbmate/v2/pkg/driver/postgres"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Migrate applies every pending migration embedded in the binary.
func Migrate(connString string) error {
	u, err := url.Parse(connString)
	if err != nil {
		return fmt.Errorf("parse database url: %w", err)
	}

	db := dbmate.New(u)
	db.FS = migrationsFS
	db.MigrationsDir = []string{"migrations"}
	db.AutoDumpSchema = false
	db.Verbose = false

	if err := db.Migrate(); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

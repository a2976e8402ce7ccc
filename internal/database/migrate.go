package database

import (
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strconv"
	"strings"

	"github.com/GuiaBolso/darwin"

	"github.com/iliyamo/workforce-portal/internal/config"
)

// Each dialect has its own copy of the schema.  Files are named
// NNN_description.sql and hold exactly one statement, because the MySQL
// driver rejects multi-statement Exec calls.
//
//go:embed migrations/mysql/*.sql migrations/sqlite/*.sql
var migrationFiles embed.FS

// Migrate applies every pending migration for the given driver.
func Migrate(db *sql.DB, driver string) error {
	var (
		dialect darwin.Dialect
		dir     string
	)
	switch driver {
	case config.DriverMySQL:
		dialect, dir = darwin.MySQLDialect{}, "migrations/mysql"
	case config.DriverSQLite:
		dialect, dir = darwin.SqliteDialect{}, "migrations/sqlite"
	default:
		return fmt.Errorf("migrate: unsupported driver %q", driver)
	}

	migrations, err := loadMigrations(migrationFiles, dir)
	if err != nil {
		return err
	}
	d := darwin.New(darwin.NewGenericDriver(db, dialect), migrations, nil)
	if err := d.Migrate(); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

func loadMigrations(fsys fs.FS, dir string) ([]darwin.Migration, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("read migrations: %w", err)
	}
	out := make([]darwin.Migration, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".sql") {
			continue
		}
		name := strings.TrimSuffix(e.Name(), ".sql")
		num, desc, ok := strings.Cut(name, "_")
		if !ok {
			return nil, fmt.Errorf("migration %s: expected NNN_description.sql", e.Name())
		}
		version, err := strconv.ParseFloat(num, 64)
		if err != nil {
			return nil, fmt.Errorf("migration %s: bad version: %w", e.Name(), err)
		}
		script, err := fs.ReadFile(fsys, path.Join(dir, e.Name()))
		if err != nil {
			return nil, err
		}
		out = append(out, darwin.Migration{
			Version:     version,
			Description: strings.ReplaceAll(desc, "_", " "),
			Script:      string(script),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Version < out[j].Version })
	return out, nil
}

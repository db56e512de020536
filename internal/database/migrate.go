package database

import (
	"embed"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"

	"plusnine/internal/middleware"
)

// Migration is one versioned schema change with its rollback script.
type Migration struct {
	Version    int
	Name       string
	UpScript   string
	DownScript string
}

func (m *Migration) String() string {
	return fmt.Sprintf("%06d_%s", m.Version, m.Name)
}

//go:embed migrations/*.sql
var migrationFS embed.FS

var migrations []Migration

func init() {
	if err := RegisterMigrations(migrationFS); err != nil {
		fmt.Printf("failed to register internal migrations: %v\n", err)
	}
}

// RegisterMigrations loads every NNNNNN_name.up.sql / .down.sql pair from
// the given filesystem into the registry, sorted by version. A missing down
// script is an error; every migration must be reversible.
func RegisterMigrations(efs embed.FS) error {
	entries, err := efs.ReadDir("migrations")
	if err != nil {
		return fmt.Errorf("failed to read migrations directory: %w", err)
	}

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".up.sql") {
			continue
		}

		m, err := loadMigrationPair(efs, strings.TrimSuffix(name, ".up.sql"))
		if err != nil {
			return err
		}
		if m == nil {
			middleware.Logger.Warn("Skipping migration with invalid naming", slog.String("file", name))
			continue
		}
		migrations = append(migrations, *m)
	}

	sort.Slice(migrations, func(i, j int) bool {
		return migrations[i].Version < migrations[j].Version
	})
	return nil
}

// loadMigrationPair reads base.up.sql and base.down.sql. It returns nil
// (no error) when base does not follow the NNNNNN_name convention.
func loadMigrationPair(efs embed.FS, base string) (*Migration, error) {
	versionStr, name, ok := strings.Cut(base, "_")
	if !ok {
		return nil, nil
	}
	version, err := strconv.Atoi(versionStr)
	if err != nil {
		return nil, nil
	}

	up, err := efs.ReadFile("migrations/" + base + ".up.sql")
	if err != nil {
		return nil, fmt.Errorf("failed to read up migration %s: %w", base, err)
	}
	down, err := efs.ReadFile("migrations/" + base + ".down.sql")
	if err != nil {
		return nil, fmt.Errorf("failed to read down migration %s: %w", base, err)
	}

	return &Migration{
		Version:    version,
		Name:       name,
		UpScript:   string(up),
		DownScript: string(down),
	}, nil
}

// GetMigrations returns all registered migrations in version order.
func GetMigrations() []Migration {
	return migrations
}

// GetMigrationByVersion returns the registered migration with the given
// version, or nil.
func GetMigrationByVersion(version int) *Migration {
	for i := range migrations {
		if migrations[i].Version == version {
			return &migrations[i]
		}
	}
	return nil
}

package migration

import (
	"context"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/muhammadchandra19/kairon/pkg/logger"
	"github.com/muhammadchandra19/kairon/pkg/questdb"
)

const (
	createMigrationTableQuery = `CREATE TABLE IF NOT EXISTS schema_migrations (
			id STRING,
			name STRING,
			applied_at TIMESTAMP
		) TIMESTAMP(applied_at) PARTITION BY DAY`

	appliedMigrationsQuery = "SELECT id FROM schema_migrations ORDER BY applied_at"

	recordMigrationQuery = "INSERT INTO schema_migrations VALUES ($1, $2, now())"

	upSuffix = ".up.sql"
)

// Migration represents a database migration
type Migration struct {
	ID        string
	Name      string
	Timestamp time.Time
	UpSQL     string
}

// Runner applies the *.up.sql files of a file system to QuestDB in name
// order, recording each in schema_migrations.
type Runner struct {
	client questdb.QuestDBClient
	source fs.FS
	logger *logger.Logger
}

// NewRunner creates a new migration runner. source is usually an embed.FS.
func NewRunner(client questdb.QuestDBClient, source fs.FS, log *logger.Logger) *Runner {
	return &Runner{
		client: client,
		source: source,
		logger: log,
	}
}

// EnsureMigrationTable creates the schema_migrations table if it doesn't exist
func (r *Runner) EnsureMigrationTable(ctx context.Context) error {
	return r.client.Exec(ctx, createMigrationTableQuery)
}

// GetAppliedMigrations returns a map of applied migration IDs
func (r *Runner) GetAppliedMigrations(ctx context.Context) (map[string]bool, error) {
	applied := make(map[string]bool)

	rows, err := r.client.Query(ctx, appliedMigrationsQuery)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		applied[id] = true
	}

	return applied, rows.Err()
}

// LoadMigrations loads all migration files from the source, sorted by name.
func (r *Runner) LoadMigrations() ([]Migration, error) {
	upFiles, err := fs.Glob(r.source, "*"+upSuffix)
	if err != nil {
		return nil, err
	}
	sort.Strings(upFiles)

	migrations := make([]Migration, 0, len(upFiles))
	for _, upFile := range upFiles {
		m, err := r.parseMigrationFile(upFile)
		if err != nil {
			return nil, fmt.Errorf("failed to parse migration %s: %w", upFile, err)
		}
		migrations = append(migrations, m)
	}

	return migrations, nil
}

// parseMigrationFile reads a file named YYYYMMDDHHMMSS_name.up.sql.
func (r *Runner) parseMigrationFile(upFile string) (Migration, error) {
	content, err := fs.ReadFile(r.source, upFile)
	if err != nil {
		return Migration{}, err
	}

	id := strings.TrimSuffix(path.Base(upFile), upSuffix)
	name := id
	timestampStr, rest, found := strings.Cut(id, "_")
	if found {
		name = rest
	}

	timestamp, err := time.Parse("20060102150405", timestampStr)
	if err != nil {
		// files like "001_initial"
		timestamp = time.Unix(0, 0)
	}

	return Migration{
		ID:        id,
		Name:      name,
		Timestamp: timestamp,
		UpSQL:     strings.TrimSpace(string(content)),
	}, nil
}

// MigrateUp applies pending migrations, at most steps of them when steps > 0.
// It returns the ids it applied.
func (r *Runner) MigrateUp(ctx context.Context, steps int) ([]string, error) {
	if err := r.EnsureMigrationTable(ctx); err != nil {
		return nil, err
	}

	migrations, err := r.LoadMigrations()
	if err != nil {
		return nil, err
	}

	applied, err := r.GetAppliedMigrations(ctx)
	if err != nil {
		return nil, err
	}

	var toApply []Migration
	for _, m := range migrations {
		if !applied[m.ID] {
			toApply = append(toApply, m)
		}
	}

	if steps > 0 && len(toApply) > steps {
		toApply = toApply[:steps]
	}

	done := make([]string, 0, len(toApply))
	for _, m := range toApply {
		if m.UpSQL == "" {
			r.logger.Warn("Skipping empty migration", logger.NewField("migration", m.ID))
			continue
		}

		if err := r.client.Exec(ctx, m.UpSQL); err != nil {
			return done, fmt.Errorf("failed to apply migration %s: %w", m.ID, err)
		}

		if err := r.client.Exec(ctx, recordMigrationQuery, m.ID, m.Name); err != nil {
			return done, fmt.Errorf("failed to record migration %s: %w", m.ID, err)
		}

		r.logger.Info("Applied migration", logger.NewField("migration", m.ID))
		done = append(done, m.ID)
	}

	return done, nil
}

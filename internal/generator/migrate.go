package generator

import (
	"context"
	"io/fs"

	"github.com/shopseed/shopseed/internal/migration"
)

const migrateJobName = "migrate"

// MigrateJob applies the embedded schema migrations. Usually configured as
// the first job in the sequence.
type MigrateJob struct {
	migrator     migration.Migrator
	migrationsFS fs.FS
	path         string
}

// NewMigrateJob creates the migration job over the embedded migration files.
func NewMigrateJob(migrator migration.Migrator, migrationsFS fs.FS, path string) *MigrateJob {
	return &MigrateJob{migrator: migrator, migrationsFS: migrationsFS, path: path}
}

// Name implements Job.
func (j *MigrateJob) Name() string { return migrateJobName }

// Run implements Job.
func (j *MigrateJob) Run(ctx context.Context) error {
	return j.migrator.Up(ctx, j.migrationsFS, j.path)
}

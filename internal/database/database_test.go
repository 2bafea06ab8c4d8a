package database

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/webmaster254/alx-project-nexus-sub000/internal/config"
	"github.com/webmaster254/alx-project-nexus-sub000/internal/model"
	"github.com/webmaster254/alx-project-nexus-sub000/internal/utilities"
)

func TestNewTestDB_Seeded(t *testing.T) {
	db, err := NewTestDB()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	var jobs int64
	require.NoError(t, db.Model(&model.Job{}).Count(&jobs).Error)
	assert.Equal(t, int64(4), jobs)

	var job model.Job
	require.NoError(t, db.Preload("Categories").First(&job, SeedGoJob.ID).Error)
	assert.Equal(t, "Senior Go Engineer", job.Title)
	assert.Equal(t, []string{"go", "postgres"}, []string(job.RequiredSkills))
	require.Len(t, job.Categories, 1)
	assert.Equal(t, "engineering", job.Categories[0].Slug)

	var user model.User
	require.NoError(t, db.Preload("Profile").Where("email = ?", "jane@example.com").First(&user).Error)
	assert.Equal(t, SeedSeeker.ID, user.ID)
	assert.Equal(t, "+254 700 000001", user.Profile.Phone)
	assert.True(t, utilities.VerifyPassword(SeedPassword, user.Password))
}

func TestSeed_Idempotent(t *testing.T) {
	db, err := NewTestDB()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()
	seeker := SeedSeeker.ID

	require.NoError(t, Seed(db))

	var users int64
	require.NoError(t, db.Model(&model.User{}).Count(&users).Error)
	assert.Equal(t, int64(3), users)
	assert.Equal(t, seeker, SeedSeeker.ID)
}

func TestEnsureAdmin(t *testing.T) {
	db, err := NewTestDB()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	require.NoError(t, db.EnsureAdmin("", ""))
	require.NoError(t, db.EnsureAdmin("Root@Example.com", "secret-pass"))
	require.NoError(t, db.EnsureAdmin("root@example.com", "secret-pass"))

	var admins []model.User
	require.NoError(t, db.Where("email = ?", "root@example.com").Find(&admins).Error)
	require.Len(t, admins, 1)
	assert.True(t, admins[0].IsStaff)
}

func TestDeactivateExpiredJobs(t *testing.T) {
	db, err := NewTestDB()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	n, err := db.DeactivateExpiredJobs(time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	var closed model.Job
	require.NoError(t, db.First(&closed, SeedClosedJob.ID).Error)
	assert.False(t, closed.IsActive)

	n, err = db.DeactivateExpiredJobs(time.Now())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestHealth(t *testing.T) {
	db, err := NewTestDB()
	require.NoError(t, err)

	stats := db.Health()
	assert.Equal(t, "up", stats["status"])
	assert.Equal(t, "It's healthy", stats["message"])
	assert.Equal(t, "sqlite", stats["driver"])
	_, hasError := stats["error"]
	assert.False(t, hasError)

	require.NoError(t, db.Close())
	assert.Equal(t, "down", db.Health()["status"])
}

func TestDBConfig(t *testing.T) {
	_, err := (&DBConfig{Driver: "mysql"}).dialector()
	assert.Error(t, err)

	_, err = (&DBConfig{Driver: DriverPostgres, Postgres: config.PostgresConfig{Host: "db"}}).postgresDsn()
	assert.Error(t, err)

	dsn, err := (&DBConfig{Postgres: config.PostgresConfig{UseConnStr: true, ConnStr: "postgres://x"}}).postgresDsn()
	require.NoError(t, err)
	assert.Equal(t, "postgres://x", dsn)

	cfg := ConfigFrom(config.ServerConfig{DBDriver: DriverSQLite, SQLitePath: "jobboard.db"})
	assert.Equal(t, "file:jobboard.db?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", cfg.SQLitePath)
}

func TestPostgresContainer(t *testing.T) {
	if os.Getenv("RUN_CONTAINER_TESTS") != "true" {
		t.Skip("set RUN_CONTAINER_TESTS=true to run against a postgres container")
	}
	ctx := context.Background()
	cfg, teardown, err := StartPostgresContainer(ctx)
	if teardown != nil {
		defer func() { _ = teardown(ctx) }()
	}
	require.NoError(t, err)

	db, err := NewDBInstance(cfg)
	require.NoError(t, err)
	defer func() { _ = db.Close() }()
	require.NoError(t, Seed(db))

	assert.Equal(t, "up", db.Health()["status"])
	n, err := db.DeactivateExpiredJobs(time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

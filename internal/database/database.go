// Package database implement connection to database service and initialize ORM.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	// Registers the pgx database/sql driver used by the postgres dialector
	_ "github.com/jackc/pgx/v5/stdlib"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	// Pure go sqlite driver registered as "sqlite"
	_ "modernc.org/sqlite"

	"github.com/webmaster254/alx-project-nexus-sub000/internal/config"
	"github.com/webmaster254/alx-project-nexus-sub000/internal/model"
	"github.com/webmaster254/alx-project-nexus-sub000/internal/utilities"
)

// Supported drivers
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// DBinstanceStruct is a struct that holds the GORM DB instance and related information.
type DBinstanceStruct struct {
	*gorm.DB
	Config *DBConfig
	// cached raw DB and mutex for lazy-init
	sqlDB *sql.DB
	mu    sync.RWMutex
}

// DBConfig holds the configuration parameters for connecting to a database.
type DBConfig struct {
	Driver     string
	SQLitePath string
	Postgres   config.PostgresConfig
}

func (d *DBConfig) dialector() (gorm.Dialector, error) {
	switch d.Driver {
	case DriverSQLite, "":
		if d.SQLitePath == "" {
			return nil, fmt.Errorf("SQLITE_PATH is empty")
		}
		return sqlite.New(sqlite.Config{DriverName: "sqlite", DSN: d.SQLitePath}), nil
	case DriverPostgres:
		dsn, err := d.postgresDsn()
		if err != nil {
			return nil, err
		}
		return postgres.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", d.Driver)
	}
}

func (d *DBConfig) postgresDsn() (string, error) {
	pg := d.Postgres
	if pg.UseConnStr {
		if pg.ConnStr == "" {
			return "", fmt.Errorf("DB_CONNECTION_STR is empty")
		}
		return pg.ConnStr, nil
	}
	if pg.Host == "" || pg.Port == "" || pg.User == "" || pg.Password == "" || pg.DBName == "" {
		return "", fmt.Errorf("database configuration is incomplete")
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", pg.User, pg.Password, pg.Host, pg.Port, pg.DBName), nil
}

// ConfigFrom builds the database part of cfg
func ConfigFrom(cfg config.ServerConfig) *DBConfig {
	return &DBConfig{
		Driver:     cfg.DBDriver,
		SQLitePath: sqliteDsn(cfg.SQLitePath),
		Postgres:   cfg.Postgres,
	}
}

// sqliteDsn turns a file path into a modernc dsn with foreign keys enabled
func sqliteDsn(path string) string {
	if path == ":memory:" {
		return "file::memory:?_pragma=foreign_keys(1)"
	}
	return "file:" + path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
}

// NewDBInstance creates a new DBinstanceStruct with the given configuration.
// It establishes a connection to the database and migrates every model.
func NewDBInstance(config *DBConfig) (*DBinstanceStruct, error) {
	dialector, err := config.dialector()
	if err != nil {
		return nil, err
	}

	gdb, err := gorm.Open(dialector, &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)})
	if err != nil {
		return nil, err
	}

	if gin.IsDebugging() {
		gdb = gdb.Debug()
	}

	newDb := &DBinstanceStruct{
		DB:     gdb,
		Config: config,
	}

	if config.Driver == DriverSQLite || config.Driver == "" {
		// sqlite serializes writers, one connection avoids "database is locked"
		raw, err := newDb.Raw()
		if err != nil {
			return nil, err
		}
		raw.SetMaxOpenConns(1)
	} else if err := newDb.installExtension(); err != nil {
		return nil, fmt.Errorf("failed to install extension: %w", err)
	}

	if err := newDb.Migrate(); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return newDb, nil
}

// GetMainDB opens the database described by cfg and creates the admin account when
// ADMIN_EMAIL and ADMIN_PASSWORD are set.
func GetMainDB(cfg config.ServerConfig) (*DBinstanceStruct, error) {
	db, err := NewDBInstance(ConfigFrom(cfg))
	if err != nil {
		return nil, err
	}
	if err := db.EnsureAdmin(cfg.AdminEmail, cfg.AdminPassword); err != nil {
		return nil, err
	}
	if cfg.Seed {
		if err := Seed(db); err != nil {
			return nil, fmt.Errorf("failed to seed database: %w", err)
		}
	}
	return db, nil
}

// Raw returns the underlying *sql.DB, caching it after the first successful retrieval.
// It is safe for concurrent use.
func (d *DBinstanceStruct) Raw() (*sql.DB, error) {
	if d == nil {
		return nil, fmt.Errorf("DBinstanceStruct is nil")
	}

	d.mu.RLock()
	if d.sqlDB != nil {
		raw := d.sqlDB
		d.mu.RUnlock()
		return raw, nil
	}
	d.mu.RUnlock()

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.sqlDB != nil {
		return d.sqlDB, nil
	}
	if d.DB == nil {
		return nil, fmt.Errorf("gorm DB is nil")
	}
	raw, err := d.DB.DB()
	if err != nil {
		return nil, err
	}
	d.sqlDB = raw
	return raw, nil
}

// EnsureAdmin creates a staff user with email and password unless one already exists.
// Empty credentials skip the creation.
func (d *DBinstanceStruct) EnsureAdmin(email, password string) error {
	if email == "" || password == "" {
		log.Println("Admin email or password not set, skipping admin creation")
		return nil
	}

	var count int64
	if err := d.Model(&model.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to look up admin: %w", err)
	}
	if count > 0 {
		return nil
	}
	_, err := utilities.CreateStaff(d.DB, email, password, "Admin", "")
	return err
}

// Migrate database
func (d *DBinstanceStruct) Migrate() error {
	return d.AutoMigrate(model.MigrateAble...)
}

// Health checks the health of the database connection by pinging the database.
// It returns a map with keys indicating various health statistics.
func (d *DBinstanceStruct) Health() map[string]string {
	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
	defer cancel()

	stats := make(map[string]string)

	oriDB, err := d.Raw()
	if err == nil {
		err = oriDB.PingContext(ctx)
	}
	if err != nil {
		stats["status"] = "down"
		stats["error"] = fmt.Sprintf("db down: %v", err)
		log.Printf("db down: %v", err)
		return stats
	}

	stats["status"] = "up"
	stats["message"] = "It's healthy"
	stats["driver"] = d.Dialector.Name()

	dbStats := oriDB.Stats()
	stats["open_connections"] = strconv.Itoa(dbStats.OpenConnections)
	stats["in_use"] = strconv.Itoa(dbStats.InUse)
	stats["idle"] = strconv.Itoa(dbStats.Idle)
	stats["wait_count"] = strconv.FormatInt(dbStats.WaitCount, 10)
	stats["wait_duration"] = dbStats.WaitDuration.String()

	if dbStats.OpenConnections > 40 {
		stats["message"] = "The database is experiencing heavy load."
	}

	if dbStats.WaitCount > 1000 {
		stats["message"] = "The database has a high number of wait events, indicating potential bottlenecks."
	}

	return stats
}

// Close closes the database connection.
func (d *DBinstanceStruct) Close() error {
	log.Printf("Disconnected from %s database", d.Dialector.Name())
	oriDB, err := d.Raw()
	if err != nil {
		return err
	}
	return oriDB.Close()
}

func (d *DBinstanceStruct) installExtension() error {
	err := d.WithContext(context.Background()).Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`).Error
	if err != nil {
		return err
	}
	log.Println("uuid-ossp extension installed or already exists")
	return nil
}

// DeactivateExpiredJobs turns off every active job whose application deadline is before now
func (d *DBinstanceStruct) DeactivateExpiredJobs(now time.Time) (int64, error) {
	result := d.Model(&model.Job{}).
		Where("is_active = ? AND application_deadline IS NOT NULL AND application_deadline < ?", true, now).
		Update("is_active", false)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to deactivate expired jobs: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// ClearJobLinks removes the join rows that reference jobIDs or their applications.
// Join tables carry no cascade so this must run before the jobs are deleted.
func ClearJobLinks(tx *gorm.DB, jobIDs []uint) error {
	if len(jobIDs) == 0 {
		return nil
	}
	if err := tx.Exec("DELETE FROM job_categories WHERE job_id IN ?", jobIDs).Error; err != nil {
		return fmt.Errorf("failed to clear job categories: %w", err)
	}
	err := tx.Exec("DELETE FROM application_documents WHERE application_id IN (SELECT id FROM applications WHERE job_id IN ?)", jobIDs).Error
	if err != nil {
		return fmt.Errorf("failed to clear application documents: %w", err)
	}
	return nil
}

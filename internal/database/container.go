package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/docker/go-connections/nat"
	// Registers the "postgres" database/sql driver used for the bootstrap connection
	_ "github.com/lib/pq"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/webmaster254/alx-project-nexus-sub000/internal/config"
)

// Teardown stops a test container
type Teardown func(context.Context, ...testcontainers.TerminateOption) error

// StartPostgresContainer runs a disposable postgres and returns a DBConfig pointing at it.
// Docker must be available.
func StartPostgresContainer(ctx context.Context) (*DBConfig, Teardown, error) {
	var (
		dbName = "database"
		dbPwd  = "password"
		dbUser = "user"
	)

	dbContainer, err := postgres.Run(
		ctx,
		"postgres:16-alpine",
		postgres.WithDatabase(dbName),
		postgres.WithUsername(dbUser),
		postgres.WithPassword(dbPwd),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		return nil, nil, err
	}

	dbHost, err := dbContainer.Host(ctx)
	if err != nil {
		return nil, dbContainer.Terminate, err
	}

	dbPort, err := dbContainer.MappedPort(ctx, nat.Port("5432/tcp"))
	if err != nil {
		return nil, dbContainer.Terminate, err
	}

	pg := config.PostgresConfig{
		Host:     dbHost,
		Port:     dbPort.Port(),
		User:     dbUser,
		Password: dbPwd,
		DBName:   dbName,
	}

	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		pg.Host, pg.Port, pg.User, pg.Password, pg.DBName)
	if err := ping(ctx, dsn); err != nil {
		return nil, dbContainer.Terminate, err
	}

	return &DBConfig{Driver: DriverPostgres, Postgres: pg}, dbContainer.Terminate, nil
}

func ping(ctx context.Context, dsn string) error {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()
	return db.PingContext(ctx)
}

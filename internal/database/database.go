package database

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"novastay/internal/domain"

	"gorm.io/driver/postgres"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite"
)

const (
	DriverPostgres = "pgx"
	DriverSQLite   = "sqlite"
)

// IsPostgres reports whether dsn points at a PostgreSQL server.
func IsPostgres(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")
}

// DriverName returns the database/sql driver name behind dsn.
func DriverName(dsn string) string {
	if IsPostgres(dsn) {
		return DriverPostgres
	}
	return DriverSQLite
}

func Connect(dsn string) (*gorm.DB, error) {
	if IsPostgres(dsn) {
		log.Println("Connecting to PostgreSQL...")
		return gorm.Open(postgres.Open(dsn), &gorm.Config{})
	}

	log.Println("Using SQLite for local development:", dsn)
	return OpenSQLite(dsn, &gorm.Config{})
}

// ConnectWithRetry keeps trying until the database answers a ping or ctx ends.
func ConnectWithRetry(ctx context.Context, dsn string, attempts int, delay time.Duration) (*gorm.DB, error) {
	var lastErr error
	for i := 1; i <= attempts; i++ {
		db, err := Connect(dsn)
		if err == nil {
			sqlDB, dbErr := db.DB()
			if dbErr == nil {
				if err = sqlDB.PingContext(ctx); err == nil {
					return db, nil
				}
			} else {
				err = dbErr
			}
		}
		lastErr = err
		log.Printf("db_connect_failed attempt=%d err=%v", i, err)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
	}
	return nil, fmt.Errorf("connect database after %d attempts: %w", attempts, lastErr)
}

// OpenSQLite opens dsn through the pure-Go sqlite driver with foreign keys on.
// SQLite allows one writer, so the pool is limited to a single connection.
func OpenSQLite(dsn string, cfg *gorm.Config) (*gorm.DB, error) {
	if !strings.Contains(dsn, "_pragma=foreign_keys") {
		sep := "?"
		if strings.Contains(dsn, "?") {
			sep = "&"
		}
		dsn += sep + "_pragma=foreign_keys(1)"
	}

	db, err := gorm.Open(gormsqlite.New(gormsqlite.Config{
		DriverName: DriverSQLite,
		DSN:        dsn,
	}), cfg)
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	return db, nil
}

// OpenTestDB opens a private in-memory database with the schema applied.
func OpenTestDB(name string) (*gorm.DB, error) {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(name, "/", "_"))
	db, err := OpenSQLite(dsn, &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return nil, err
	}
	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.Guest{},
		&domain.Room{},
		&domain.Reservation{},
		&domain.Staff{},
	)
}

// db.go
package db

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/sukalov/lyricsync/internal/utils"
	_ "github.com/tursodatabase/libsql-client-go/libsql"
)

var (
	Database *sql.DB
	once     sync.Once
	initErr  error
)

// Init opens the Turso database named by TURSO_DATABASE_URL and creates the
// schema. It is safe to call more than once.
func Init(ctx context.Context) error {
	once.Do(func() {
		env, err := utils.LoadEnv([]string{"TURSO_DATABASE_URL", "TURSO_AUTH_TOKEN"})
		if err != nil {
			initErr = fmt.Errorf("failed to load db env: %w", err)
			return
		}
		url := fmt.Sprintf("%s?authToken=%s", env["TURSO_DATABASE_URL"], env["TURSO_AUTH_TOKEN"])

		Database, initErr = sql.Open("libsql", url)
		if initErr != nil {
			initErr = fmt.Errorf("failed to open db %s: %w", env["TURSO_DATABASE_URL"], initErr)
			return
		}

		Database.SetMaxOpenConns(25)
		Database.SetMaxIdleConns(25)
		Database.SetConnMaxLifetime(5 * time.Minute)

		pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		if pingErr := Database.PingContext(pingCtx); pingErr != nil {
			initErr = fmt.Errorf("failed to ping database: %w", pingErr)
			return
		}

		initErr = Migrate(ctx, Database)
	})

	return initErr
}

// Migrate creates the tables used by the store.
func Migrate(ctx context.Context, database *sql.DB) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	const schema = `
		CREATE TABLE IF NOT EXISTS lyrics (
			song_id    TEXT PRIMARY KEY,
			title      TEXT,
			url        TEXT,
			lrc        TEXT NOT NULL DEFAULT '',
			updated_at DATETIME NOT NULL
		)`
	if _, err := database.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create lyrics table: %w", err)
	}
	return nil
}

// Close closes the database connection safely
func Close() {
	if Database != nil {
		if err := Database.Close(); err != nil {
			log.Printf("error closing database: %v", err)
		}
	}
}

package main

import (
	"context"
	"database/sql"
	"time"

	"blackjack-server/internal/config"
	"blackjack-server/pkg/db"

	"github.com/sirupsen/logrus"
)

const dbWait = time.Second * 10

func main() {
	cfg := config.Instance()
	if cfg.PGDSN == "" {
		logrus.Fatal("pgDsn is not configured")
	}

	conn := waitForDB(cfg.PGDSN)
	defer conn.Close()

	if err := db.Migrate(conn, cfg.MigrationsPath); err != nil {
		logrus.WithError(err).Fatal("could not run migrations")
	}
}

// waitForDB retries until the database accepts connections, e.g. while its container starts
func waitForDB(dsn string) *sql.DB {
	timeout := time.NewTimer(dbWait)
	defer timeout.Stop()

	for {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		conn, err := db.Open(ctx, dsn)
		cancel()
		if err == nil {
			return conn
		}

		select {
		case <-timeout.C:
			logrus.WithError(err).Fatal("could not connect to database")
		case <-time.After(time.Millisecond * 500):
		}
	}
}

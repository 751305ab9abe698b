package main

import (
	"context"
	"database/sql"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"blackjack-server/internal/config"
	"blackjack-server/internal/mux"
	"blackjack-server/pkg/db"
	"blackjack-server/pkg/history"
	"blackjack-server/pkg/playable/blackjack"
	"blackjack-server/pkg/room"

	"github.com/gorilla/handlers"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const readTimeout = time.Second * 5
const writeTimeout = time.Second * 10
const shutdownTimeout = time.Second * 15

// Version is the server version
var Version = "v0.0.0-dev"

var addr = flag.String("addr", "", "the listen address, overrides the configuration")

func main() {
	flag.Parse()
	setupLogger()

	cfg := config.Instance()
	if *addr != "" {
		cfg.Addr = *addr
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := room.Options{
		Game: blackjack.Options{
			Seats:          cfg.Table.Seats,
			DealerStandsOn: cfg.Table.DealerStandsOn,
		},
		Seed:         cfg.Table.Seed,
		DefaultTable: cfg.Table.DefaultTable,
	}

	var rounds mux.RoundLister
	if cfg.PGDSN != "" {
		conn := openDatabase(ctx, cfg)
		defer conn.Close()

		store := history.NewStore(conn)
		opts.Recorder = store
		rounds = store
	} else {
		logrus.Warn("no database configured, round history is disabled")
	}

	pitBoss, err := room.NewPitBoss(logrus.StandardLogger(), opts)
	if err != nil {
		logrus.WithError(err).Fatal("invalid table configuration")
	}

	if err := pitBoss.StartShift(); err != nil {
		logrus.WithError(err).Fatal("could not start the pit boss")
	}

	c := cors.New(cors.Options{
		AllowedHeaders: []string{"Origin", "Accept", "Content-Type", "X-Requested-With"},
		AllowedMethods: []string{http.MethodGet},
	})

	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      loggingHandler(c.Handler(mux.NewMux(Version, pitBoss, rounds))),
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logrus.WithField("addr", srv.Addr).Info("listening")
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			return err
		}

		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logrus.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		err := srv.Shutdown(shutdownCtx)
		pitBoss.EndShift()
		return err
	})

	if err := g.Wait(); err != nil {
		logrus.WithError(err).Fatal("server stopped")
	}
}

func openDatabase(ctx context.Context, cfg config.Config) *sql.DB {
	conn, err := db.Open(ctx, cfg.PGDSN)
	if err != nil {
		logrus.WithError(err).Fatal("could not open database")
	}

	// fail fast
	if err := db.Migrate(conn, cfg.MigrationsPath); err != nil {
		logrus.WithError(err).Fatal("could not run migrations")
	}

	return conn
}

func loggingHandler(next http.Handler) http.Handler {
	if config.Instance().Log.DisableAccessLogs {
		return next
	}

	return handlers.CombinedLoggingHandler(os.Stdout, next)
}

func setupLogger() {
	if lvl := config.Instance().Log.Level; lvl != "" {
		level, err := logrus.ParseLevel(lvl)
		if err != nil {
			logrus.WithError(err).Fatal("could not parse level")
		}

		logrus.SetLevel(level)
	}

	formatter, err := config.Instance().LogFormatter()
	if err != nil {
		logrus.WithError(err).Fatal("could not set up logging")
	}

	logrus.SetFormatter(formatter)
}

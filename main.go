package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/danielgtaylor/huma/v2/humacli"
	"github.com/joho/godotenv"

	"github.com/darko-mesaros/webone/cli/api"
	"github.com/darko-mesaros/webone/cli/logger"
	"github.com/darko-mesaros/webone/cli/store"
	"github.com/darko-mesaros/webone/datastores"
)

// Overridden at build time through -ldflags.
var (
	version  = "dev"
	revision = ""
	created  = ""
)

// Options for the CLI. Every field doubles as a flag and a SERVICE_* env var.
type Options struct {
	Logger logger.Options
	Server api.ServerOptions
	Router api.RouterOptions
	Store  store.Options
}

func main() {
	_ = godotenv.Load()

	cli := humacli.New(func(hooks humacli.Hooks, options *Options) {
		log := logger.New(&options.Logger)

		db, err := store.Open(context.Background(), &options.Store)
		if err != nil {
			log.Error("could not open contacts database", "err", err)
			os.Exit(1)
		}

		contacts := datastores.NewContactsSQL(db)
		if err := contacts.EnsureSchema(context.Background()); err != nil {
			log.Error("could not ensure contacts schema", "err", err)
			os.Exit(1)
		}

		srv := api.NewServer(&options.Server,
			api.NewRouter(&options.Router, "Contact Book", version, revision, created,
				log, contacts, store.Readiness(db)),
			log,
		)

		hooks.OnStart(func() {
			log.Info("listening", "addr", srv.Addr, "driver", options.Store.Driver)
			err := srv.ListenAndServe()
			if !errors.Is(err, http.ErrServerClosed) {
				log.Error("failed to listen and serve", "err", err)
			} else {
				log.Info("server closed")
			}
		})
		hooks.OnStop(func() {
			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			defer cancel()
			if err := srv.Shutdown(ctx); err != nil {
				log.Warn("could not shutdown the server", "err", err)
			}
			if err := db.Close(); err != nil {
				log.Warn("could not close the database", "err", err)
			}
		})
	})
	cli.Run()
}

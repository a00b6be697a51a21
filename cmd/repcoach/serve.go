package main

import (
	"context"
	"net/http"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/go-go-golems/repcoach/pkg/coach"
	"github.com/go-go-golems/repcoach/pkg/events"
	"github.com/go-go-golems/repcoach/pkg/config"
	"github.com/go-go-golems/repcoach/pkg/engine"
	"github.com/go-go-golems/repcoach/pkg/orchestrate"
	"github.com/go-go-golems/repcoach/pkg/server"
	"github.com/go-go-golems/repcoach/pkg/tools"
	"github.com/go-go-golems/repcoach/pkg/undo"
)

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the turn engine HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configFile)
			if err != nil {
				return err
			}

			store := coach.NewMemoryStore()
			biller := coach.NewMemoryBiller()
			ledger := undo.NewLedger(undo.WithTTL(cfg.UndoTTL))

			registry := tools.NewInMemoryRegistry()
			if err := coach.RegisterAll(registry, coach.Deps{
				Store:  store,
				Biller: biller,
				Undo:   ledger,
			}); err != nil {
				return err
			}

			// Every turn's events also flow through an in-process
			// pub/sub, so side consumers (here: an activity logger)
			// observe them without touching the SSE path.
			router, err := events.NewEventRouter()
			if err != nil {
				return err
			}
			defer func() { _ = router.Close() }()
			router.AddHandler("activity-log", "turn.events", func(msg *message.Message) error {
				log.Info().
					Str("event_type", msg.Metadata.Get("event_type")).
					Str("sequence", msg.Metadata.Get("sequence_number")).
					Msg("turn event")
				return nil
			})
			manager := events.NewPublisherManager()
			manager.SubscribePublisher("turn.events", router.Publisher)

			opts := []orchestrate.Option{
				orchestrate.WithRegistry(registry),
				orchestrate.WithMaxIterations(cfg.MaxIterations),
				orchestrate.WithSinks(manager),
			}
			if cfg.SystemPrompt != "" {
				opts = append(opts, orchestrate.WithSystemPrompt(cfg.SystemPrompt))
			}
			if cfg.OpenAIAPIKey != "" {
				eng, err := engine.NewOpenAIEngine(cfg.OpenAIAPIKey, engine.WithModel(cfg.Model))
				if err != nil {
					return err
				}
				opts = append(opts, orchestrate.WithEngine(eng))
				log.Info().Str("model", cfg.Model).Msg("agent strategy enabled")
			} else {
				log.Info().Msg("no API key configured, running deterministic-only")
			}

			orch, err := orchestrate.New(opts...)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()
			go ledger.Run(ctx, time.Minute)
			go func() {
				if err := router.Run(ctx); err != nil {
					log.Warn().Err(err).Msg("event router stopped")
				}
			}()
			<-router.Running()

			srv := &http.Server{
				Addr:              cfg.Addr,
				Handler:           server.New(orch, ledger),
				ReadHeaderTimeout: 10 * time.Second,
			}
			log.Info().Str("addr", cfg.Addr).Msg("listening")
			if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}
}

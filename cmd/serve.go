package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"rightssphere/config"
	"rightssphere/controllers"
	"rightssphere/routes"
	"rightssphere/services"
	"rightssphere/utils"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
}

func runServe(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log, err := utils.NewLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	db, err := config.OpenDB(cfg.DB)
	if err != nil {
		return err
	}

	gin.SetMode(gin.ReleaseMode)
	router, err := buildRouter(ctx, cfg, db, log)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// buildRouter wires collaborators, services and controllers from cfg.
// Optional channels are left nil when they are not configured.
func buildRouter(ctx context.Context, cfg *config.Config, db *gorm.DB, log *zap.Logger) (*gin.Engine, error) {
	client := utils.NewHTTPClient(cfg.HTTPTimeout)

	farcaster := services.NewFarcasterService(cfg.Neynar.BaseURL, cfg.Neynar.APIKey, cfg.Neynar.SignerUUID, client, log)
	pinata := services.NewPinataService(cfg.Pinata.BaseURL, cfg.Pinata.GatewayURL, cfg.Pinata.JWT, client, log)

	var pinner services.Pinner = pinata
	if cfg.Storage.Backend == "s3" {
		store, err := services.NewS3Store(ctx, cfg.Storage.S3Region, cfg.Storage.S3Bucket, cfg.Storage.CDNURL)
		if err != nil {
			return nil, err
		}
		pinner = store
	}

	var completer services.Completer
	switch cfg.Gen.Provider {
	case "gemini":
		gc, err := services.NewGeminiClient(ctx, cfg.Gen.GeminiKey, cfg.Gen.GeminiModel, log)
		if err != nil {
			return nil, err
		}
		completer = gc
	default:
		completer = services.NewOpenAIClient(cfg.Gen.OpenAIURL, cfg.Gen.OpenAIKey, cfg.Gen.OpenAIModel, client, log)
	}
	gen := services.NewGenerator(completer, log)

	channels := services.AlertChannels{Social: farcaster}
	if cfg.SMS.Enabled {
		sms, err := services.NewSMSService(ctx, cfg.AWS.Region, cfg.SMS.SenderID)
		if err != nil {
			return nil, err
		}
		channels.SMS = sms
	}
	switch cfg.Email.Provider {
	case "ses":
		m, err := services.NewSESMailer(ctx, cfg.AWS.Region, cfg.Email.From)
		if err != nil {
			return nil, err
		}
		channels.Email = m
	case "smtp":
		m, err := services.NewSMTPMailer(cfg.Email.SMTPHost, cfg.Email.SMTPPort, cfg.Email.SMTPUsername, cfg.Email.SMTPPassword, cfg.Email.From)
		if err != nil {
			return nil, err
		}
		channels.Email = m
	}

	hub := services.NewRealtimeHub()
	bus := services.NewAlertBus(hub)

	deep := map[string]controllers.Pinger{"farcaster": farcaster}
	if cfg.Storage.Backend == "pinata" {
		deep["pinata"] = pinata
	}

	log.Info("channels configured",
		zap.Bool("sms", channels.SMS != nil),
		zap.Bool("email", channels.Email != nil),
		zap.String("storage", cfg.Storage.Backend),
		zap.String("generator", cfg.Gen.Provider),
	)

	return routes.SetupRouter(routes.Deps{
		Log:        log.Named("http"),
		JWTSecret:  cfg.JWTSecret,
		Alerts:     controllers.NewAlertController(services.NewAlertService(db, channels, bus, log), log),
		Guides:     controllers.NewGuideController(services.NewGuideService(db, gen, log), log),
		Recordings: controllers.NewRecordingController(services.NewRecordingService(db, pinner, log), log),
		Cards:      controllers.NewRightsCardController(services.NewRightsCardService(db, gen, pinner, farcaster, cfg.AppURL, log), log),
		Scripts:    controllers.NewScriptController(services.NewScriptService(db, gen, log), log),
		Contacts:   controllers.NewContactController(farcaster, log),
		Health:     controllers.NewHealthController(db, deep),
		Realtime:   controllers.NewRealtimeController(hub, cfg.JWTSecret),
	}), nil
}

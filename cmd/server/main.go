package main

import (
	"MediVerify/internal/adapters/delivery"
	"MediVerify/internal/adapters/eventbus"
	"MediVerify/internal/adapters/httpapi"
	"MediVerify/internal/adapters/postgres"
	"MediVerify/internal/adapters/ratelimit"
	"MediVerify/internal/adapters/security"
	"MediVerify/internal/adapters/telegram"
	"MediVerify/internal/bot/moderator"
	_ "MediVerify/internal/bot/moderator/handlers"
	"MediVerify/internal/core/ports"
	"MediVerify/internal/core/services"
	"MediVerify/internal/shared/config"
	"MediVerify/internal/shared/logger"
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

func main() {
	// 1. Load Configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("FATAL: Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// 2. Initialize Logger
	baseLogger := logger.New(cfg.IsDev())
	baseLogger.Info().
		Str("app_env", cfg.AppEnv).
		Str("otp_delivery", cfg.OTP.Delivery).
		Bool("otp_dev_mode", cfg.OTP.DevMode).
		Bool("bot_enabled", cfg.Bot.Token != "").
		Msg("Configuration loaded")
	if cfg.OTP.DevMode && !cfg.IsDev() {
		baseLogger.Warn().Msg("OTP_DEV_MODE is on outside dev: codes are echoed in API responses")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, &baseLogger); err != nil {
		baseLogger.Fatal().Err(err).Msg("Server exited with error")
	}
	baseLogger.Info().Msg("Shutdown complete")
}

func run(ctx context.Context, cfg *config.Config, baseLogger *zerolog.Logger) error {
	// A server failing early takes the rest down with it.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// 3. Security
	keyBytes, err := cfg.EncryptionKeyBytes()
	if err != nil {
		return fmt.Errorf("decode ENCRYPTION_KEY: %w", err)
	}
	secSvc, err := security.NewAESService(keyBytes, baseLogger)
	if err != nil {
		return fmt.Errorf("init security service: %w", err)
	}
	hasher := security.NewBcryptHasher(cfg.OTP.BcryptCost)

	// 4. Database
	db, err := postgres.NewDB(ctx, cfg.Database.URL, baseLogger)
	if err != nil {
		return fmt.Errorf("init database: %w", err)
	}
	defer db.Close()
	if err := db.Migrate(ctx); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}

	// 5. Repositories
	userRepo := postgres.NewUserRepository(db, secSvc, baseLogger)
	profileRepo := postgres.NewDoctorProfileRepository(db, baseLogger)
	verificationRepo := postgres.NewDoctorVerificationRepository(db, baseLogger)
	aadhaarRepo := postgres.NewAadhaarRepository(db, secSvc, baseLogger)
	abhaRepo := postgres.NewAbhaRepository(db, baseLogger)
	linkRepo := postgres.NewTelegramLinkRepository(db, baseLogger)

	// 6. Event bus
	bus := eventbus.NewInMemoryEventBus(30*time.Second, baseLogger)

	// 7. Throttles
	var wg sync.WaitGroup
	var otpThrottle ports.RequestThrottle
	if cfg.Redis.URL != "" {
		client, err := ratelimit.NewRedisClient(ctx, cfg.Redis.URL, baseLogger)
		if err != nil {
			return err
		}
		defer client.Close()
		otpThrottle = ratelimit.NewRedisThrottle(client, cfg.OTP.RequestWindow, cfg.OTP.RequestsPerWindow, baseLogger)
	} else {
		local := ratelimit.NewSlidingWindow(cfg.OTP.RequestWindow, cfg.OTP.RequestsPerWindow)
		wg.Add(1)
		go func() {
			defer wg.Done()
			local.Run(ctx, time.Hour)
		}()
		otpThrottle = local
		baseLogger.Warn().Msg("REDIS_URL not set, OTP throttle is per-process")
	}
	ipThrottle := ratelimit.NewSlidingWindow(10*time.Minute, 30)
	wg.Add(1)
	go func() {
		defer wg.Done()
		ipThrottle.Run(ctx, 10*time.Minute)
	}()

	// 8. Telegram (optional)
	var botAPI *tgbotapi.BotAPI
	var botClient ports.BotClientPort
	if cfg.Bot.Token != "" {
		botAPI, err = tgbotapi.NewBotAPI(cfg.Bot.Token)
		if err != nil {
			return fmt.Errorf("init telegram bot: %w", err)
		}
		botClient = telegram.NewClient(botAPI, baseLogger)
		if err := botClient.SetMenuCommands(ctx); err != nil {
			baseLogger.Warn().Err(err).Msg("Could not set bot menu commands")
		}
	}

	// 9. OTP delivery
	var sender ports.OTPSender
	switch cfg.OTP.Delivery {
	case "sms":
		sender = delivery.NewSMSSender(cfg.Twilio.AccountSID, cfg.Twilio.AuthToken, cfg.Twilio.FromNumber, baseLogger)
	case "telegram":
		sender = telegram.NewOTPSender(botClient, baseLogger)
	default:
		sender = delivery.NewLogSender(baseLogger)
	}

	// 10. Services
	accountSvc := services.NewAccountService(db, userRepo, linkRepo, secSvc, baseLogger)
	verificationSvc := services.NewDoctorVerificationService(db, verificationRepo, profileRepo, userRepo, bus, baseLogger)
	profileSvc := services.NewDoctorProfileService(profileRepo, baseLogger)
	aadhaarSvc := services.NewAadhaarService(db, aadhaarRepo, userRepo, hasher, sender, otpThrottle, bus, baseLogger)
	abhaSvc := services.NewAbhaService(db, abhaRepo, bus, baseLogger)

	// 11. Servers
	router := httpapi.NewRouter(httpapi.Deps{
		Accounts:      accountSvc,
		Verifications: verificationSvc,
		Profiles:      profileSvc,
		Aadhaar:       aadhaarSvc,
		Abha:          abhaSvc,
		JWT:           httpapi.NewJWTService(cfg.HTTP.JWTSecret, 24*time.Hour),
		IPThrottle:    ipThrottle,
		DevOTP:        cfg.OTP.DevMode,
	}, baseLogger)
	httpServer := httpapi.NewServer(cfg.HTTP.Port, router, baseLogger)

	errCh := make(chan error, 2)
	wg.Add(1)
	go func() {
		defer wg.Done()
		errCh <- httpServer.Start(ctx)
	}()

	if botAPI != nil {
		moderator.NewNotifier(botClient, userRepo, cfg.Bot.ModeratorChatID, baseLogger).Subscribe(bus)

		modRouter := moderator.NewModeratorRouter(userRepo, botClient, baseLogger)
		moderator.RegisterAllHandlers(modRouter, moderator.Deps{
			Accounts:      accountSvc,
			Verifications: verificationSvc,
			Bot:           botClient,
			Logger:        baseLogger,
		})
		botServer := telegram.NewBotServer(botAPI, modRouter, &cfg.Bot, baseLogger)

		wg.Add(1)
		go func() {
			defer wg.Done()
			errCh <- botServer.Start(ctx)
		}()
	}

	baseLogger.Info().Msg("All services initialized successfully")

	var firstErr error
	select {
	case <-ctx.Done():
	case firstErr = <-errCh:
	}
	stopAll(cancel, &wg, bus, baseLogger)
	return firstErr
}

func stopAll(cancel context.CancelFunc, wg *sync.WaitGroup, bus *eventbus.InMemoryEventBus, log *zerolog.Logger) {
	cancel()
	log.Info().Msg("Shutting down...")
	wg.Wait()

	drainCtx, drainCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer drainCancel()
	if err := bus.Wait(drainCtx); err != nil {
		log.Warn().Err(err).Msg("Timed out waiting for event handlers")
	}
}

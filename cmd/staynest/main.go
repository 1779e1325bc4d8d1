package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"staynest/internal/app/commands"
	availabilityapp "staynest/internal/app/handlers/availability"
	bookingapp "staynest/internal/app/handlers/booking"
	mediaapp "staynest/internal/app/handlers/media"
	propertyapp "staynest/internal/app/handlers/property"
	"staynest/internal/app/middleware"
	appoutbox "staynest/internal/app/outbox"
	"staynest/internal/app/queries"
	"staynest/internal/app/uow"
	domainbooking "staynest/internal/domain/booking"
	domainpricing "staynest/internal/domain/pricing"
	domainproperty "staynest/internal/domain/property"
	"staynest/internal/domain/shared/money"
	"staynest/internal/infra/broker/kafka"
	"staynest/internal/infra/config"
	mongodb "staynest/internal/infra/db/mongo"
	ginserver "staynest/internal/infra/http/gin"
	"staynest/internal/infra/obs"
	infraoutbox "staynest/internal/infra/outbox"
	"staynest/internal/infra/storage/memory"
	"staynest/internal/infra/storage/s3"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	env := getenv("APP_ENV", "dev")
	logger := obs.NewLogger(env)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("configuration invalid", "error", err)
		os.Exit(1)
	}

	app, err := buildApplication(cfg, logger)
	if err != nil {
		logger.Error("application wiring failed", "error", err)
		os.Exit(1)
	}

	server := ginserver.NewServer(cfg, obs.Middleware{Logger: logger}, obs.HealthHandlers{Ready: app.ready}, app.handlers)

	if app.worker != nil {
		go func() {
			if err := app.worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("outbox worker stopped", "error", err)
			}
		}()
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("http shutdown failed", "error", err)
		}
		app.close(shutdownCtx, logger)
	}()

	logger.Info("HTTP server starting", "addr", cfg.HTTPAddr, "storage", cfg.Storage)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("http server failed", "error", err)
		os.Exit(1)
	}
	logger.Info("HTTP server stopped")
}

type application struct {
	handlers ginserver.Handlers
	worker   *infraoutbox.Worker
	ready    func() error

	mongoClient *mongodb.Client
	producer    *kafka.Producer
}

func buildApplication(cfg config.Config, logger *slog.Logger) (application, error) {
	pricingCalc := domainpricing.Calculator{
		ServiceCharge:      money.Money{Amount: cfg.ServiceCharge, Currency: cfg.Currency},
		TaxRateBasisPoints: cfg.TaxRateBasisPoints,
	}
	gate := domainproperty.PublishGate{MinimumMedia: cfg.MediaMinItems}
	policy := domainbooking.RefundPolicy{
		EarlyThresholdDays: cfg.RefundEarlyThresholdDays,
		LateThresholdDays:  cfg.RefundLateThresholdDays,
		EarlyPercent:       cfg.RefundEarlyPercent,
		LatePercent:        cfg.RefundLatePercent,
	}

	app := application{ready: func() error { return nil }}

	var uowFactory uow.UoWFactory
	var outboxStore appoutbox.Outbox
	switch cfg.Storage {
	case "mongo":
		client, err := mongodb.New(cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return application{}, err
		}
		app.mongoClient = client
		app.ready = func() error {
			pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return client.Ping(pingCtx)
		}
		uowFactory = mongodb.Factory{
			DB:           client.DB,
			PropertyRepo: mongodb.NewPropertyRepository(client.DB),
			BookingRepo:  mongodb.NewBookingRepository(client.DB),
		}
		store := infraoutbox.NewStore(client.DB)
		outboxStore = store

		if len(cfg.KafkaBrokers) > 0 {
			producer, err := kafka.NewProducer(cfg.KafkaBrokers, nil)
			if err != nil {
				return application{}, err
			}
			app.producer = producer
			app.worker = &infraoutbox.Worker{
				Store:       store,
				Producer:    producer,
				Logger:      logger,
				Interval:    cfg.OutboxPollInterval,
				TopicPrefix: cfg.KafkaTopicPrefix,
				Source:      "app://staynest",
			}
		} else {
			logger.Warn("no kafka brokers configured, outbox records will accumulate")
		}
	default:
		uowFactory = memory.Factory{Store: memory.NewStore()}
		outboxStore = memory.NewOutbox()
	}

	var uploader s3.Uploader = s3.NoopUploader{}
	if client, err := s3.NewClient(s3.Options{
		Endpoint:      cfg.S3Endpoint,
		AccessKey:     cfg.S3AccessKey,
		SecretKey:     cfg.S3SecretKey,
		Bucket:        cfg.S3Bucket,
		PublicBaseURL: cfg.S3PublicEndpoint,
		UseSSL:        cfg.S3UseSSL,
	}, logger); err != nil {
		logger.Warn("object storage unavailable, media uploads disabled", "error", err)
	} else {
		uploader = client
	}

	idStore := memory.NewIdempotencyStore(cfg.IdempotencyTTL)
	encoder := appoutbox.JSONEventEncoder{}

	commandBus := commands.NewInMemoryBus()
	commands.RegisterHandler(commandBus, bookingapp.RequestBookingCommand{}.Key(), &bookingapp.RequestBookingHandler{
		UoWFactory: uowFactory,
		Pricing:    pricingCalc,
		Outbox:     outboxStore,
		Encoder:    encoder,
	})
	commands.RegisterHandler(commandBus, bookingapp.ConfirmBookingCommand{}.Key(), &bookingapp.ConfirmBookingHandler{Logger: logger, Outbox: outboxStore, Encoder: encoder})
	commands.RegisterHandler(commandBus, bookingapp.CheckInBookingCommand{}.Key(), &bookingapp.CheckInBookingHandler{Logger: logger, Outbox: outboxStore, Encoder: encoder})
	commands.RegisterHandler(commandBus, bookingapp.CheckOutBookingCommand{}.Key(), &bookingapp.CheckOutBookingHandler{Logger: logger, Outbox: outboxStore, Encoder: encoder})
	commands.RegisterHandler(commandBus, bookingapp.CancelBookingCommand{}.Key(), &bookingapp.CancelBookingHandler{
		Policy:  policy,
		Logger:  logger,
		Outbox:  outboxStore,
		Encoder: encoder,
	})
	commands.RegisterHandler(commandBus, propertyapp.CreatePropertyCommand{}.Key(), &propertyapp.CreatePropertyHandler{Logger: logger, Outbox: outboxStore, Encoder: encoder})
	commands.RegisterHandler(commandBus, propertyapp.AddRoomCommand{}.Key(), &propertyapp.AddRoomHandler{Logger: logger, Gate: gate})
	commands.RegisterHandler(commandBus, propertyapp.CompleteMediaCommand{}.Key(), &propertyapp.CompleteMediaHandler{
		Gate:    gate,
		Logger:  logger,
		Outbox:  outboxStore,
		Encoder: encoder,
	})
	commands.RegisterHandler(commandBus, propertyapp.ApprovePropertyCommand{}.Key(), &propertyapp.ApprovePropertyHandler{Logger: logger, Outbox: outboxStore, Encoder: encoder})
	commands.RegisterHandler(commandBus, propertyapp.RejectPropertyCommand{}.Key(), &propertyapp.RejectPropertyHandler{Logger: logger, Outbox: outboxStore, Encoder: encoder})
	commands.RegisterHandler(commandBus, mediaapp.UploadMediaCommand{}.Key(), &mediaapp.UploadMediaHandler{Logger: logger, Uploader: uploader})
	commands.RegisterHandler(commandBus, mediaapp.TagMediaCommand{}.Key(), &mediaapp.TagMediaHandler{Logger: logger})
	commands.RegisterHandler(commandBus, mediaapp.SetCoverCommand{}.Key(), &mediaapp.SetCoverHandler{Logger: logger})
	commands.RegisterHandler(commandBus, mediaapp.RemoveMediaCommand{}.Key(), &mediaapp.RemoveMediaHandler{Logger: logger})

	queryBus := queries.NewInMemoryBus()
	queries.RegisterHandler(queryBus, availabilityapp.CheckAvailabilityQuery{}.Key(), &availabilityapp.CheckAvailabilityHandler{UoWFactory: uowFactory})
	queries.RegisterHandler(queryBus, bookingapp.QuotePriceQuery{}.Key(), &bookingapp.QuotePriceHandler{UoWFactory: uowFactory, Pricing: pricingCalc})
	queries.RegisterHandler(queryBus, bookingapp.ListGuestBookingsQuery{}.Key(), &bookingapp.ListGuestBookingsHandler{UoWFactory: uowFactory})
	queries.RegisterHandler(queryBus, propertyapp.GetPropertyQuery{}.Key(), &propertyapp.GetPropertyHandler{UoWFactory: uowFactory})

	commandPipeline := middleware.ChainCommands(
		commandBus,
		middleware.Validation(middleware.SelfValidator{}),
		middleware.Idempotency(idStore, nil),
		middleware.Transaction(uowFactory, nil),
		middleware.OutboxFlush(outboxStore),
	)
	queryPipeline := middleware.ChainQueries(queryBus)

	app.handlers = ginserver.Handlers{
		Booking:      ginserver.BookingHandler{Commands: commandPipeline, Queries: queryPipeline},
		Availability: ginserver.AvailabilityHandler{Queries: queryPipeline},
		Property:     ginserver.PropertyHandler{Commands: commandPipeline, Queries: queryPipeline},
		Media:        ginserver.MediaHandler{Commands: commandPipeline},
	}
	return app, nil
}

func (a application) close(ctx context.Context, logger *slog.Logger) {
	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			logger.Error("kafka producer close failed", "error", err)
		}
	}
	if a.mongoClient != nil {
		if err := a.mongoClient.Close(ctx); err != nil {
			logger.Error("mongo disconnect failed", "error", err)
		}
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// Package classification Event Manager Service.
//
// Event Manager Service handling events, their hosts and attendees
//
// Terms Of Service:
//
// there are no TOS at this moment, use at your own risk we take no responsibility
//
//	Version: 0.1.0
//	License: TODO
//
//	Consumes:
//	  - application/json
//
//	Produces:
//	  - application/json
//
//	SecurityDefinitions:
//	  oauth2:
//	    type: oauth2
//	    tokenUrl: /not-valid--endpoint-is-served-from-the-identity-provider
//	    refreshUrl: /not-valid--endpoint-is-served-from-the-identity-provider
//	    flow: password
//
// swagger:meta
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rsvp-platform/event-manager/internal/handler"
	"github.com/rsvp-platform/event-manager/internal/log"
	"github.com/rsvp-platform/event-manager/internal/middleware"
	"github.com/rsvp-platform/event-manager/internal/server"
	"github.com/rsvp-platform/event-manager/internal/telemetry"
	"github.com/rsvp-platform/event-manager/pkg/attendee"
	"github.com/rsvp-platform/event-manager/pkg/cohost"
	"github.com/rsvp-platform/event-manager/pkg/config"
	"github.com/rsvp-platform/event-manager/pkg/event"
	"github.com/rsvp-platform/event-manager/pkg/invite"
	"github.com/rsvp-platform/event-manager/pkg/notification"
	"github.com/rsvp-platform/event-manager/pkg/quota"
	"github.com/rsvp-platform/event-manager/pkg/storage"
	"github.com/rsvp-platform/event-manager/pkg/user"

	"github.com/go-mail/mail"
	amqp "github.com/rabbitmq/amqp091-go"
	"golang.org/x/sync/errgroup"
)

func main() {
	if err := run(); err != nil {
		slog.Error("Error running event-manager", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.New()

	logger := slog.New(log.New(log.NewPrettyJSONHandler(os.Stdout, &log.PrettyJSONHandlerOptions{
		HandlerOptions: slog.HandlerOptions{AddSource: true, Level: cfg.Logging.SlogLevel()},
		PrettyPrint:    cfg.Logging.Pretty,
	})))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.NewTracerProvider(cfg.Tracing.ServiceName, cfg.Environment, cfg.Tracing.JaegerEndpoint)
	if err != nil {
		return err
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			logger.Error("Failed to shut down tracing", "error", err)
		}
	}()

	if err := handler.RegisterValidation(); err != nil {
		return err
	}

	db, err := storage.NewDatabase(logger, cfg.Postgresql)
	if err != nil {
		return err
	}

	redis, err := storage.NewRedis(cfg.Redis.Host, cfg.Redis.Port)
	if err != nil {
		return err
	}
	defer redis.Close()

	connection, err := amqp.Dial(cfg.RabbitMqURL.GetUrl())
	if err != nil {
		return fmt.Errorf("failed to connect to RabbitMQ: %v", err)
	}
	defer connection.Close()

	publishChannel, err := connection.Channel()
	if err != nil {
		return fmt.Errorf("failed to open RabbitMQ channel: %v", err)
	}
	if err := notification.DeclareQueue(publishChannel, notification.Queue); err != nil {
		return err
	}
	publisher := notification.NewPublisher(publishChannel, notification.Queue)

	consumeChannel, err := connection.Channel()
	if err != nil {
		return fmt.Errorf("failed to open RabbitMQ channel: %v", err)
	}
	dialer := mail.NewDialer(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username, cfg.SMTP.Password)
	mailer := notification.NewMailer(cfg.SMTP.From, cfg.UIURL, dialer)
	consumer := notification.NewConsumer(logger, consumeChannel, notification.Queue, mailer)

	userService := user.NewService(user.NewRepository(db))
	eventRepository := event.NewRepository(db)
	quotaGuard := quota.NewGuard(cfg.Quota, eventRepository)
	cohostService := cohost.NewService(logger, cohost.NewRepository(db), eventRepository, userService, publisher)
	attendeeService := attendee.NewService(logger, attendee.NewRepository(db), eventRepository, cohostService, publisher, attendee.NewBroker())
	eventService := event.NewService(eventRepository, quotaGuard, cohostService, userService, attendeeService)
	inviteService := invite.NewService(logger, cfg.Invite.MaxBatchSize, cohostService, eventRepository, userService, attendeeService, publisher, invite.NewRedisLock(redis))

	publicKey, err := cfg.Authentication.GetPublicKey()
	if err != nil {
		return err
	}
	authentication := middleware.NewAuthentication(logger, publicKey)
	authorization := middleware.NewAuthorization(logger, userService)

	engine, router := server.GetEngine(logger, cfg.Tracing.ServiceName, cfg.BasePath)
	user.Routes(router, authentication, authorization, user.NewHandler(userService))
	event.Routes(router, authentication, authorization, event.NewHandler(eventService))
	cohost.Routes(router, authentication, authorization, cohost.NewHandler(cohostService))
	attendee.Routes(router, authentication, authorization, attendee.NewHandler(attendeeService))
	invite.Routes(router, authentication, authorization, invite.NewHandler(inviteService))

	srv := &http.Server{
		Addr:              ":8080",
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Listening", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		return consumer.Consume(ctx)
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

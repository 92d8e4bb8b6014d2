package server

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/sirupsen/logrus"

	"github.com/datashelf/datashelf/pkg/config"
	"github.com/datashelf/datashelf/pkg/contract"
	"github.com/datashelf/datashelf/pkg/service"
	"github.com/datashelf/datashelf/pkg/store"
	"github.com/datashelf/datashelf/pkg/store/sql"
)

// Launch runs the registry server until ctx is cancelled.
func Launch(ctx context.Context, cfg *config.Config) error {
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, err)
	}
	logrus.SetLevel(level)

	return launchServer(ctx, cfg)
}

func launchServer(ctx context.Context, cfg *config.Config) error {
	st, err := sql.NewStore(ctx, cfg, logrus.StandardLogger())
	if err != nil {
		return err
	}

	app := fiber.New(fiber.Config{
		BodyLimit:             16 * 1024 * 1024,
		ReadBufferSize:        16384,
		ReadTimeout:           5 * time.Second,
		WriteTimeout:          60 * time.Second,
		IdleTimeout:           120 * time.Second,
		ServerHeader:          "datashelf/" + cfg.Version,
		DisableStartupMessage: true,
	})

	app.Use(compress.New())
	app.Use(recover.New(recover.Config{EnableStackTrace: true}))
	app.Use(logger.New(logger.Config{
		Format: "${status} - ${latency} ${method} ${path}\n",
		Output: logrus.StandardLogger().Writer(),
	}))

	apiApp, err := newAPIApp(ctx, cfg, st)
	if err != nil {
		return err
	}
	app.Mount("/api/v1", apiApp)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.SendString("OK")
	})
	app.Get("/version", func(c *fiber.Ctx) error {
		return c.SendString(cfg.Version)
	})

	go func() {
		<-ctx.Done()
		if err := app.ShutdownWithTimeout(cfg.ShutdownTimeout.Duration); err != nil {
			logrus.Errorf("Failed to gracefully shutdown datashelf server: %v", err)
		}
	}()

	logrus.Infof("Serving dataset registry on %s", cfg.Address)

	err = app.Listen(cfg.Address)
	if closeErr := st.Close(); closeErr != nil {
		logrus.Errorf("Failed to close store: %v", closeErr)
	}
	if err != nil {
		return fmt.Errorf("failed to start datashelf server: %w", err)
	}

	return nil
}

func newAPIApp(ctx context.Context, cfg *config.Config, st store.Store) (*fiber.App, error) {
	app := fiber.New(fiber.Config{
		ErrorHandler: apiErrorHandler,
	})

	parser, err := NewHTTPRequestParser()
	if err != nil {
		return nil, err
	}

	if err := useAPIKeyAuth(ctx, cfg, st, app); err != nil {
		return nil, err
	}

	registerCatalogRoutes(
		service.NewCatalogService(st),
		service.NewSearchService(logrus.StandardLogger(), st),
		parser,
		app,
	)
	registerStatsRoutes(service.NewStatsService(st), app)
	registerAPIKeyRoutes(service.NewAPIKeyService(st), parser, app)

	return app, nil
}

// useAPIKeyAuth decides authentication once at startup: enforced when a
// static token is configured or at least one key has been issued,
// otherwise the API stays open and a warning is logged.
func useAPIKeyAuth(ctx context.Context, cfg *config.Config, keys store.APIKeyStore, app *fiber.App) error {
	issued, contractError := keys.ListAPIKeys(ctx)
	if contractError != nil {
		return contractError
	}

	if cfg.APIToken == "" && len(issued) == 0 {
		logrus.Warn("No API token configured and no API keys issued, requests are not authenticated")

		return nil
	}

	app.Use(newAPIKeyAuth(cfg.APIToken, keys))

	return nil
}

func apiErrorHandler(ctx *fiber.Ctx, err error) error {
	var contractError *contract.Error
	if !errors.As(err, &contractError) {
		code := contract.ErrorCodeInternalError

		var fiberError *fiber.Error
		if errors.As(err, &fiberError) {
			switch fiberError.Code {
			case fiber.StatusBadRequest:
				code = contract.ErrorCodeBadRequest
			case fiber.StatusNotFound:
				code = contract.ErrorCodeNotFound
			}
		}

		contractError = contract.NewError(code, err.Error())
	}

	var fn func(format string, args ...any)

	switch contractError.StatusCode() {
	case fiber.StatusBadRequest, fiber.StatusConflict, fiber.StatusUnauthorized:
		fn = logrus.Infof
	case fiber.StatusNotFound:
		fn = logrus.Debugf
	default:
		fn = logrus.Errorf
	}

	fn("Error encountered in %s %s: %s", ctx.Method(), ctx.Path(), err)

	return ctx.Status(contractError.StatusCode()).JSON(contractError)
}

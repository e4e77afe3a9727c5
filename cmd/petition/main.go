package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/blackberry-uk/fulhambilingual/internal/config"
	"github.com/blackberry-uk/fulhambilingual/internal/infra/database"
	"github.com/blackberry-uk/fulhambilingual/internal/infra/gateway"
	"github.com/blackberry-uk/fulhambilingual/internal/infra/repository"
	"github.com/blackberry-uk/fulhambilingual/internal/interface/rest"
	"github.com/blackberry-uk/fulhambilingual/internal/service"
	"github.com/blackberry-uk/fulhambilingual/internal/usecase"
)

func setupTracer(ctx context.Context, endpoint string) (func(), error) {
	exporter, err := otlptracehttp.New(ctx, otlptracehttp.WithEndpoint(endpoint))
	if err != nil {
		return nil, err
	}

	provider := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exporter))
	otel.SetTracerProvider(provider)

	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := provider.Shutdown(shutdownCtx); err != nil {
			slog.Error("Failed to shut down tracer provider",
				slog.String("error", err.Error()),
				slog.String("module", "main"),
			)
		}
	}, nil
}

func main() {
	configPath := flag.String("config", "config.yaml", "path to the configuration file")
	flag.Parse()

	conf, err := config.Load(*configPath)
	if err != nil {
		slog.Error("Failed to load configuration",
			slog.String("error", err.Error()),
			slog.String("module", "main"),
		)
		os.Exit(1)
	}

	ctx := context.Background()

	if conf.Server.EnableTrace {
		shutdown, err := setupTracer(ctx, conf.Server.TraceEndpoint)
		if err != nil {
			slog.Error("Failed to set up tracing",
				slog.String("error", err.Error()),
				slog.String("module", "main"),
			)
			os.Exit(1)
		}
		defer shutdown()
	}

	db, err := database.NewPostgres(conf.Server.PostgresDsn)
	if err != nil {
		slog.Error("Failed to connect to database",
			slog.String("error", err.Error()),
			slog.String("module", "main"),
		)
		os.Exit(1)
	}

	if err := database.Migrate(db); err != nil {
		slog.Error("Failed to migrate database",
			slog.String("error", err.Error()),
			slog.String("module", "main"),
		)
		os.Exit(1)
	}

	rdb := database.NewRedis(conf.Server.RedisAddr, conf.Server.RedisDB)
	mc := database.NewMemcached(conf.Server.MemcachedAddr)

	signatureRepo := repository.NewSignatureRepository(db)
	tokenRepo := repository.NewAuthTokenRepository(db)
	listingRepo := repository.NewListingRepository(db)
	forumRepo := repository.NewForumRepository(db)
	contentRepo := repository.NewContentRepository(db, mc)

	translator := gateway.NewTranslatorGateway(
		conf.Server.TranslatorEndpoint,
		conf.Server.TranslatorAPIKey,
		conf.Server.TranslatorModel,
	)
	mailer := gateway.NewMailGateway(
		conf.Server.MailEndpoint,
		conf.Server.MailAPIKey,
		conf.Site.MailFrom,
		conf.Site.Name,
	)

	translation := usecase.NewTranslationUsecase(translator)
	signature := usecase.NewSignatureUsecase(signatureRepo, tokenRepo, translation, mailer)
	auth := usecase.NewEditAuthUsecase(signatureRepo, tokenRepo, mailer)
	analytics := usecase.NewAnalyticsUsecase(listingRepo)
	forum := usecase.NewForumUsecase(forumRepo, translation)
	content := usecase.NewContentUsecase(contentRepo)

	signal := service.NewSignalService(rdb)

	handler := rest.NewHandler(signature, auth, analytics, forum, content, signal)

	e := echo.New()
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	if conf.Server.EnableTrace {
		e.Use(otelecho.Middleware(conf.Site.Name))
	}

	handler.RegisterRoutes(e)

	e.Logger.Fatal(e.Start(conf.Server.Listen))
}

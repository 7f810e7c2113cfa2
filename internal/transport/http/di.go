package http

import (
	"context"
	"fmt"
	"net/http"

	"connectrpc.com/connect"
	jobapp "github.com/astro-web3/bws-gateway/internal/app/job"
	"github.com/astro-web3/bws-gateway/internal/config"
	"github.com/astro-web3/bws-gateway/internal/domain/apikey"
	"github.com/astro-web3/bws-gateway/internal/infra/bws"
	"github.com/astro-web3/bws-gateway/internal/infra/credential"
	"github.com/astro-web3/bws-gateway/pkg/logger"
	"github.com/astro-web3/bws-gateway/pkg/metrics"
	"github.com/astro-web3/bws-gateway/pkg/otel"
	"github.com/astro-web3/bws-gateway/pkg/tracer"
)

type Server struct {
	httpServer *http.Server
}

const (
	idleTimeoutMultiplier = 2
	serviceName           = "bws-gateway"
)

// Version is stamped at build time.
//
//nolint:gochecknoglobals // set through -ldflags
var Version = "dev"

func NewServer(cfg *config.Config) (*Server, error) {
	logger.InitLogger(logger.Options{
		Level:     cfg.Observability.LogLevel,
		Format:    cfg.Observability.Format,
		AddSource: cfg.Observability.LogSource,
		Service:   serviceName,
	})

	otelCfg := otel.Config{
		ServiceName:        serviceName,
		ServiceVersion:     Version,
		EndpointURL:        cfg.Observability.TracingEndpointURL,
		Enabled:            cfg.Observability.TraceEnabled,
		SampleRatio:        1.0,
		Insecure:           true,
		ResourceAttributes: make(map[string]string),
	}
	if err := tracer.InitTracer(serviceName, otelCfg); err != nil {
		return nil, fmt.Errorf("failed to initialize tracer: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	signingKey, err := cfg.SigningKey()
	if err != nil {
		return nil, err
	}
	minter, err := credential.NewMinter(signingKey, cfg.BWS.ClientID, cfg.BWS.Audience)
	if err != nil {
		return nil, fmt.Errorf("failed to create credential minter: %w", err)
	}

	httpClient, err := bws.NewHTTPClient(cfg.BWS.Endpoint, cfg.BWS.Protocol)
	if err != nil {
		return nil, fmt.Errorf("failed to create bws http client: %w", err)
	}
	clientOpts, err := bws.ProtocolOptions(cfg.BWS.Protocol)
	if err != nil {
		return nil, fmt.Errorf("failed to configure bws protocol: %w", err)
	}
	clientOpts = append(clientOpts, connect.WithInterceptors(
		bws.TracingInterceptor(),
		bws.LoggingInterceptor(),
		bws.CredentialInterceptor(minter),
	))
	bwsClient := bws.NewClient(httpClient, cfg.BWS.Endpoint, clientOpts...)

	var m *metrics.Metrics
	if cfg.Observability.MetricsEnabled {
		m = metrics.New()
	}

	appService := jobapp.NewService(bwsClient, m)
	authenticator := apikey.NewAuthenticator(cfg.APIAuth.HeaderName, cfg.APIAuth.APIKey)

	handler := NewHandler(appService)
	router := NewRouter(handler, cfg, authenticator, m)

	httpServer := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.ReadTimeout * idleTimeoutMultiplier,
	}

	return &Server{
		httpServer: httpServer,
	}, nil
}

func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

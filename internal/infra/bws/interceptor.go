package bws

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"connectrpc.com/connect"
	"github.com/astro-web3/bws-gateway/pkg/logger"
	"github.com/astro-web3/bws-gateway/pkg/tracer"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

const bearerPrefix = "Bearer "

var errPanic = errors.New("internal error")

// TokenSource produces the credential attached to an outbound call.
type TokenSource interface {
	Token() (string, error)
}

// CredentialInterceptor mints a token for every outbound call and sends it as
// a bearer Authorization header.
func CredentialInterceptor(tokens TokenSource) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			if req.Spec().IsClient {
				token, err := tokens.Token()
				if err != nil {
					return nil, connect.NewError(connect.CodeInternal, fmt.Errorf("mint credential: %w", err))
				}
				req.Header().Set("Authorization", bearerPrefix+token)
			}
			return next(ctx, req)
		}
	}
}

// TracingInterceptor wraps outbound calls in a client span and propagates the
// trace context in the request headers.
func TracingInterceptor() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			if !req.Spec().IsClient {
				return next(ctx, req)
			}

			ctx, span := tracer.Start(ctx, "infra.bws"+req.Spec().Procedure,
				trace.WithSpanKind(trace.SpanKindClient),
				trace.WithAttributes(
					attribute.String("rpc.system", "grpc"),
					attribute.String("rpc.service", ServiceName),
					attribute.String("rpc.method", req.Spec().Procedure),
				),
			)
			defer span.End()

			otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header()))

			resp, err := next(ctx, req)
			if err != nil {
				span.RecordError(err)
				span.SetAttributes(attribute.String("rpc.connect.code", connect.CodeOf(err).String()))
				span.SetStatus(codes.Error, err.Error())
				return resp, err
			}
			span.SetStatus(codes.Ok, "")
			return resp, nil
		}
	}
}

func RecoveryInterceptor() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (resp connect.AnyResponse, err error) {
			defer func() {
				if r := recover(); r != nil {
					logger.ErrorContext(ctx, "panic recovered",
						slog.String("procedure", req.Spec().Procedure),
						slog.Any("panic", r),
					)
					resp, err = nil, connect.NewError(connect.CodeInternal, errPanic)
				}
			}()
			return next(ctx, req)
		}
	}
}

func LoggingInterceptor() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			start := time.Now()
			resp, err := next(ctx, req)
			duration := time.Since(start)

			if err != nil {
				logger.ErrorContext(ctx, "rpc failed",
					slog.String("method", req.Spec().Procedure),
					slog.Duration("duration", duration),
					slog.String("code", connect.CodeOf(err).String()),
					slog.String("error", err.Error()),
				)
			} else {
				logger.DebugContext(ctx, "rpc completed",
					slog.String("method", req.Spec().Procedure),
					slog.Duration("duration", duration),
				)
			}

			return resp, err
		}
	}
}

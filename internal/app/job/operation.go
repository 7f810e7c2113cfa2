package job

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"connectrpc.com/connect"
	jobdomain "github.com/astro-web3/bws-gateway/internal/domain/job"
	"github.com/astro-web3/bws-gateway/pkg/bwswire"
	"github.com/astro-web3/bws-gateway/pkg/logger"
	"github.com/astro-web3/bws-gateway/pkg/metrics"
	"github.com/astro-web3/bws-gateway/pkg/tracer"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// Result is a decoded downstream response together with the response
// metadata the service sent back.
type Result[Out any] struct {
	Body   *Out
	Header http.Header
}

// Operation is the pipeline shared by every job type: encode the JSON
// envelope, call the service with the correlation header, decode the reply.
// In and Out are JSON envelopes, Req and Res are wire messages.
type Operation[In, Req, Res, Out any] struct {
	Name    string
	Encode  func(*In) (*Req, error)
	Invoke  func(context.Context, *connect.Request[Req]) (*connect.Response[Res], error)
	Decode  func(*Res) *Out
	Status  func(*Res) bwswire.JobStatus
	Metrics *metrics.Metrics
}

// Execute runs one job. Validation failures are returned before the service
// is contacted. The correlation header is always forwarded, empty when the
// caller sent none.
func (o *Operation[In, Req, Res, Out]) Execute(
	ctx context.Context,
	in *In,
	referenceNumber string,
) (*Result[Out], error) {
	ctx, span := tracer.Start(ctx, "app.job."+o.Name)
	defer span.End()

	span.SetAttributes(
		attribute.String("job.operation", o.Name),
		attribute.Bool("job.reference_number", referenceNumber != ""),
	)

	msg, err := o.Encode(in)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		if jobdomain.IsValidationError(err) {
			logger.ErrorContext(ctx, "job request rejected",
				slog.String("operation", o.Name),
				slog.String("error", err.Error()),
			)
		} else {
			logger.ErrorContext(ctx, "unexpected error while encoding job request",
				slog.String("operation", o.Name),
				slog.String("error", err.Error()),
			)
		}
		return nil, err
	}

	req := connect.NewRequest(msg)
	req.Header().Set(jobdomain.ReferenceNumberHeader, referenceNumber)

	start := time.Now()
	resp, err := o.Invoke(ctx, req)
	o.Metrics.ObserveDownstream(o.Name, err, time.Since(start))

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())

		var connectErr *connect.Error
		if errors.As(err, &connectErr) {
			logger.ErrorContext(ctx, "downstream call failed",
				slog.String("operation", o.Name),
				slog.String("code", connectErr.Code().String()),
				slog.String("detail", connectErr.Message()),
			)
		} else {
			logger.ErrorContext(ctx, "unexpected error while calling downstream",
				slog.String("operation", o.Name),
				slog.String("error", err.Error()),
			)
		}
		return nil, err
	}

	status := o.Status(resp.Msg)
	span.SetAttributes(attribute.String("job.status", status.String()))
	logger.InfoContext(ctx, "downstream call returned",
		slog.String("operation", o.Name),
		slog.String("status", status.String()),
	)

	return &Result[Out]{
		Body:   o.Decode(resp.Msg),
		Header: resp.Header().Clone(),
	}, nil
}

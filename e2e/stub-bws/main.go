package main

import (
	"context"
	"encoding/base64"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"connectrpc.com/connect"
	jobdomain "github.com/astro-web3/bws-gateway/internal/domain/job"
	"github.com/astro-web3/bws-gateway/internal/infra/bws"
	"github.com/astro-web3/bws-gateway/internal/infra/credential"
	"github.com/astro-web3/bws-gateway/pkg/bwswire"
	"github.com/astro-web3/bws-gateway/pkg/logger"
)

const (
	defaultAddr     = ":5000"
	defaultAudience = "bws"
	readTimeout     = 30 * time.Second
)

// stub answers every job with a fixed result. When a signing key is
// configured it verifies the bearer credential the way BWS does.
type stub struct {
	key      []byte
	audience string
}

func (s *stub) authorize(ctx context.Context, header http.Header) error {
	if s.key == nil {
		return nil
	}
	token, ok := strings.CutPrefix(header.Get("Authorization"), "Bearer ")
	if !ok {
		return connect.NewError(connect.CodeUnauthenticated, errors.New("missing bearer credential"))
	}
	claims, err := credential.Parse(token, s.key, s.audience)
	if err != nil {
		return connect.NewError(connect.CodeUnauthenticated, err)
	}
	logger.InfoContext(ctx, "credential accepted",
		slog.String("client_id", claims.Subject),
		slog.String("jti", claims.ID),
	)
	return nil
}

func echo(dst, src http.Header) {
	dst.Set(jobdomain.ReferenceNumberHeader, src.Get(jobdomain.ReferenceNumberHeader))
	dst.Set("X-Stub-Received-At", time.Now().UTC().Format(time.RFC3339))
}

func (s *stub) LivenessDetection(
	ctx context.Context,
	req *connect.Request[bwswire.LivenessDetectionRequest],
) (*connect.Response[bwswire.LivenessDetectionResponse], error) {
	if err := s.authorize(ctx, req.Header()); err != nil {
		return nil, err
	}

	props := make([]*bwswire.ImageProperties, 0, len(req.Msg.LiveImages))
	for i, img := range req.Msg.LiveImages {
		props = append(props, imageProperties(img.Image, int32(i))) //nolint:gosec // at most two images
	}

	res := connect.NewResponse(&bwswire.LivenessDetectionResponse{
		Status:          bwswire.JobStatusSucceeded,
		ImageProperties: props,
		Live:            len(req.Msg.LiveImages) == 2,
		LivenessScore:   livenessScore(len(req.Msg.LiveImages)),
	})
	echo(res.Header(), req.Header())
	return res, nil
}

func (s *stub) PhotoVerify(
	ctx context.Context,
	req *connect.Request[bwswire.PhotoVerifyRequest],
) (*connect.Response[bwswire.PhotoVerifyResponse], error) {
	if err := s.authorize(ctx, req.Header()); err != nil {
		return nil, err
	}

	res := connect.NewResponse(&bwswire.PhotoVerifyResponse{
		Status:            bwswire.JobStatusSucceeded,
		PhotoProperties:   imageProperties(req.Msg.Photo, 0),
		VerificationLevel: bwswire.AccuracyLevel4,
		VerificationScore: 0.87,
		Live:              !req.Msg.DisableLivenessDetection && len(req.Msg.LiveImages) == 2,
	})
	for i, img := range req.Msg.LiveImages {
		res.Msg.ImageProperties = append(res.Msg.ImageProperties, imageProperties(img.Image, int32(i))) //nolint:gosec // at most two images
	}
	echo(res.Header(), req.Header())
	return res, nil
}

func (s *stub) VideoLivenessDetection(
	ctx context.Context,
	req *connect.Request[bwswire.VideoLivenessDetectionRequest],
) (*connect.Response[bwswire.LivenessDetectionResponse], error) {
	if err := s.authorize(ctx, req.Header()); err != nil {
		return nil, err
	}
	if len(req.Msg.Video) == 0 {
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("empty video"))
	}

	res := connect.NewResponse(&bwswire.LivenessDetectionResponse{
		Status:        bwswire.JobStatusSucceeded,
		Live:          true,
		LivenessScore: 0.93,
		ImageProperties: []*bwswire.ImageProperties{
			imageProperties(req.Msg.Video, 0),
		},
	})
	echo(res.Header(), req.Header())
	return res, nil
}

func imageProperties(data []byte, frame int32) *bwswire.ImageProperties {
	return &bwswire.ImageProperties{
		Faces: []*bwswire.Face{{
			LeftEye:  &bwswire.PointD{X: 120, Y: 140},
			RightEye: &bwswire.PointD{X: 180, Y: 140},
		}},
		QualityScore: 0.8,
		QualityAssessments: []*bwswire.QualityAssessment{{
			Check:   "ImageSize",
			Score:   1,
			Message: strconv.Itoa(len(data)) + " bytes",
		}},
		FrameNumber: frame,
	}
}

func livenessScore(images int) float64 {
	if images == 2 {
		return 0.95
	}
	return 0.5
}

func main() {
	logger.InitLogger(logger.Options{Level: "debug", Format: "text", Service: "stub-bws"})

	addr := defaultAddr
	if v := os.Getenv("STUB_ADDR"); v != "" {
		addr = v
	}

	s := &stub{audience: defaultAudience}
	if v := os.Getenv("STUB_AUDIENCE"); v != "" {
		s.audience = v
	}
	if v := os.Getenv("STUB_ACCESS_KEY"); v != "" {
		key, err := base64.StdEncoding.DecodeString(v)
		if err != nil {
			log.Fatalf("STUB_ACCESS_KEY is not valid base64: %v", err)
		}
		s.key = key
	}

	mux := http.NewServeMux()
	mux.Handle(bws.NewHandler(s, connect.WithInterceptors(
		bws.RecoveryInterceptor(),
		bws.LoggingInterceptor(),
	)))

	protocols := new(http.Protocols)
	protocols.SetHTTP1(true)
	protocols.SetUnencryptedHTTP2(true)

	server := &http.Server{
		Addr:        addr,
		Handler:     mux,
		Protocols:   protocols,
		ReadTimeout: readTimeout,
	}

	log.Printf("Stub BWS listening on %s (credential check: %t)", addr, s.key != nil)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("Server failed: %v", err)
	}
}

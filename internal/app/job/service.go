package job

import (
	"context"

	jobdomain "github.com/astro-web3/bws-gateway/internal/domain/job"
	"github.com/astro-web3/bws-gateway/internal/infra/bws"
	"github.com/astro-web3/bws-gateway/pkg/bwswire"
	"github.com/astro-web3/bws-gateway/pkg/metrics"
)

const (
	OperationLivenessDetection      = "LivenessDetection"
	OperationPhotoVerify            = "PhotoVerify"
	OperationVideoLivenessDetection = "VideoLivenessDetection"
)

type (
	LivenessDetectionOperation = Operation[
		jobdomain.LivenessDetectionRequest,
		bwswire.LivenessDetectionRequest,
		bwswire.LivenessDetectionResponse,
		jobdomain.LivenessDetectionResponse,
	]
	PhotoVerifyOperation = Operation[
		jobdomain.PhotoVerifyRequest,
		bwswire.PhotoVerifyRequest,
		bwswire.PhotoVerifyResponse,
		jobdomain.PhotoVerifyResponse,
	]
	VideoLivenessDetectionOperation = Operation[
		jobdomain.VideoLivenessDetectionRequest,
		bwswire.VideoLivenessDetectionRequest,
		bwswire.LivenessDetectionResponse,
		jobdomain.LivenessDetectionResponse,
	]
)

type Service interface {
	LivenessDetection(
		ctx context.Context,
		in *jobdomain.LivenessDetectionRequest,
		referenceNumber string,
	) (*Result[jobdomain.LivenessDetectionResponse], error)
	PhotoVerify(
		ctx context.Context,
		in *jobdomain.PhotoVerifyRequest,
		referenceNumber string,
	) (*Result[jobdomain.PhotoVerifyResponse], error)
	VideoLivenessDetection(
		ctx context.Context,
		in *jobdomain.VideoLivenessDetectionRequest,
		referenceNumber string,
	) (*Result[jobdomain.LivenessDetectionResponse], error)
}

type service struct {
	livenessDetection      *LivenessDetectionOperation
	photoVerify            *PhotoVerifyOperation
	videoLivenessDetection *VideoLivenessDetectionOperation
}

// NewService wires the three job types to client. m may be nil.
func NewService(client bws.Client, m *metrics.Metrics) Service {
	return &service{
		livenessDetection: &LivenessDetectionOperation{
			Name:    OperationLivenessDetection,
			Encode:  jobdomain.EncodeLivenessDetection,
			Invoke:  client.LivenessDetection,
			Decode:  jobdomain.DecodeLivenessDetection,
			Status:  livenessStatus,
			Metrics: m,
		},
		photoVerify: &PhotoVerifyOperation{
			Name:    OperationPhotoVerify,
			Encode:  jobdomain.EncodePhotoVerify,
			Invoke:  client.PhotoVerify,
			Decode:  jobdomain.DecodePhotoVerify,
			Status:  func(res *bwswire.PhotoVerifyResponse) bwswire.JobStatus { return res.Status },
			Metrics: m,
		},
		videoLivenessDetection: &VideoLivenessDetectionOperation{
			Name:    OperationVideoLivenessDetection,
			Encode:  jobdomain.EncodeVideoLivenessDetection,
			Invoke:  client.VideoLivenessDetection,
			Decode:  jobdomain.DecodeLivenessDetection,
			Status:  livenessStatus,
			Metrics: m,
		},
	}
}

func livenessStatus(res *bwswire.LivenessDetectionResponse) bwswire.JobStatus {
	return res.Status
}

func (s *service) LivenessDetection(
	ctx context.Context,
	in *jobdomain.LivenessDetectionRequest,
	referenceNumber string,
) (*Result[jobdomain.LivenessDetectionResponse], error) {
	return s.livenessDetection.Execute(ctx, in, referenceNumber)
}

func (s *service) PhotoVerify(
	ctx context.Context,
	in *jobdomain.PhotoVerifyRequest,
	referenceNumber string,
) (*Result[jobdomain.PhotoVerifyResponse], error) {
	return s.photoVerify.Execute(ctx, in, referenceNumber)
}

func (s *service) VideoLivenessDetection(
	ctx context.Context,
	in *jobdomain.VideoLivenessDetectionRequest,
	referenceNumber string,
) (*Result[jobdomain.LivenessDetectionResponse], error) {
	return s.videoLivenessDetection.Execute(ctx, in, referenceNumber)
}

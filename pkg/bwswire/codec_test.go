package bwswire_test

import (
	"testing"

	"github.com/astro-web3/bws-gateway/pkg/bwswire"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/encoding/protowire"
)

func TestImageData_MarshalWire_KnownBytes(t *testing.T) {
	msg := &bwswire.ImageData{Image: []byte{0x01, 0x02}, Tags: []string{"t1"}}

	got, err := msg.MarshalWire()
	require.NoError(t, err)

	want := []byte{
		0x0a, 0x02, 0x01, 0x02, // image = 1
		0x12, 0x02, 't', '1', // tags = 2
	}
	assert.Equal(t, want, got)
}

func TestPhotoVerifyRequest_ZeroValuesAreOmitted(t *testing.T) {
	got, err := (&bwswire.PhotoVerifyRequest{}).MarshalWire()
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = (&bwswire.PhotoVerifyRequest{DisableLivenessDetection: true}).MarshalWire()
	require.NoError(t, err)
	assert.Equal(t, []byte{0x18, 0x01}, got)
}

func TestLivenessDetectionRequest_EmptyImageIsStillAnEntry(t *testing.T) {
	req := &bwswire.LivenessDetectionRequest{LiveImages: []*bwswire.ImageData{{}}}

	data, err := req.MarshalWire()
	require.NoError(t, err)
	assert.Equal(t, []byte{0x0a, 0x00}, data)

	var decoded bwswire.LivenessDetectionRequest
	require.NoError(t, decoded.UnmarshalWire(data))
	require.Len(t, decoded.LiveImages, 1)
	assert.Empty(t, decoded.LiveImages[0].Image)
	assert.Empty(t, decoded.LiveImages[0].Tags)
}

func TestPhotoVerifyRequest_RoundTrip(t *testing.T) {
	req := &bwswire.PhotoVerifyRequest{
		LiveImages: []*bwswire.ImageData{
			{Image: []byte("first")},
			{Image: []byte("second"), Tags: []string{"up", "left"}},
		},
		Photo:                    []byte{0x00, 0xff, 0x10},
		DisableLivenessDetection: true,
	}

	data, err := bwswire.Codec{}.Marshal(req)
	require.NoError(t, err)

	var decoded bwswire.PhotoVerifyRequest
	require.NoError(t, bwswire.Codec{}.Unmarshal(data, &decoded))
	assert.Equal(t, req, &decoded)
}

func TestPhotoVerifyResponse_RoundTrip(t *testing.T) {
	res := &bwswire.PhotoVerifyResponse{
		Status: bwswire.JobStatusFaulted,
		Errors: []*bwswire.JobError{
			{ErrorCode: "FaceNotFound", Message: "no face"},
			{ErrorCode: "MultipleFacesFound", Message: "two faces"},
		},
		ImageProperties: []*bwswire.ImageProperties{{
			Rotated: -90,
			Faces: []*bwswire.Face{{
				LeftEye:              &bwswire.PointD{X: 10.5, Y: 20.25},
				RightEye:             &bwswire.PointD{X: 30, Y: -4},
				TextureLivenessScore: 0.9,
				MotionLivenessScore:  0.8,
				MovementDirection:    1.5,
			}},
			QualityScore:       0.75,
			QualityAssessments: []*bwswire.QualityAssessment{{Check: "Blur", Score: 0.1, Message: "sharp"}},
			FrameNumber:        3,
		}},
		PhotoProperties:   &bwswire.ImageProperties{QualityScore: 0.5},
		VerificationLevel: bwswire.AccuracyLevel4,
		VerificationScore: 0.97,
		Live:              true,
		LivenessScore:     0.88,
	}

	data, err := res.MarshalWire()
	require.NoError(t, err)

	var decoded bwswire.PhotoVerifyResponse
	require.NoError(t, decoded.UnmarshalWire(data))
	assert.Equal(t, res, &decoded)
}

func TestLivenessDetectionResponse_SkipsUnknownFields(t *testing.T) {
	var data []byte
	data = protowire.AppendTag(data, 99, protowire.BytesType)
	data = protowire.AppendString(data, "future field")
	data = protowire.AppendTag(data, 4, protowire.VarintType)
	data = protowire.AppendVarint(data, 1)
	data = protowire.AppendTag(data, 98, protowire.Fixed32Type)
	data = protowire.AppendFixed32(data, 7)
	data = protowire.AppendTag(data, 1, protowire.VarintType)
	data = protowire.AppendVarint(data, uint64(bwswire.JobStatusCancelled))

	var decoded bwswire.LivenessDetectionResponse
	require.NoError(t, decoded.UnmarshalWire(data))
	assert.True(t, decoded.Live)
	assert.Equal(t, bwswire.JobStatusCancelled, decoded.Status)
}

func TestUnmarshal_TruncatedInput(t *testing.T) {
	data, err := (&bwswire.VideoLivenessDetectionRequest{Video: []byte("0123456789")}).MarshalWire()
	require.NoError(t, err)

	var decoded bwswire.VideoLivenessDetectionRequest
	err = bwswire.Codec{}.Unmarshal(data[:len(data)-3], &decoded)
	require.Error(t, err)
}

func TestCodec_RejectsForeignTypes(t *testing.T) {
	_, err := bwswire.Codec{}.Marshal("not a message")
	require.Error(t, err)

	var s string
	require.Error(t, bwswire.Codec{}.Unmarshal(nil, &s))
	assert.Equal(t, "proto", bwswire.Codec{}.Name())
}

func TestEnumNames(t *testing.T) {
	assert.Equal(t, "SUCCEEDED", bwswire.JobStatusSucceeded.String())
	assert.Equal(t, "CANCELLED", bwswire.JobStatusCancelled.String())
	assert.Equal(t, "JOB_STATUS_7", bwswire.JobStatus(7).String())
	assert.Equal(t, "LEVEL_5", bwswire.AccuracyLevel5.String())
	assert.Equal(t, "NOT_RECOGNIZED", bwswire.AccuracyLevelNotRecognized.String())
}

package job_test

import (
	"encoding/base64"
	"encoding/json"
	"testing"

	"github.com/astro-web3/bws-gateway/internal/domain/job"
	"github.com/astro-web3/bws-gateway/pkg/bwswire"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func b64(s string) string { return base64.StdEncoding.EncodeToString([]byte(s)) }

func TestEncodeLivenessDetection(t *testing.T) {
	t.Run("single image carries no tags", func(t *testing.T) {
		msg, err := job.EncodeLivenessDetection(&job.LivenessDetectionRequest{
			LiveImages: []job.ImageData{{Image: b64("img1"), Tags: []string{"ignored"}}},
		})
		require.NoError(t, err)
		require.Len(t, msg.LiveImages, 1)
		assert.Equal(t, []byte("img1"), msg.LiveImages[0].Image)
		assert.Empty(t, msg.LiveImages[0].Tags)
	})

	t.Run("second image keeps tags in order", func(t *testing.T) {
		msg, err := job.EncodeLivenessDetection(&job.LivenessDetectionRequest{
			LiveImages: []job.ImageData{
				{Image: b64("img1")},
				{Image: b64("img2"), Tags: []string{"t1", "t2"}},
			},
		})
		require.NoError(t, err)
		require.Len(t, msg.LiveImages, 2)
		assert.Equal(t, []byte("img2"), msg.LiveImages[1].Image)
		assert.Equal(t, []string{"t1", "t2"}, msg.LiveImages[1].Tags)
	})

	t.Run("empty second image is dropped", func(t *testing.T) {
		msg, err := job.EncodeLivenessDetection(&job.LivenessDetectionRequest{
			LiveImages: []job.ImageData{
				{Image: b64("img1")},
				{Image: "", Tags: []string{"t1"}},
			},
		})
		require.NoError(t, err)
		assert.Len(t, msg.LiveImages, 1)
	})

	t.Run("images beyond the second are ignored", func(t *testing.T) {
		msg, err := job.EncodeLivenessDetection(&job.LivenessDetectionRequest{
			LiveImages: []job.ImageData{{Image: b64("a")}, {Image: b64("b")}, {Image: b64("c")}},
		})
		require.NoError(t, err)
		assert.Len(t, msg.LiveImages, 2)
	})

	t.Run("no images", func(t *testing.T) {
		_, err := job.EncodeLivenessDetection(&job.LivenessDetectionRequest{})
		require.ErrorIs(t, err, job.ErrNoLiveImages)
		assert.True(t, job.IsValidationError(err))
	})

	t.Run("malformed base64 is not a validation error", func(t *testing.T) {
		_, err := job.EncodeLivenessDetection(&job.LivenessDetectionRequest{
			LiveImages: []job.ImageData{{Image: "!!not-base64!!"}},
		})
		require.Error(t, err)
		assert.False(t, job.IsValidationError(err))
		assert.Contains(t, err.Error(), "liveImages[0].image")
	})

	t.Run("base64 with line breaks", func(t *testing.T) {
		encoded := b64("a longer image payload")
		wrapped := encoded[:8] + "\r\n" + encoded[8:16] + " \n" + encoded[16:]
		msg, err := job.EncodeLivenessDetection(&job.LivenessDetectionRequest{
			LiveImages: []job.ImageData{{Image: wrapped}},
		})
		require.NoError(t, err)
		assert.Equal(t, []byte("a longer image payload"), msg.LiveImages[0].Image)
	})
}

func TestEncodePhotoVerify(t *testing.T) {
	t.Run("empty photo and no images", func(t *testing.T) {
		_, err := job.EncodePhotoVerify(&job.PhotoVerifyRequest{})
		require.ErrorIs(t, err, job.ErrInvalidParameter)
		assert.Equal(t, "Invalid parameter", err.Error())
	})

	t.Run("photo only", func(t *testing.T) {
		msg, err := job.EncodePhotoVerify(&job.PhotoVerifyRequest{Photo: b64("id-photo")})
		require.NoError(t, err)
		assert.Equal(t, []byte("id-photo"), msg.Photo)
		require.Len(t, msg.LiveImages, 1)
		assert.Empty(t, msg.LiveImages[0].Image)
	})

	t.Run("full request", func(t *testing.T) {
		msg, err := job.EncodePhotoVerify(&job.PhotoVerifyRequest{
			LiveImages: []job.ImageData{
				{Image: b64("live1")},
				{Image: b64("live2"), Tags: []string{"up"}},
			},
			Photo:                    b64("id-photo"),
			DisableLivenessDetection: true,
		})
		require.NoError(t, err)
		assert.True(t, msg.DisableLivenessDetection)
		require.Len(t, msg.LiveImages, 2)
		assert.Equal(t, []string{"up"}, msg.LiveImages[1].Tags)
	})

	t.Run("malformed photo", func(t *testing.T) {
		_, err := job.EncodePhotoVerify(&job.PhotoVerifyRequest{Photo: "%%%"})
		require.Error(t, err)
		assert.False(t, job.IsValidationError(err))
	})
}

func TestEncodeVideoLivenessDetection(t *testing.T) {
	for _, video := range []string{"", "   ", "\n\t"} {
		_, err := job.EncodeVideoLivenessDetection(&job.VideoLivenessDetectionRequest{Video: video})
		require.ErrorIs(t, err, job.ErrMissingVideo)
		assert.Equal(t, "No video file provided.", err.Error())
	}

	msg, err := job.EncodeVideoLivenessDetection(&job.VideoLivenessDetectionRequest{Video: b64("mp4 bytes")})
	require.NoError(t, err)
	assert.Equal(t, []byte("mp4 bytes"), msg.Video)

	_, err = job.EncodeVideoLivenessDetection(&job.VideoLivenessDetectionRequest{Video: "abc"})
	require.Error(t, err)
	assert.False(t, job.IsValidationError(err))
}

func TestEncode_LoopbackPreservesPayloads(t *testing.T) {
	photo := []byte{0x00, 0x01, 0xfe, 0xff}
	live1 := []byte("\x89PNG\r\n\x1a\nfirst")
	live2 := []byte("\xff\xd8\xffsecond")

	msg, err := job.EncodePhotoVerify(&job.PhotoVerifyRequest{
		LiveImages: []job.ImageData{
			{Image: base64.StdEncoding.EncodeToString(live1)},
			{Image: base64.StdEncoding.EncodeToString(live2), Tags: []string{"left", "right"}},
		},
		Photo: base64.StdEncoding.EncodeToString(photo),
	})
	require.NoError(t, err)

	data, err := msg.MarshalWire()
	require.NoError(t, err)

	var decoded bwswire.PhotoVerifyRequest
	require.NoError(t, decoded.UnmarshalWire(data))
	assert.Equal(t, photo, decoded.Photo)
	assert.Equal(t, live1, decoded.LiveImages[0].Image)
	assert.Equal(t, live2, decoded.LiveImages[1].Image)
	assert.Equal(t, []string{"left", "right"}, decoded.LiveImages[1].Tags)

	video := []byte("\x00\x00\x00\x18ftypmp42")
	vmsg, err := job.EncodeVideoLivenessDetection(&job.VideoLivenessDetectionRequest{
		Video: base64.StdEncoding.EncodeToString(video),
	})
	require.NoError(t, err)
	vdata, err := vmsg.MarshalWire()
	require.NoError(t, err)

	var vdecoded bwswire.VideoLivenessDetectionRequest
	require.NoError(t, vdecoded.UnmarshalWire(vdata))
	assert.Equal(t, video, vdecoded.Video)
}

func TestDecodePhotoVerify(t *testing.T) {
	res := job.DecodePhotoVerify(&bwswire.PhotoVerifyResponse{
		Status: bwswire.JobStatusFaulted,
		Errors: []*bwswire.JobError{
			{ErrorCode: "FaceNotFound", Message: "first"},
			{ErrorCode: "ImageTooSmall", Message: "second"},
		},
		ImageProperties: []*bwswire.ImageProperties{{
			Faces:       []*bwswire.Face{{LeftEye: &bwswire.PointD{X: 1, Y: 2}}},
			FrameNumber: 4,
		}},
		VerificationLevel: bwswire.AccuracyLevel3,
		VerificationScore: 0.6,
		Live:              true,
		LivenessScore:     0.7,
	})

	assert.Equal(t, job.JobStatus(bwswire.JobStatusFaulted), res.Status)
	require.Len(t, res.Errors, 2)
	assert.Equal(t, "FaceNotFound", res.Errors[0].ErrorCode)
	assert.Equal(t, "ImageTooSmall", res.Errors[1].ErrorCode)
	assert.Equal(t, job.PointD{X: 1, Y: 2}, res.ImageProperties[0].Faces[0].LeftEye)
	assert.Equal(t, job.PointD{}, res.ImageProperties[0].Faces[0].RightEye)
	assert.Equal(t, int32(4), res.ImageProperties[0].FrameNumber)
	assert.Equal(t, job.AccuracyLevel(bwswire.AccuracyLevel3), res.VerificationLevel)
	assert.Empty(t, res.PhotoProperties.Faces)
	assert.True(t, res.Live)

	body, err := json.Marshal(res)
	require.NoError(t, err)
	assert.Contains(t, string(body), `"status":"FAULTED"`)
	assert.Contains(t, string(body), `"verificationLevel":"LEVEL_3"`)
	assert.Contains(t, string(body), `"photoProperties":{"rotated":0,"faces":[],`)
}

func TestDecodeLivenessDetection_EmptyResponse(t *testing.T) {
	res := job.DecodeLivenessDetection(&bwswire.LivenessDetectionResponse{})

	body, err := json.Marshal(res)
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"status":"SUCCEEDED","errors":[],"imageProperties":[],"live":false,"livenessScore":0}`,
		string(body))
}

func TestJobStatusJSON(t *testing.T) {
	body, err := json.Marshal(job.JobStatus(9))
	require.NoError(t, err)
	assert.Equal(t, "9", string(body))

	var s job.JobStatus
	require.NoError(t, json.Unmarshal([]byte(`"CANCELLED"`), &s))
	assert.Equal(t, job.JobStatus(bwswire.JobStatusCancelled), s)

	require.NoError(t, json.Unmarshal([]byte(`1`), &s))
	assert.Equal(t, job.JobStatus(bwswire.JobStatusFaulted), s)

	require.Error(t, json.Unmarshal([]byte(`"BOGUS"`), &s))

	var l job.AccuracyLevel
	require.NoError(t, json.Unmarshal([]byte(`"LEVEL_2"`), &l))
	assert.Equal(t, job.AccuracyLevel(bwswire.AccuracyLevel2), l)
}

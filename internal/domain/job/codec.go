package job

import (
	"encoding/base64"
	"fmt"
	"strings"
	"unicode"

	"github.com/astro-web3/bws-gateway/pkg/bwswire"
)

// maxLiveImages is the number of live images a job forwards; further entries
// are ignored.
const maxLiveImages = 2

// EncodeLivenessDetection maps a LivenessDetection request onto the wire
// message. At least one live image entry must be present.
func EncodeLivenessDetection(in *LivenessDetectionRequest) (*bwswire.LivenessDetectionRequest, error) {
	if len(in.LiveImages) == 0 {
		return nil, ErrNoLiveImages
	}

	images, err := encodeLiveImages(in.LiveImages)
	if err != nil {
		return nil, err
	}

	return &bwswire.LivenessDetectionRequest{LiveImages: images}, nil
}

// EncodePhotoVerify maps a PhotoVerify request onto the wire message. Either
// the photo or the first live image must carry data.
func EncodePhotoVerify(in *PhotoVerifyRequest) (*bwswire.PhotoVerifyRequest, error) {
	photo, err := decodeBase64(in.Photo)
	if err != nil {
		return nil, fmt.Errorf("photo: %w", err)
	}

	images, err := encodeLiveImages(in.LiveImages)
	if err != nil {
		return nil, err
	}

	if len(images[0].Image) == 0 && len(photo) == 0 {
		return nil, ErrInvalidParameter
	}

	return &bwswire.PhotoVerifyRequest{
		LiveImages:               images,
		Photo:                    photo,
		DisableLivenessDetection: in.DisableLivenessDetection,
	}, nil
}

// EncodeVideoLivenessDetection maps a VideoLivenessDetection request onto the
// wire message. An empty or blank video is rejected.
func EncodeVideoLivenessDetection(
	in *VideoLivenessDetectionRequest,
) (*bwswire.VideoLivenessDetectionRequest, error) {
	if strings.TrimSpace(in.Video) == "" {
		return nil, ErrMissingVideo
	}

	video, err := decodeBase64(in.Video)
	if err != nil {
		return nil, fmt.Errorf("video: %w", err)
	}
	if len(video) == 0 {
		return nil, ErrMissingVideo
	}

	return &bwswire.VideoLivenessDetectionRequest{Video: video}, nil
}

// encodeLiveImages always yields the first image entry, possibly empty. The
// second entry is only added when it carries data, and only it keeps its tags.
func encodeLiveImages(in []ImageData) ([]*bwswire.ImageData, error) {
	decoded := make([][]byte, maxLiveImages)
	for i := 0; i < len(in) && i < maxLiveImages; i++ {
		b, err := decodeBase64(in[i].Image)
		if err != nil {
			return nil, fmt.Errorf("liveImages[%d].image: %w", i, err)
		}
		decoded[i] = b
	}

	images := []*bwswire.ImageData{{Image: decoded[0]}}
	if len(decoded[1]) > 0 {
		second := &bwswire.ImageData{Image: decoded[1]}
		if len(in[1].Tags) > 0 {
			second.Tags = append([]string(nil), in[1].Tags...)
		}
		images = append(images, second)
	}

	return images, nil
}

func decodeBase64(s string) ([]byte, error) {
	s = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
	if s == "" {
		return nil, nil
	}

	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid base64 data: %w", err)
	}
	return b, nil
}

// DecodeLivenessDetection maps the wire response of LivenessDetection and
// VideoLivenessDetection onto the JSON response.
func DecodeLivenessDetection(res *bwswire.LivenessDetectionResponse) *LivenessDetectionResponse {
	return &LivenessDetectionResponse{
		Status:          JobStatus(res.Status),
		Errors:          decodeJobErrors(res.Errors),
		ImageProperties: decodeImagePropertiesList(res.ImageProperties),
		Live:            res.Live,
		LivenessScore:   res.LivenessScore,
	}
}

func DecodePhotoVerify(res *bwswire.PhotoVerifyResponse) *PhotoVerifyResponse {
	return &PhotoVerifyResponse{
		Status:            JobStatus(res.Status),
		Errors:            decodeJobErrors(res.Errors),
		ImageProperties:   decodeImagePropertiesList(res.ImageProperties),
		PhotoProperties:   decodeImageProperties(res.PhotoProperties),
		VerificationLevel: AccuracyLevel(res.VerificationLevel),
		VerificationScore: res.VerificationScore,
		Live:              res.Live,
		LivenessScore:     res.LivenessScore,
	}
}

func decodeJobErrors(in []*bwswire.JobError) []JobError {
	out := make([]JobError, 0, len(in))
	for _, e := range in {
		if e == nil {
			out = append(out, JobError{})
			continue
		}
		out = append(out, JobError{ErrorCode: e.ErrorCode, Message: e.Message})
	}
	return out
}

func decodeImagePropertiesList(in []*bwswire.ImageProperties) []ImageProperties {
	out := make([]ImageProperties, 0, len(in))
	for _, p := range in {
		out = append(out, decodeImageProperties(p))
	}
	return out
}

func decodeImageProperties(in *bwswire.ImageProperties) ImageProperties {
	out := ImageProperties{
		Faces:              []Face{},
		QualityAssessments: []QualityAssessment{},
	}
	if in == nil {
		return out
	}

	out.Rotated = in.Rotated
	out.QualityScore = in.QualityScore
	out.FrameNumber = in.FrameNumber
	for _, f := range in.Faces {
		if f == nil {
			out.Faces = append(out.Faces, Face{})
			continue
		}
		out.Faces = append(out.Faces, Face{
			LeftEye:              decodePoint(f.LeftEye),
			RightEye:             decodePoint(f.RightEye),
			TextureLivenessScore: f.TextureLivenessScore,
			MotionLivenessScore:  f.MotionLivenessScore,
			MovementDirection:    f.MovementDirection,
		})
	}
	for _, qa := range in.QualityAssessments {
		if qa == nil {
			out.QualityAssessments = append(out.QualityAssessments, QualityAssessment{})
			continue
		}
		out.QualityAssessments = append(out.QualityAssessments, QualityAssessment{
			Check:   qa.Check,
			Score:   qa.Score,
			Message: qa.Message,
		})
	}
	return out
}

func decodePoint(p *bwswire.PointD) PointD {
	if p == nil {
		return PointD{}
	}
	return PointD{X: p.X, Y: p.Y}
}

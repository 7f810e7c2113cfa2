package job

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/astro-web3/bws-gateway/pkg/bwswire"
)

// ReferenceNumberHeader carries the caller's correlation token. It is
// forwarded to the downstream call unchanged.
const ReferenceNumberHeader = "Reference-Number"

// ImageData is one base64 encoded live image. Tags are only meaningful on the
// second image of a challenge-response liveness check.
type ImageData struct {
	Image string   `json:"image"`
	Tags  []string `json:"tags"`
}

type LivenessDetectionRequest struct {
	LiveImages []ImageData `json:"liveImages"`
}

type VideoLivenessDetectionRequest struct {
	Video string `json:"video"`
}

type PhotoVerifyRequest struct {
	LiveImages               []ImageData `json:"liveImages"`
	Photo                    string      `json:"photo"`
	DisableLivenessDetection bool        `json:"disableLivenessDetection"`
}

type JobError struct {
	ErrorCode string `json:"errorCode"`
	Message   string `json:"message"`
}

type PointD struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type Face struct {
	LeftEye              PointD  `json:"leftEye"`
	RightEye             PointD  `json:"rightEye"`
	TextureLivenessScore float64 `json:"textureLivenessScore"`
	MotionLivenessScore  float64 `json:"motionLivenessScore"`
	MovementDirection    float64 `json:"movementDirection"`
}

type QualityAssessment struct {
	Check   string  `json:"check"`
	Score   float64 `json:"score"`
	Message string  `json:"message"`
}

type ImageProperties struct {
	Rotated            int32               `json:"rotated"`
	Faces              []Face              `json:"faces"`
	QualityScore       float64             `json:"qualityScore"`
	QualityAssessments []QualityAssessment `json:"qualityAssessments"`
	FrameNumber        int32               `json:"frameNumber"`
}

// LivenessDetectionResponse answers both LivenessDetection and
// VideoLivenessDetection.
type LivenessDetectionResponse struct {
	Status          JobStatus         `json:"status"`
	Errors          []JobError        `json:"errors"`
	ImageProperties []ImageProperties `json:"imageProperties"`
	Live            bool              `json:"live"`
	LivenessScore   float64           `json:"livenessScore"`
}

type PhotoVerifyResponse struct {
	Status            JobStatus         `json:"status"`
	Errors            []JobError        `json:"errors"`
	ImageProperties   []ImageProperties `json:"imageProperties"`
	PhotoProperties   ImageProperties   `json:"photoProperties"`
	VerificationLevel AccuracyLevel     `json:"verificationLevel"`
	VerificationScore float64           `json:"verificationScore"`
	Live              bool              `json:"live"`
	LivenessScore     float64           `json:"livenessScore"`
}

// JobStatus renders as its enum name. Ordinals unknown to this build are
// rendered as plain numbers so no value is lost.
type JobStatus bwswire.JobStatus

func (s JobStatus) MarshalJSON() ([]byte, error) {
	return marshalEnum(int32(s), bwswire.JobStatus(s).String, "JOB_STATUS_")
}

func (s *JobStatus) UnmarshalJSON(data []byte) error {
	v, err := unmarshalEnum(data, func(v int32) string { return bwswire.JobStatus(v).String() })
	if err != nil {
		return fmt.Errorf("job status: %w", err)
	}
	*s = JobStatus(v)
	return nil
}

// AccuracyLevel renders like JobStatus.
type AccuracyLevel bwswire.AccuracyLevel

func (l AccuracyLevel) MarshalJSON() ([]byte, error) {
	return marshalEnum(int32(l), bwswire.AccuracyLevel(l).String, "ACCURACY_LEVEL_")
}

func (l *AccuracyLevel) UnmarshalJSON(data []byte) error {
	v, err := unmarshalEnum(data, func(v int32) string { return bwswire.AccuracyLevel(v).String() })
	if err != nil {
		return fmt.Errorf("accuracy level: %w", err)
	}
	*l = AccuracyLevel(v)
	return nil
}

func marshalEnum(v int32, name func() string, unknownPrefix string) ([]byte, error) {
	s := name()
	if s == unknownPrefix+strconv.FormatInt(int64(v), 10) {
		return []byte(strconv.FormatInt(int64(v), 10)), nil
	}
	return json.Marshal(s)
}

// enumNameLimit bounds the ordinal search when parsing names.
const enumNameLimit = 16

func unmarshalEnum(data []byte, name func(int32) string) (int32, error) {
	var n int32
	if err := json.Unmarshal(data, &n); err == nil {
		return n, nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return 0, err
	}
	for v := int32(0); v < enumNameLimit; v++ {
		if name(v) == s {
			return v, nil
		}
	}
	return 0, fmt.Errorf("unknown value %q", s)
}

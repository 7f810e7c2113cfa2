// Package bwswire holds the request and response messages of the BioID Web
// Service (package bioid.services.v1) together with their protobuf binary
// encoding.
//
// Field numbers follow the published bwsmessages.proto:
//
//	ImageData                     { bytes image = 1; repeated string tags = 2; }
//	LivenessDetectionRequest      { repeated ImageData live_images = 1; }
//	VideoLivenessDetectionRequest { bytes video = 1; }
//	PhotoVerifyRequest            { repeated ImageData live_images = 1; bytes photo = 2;
//	                                bool disable_liveness_detection = 3; }
//	JobError                      { string error_code = 1; string message = 2; }
//	PointD                        { double x = 1; double y = 2; }
//	Face                          { PointD left_eye = 1; PointD right_eye = 2;
//	                                double texture_liveness_score = 3;
//	                                double motion_liveness_score = 4;
//	                                double movement_direction = 5; }
//	QualityAssessment             { string check = 1; double score = 2; string message = 3; }
//	ImageProperties               { int32 rotated = 1; repeated Face faces = 2;
//	                                double quality_score = 3;
//	                                repeated QualityAssessment quality_assessments = 4;
//	                                int32 frame_number = 5; }
//	LivenessDetectionResponse     { JobStatus status = 1; repeated JobError errors = 2;
//	                                repeated ImageProperties image_properties = 3;
//	                                bool live = 4; double liveness_score = 5; }
//	PhotoVerifyResponse           { JobStatus status = 1; repeated JobError errors = 2;
//	                                repeated ImageProperties image_properties = 3;
//	                                ImageProperties photo_properties = 4;
//	                                AccuracyLevel verification_level = 5;
//	                                double verification_score = 6;
//	                                bool live = 7; double liveness_score = 8; }
package bwswire

import "strconv"

// JobStatus is the completion state reported by the service.
type JobStatus int32

const (
	JobStatusSucceeded JobStatus = 0
	JobStatusFaulted   JobStatus = 1
	JobStatusCancelled JobStatus = 2
)

//nolint:gochecknoglobals // lookup table
var jobStatusNames = map[JobStatus]string{
	JobStatusSucceeded: "SUCCEEDED",
	JobStatusFaulted:   "FAULTED",
	JobStatusCancelled: "CANCELLED",
}

func (s JobStatus) String() string {
	if name, ok := jobStatusNames[s]; ok {
		return name
	}
	return "JOB_STATUS_" + strconv.FormatInt(int64(s), 10)
}

// AccuracyLevel is the verification level of a PhotoVerify job.
type AccuracyLevel int32

const (
	AccuracyLevelNotRecognized AccuracyLevel = 0
	AccuracyLevel1             AccuracyLevel = 1
	AccuracyLevel2             AccuracyLevel = 2
	AccuracyLevel3             AccuracyLevel = 3
	AccuracyLevel4             AccuracyLevel = 4
	AccuracyLevel5             AccuracyLevel = 5
)

//nolint:gochecknoglobals // lookup table
var accuracyLevelNames = map[AccuracyLevel]string{
	AccuracyLevelNotRecognized: "NOT_RECOGNIZED",
	AccuracyLevel1:             "LEVEL_1",
	AccuracyLevel2:             "LEVEL_2",
	AccuracyLevel3:             "LEVEL_3",
	AccuracyLevel4:             "LEVEL_4",
	AccuracyLevel5:             "LEVEL_5",
}

func (l AccuracyLevel) String() string {
	if name, ok := accuracyLevelNames[l]; ok {
		return name
	}
	return "ACCURACY_LEVEL_" + strconv.FormatInt(int64(l), 10)
}

type ImageData struct {
	Image []byte
	Tags  []string
}

type LivenessDetectionRequest struct {
	LiveImages []*ImageData
}

type VideoLivenessDetectionRequest struct {
	Video []byte
}

type PhotoVerifyRequest struct {
	LiveImages               []*ImageData
	Photo                    []byte
	DisableLivenessDetection bool
}

type JobError struct {
	ErrorCode string
	Message   string
}

type PointD struct {
	X float64
	Y float64
}

type Face struct {
	LeftEye              *PointD
	RightEye             *PointD
	TextureLivenessScore float64
	MotionLivenessScore  float64
	MovementDirection    float64
}

type QualityAssessment struct {
	Check   string
	Score   float64
	Message string
}

type ImageProperties struct {
	Rotated            int32
	Faces              []*Face
	QualityScore       float64
	QualityAssessments []*QualityAssessment
	FrameNumber        int32
}

// LivenessDetectionResponse is returned by both LivenessDetection and
// VideoLivenessDetection.
type LivenessDetectionResponse struct {
	Status          JobStatus
	Errors          []*JobError
	ImageProperties []*ImageProperties
	Live            bool
	LivenessScore   float64
}

type PhotoVerifyResponse struct {
	Status            JobStatus
	Errors            []*JobError
	ImageProperties   []*ImageProperties
	PhotoProperties   *ImageProperties
	VerificationLevel AccuracyLevel
	VerificationScore float64
	Live              bool
	LivenessScore     float64
}

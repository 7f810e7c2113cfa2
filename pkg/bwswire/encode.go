package bwswire

import (
	"math"

	"google.golang.org/protobuf/encoding/protowire"
)

// Proto3 semantics: scalar fields holding their zero value are not emitted.

func appendBytesField(b []byte, num protowire.Number, v []byte) []byte {
	if len(v) == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, v)
}

func appendStringField(b []byte, num protowire.Number, v string) []byte {
	if v == "" {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, v)
}

func appendRepeatedString(b []byte, num protowire.Number, vs []string) []byte {
	for _, v := range vs {
		b = protowire.AppendTag(b, num, protowire.BytesType)
		b = protowire.AppendString(b, v)
	}
	return b
}

func appendBoolField(b []byte, num protowire.Number, v bool) []byte {
	if !v {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, protowire.EncodeBool(v))
}

func appendInt32Field(b []byte, num protowire.Number, v int32) []byte {
	if v == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, uint64(int64(v)))
}

func appendDoubleField(b []byte, num protowire.Number, v float64) []byte {
	bits := math.Float64bits(v)
	if bits == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.Fixed64Type)
	return protowire.AppendFixed64(b, bits)
}

func appendMessageField(b []byte, num protowire.Number, encoded []byte) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, encoded)
}

func (m *ImageData) appendWire(b []byte) []byte {
	if m == nil {
		return b
	}
	b = appendBytesField(b, 1, m.Image)
	return appendRepeatedString(b, 2, m.Tags)
}

func appendImages(b []byte, num protowire.Number, images []*ImageData) []byte {
	for _, img := range images {
		b = appendMessageField(b, num, img.appendWire(nil))
	}
	return b
}

func (m *LivenessDetectionRequest) appendWire(b []byte) []byte {
	return appendImages(b, 1, m.LiveImages)
}

func (m *VideoLivenessDetectionRequest) appendWire(b []byte) []byte {
	return appendBytesField(b, 1, m.Video)
}

func (m *PhotoVerifyRequest) appendWire(b []byte) []byte {
	b = appendImages(b, 1, m.LiveImages)
	b = appendBytesField(b, 2, m.Photo)
	return appendBoolField(b, 3, m.DisableLivenessDetection)
}

func (m *JobError) appendWire(b []byte) []byte {
	if m == nil {
		return b
	}
	b = appendStringField(b, 1, m.ErrorCode)
	return appendStringField(b, 2, m.Message)
}

func (m *PointD) appendWire(b []byte) []byte {
	if m == nil {
		return b
	}
	b = appendDoubleField(b, 1, m.X)
	return appendDoubleField(b, 2, m.Y)
}

func (m *Face) appendWire(b []byte) []byte {
	if m == nil {
		return b
	}
	if m.LeftEye != nil {
		b = appendMessageField(b, 1, m.LeftEye.appendWire(nil))
	}
	if m.RightEye != nil {
		b = appendMessageField(b, 2, m.RightEye.appendWire(nil))
	}
	b = appendDoubleField(b, 3, m.TextureLivenessScore)
	b = appendDoubleField(b, 4, m.MotionLivenessScore)
	return appendDoubleField(b, 5, m.MovementDirection)
}

func (m *QualityAssessment) appendWire(b []byte) []byte {
	if m == nil {
		return b
	}
	b = appendStringField(b, 1, m.Check)
	b = appendDoubleField(b, 2, m.Score)
	return appendStringField(b, 3, m.Message)
}

func (m *ImageProperties) appendWire(b []byte) []byte {
	if m == nil {
		return b
	}
	b = appendInt32Field(b, 1, m.Rotated)
	for _, face := range m.Faces {
		b = appendMessageField(b, 2, face.appendWire(nil))
	}
	b = appendDoubleField(b, 3, m.QualityScore)
	for _, qa := range m.QualityAssessments {
		b = appendMessageField(b, 4, qa.appendWire(nil))
	}
	return appendInt32Field(b, 5, m.FrameNumber)
}

func appendJobErrors(b []byte, num protowire.Number, errs []*JobError) []byte {
	for _, e := range errs {
		b = appendMessageField(b, num, e.appendWire(nil))
	}
	return b
}

func appendImageProperties(b []byte, num protowire.Number, props []*ImageProperties) []byte {
	for _, p := range props {
		b = appendMessageField(b, num, p.appendWire(nil))
	}
	return b
}

func (m *LivenessDetectionResponse) appendWire(b []byte) []byte {
	b = appendInt32Field(b, 1, int32(m.Status))
	b = appendJobErrors(b, 2, m.Errors)
	b = appendImageProperties(b, 3, m.ImageProperties)
	b = appendBoolField(b, 4, m.Live)
	return appendDoubleField(b, 5, m.LivenessScore)
}

func (m *PhotoVerifyResponse) appendWire(b []byte) []byte {
	b = appendInt32Field(b, 1, int32(m.Status))
	b = appendJobErrors(b, 2, m.Errors)
	b = appendImageProperties(b, 3, m.ImageProperties)
	if m.PhotoProperties != nil {
		b = appendMessageField(b, 4, m.PhotoProperties.appendWire(nil))
	}
	b = appendInt32Field(b, 5, int32(m.VerificationLevel))
	b = appendDoubleField(b, 6, m.VerificationScore)
	b = appendBoolField(b, 7, m.Live)
	return appendDoubleField(b, 8, m.LivenessScore)
}

func (m *ImageData) MarshalWire() ([]byte, error) { return m.appendWire(nil), nil }

func (m *LivenessDetectionRequest) MarshalWire() ([]byte, error) { return m.appendWire(nil), nil }

func (m *VideoLivenessDetectionRequest) MarshalWire() ([]byte, error) {
	return m.appendWire(nil), nil
}

func (m *PhotoVerifyRequest) MarshalWire() ([]byte, error) { return m.appendWire(nil), nil }

func (m *ImageProperties) MarshalWire() ([]byte, error) { return m.appendWire(nil), nil }

func (m *LivenessDetectionResponse) MarshalWire() ([]byte, error) { return m.appendWire(nil), nil }

func (m *PhotoVerifyResponse) MarshalWire() ([]byte, error) { return m.appendWire(nil), nil }

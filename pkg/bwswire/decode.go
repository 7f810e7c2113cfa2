package bwswire

import (
	"math"

	"google.golang.org/protobuf/encoding/protowire"
)

// field is one decoded key/value pair. Only the member matching typ is set.
type field struct {
	num     protowire.Number
	typ     protowire.Type
	varint  uint64
	fixed64 uint64
	bytes   []byte
}

func (f field) is(num protowire.Number, typ protowire.Type) bool {
	return f.num == num && f.typ == typ
}

func (f field) double() float64 { return math.Float64frombits(f.fixed64) }

func (f field) asInt32() int32 { return int32(f.varint) } //nolint:gosec // proto int32 truncation

// walkFields calls fn for every field in b. Unknown field numbers and fields
// whose wire type does not match the schema are handed to fn like any other
// field and are expected to be ignored there.
func walkFields(b []byte, fn func(f field) error) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]

		f := field{num: num, typ: typ}
		switch typ {
		case protowire.VarintType:
			f.varint, n = protowire.ConsumeVarint(b)
		case protowire.Fixed64Type:
			f.fixed64, n = protowire.ConsumeFixed64(b)
		case protowire.BytesType:
			f.bytes, n = protowire.ConsumeBytes(b)
		default:
			n = protowire.ConsumeFieldValue(num, typ, b)
		}
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]

		if err := fn(f); err != nil {
			return err
		}
	}
	return nil
}

func cloneBytes(b []byte) []byte {
	if len(b) == 0 {
		return nil
	}
	return append([]byte(nil), b...)
}

func (m *ImageData) UnmarshalWire(b []byte) error {
	*m = ImageData{}
	return walkFields(b, func(f field) error {
		switch {
		case f.is(1, protowire.BytesType):
			m.Image = cloneBytes(f.bytes)
		case f.is(2, protowire.BytesType):
			m.Tags = append(m.Tags, string(f.bytes))
		}
		return nil
	})
}

func consumeImage(images []*ImageData, b []byte) ([]*ImageData, error) {
	img := &ImageData{}
	if err := img.UnmarshalWire(b); err != nil {
		return images, err
	}
	return append(images, img), nil
}

func (m *LivenessDetectionRequest) UnmarshalWire(b []byte) error {
	*m = LivenessDetectionRequest{}
	return walkFields(b, func(f field) (err error) {
		if f.is(1, protowire.BytesType) {
			m.LiveImages, err = consumeImage(m.LiveImages, f.bytes)
		}
		return err
	})
}

func (m *VideoLivenessDetectionRequest) UnmarshalWire(b []byte) error {
	*m = VideoLivenessDetectionRequest{}
	return walkFields(b, func(f field) error {
		if f.is(1, protowire.BytesType) {
			m.Video = cloneBytes(f.bytes)
		}
		return nil
	})
}

func (m *PhotoVerifyRequest) UnmarshalWire(b []byte) error {
	*m = PhotoVerifyRequest{}
	return walkFields(b, func(f field) (err error) {
		switch {
		case f.is(1, protowire.BytesType):
			m.LiveImages, err = consumeImage(m.LiveImages, f.bytes)
		case f.is(2, protowire.BytesType):
			m.Photo = cloneBytes(f.bytes)
		case f.is(3, protowire.VarintType):
			m.DisableLivenessDetection = protowire.DecodeBool(f.varint)
		}
		return err
	})
}

func (m *JobError) UnmarshalWire(b []byte) error {
	*m = JobError{}
	return walkFields(b, func(f field) error {
		switch {
		case f.is(1, protowire.BytesType):
			m.ErrorCode = string(f.bytes)
		case f.is(2, protowire.BytesType):
			m.Message = string(f.bytes)
		}
		return nil
	})
}

func (m *PointD) UnmarshalWire(b []byte) error {
	*m = PointD{}
	return walkFields(b, func(f field) error {
		switch {
		case f.is(1, protowire.Fixed64Type):
			m.X = f.double()
		case f.is(2, protowire.Fixed64Type):
			m.Y = f.double()
		}
		return nil
	})
}

func (m *Face) UnmarshalWire(b []byte) error {
	*m = Face{}
	return walkFields(b, func(f field) error {
		switch {
		case f.is(1, protowire.BytesType):
			m.LeftEye = &PointD{}
			return m.LeftEye.UnmarshalWire(f.bytes)
		case f.is(2, protowire.BytesType):
			m.RightEye = &PointD{}
			return m.RightEye.UnmarshalWire(f.bytes)
		case f.is(3, protowire.Fixed64Type):
			m.TextureLivenessScore = f.double()
		case f.is(4, protowire.Fixed64Type):
			m.MotionLivenessScore = f.double()
		case f.is(5, protowire.Fixed64Type):
			m.MovementDirection = f.double()
		}
		return nil
	})
}

func (m *QualityAssessment) UnmarshalWire(b []byte) error {
	*m = QualityAssessment{}
	return walkFields(b, func(f field) error {
		switch {
		case f.is(1, protowire.BytesType):
			m.Check = string(f.bytes)
		case f.is(2, protowire.Fixed64Type):
			m.Score = f.double()
		case f.is(3, protowire.BytesType):
			m.Message = string(f.bytes)
		}
		return nil
	})
}

func (m *ImageProperties) UnmarshalWire(b []byte) error {
	*m = ImageProperties{}
	return walkFields(b, func(f field) error {
		switch {
		case f.is(1, protowire.VarintType):
			m.Rotated = f.asInt32()
		case f.is(2, protowire.BytesType):
			face := &Face{}
			if err := face.UnmarshalWire(f.bytes); err != nil {
				return err
			}
			m.Faces = append(m.Faces, face)
		case f.is(3, protowire.Fixed64Type):
			m.QualityScore = f.double()
		case f.is(4, protowire.BytesType):
			qa := &QualityAssessment{}
			if err := qa.UnmarshalWire(f.bytes); err != nil {
				return err
			}
			m.QualityAssessments = append(m.QualityAssessments, qa)
		case f.is(5, protowire.VarintType):
			m.FrameNumber = f.asInt32()
		}
		return nil
	})
}

func consumeJobError(errs []*JobError, b []byte) ([]*JobError, error) {
	e := &JobError{}
	if err := e.UnmarshalWire(b); err != nil {
		return errs, err
	}
	return append(errs, e), nil
}

func consumeImageProperties(props []*ImageProperties, b []byte) ([]*ImageProperties, error) {
	p := &ImageProperties{}
	if err := p.UnmarshalWire(b); err != nil {
		return props, err
	}
	return append(props, p), nil
}

func (m *LivenessDetectionResponse) UnmarshalWire(b []byte) error {
	*m = LivenessDetectionResponse{}
	return walkFields(b, func(f field) (err error) {
		switch {
		case f.is(1, protowire.VarintType):
			m.Status = JobStatus(f.asInt32())
		case f.is(2, protowire.BytesType):
			m.Errors, err = consumeJobError(m.Errors, f.bytes)
		case f.is(3, protowire.BytesType):
			m.ImageProperties, err = consumeImageProperties(m.ImageProperties, f.bytes)
		case f.is(4, protowire.VarintType):
			m.Live = protowire.DecodeBool(f.varint)
		case f.is(5, protowire.Fixed64Type):
			m.LivenessScore = f.double()
		}
		return err
	})
}

func (m *PhotoVerifyResponse) UnmarshalWire(b []byte) error {
	*m = PhotoVerifyResponse{}
	return walkFields(b, func(f field) (err error) {
		switch {
		case f.is(1, protowire.VarintType):
			m.Status = JobStatus(f.asInt32())
		case f.is(2, protowire.BytesType):
			m.Errors, err = consumeJobError(m.Errors, f.bytes)
		case f.is(3, protowire.BytesType):
			m.ImageProperties, err = consumeImageProperties(m.ImageProperties, f.bytes)
		case f.is(4, protowire.BytesType):
			m.PhotoProperties = &ImageProperties{}
			err = m.PhotoProperties.UnmarshalWire(f.bytes)
		case f.is(5, protowire.VarintType):
			m.VerificationLevel = AccuracyLevel(f.asInt32())
		case f.is(6, protowire.Fixed64Type):
			m.VerificationScore = f.double()
		case f.is(7, protowire.VarintType):
			m.Live = protowire.DecodeBool(f.varint)
		case f.is(8, protowire.Fixed64Type):
			m.LivenessScore = f.double()
		}
		return err
	})
}

package bwswire

import "fmt"

// CodecName replaces connect's built-in protobuf codec so the gRPC content
// type stays application/grpc.
const CodecName = "proto"

// Message is implemented by every request and response in this package.
type Message interface {
	MarshalWire() ([]byte, error)
	UnmarshalWire(b []byte) error
}

// Codec adapts Message to connect.Codec.
type Codec struct{}

func (Codec) Name() string { return CodecName }

func (Codec) Marshal(v any) ([]byte, error) {
	msg, ok := v.(Message)
	if !ok {
		return nil, fmt.Errorf("bwswire: cannot marshal %T", v)
	}
	return msg.MarshalWire()
}

func (Codec) Unmarshal(data []byte, v any) error {
	msg, ok := v.(Message)
	if !ok {
		return fmt.Errorf("bwswire: cannot unmarshal into %T", v)
	}
	if err := msg.UnmarshalWire(data); err != nil {
		return fmt.Errorf("bwswire: unmarshal %T: %w", v, err)
	}
	return nil
}

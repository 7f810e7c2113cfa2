package bws

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"connectrpc.com/connect"
	"github.com/astro-web3/bws-gateway/pkg/bwswire"
)

const (
	ServiceName = "bioid.services.v1.BioIDWebService"

	LivenessDetectionProcedure      = "/" + ServiceName + "/LivenessDetection"
	PhotoVerifyProcedure            = "/" + ServiceName + "/PhotoVerify"
	VideoLivenessDetectionProcedure = "/" + ServiceName + "/VideoLivenessDetection"
)

const (
	ProtocolGRPC    = "grpc"
	ProtocolGRPCWeb = "grpcweb"
	ProtocolConnect = "connect"
)

// Client is the subset of the BioID Web Service used by the gateway.
type Client interface {
	LivenessDetection(
		ctx context.Context,
		req *connect.Request[bwswire.LivenessDetectionRequest],
	) (*connect.Response[bwswire.LivenessDetectionResponse], error)
	PhotoVerify(
		ctx context.Context,
		req *connect.Request[bwswire.PhotoVerifyRequest],
	) (*connect.Response[bwswire.PhotoVerifyResponse], error)
	VideoLivenessDetection(
		ctx context.Context,
		req *connect.Request[bwswire.VideoLivenessDetectionRequest],
	) (*connect.Response[bwswire.LivenessDetectionResponse], error)
}

type client struct {
	livenessDetection      *connect.Client[bwswire.LivenessDetectionRequest, bwswire.LivenessDetectionResponse]
	photoVerify            *connect.Client[bwswire.PhotoVerifyRequest, bwswire.PhotoVerifyResponse]
	videoLivenessDetection *connect.Client[bwswire.VideoLivenessDetectionRequest, bwswire.LivenessDetectionResponse]
}

// NewClient builds a client for the service at baseURL. The wire codec is
// always installed; protocol and interceptors come from opts.
func NewClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) Client {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{connect.WithCodec(bwswire.Codec{})}, opts...)

	return &client{
		livenessDetection: connect.NewClient[bwswire.LivenessDetectionRequest, bwswire.LivenessDetectionResponse](
			httpClient,
			baseURL+LivenessDetectionProcedure,
			opts...,
		),
		photoVerify: connect.NewClient[bwswire.PhotoVerifyRequest, bwswire.PhotoVerifyResponse](
			httpClient,
			baseURL+PhotoVerifyProcedure,
			opts...,
		),
		videoLivenessDetection: connect.NewClient[bwswire.VideoLivenessDetectionRequest, bwswire.LivenessDetectionResponse](
			httpClient,
			baseURL+VideoLivenessDetectionProcedure,
			opts...,
		),
	}
}

func (c *client) LivenessDetection(
	ctx context.Context,
	req *connect.Request[bwswire.LivenessDetectionRequest],
) (*connect.Response[bwswire.LivenessDetectionResponse], error) {
	return c.livenessDetection.CallUnary(ctx, req)
}

func (c *client) PhotoVerify(
	ctx context.Context,
	req *connect.Request[bwswire.PhotoVerifyRequest],
) (*connect.Response[bwswire.PhotoVerifyResponse], error) {
	return c.photoVerify.CallUnary(ctx, req)
}

func (c *client) VideoLivenessDetection(
	ctx context.Context,
	req *connect.Request[bwswire.VideoLivenessDetectionRequest],
) (*connect.Response[bwswire.LivenessDetectionResponse], error) {
	return c.videoLivenessDetection.CallUnary(ctx, req)
}

// ProtocolOptions maps a configured protocol name to connect client options.
func ProtocolOptions(protocol string) ([]connect.ClientOption, error) {
	switch protocol {
	case "", ProtocolGRPC:
		return []connect.ClientOption{connect.WithGRPC()}, nil
	case ProtocolGRPCWeb:
		return []connect.ClientOption{connect.WithGRPCWeb()}, nil
	case ProtocolConnect:
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown protocol %q", protocol)
	}
}

// NewHTTPClient returns an HTTP client able to carry the given protocol to
// endpoint. gRPC over a plaintext endpoint needs HTTP/2 with prior knowledge.
func NewHTTPClient(endpoint, protocol string) (*http.Client, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid endpoint: %w", err)
	}

	protocols := new(http.Protocols)
	switch {
	case u.Scheme == "http" && (protocol == "" || protocol == ProtocolGRPC):
		protocols.SetUnencryptedHTTP2(true)
	case u.Scheme == "http" || u.Scheme == "https":
		protocols.SetHTTP1(true)
		protocols.SetHTTP2(true)
	default:
		return nil, fmt.Errorf("unsupported endpoint scheme %q", u.Scheme)
	}

	//nolint:forcetypeassert // DefaultTransport is always *http.Transport
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.Protocols = protocols

	return &http.Client{Transport: transport}, nil
}

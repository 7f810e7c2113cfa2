package bws

import (
	"context"
	"net/http"

	"connectrpc.com/connect"
	"github.com/astro-web3/bws-gateway/pkg/bwswire"
)

// Handler is the server side of the service. The gateway never serves it;
// the local stub and the tests do.
type Handler interface {
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

// NewHandler returns the mount path and the http.Handler serving svc.
func NewHandler(svc Handler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(bwswire.Codec{})}, opts...)

	livenessDetection := connect.NewUnaryHandler(LivenessDetectionProcedure, svc.LivenessDetection, opts...)
	photoVerify := connect.NewUnaryHandler(PhotoVerifyProcedure, svc.PhotoVerify, opts...)
	videoLivenessDetection := connect.NewUnaryHandler(
		VideoLivenessDetectionProcedure,
		svc.VideoLivenessDetection,
		opts...,
	)

	return "/" + ServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case LivenessDetectionProcedure:
			livenessDetection.ServeHTTP(w, r)
		case PhotoVerifyProcedure:
			photoVerify.ServeHTTP(w, r)
		case VideoLivenessDetectionProcedure:
			videoLivenessDetection.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

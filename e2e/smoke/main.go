package main

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"sort"
	"strings"
	"time"

	jobdomain "github.com/astro-web3/bws-gateway/internal/domain/job"
	httpclient "github.com/astro-web3/bws-gateway/pkg/http"
)

const (
	defaultGatewayURL = "http://localhost:8080"
	defaultHeaderName = "X-Api-Key"
	requestTimeout    = 2 * time.Minute
)

func usage() {
	log.Fatalf(`Usage:
  %[1]s liveness <image> [image2] [tag1,tag2]
  %[1]s photoverify <photo> <image> [image2]
  %[1]s video <video>

Environment: GATEWAY_URL, GATEWAY_API_KEY, GATEWAY_API_HEADER, REFERENCE_NUMBER`, os.Args[0])
}

func main() {
	if len(os.Args) < 3 {
		usage()
	}

	gatewayURL := envOr("GATEWAY_URL", defaultGatewayURL)
	headerName := envOr("GATEWAY_API_HEADER", defaultHeaderName)
	apiKey := os.Getenv("GATEWAY_API_KEY")
	referenceNumber := os.Getenv("REFERENCE_NUMBER")

	path, body, err := buildRequest(os.Args[1], os.Args[2:])
	if err != nil {
		log.Fatalf("❌ %v", err)
	}

	client := httpclient.NewClient(gatewayURL, requestTimeout)
	resp, err := client.Post(context.Background(), path,
		httpclient.WithHeader(headerName, apiKey),
		httpclient.WithHeader(jobdomain.ReferenceNumberHeader, referenceNumber),
		httpclient.WithBody(body),
	)
	if err != nil {
		log.Fatalf("❌ Request failed: %v", err)
	}

	if resp.IsSuccess() {
		fmt.Printf("✅ %s returned %d\n", path, resp.StatusCode())
	} else {
		fmt.Printf("❌ %s returned %d\n", path, resp.StatusCode())
	}

	fmt.Println("\nHeaders received:")
	keys := make([]string, 0, len(resp.Header()))
	for k := range resp.Header() {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Printf("  %s: %s\n", k, strings.Join(resp.Header().Values(k), ", "))
	}

	fmt.Println("\nBody:")
	var pretty bytes.Buffer
	if json.Indent(&pretty, resp.Body(), "  ", "  ") == nil {
		fmt.Printf("  %s\n", pretty.String())
	} else {
		fmt.Printf("  %s\n", string(resp.Body()))
	}
}

func buildRequest(operation string, args []string) (string, any, error) {
	switch operation {
	case "liveness":
		images, err := liveImages(args, 2)
		if err != nil {
			return "", nil, err
		}
		if len(args) > 2 && len(images) == 2 {
			images[1].Tags = strings.Split(args[2], ",")
		}
		return "/LivenessDetection", jobdomain.LivenessDetectionRequest{LiveImages: images}, nil

	case "photoverify":
		if len(args) < 2 {
			return "", nil, fmt.Errorf("photoverify needs a photo and at least one image")
		}
		photo, err := readBase64(args[0])
		if err != nil {
			return "", nil, err
		}
		images, err := liveImages(args[1:], 2)
		if err != nil {
			return "", nil, err
		}
		return "/PhotoVerify", jobdomain.PhotoVerifyRequest{LiveImages: images, Photo: photo}, nil

	case "video":
		video, err := readBase64(args[0])
		if err != nil {
			return "", nil, err
		}
		return "/VideoLivenessDetection", jobdomain.VideoLivenessDetectionRequest{Video: video}, nil

	default:
		return "", nil, fmt.Errorf("unknown operation %q", operation)
	}
}

func liveImages(paths []string, limit int) ([]jobdomain.ImageData, error) {
	images := make([]jobdomain.ImageData, 0, limit)
	for i := 0; i < len(paths) && i < limit; i++ {
		if strings.Contains(paths[i], ",") {
			break
		}
		image, err := readBase64(paths[i])
		if err != nil {
			return nil, err
		}
		images = append(images, jobdomain.ImageData{Image: image})
	}
	return images, nil
}

func readBase64(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

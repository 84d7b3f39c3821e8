// Package ocr extracts ingredient text from label photos with AWS Rekognition.
package ocr

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/rekognition/types"
	"github.com/foodbuddy/backend/internal/domain"
)

// DefaultMinConfidence drops detections Rekognition is unsure about
const DefaultMinConfidence = 80

// detectTextAPI is the part of the Rekognition client used here
type detectTextAPI interface {
	DetectText(ctx context.Context, params *rekognition.DetectTextInput, optFns ...func(*rekognition.Options)) (*rekognition.DetectTextOutput, error)
}

// Config holds OCR settings
type Config struct {
	Region        string
	MinConfidence float32
}

// RekognitionExtractor implements domain.TextExtractor
type RekognitionExtractor struct {
	client        detectTextAPI
	minConfidence float32
}

// NewRekognitionExtractor loads AWS credentials from the default chain
func NewRekognitionExtractor(ctx context.Context, cfg Config) (*RekognitionExtractor, error) {
	opts := []func(*config.LoadOptions) error{}
	if cfg.Region != "" {
		opts = append(opts, config.WithRegion(cfg.Region))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("ocr: load AWS config: %w", err)
	}
	return newExtractor(rekognition.NewFromConfig(awsCfg), cfg.MinConfidence), nil
}

func newExtractor(client detectTextAPI, minConfidence float32) *RekognitionExtractor {
	if minConfidence <= 0 {
		minConfidence = DefaultMinConfidence
	}
	return &RekognitionExtractor{client: client, minConfidence: minConfidence}
}

// ExtractText returns the confident LINE detections joined by newlines
func (r *RekognitionExtractor) ExtractText(ctx context.Context, image []byte) (string, error) {
	if len(image) == 0 {
		return "", fmt.Errorf("%w: image is empty", domain.ErrInvalidRequest)
	}

	out, err := r.client.DetectText(ctx, &rekognition.DetectTextInput{
		Image: &types.Image{Bytes: image},
	})
	if err != nil {
		log.Printf("[OCR] DetectText failed: %v", err)
		return "", fmt.Errorf("%w: text detection: %v", domain.ErrUpstreamFailure, err)
	}

	lines := make([]string, 0, len(out.TextDetections))
	for _, d := range out.TextDetections {
		if d.Type != types.TextTypesLine || d.DetectedText == nil {
			continue
		}
		if aws.ToFloat32(d.Confidence) < r.minConfidence {
			continue
		}
		if line := strings.TrimSpace(*d.DetectedText); line != "" {
			lines = append(lines, line)
		}
	}

	if len(lines) == 0 {
		return "", domain.ErrNoTextDetected
	}
	return strings.Join(lines, "\n"), nil
}

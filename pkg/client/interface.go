package client

import (
	"context"

	"github.com/dkosev/vision-overlay/pkg/types"
)

// VisionClient is a backend that can answer prompts about an image.
// Frames in RecognizeText results are normalized to [0,1].
type VisionClient interface {
	SimpleQuery(ctx context.Context, model, prompt, imgB64 string) (string, error)
	RecognizeText(ctx context.Context, model, prompt, imgB64 string) (*types.TextResult, error)
}

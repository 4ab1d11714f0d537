// Package classifier runs images through an opaque quantized model and
// ranks the raw output against a label list.
package classifier

import (
	"context"
	"fmt"
	"image"

	"github.com/disintegration/imaging"

	"github.com/dkosev/vision-overlay/pkg/ranking"
	"github.com/dkosev/vision-overlay/pkg/types"
)

// Runner executes a quantized model on a prepared RGB input buffer and
// returns one raw score per class index. The interpreter behind it is a
// vendor concern; this package only prepares input and ranks output.
type Runner interface {
	Invoke(ctx context.Context, input []byte) ([]uint8, error)
}

// Config holds configuration for the classifier
type Config struct {
	InputWidth  int
	InputHeight int
	TopK        int
	MaxValue    float64
}

// Classifier prepares images for a model runner and ranks its output
type Classifier struct {
	runner Runner
	labels []string
	config Config
}

// New creates a Classifier with default configuration
func New(runner Runner, labels []string) *Classifier {
	return NewWithConfig(runner, labels, Config{
		InputWidth:  224,
		InputHeight: 224,
		TopK:        ranking.DefaultTopK,
		MaxValue:    ranking.DefaultMaxValue,
	})
}

// NewWithConfig creates a Classifier with custom configuration
func NewWithConfig(runner Runner, labels []string, config Config) *Classifier {
	if config.TopK < 1 {
		config.TopK = ranking.DefaultTopK
	}
	if config.MaxValue <= 0 {
		config.MaxValue = ranking.DefaultMaxValue
	}
	return &Classifier{runner: runner, labels: labels, config: config}
}

// Labels returns the label list the classifier ranks against
func (c *Classifier) Labels() []string {
	return c.labels
}

// Classify scales the image to the model input dimensions, invokes the
// runner, and returns the ranked results.
func (c *Classifier) Classify(ctx context.Context, img image.Image) ([]types.LabelScore, error) {
	if img == nil {
		return nil, fmt.Errorf("classifier: nil image")
	}

	input := c.prepareInput(img)

	raw, err := c.runner.Invoke(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("model invocation failed: %w", err)
	}

	results, err := ranking.Rank(raw, c.labels,
		ranking.WithTopK(c.config.TopK),
		ranking.WithMaxValue(c.config.MaxValue))
	if err != nil {
		return nil, fmt.Errorf("ranking failed: %w", err)
	}

	return results, nil
}

// prepareInput resizes the image to the model input dimensions, cropping
// the overflow axis, and packs the pixels as interleaved RGB bytes.
func (c *Classifier) prepareInput(img image.Image) []byte {
	resized := imaging.Fill(img, c.config.InputWidth, c.config.InputHeight,
		imaging.Center, imaging.Lanczos)

	w, h := resized.Bounds().Dx(), resized.Bounds().Dy()
	input := make([]byte, 0, w*h*3)
	for y := 0; y < h; y++ {
		row := resized.Pix[y*resized.Stride : y*resized.Stride+w*4]
		for x := 0; x < w*4; x += 4 {
			input = append(input, row[x], row[x+1], row[x+2])
		}
	}

	return input
}

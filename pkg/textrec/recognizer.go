package textrec

import (
	"context"
	"strings"

	"github.com/dkosev/vision-overlay/pkg/client"
	"github.com/dkosev/vision-overlay/pkg/types"
)

// SimpleTestPrompt for testing if the model can see images
const SimpleTestPrompt = `What do you see in this image? Describe it briefly.`

// DefaultPrompt is the default prompt for text recognition
const DefaultPrompt = `You are an OCR engine.

Return JSON only:
{
  "blocks": [
    {
      "text": "string",
      "frame": {"x": 0.0, "y": 0.0, "w": 0.0, "h": 0.0},
      "lines": [
        {"text": "string", "frame": {"x": 0.0, "y": 0.0, "w": 0.0, "h": 0.0}}
      ]
    }
  ],
  "full_text": "string"
}

HARD RULES
- All frame coordinates are normalized to [0,1] (NOT pixels).
- One block per visually distinct paragraph or text region, top to bottom.
- Each block frame must tightly enclose all of its line frames.
- Transcribe text exactly as printed. Do not translate or correct it.
- full_text is all block texts joined with newlines, in reading order.
- If the image contains no text, return: {"blocks":[],"full_text":""}
- JSON only. No markdown, no code fences, no comments, no trailing commas.`

// Recognizer performs text recognition through a vision backend and
// post-processes the result into content-native pixel coordinates.
type Recognizer struct {
	client client.VisionClient
	model  string
}

// New creates a Recognizer bound to a backend and model
func New(visionClient client.VisionClient, model string) *Recognizer {
	return &Recognizer{client: visionClient, model: model}
}

// Recognize runs text recognition on a prepared image and scales the
// normalized result frames to the source image extent.
func (r *Recognizer) Recognize(ctx context.Context, imgB64 string, imgW, imgH int) (*types.TextResult, error) {
	return r.RecognizeWithPrompt(ctx, imgB64, imgW, imgH, DefaultPrompt)
}

// RecognizeWithPrompt runs text recognition with a custom prompt
func (r *Recognizer) RecognizeWithPrompt(ctx context.Context, imgB64 string, imgW, imgH int, prompt string) (*types.TextResult, error) {
	result, err := r.client.RecognizeText(ctx, r.model, prompt, imgB64)
	if err != nil {
		return nil, err
	}

	return Postprocess(result, imgW, imgH), nil
}

// TestVision checks whether the model can see the image at all
func (r *Recognizer) TestVision(ctx context.Context, imgB64 string) (string, error) {
	return r.client.SimpleQuery(ctx, r.model, SimpleTestPrompt, imgB64)
}

// Postprocess clamps normalized frames to [0,1], drops blocks with no
// text, and scales everything to the source image extent. With a
// non-positive extent the frames stay normalized.
func Postprocess(result *types.TextResult, imgW, imgH int) *types.TextResult {
	w, h := float64(imgW), float64(imgH)
	if w <= 0 || h <= 0 {
		w, h = 1, 1
	}

	out := &types.TextResult{FullText: result.FullText}
	for _, block := range result.Blocks {
		if strings.TrimSpace(block.Text) == "" {
			continue
		}

		scaled := types.TextBlock{
			Text:  block.Text,
			Frame: scaleFrame(block.Frame, w, h),
		}
		for _, line := range block.Lines {
			if strings.TrimSpace(line.Text) == "" {
				continue
			}
			scaled.Lines = append(scaled.Lines, types.TextLine{
				Text:  line.Text,
				Frame: scaleFrame(line.Frame, w, h),
			})
		}

		out.Blocks = append(out.Blocks, scaled)
	}

	return out
}

func scaleFrame(f types.Rect, w, h float64) types.Rect {
	x0 := clamp(f.X, 0, 1)
	y0 := clamp(f.Y, 0, 1)
	x1 := clamp(f.X+f.W, 0, 1)
	y1 := clamp(f.Y+f.H, 0, 1)

	return types.Rect{
		X: x0 * w,
		Y: y0 * h,
		W: (x1 - x0) * w,
		H: (y1 - y0) * h,
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

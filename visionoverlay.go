// Package visionoverlay turns structured vision-model output into annotated
// display images.
//
// Detectors and model interpreters are treated as opaque collaborators: a
// text recognizer returns blocks and lines with bounding frames, a face
// detector returns frames and contour points, and a quantized classifier
// returns one raw score per label. This package ranks classifier output,
// maps detection geometry from source-image pixel space into the aspect-fit
// display space of a containing view, and draws the result.
//
// Basic usage:
//
//	package main
//
//	import (
//		"fmt"
//		"log"
//
//		visionoverlay "github.com/dkosev/vision-overlay"
//		"github.com/dkosev/vision-overlay/pkg/ranking"
//		"github.com/dkosev/vision-overlay/pkg/viewport"
//	)
//
//	func main() {
//		vo := visionoverlay.New()
//
//		img, err := vo.LoadImage("photo.jpg")
//		if err != nil {
//			log.Fatal(err)
//		}
//
//		// Rank raw classifier output against a label list
//		labels, _ := ranking.LoadLabels("labels.txt")
//		rawScores := []uint8{0, 255, 190} // one quantized score per label
//		results, err := ranking.Rank(rawScores, labels, ranking.WithTopK(3))
//		if err != nil {
//			log.Fatal(err)
//		}
//		fmt.Printf("top: %s (%.2f)\n", results[0].Label, results[0].Confidence)
//
//		// Map detection frames into a 375x667 view and draw them
//		annotated := vo.AnnotateFaces(img, viewport.Size{W: 375, H: 667}, faces)
//		if err := vo.SaveImage(annotated, "photo_annotated.jpg"); err != nil {
//			log.Fatal(err)
//		}
//	}
//
// The package consists of four main components:
//
// 1. Ranking (pkg/ranking): converts quantized score vectors into sorted, thresholded label lists
// 2. Viewport (pkg/viewport): computes the aspect-fit transform between image and view space
// 3. Overlay (pkg/overlay): draws frames, contour points, and label bars onto display images
// 4. Textrec (pkg/textrec): text recognition through ollama or llama.cpp vision backends
package visionoverlay

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"

	"github.com/dkosev/vision-overlay/pkg/classifier"
	"github.com/dkosev/vision-overlay/pkg/imageio"
	"github.com/dkosev/vision-overlay/pkg/overlay"
	"github.com/dkosev/vision-overlay/pkg/textrec"
	"github.com/dkosev/vision-overlay/pkg/types"
	"github.com/dkosev/vision-overlay/pkg/viewport"
)

// Version of the vision overlay library
const Version = "1.0.0"

// VisionOverlay provides a high-level interface for annotating images with
// detection results
type VisionOverlay struct {
	renderer   *overlay.Renderer
	classifier *classifier.Classifier
	recognizer *textrec.Recognizer

	sendFormat  string
	sendMaxDim  int
	sendQuality int
}

// New creates a VisionOverlay with the default overlay style
func New() *VisionOverlay {
	return NewWithStyle(overlay.DefaultStyle())
}

// NewWithStyle creates a VisionOverlay with a custom overlay style
func NewWithStyle(style overlay.Style) *VisionOverlay {
	return &VisionOverlay{
		renderer:    overlay.NewWithStyle(style),
		sendFormat:  "jpg",
		sendMaxDim:  1536,
		sendQuality: 85,
	}
}

// SetClassifier attaches a custom-model classifier
func (v *VisionOverlay) SetClassifier(c *classifier.Classifier) {
	v.classifier = c
}

// SetRecognizer attaches a cloud text recognizer
func (v *VisionOverlay) SetRecognizer(r *textrec.Recognizer) {
	v.recognizer = r
}

// SetSendOptions controls how images are encoded before being sent to
// the recognizer backend
func (v *VisionOverlay) SetSendOptions(format string, maxDim, quality int) {
	v.sendFormat = format
	v.sendMaxDim = maxDim
	v.sendQuality = quality
}

// LoadImage loads an image from a file path or URL
func (v *VisionOverlay) LoadImage(source string) (image.Image, error) {
	return imageio.LoadSmart(source)
}

// SaveImage saves an image, inferring the format from the extension
func (v *VisionOverlay) SaveImage(img image.Image, path string) error {
	format := strings.TrimPrefix(filepath.Ext(path), ".")
	return imageio.Save(img, path, format, 90, false)
}

// GetImageInfo returns basic information about an image
func (v *VisionOverlay) GetImageInfo(img image.Image) imageio.Info {
	return imageio.GetInfo(img)
}

// DisplayCanvas places the image inside a container of the given size
// using aspect-fit scaling and returns the canvas together with the
// transform that maps content-native coordinates onto it. A degenerate
// container returns the image unscaled with the identity transform.
func (v *VisionOverlay) DisplayCanvas(img image.Image, container viewport.Size) (image.Image, viewport.Transform) {
	if container.W <= 0 || container.H <= 0 {
		return img, viewport.Identity()
	}

	bounds := img.Bounds()
	tr := viewport.ComputeTransform(container, viewport.SizeOf(bounds.Dx(), bounds.Dy()))

	fitted := imaging.Fit(img, int(container.W), int(container.H), imaging.Lanczos)
	canvas := imaging.New(int(container.W), int(container.H), color.NRGBA{A: 255})
	canvas = imaging.Paste(canvas, fitted, image.Pt(int(tr.TranslateX+0.5), int(tr.TranslateY+0.5)))

	return canvas, tr
}

// AnnotateText draws recognized text blocks onto an aspect-fit rendition
// of the image inside the given container.
func (v *VisionOverlay) AnnotateText(img image.Image, container viewport.Size, result *types.TextResult) image.Image {
	displayed, tr := v.DisplayCanvas(img, container)
	canvas := v.renderer.Annotate(displayed, tr)
	canvas.DrawTextBlocks(result.Blocks)
	return canvas.Image()
}

// AnnotateFaces draws face frames and contour points onto an aspect-fit
// rendition of the image inside the given container.
func (v *VisionOverlay) AnnotateFaces(img image.Image, container viewport.Size, faces []types.Face) image.Image {
	displayed, tr := v.DisplayCanvas(img, container)
	canvas := v.renderer.Annotate(displayed, tr)
	canvas.DrawFaces(faces)
	return canvas.Image()
}

// ClassifyAndAnnotate runs the attached classifier and draws the ranked
// results onto an aspect-fit rendition of the image.
func (v *VisionOverlay) ClassifyAndAnnotate(ctx context.Context, img image.Image, container viewport.Size) ([]types.LabelScore, image.Image, error) {
	if v.classifier == nil {
		return nil, nil, fmt.Errorf("no classifier attached")
	}

	results, err := v.classifier.Classify(ctx, img)
	if err != nil {
		return nil, nil, fmt.Errorf("classification failed: %w", err)
	}

	displayed, tr := v.DisplayCanvas(img, container)
	canvas := v.renderer.Annotate(displayed, tr)
	canvas.DrawLabels(results)

	return results, canvas.Image(), nil
}

// RecognizeAndAnnotate runs the attached text recognizer and draws the
// recognized blocks onto an aspect-fit rendition of the image.
func (v *VisionOverlay) RecognizeAndAnnotate(ctx context.Context, img image.Image, container viewport.Size) (*types.TextResult, image.Image, error) {
	if v.recognizer == nil {
		return nil, nil, fmt.Errorf("no recognizer attached")
	}

	imgB64, err := imageio.Prepare(img, v.sendFormat, v.sendMaxDim, v.sendQuality)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to prepare image: %w", err)
	}

	bounds := img.Bounds()
	result, err := v.recognizer.Recognize(ctx, imgB64, bounds.Dx(), bounds.Dy())
	if err != nil {
		return nil, nil, fmt.Errorf("text recognition failed: %w", err)
	}

	return result, v.AnnotateText(img, container, result), nil
}

// GetVersion returns the library version
func GetVersion() string {
	return Version
}

package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/schollz/progressbar/v3"

	visionoverlay "github.com/dkosev/vision-overlay"
	"github.com/dkosev/vision-overlay/internal/config"
	"github.com/dkosev/vision-overlay/internal/utils"
	"github.com/dkosev/vision-overlay/pkg/classifier"
	"github.com/dkosev/vision-overlay/pkg/client"
	"github.com/dkosev/vision-overlay/pkg/imageio"
	"github.com/dkosev/vision-overlay/pkg/llamacpp"
	"github.com/dkosev/vision-overlay/pkg/ollama"
	"github.com/dkosev/vision-overlay/pkg/overlay"
	"github.com/dkosev/vision-overlay/pkg/ranking"
	"github.com/dkosev/vision-overlay/pkg/textrec"
	"github.com/dkosev/vision-overlay/pkg/viewport"
)

// styleFromConfig builds an overlay style from config colors, keeping
// defaults for anything that fails to parse
func styleFromConfig(oc config.OverlayConfig) overlay.Style {
	style := overlay.DefaultStyle()
	if c, err := overlay.ParseHexColor(oc.FrameColor); err == nil {
		style.FrameColor = c
	}
	if c, err := overlay.ParseHexColor(oc.LineColor); err == nil {
		style.LineColor = c
	}
	if c, err := overlay.ParseHexColor(oc.PointColor); err == nil {
		style.PointColor = c
	}
	style.Stroke = oc.Stroke
	style.PointRadius = oc.PointRadius
	return style
}

// staticRunner feeds a score vector loaded from disk through the
// classifier pipeline in place of a live interpreter
type staticRunner struct {
	scores []uint8
}

func (s *staticRunner) Invoke(_ context.Context, _ []byte) ([]uint8, error) {
	return s.scores, nil
}

func main() {
	var configPath string
	var in, dir, outDir string
	var labelsPath, scoresPath string
	var topK int
	var backend, url, model string
	var ocr bool
	var ext string
	var quality int
	var lossless bool
	var sendFmt string
	var sendSize int
	var sendQ int
	var viewW, viewH float64

	flag.StringVar(&configPath, "config", "", "JSON config file; flags given on the command line win")
	flag.StringVar(&in, "in", "", "input image path or URL (jpg/png/webp)")
	flag.StringVar(&dir, "dir", "", "batch mode: process every image under this directory")
	flag.StringVar(&outDir, "out", "out", "output directory")

	flag.StringVar(&labelsPath, "labels", "", "newline-delimited label list for ranking")
	flag.StringVar(&scoresPath, "scores", "", "raw quantized score vector file (comma/whitespace separated)")
	flag.IntVar(&topK, "topk", ranking.DefaultTopK, "number of ranked labels to keep")

	flag.BoolVar(&ocr, "ocr", false, "run cloud text recognition and draw block frames")
	flag.StringVar(&backend, "backend", "llamacpp", "OCR backend: ollama or llamacpp")
	flag.StringVar(&url, "url", "", "backend URL (defaults: ollama=http://localhost:11435, llamacpp=http://localhost:8080)")
	flag.StringVar(&model, "model", "openbmb/minicpm-v4.5", "model name")

	flag.StringVar(&ext, "ext", "jpg", "output format: jpg|png|webp")
	flag.IntVar(&quality, "quality", 90, "JPEG/WebP output quality (1-100)")
	flag.BoolVar(&lossless, "lossless", false, "WebP lossless mode")

	flag.StringVar(&sendFmt, "sendfmt", "jpg", "format sent to the OCR backend: jpg|png")
	flag.IntVar(&sendSize, "sendsize", 1536, "max long side sent to the OCR backend (px), 0=original")
	flag.IntVar(&sendQ, "sendq", 85, "JPEG quality for the image sent to the OCR backend (1-100)")

	flag.Float64Var(&viewW, "vieww", 0, "display container width; 0 keeps native size")
	flag.Float64Var(&viewH, "viewh", 0, "display container height; 0 keeps native size")

	flag.Parse()
	if in == "" && dir == "" {
		log.Fatalf("usage: %s -in input.jpg|URL | -dir images/ [-labels labels.txt -scores scores.txt] [-ocr -backend ollama|llamacpp] [-vieww 375 -viewh 667]", filepath.Base(os.Args[0]))
	}
	cfg := config.Default()
	if configPath != "" {
		loaded, err := config.LoadFromFile(configPath)
		if err != nil {
			log.Fatal(err)
		}
		if err := loaded.Validate(); err != nil {
			log.Fatal(err)
		}
		cfg = loaded

		// Config supplies defaults; explicit flags win
		set := map[string]bool{}
		flag.Visit(func(f *flag.Flag) { set[f.Name] = true })
		if !set["backend"] {
			backend = cfg.Recognizer.Backend
		}
		if !set["url"] {
			url = cfg.Recognizer.URL
		}
		if !set["model"] {
			model = cfg.Recognizer.Model
		}
		if !set["sendfmt"] {
			sendFmt = cfg.Recognizer.SendFormat
		}
		if !set["sendsize"] {
			sendSize = cfg.Recognizer.SendMaxDim
		}
		if !set["sendq"] {
			sendQ = cfg.Recognizer.SendQuality
		}
		if !set["topk"] {
			topK = cfg.Classifier.TopK
		}
		if !set["labels"] && cfg.Classifier.LabelPath != "" {
			labelsPath = cfg.Classifier.LabelPath
		}
		if !set["ext"] {
			ext = cfg.Output.Format
		}
		if !set["quality"] {
			quality = cfg.Output.Quality
		}
		if !set["lossless"] {
			lossless = cfg.Output.Lossless
		}
		if !set["out"] && cfg.Output.Dir != "" {
			outDir = cfg.Output.Dir
		}
	}

	if err := utils.EnsureDir(outDir); err != nil {
		log.Fatal(err)
	}

	vo := visionoverlay.NewWithStyle(styleFromConfig(cfg.Overlay))

	if scoresPath != "" || labelsPath != "" {
		if scoresPath == "" || labelsPath == "" {
			log.Fatal("-labels and -scores must be given together")
		}

		labels, err := ranking.LoadLabels(labelsPath)
		if err != nil {
			log.Fatal(err)
		}

		scoresText, err := os.ReadFile(scoresPath)
		if err != nil {
			log.Fatal(err)
		}
		scores, err := ranking.ParseScores(string(scoresText))
		if err != nil {
			log.Fatal(err)
		}

		vo.SetClassifier(classifier.NewWithConfig(&staticRunner{scores: scores}, labels, classifier.Config{
			InputWidth:  cfg.Classifier.InputWidth,
			InputHeight: cfg.Classifier.InputHeight,
			TopK:        topK,
			MaxValue:    cfg.Classifier.MaxValue,
		}))
	}

	if ocr {
		var visionClient client.VisionClient
		var err error

		switch backend {
		case "ollama":
			if url == "" {
				url = "http://localhost:11435"
			}
			visionClient, err = ollama.NewClient(url)
			if err != nil {
				log.Fatalf("Failed to create Ollama client: %v", err)
			}
		case "llamacpp":
			if url == "" {
				url = "http://localhost:8080"
			}
			visionClient, err = llamacpp.NewClient(url)
			if err != nil {
				log.Fatalf("Failed to create llama.cpp client: %v", err)
			}
		default:
			log.Fatalf("Unknown backend: %s (use 'ollama' or 'llamacpp')", backend)
		}

		vo.SetRecognizer(textrec.New(visionClient, model))
		vo.SetSendOptions(sendFmt, sendSize, sendQ)
	}

	opts := processOptions{
		outDir:    outDir,
		ext:       strings.ToLower(ext),
		quality:   quality,
		lossless:  lossless,
		container: viewport.Size{W: viewW, H: viewH},
		ocr:       ocr,
		rank:      scoresPath != "",
	}

	if dir != "" {
		files, err := utils.ListImageFiles(dir)
		if err != nil {
			log.Fatal(err)
		}
		if len(files) == 0 {
			log.Fatalf("no image files under %s", dir)
		}

		bar := progressbar.Default(int64(len(files)), "annotating")
		for _, file := range files {
			if err := processOne(vo, file, opts); err != nil {
				log.Printf("%s: %v", file, err)
			}
			bar.Add(1)
		}
		return
	}

	if err := processOne(vo, in, opts); err != nil {
		log.Fatal(err)
	}
}

type processOptions struct {
	outDir    string
	ext       string
	quality   int
	lossless  bool
	container viewport.Size
	ocr       bool
	rank      bool
}

func processOne(vo *visionoverlay.VisionOverlay, source string, opts processOptions) error {
	img, err := vo.LoadImage(source)
	if err != nil {
		return fmt.Errorf("failed to load image: %w", err)
	}

	info := vo.GetImageInfo(img)
	container := opts.container
	if container.W <= 0 || container.H <= 0 {
		container = viewport.Size{W: float64(info.Width), H: float64(info.Height)}
	}

	tr := viewport.ComputeTransform(container, viewport.SizeOf(info.Width, info.Height))
	log.Printf("%s: %dx%d -> view %.0fx%.0f scale=%.3f offset=(%.1f,%.1f)",
		source, info.Width, info.Height, container.W, container.H,
		tr.Scale, tr.TranslateX, tr.TranslateY)

	annotated := img

	if opts.rank {
		results, ranked, err := vo.ClassifyAndAnnotate(context.Background(), img, container)
		if err != nil {
			return fmt.Errorf("ranking failed: %w", err)
		}
		annotated = ranked

		for i, res := range results {
			log.Printf("  #%d %s (%.3f)", i+1, res.Label, res.Confidence)
		}

		js, _ := json.MarshalIndent(results, "", "  ")
		jsonPath := utils.GenerateOutputFilename(source, opts.outDir, "_labels", "json")
		if err := os.WriteFile(jsonPath, js, 0o644); err != nil {
			log.Printf("failed to write %s: %v", jsonPath, err)
		}
	}

	if opts.ocr {
		result, recognized, err := vo.RecognizeAndAnnotate(context.Background(), img, container)
		if err != nil {
			return fmt.Errorf("text recognition failed: %w", err)
		}
		annotated = recognized

		log.Printf("  recognized %d blocks", len(result.Blocks))
		if result.FullText != "" {
			log.Printf("  text: %s", result.FullText)
		}

		js, _ := json.MarshalIndent(result, "", "  ")
		jsonPath := utils.GenerateOutputFilename(source, opts.outDir, "_text", "json")
		if err := os.WriteFile(jsonPath, js, 0o644); err != nil {
			log.Printf("failed to write %s: %v", jsonPath, err)
		}
	}

	outPath := utils.GenerateOutputFilename(source, opts.outDir, "_annotated", opts.ext)
	if err := imageio.Save(annotated, outPath, opts.ext, opts.quality, opts.lossless); err != nil {
		return fmt.Errorf("failed to save %s: %w", outPath, err)
	}
	log.Printf("wrote %s", outPath)

	return nil
}

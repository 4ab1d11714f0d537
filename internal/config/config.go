package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config holds the application configuration
type Config struct {
	Classifier ClassifierConfig `json:"classifier"`
	Recognizer RecognizerConfig `json:"recognizer"`
	Overlay    OverlayConfig    `json:"overlay"`
	Output     OutputConfig     `json:"output"`
}

// ClassifierConfig holds configuration for the custom-model classifier
type ClassifierConfig struct {
	LabelPath   string  `json:"label_path"`
	InputWidth  int     `json:"input_width"`
	InputHeight int     `json:"input_height"`
	TopK        int     `json:"top_k"`
	MaxValue    float64 `json:"max_value"`
}

// RecognizerConfig holds configuration for the cloud text recognizer
type RecognizerConfig struct {
	Backend     string `json:"backend"`
	URL         string `json:"url"`
	Model       string `json:"model"`
	SendFormat  string `json:"send_format"`
	SendMaxDim  int    `json:"send_max_dim"`
	SendQuality int    `json:"send_quality"`
}

// OverlayConfig holds configuration for overlay rendering
type OverlayConfig struct {
	FrameColor  string `json:"frame_color"`
	LineColor   string `json:"line_color"`
	PointColor  string `json:"point_color"`
	Stroke      int    `json:"stroke"`
	PointRadius int    `json:"point_radius"`
}

// OutputConfig holds configuration for output generation
type OutputConfig struct {
	Format   string `json:"format"`
	Dir      string `json:"dir"`
	Quality  int    `json:"quality"`
	Lossless bool   `json:"lossless"`
}

// Default returns a configuration with default values
func Default() *Config {
	return &Config{
		Classifier: ClassifierConfig{
			InputWidth:  224,
			InputHeight: 224,
			TopK:        5,
			MaxValue:    255,
		},
		Recognizer: RecognizerConfig{
			Backend:     "llamacpp",
			URL:         "http://localhost:8080",
			Model:       "openbmb/minicpm-v4.5",
			SendFormat:  "jpg",
			SendMaxDim:  1536,
			SendQuality: 85,
		},
		Overlay: OverlayConfig{
			FrameColor: "#00ff00",
			LineColor:  "#ffcc00",
			PointColor: "#ff0000",
		},
		Output: OutputConfig{
			Format:  "jpg",
			Dir:     "./out",
			Quality: 90,
		},
	}
}

// LoadFromFile loads configuration from a JSON file
func LoadFromFile(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &config, nil
}

// SaveToFile saves configuration to a JSON file
func (c *Config) SaveToFile(filename string) error {
	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Classifier.InputWidth < 1 || c.Classifier.InputHeight < 1 {
		return fmt.Errorf("classifier.input_width and classifier.input_height must be positive")
	}

	if c.Classifier.TopK < 1 {
		return fmt.Errorf("classifier.top_k must be at least 1")
	}

	if c.Classifier.MaxValue <= 0 {
		return fmt.Errorf("classifier.max_value must be positive")
	}

	if c.Recognizer.Backend != "ollama" && c.Recognizer.Backend != "llamacpp" {
		return fmt.Errorf("recognizer.backend must be ollama or llamacpp")
	}

	if c.Recognizer.SendQuality < 1 || c.Recognizer.SendQuality > 100 {
		return fmt.Errorf("recognizer.send_quality must be between 1 and 100")
	}

	if c.Output.Quality < 1 || c.Output.Quality > 100 {
		return fmt.Errorf("output.quality must be between 1 and 100")
	}

	return nil
}

// GetConfigPath returns the default configuration file path
func GetConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "./config.json"
	}
	return filepath.Join(home, ".config", "vision-overlay", "config.json")
}

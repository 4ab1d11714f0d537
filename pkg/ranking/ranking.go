// Package ranking converts raw quantized classifier output into a sorted,
// thresholded list of labeled confidence scores.
package ranking

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/dkosev/vision-overlay/pkg/types"
)

// ErrLabelMismatch is returned when the score vector and label list
// have different lengths.
var ErrLabelMismatch = errors.New("score count does not match label count")

const (
	// DefaultTopK is the number of results returned when no override is given
	DefaultTopK = 5

	// DefaultMaxValue is the full-scale value of an 8-bit quantized score
	DefaultMaxValue = 255.0
)

type options struct {
	topK     int
	maxValue float64
}

// Option customizes a call to Rank.
type Option func(*options)

// WithTopK limits the number of returned results. Values below 1 fall
// back to DefaultTopK.
func WithTopK(k int) Option {
	return func(o *options) {
		if k >= 1 {
			o.topK = k
		}
	}
}

// WithMaxValue sets the full-scale raw score used for normalization.
// Non-positive values fall back to DefaultMaxValue.
func WithMaxValue(v float64) Option {
	return func(o *options) {
		if v > 0 {
			o.maxValue = v
		}
	}
}

// Rank normalizes each raw quantized score to [0,1], pairs it with the
// label at the same index, discards non-positive confidences, and returns
// the results sorted by confidence descending. Exact ties keep their
// original index order, so the output is deterministic. At most topK
// entries are returned.
func Rank(rawScores []uint8, labels []string, opts ...Option) ([]types.LabelScore, error) {
	if len(rawScores) != len(labels) {
		return nil, fmt.Errorf("ranking: %w (%d scores, %d labels)",
			ErrLabelMismatch, len(rawScores), len(labels))
	}

	o := options{topK: DefaultTopK, maxValue: DefaultMaxValue}
	for _, opt := range opts {
		opt(&o)
	}

	scored := make([]types.LabelScore, 0, len(rawScores))
	for i, raw := range rawScores {
		confidence := float64(raw) / o.maxValue
		if confidence <= 0 {
			continue
		}
		scored = append(scored, types.LabelScore{
			Label:      labels[i],
			Confidence: confidence,
		})
	}

	// Stable keeps index order on exact ties
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Confidence > scored[j].Confidence
	})

	if len(scored) > o.topK {
		scored = scored[:o.topK]
	}

	return scored, nil
}

// LoadLabels reads a newline-delimited label list from a text asset.
// Blank lines are skipped and surrounding whitespace is trimmed.
func LoadLabels(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open label file: %w", err)
	}
	defer f.Close()

	var labels []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		label := strings.TrimSpace(scanner.Text())
		if label == "" {
			continue
		}
		labels = append(labels, label)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read label file: %w", err)
	}

	return labels, nil
}

// ParseScores parses a raw quantized score vector from text. Entries may
// be separated by commas, spaces, or newlines.
func ParseScores(text string) ([]uint8, error) {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})

	scores := make([]uint8, 0, len(fields))
	for _, field := range fields {
		v, err := strconv.ParseUint(field, 10, 8)
		if err != nil {
			return nil, fmt.Errorf("invalid score %q: %w", field, err)
		}
		scores = append(scores, uint8(v))
	}

	return scores, nil
}

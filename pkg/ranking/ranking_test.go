package ranking

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/dkosev/vision-overlay/pkg/types"
)

func TestRank(t *testing.T) {
	scores := []uint8{0, 51, 255, 128, 25}
	labels := []string{"cat", "dog", "bird", "fish", "horse"}

	results, err := Rank(scores, labels)
	if err != nil {
		t.Fatalf("Rank failed: %v", err)
	}

	// Zero score entry must be dropped
	if len(results) != 4 {
		t.Fatalf("Expected 4 results, got %d", len(results))
	}

	if results[0].Label != "bird" {
		t.Errorf("Expected top label bird, got %s", results[0].Label)
	}

	if results[0].Confidence != 1.0 {
		t.Errorf("Expected top confidence 1.0, got %f", results[0].Confidence)
	}

	// Descending confidence order
	for i := 0; i < len(results)-1; i++ {
		if results[i].Confidence < results[i+1].Confidence {
			t.Errorf("Result %d (%f) out of order with %d (%f)",
				i, results[i].Confidence, i+1, results[i+1].Confidence)
		}
	}

	// No non-positive confidences
	for i, r := range results {
		if r.Confidence <= 0 {
			t.Errorf("Result %d has non-positive confidence %f", i, r.Confidence)
		}
	}
}

func TestRankTopKBound(t *testing.T) {
	scores := []uint8{10, 20, 30, 40, 50, 60, 70, 80}
	labels := []string{"a", "b", "c", "d", "e", "f", "g", "h"}

	results, err := Rank(scores, labels, WithTopK(3))
	if err != nil {
		t.Fatalf("Rank failed: %v", err)
	}

	if len(results) != 3 {
		t.Errorf("Expected 3 results, got %d", len(results))
	}

	// Default topK is 5
	results, err = Rank(scores, labels)
	if err != nil {
		t.Fatalf("Rank failed: %v", err)
	}

	if len(results) != DefaultTopK {
		t.Errorf("Expected %d results, got %d", DefaultTopK, len(results))
	}
}

func TestRankLabelMismatch(t *testing.T) {
	_, err := Rank([]uint8{1, 2, 3}, []string{"a", "b"})
	if err == nil {
		t.Fatal("Expected error for mismatched lengths")
	}

	if !errors.Is(err, ErrLabelMismatch) {
		t.Errorf("Expected ErrLabelMismatch, got %v", err)
	}
}

func TestRankTieStability(t *testing.T) {
	results, err := Rank([]uint8{255, 255}, []string{"a", "b"}, WithTopK(2))
	if err != nil {
		t.Fatalf("Rank failed: %v", err)
	}

	expected := []types.LabelScore{
		{Label: "a", Confidence: 1.0},
		{Label: "b", Confidence: 1.0},
	}

	if !reflect.DeepEqual(results, expected) {
		t.Errorf("Expected %v, got %v", expected, results)
	}
}

func TestRankDeterminism(t *testing.T) {
	scores := []uint8{128, 128, 64, 200, 200, 1}
	labels := []string{"a", "b", "c", "d", "e", "f"}

	first, err := Rank(scores, labels)
	if err != nil {
		t.Fatalf("Rank failed: %v", err)
	}

	for i := 0; i < 10; i++ {
		again, err := Rank(scores, labels)
		if err != nil {
			t.Fatalf("Rank failed on run %d: %v", i, err)
		}
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("Run %d produced %v, expected %v", i, again, first)
		}
	}
}

func TestRankMaxValue(t *testing.T) {
	results, err := Rank([]uint8{100}, []string{"a"}, WithMaxValue(100))
	if err != nil {
		t.Fatalf("Rank failed: %v", err)
	}

	if len(results) != 1 || results[0].Confidence != 1.0 {
		t.Errorf("Expected single result with confidence 1.0, got %v", results)
	}

	// Non-positive max value falls back to the 8-bit default
	results, err = Rank([]uint8{255}, []string{"a"}, WithMaxValue(-1))
	if err != nil {
		t.Fatalf("Rank failed: %v", err)
	}

	if results[0].Confidence != 1.0 {
		t.Errorf("Expected fallback normalization to 1.0, got %f", results[0].Confidence)
	}
}

func TestRankEmptyInput(t *testing.T) {
	results, err := Rank(nil, nil)
	if err != nil {
		t.Fatalf("Rank failed on empty input: %v", err)
	}

	if len(results) != 0 {
		t.Errorf("Expected no results, got %d", len(results))
	}
}

func TestLoadLabels(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "labels.txt")

	content := "background\ncat\n\ndog  \n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write label file: %v", err)
	}

	labels, err := LoadLabels(path)
	if err != nil {
		t.Fatalf("LoadLabels failed: %v", err)
	}

	expected := []string{"background", "cat", "dog"}
	if !reflect.DeepEqual(labels, expected) {
		t.Errorf("Expected %v, got %v", expected, labels)
	}
}

func TestLoadLabelsMissingFile(t *testing.T) {
	_, err := LoadLabels(filepath.Join(t.TempDir(), "missing.txt"))
	if err == nil {
		t.Error("Expected error for missing label file")
	}
}

func TestParseScores(t *testing.T) {
	scores, err := ParseScores("0, 128 255\n7")
	if err != nil {
		t.Fatalf("ParseScores failed: %v", err)
	}

	expected := []uint8{0, 128, 255, 7}
	if !reflect.DeepEqual(scores, expected) {
		t.Errorf("Expected %v, got %v", expected, scores)
	}
}

func TestParseScoresInvalid(t *testing.T) {
	if _, err := ParseScores("12, 300"); err == nil {
		t.Error("Expected error for out-of-range score")
	}

	if _, err := ParseScores("12, abc"); err == nil {
		t.Error("Expected error for non-numeric score")
	}
}

func BenchmarkRank(b *testing.B) {
	scores := make([]uint8, 1001)
	labels := make([]string, 1001)
	for i := range scores {
		scores[i] = uint8(i % 256)
		labels[i] = "label"
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Rank(scores, labels)
	}
}

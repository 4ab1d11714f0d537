package ollama

import "testing"

func TestParseTextResult(t *testing.T) {
	raw := `{"blocks":[{"text":"STOP","frame":{"x":0.25,"y":0.5,"w":0.5,"h":0.25}}],"full_text":"STOP"}`

	result := ParseTextResult(raw)

	if len(result.Blocks) != 1 {
		t.Fatalf("Expected 1 block, got %d", len(result.Blocks))
	}

	if result.Blocks[0].Text != "STOP" {
		t.Errorf("Expected block text STOP, got %q", result.Blocks[0].Text)
	}

	if result.Blocks[0].Frame.X != 0.25 {
		t.Errorf("Expected frame x 0.25, got %f", result.Blocks[0].Frame.X)
	}
}

func TestParseTextResultFencedJSON(t *testing.T) {
	raw := "```json\n{\"blocks\":[{\"text\":\"hi\",\"frame\":{\"x\":0,\"y\":0,\"w\":1,\"h\":1}}],\"full_text\":\"hi\"}\n```"

	result := ParseTextResult(raw)

	if len(result.Blocks) != 1 || result.Blocks[0].Text != "hi" {
		t.Errorf("Expected fenced JSON to parse, got %+v", result)
	}
}

func TestParseTextResultTrailingComma(t *testing.T) {
	raw := `{"blocks":[{"text":"a","frame":{"x":0,"y":0,"w":1,"h":1},}],"full_text":"a",}`

	result := ParseTextResult(raw)

	if len(result.Blocks) != 1 {
		t.Errorf("Expected trailing commas to be sanitized, got %+v", result)
	}
}

func TestParseTextResultNonJSONFallback(t *testing.T) {
	result := ParseTextResult("The sign says STOP.")

	if len(result.Blocks) != 1 {
		t.Fatalf("Expected single fallback block, got %d", len(result.Blocks))
	}

	// Fallback block spans the full frame
	frame := result.Blocks[0].Frame
	if frame.X != 0 || frame.Y != 0 || frame.W != 1 || frame.H != 1 {
		t.Errorf("Expected full-frame fallback, got %+v", frame)
	}

	if result.FullText != "The sign says STOP." {
		t.Errorf("Expected raw text preserved, got %q", result.FullText)
	}
}

func TestParseTextResultDerivesFullText(t *testing.T) {
	raw := `{"blocks":[{"text":"one","frame":{"x":0,"y":0,"w":1,"h":0.5}},{"text":"two","frame":{"x":0,"y":0.5,"w":1,"h":0.5}}]}`

	result := ParseTextResult(raw)

	if result.FullText != "one\ntwo" {
		t.Errorf("Expected derived full text, got %q", result.FullText)
	}
}

func TestNewClient(t *testing.T) {
	c, err := NewClient("http://localhost:11435/api/chat")
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}

	if c == nil {
		t.Error("NewClient returned nil")
	}
}

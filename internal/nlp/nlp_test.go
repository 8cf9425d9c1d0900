package nlp

import (
	"testing"

	"github.com/mzelenkov/claimlens/internal/model"
)

func TestParseLabel(t *testing.T) {
	tests := []struct {
		input    string
		expected model.Label
	}{
		{"entailment", model.LabelEntailment},
		{"ENTAILMENT", model.LabelEntailment},
		{" supports ", model.LabelEntailment},
		{"contradiction", model.LabelContradiction},
		{"refutes", model.LabelContradiction},
		{"neutral", model.LabelNeutral},
		{"maybe", model.LabelNeutral},
		{"", model.LabelNeutral},
	}

	for _, tt := range tests {
		if got := ParseLabel(tt.input); got != tt.expected {
			t.Errorf("ParseLabel(%q) = %s, expected %s", tt.input, got, tt.expected)
		}
	}
}

func TestParseClassifyResponse(t *testing.T) {
	t.Run("bare array", func(t *testing.T) {
		items, err := parseClassifyResponse(`[{"label":"entailment","confidence":0.9},{"label":"neutral","confidence":0.4}]`)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if len(items) != 2 {
			t.Fatalf("Expected 2 items, got %d", len(items))
		}
		if items[0].Label != "entailment" || items[0].Confidence != 0.9 {
			t.Errorf("Expected first item parsed, got %+v", items[0])
		}
	})

	t.Run("markdown fences and prose", func(t *testing.T) {
		content := "Here are the classifications:\n```json\n[{\"label\":\"contradiction\",\"confidence\":0.8}]\n```\nDone."
		items, err := parseClassifyResponse(content)
		if err != nil {
			t.Fatalf("Expected fenced array extracted, got %v", err)
		}
		if len(items) != 1 || items[0].Label != "contradiction" {
			t.Errorf("Expected contradiction item, got %+v", items)
		}
	})

	t.Run("no array", func(t *testing.T) {
		if _, err := parseClassifyResponse("I cannot classify these sentences."); err == nil {
			t.Error("Expected error when no JSON array present")
		}
	})

	t.Run("malformed json", func(t *testing.T) {
		if _, err := parseClassifyResponse(`[{"label": }]`); err == nil {
			t.Error("Expected error for malformed JSON")
		}
	})
}

func TestNewBackend(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		backend, err := NewBackend(model.NLPConfig{Provider: ""})
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if backend != nil {
			t.Error("Expected nil backend for empty provider")
		}
	})

	t.Run("openai", func(t *testing.T) {
		backend, err := NewBackend(model.NLPConfig{Provider: "openai", APIKey: "sk-test", RewriteModel: "gpt-4o-mini"})
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if backend.Embedder == nil || backend.Classifier == nil || backend.Rewriter == nil {
			t.Error("Expected all three capabilities wired")
		}
	})

	t.Run("openai without rewrite model", func(t *testing.T) {
		backend, err := NewBackend(model.NLPConfig{Provider: "openai", APIKey: "sk-test"})
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if backend.Rewriter != nil {
			t.Error("Expected no rewriter when the rewrite model is blank")
		}
	})

	t.Run("openai without credentials", func(t *testing.T) {
		if _, err := NewBackend(model.NLPConfig{Provider: "openai"}); err == nil {
			t.Error("Expected error without API key or base URL")
		}
	})

	t.Run("unknown provider", func(t *testing.T) {
		if _, err := NewBackend(model.NLPConfig{Provider: "bert"}); err == nil {
			t.Error("Expected error for unknown provider")
		}
	})
}

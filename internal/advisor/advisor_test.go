package advisor

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/klytics/inquirykit/internal/ai"
	"github.com/klytics/inquirykit/internal/dataset"
)

// fakeProvider returns a canned response or error.
type fakeProvider struct {
	content string
	err     error
	prompt  string
}

func (f *fakeProvider) Infer(_ context.Context, _ string, messages []ai.Message, _ ai.InferOptions) (*ai.InferResult, error) {
	if len(messages) > 0 {
		f.prompt = messages[len(messages)-1].Content
	}
	if f.err != nil {
		return nil, f.err
	}
	return &ai.InferResult{Content: f.content}, nil
}

func (f *fakeProvider) Name() string { return "fake" }

func TestClassifyParsesJSON(t *testing.T) {
	p := &fakeProvider{content: `Here is my analysis:
{"classification": "A", "intent": "bulk purchase", "suggestion": "send the OEM quote"}`}
	adv := New(p, nil)

	res := adv.Classify(context.Background(), dataset.Record{CustomerName: "Acme"})
	if res.Classification != "A" {
		t.Errorf("Classification = %q", res.Classification)
	}
	if res.Intent != "bulk purchase" {
		t.Errorf("Intent = %q", res.Intent)
	}
	if res.Suggestion != "send the OEM quote" {
		t.Errorf("Suggestion = %q", res.Suggestion)
	}
}

func TestClassifyProviderErrorFallsBack(t *testing.T) {
	p := &fakeProvider{err: errors.New("connection refused")}
	adv := New(p, nil)

	res := adv.Classify(context.Background(), dataset.Record{})
	if res.Classification != "C" {
		t.Errorf("Classification = %q, want conservative C", res.Classification)
	}
	if res.Intent != "unknown" {
		t.Errorf("Intent = %q", res.Intent)
	}
}

func TestClassifyPromptContents(t *testing.T) {
	p := &fakeProvider{content: `{"classification":"B"}`}
	adv := New(p, nil)

	adv.Classify(context.Background(), dataset.Record{
		CustomerName: "Bolt Trading",
		Country:      "Brazil",
		Product:      "inverter",
	})

	for _, want := range []string{"Bolt Trading", "Brazil", "inverter", "A:", "B:", "C:", "X:"} {
		if !strings.Contains(p.prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
	// Empty remark reads as "none" rather than a blank line.
	if !strings.Contains(p.prompt, "Remark: none") {
		t.Error("empty remark should render as none")
	}
}

func TestParseResponseLetterScan(t *testing.T) {
	tests := []struct {
		content string
		want    string
	}{
		{"The grade is B for this one.", "B"},
		{"X — sample stage", "X"},
		{"nothing useful here", "C"},
		{"", "C"},
	}
	for _, tt := range tests {
		if got := parseResponse(tt.content); got.Classification != tt.want {
			t.Errorf("parseResponse(%q) = %q, want %q", tt.content, got.Classification, tt.want)
		}
	}
}

func TestParseResponseMalformedJSON(t *testing.T) {
	res := parseResponse(`{"classification": not-json}`)
	if res.Classification != "C" {
		t.Errorf("malformed JSON should fall back, got %q", res.Classification)
	}
}

func TestNormalizeOutOfRubricGrade(t *testing.T) {
	res := parseResponse(`{"classification": "S+", "intent": "", "suggestion": ""}`)
	if res.Classification != "C" {
		t.Errorf("out-of-rubric grade should become C, got %q", res.Classification)
	}
	if res.Intent != "unknown" || res.Suggestion == "" {
		t.Errorf("empty advisory fields should get defaults: %+v", res)
	}
}

func TestNormalizeLowercaseGrade(t *testing.T) {
	res := parseResponse(`{"classification": " a "}`)
	if res.Classification != "A" {
		t.Errorf("grade should be upper-cased and trimmed, got %q", res.Classification)
	}
}

// Package advisor grades individual inquiries with a language model and
// degrades to safe defaults when the model is unavailable or off-script.
package advisor

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/klytics/inquirykit/internal/ai"
	"github.com/klytics/inquirykit/internal/dataset"
	"github.com/klytics/inquirykit/internal/schema"
)

// Fallback values used whenever the model cannot be consulted or its answer
// cannot be parsed. C is the conservative grade: it never triggers follow-up
// automation on a guess.
const (
	fallbackGrade      = "C"
	fallbackIntent     = "unknown"
	fallbackSuggestion = "needs further review of the customer's requirements"
)

// Result is one classification outcome.
type Result struct {
	Classification string `json:"classification"`
	Intent         string `json:"intent"`
	Suggestion     string `json:"suggestion"`
}

// Advisor runs classification calls against a model provider.
type Advisor struct {
	Provider ai.Provider
	Rules    map[string]string
	Log      *zap.Logger
}

// New returns an advisor using the default rubric. Rules can be replaced
// through configuration so teams adjust the grading text without a rebuild.
func New(provider ai.Provider, log *zap.Logger) *Advisor {
	if log == nil {
		log = zap.NewNop()
	}
	return &Advisor{
		Provider: provider,
		Rules:    schema.GradeRules,
		Log:      log,
	}
}

// Classify grades one inquiry record. It never returns an error: a failed or
// unparsable model call yields the conservative fallback result instead, so a
// batch run over hundreds of rows cannot be derailed by one flaky response.
func (a *Advisor) Classify(ctx context.Context, r dataset.Record) Result {
	prompt := a.buildPrompt(r)

	resp, err := a.Provider.Infer(ctx, "", []ai.Message{{Role: "user", Content: prompt}}, ai.InferOptions{
		MaxTokens:   1000,
		Temperature: 0.7,
	})
	if err != nil {
		a.Log.Warn("classification call failed, using fallback",
			zap.String("customer", r.CustomerName), zap.Error(err))
		return fallbackResult()
	}

	return parseResponse(resp.Content)
}

func (a *Advisor) buildPrompt(r dataset.Record) string {
	var b strings.Builder
	b.WriteString("Classify the following sales inquiry.\n\nCustomer information:\n")
	fmt.Fprintf(&b, "- Customer name: %s\n", orUnknown(r.CustomerName))
	fmt.Fprintf(&b, "- Contact method: %s\n", orUnknown(r.ContactMethod))
	fmt.Fprintf(&b, "- Product inquired: %s\n", orUnknown(r.Product))
	fmt.Fprintf(&b, "- Continent: %s\n", orUnknown(r.Continent))
	fmt.Fprintf(&b, "- Country: %s\n", orUnknown(r.Country))
	fmt.Fprintf(&b, "- Remark: %s\n", orNone(r.Remark))

	b.WriteString("\nClassification rules:\n")
	for _, g := range schema.GradeOrder {
		if rule, ok := a.Rules[g]; ok {
			fmt.Fprintf(&b, "%s: %s\n", g, rule)
		}
	}

	b.WriteString(`
Also analyze:
1. The customer's intent (e.g. purchase, sample request, price inquiry, technical question)
2. A concrete follow-up suggestion

Return the result as JSON:
{
    "classification": "A/B/C/X",
    "intent": "customer intent",
    "suggestion": "follow-up suggestion"
}
`)
	return b.String()
}

// parseResponse extracts a Result from model output. It first looks for a
// JSON object anywhere in the text; failing that it scans for a grade letter
// (A before B before X) and falls back to C.
func parseResponse(content string) Result {
	if start := strings.Index(content, "{"); start >= 0 {
		if end := strings.LastIndex(content, "}"); end > start {
			var res Result
			if err := json.Unmarshal([]byte(content[start:end+1]), &res); err == nil {
				return normalize(res)
			}
		}
	}

	res := fallbackResult()
	switch {
	case strings.Contains(content, "A"):
		res.Classification = "A"
	case strings.Contains(content, "B"):
		res.Classification = "B"
	case strings.Contains(content, "X"):
		res.Classification = "X"
	}
	return res
}

// normalize guards against a model that returned JSON with an out-of-rubric
// grade or empty advisory fields.
func normalize(res Result) Result {
	grade := strings.ToUpper(strings.TrimSpace(res.Classification))
	switch grade {
	case "A", "B", "C", "X":
		res.Classification = grade
	default:
		res.Classification = fallbackGrade
	}
	if strings.TrimSpace(res.Intent) == "" {
		res.Intent = fallbackIntent
	}
	if strings.TrimSpace(res.Suggestion) == "" {
		res.Suggestion = fallbackSuggestion
	}
	return res
}

func fallbackResult() Result {
	return Result{
		Classification: fallbackGrade,
		Intent:         fallbackIntent,
		Suggestion:     fallbackSuggestion,
	}
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}

func orNone(s string) string {
	if s == "" {
		return "none"
	}
	return s
}

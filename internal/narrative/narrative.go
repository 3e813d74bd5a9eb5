// Package narrative assembles the business analysis report: a deterministic
// data summary, a model-written narrative on top of it, and a plain fallback
// paragraph when the model is unreachable. The appendix ships either way.
package narrative

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/klytics/inquirykit/internal/ai"
	"github.com/klytics/inquirykit/internal/analyze"
	"github.com/klytics/inquirykit/internal/dataset"
)

const (
	defaultAttempts = 2
	defaultTimeout  = 120 * time.Second
)

const systemPrompt = "You are a senior cross-border e-commerce data analyst " +
	"with over ten years of experience on international trade platforms. You " +
	"excel at extracting business insight from inquiry data and giving " +
	"professional, actionable advice."

// Assembler produces reports. Zero values for Attempts and Timeout are
// replaced with the defaults; Provider may be nil, which always yields the
// fallback narrative.
type Assembler struct {
	Provider ai.Provider
	Log      *zap.Logger
	Attempts int
	Timeout  time.Duration
	Now      func() time.Time
}

// NewAssembler returns an assembler with default retry and timeout settings.
func NewAssembler(provider ai.Provider, log *zap.Logger) *Assembler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Assembler{
		Provider: provider,
		Log:      log,
		Attempts: defaultAttempts,
		Timeout:  defaultTimeout,
		Now:      time.Now,
	}
}

// Report is the assembled result. Narrative is model text or the fallback
// paragraph; Fallback records which one the reader is looking at.
type Report struct {
	Period      string
	GeneratedAt time.Time
	Engine      string
	Narrative   string
	Fallback    bool
	Summary     string
}

// Generate builds the report for a dataset. The model call is attempted up
// to Attempts times with a per-attempt timeout; failure degrades to the
// fallback narrative and is never an error. ErrNoDataset is returned only
// when there is nothing to report on.
func (a *Assembler) Generate(ctx context.Context, d *dataset.Dataset) (*Report, error) {
	if d == nil || d.Len() == 0 {
		return nil, dataset.ErrNoDataset
	}

	summary := BuildSummary(d)
	stats, err := analyze.Analyze(d)
	if err != nil {
		return nil, err
	}

	rep := &Report{
		Period:      fmt.Sprintf("%s to %s", stats.FirstInquiry, stats.LastInquiry),
		GeneratedAt: a.now(),
		Summary:     summary,
	}

	if text, engine := a.callModel(ctx, summary); text != "" {
		rep.Narrative = text
		rep.Engine = engine
	} else {
		rep.Narrative = fallbackNarrative(d)
		rep.Fallback = true
		rep.Engine = "template"
	}
	return rep, nil
}

// callModel runs the narrative prompt with retries. Returns empty text when
// every attempt fails or no provider is configured.
func (a *Assembler) callModel(ctx context.Context, summary string) (string, string) {
	if a.Provider == nil {
		return "", ""
	}

	attempts := a.Attempts
	if attempts <= 0 {
		attempts = defaultAttempts
	}
	timeout := a.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	prompt := buildNarrativePrompt(summary)
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			a.Log.Info("retrying narrative generation", zap.Int("attempt", attempt+1))
		}
		callCtx, cancel := context.WithTimeout(ctx, timeout)
		resp, err := a.Provider.Infer(callCtx, systemPrompt,
			[]ai.Message{{Role: "user", Content: prompt}},
			ai.InferOptions{MaxTokens: 4000, Temperature: 0.7, TopP: 0.9})
		cancel()
		if err != nil {
			a.Log.Warn("narrative generation failed",
				zap.Int("attempt", attempt+1), zap.Error(err))
			if ctx.Err() != nil {
				break
			}
			continue
		}
		if strings.TrimSpace(resp.Content) == "" {
			a.Log.Warn("narrative generation returned empty text", zap.Int("attempt", attempt+1))
			continue
		}
		return resp.Content, a.Provider.Name()
	}
	return "", ""
}

func buildNarrativePrompt(summary string) string {
	var b strings.Builder
	b.WriteString("Based on the following inquiry data, write a professional, detailed, insightful business analysis report.\n\n")
	b.WriteString("[Data overview]\n")
	b.WriteString(summary)
	b.WriteString(`

[Analysis requirements]
1. Analyze market trends and customer behavior patterns in depth
2. Identify key problems and risk points in the business
3. Give concrete, executable optimization advice
4. Compare against historical data where period-over-period numbers exist, and explain growth or decline
5. Forecast the coming trend and propose strategic planning advice

[Report structure]
1. Executive summary (core metrics, overall assessment, key findings)
2. Market analysis (regional distribution, market opportunities, competitive landscape)
3. Product analysis (popular products, product mix, optimization direction)
4. Customer quality analysis (grade distribution, conversion rate, customer value)
5. Time trend analysis (inquiry trend, seasonality, growth drivers)
6. Team performance analysis (member performance, collaboration, training needs)
7. Problem diagnosis and risk warnings (current issues, latent risks, countermeasures)
8. Strategic actions (short term 1-2 weeks, medium term 1-3 months, long term 3-6 months)
9. Conclusion and outlook

Every conclusion must be backed by the numbers provided; keep advice specific and executable.`)
	return b.String()
}

// fallbackNarrative is the minimal analysis used when no model is available.
func fallbackNarrative(d *dataset.Dataset) string {
	total := d.Len()
	aCount := 0
	for i := range d.Records {
		if d.Records[i].Grade == "A" {
			aCount++
		}
	}
	var b strings.Builder
	b.WriteString("Note: the analysis service was unavailable, so this report uses the simplified template.\n\n")
	b.WriteString("[Brief analysis]\n\n")
	fmt.Fprintf(&b, "This period received %d inquiries, of which %d were grade A high-value inquiries.\n", total, aCount)
	b.WriteString("Focus follow-up on grade A and B customers, refine product promotion, and keep expanding market reach.\n\n")
	b.WriteString("See the data appendix below for full figures.\n")
	return b.String()
}

const reportRule = "===================================================================================================="

// Render formats the report as the final text document, appendix included.
func (r *Report) Render() string {
	var b strings.Builder
	b.WriteString(reportRule + "\n")
	b.WriteString("                    International Business Inquiry Analysis Report\n")
	b.WriteString(reportRule + "\n\n")
	fmt.Fprintf(&b, "Analysis period: %s\n", r.Period)
	fmt.Fprintf(&b, "Generated at: %s\n", r.GeneratedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "Analysis engine: %s\n", r.Engine)
	b.WriteString("\n" + reportRule + "\n\n")
	b.WriteString(r.Narrative)
	b.WriteString("\n\n" + reportRule + "\n")
	b.WriteString("DATA APPENDIX\n")
	b.WriteString(reportRule + "\n\n")
	b.WriteString(r.Summary)
	b.WriteString("\n" + reportRule + "\n")
	b.WriteString("END OF REPORT\n")
	b.WriteString(reportRule + "\n")
	return b.String()
}

func (a *Assembler) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

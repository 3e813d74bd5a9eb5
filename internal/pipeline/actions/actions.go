// Package actions provides the built-in pipeline action implementations.
package actions

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/klytics/inquirykit/internal/advisor"
	"github.com/klytics/inquirykit/internal/ai"
	"github.com/klytics/inquirykit/internal/alert"
	"github.com/klytics/inquirykit/internal/analyze"
	"github.com/klytics/inquirykit/internal/email"
	"github.com/klytics/inquirykit/internal/formats/xlsx"
	"github.com/klytics/inquirykit/internal/ingest"
	"github.com/klytics/inquirykit/internal/narrative"
	"github.com/klytics/inquirykit/internal/pipeline"
	"github.com/klytics/inquirykit/internal/session"
)

// Env carries the shared dependencies actions run against. NewProvider is
// lazy so deterministic pipelines never demand an API key.
type Env struct {
	Store       *session.Store
	Log         *zap.Logger
	NewProvider func() (ai.Provider, error)
}

// RegisterAll registers all built-in actions with the given executor.
func RegisterAll(exec *pipeline.Executor, env *Env) {
	exec.RegisterAction("import", env.ImportAction)
	exec.RegisterAction("analyze", env.AnalyzeAction)
	exec.RegisterAction("alerts", env.AlertsAction)
	exec.RegisterAction("report.generate", env.ReportAction)
	exec.RegisterAction("classify.batch", env.ClassifyAction)
	exec.RegisterAction("export", env.ExportAction)
	exec.RegisterAction("email", env.EmailAction)
}

// ImportAction reads a workbook into the working dataset. By default new
// rows merge into the existing dataset; options.replace: "true" starts fresh.
func (env *Env) ImportAction(ctx context.Context, step pipeline.Step, input string) (string, error) {
	if input == "" {
		return "", fmt.Errorf("import requires an input file path")
	}

	d, rep, err := ingest.File(input, env.Log)
	if err != nil {
		return "", err
	}

	sources := []string{input}
	if step.Options["replace"] != "true" {
		if existing, err := env.Store.Load(); err == nil {
			if prev, err := env.Store.Sources(); err == nil {
				sources = append(prev, input)
			}
			existing.Merge(d)
			d = existing
		}
	}

	if err := env.Store.Save(d, sources); err != nil {
		return "", err
	}
	return fmt.Sprintf("imported %d rows from %d sheet(s), %d total after merge",
		rep.RowsKept, rep.Sheets, d.Len()), nil
}

// AnalyzeAction computes the statistics summary as JSON, optionally writing
// it to step.Output.
func (env *Env) AnalyzeAction(ctx context.Context, step pipeline.Step, input string) (string, error) {
	d, err := env.Store.Load()
	if err != nil {
		return "", err
	}
	summary, err := analyze.Analyze(d)
	if err != nil {
		return "", err
	}
	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return "", fmt.Errorf("could not encode summary: %w", err)
	}
	if step.Output != "" {
		if err := os.WriteFile(step.Output, data, 0644); err != nil {
			return "", fmt.Errorf("could not write %s: %w", step.Output, err)
		}
		return step.Output, nil
	}
	return string(data), nil
}

// AlertsAction evaluates the detector set and returns the alerts as JSON,
// optionally writing them to step.Output.
func (env *Env) AlertsAction(ctx context.Context, step pipeline.Step, input string) (string, error) {
	d, err := env.Store.Load()
	if err != nil {
		return "", err
	}
	engine := alert.NewEngine(env.Log)
	alerts, err := engine.Evaluate(d)
	if err != nil {
		return "", err
	}
	data, err := json.MarshalIndent(alerts, "", "  ")
	if err != nil {
		return "", fmt.Errorf("could not encode alerts: %w", err)
	}
	if step.Output != "" {
		if err := os.WriteFile(step.Output, data, 0644); err != nil {
			return "", fmt.Errorf("could not write %s: %w", step.Output, err)
		}
		return step.Output, nil
	}
	return string(data), nil
}

// ReportAction generates the analysis report and writes it to step.Output
// (default report.txt).
func (env *Env) ReportAction(ctx context.Context, step pipeline.Step, input string) (string, error) {
	d, err := env.Store.Load()
	if err != nil {
		return "", err
	}

	var provider ai.Provider
	if env.NewProvider != nil {
		if p, perr := env.NewProvider(); perr == nil {
			provider = p
		} else {
			env.Log.Warn("no model provider available, report will use the fallback template", zap.Error(perr))
		}
	}

	assembler := narrative.NewAssembler(provider, env.Log)
	rep, err := assembler.Generate(ctx, d)
	if err != nil {
		return "", err
	}

	out := step.Output
	if out == "" {
		out = "report.txt"
	}
	if err := os.WriteFile(out, []byte(rep.Render()), 0644); err != nil {
		return "", fmt.Errorf("could not write %s: %w", out, err)
	}
	return out, nil
}

// ClassifyAction grades ungraded rows with the model and saves the result.
// options.limit caps how many rows are sent; options.all: "true" regrades
// every row.
func (env *Env) ClassifyAction(ctx context.Context, step pipeline.Step, input string) (string, error) {
	d, err := env.Store.Load()
	if err != nil {
		return "", err
	}
	if env.NewProvider == nil {
		return "", fmt.Errorf("classify.batch requires a model provider")
	}
	provider, err := env.NewProvider()
	if err != nil {
		return "", err
	}

	limit := 0
	if v := step.Options["limit"]; v != "" {
		limit, err = strconv.Atoi(v)
		if err != nil || limit < 0 {
			return "", fmt.Errorf("invalid limit %q", v)
		}
	}
	all := step.Options["all"] == "true"

	adv := advisor.New(provider, env.Log)
	graded := 0
	for i := range d.Records {
		if !all && d.Records[i].Grade != "" {
			continue
		}
		if limit > 0 && graded >= limit {
			break
		}
		res := adv.Classify(ctx, d.Records[i])
		d.Records[i].Grade = res.Classification
		graded++
	}

	sources, _ := env.Store.Sources()
	if err := env.Store.Save(d, sources); err != nil {
		return "", err
	}
	return fmt.Sprintf("classified %d row(s)", graded), nil
}

// ExportAction writes the dataset to step.Output as xlsx or csv
// (options.format, default by extension).
func (env *Env) ExportAction(ctx context.Context, step pipeline.Step, input string) (string, error) {
	d, err := env.Store.Load()
	if err != nil {
		return "", err
	}
	out := step.Output
	if out == "" {
		return "", fmt.Errorf("export requires an output path")
	}

	format := step.Options["format"]
	if format == "" {
		if strings.HasSuffix(strings.ToLower(out), ".csv") {
			format = "csv"
		} else {
			format = "xlsx"
		}
	}

	switch format {
	case "csv":
		if err := xlsx.WriteCSV(d, out); err != nil {
			return "", err
		}
	case "xlsx":
		opts := xlsx.ExportOptions{
			GroupByMonth: step.Options["group_by_month"] == "true",
			Legend:       step.Options["legend"] != "false",
		}
		if err := xlsx.WriteDataset(d, out, opts); err != nil {
			return "", err
		}
	default:
		return "", fmt.Errorf("unknown export format %q — use xlsx or csv", format)
	}
	return out, nil
}

// EmailAction sends step.Input as an attachment. Recipients come from
// options.to (comma-separated); options.subject and options.body override
// the defaults.
func (env *Env) EmailAction(ctx context.Context, step pipeline.Step, input string) (string, error) {
	cfg, err := email.LoadConfig()
	if err != nil {
		return "", err
	}

	var to []string
	for _, addr := range strings.Split(step.Options["to"], ",") {
		if addr = strings.TrimSpace(addr); addr != "" {
			to = append(to, addr)
		}
	}

	msg := email.Message{
		To:      to,
		Subject: step.Options["subject"],
		Body:    step.Options["body"],
		Attach:  input,
	}
	if msg.Subject == "" {
		msg.Subject = "Inquiry analysis report"
	}
	if msg.Body == "" {
		msg.Body = "Attached is the latest inquiry analysis."
	}

	if err := email.Send(cfg, msg); err != nil {
		return "", err
	}
	return fmt.Sprintf("sent to %d recipient(s)", len(to)), nil
}

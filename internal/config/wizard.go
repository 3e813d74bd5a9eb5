package config

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// ConfigIssue represents a validation finding.
type ConfigIssue struct {
	Key      string `json:"key"`
	Severity string `json:"severity"` // "error", "warning", "info"
	Message  string `json:"message"`
	Fix      string `json:"fix"`
}

// Wizard runs the interactive setup wizard.
// If reader is nil, reads from os.Stdin.
func Wizard(reader io.Reader) error {
	if reader == nil {
		reader = os.Stdin
	}
	scanner := bufio.NewScanner(reader)

	fmt.Println("inquirykit Setup Wizard")
	fmt.Println()
	fmt.Println("Let's get you set up in about 60 seconds.")
	fmt.Println()
	fmt.Println(strings.Repeat("-", 48))
	fmt.Println()

	// Step 1: AI Provider
	fmt.Println("Step 1/3: AI Provider")
	fmt.Println("  Which AI provider do you want to use for reports and classification?")
	fmt.Println("  [1] Qwen / DashScope (recommended)")
	fmt.Println("  [2] Anthropic Claude")
	fmt.Println("  [3] Ollama (local, free)")
	fmt.Println("  [4] Skip for now")
	fmt.Print("  Choice: ")

	scanner.Scan()
	choice := strings.TrimSpace(scanner.Text())

	switch choice {
	case "1":
		viper.Set("provider", "qwen")
		fmt.Print("  Paste your DashScope API key (sk-...): ")
		scanner.Scan()
		key := strings.TrimSpace(scanner.Text())
		if key != "" {
			viper.Set("api_keys.dashscope", key)
			fmt.Println("  API key saved")
		}
	case "2":
		viper.Set("provider", "anthropic")
		fmt.Print("  Paste your Anthropic API key (sk-ant-...): ")
		scanner.Scan()
		key := strings.TrimSpace(scanner.Text())
		if key != "" {
			viper.Set("api_keys.anthropic", key)
			fmt.Println("  API key saved")
		}
	case "3":
		viper.Set("provider", "ollama")
		fmt.Print("  Ollama host (default: http://localhost:11434): ")
		scanner.Scan()
		host := strings.TrimSpace(scanner.Text())
		if host != "" {
			viper.Set("ollama.host", host)
		} else {
			viper.Set("ollama.host", "http://localhost:11434")
		}
		fmt.Println("  Ollama configured")
	default:
		fmt.Println("  Skipped — analysis reports will use the fallback template")
	}
	fmt.Println()

	// Step 2: Output
	fmt.Println("Step 2/3: Output")
	fmt.Print("  Default output format [text/json] (default: text): ")
	scanner.Scan()
	format := strings.TrimSpace(strings.ToLower(scanner.Text()))
	if format == "json" {
		viper.Set("output.format", "json")
	} else {
		viper.Set("output.format", "text")
	}
	fmt.Println()

	// Save config
	if err := SaveConfig(); err != nil {
		return fmt.Errorf("could not save config: %w", err)
	}

	// Step 3: Done
	fmt.Println("Step 3/3: Done!")
	fmt.Println(strings.Repeat("-", 48))
	fmt.Println()
	fmt.Println("inquirykit is ready!")
	fmt.Println()
	fmt.Println("Quick start:")
	fmt.Println("  inq import inquiries.xlsx        (load a spreadsheet)")
	fmt.Println("  inq analyze                      (statistics summary)")
	fmt.Println("  inq alerts                       (detector warnings)")
	fmt.Println("  inq report -o report.txt         (full analysis report)")
	fmt.Println()
	fmt.Printf("Config file: %s\n", ConfigPath())
	fmt.Println("Type 'inq config show' to see all settings.")

	return nil
}

// WizardNonInteractive sets up config with defaults only (no user input).
func WizardNonInteractive() error {
	viper.Set("provider", "qwen")
	viper.Set("output.color", true)
	viper.Set("output.format", "text")
	return SaveConfig()
}

// Validate checks config values and returns a list of issues.
func Validate() []ConfigIssue {
	var issues []ConfigIssue

	provider := viper.GetString("provider")

	// Check AI provider key
	switch provider {
	case "qwen", "dashscope":
		key := os.Getenv("DASHSCOPE_API_KEY")
		if key == "" {
			key = viper.GetString("api_keys.dashscope")
		}
		if key == "" {
			issues = append(issues, ConfigIssue{
				Key:      "provider",
				Severity: "error",
				Message:  fmt.Sprintf("provider is %q but DASHSCOPE_API_KEY is not set", provider),
				Fix:      "export DASHSCOPE_API_KEY=sk-...\nOr: inq config set api_keys.dashscope sk-...",
			})
		} else {
			issues = append(issues, ConfigIssue{
				Key:      "provider",
				Severity: "info",
				Message:  "DashScope API key configured",
			})
		}
	case "anthropic":
		key := os.Getenv("ANTHROPIC_API_KEY")
		if key == "" {
			key = viper.GetString("api_keys.anthropic")
		}
		if key == "" {
			issues = append(issues, ConfigIssue{
				Key:      "provider",
				Severity: "error",
				Message:  fmt.Sprintf("provider is %q but ANTHROPIC_API_KEY is not set", provider),
				Fix:      "export ANTHROPIC_API_KEY=sk-ant-...",
			})
		} else {
			issues = append(issues, ConfigIssue{
				Key:      "provider",
				Severity: "info",
				Message:  "Anthropic API key configured",
			})
		}
	case "ollama":
		issues = append(issues, ConfigIssue{
			Key:      "provider",
			Severity: "info",
			Message:  "Ollama configured (no API key needed)",
		})
	}

	// Report settings
	if attempts := viper.GetInt("report.attempts"); attempts < 1 {
		issues = append(issues, ConfigIssue{
			Key:      "report.attempts",
			Severity: "warning",
			Message:  "report.attempts is below 1 — the model will never be called",
			Fix:      "inq config set report.attempts 2",
		})
	}
	if factor := viper.GetFloat64("alerts.time_savings_factor"); factor < 0 || factor > 1 {
		issues = append(issues, ConfigIssue{
			Key:      "alerts.time_savings_factor",
			Severity: "warning",
			Message:  "alerts.time_savings_factor should be between 0 and 1",
			Fix:      "inq config set alerts.time_savings_factor 0.6",
		})
	}

	return issues
}

// ToEnv returns all config values as a map of env var name -> value.
func ToEnv() map[string]string {
	env := make(map[string]string)

	if p := viper.GetString("provider"); p != "" {
		env["INQ_PROVIDER"] = p
	}
	if m := viper.GetString("model"); m != "" {
		env["INQ_MODEL"] = m
	}
	if k := viper.GetString("api_keys.dashscope"); k != "" {
		env["DASHSCOPE_API_KEY"] = k
	}
	if k := viper.GetString("api_keys.anthropic"); k != "" {
		env["ANTHROPIC_API_KEY"] = k
	}
	if h := viper.GetString("ollama.host"); h != "" {
		env["OLLAMA_HOST"] = h
	}

	return env
}

// Set sets a config value and saves to disk.
func Set(key, value string) error {
	viper.Set(key, value)
	return SaveConfig()
}

// Get retrieves a config value.
func Get(key string) string {
	return viper.GetString(key)
}

// ResetConfig resets all config to defaults.
func ResetConfig() error {
	path := ConfigPath()
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("could not delete config: %w", err)
	}
	// Reset viper defaults
	viper.Set("provider", "qwen")
	viper.Set("model", "qwen-max")
	viper.Set("output.color", true)
	viper.Set("output.format", "text")
	return nil
}

// SaveConfig writes the current config to ~/.inq/config.yaml.
func SaveConfig() error {
	dir := Dir()
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("could not create config directory: %w", err)
	}

	path := filepath.Join(dir, "config.yaml")
	if err := viper.WriteConfigAs(path); err != nil {
		return fmt.Errorf("could not write config: %w", err)
	}

	// Set secure permissions
	os.Chmod(path, 0600)
	return nil
}

// ConfigPath returns the path to the config file.
func ConfigPath() string {
	return filepath.Join(Dir(), "config.yaml")
}

// ShowConfig returns a formatted string of the current configuration.
func ShowConfig() string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Config: %s\n\n", ConfigPath()))

	sb.WriteString("AI\n")
	sb.WriteString(fmt.Sprintf("  provider:  %s\n", viper.GetString("provider")))
	sb.WriteString(fmt.Sprintf("  model:     %s\n", viper.GetString("model")))
	if k := viper.GetString("api_keys.dashscope"); k != "" {
		sb.WriteString(fmt.Sprintf("  key:       %s****\n", k[:min(10, len(k))]))
	}
	if k := viper.GetString("api_keys.anthropic"); k != "" {
		sb.WriteString(fmt.Sprintf("  key:       %s****\n", k[:min(10, len(k))]))
	}
	if h := viper.GetString("ollama.host"); h != "" {
		sb.WriteString(fmt.Sprintf("  ollama:    %s\n", h))
	}
	sb.WriteString("\n")

	sb.WriteString("Report\n")
	sb.WriteString(fmt.Sprintf("  attempts:  %d\n", viper.GetInt("report.attempts")))
	sb.WriteString(fmt.Sprintf("  timeout:   %ds\n", viper.GetInt("report.timeout_seconds")))
	sb.WriteString("\n")

	sb.WriteString("Output\n")
	sb.WriteString(fmt.Sprintf("  format:    %s\n", viper.GetString("output.format")))
	sb.WriteString(fmt.Sprintf("  color:     %t\n", viper.GetBool("output.color")))
	sb.WriteString("\n")

	return sb.String()
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

package config

import (
	"os"

	"github.com/klytics/inquirykit/internal/ai"
)

// ResolveProvider builds a model provider from flag values, falling back to
// the config file for both the provider choice and its API key. Keys stored
// in config.yaml are exported into the environment so the provider
// constructors see them the same way either path.
func ResolveProvider(name, model string) (ai.Provider, error) {
	cfg, err := Load()
	if err != nil {
		cfg = &Config{}
	}
	if name == "" {
		name = cfg.Provider
	}
	if model == "" {
		model = cfg.Model
	}

	switch name {
	case "qwen", "dashscope":
		if os.Getenv("DASHSCOPE_API_KEY") == "" && cfg.APIKeys.DashScope != "" {
			os.Setenv("DASHSCOPE_API_KEY", cfg.APIKeys.DashScope)
		}
	case "anthropic":
		if os.Getenv("ANTHROPIC_API_KEY") == "" && cfg.APIKeys.Anthropic != "" {
			os.Setenv("ANTHROPIC_API_KEY", cfg.APIKeys.Anthropic)
		}
	case "ollama":
		if os.Getenv("OLLAMA_HOST") == "" && cfg.Ollama.Host != "" {
			os.Setenv("OLLAMA_HOST", cfg.Ollama.Host)
		}
	}

	return ai.NewProvider(name, model)
}

package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Darko-Martinovic/meeting-transcript-processor/internal/config"
)

const baseConfig = `
shutdown_timeout = "45s"
version = "1.2.3"

[processor]
inbox_dir = "inbox"
processing_dir = "processing"
archive_dir = "archive"
max_concurrency = 5
settle_delay = "250ms"
enable_validation = true
enable_hallucination_detection = false
confidence_threshold = 0.8

[agent]
name = "extractor"

[agent.provider]
name = "ollama"
base_url = "http://localhost:11434"

[agent.model]
name = "llama3.1:8b"

[tickets]
enabled = true
base_url = "http://tickets.local"
project_key = "OPS"
`

const overlayConfig = `
[processor]
max_concurrency = 2

[tickets]
base_url = "http://tickets.prod"
`

func writeConfig(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadBaseConfig(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.toml", baseConfig)
	t.Chdir(dir)

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Version != "1.2.3" {
		t.Errorf("version: got %s", cfg.Version)
	}
	if cfg.ShutdownTimeoutDuration() != 45*time.Second {
		t.Errorf("shutdown timeout: got %v", cfg.ShutdownTimeoutDuration())
	}
	if cfg.Processor.MaxConcurrency != 5 {
		t.Errorf("max concurrency: got %d", cfg.Processor.MaxConcurrency)
	}
	if cfg.Processor.SettleDelayDuration() != 250*time.Millisecond {
		t.Errorf("settle delay: got %v", cfg.Processor.SettleDelayDuration())
	}
	if !cfg.Processor.ValidationEnabled() {
		t.Error("validation should be enabled")
	}
	if cfg.Processor.HallucinationEnabled() {
		t.Error("explicit false must survive defaulting")
	}
	if !cfg.Processor.ContextAdaptationEnabled() {
		t.Error("unset flag should default to enabled")
	}
	if cfg.Agent.Provider.BaseURL != "http://localhost:11434" {
		t.Errorf("agent base url: got %s", cfg.Agent.Provider.BaseURL)
	}
	if !cfg.Tickets.Enabled || cfg.Tickets.ProjectKey != "OPS" {
		t.Errorf("tickets config: %+v", cfg.Tickets)
	}
}

func TestLoadWithoutConfigFileUsesDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.ShutdownTimeout != "30s" {
		t.Errorf("shutdown timeout default: got %s", cfg.ShutdownTimeout)
	}
	if cfg.Processor.MaxConcurrency != 3 {
		t.Errorf("max concurrency default: got %d", cfg.Processor.MaxConcurrency)
	}
	if !cfg.Processor.ValidationEnabled() || !cfg.Processor.HallucinationEnabled() {
		t.Error("analysis stages should default to enabled")
	}
	if cfg.Processor.ConfidenceThreshold != 0.7 {
		t.Errorf("confidence threshold default: got %v", cfg.Processor.ConfidenceThreshold)
	}
	if cfg.Tickets.Enabled {
		t.Error("ticketing should default to disabled")
	}
}

func TestEnvironmentOverlay(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.toml", baseConfig)
	writeConfig(t, dir, "config.prod.toml", overlayConfig)
	t.Chdir(dir)
	t.Setenv("MTP_ENV", "prod")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Processor.MaxConcurrency != 2 {
		t.Errorf("overlay max concurrency: got %d", cfg.Processor.MaxConcurrency)
	}
	if cfg.Tickets.BaseURL != "http://tickets.prod" {
		t.Errorf("overlay tickets url: got %s", cfg.Tickets.BaseURL)
	}
	// Untouched base values survive the overlay.
	if cfg.Version != "1.2.3" || cfg.Processor.SettleDelayDuration() != 250*time.Millisecond {
		t.Error("base values lost during overlay merge")
	}
}

func TestEnvVariableOverrides(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.toml", baseConfig)
	t.Chdir(dir)
	t.Setenv("MTP_PROCESSOR_MAX_CONCURRENCY", "7")
	t.Setenv("MTP_PROCESSOR_VALIDATION", "false")
	t.Setenv("MTP_AGENT_MODEL_NAME", "mistral:7b")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Processor.MaxConcurrency != 7 {
		t.Errorf("env max concurrency: got %d", cfg.Processor.MaxConcurrency)
	}
	if cfg.Processor.ValidationEnabled() {
		t.Error("env flag override ignored")
	}
	if cfg.Agent.Model.Name != "mistral:7b" {
		t.Errorf("env model name: got %s", cfg.Agent.Model.Name)
	}
}

func TestToAgentBuildsClientConfig(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.toml", baseConfig)
	t.Chdir(dir)

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	agentCfg := cfg.Agent.ToAgent()
	if agentCfg.Name != "extractor" {
		t.Errorf("agent name: got %s", agentCfg.Name)
	}
	if agentCfg.Client == nil || agentCfg.Client.Provider == nil {
		t.Fatal("client config or provider not populated")
	}

	provider := agentCfg.Client.Provider
	if provider.Name != "ollama" {
		t.Errorf("provider name: got %s", provider.Name)
	}
	if provider.BaseURL != "http://localhost:11434" {
		t.Errorf("provider base url: got %s", provider.BaseURL)
	}
	if provider.Model == nil || provider.Model.Name != "llama3.1:8b" {
		t.Errorf("model: got %+v", provider.Model)
	}
	if agentCfg.Client.Retry.MaxRetries == 0 {
		t.Error("client retry defaults not carried over")
	}
}

func TestValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "bad shutdown timeout",
			content: `shutdown_timeout = "soon"`,
			wantErr: "invalid shutdown_timeout",
		},
		{
			name: "max concurrency out of range",
			content: `[processor]
max_concurrency = 50`,
			wantErr: "max_concurrency",
		},
		{
			name: "confidence threshold out of range",
			content: `[processor]
confidence_threshold = 1.5`,
			wantErr: "confidence_threshold",
		},
		{
			name: "tickets enabled without base url",
			content: `[tickets]
enabled = true`,
			wantErr: "base_url required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeConfig(t, dir, "config.toml", tt.content)
			t.Chdir(dir)

			_, err := config.Load()
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not contain %q", err.Error(), tt.wantErr)
			}
		})
	}
}

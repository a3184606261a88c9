package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
)

const testConfigYAML = `environment:
  name: production

http_server:
  port: 9090
  mode: release

logger:
  level: info
  mode: production
  encoding: json
  color_enabled: false

google_calendar:
  credentials_path: secrets/credentials.json
  token_path: secrets/token.json
  calendar_id: primary
  timezone: America/Los_Angeles

chat:
  rate_limit_per_min: 120

llm:
  fallback_enabled: true
  retry_attempts: 2
  retry_delay: 500ms
  max_total_timeout: 30s
  providers:
    - name: openai
      enabled: true
      priority: 1
      api_key: ${OPENAI_API_KEY}
      model: gpt-4o-mini
      timeout: 30s
    - name: gemini
      enabled: false
      priority: 2
      api_key: literal-key
      model: gemini-2.0-flash
      timeout: 30s
`

func writeConfigFile(t *testing.T, dir string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(testConfigYAML), 0o644); err != nil {
		t.Fatalf("write config fixture: %v", err)
	}
}

// chdir mirrors testing.T.Chdir, which requires a Go 1.24+ toolchain.
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(wd); err != nil {
			t.Errorf("restore working directory: %v", err)
		}
	})
}

func TestLoad(t *testing.T) {
	t.Cleanup(viper.Reset)

	t.Run("full config file", func(t *testing.T) {
		viper.Reset()
		dir := t.TempDir()
		writeConfigFile(t, dir)
		chdir(t, dir)
		t.Setenv("OPENAI_API_KEY", "sk-test-123")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if cfg.Environment.Name != "production" {
			t.Errorf("environment name = %q, want production", cfg.Environment.Name)
		}
		if cfg.HTTPServer.Port != 9090 || cfg.HTTPServer.Mode != "release" {
			t.Errorf("http server = %d/%q, want 9090/release", cfg.HTTPServer.Port, cfg.HTTPServer.Mode)
		}
		if cfg.Logger.Encoding != "json" || cfg.Logger.ColorEnabled {
			t.Errorf("logger = %q/%v, want json/false", cfg.Logger.Encoding, cfg.Logger.ColorEnabled)
		}
		if cfg.GoogleCalendar.Timezone != "America/Los_Angeles" {
			t.Errorf("timezone = %q, want America/Los_Angeles", cfg.GoogleCalendar.Timezone)
		}
		if cfg.GoogleCalendar.TokenPath != "secrets/token.json" {
			t.Errorf("token path = %q", cfg.GoogleCalendar.TokenPath)
		}
		if cfg.Chat.RateLimitPerMin != 120 {
			t.Errorf("rate limit = %d, want 120", cfg.Chat.RateLimitPerMin)
		}
		if cfg.LLM.RetryAttempts != 2 || cfg.LLM.RetryDelay != "500ms" {
			t.Errorf("llm retry = %d/%q", cfg.LLM.RetryAttempts, cfg.LLM.RetryDelay)
		}
		if len(cfg.LLM.Providers) != 2 {
			t.Fatalf("providers = %d, want 2", len(cfg.LLM.Providers))
		}
		if cfg.LLM.Providers[0].APIKey != "sk-test-123" {
			t.Errorf("api key not expanded from env, got %q", cfg.LLM.Providers[0].APIKey)
		}
		if cfg.LLM.Providers[1].APIKey != "literal-key" {
			t.Errorf("literal api key changed, got %q", cfg.LLM.Providers[1].APIKey)
		}
		if !cfg.LLM.Providers[0].Enabled || cfg.LLM.Providers[1].Enabled {
			t.Errorf("enabled flags = %v/%v, want true/false",
				cfg.LLM.Providers[0].Enabled, cfg.LLM.Providers[1].Enabled)
		}
	})

	t.Run("defaults load without a config file", func(t *testing.T) {
		viper.Reset()
		chdir(t, t.TempDir())

		cfg, err := Load()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.HTTPServer.Port != 8080 || cfg.HTTPServer.Mode != "debug" {
			t.Errorf("http server defaults = %d/%q", cfg.HTTPServer.Port, cfg.HTTPServer.Mode)
		}
		if cfg.GoogleCalendar.CalendarID != "primary" || cfg.GoogleCalendar.Timezone != "UTC" {
			t.Errorf("calendar defaults = %q/%q", cfg.GoogleCalendar.CalendarID, cfg.GoogleCalendar.Timezone)
		}
		if cfg.Chat.RateLimitPerMin != 60 {
			t.Errorf("rate limit default = %d, want 60", cfg.Chat.RateLimitPerMin)
		}
		if len(cfg.LLM.Providers) != 0 {
			t.Errorf("providers = %d, want none by default", len(cfg.LLM.Providers))
		}
	})

	t.Run("invalid provider entry fails", func(t *testing.T) {
		viper.Reset()
		dir := t.TempDir()
		bad := strings.Replace(testConfigYAML, "model: gpt-4o-mini", "model: \"\"", 1)
		if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(bad), 0o644); err != nil {
			t.Fatalf("write config fixture: %v", err)
		}
		chdir(t, dir)

		_, err := Load()
		if err == nil {
			t.Fatal("expected an error for a provider without a model")
		}
		if !strings.Contains(err.Error(), "model is required") {
			t.Errorf("error = %v, want model complaint", err)
		}
	})

	t.Run("flat env override wins", func(t *testing.T) {
		viper.Reset()
		dir := t.TempDir()
		writeConfigFile(t, dir)
		chdir(t, dir)
		t.Setenv("GOOGLE_CALENDAR_CREDENTIALS", "/run/secrets/creds.json")
		t.Setenv("GOOGLE_CALENDAR_TOKEN", "/run/secrets/token.json")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.GoogleCalendar.CredentialsPath != "/run/secrets/creds.json" {
			t.Errorf("credentials path = %q, env override ignored", cfg.GoogleCalendar.CredentialsPath)
		}
		if cfg.GoogleCalendar.TokenPath != "/run/secrets/token.json" {
			t.Errorf("token path = %q, env override ignored", cfg.GoogleCalendar.TokenPath)
		}
	})
}

func TestValidateLLMConfig(t *testing.T) {
	valid := func() *LLMConfig {
		return &LLMConfig{
			Providers: []ProviderConfig{
				{Name: "openai", Enabled: true, Priority: 1, APIKey: "k", Model: "gpt-4o-mini"},
				{Name: "gemini", Enabled: true, Priority: 2, APIKey: "k", Model: "gemini-2.0-flash"},
			},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*LLMConfig)
		wantErr string
	}{
		{
			name:   "valid config",
			mutate: func(cfg *LLMConfig) {},
		},
		{
			name:    "no providers",
			mutate:  func(cfg *LLMConfig) { cfg.Providers = nil },
			wantErr: "no LLM providers",
		},
		{
			name:    "missing name",
			mutate:  func(cfg *LLMConfig) { cfg.Providers[0].Name = "" },
			wantErr: "name is required",
		},
		{
			name:    "missing model",
			mutate:  func(cfg *LLMConfig) { cfg.Providers[1].Model = "" },
			wantErr: "model is required",
		},
		{
			name:    "non-positive priority",
			mutate:  func(cfg *LLMConfig) { cfg.Providers[0].Priority = 0 },
			wantErr: "priority must be positive",
		},
		{
			name:    "duplicate priority",
			mutate:  func(cfg *LLMConfig) { cfg.Providers[1].Priority = 1 },
			wantErr: "duplicate priority",
		},
		{
			name: "all disabled",
			mutate: func(cfg *LLMConfig) {
				cfg.Providers[0].Enabled = false
				cfg.Providers[1].Enabled = false
			},
			wantErr: "no enabled LLM providers",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)

			err := validateLLMConfig(cfg)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want %q", err, tt.wantErr)
			}
		})
	}
}

func TestExpandEnvVar(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	t.Setenv("CONFIG_TEST_SECRET", "s3cret")

	if got := expandEnvVar("${CONFIG_TEST_SECRET}"); got != "s3cret" {
		t.Errorf("expandEnvVar(${CONFIG_TEST_SECRET}) = %q, want s3cret", got)
	}
	if got := expandEnvVar("plain-value"); got != "plain-value" {
		t.Errorf("plain value changed: %q", got)
	}
	if got := expandEnvVar(""); got != "" {
		t.Errorf("empty value changed: %q", got)
	}
	if got := expandEnvVar("${CONFIG_TEST_UNSET_VAR}"); got != "${CONFIG_TEST_UNSET_VAR}" {
		t.Errorf("unset var should stay literal, got %q", got)
	}
}

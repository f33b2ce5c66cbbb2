package botstats

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "botstats.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestParseConfig_ValidYAML(t *testing.T) {
	t.Setenv(KeyEnv, "")
	yaml := `
key: statcord.file-key
bot_id: "685166801394335819"
base_url: https://stats.example.com/v3
post_cpu_statistics: true
post_network_statistics: true
request_timeout: 5s
reporter:
  interval: 2m
`
	cfg, err := ParseConfig(writeTemp(t, yaml))
	if err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}
	if cfg.Key != "statcord.file-key" {
		t.Errorf("Key = %q, want %q", cfg.Key, "statcord.file-key")
	}
	if cfg.BotID != "685166801394335819" {
		t.Errorf("BotID = %q", cfg.BotID)
	}
	if cfg.Options.BaseURL != "https://stats.example.com/v3" {
		t.Errorf("BaseURL = %q", cfg.Options.BaseURL)
	}
	if !cfg.Options.PostCPUStatistics || cfg.Options.PostMemoryStatistics || !cfg.Options.PostNetworkStatistics {
		t.Errorf("metric flags = %+v", cfg.Options)
	}
	if cfg.Options.RequestTimeout != 5*time.Second {
		t.Errorf("RequestTimeout = %v, want 5s", cfg.Options.RequestTimeout)
	}
	if cfg.Reporter.Interval != 2*time.Minute {
		t.Errorf("Reporter.Interval = %v, want 2m", cfg.Reporter.Interval)
	}
}

func TestParseConfig_AppliesDefaults(t *testing.T) {
	t.Setenv(KeyEnv, "")
	cfg, err := ParseConfig(writeTemp(t, "key: k\nbot_id: b\n"))
	if err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}
	if cfg.Options.BaseURL != "https://api.statcord.com/v3" {
		t.Errorf("BaseURL = %q", cfg.Options.BaseURL)
	}
	if cfg.Reporter.Interval != DefaultReportInterval {
		t.Errorf("Reporter.Interval = %v, want %v", cfg.Reporter.Interval, DefaultReportInterval)
	}
}

func TestParseConfig_KeyFromEnv(t *testing.T) {
	t.Setenv(KeyEnv, "statcord.env-key")
	cfg, err := ParseConfig(writeTemp(t, "bot_id: b\n"))
	if err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}
	if cfg.Key != "statcord.env-key" {
		t.Errorf("Key = %q, want %q", cfg.Key, "statcord.env-key")
	}
}

func TestParseConfig_MissingKey(t *testing.T) {
	t.Setenv(KeyEnv, "")
	_, err := ParseConfig(writeTemp(t, "bot_id: b\n"))
	if err == nil {
		t.Fatal("expected error for missing key")
	}
	if !strings.Contains(err.Error(), KeyEnv) {
		t.Errorf("error = %q, want mention of %s", err.Error(), KeyEnv)
	}
}

func TestParseConfig_MissingBotID(t *testing.T) {
	t.Setenv(KeyEnv, "")
	if _, err := ParseConfig(writeTemp(t, "key: k\n")); err == nil {
		t.Fatal("expected error for missing bot_id")
	}
}

func TestParseConfig_ShortInterval(t *testing.T) {
	t.Setenv(KeyEnv, "")
	if _, err := ParseConfig(writeTemp(t, "key: k\nbot_id: b\nreporter:\n  interval: 10s\n")); err == nil {
		t.Fatal("expected error for 10s reporter interval")
	}
}

func TestParseConfig_InvalidYAML(t *testing.T) {
	if _, err := ParseConfig(writeTemp(t, "key: [unterminated\n")); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestParseConfig_MissingFile(t *testing.T) {
	if _, err := ParseConfig(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestFileConfig_LogValueOmitsKey(t *testing.T) {
	cfg := FileConfig{Key: "statcord.secret", BotID: "b"}
	cfg.ApplyDefaults()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	logger.Info("loaded", "config", cfg)

	if strings.Contains(buf.String(), "statcord.secret") {
		t.Errorf("log output leaks key: %s", buf.String())
	}
	if !strings.Contains(buf.String(), "bot_id=b") {
		t.Errorf("log output missing bot id: %s", buf.String())
	}
}

func TestNewFromConfig(t *testing.T) {
	cfg := &FileConfig{Key: "k", BotID: "b", Options: Options{PostMemoryStatistics: true}}
	cfg.ApplyDefaults()

	c, err := NewFromConfig(cfg, discardLogger())
	if err != nil {
		t.Fatalf("NewFromConfig: %v", err)
	}
	defer c.Close()

	if c.BotID() != "b" {
		t.Errorf("BotID() = %q, want b", c.BotID())
	}
	if !c.Options().PostMemoryStatistics {
		t.Error("PostMemoryStatistics not carried over")
	}
}

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/insightdelivered/statement-analyzer/internal/models"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "analyzer.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	calc, err := cfg.Calculator()
	if err != nil {
		t.Fatalf("Calculator: %v", err)
	}
	if calc.PartyA != "Chiyuan" || calc.PartyB != "Jiahan" {
		t.Errorf("parties: got %q/%q", calc.PartyA, calc.PartyB)
	}
	if calc.RatioA.String() != "0.2" {
		t.Errorf("ratio: got %s, want 0.2", calc.RatioA)
	}
	if got := cfg.Categorizer().Categorize("EBAY PAYOUT"); got != models.CategoryEbayPayout {
		t.Errorf("default categorizer: got %s", got)
	}
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
split:
  party_a: Alice
  party_b: Bob
  share_a: "0.50"
categories:
  - category: supplier
    keywords: [WAREHOUSE]
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	calc, err := cfg.Calculator()
	if err != nil {
		t.Fatalf("Calculator: %v", err)
	}
	if calc.PartyA != "Alice" || calc.PartyB != "Bob" {
		t.Errorf("parties: got %q/%q", calc.PartyA, calc.PartyB)
	}
	if calc.RatioA.String() != "0.5" {
		t.Errorf("ratio: got %s, want 0.5", calc.RatioA)
	}
	if got := cfg.Categorizer().Categorize("BIG WAREHOUSE ORDER"); got != models.CategorySupplier {
		t.Errorf("custom categorizer: got %s", got)
	}
}

func TestLoad_PartialOverride(t *testing.T) {
	// A file that sets only the pattern keeps the default split.
	path := writeConfig(t, `custom_pattern: '^(?P<date>\S+)\s+(?P<description>.+)\s+(?P<amount>[\d,.]+)$'`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Split.PartyA != "Chiyuan" {
		t.Errorf("party A: got %q, want default", cfg.Split.PartyA)
	}
	if cfg.CustomPattern == "" {
		t.Error("custom pattern not loaded")
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "bad yaml",
			content: "split: [nope",
			wantErr: "parse config",
		},
		{
			name:    "ratio not a number",
			content: "split:\n  share_a: lots\n",
			wantErr: "share_a",
		},
		{
			name:    "ratio out of range",
			content: "split:\n  share_a: \"1.5\"\n",
			wantErr: "between 0 and 1",
		},
		{
			name:    "invalid custom pattern",
			content: "custom_pattern: '(?P<date>['\n",
			wantErr: "custom pattern",
		},
		{
			name:    "pattern missing groups",
			content: "custom_pattern: '^(?P<date>\\S+)$'\n",
			wantErr: "description",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestAddr(t *testing.T) {
	t.Setenv("ANALYZER_ADDR", "")
	if got := Addr(""); got != ":8080" {
		t.Errorf("default addr: got %q", got)
	}
	if got := Addr(":9000"); got != ":9000" {
		t.Errorf("flag addr: got %q", got)
	}
	t.Setenv("ANALYZER_ADDR", ":7000")
	if got := Addr(""); got != ":7000" {
		t.Errorf("env addr: got %q", got)
	}
	// The flag still wins over the environment.
	if got := Addr(":9000"); got != ":9000" {
		t.Errorf("flag over env: got %q", got)
	}
}

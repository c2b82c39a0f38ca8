package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadLocalConfig(t *testing.T) {
	tests := []struct {
		name      string
		content   string
		wantSpecs string
		wantMax   int
		wantAdv   *bool
	}{
		{
			name:      "paths and checkpoint",
			content:   "paths:\n  specs: reqs\ncheckpoint:\n  max: 5\n",
			wantSpecs: "reqs",
			wantMax:   5,
		},
		{
			name:    "advance disabled",
			content: "advance:\n  enabled: false\n",
			wantAdv: new(bool),
		},
		{
			name:    "invalid yaml yields empty config",
			content: "paths: [oops",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			writeConfig(t, root, tt.content)

			cfg := LoadLocalConfig(root)
			if cfg == nil {
				t.Fatal("LoadLocalConfig returned nil")
			}
			if cfg.Paths.Specs != tt.wantSpecs {
				t.Errorf("Paths.Specs = %q, want %q", cfg.Paths.Specs, tt.wantSpecs)
			}
			if cfg.Checkpoint.Max != tt.wantMax {
				t.Errorf("Checkpoint.Max = %d, want %d", cfg.Checkpoint.Max, tt.wantMax)
			}
			if (cfg.Advance.Enabled == nil) != (tt.wantAdv == nil) {
				t.Fatalf("Advance.Enabled = %v, want %v", cfg.Advance.Enabled, tt.wantAdv)
			}
			if tt.wantAdv != nil && *cfg.Advance.Enabled != *tt.wantAdv {
				t.Errorf("Advance.Enabled = %v, want %v", *cfg.Advance.Enabled, *tt.wantAdv)
			}
		})
	}
}

func TestLoadLocalConfigMissing(t *testing.T) {
	cfg := LoadLocalConfig(t.TempDir())
	if cfg == nil || cfg.Paths.Specs != "" {
		t.Errorf("LoadLocalConfig(missing) = %+v, want empty", cfg)
	}
}

func TestWriteLocalConfig(t *testing.T) {
	ResetForTesting()
	root := t.TempDir()

	created, err := WriteLocalConfig(root, DefaultLocalConfig())
	if err != nil {
		t.Fatalf("WriteLocalConfig: %v", err)
	}
	if !created {
		t.Fatal("first WriteLocalConfig should create the file")
	}

	data, err := os.ReadFile(filepath.Join(root, DirName, FileName))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "# aitri project configuration\n") {
		t.Errorf("config header missing:\n%s", data)
	}
	if strings.Contains(string(data), "checkpoint:") {
		t.Errorf("unset checkpoint section should be omitted:\n%s", data)
	}

	back := LoadLocalConfig(root)
	o := back.Overrides()
	if o.Specs != "specs" || o.Backlog != "backlog" || o.Tests != "tests" || o.Docs != "docs" {
		t.Errorf("round-tripped overrides = %+v", o)
	}

	created, err = WriteLocalConfig(root, &LocalConfig{Paths: LocalPaths{Specs: "other"}})
	if err != nil {
		t.Fatalf("second WriteLocalConfig: %v", err)
	}
	if created {
		t.Error("second WriteLocalConfig should leave the existing file alone")
	}
	if LoadLocalConfig(root).Paths.Specs != "specs" {
		t.Error("existing config was overwritten")
	}
}

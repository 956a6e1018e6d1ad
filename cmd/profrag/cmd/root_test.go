package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"version"})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})

	if err := Execute(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(out.String(), "profrag ") {
		t.Errorf("unexpected output: %q", out.String())
	}
}

func TestRootHelp_NamesDatasetFormats(t *testing.T) {
	for _, format := range []string{"YAML", "TOML"} {
		if !strings.Contains(rootCmd.Long, format) {
			t.Errorf("root help does not mention %s datasets", format)
		}
	}
}

func TestSubcommandsRegistered(t *testing.T) {
	want := map[string]bool{"serve": false, "ingest": false, "query": false, "version": false}
	for _, c := range rootCmd.Commands() {
		if _, ok := want[c.Name()]; ok {
			want[c.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}

func TestLoadRuntime_ExplicitFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	data := "http:\n  port: 8081\ndatabase:\n  addrs: [\"localhost:6379\"]\nembedding:\n  api_key: k\n"
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}

	cfgFile, envName, verbose = path, "test", true
	t.Cleanup(func() { cfgFile, envName, verbose = "", "", false })

	cfg, logger, err := loadRuntime()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.HTTP.Port != 8081 {
		t.Errorf("expected port 8081, got %d", cfg.HTTP.Port)
	}
	if logger == nil {
		t.Error("expected logger")
	}
}

func TestLoadRuntime_MissingFile(t *testing.T) {
	cfgFile, envName = filepath.Join(t.TempDir(), "nope.yaml"), "test"
	t.Cleanup(func() { cfgFile, envName = "", "" })

	if _, _, err := loadRuntime(); err == nil {
		t.Error("expected error for missing config")
	}
}

func TestIngestCommand_RejectsInvalidDataset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("professors:\n  - name: no id\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	rootCmd.SetArgs([]string{"ingest", path})
	rootCmd.SetErr(&bytes.Buffer{})
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetErr(nil)
	})

	if err := Execute(); err == nil {
		t.Error("expected error for invalid dataset")
	}
}

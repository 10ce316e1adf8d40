package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func run(t *testing.T, args ...string) string {
	t.Helper()
	dir := t.TempDir()
	conf := filepath.Join(dir, "choreboard.toml")
	body := "[database]\npath = \"" + filepath.ToSlash(filepath.Join(dir, "test.db")) + "\"\n\n[log]\nlevel = \"error\"\n"
	if err := os.WriteFile(conf, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append([]string{"--config", conf, "--env-file", filepath.Join(dir, "missing.env")}, args...))
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("%v: %v\n%s", args, err, out.String())
	}
	return out.String()
}

func TestMigrate(t *testing.T) {
	out := run(t, "migrate")
	if !strings.Contains(out, "is at version") {
		t.Errorf("output = %q", out)
	}
	if strings.Contains(out, "version 0") {
		t.Errorf("no migrations applied: %q", out)
	}
}

func TestMaterializeEmptyFamily(t *testing.T) {
	out := run(t, "materialize", "--family", "f1", "--week", "2024-06-05")
	if !strings.Contains(out, "created 0 chore instances for f1") {
		t.Errorf("output = %q", out)
	}
}

func TestMaterializeBadWeek(t *testing.T) {
	dir := t.TempDir()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs([]string{"--config", "", "--env-file", filepath.Join(dir, "missing.env"), "materialize", "--family", "f1", "--week", "June"})
	if err := rootCmd.Execute(); err == nil {
		t.Fatal("expected error for unparseable week")
	}
}

func TestMigrateStatus(t *testing.T) {
	out := run(t, "migrate", "status")
	if !strings.Contains(out, "00001_init.sql") {
		t.Errorf("output = %q, want 00001_init.sql listed", out)
	}
}

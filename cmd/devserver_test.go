package cmd

import (
	"path/filepath"
	"testing"
)

func TestDevServerFlags(t *testing.T) {
	addr := devserverCmd.Flags().Lookup("addr")
	if addr == nil || addr.DefValue != ":8080" {
		t.Fatalf("--addr flag = %+v, want default :8080", addr)
	}
	if devserverCmd.Flags().Lookup("db") == nil {
		t.Fatal("--db flag not found")
	}
}

func TestDevServerDBPath(t *testing.T) {
	orig := devDB
	defer func() { devDB = orig }()

	devDB = ":memory:"
	if got, err := devServerDBPath(); err != nil || got != ":memory:" {
		t.Errorf("devServerDBPath() = %q, %v", got, err)
	}

	home := t.TempDir()
	t.Setenv("HOME", home)
	devDB = ""
	got, err := devServerDBPath()
	if err != nil {
		t.Fatalf("devServerDBPath: %v", err)
	}
	if want := filepath.Join(home, ".confide", DevServerDBFile); got != want {
		t.Errorf("devServerDBPath() = %q, want %q", got, want)
	}
}

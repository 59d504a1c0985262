package fileutil

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestCopyFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.txt")
	dst := filepath.Join(dir, "dst.txt")

	content := []byte("hello world")
	if err := os.WriteFile(src, content, 0o644); err != nil {
		t.Fatal(err)
	}

	if err := CopyFile(src, dst); err != nil {
		t.Fatal(err)
	}

	got, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != string(content) {
		t.Fatalf("content mismatch: got %q, want %q", got, content)
	}
}

func TestBackupPathNaming(t *testing.T) {
	at := time.Date(2026, 8, 30, 12, 4, 5, 0, time.UTC)
	got := BackupPath("/etc/lxc_autoscale/lxc_autoscale.yaml", at)
	want := "/etc/lxc_autoscale/lxc_autoscale.yaml_backup_20260830120405"
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestBackupPreservesContentAndMode(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "daemon.py")
	if err := os.WriteFile(src, []byte("#!/usr/bin/env python3\n"), 0o755); err != nil {
		t.Fatal(err)
	}

	at := time.Now()
	dst, err := Backup(src, at)
	if err != nil {
		t.Fatal(err)
	}
	if dst != BackupPath(src, at) {
		t.Fatalf("unexpected backup path: %q", dst)
	}
	info, err := os.Stat(dst)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm()&0o111 == 0 {
		t.Fatalf("expected executable bits preserved, got %o", info.Mode().Perm())
	}
}

func TestBackupMissingSourceFails(t *testing.T) {
	if _, err := Backup(filepath.Join(t.TempDir(), "missing"), time.Now()); err == nil {
		t.Fatal("expected error for missing source")
	}
}

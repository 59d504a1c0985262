package fetch_test

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"lxcsetup/internal/fetch"
)

func TestDownloadWritesFileWithMode(t *testing.T) {
	payload := "#!/usr/bin/env python3\nprint('autoscale')\n"
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/lxc_autoscale/lxc_autoscale.py" {
			http.NotFound(w, r)
			return
		}
		if !strings.HasPrefix(r.Header.Get("User-Agent"), "LXCSetup-Go/") {
			t.Errorf("unexpected user agent %q", r.Header.Get("User-Agent"))
		}
		w.Write([]byte(payload))
	}))
	defer server.Close()

	dest := filepath.Join(t.TempDir(), "bin", "lxc_autoscale.py")
	client := fetch.NewClient(server.URL, 5*time.Second)
	if err := client.Download(context.Background(), "lxc_autoscale/lxc_autoscale.py", dest, 0o755, ""); err != nil {
		t.Fatalf("Download: %v", err)
	}

	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("read dest: %v", err)
	}
	if string(data) != payload {
		t.Fatal("payload mismatch")
	}
	info, err := os.Stat(dest)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0o755 {
		t.Fatalf("expected mode 0755, got %v", info.Mode().Perm())
	}
}

func TestDownloadChecksumVerification(t *testing.T) {
	payload := []byte("interval: 30\n")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(payload)
	}))
	defer server.Close()

	sum := sha256.Sum256(payload)
	good := hex.EncodeToString(sum[:])

	client := fetch.NewClient(server.URL, 5*time.Second)
	dir := t.TempDir()

	if err := client.Download(context.Background(), "conf.yaml", filepath.Join(dir, "ok.yaml"), 0o644, good); err != nil {
		t.Fatalf("matching checksum should pass: %v", err)
	}

	bad := strings.Repeat("ab", 32)
	badDest := filepath.Join(dir, "bad.yaml")
	err := client.Download(context.Background(), "conf.yaml", badDest, 0o644, bad)
	if err == nil || !strings.Contains(err.Error(), "checksum mismatch") {
		t.Fatalf("expected checksum mismatch, got %v", err)
	}
	if _, statErr := os.Stat(badDest); !os.IsNotExist(statErr) {
		t.Fatal("failed download must not leave a file behind")
	}
}

func TestDownloadNonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not here", http.StatusNotFound)
	}))
	defer server.Close()

	client := fetch.NewClient(server.URL, 5*time.Second)
	dest := filepath.Join(t.TempDir(), "missing.py")
	err := client.Download(context.Background(), "missing.py", dest, 0o755, "")
	if err == nil || !strings.Contains(err.Error(), "status 404") {
		t.Fatalf("expected 404 error, got %v", err)
	}
	if _, statErr := os.Stat(dest); !os.IsNotExist(statErr) {
		t.Fatal("no file should exist after a failed fetch")
	}
}

func TestDownloadHonorsContext(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer server.Close()
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	client := fetch.NewClient(server.URL, time.Minute)
	err := client.Download(ctx, "slow.py", filepath.Join(t.TempDir(), "slow.py"), 0o755, "")
	if err == nil {
		t.Fatal("expected context deadline error")
	}
}

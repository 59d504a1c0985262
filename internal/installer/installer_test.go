package installer_test

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"lxcsetup/internal/fetch"
	"lxcsetup/internal/installer"
	"lxcsetup/internal/suite"
)

type fakeServices struct {
	reloads int
	enabled []string
	started []string
	fail    map[string]error
}

func (f *fakeServices) Stop(context.Context, string) error { return nil }

func (f *fakeServices) Enable(_ context.Context, unit string) error {
	if err, ok := f.fail["enable:"+unit]; ok {
		return err
	}
	f.enabled = append(f.enabled, unit)
	return nil
}

func (f *fakeServices) Start(_ context.Context, unit string) error {
	if err, ok := f.fail["start:"+unit]; ok {
		return err
	}
	f.started = append(f.started, unit)
	return nil
}

func (f *fakeServices) DaemonReload(context.Context) error {
	f.reloads++
	return nil
}

func testLogger(buf *strings.Builder) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func artifactServer(t *testing.T, files map[string]string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := files[strings.TrimPrefix(r.URL.Path, "/")]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func testVariant(dir string) suite.Variant {
	return suite.Variant{
		Key:  "autoscale",
		Name: "LXC AutoScale",
		Dirs: []string{filepath.Join(dir, "bin"), filepath.Join(dir, "etc")},
		Manifest: []suite.ManifestEntry{
			{Source: "lxc_autoscale/lxc_autoscale.py", Dest: filepath.Join(dir, "bin", "lxc_autoscale.py"), Mode: fs.FileMode(0o755)},
			{Source: "lxc_autoscale/lxc_autoscale.yaml", Dest: filepath.Join(dir, "etc", "lxc_autoscale.yaml"), Mode: fs.FileMode(0o644)},
			{Source: "lxc_autoscale/lxc_autoscale.service", Dest: filepath.Join(dir, "etc", "lxc_autoscale.service"), Mode: fs.FileMode(0o644)},
		},
		Units: []string{"lxc_autoscale.service"},
	}
}

func TestInstallFullVariant(t *testing.T) {
	dir := t.TempDir()
	server := artifactServer(t, map[string]string{
		"lxc_autoscale/lxc_autoscale.py":      "print('scale')\n",
		"lxc_autoscale/lxc_autoscale.yaml":    "interval: 30\n",
		"lxc_autoscale/lxc_autoscale.service": "[Unit]\n",
	})

	services := &fakeServices{}
	var logs strings.Builder
	inst := &installer.Installer{
		Logger:   testLogger(&logs),
		Fetcher:  fetch.NewClient(server.URL, 5*time.Second),
		Services: services,
	}

	report := inst.Install(context.Background(), testVariant(dir))
	if report.Failed() {
		t.Fatalf("unexpected failures: %v", report.Failures)
	}
	if len(report.Installed) != 3 {
		t.Fatalf("expected 3 artifacts, got %v", report.Installed)
	}
	if info, err := os.Stat(filepath.Join(dir, "bin", "lxc_autoscale.py")); err != nil || info.Mode().Perm() != 0o755 {
		t.Fatalf("script should be executable: %v %v", info, err)
	}
	if services.reloads != 1 {
		t.Fatalf("expected one daemon-reload, got %d", services.reloads)
	}
	if len(services.started) != 1 || services.started[0] != "lxc_autoscale.service" {
		t.Fatalf("unexpected starts: %v", services.started)
	}
}

func TestInstallContinuesPastFetchFailure(t *testing.T) {
	dir := t.TempDir()
	// The python script is missing upstream; config and unit still install.
	server := artifactServer(t, map[string]string{
		"lxc_autoscale/lxc_autoscale.yaml":    "interval: 30\n",
		"lxc_autoscale/lxc_autoscale.service": "[Unit]\n",
	})

	services := &fakeServices{}
	var logs strings.Builder
	inst := &installer.Installer{
		Logger:   testLogger(&logs),
		Fetcher:  fetch.NewClient(server.URL, 5*time.Second),
		Services: services,
	}

	report := inst.Install(context.Background(), testVariant(dir))
	if len(report.Failures) != 1 {
		t.Fatalf("expected one failure, got %v", report.Failures)
	}
	if report.Failures[0].Kind != "fetch" {
		t.Fatalf("expected a fetch failure, got %+v", report.Failures[0])
	}
	if len(report.Installed) != 2 {
		t.Fatalf("remaining artifacts should install: %v", report.Installed)
	}
	if services.reloads != 1 || len(services.started) != 1 {
		t.Fatal("unit activation should still run after a fetch failure")
	}
	if !strings.Contains(logs.String(), "artifact fetch failed") {
		t.Fatal("expected fetch failure in logs")
	}
}

func TestInstallUnitFailureDoesNotAbort(t *testing.T) {
	dir := t.TempDir()
	server := artifactServer(t, map[string]string{
		"lxc_autoscale/lxc_autoscale.py":      "print('scale')\n",
		"lxc_autoscale/lxc_autoscale.yaml":    "interval: 30\n",
		"lxc_autoscale/lxc_autoscale.service": "[Unit]\n",
	})

	services := &fakeServices{fail: map[string]error{
		"start:lxc_autoscale.service": errors.New("exit status 1"),
	}}
	var logs strings.Builder
	inst := &installer.Installer{
		Logger:   testLogger(&logs),
		Fetcher:  fetch.NewClient(server.URL, 5*time.Second),
		Services: services,
	}

	variant := testVariant(dir)
	variant.Units = append(variant.Units, "lxc_autoscale_api.service")
	report := inst.Install(context.Background(), variant)

	if len(report.Failures) != 1 || report.Failures[0].Target != "lxc_autoscale.service" {
		t.Fatalf("expected only the broken unit to fail: %v", report.Failures)
	}
	if report.Failures[0].Kind != "start-unit" {
		t.Fatalf("failure should carry the unit step kind, got %+v", report.Failures[0])
	}
	if len(report.Started) != 1 || report.Started[0] != "lxc_autoscale_api.service" {
		t.Fatalf("later units should still start: %v", report.Started)
	}
}

func TestInstallDryRunTouchesNothing(t *testing.T) {
	dir := t.TempDir()
	services := &fakeServices{}
	var logs strings.Builder
	inst := &installer.Installer{
		Logger:   testLogger(&logs),
		Fetcher:  fetch.NewClient("http://127.0.0.1:0", time.Second),
		Services: services,
		DryRun:   true,
	}

	report := inst.Install(context.Background(), testVariant(dir))
	if report.Failed() {
		t.Fatalf("dry run must not fail: %v", report.Failures)
	}
	if len(report.Installed) != 0 || len(report.Started) != 0 {
		t.Fatalf("dry run must not install: %+v", report)
	}
	if _, err := os.Stat(filepath.Join(dir, "bin")); !errors.Is(err, fs.ErrNotExist) {
		t.Fatal("dry run must not create directories")
	}
	if services.reloads != 0 {
		t.Fatal("dry run must not reload systemd")
	}
	if !strings.Contains(logs.String(), "would fetch artifact") {
		t.Fatal("dry run should log planned fetches")
	}
}

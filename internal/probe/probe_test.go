package probe_test

import (
	"os"
	"path/filepath"
	"testing"

	"lxcsetup/internal/probe"
)

func TestEncodeAllVectors(t *testing.T) {
	// Exhaustive over three markers: every vector must produce a code of
	// the same length using only '0' and '1', in input order.
	for mask := 0; mask < 8; mask++ {
		present := []bool{mask&1 != 0, mask&2 != 0, mask&4 != 0}
		fp := probe.Encode(present)
		if len(fp) != len(present) {
			t.Fatalf("mask %d: code length %d, want %d", mask, len(fp), len(present))
		}
		for i, p := range present {
			want := byte('0')
			if p {
				want = '1'
			}
			if fp[i] != want {
				t.Fatalf("mask %d: position %d got %c want %c", mask, i, fp[i], want)
			}
		}
	}
}

func TestEncodeEmpty(t *testing.T) {
	if fp := probe.Encode(nil); fp != "" {
		t.Fatalf("expected empty code, got %q", fp)
	}
	if !probe.Fingerprint("000").Empty() {
		t.Fatal("all-zero fingerprint should be empty")
	}
	if probe.Fingerprint("010").Empty() {
		t.Fatal("fingerprint with a set bit should not be empty")
	}
}

func TestRunReportsPresence(t *testing.T) {
	dir := t.TempDir()
	present := filepath.Join(dir, "present.conf")
	if err := os.WriteFile(present, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	subdir := filepath.Join(dir, "suite")
	if err := os.Mkdir(subdir, 0o755); err != nil {
		t.Fatal(err)
	}
	absent := filepath.Join(dir, "absent.yaml")

	result := probe.Run([]string{present, absent, subdir})
	if got := result.Fingerprint(); got != "101" {
		t.Fatalf("unexpected fingerprint: %q", got)
	}
	if len(result.Paths) != 3 || result.Paths[1] != absent {
		t.Fatalf("unexpected result paths: %v", result.Paths)
	}
}

func TestRunUnstattablePathCountsAbsent(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced for root")
	}
	dir := t.TempDir()
	locked := filepath.Join(dir, "locked")
	if err := os.Mkdir(locked, 0o755); err != nil {
		t.Fatal(err)
	}
	inside := filepath.Join(locked, "marker")
	if err := os.WriteFile(inside, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Chmod(locked, 0o000); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chmod(locked, 0o755) })

	result := probe.Run([]string{inside})
	if result.Fingerprint() != "0" {
		t.Fatalf("expected unreadable path to count as absent, got %q", result.Fingerprint())
	}
}

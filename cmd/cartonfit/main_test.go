package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/eugenenazirov/carton-fit/internal/catalog"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"CATALOG_FILE", "POOL_SIZE", "MAX_ATTEMPTS", "WORKERS", "LOG_LEVEL"} {
		t.Setenv(key, "")
	}
}

func TestRunPrintsBestFit(t *testing.T) {
	clearEnv(t)

	var out bytes.Buffer
	err := run([]string{"--length", "10", "--width", "8", "--height", "6", "--pool-size", "50"}, &out)
	if err != nil {
		t.Fatalf("run returned error: %v", err)
	}

	got := out.String()
	want := "The best fit container is 10 x 8 x 6 Carton with a volume utilization of 100.00%"
	if !strings.Contains(got, want) {
		t.Fatalf("expected %q in output:\n%s", want, got)
	}
	for _, carton := range catalog.Default().Cartons {
		if !strings.Contains(got, carton.Description) {
			t.Fatalf("expected table row for %s:\n%s", carton.Description, got)
		}
	}
}

func TestRunWithPackagePresetAndPlacements(t *testing.T) {
	clearEnv(t)

	var out bytes.Buffer
	err := run([]string{"--package", "pkg-l", "--pool-size", "20", "--workers", "1", "--placements"}, &out)
	if err != nil {
		t.Fatalf("run returned error: %v", err)
	}

	got := out.String()
	if !strings.Contains(got, "Package PKG-L (10x8x6, volume 480)") {
		t.Fatalf("expected package line in output:\n%s", got)
	}
	if !strings.Contains(got, "Placements in 10 x 8 x 6 Carton:") {
		t.Fatalf("expected placements header in output:\n%s", got)
	}
	if !strings.Contains(got, "10x8x6 at (0, 0, 0)") {
		t.Fatalf("expected the single placement at the origin:\n%s", got)
	}
}

func TestRunReportsNoFit(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "catalog.yaml")
	body := "cartons:\n  - description: Small\n    length: 5\n    width: 5\n    height: 5\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write catalog: %v", err)
	}

	var out bytes.Buffer
	err := run([]string{"--catalog", path, "--length", "6", "--width", "1", "--height", "1", "--pool-size", "10"}, &out)
	if err != nil {
		t.Fatalf("run returned error: %v", err)
	}
	if !strings.Contains(out.String(), "No suitable container found.") {
		t.Fatalf("expected no-fit message:\n%s", out.String())
	}
}

func TestRunErrors(t *testing.T) {
	clearEnv(t)

	tests := []struct {
		name string
		args []string
		want error
	}{
		{name: "missing item", args: []string{"--length", "10"}, want: errMissingItem},
		{name: "unknown package", args: []string{"--package", "PKG-XL"}, want: catalog.ErrUnknownPackage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			err := run(tt.args, &out)
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}

	t.Run("negative dimension", func(t *testing.T) {
		var out bytes.Buffer
		if err := run([]string{"--length=-1", "--width", "1", "--height", "1"}, &out); err == nil {
			t.Fatalf("expected error for negative length")
		}
	})
}

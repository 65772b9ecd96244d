package main

import (
	"path/filepath"
	"testing"

	"github.com/ppopth/gf2m/field"
)

func TestCheckAxioms(t *testing.T) {
	for _, m := range []int{1, 8, 64, 163, 571} {
		f, err := field.NewBinaryField(m)
		if err != nil {
			t.Fatal(err)
		}
		if err := checkAxioms(f, field.NewSampler(f, 0), 20); err != nil {
			t.Errorf("m=%d: %v", m, err)
		}
	}
}

func TestParseDegrees(t *testing.T) {
	ms, err := parseDegrees("8, 16,163")
	if err != nil {
		t.Fatal(err)
	}
	if len(ms) != 3 || ms[0] != 8 || ms[1] != 16 || ms[2] != 163 {
		t.Errorf("unexpected degrees %v", ms)
	}
	for _, bad := range []string{"", "8,x", "0", "-4"} {
		if _, err := parseDegrees(bad); err == nil {
			t.Errorf("parseDegrees(%q) should fail", bad)
		}
	}
}

func TestRenderChart(t *testing.T) {
	f, err := field.NewBinaryField(16)
	if err != nil {
		t.Fatal(err)
	}
	result := benchmark(f, field.NewSampler(f, 1), 10)
	if result.M != 16 {
		t.Fatalf("unexpected degree %d", result.M)
	}
	name := filepath.Join(t.TempDir(), "chart.html")
	if err := renderChart(name, []BenchmarkResult{result}); err != nil {
		t.Fatal(err)
	}
}

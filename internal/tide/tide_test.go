package tide

import (
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestMockSource_Week(t *testing.T) {
	levels, err := NewMockSource().Levels()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(levels) != 168 {
		t.Fatalf("expected 168 hourly samples, got %d", len(levels))
	}
	if levels[0] != 1.5 {
		t.Errorf("hour 0 should start at the midline 1.5, got %v", levels[0])
	}
	for h, v := range levels {
		if v < -1.0-1e-9 || v > 4.0+1e-9 {
			t.Fatalf("hour %d: level %.6f outside [-1, 4]", h, v)
		}
	}

	low, high, _, _ := Extremes(levels)
	if low > -0.9 || high < 3.9 {
		t.Errorf("sinusoid barely swings: low=%.3f high=%.3f", low, high)
	}
}

func TestCSVSource_TimestampColumnAndHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tide.csv")
	content := "PDT,tide_level\n2024-05-06 00:00,1.9\n2024-05-06 01:00,2.4\n2024-05-06 02:00,3.1\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	levels, err := NewCSVSource(path).Levels()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []float64{1.9, 2.4, 3.1}
	if len(levels) != len(want) {
		t.Fatalf("expected %d readings, got %d", len(want), len(levels))
	}
	for i := range want {
		if math.Abs(levels[i]-want[i]) > 1e-12 {
			t.Errorf("reading %d = %v, want %v", i, levels[i], want[i])
		}
	}
}

func TestCSVSource_BareValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tide.csv")
	if err := os.WriteFile(path, []byte("1.0\n2.0\n-0.5\n"), 0644); err != nil {
		t.Fatal(err)
	}
	levels, err := NewCSVSource(path).Levels()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(levels) != 3 || levels[2] != -0.5 {
		t.Errorf("unexpected readings: %v", levels)
	}
}

func TestCSVSource_Errors(t *testing.T) {
	dir := t.TempDir()

	if _, err := NewCSVSource(filepath.Join(dir, "missing.csv")).Levels(); err == nil {
		t.Error("expected error for missing file")
	}

	empty := filepath.Join(dir, "empty.csv")
	if err := os.WriteFile(empty, []byte("PDT,tide_level\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewCSVSource(empty).Levels(); err == nil {
		t.Error("expected error for a file with no readings")
	}

	garbage := filepath.Join(dir, "garbage.csv")
	if err := os.WriteFile(garbage, []byte("1.0\nnot-a-number\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewCSVSource(garbage).Levels(); err == nil {
		t.Error("expected error for a non-numeric reading past the header")
	}
}

func TestExtremes(t *testing.T) {
	levels := []float64{1.0, -0.5, 3.2, 0.9, 3.2}
	low, high, lowHour, highHour := Extremes(levels)
	if low != -0.5 || lowHour != 1 {
		t.Errorf("low = %v at %d, want -0.5 at 1", low, lowHour)
	}
	if high != 3.2 || highHour != 2 {
		t.Errorf("high = %v at %d, want 3.2 at 2 (first occurrence)", high, highHour)
	}

	if l, h, lh, hh := Extremes(nil); l != 0 || h != 0 || lh != 0 || hh != 0 {
		t.Error("empty series should report zeros")
	}
}

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/banshee-data/cosmictag/internal/cosmic"
)

func writeConfig(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}
	return path
}

func TestDefaultTuningConfig(t *testing.T) {
	cfg := DefaultTuningConfig()

	if cfg.TPCXBoundary == nil || *cfg.TPCXBoundary != 5 {
		t.Errorf("Expected TPCXBoundary 5, got %v", cfg.TPCXBoundary)
	}
	if cfg.DetHalfWidth == nil || *cfg.DetHalfWidth != 128.175 {
		t.Errorf("Expected DetHalfWidth 128.175, got %v", cfg.DetHalfWidth)
	}
	if cfg.DriftWindowTicks != nil {
		t.Errorf("Expected DriftWindowTicks to be derived, got %v", *cfg.DriftWindowTicks)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestEmptyTuningConfig_GettersReturnDefaults(t *testing.T) {
	cfg := EmptyTuningConfig()

	if cfg.GetTPCXBoundary() != 5 || cfg.GetTPCYBoundary() != 5 || cfg.GetTPCZBoundary() != 5 {
		t.Errorf("margins should default to 5, got %v %v %v",
			cfg.GetTPCXBoundary(), cfg.GetTPCYBoundary(), cfg.GetTPCZBoundary())
	}
	if cfg.GetDetLength() != 1036.8 {
		t.Errorf("GetDetLength() = %v, want 1036.8", cfg.GetDetLength())
	}
	if cfg.GetWorkers() != 0 {
		t.Errorf("GetWorkers() = %d, want 0", cfg.GetWorkers())
	}
	// 256.35 cm / (0.16 cm/us * 0.5 us) = 3204.375 ticks
	if got := cfg.GetDriftWindowTicks(); got != 3204 {
		t.Errorf("GetDriftWindowTicks() = %d, want 3204", got)
	}
}

func TestDriftWindowTicks(t *testing.T) {
	tests := []struct {
		name                      string
		width, velocity, sampling float64
		want                      int
	}{
		{"typical", 256.35, 0.16, 500, 3204},
		{"slower drift", 256.35, 0.1098, 500, 4669},
		{"truncates", 10, 1, 300, 33},
		{"zero velocity", 256, 0, 500, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DriftWindowTicks(tt.width, tt.velocity, tt.sampling); got != tt.want {
				t.Errorf("DriftWindowTicks(%v, %v, %v) = %d, want %d", tt.width, tt.velocity, tt.sampling, got, tt.want)
			}
		})
	}
}

func TestLoadTuningConfig(t *testing.T) {
	path := writeConfig(t, "test_config.json", `{
  "tpc_x_boundary": 3,
  "tpc_z_boundary": 10,
  "det_half_width": 100,
  "det_half_height": 50,
  "det_length": 400,
  "drift_window_ticks": 2000,
  "workers": 2
}`)

	cfg, err := LoadTuningConfig(path)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	p := cfg.Params()
	want := cosmic.Params{
		Detector:         cosmic.Detector{Width: 200, HalfHeight: 50, Length: 400},
		Margins:          cosmic.Margins{X: 3, Y: 5, Z: 10},
		DriftWindowTicks: 2000,
		Workers:          2,
	}
	if p != want {
		t.Errorf("Params() = %+v, want %+v", p, want)
	}
	if err := p.Validate(); err != nil {
		t.Errorf("loaded params should validate: %v", err)
	}
}

func TestLoadTuningConfig_Errors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		body    string
		wantErr string
	}{
		{"wrong extension", "config.yaml", `{}`, ".json extension"},
		{"bad json", "config.json", `{"tpc_x_boundary":`, "parse config JSON"},
		{"negative margin", "config.json", `{"tpc_y_boundary": -1}`, "tpc_y_boundary must be non-negative"},
		{"zero length", "config.json", `{"det_length": 0}`, "det_length must be positive"},
		{"zero ticks", "config.json", `{"drift_window_ticks": 0}`, "drift_window_ticks must be positive"},
		{"negative workers", "config.json", `{"workers": -2}`, "workers must be non-negative"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, tt.file, tt.body)
			_, err := LoadTuningConfig(path)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}

	if _, err := LoadTuningConfig(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestMustLoadDefaultConfig(t *testing.T) {
	cfg := MustLoadDefaultConfig()
	def := DefaultTuningConfig()

	if cfg.Params() != def.Params() {
		t.Errorf("defaults file and built-in defaults disagree:\nfile:     %+v\nbuilt-in: %+v", cfg.Params(), def.Params())
	}
}

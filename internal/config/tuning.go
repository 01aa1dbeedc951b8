package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/banshee-data/cosmictag/internal/cosmic"
)

// DefaultConfigPath is the path to the canonical tuning defaults file.
const DefaultConfigPath = "config/tuning.defaults.json"

// Built-in defaults used when a field is absent. Geometry defaults describe
// a 256 x 233 x 1037 cm single-TPC detector sampled every 500 ns.
const (
	defaultDetHalfWidth  = 128.175
	defaultDetHalfHeight = 116.5
	defaultDetLength     = 1036.8
	defaultDriftVelocity = 0.16  // cm/us
	defaultSamplingRate  = 500.0 // ns per tick
	defaultWorkers       = 0     // GOMAXPROCS
)

// TuningConfig represents the root configuration of the tagger. Every field
// is optional; the Get* accessors supply defaults.
type TuningConfig struct {
	// Boundary margins (cm)
	TPCXBoundary *float64 `json:"tpc_x_boundary,omitempty"`
	TPCYBoundary *float64 `json:"tpc_y_boundary,omitempty"`
	TPCZBoundary *float64 `json:"tpc_z_boundary,omitempty"`

	// Detector geometry (cm). The drift (x) extent is twice the half width.
	DetHalfWidth  *float64 `json:"det_half_width,omitempty"`
	DetHalfHeight *float64 `json:"det_half_height,omitempty"`
	DetLength     *float64 `json:"det_length,omitempty"`

	// Timing. DriftWindowTicks, when set, overrides the value derived from
	// drift velocity and sampling rate.
	DriftVelocity    *float64 `json:"drift_velocity_cm_per_us,omitempty"`
	SamplingRate     *float64 `json:"sampling_rate_ns,omitempty"`
	DriftWindowTicks *int     `json:"drift_window_ticks,omitempty"`

	// Classification workers per event; 0 means GOMAXPROCS.
	Workers *int `json:"workers,omitempty"`
}

// Helper functions to create pointers
func ptrFloat64(v float64) *float64 { return &v }
func ptrInt(v int) *int             { return &v }

// EmptyTuningConfig returns a TuningConfig with all fields set to nil.
func EmptyTuningConfig() *TuningConfig {
	return &TuningConfig{}
}

// DefaultTuningConfig returns a TuningConfig with every field populated from
// the built-in defaults. The drift window is left to be derived.
func DefaultTuningConfig() *TuningConfig {
	return &TuningConfig{
		TPCXBoundary:  ptrFloat64(cosmic.DefaultBoundaryMargin),
		TPCYBoundary:  ptrFloat64(cosmic.DefaultBoundaryMargin),
		TPCZBoundary:  ptrFloat64(cosmic.DefaultBoundaryMargin),
		DetHalfWidth:  ptrFloat64(defaultDetHalfWidth),
		DetHalfHeight: ptrFloat64(defaultDetHalfHeight),
		DetLength:     ptrFloat64(defaultDetLength),
		DriftVelocity: ptrFloat64(defaultDriftVelocity),
		SamplingRate:  ptrFloat64(defaultSamplingRate),
		Workers:       ptrInt(defaultWorkers),
	}
}

// LoadTuningConfig loads a TuningConfig from a JSON file.
// The file must have a .json extension and be under 1MB. Fields omitted from
// the file fall back to defaults through the Get* accessors.
func LoadTuningConfig(path string) (*TuningConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyTuningConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// MustLoadDefaultConfig loads the canonical tuning defaults from DefaultConfigPath.
// It searches the current directory and its parents up to the repository root.
// Panics if the file cannot be loaded, intended for test setup.
func MustLoadDefaultConfig() *TuningConfig {
	candidates := []string{
		DefaultConfigPath,
		"../" + DefaultConfigPath,       // from cmd/cosmictag/ parent
		"../../" + DefaultConfigPath,    // from internal/config/
		"../../../" + DefaultConfigPath, // from internal/storage/sqlite/
	}
	for _, path := range candidates {
		if cfg, err := LoadTuningConfig(path); err == nil {
			return cfg
		}
	}
	panic("cannot find " + DefaultConfigPath + " - run tests from repository root")
}

// Validate checks that the configured values are usable.
func (c *TuningConfig) Validate() error {
	margins := []struct {
		name string
		v    *float64
	}{
		{"tpc_x_boundary", c.TPCXBoundary},
		{"tpc_y_boundary", c.TPCYBoundary},
		{"tpc_z_boundary", c.TPCZBoundary},
	}
	for _, m := range margins {
		if m.v != nil && *m.v < 0 {
			return fmt.Errorf("%s must be non-negative, got %f", m.name, *m.v)
		}
	}

	extents := []struct {
		name string
		v    *float64
	}{
		{"det_half_width", c.DetHalfWidth},
		{"det_half_height", c.DetHalfHeight},
		{"det_length", c.DetLength},
		{"drift_velocity_cm_per_us", c.DriftVelocity},
		{"sampling_rate_ns", c.SamplingRate},
	}
	for _, e := range extents {
		if e.v != nil && *e.v <= 0 {
			return fmt.Errorf("%s must be positive, got %f", e.name, *e.v)
		}
	}

	if c.DriftWindowTicks != nil && *c.DriftWindowTicks <= 0 {
		return fmt.Errorf("drift_window_ticks must be positive, got %d", *c.DriftWindowTicks)
	}
	if c.Workers != nil && *c.Workers < 0 {
		return fmt.Errorf("workers must be non-negative, got %d", *c.Workers)
	}

	return nil
}

// GetTPCXBoundary returns the tpc_x_boundary value or the default.
func (c *TuningConfig) GetTPCXBoundary() float64 {
	if c.TPCXBoundary == nil {
		return cosmic.DefaultBoundaryMargin
	}
	return *c.TPCXBoundary
}

// GetTPCYBoundary returns the tpc_y_boundary value or the default.
func (c *TuningConfig) GetTPCYBoundary() float64 {
	if c.TPCYBoundary == nil {
		return cosmic.DefaultBoundaryMargin
	}
	return *c.TPCYBoundary
}

// GetTPCZBoundary returns the tpc_z_boundary value or the default.
func (c *TuningConfig) GetTPCZBoundary() float64 {
	if c.TPCZBoundary == nil {
		return cosmic.DefaultBoundaryMargin
	}
	return *c.TPCZBoundary
}

// GetDetHalfWidth returns the det_half_width value or the default.
func (c *TuningConfig) GetDetHalfWidth() float64 {
	if c.DetHalfWidth == nil {
		return defaultDetHalfWidth
	}
	return *c.DetHalfWidth
}

// GetDetHalfHeight returns the det_half_height value or the default.
func (c *TuningConfig) GetDetHalfHeight() float64 {
	if c.DetHalfHeight == nil {
		return defaultDetHalfHeight
	}
	return *c.DetHalfHeight
}

// GetDetLength returns the det_length value or the default.
func (c *TuningConfig) GetDetLength() float64 {
	if c.DetLength == nil {
		return defaultDetLength
	}
	return *c.DetLength
}

// GetDriftVelocity returns the drift velocity in cm/us or the default.
func (c *TuningConfig) GetDriftVelocity() float64 {
	if c.DriftVelocity == nil {
		return defaultDriftVelocity
	}
	return *c.DriftVelocity
}

// GetSamplingRate returns the tick period in ns or the default.
func (c *TuningConfig) GetSamplingRate() float64 {
	if c.SamplingRate == nil {
		return defaultSamplingRate
	}
	return *c.SamplingRate
}

// GetWorkers returns the workers value or the default.
func (c *TuningConfig) GetWorkers() int {
	if c.Workers == nil {
		return defaultWorkers
	}
	return *c.Workers
}

// GetDriftWindowTicks returns the explicit drift_window_ticks, or the number
// of ticks a charge needs to drift across the full detector width:
// 2*halfWidth / (driftVelocity * samplingRate / 1000), truncated.
func (c *TuningConfig) GetDriftWindowTicks() int {
	if c.DriftWindowTicks != nil {
		return *c.DriftWindowTicks
	}
	return DriftWindowTicks(2*c.GetDetHalfWidth(), c.GetDriftVelocity(), c.GetSamplingRate())
}

// DriftWindowTicks converts a drift distance (cm) into readout ticks given
// the drift velocity (cm/us) and the tick period (ns).
func DriftWindowTicks(width, driftVelocity, samplingRate float64) int {
	cmPerTick := driftVelocity * samplingRate / 1000
	if cmPerTick <= 0 {
		return 0
	}
	return int(width / cmPerTick)
}

// Params builds the immutable per-pass tagger parameters.
func (c *TuningConfig) Params() cosmic.Params {
	return cosmic.Params{
		Detector: cosmic.Detector{
			Width:      2 * c.GetDetHalfWidth(),
			HalfHeight: c.GetDetHalfHeight(),
			Length:     c.GetDetLength(),
		},
		Margins: cosmic.Margins{
			X: c.GetTPCXBoundary(),
			Y: c.GetTPCYBoundary(),
			Z: c.GetTPCZBoundary(),
		},
		DriftWindowTicks: c.GetDriftWindowTicks(),
		Workers:          c.GetWorkers(),
	}
}

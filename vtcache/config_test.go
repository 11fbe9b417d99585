package vtcache

import "testing"

func TestNewConfig_Validation(t *testing.T) {
	tests := []struct {
		name       string
		initial    int
		max        int
		background int
		wantErr    bool
	}{
		{"valid", 100, 600, 500, false},
		{"valid at lower bounds", 10, 100, 100, false},
		{"valid at upper bounds", 1000, 50000, 5000, false},
		{"initial page size too small", 9, 600, 500, true},
		{"initial page size too large", 1001, 5000, 500, true},
		{"ceiling too small", 100, 99, 500, true},
		{"ceiling too large", 100, 50001, 500, true},
		{"background page size too small", 100, 600, 99, true},
		{"background page size too large", 100, 600, 5001, true},
		{"ceiling below initial page size", 500, 400, 500, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewConfig(tt.initial, tt.max, tt.background, true)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewConfig(%d, %d, %d) error = %v, wantErr %v",
					tt.initial, tt.max, tt.background, err, tt.wantErr)
			}
		})
	}
}

func TestConfig_BackgroundPageCount(t *testing.T) {
	tests := []struct {
		name       string
		initial    int
		max        int
		background int
		enabled    bool
		want       int
	}{
		{"exact fit", 100, 600, 500, true, 1},
		{"rounds up", 100, 700, 500, true, 2},
		{"disabled", 100, 600, 500, false, 0},
		{"ceiling reached by initial page", 1000, 1000, 500, true, 0},
		{"many pages", 100, 50000, 500, true, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := NewConfig(tt.initial, tt.max, tt.background, tt.enabled)
			if err != nil {
				t.Fatalf("NewConfig failed: %v", err)
			}
			if got := cfg.BackgroundPageCount(); got != tt.want {
				t.Errorf("BackgroundPageCount() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestConfig_MaxLoadableRecords(t *testing.T) {
	enabled, err := NewConfig(100, 600, 500, true)
	if err != nil {
		t.Fatalf("NewConfig failed: %v", err)
	}
	if got := enabled.MaxLoadableRecords(); got != 600 {
		t.Errorf("MaxLoadableRecords() with background loading = %d, want 600", got)
	}

	disabled := enabled.WithBackgroundLoadingDisabled()
	if got := disabled.MaxLoadableRecords(); got != 100 {
		t.Errorf("MaxLoadableRecords() without background loading = %d, want 100", got)
	}
}

func TestConfig_WithMethods_CopyOnWrite(t *testing.T) {
	cfg, err := NewConfig(100, 600, 500, true)
	if err != nil {
		t.Fatalf("NewConfig failed: %v", err)
	}

	bigger, err := cfg.WithMaxCachedRecords(1200)
	if err != nil {
		t.Fatalf("WithMaxCachedRecords failed: %v", err)
	}
	if bigger.MaxCachedRecords() != 1200 {
		t.Errorf("expected new ceiling 1200, got %d", bigger.MaxCachedRecords())
	}
	if cfg.MaxCachedRecords() != 600 {
		t.Errorf("receiver was mutated: ceiling is %d, want 600", cfg.MaxCachedRecords())
	}

	smaller, err := cfg.WithInitialPageSize(50)
	if err != nil {
		t.Fatalf("WithInitialPageSize failed: %v", err)
	}
	if smaller.InitialPageSize() != 50 || cfg.InitialPageSize() != 100 {
		t.Error("WithInitialPageSize must change only the copy")
	}

	// a with-update that breaks an invariant fails
	if _, err := cfg.WithInitialPageSize(5000); err == nil {
		t.Error("expected error for out-of-range initial page size")
	}
	if _, err := cfg.WithMaxCachedRecords(50); err == nil {
		t.Error("expected error for out-of-range ceiling")
	}

	disabled := cfg.WithBackgroundLoadingDisabled()
	if disabled.BackgroundLoadingEnabled() {
		t.Error("expected background loading to be disabled on the copy")
	}
	if !cfg.BackgroundLoadingEnabled() {
		t.Error("receiver was mutated: background loading should stay enabled")
	}
}

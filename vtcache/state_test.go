package vtcache

import "testing"

func TestEmptyState(t *testing.T) {
	s := EmptyState()

	if !s.IsFullyCached() {
		t.Error("empty state must be fully cached (0 >= 0)")
	}
	if !s.IsEmpty() {
		t.Error("empty state must be empty")
	}
	if s.HasRecords() {
		t.Error("empty state must not have records")
	}
	if got := s.CachePercentage(); got != 100 {
		t.Errorf("CachePercentage() = %d, want 100 for total 0", got)
	}
	if s.CurrentPage() != 0 {
		t.Errorf("CurrentPage() = %d, want 0 before anything is loaded", s.CurrentPage())
	}
}

func TestNewState_Validation(t *testing.T) {
	tests := []struct {
		name    string
		cached  int
		total   int
		page    int
		wantErr bool
	}{
		{"valid", 100, 1000, 1, false},
		{"all zero", 0, 0, 0, false},
		{"negative cached", -1, 1000, 1, true},
		{"negative total", 100, -1, 1, true},
		{"negative page", 100, 1000, -1, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewState(tt.cached, tt.total, false, tt.page, "")
			if (err != nil) != tt.wantErr {
				t.Errorf("NewState(%d, %d, false, %d) error = %v, wantErr %v",
					tt.cached, tt.total, tt.page, err, tt.wantErr)
			}
		})
	}
}

func TestState_IsFullyCached(t *testing.T) {
	tests := []struct {
		name    string
		cached  int
		total   int
		loading bool
		want    bool
	}{
		{"all cached", 50, 50, false, true},
		{"over-cached", 60, 50, false, true},
		{"partially cached", 100, 1000, false, false},
		{"loading always incomplete", 50, 50, true, false},
		{"loading with zero counts", 0, 0, true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewState(tt.cached, tt.total, tt.loading, 1, "")
			if err != nil {
				t.Fatalf("NewState failed: %v", err)
			}
			if got := s.IsFullyCached(); got != tt.want {
				t.Errorf("IsFullyCached() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestState_CachePercentage(t *testing.T) {
	tests := []struct {
		name   string
		cached int
		total  int
		want   int
	}{
		{"zero total", 0, 0, 100},
		{"zero cached", 0, 1000, 0},
		{"half", 500, 1000, 50},
		{"rounds down", 1, 3, 33},
		{"rounds up", 2, 3, 67},
		{"complete", 1000, 1000, 100},
		{"clamped at 100", 1200, 1000, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewState(tt.cached, tt.total, false, 1, "")
			if err != nil {
				t.Fatalf("NewState failed: %v", err)
			}
			if got := s.CachePercentage(); got != tt.want {
				t.Errorf("CachePercentage() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestState_RemainingRecords(t *testing.T) {
	partial, _ := NewState(100, 1000, false, 1, "")
	if got := partial.RemainingRecords(); got != 900 {
		t.Errorf("RemainingRecords() = %d, want 900", got)
	}
	if !partial.HasMoreRecordsOnServer() {
		t.Error("expected more records on server")
	}

	over, _ := NewState(60, 50, false, 1, "")
	if got := over.RemainingRecords(); got != 0 {
		t.Errorf("RemainingRecords() = %d, want 0 (never negative)", got)
	}
	if over.HasMoreRecordsOnServer() {
		t.Error("expected no more records on server")
	}
}

func TestState_WithMethods_Immutability(t *testing.T) {
	base, err := NewState(100, 1000, false, 1, "active")
	if err != nil {
		t.Fatalf("NewState failed: %v", err)
	}

	// each with-method changes exactly the targeted field
	cached, err := base.WithCachedCount(200)
	if err != nil {
		t.Fatalf("WithCachedCount failed: %v", err)
	}
	if cached.CachedRecordCount() != 200 || cached.TotalRecordCount() != 1000 ||
		cached.IsLoading() || cached.CurrentPage() != 1 || cached.SearchFilter() != "active" {
		t.Error("WithCachedCount changed more than the cached count")
	}

	total, err := base.WithTotalCount(2000)
	if err != nil {
		t.Fatalf("WithTotalCount failed: %v", err)
	}
	if total.TotalRecordCount() != 2000 || total.CachedRecordCount() != 100 {
		t.Error("WithTotalCount changed more than the total count")
	}

	loading := base.WithLoading(true)
	if !loading.IsLoading() || loading.CachedRecordCount() != 100 {
		t.Error("WithLoading changed more than the loading flag")
	}

	page, err := base.WithPage(3)
	if err != nil {
		t.Fatalf("WithPage failed: %v", err)
	}
	if page.CurrentPage() != 3 || page.SearchFilter() != "active" {
		t.Error("WithPage changed more than the page")
	}

	filtered := base.WithSearchFilter("other")
	if filtered.SearchFilter() != "other" || filtered.CurrentPage() != 1 {
		t.Error("WithSearchFilter changed more than the filter")
	}

	// the receiver is unchanged after every call
	if base.CachedRecordCount() != 100 || base.TotalRecordCount() != 1000 ||
		base.IsLoading() || base.CurrentPage() != 1 || base.SearchFilter() != "active" {
		t.Error("receiver was mutated by a with-method")
	}

	// invalid updates fail and never produce a partially valid state
	if _, err := base.WithCachedCount(-1); err == nil {
		t.Error("expected error for negative cached count")
	}
}

func TestState_WithUpdates(t *testing.T) {
	base, err := NewState(100, 1000, false, 1, "")
	if err != nil {
		t.Fatalf("NewState failed: %v", err)
	}

	cached := 600
	loading := true
	page := 2
	updated, err := base.WithUpdates(StateUpdate{
		CachedCount: &cached,
		Loading:     &loading,
		CurrentPage: &page,
	})
	if err != nil {
		t.Fatalf("WithUpdates failed: %v", err)
	}
	if updated.CachedRecordCount() != 600 || !updated.IsLoading() || updated.CurrentPage() != 2 {
		t.Error("WithUpdates did not apply the requested fields")
	}
	if updated.TotalRecordCount() != 1000 || updated.SearchFilter() != "" {
		t.Error("WithUpdates touched fields that were not requested")
	}
	if base.CachedRecordCount() != 100 || base.IsLoading() {
		t.Error("receiver was mutated by WithUpdates")
	}

	negative := -5
	if _, err := base.WithUpdates(StateUpdate{TotalCount: &negative}); err == nil {
		t.Error("expected error for negative total count")
	}
}

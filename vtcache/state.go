package vtcache

import "math"

// State is an immutable snapshot of cache progress.
//
// A State is replaced wholesale on every change and never mutated in place.
// Holding a reference to an old snapshot never sees later progress; this is
// the mechanism by which the cache publishes progress without data races on
// shared mutable state.
type State struct {
	cachedRecordCount int
	totalRecordCount  int
	loading           bool
	currentPage       int
	searchFilter      string
}

// EmptyState returns the zero state: nothing cached, nothing loading,
// no page loaded yet. The zero state is trivially fully cached.
func EmptyState() State {
	return State{}
}

// NewState creates a validated state snapshot.
// cached, total, and page must be non-negative; page 0 means nothing has
// been loaded yet. filter is the active remote search filter, empty for none.
func NewState(cached, total int, loading bool, page int, filter string) (State, error) {
	s := State{
		cachedRecordCount: cached,
		totalRecordCount:  total,
		loading:           loading,
		currentPage:       page,
		searchFilter:      filter,
	}
	if err := s.validate(); err != nil {
		return State{}, err
	}
	return s, nil
}

func (s State) validate() error {
	if s.cachedRecordCount < 0 {
		return ErrNegativeStateField("cached record count", s.cachedRecordCount)
	}
	if s.totalRecordCount < 0 {
		return ErrNegativeStateField("total record count", s.totalRecordCount)
	}
	if s.currentPage < 0 {
		return ErrNegativeStateField("current page", s.currentPage)
	}
	return nil
}

// CachedRecordCount returns the number of records currently in the buffer.
func (s State) CachedRecordCount() int { return s.cachedRecordCount }

// TotalRecordCount returns the provider-reported total record count.
func (s State) TotalRecordCount() int { return s.totalRecordCount }

// IsLoading reports whether a page fetch is in progress.
func (s State) IsLoading() bool { return s.loading }

// CurrentPage returns the most recently loaded page, 0 when nothing has
// been loaded yet.
func (s State) CurrentPage() int { return s.currentPage }

// SearchFilter returns the active remote search filter, empty for none.
func (s State) SearchFilter() string { return s.searchFilter }

// IsFullyCached reports whether every record the provider knows about is in
// the buffer and no load is in progress. An empty record set counts as
// fully cached.
func (s State) IsFullyCached() bool {
	return !s.loading && s.cachedRecordCount >= s.totalRecordCount
}

// IsEmpty reports whether the buffer holds no records.
func (s State) IsEmpty() bool { return s.cachedRecordCount == 0 }

// HasRecords reports whether the buffer holds at least one record.
func (s State) HasRecords() bool { return s.cachedRecordCount > 0 }

// CachePercentage returns the cached share of the total record set as a
// whole percentage, clamped to 100. It is 100 when the total is 0.
func (s State) CachePercentage() int {
	if s.totalRecordCount == 0 {
		return 100
	}
	pct := float64(s.cachedRecordCount) / float64(s.totalRecordCount) * 100
	return int(math.Round(math.Min(pct, 100)))
}

// RemainingRecords returns how many records are not yet cached, never
// negative.
func (s State) RemainingRecords() int {
	if remaining := s.totalRecordCount - s.cachedRecordCount; remaining > 0 {
		return remaining
	}
	return 0
}

// HasMoreRecordsOnServer reports whether the provider holds records beyond
// what is cached.
func (s State) HasMoreRecordsOnServer() bool {
	return s.totalRecordCount > s.cachedRecordCount
}

// WithCachedCount returns a copy of the state with a new cached record count.
func (s State) WithCachedCount(cached int) (State, error) {
	s.cachedRecordCount = cached
	if err := s.validate(); err != nil {
		return State{}, err
	}
	return s, nil
}

// WithTotalCount returns a copy of the state with a new total record count.
func (s State) WithTotalCount(total int) (State, error) {
	s.totalRecordCount = total
	if err := s.validate(); err != nil {
		return State{}, err
	}
	return s, nil
}

// WithLoading returns a copy of the state with a new loading flag.
func (s State) WithLoading(loading bool) State {
	s.loading = loading
	return s
}

// WithPage returns a copy of the state with a new current page.
func (s State) WithPage(page int) (State, error) {
	s.currentPage = page
	if err := s.validate(); err != nil {
		return State{}, err
	}
	return s, nil
}

// WithSearchFilter returns a copy of the state with a new search filter.
func (s State) WithSearchFilter(filter string) State {
	s.searchFilter = filter
	return s
}

// StateUpdate describes a partial state change for WithUpdates.
// Nil fields keep the receiver's value.
type StateUpdate struct {
	CachedCount  *int
	TotalCount   *int
	Loading      *bool
	CurrentPage  *int
	SearchFilter *string
}

// WithUpdates returns a copy of the state with every non-nil field of the
// update applied, validated as a whole.
func (s State) WithUpdates(u StateUpdate) (State, error) {
	if u.CachedCount != nil {
		s.cachedRecordCount = *u.CachedCount
	}
	if u.TotalCount != nil {
		s.totalRecordCount = *u.TotalCount
	}
	if u.Loading != nil {
		s.loading = *u.Loading
	}
	if u.CurrentPage != nil {
		s.currentPage = *u.CurrentPage
	}
	if u.SearchFilter != nil {
		s.searchFilter = *u.SearchFilter
	}
	if err := s.validate(); err != nil {
		return State{}, err
	}
	return s, nil
}

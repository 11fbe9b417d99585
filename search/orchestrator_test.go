package search

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/JoshSmithXRM/tablekit/logger"
	"github.com/JoshSmithXRM/tablekit/paging"
	"github.com/JoshSmithXRM/tablekit/vtcache"
)

// fakeProvider serves records entity_1..entity_total for unfiltered fetches
// and canned serverResults for filtered ones.
type fakeProvider struct {
	total         int
	serverResults []string
	failFiltered  bool

	mu            sync.Mutex
	filteredCalls []fetchCall
}

type fetchCall struct {
	page     int
	pageSize int
	filter   string
	top      int
}

func (p *fakeProvider) FindPaginated(ctx context.Context, page, pageSize int, opts *paging.QueryOptions) (*paging.Result[string], error) {
	if opts != nil && opts.Filter != "" {
		p.mu.Lock()
		p.filteredCalls = append(p.filteredCalls, fetchCall{page, pageSize, opts.Filter, opts.Top})
		p.mu.Unlock()

		if p.failFiltered {
			return nil, errors.New("remote query rejected")
		}
		return &paging.Result[string]{
			Items:      append([]string(nil), p.serverResults...),
			Page:       page,
			PageSize:   pageSize,
			TotalCount: len(p.serverResults),
		}, nil
	}

	start := (page - 1) * pageSize
	end := start + pageSize
	if end > p.total {
		end = p.total
	}
	items := make([]string, 0)
	for i := start; i < end; i++ {
		items = append(items, fmt.Sprintf("entity_%d", i+1))
	}
	return &paging.Result[string]{
		Items:      items,
		Page:       page,
		PageSize:   pageSize,
		TotalCount: p.total,
	}, nil
}

func (p *fakeProvider) Count(ctx context.Context, opts *paging.QueryOptions) (int, error) {
	return p.total, nil
}

func (p *fakeProvider) filteredCallCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.filteredCalls)
}

func matchSubstring(record, normalizedQuery string) bool {
	return strings.Contains(strings.ToLower(record), normalizedQuery)
}

func buildContainsFilter(normalizedQuery string) string {
	// double embedded quotes the way the remote dialect requires
	escaped := strings.ReplaceAll(normalizedQuery, "'", "''")
	return fmt.Sprintf("contains(name,'%s')", escaped)
}

// newLoadedOrchestrator builds an orchestrator over a cache preloaded from
// the provider. Background loading is disabled so the cached count stays at
// the initial page size.
func newLoadedOrchestrator(t *testing.T, provider *fakeProvider, initial, max int) (Orchestrator[string], vtcache.Cache[string]) {
	t.Helper()

	cfg, err := vtcache.NewConfig(initial, max, 500, true)
	if err != nil {
		t.Fatalf("NewConfig failed: %v", err)
	}
	cfg = cfg.WithBackgroundLoadingDisabled()

	cache, err := vtcache.NewCache[string](logger.NewNop(), cfg, provider)
	if err != nil {
		t.Fatalf("NewCache failed: %v", err)
	}
	if _, err := cache.LoadInitialPage(context.Background(), nil); err != nil {
		t.Fatalf("LoadInitialPage failed: %v", err)
	}

	orch, err := NewOrchestrator[string](logger.NewNop(), nil, cache, provider, matchSubstring, buildContainsFilter)
	if err != nil {
		t.Fatalf("NewOrchestrator failed: %v", err)
	}
	return orch, cache
}

func TestExecute_EmptyQuery_ReturnsAllCached(t *testing.T) {
	provider := &fakeProvider{total: 100}
	orch, _ := newLoadedOrchestrator(t, provider, 100, 600)

	for _, query := range []string{"", "   ", "\t"} {
		res, err := orch.Execute(context.Background(), query)
		if err != nil {
			t.Fatalf("Execute(%q) failed: %v", query, err)
		}
		if res.Source != SourceCache {
			t.Errorf("Execute(%q) source = %q, want cache", query, res.Source)
		}
		if len(res.Records) != 100 {
			t.Errorf("Execute(%q) returned %d records, want all 100 cached", query, len(res.Records))
		}
	}
	if provider.filteredCallCount() != 0 {
		t.Error("empty queries must never reach the provider")
	}
}

func TestExecute_CacheHit_SubstringMatch(t *testing.T) {
	provider := &fakeProvider{total: 100}
	orch, _ := newLoadedOrchestrator(t, provider, 100, 600)

	res, err := orch.Execute(context.Background(), "entity_1")
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if res.Source != SourceCache {
		t.Errorf("source = %q, want cache", res.Source)
	}

	got := make(map[string]bool, len(res.Records))
	for _, r := range res.Records {
		got[r] = true
	}
	expected := []string{"entity_1", "entity_10", "entity_15", "entity_19", "entity_100"}
	for _, want := range expected {
		if !got[want] {
			t.Errorf("expected %s in the results", want)
		}
	}
	if got["entity_2"] || got["entity_20"] {
		t.Error("unexpected non-matching records in the results")
	}
	if provider.filteredCallCount() != 0 {
		t.Error("a cache hit must not reach the provider")
	}
}

func TestExecute_NormalizesQuery(t *testing.T) {
	provider := &fakeProvider{total: 100}
	orch, _ := newLoadedOrchestrator(t, provider, 100, 600)

	res, err := orch.Execute(context.Background(), "  ENTITY_100  ")
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if res.Source != SourceCache || len(res.Records) != 1 || res.Records[0] != "entity_100" {
		t.Errorf("expected a single cache hit for the normalized query, got %v from %q", res.Records, res.Source)
	}
}

func TestExecute_EscalatesToServer(t *testing.T) {
	provider := &fakeProvider{
		total:         10000,
		serverResults: []string{"entity_500", "entity_5000"},
	}
	// cached = 100 of 10000: not fully cached
	orch, _ := newLoadedOrchestrator(t, provider, 100, 600)

	res, err := orch.Execute(context.Background(), "entity_500")
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if res.Source != SourceServer {
		t.Errorf("source = %q, want server", res.Source)
	}
	if len(res.Records) != 2 {
		t.Errorf("got %d records, want the provider's 2", len(res.Records))
	}

	if provider.filteredCallCount() != 1 {
		t.Fatalf("filtered provider calls = %d, want exactly 1", provider.filteredCallCount())
	}
	call := provider.filteredCalls[0]
	if call.page != 1 || call.pageSize != 1000 || call.top != 1000 {
		t.Errorf("escalated fetch = page %d size %d top %d, want page 1 size 1000 top 1000",
			call.page, call.pageSize, call.top)
	}
	if !strings.Contains(call.filter, "entity_500") {
		t.Errorf("filter %q does not carry the query", call.filter)
	}
}

func TestExecute_FullyCachedMiss_NoProviderCall(t *testing.T) {
	provider := &fakeProvider{total: 50}
	// 50 of 50 cached: fully cached
	orch, cache := newLoadedOrchestrator(t, provider, 100, 600)

	if !cache.State().IsFullyCached() {
		t.Fatal("precondition: cache must be fully loaded")
	}

	res, err := orch.Execute(context.Background(), "no_such_record")
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if res.Source != SourceCache {
		t.Errorf("source = %q, want cache (definitive no-match)", res.Source)
	}
	if len(res.Records) != 0 {
		t.Errorf("got %d records, want 0", len(res.Records))
	}
	if provider.filteredCallCount() != 0 {
		t.Error("a fully cached miss must never reach the provider")
	}
}

func TestExecute_ServerMiss_StillTaggedServer(t *testing.T) {
	provider := &fakeProvider{total: 10000, serverResults: nil}
	orch, _ := newLoadedOrchestrator(t, provider, 100, 600)

	res, err := orch.Execute(context.Background(), "no_such_record")
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	// "I checked the server and found nothing" is not a cache answer
	if res.Source != SourceServer {
		t.Errorf("source = %q, want server", res.Source)
	}
	if len(res.Records) != 0 {
		t.Errorf("got %d records, want 0", len(res.Records))
	}
}

func TestExecute_EscalationErrorPropagates(t *testing.T) {
	provider := &fakeProvider{total: 10000, failFiltered: true}
	orch, _ := newLoadedOrchestrator(t, provider, 100, 600)

	if _, err := orch.Execute(context.Background(), "entity_500"); err == nil {
		t.Fatal("expected escalation error to propagate")
	}
}

func TestExecute_FilterBuilderEscapesQuotes(t *testing.T) {
	provider := &fakeProvider{total: 10000}
	orch, _ := newLoadedOrchestrator(t, provider, 100, 600)

	if _, err := orch.Execute(context.Background(), "o'brien"); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if provider.filteredCallCount() != 1 {
		t.Fatal("expected one escalated call")
	}
	if !strings.Contains(provider.filteredCalls[0].filter, "o''brien") {
		t.Errorf("filter %q must double embedded quotes", provider.filteredCalls[0].filter)
	}
}

// cancelSensitiveProvider refuses filtered fetches arriving with an already
// cancelled context, mimicking a transport that checks before dialing.
type cancelSensitiveProvider struct {
	fakeProvider
}

func (p *cancelSensitiveProvider) FindPaginated(ctx context.Context, page, pageSize int, opts *paging.QueryOptions) (*paging.Result[string], error) {
	if opts != nil && opts.Filter != "" {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}
	return p.fakeProvider.FindPaginated(ctx, page, pageSize, opts)
}

func TestExecute_EscalationDetachedFromCallerCancellation(t *testing.T) {
	// an escalated fetch may be shared with deduplicated callers, so one
	// caller's cancellation must not tear it down for everyone
	provider := &cancelSensitiveProvider{fakeProvider{
		total:         500,
		serverResults: []string{"entity_900"},
	}}

	cfg, err := vtcache.NewConfig(100, 600, 500, true)
	if err != nil {
		t.Fatalf("NewConfig failed: %v", err)
	}
	cache, err := vtcache.NewCache[string](logger.NewNop(), cfg.WithBackgroundLoadingDisabled(), provider)
	if err != nil {
		t.Fatalf("NewCache failed: %v", err)
	}
	if _, err := cache.LoadInitialPage(context.Background(), nil); err != nil {
		t.Fatalf("LoadInitialPage failed: %v", err)
	}

	orch, err := NewOrchestrator[string](logger.NewNop(), nil, cache, provider, matchSubstring, buildContainsFilter)
	if err != nil {
		t.Fatalf("NewOrchestrator failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := orch.Execute(ctx, "entity_900")
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if res.Source != SourceServer {
		t.Errorf("source = %q, want server", res.Source)
	}
	if len(res.Records) != 1 || res.Records[0] != "entity_900" {
		t.Errorf("records = %v, want the server result", res.Records)
	}
}

func TestNewOrchestrator_Validation(t *testing.T) {
	provider := &fakeProvider{total: 100}
	_, cache := newLoadedOrchestrator(t, provider, 100, 600)

	if _, err := NewOrchestrator[string](nil, nil, nil, provider, matchSubstring, buildContainsFilter); err == nil {
		t.Error("expected error for nil cache")
	}
	if _, err := NewOrchestrator[string](nil, nil, cache, nil, matchSubstring, buildContainsFilter); err == nil {
		t.Error("expected error for nil provider")
	}
	if _, err := NewOrchestrator[string](nil, nil, cache, provider, nil, buildContainsFilter); err == nil {
		t.Error("expected error for nil match function")
	}
	if _, err := NewOrchestrator[string](nil, nil, cache, provider, matchSubstring, nil); err == nil {
		t.Error("expected error for nil filter builder")
	}
	if _, err := NewOrchestrator[string](nil, &Config{ServerSearchLimit: -1}, cache, provider, matchSubstring, buildContainsFilter); err == nil {
		t.Error("expected error for negative server search limit")
	}
}

package redisstore

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/JoshSmithXRM/tablekit/logger"
	"github.com/JoshSmithXRM/tablekit/paging"
)

// Provider serves paginated reads over one Redis list of JSON records.
// It implements the paging.Provider contract.
//
// Unfiltered pages are cut server side with LRANGE. Filtered queries match
// the stored JSON text case-insensitively, so any field value containing
// the filter term matches.
type Provider[T any] struct {
	logger logger.Logger
	client *redis.Client
	key    string
}

// NewProvider creates a provider over the list stored at key
func NewProvider[T any](log logger.Logger, client *redis.Client, key string) (*Provider[T], error) {
	if client == nil {
		return nil, ErrNilClient
	}
	if key == "" {
		return nil, ErrEmptyKey
	}
	if log == nil {
		log = logger.NewNop()
	}

	return &Provider[T]{
		logger: log,
		client: client,
		key:    key,
	}, nil
}

// FindPaginated returns one page of records in list order
func (p *Provider[T]) FindPaginated(ctx context.Context, page, pageSize int, opts *paging.QueryOptions) (*paging.Result[T], error) {
	if page < 1 {
		return nil, paging.ErrInvalidPage(page)
	}
	if pageSize < 1 {
		return nil, paging.ErrInvalidPageSize(pageSize)
	}

	filter := ""
	top := 0
	if opts != nil {
		filter = opts.Filter
		top = opts.Top
	}

	var (
		raw   []string
		total int
		err   error
	)
	if filter == "" {
		raw, total, err = p.readPage(ctx, page, pageSize)
	} else {
		raw, total, err = p.readFiltered(ctx, page, pageSize, filter)
	}
	if err != nil {
		return nil, err
	}

	if top > 0 && len(raw) > top {
		raw = raw[:top]
	}

	items := make([]T, 0, len(raw))
	for _, doc := range raw {
		var item T
		if err := json.Unmarshal([]byte(doc), &item); err != nil {
			return nil, ErrDecode(p.key, err)
		}
		items = append(items, item)
	}

	p.logger.Debug("list page read",
		zap.String("key", p.key),
		zap.Int("page", page),
		zap.Int("rows", len(items)),
		zap.Int("total", total),
	)

	return &paging.Result[T]{
		Items:      items,
		Page:       page,
		PageSize:   pageSize,
		TotalCount: total,
	}, nil
}

// Count returns the number of records matching the options filter
func (p *Provider[T]) Count(ctx context.Context, opts *paging.QueryOptions) (int, error) {
	if opts == nil || opts.Filter == "" {
		return p.listLen(ctx)
	}

	all, err := p.client.LRange(ctx, p.key, 0, -1).Result()
	if err != nil {
		return 0, ErrRead(p.key, err)
	}

	term := strings.ToLower(opts.Filter)
	matched := 0
	for _, doc := range all {
		if strings.Contains(strings.ToLower(doc), term) {
			matched++
		}
	}
	return matched, nil
}

func (p *Provider[T]) listLen(ctx context.Context) (int, error) {
	n, err := p.client.LLen(ctx, p.key).Result()
	if err != nil {
		return 0, ErrRead(p.key, err)
	}
	return int(n), nil
}

func (p *Provider[T]) readPage(ctx context.Context, page, pageSize int) ([]string, int, error) {
	total, err := p.listLen(ctx)
	if err != nil {
		return nil, 0, err
	}

	start := int64((page - 1) * pageSize)
	stop := start + int64(pageSize) - 1
	raw, err := p.client.LRange(ctx, p.key, start, stop).Result()
	if err != nil {
		return nil, 0, ErrRead(p.key, err)
	}
	return raw, total, nil
}

func (p *Provider[T]) readFiltered(ctx context.Context, page, pageSize int, filter string) ([]string, int, error) {
	all, err := p.client.LRange(ctx, p.key, 0, -1).Result()
	if err != nil {
		return nil, 0, ErrRead(p.key, err)
	}

	term := strings.ToLower(filter)
	matched := make([]string, 0, len(all))
	for _, doc := range all {
		if strings.Contains(strings.ToLower(doc), term) {
			matched = append(matched, doc)
		}
	}

	start := (page - 1) * pageSize
	if start >= len(matched) {
		return nil, len(matched), nil
	}
	end := start + pageSize
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], len(matched), nil
}

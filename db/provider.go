package db

import (
	"context"

	"github.com/JoshSmithXRM/tablekit/logger"
	"github.com/JoshSmithXRM/tablekit/paging"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Provider is a paging.Provider backed by one GORM model table.
//
// The remote filter expression carried in paging.QueryOptions is applied as
// a raw SQL conditional; the caller's filter builder owns quoting and
// escaping for the MySQL dialect. A stable ORDER BY expression is required
// so successive pages never overlap or skip rows.
type Provider[T any] struct {
	logger  logger.Logger
	db      *gorm.DB
	orderBy string
}

// NewProvider creates a paginated record provider over the table mapped by
// the model type T. orderBy is the stable ordering expression, for example
// "id ASC".
func NewProvider[T any](log logger.Logger, database Database, orderBy string) (*Provider[T], error) {
	if database == nil {
		return nil, ErrInvalidConfig("database is required")
	}
	if orderBy == "" {
		return nil, ErrInvalidConfig("order by expression is required")
	}
	if log == nil {
		log = logger.NewNop()
	}

	gdb, err := database.DB()
	if err != nil {
		return nil, err
	}

	return &Provider[T]{
		logger:  log,
		db:      gdb,
		orderBy: orderBy,
	}, nil
}

// FindPaginated fetches one page of records plus the total matching count.
func (p *Provider[T]) FindPaginated(ctx context.Context, page, pageSize int, opts *paging.QueryOptions) (*paging.Result[T], error) {
	if page < 1 {
		return nil, paging.ErrInvalidPage(page)
	}
	if pageSize < 1 {
		return nil, paging.ErrInvalidPageSize(pageSize)
	}

	query := p.db.WithContext(ctx).Model(new(T))
	if opts != nil && opts.Filter != "" {
		query = query.Where(opts.Filter)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, ErrQuery(err)
	}

	limit := pageSize
	if opts != nil && opts.Top > 0 && opts.Top < limit {
		limit = opts.Top
	}

	var items []T
	err := query.
		Order(p.orderBy).
		Offset((page - 1) * pageSize).
		Limit(limit).
		Find(&items).Error
	if err != nil {
		return nil, ErrQuery(err)
	}

	p.logger.Debug("page fetched",
		zap.Int("page", page),
		zap.Int("page_size", pageSize),
		zap.Int("items", len(items)),
		zap.Int64("total", total),
	)

	return &paging.Result[T]{
		Items:      items,
		Page:       page,
		PageSize:   pageSize,
		TotalCount: int(total),
	}, nil
}

// Count reports the total matching record count without fetching items.
func (p *Provider[T]) Count(ctx context.Context, opts *paging.QueryOptions) (int, error) {
	query := p.db.WithContext(ctx).Model(new(T))
	if opts != nil && opts.Filter != "" {
		query = query.Where(opts.Filter)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return 0, ErrQuery(err)
	}
	return int(total), nil
}

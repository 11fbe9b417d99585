package ch

import (
	"context"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/JoshSmithXRM/tablekit/logger"
	"github.com/JoshSmithXRM/tablekit/paging"
)

var (
	identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)
	orderByPattern    = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*( (ASC|DESC|asc|desc))?(, ?[A-Za-z_][A-Za-z0-9_]*( (ASC|DESC|asc|desc))?)*$`)
)

// Provider serves paginated reads over one ClickHouse table. It implements
// the paging.Provider contract with Record items.
type Provider struct {
	logger  logger.Logger
	client  Client
	table   string
	orderBy string
}

// NewProvider creates a provider over the given table. orderBy is required
// so page boundaries are stable between calls.
func NewProvider(log logger.Logger, client Client, table, orderBy string) (*Provider, error) {
	if client == nil {
		return nil, ErrInvalidConfig("client is required")
	}
	if !identifierPattern.MatchString(table) {
		return nil, ErrInvalidIdentifier(table)
	}
	if !orderByPattern.MatchString(orderBy) {
		return nil, ErrInvalidIdentifier(orderBy)
	}
	if log == nil {
		log = logger.NewNop()
	}

	return &Provider{
		logger:  log,
		client:  client,
		table:   table,
		orderBy: orderBy,
	}, nil
}

// FindPaginated returns one page of records ordered by the provider's
// order-by clause. opts.Filter, when set, is applied as the WHERE clause
// to both the page query and the total count.
func (p *Provider) FindPaginated(ctx context.Context, page, pageSize int, opts *paging.QueryOptions) (*paging.Result[Record], error) {
	if page < 1 {
		return nil, paging.ErrInvalidPage(page)
	}
	if pageSize < 1 {
		return nil, paging.ErrInvalidPageSize(pageSize)
	}

	filter := ""
	limit := pageSize
	if opts != nil {
		filter = opts.Filter
		if opts.Top > 0 && opts.Top < limit {
			limit = opts.Top
		}
	}

	total, err := p.count(ctx, filter)
	if err != nil {
		return nil, err
	}

	query := buildSelectQuery(p.table, filter, p.orderBy, limit, (page-1)*pageSize)
	rows, err := p.client.Query(ctx, query)
	if err != nil {
		return nil, ErrQuery(err)
	}
	defer rows.Close()

	columns := rows.Columns()
	types := rows.ColumnTypes()

	records := make([]Record, 0, limit)
	for rows.Next() {
		scan := make([]any, len(types))
		for i, ct := range types {
			scan[i] = reflect.New(ct.ScanType()).Interface()
		}
		if err := rows.Scan(scan...); err != nil {
			return nil, ErrQuery(err)
		}

		record := make(Record, len(columns))
		for i, name := range columns {
			record[name] = normalizeValue(reflect.ValueOf(scan[i]).Elem().Interface())
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, ErrQuery(err)
	}

	p.logger.Debug("page query completed",
		zap.String("table", p.table),
		zap.Int("page", page),
		zap.Int("rows", len(records)),
		zap.Int("total", total),
	)

	return &paging.Result[Record]{
		Items:      records,
		Page:       page,
		PageSize:   pageSize,
		TotalCount: total,
	}, nil
}

// Count returns the number of records matching the options filter
func (p *Provider) Count(ctx context.Context, opts *paging.QueryOptions) (int, error) {
	filter := ""
	if opts != nil {
		filter = opts.Filter
	}
	return p.count(ctx, filter)
}

func (p *Provider) count(ctx context.Context, filter string) (int, error) {
	var total uint64
	if err := p.client.QueryRow(ctx, buildCountQuery(p.table, filter)).Scan(&total); err != nil {
		return 0, ErrQuery(err)
	}
	return int(total), nil
}

func buildSelectQuery(table, filter, orderBy string, limit, offset int) string {
	var sb strings.Builder
	sb.WriteString("SELECT * FROM ")
	sb.WriteString(table)
	if filter != "" {
		sb.WriteString(" WHERE ")
		sb.WriteString(filter)
	}
	sb.WriteString(" ORDER BY ")
	sb.WriteString(orderBy)
	fmt.Fprintf(&sb, " LIMIT %d OFFSET %d", limit, offset)
	return sb.String()
}

func buildCountQuery(table, filter string) string {
	var sb strings.Builder
	sb.WriteString("SELECT count() FROM ")
	sb.WriteString(table)
	if filter != "" {
		sb.WriteString(" WHERE ")
		sb.WriteString(filter)
	}
	return sb.String()
}

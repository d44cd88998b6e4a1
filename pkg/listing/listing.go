// Package listing translates API query strings into database list queries.
//
// The reserved keys page, sort, limit, and fields control pagination,
// ordering, and projection. Every other key is treated as a filter on a
// schema-registered field, either a plain equality (`category=seeds`) or a
// bracketed comparison (`price[gte]=10`). Unknown fields and malformed
// values are rejected up front so the handler can return a clean
// validation error instead of leaking a database error.
package listing

import (
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	pkgerrors "github.com/EmilyGongVL/ecommerce-v1/pkg/errors"
)

const (
	// DefaultLimit is the page size when the client does not send one.
	DefaultLimit = 10
	// MaxLimit caps the page size regardless of what the client asks for.
	MaxLimit = 100

	defaultSort = "-created_at"
)

// Kind determines how a filter value is coerced before it reaches SQL.
type Kind int

const (
	KindString Kind = iota
	KindInt
	KindFloat
	KindBool
	KindTime
	KindDecimal
)

// Field registers one externally filterable field.
type Field struct {
	// Column is the database column the external name maps to.
	Column string
	Kind   Kind
	// Sortable allows the field in the sort key.
	Sortable bool
	// Filterable allows the field as a filter key. Fields registered only
	// for sorting or projection leave this false.
	Filterable bool
}

// Schema describes the list surface of one resource.
type Schema struct {
	// Fields maps external names (as they appear in the query string) to
	// column metadata.
	Fields map[string]Field
	// DefaultSelect is the projection used when the client sends no
	// fields key. Bookkeeping columns stay out of it.
	DefaultSelect []string
	// SoftDelete adds `active = true` to every query built from this
	// schema.
	SoftDelete bool
}

var comparisonOps = map[string]string{
	"gte": ">=",
	"gt":  ">",
	"lte": "<=",
	"lt":  "<",
}

type filter struct {
	column string
	op     string
	value  any
}

type sortTerm struct {
	column string
	desc   bool
}

// Query is a parsed, validated list request ready to apply to GORM.
type Query struct {
	Page  int
	Limit int

	schema  Schema
	filters []filter
	sorts   []sortTerm
	columns []string
}

// Offset returns the number of rows skipped by the pagination settings.
func (q *Query) Offset() int {
	return (q.Page - 1) * q.Limit
}

// Parse validates the raw query string against the schema. The reserved
// keys page, sort, limit, and fields are consumed first; everything else
// must resolve to a registered filterable field.
func Parse(values url.Values, schema Schema) (*Query, error) {
	q := &Query{Page: 1, Limit: DefaultLimit, schema: schema}

	if raw := values.Get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "page must be a positive integer")
		}
		q.Page = page
	}

	if raw := values.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "limit must be a positive integer")
		}
		q.Limit = limit
	}
	if q.Limit > MaxLimit {
		q.Limit = MaxLimit
	}

	if err := q.parseSort(values.Get("sort")); err != nil {
		return nil, err
	}
	if err := q.parseFields(values.Get("fields")); err != nil {
		return nil, err
	}

	// Deterministic iteration keeps error messages and generated SQL
	// stable across runs.
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		switch key {
		case "page", "sort", "limit", "fields":
			continue
		}
		for _, raw := range values[key] {
			if err := q.parseFilter(key, raw); err != nil {
				return nil, err
			}
		}
	}

	return q, nil
}

func (q *Query) parseSort(raw string) error {
	if raw == "" {
		raw = defaultSort
	}
	for _, term := range strings.Split(raw, ",") {
		term = strings.TrimSpace(term)
		if term == "" {
			continue
		}
		desc := strings.HasPrefix(term, "-")
		name := strings.TrimPrefix(term, "-")

		if name == "created_at" || name == "updated_at" {
			q.sorts = append(q.sorts, sortTerm{column: name, desc: desc})
			continue
		}
		field, ok := q.schema.Fields[name]
		if !ok || !field.Sortable {
			return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("cannot sort by %q", name))
		}
		q.sorts = append(q.sorts, sortTerm{column: field.Column, desc: desc})
	}
	return nil
}

func (q *Query) parseFields(raw string) error {
	if raw == "" {
		q.columns = q.schema.DefaultSelect
		return nil
	}
	for _, name := range strings.Split(raw, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		field, ok := q.schema.Fields[name]
		if !ok {
			return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown field %q", name))
		}
		q.columns = append(q.columns, field.Column)
	}
	return nil
}

func (q *Query) parseFilter(key, raw string) error {
	name, op := key, "="
	if open := strings.IndexByte(key, '['); open >= 0 && strings.HasSuffix(key, "]") {
		name = key[:open]
		bracket := key[open+1 : len(key)-1]
		sqlOp, ok := comparisonOps[bracket]
		if !ok {
			return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unsupported operator %q on %q", bracket, name))
		}
		op = sqlOp
	}

	field, ok := q.schema.Fields[name]
	if !ok || !field.Filterable {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("cannot filter by %q", name))
	}

	value, err := coerce(field.Kind, raw)
	if err != nil {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid value for %q: %s", name, err))
	}

	q.filters = append(q.filters, filter{column: field.Column, op: op, value: value})
	return nil
}

func coerce(kind Kind, raw string) (any, error) {
	switch kind {
	case KindString:
		return raw, nil
	case KindInt:
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("expected an integer")
		}
		return v, nil
	case KindFloat:
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("expected a number")
		}
		return v, nil
	case KindBool:
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("expected true or false")
		}
		return v, nil
	case KindTime:
		v, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return nil, fmt.Errorf("expected an RFC3339 timestamp")
		}
		return v, nil
	case KindDecimal:
		v, err := decimal.NewFromString(raw)
		if err != nil {
			return nil, fmt.Errorf("expected a decimal number")
		}
		return v, nil
	default:
		return nil, fmt.Errorf("unsupported kind")
	}
}

// Apply attaches the parsed filters, ordering, projection, and pagination
// to a GORM query.
func (q *Query) Apply(tx *gorm.DB) *gorm.DB {
	if q.schema.SoftDelete {
		tx = tx.Where("active = ?", true)
	}
	for _, f := range q.filters {
		tx = tx.Where(fmt.Sprintf("%s %s ?", f.column, f.op), f.value)
	}
	for _, s := range q.sorts {
		dir := "ASC"
		if s.desc {
			dir = "DESC"
		}
		tx = tx.Order(fmt.Sprintf("%s %s", s.column, dir))
	}
	if len(q.columns) > 0 {
		tx = tx.Select(q.columns)
	}
	return tx.Offset(q.Offset()).Limit(q.Limit)
}

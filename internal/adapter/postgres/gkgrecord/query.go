package gkgrecord

import (
	"context"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"

	postgres "github.com/heartmarshall/gkgfeed/internal/adapter/postgres"
	"github.com/heartmarshall/gkgfeed/internal/domain"
)

const (
	DefaultLimit = 50
	MaxLimit     = 1000
)

// Query selects stored records. Zero fields do not constrain the result.
type Query struct {
	// Country matches an exact FIPS country code, case-insensitively.
	Country string
	// Theme matches an exact V1 or enhanced theme code.
	Theme string
	// Person and Source match case-insensitive substrings.
	Person  string
	Source  string
	ToneMin *float64
	ToneMax *float64
	// DateFrom and DateTo are inclusive YYYYMMDDHHMMSS bounds.
	DateFrom *int64
	DateTo   *int64
	Limit    int
	Offset   int
}

// Validate checks paging and range bounds.
func (q Query) Validate() error {
	var errs []domain.FieldError
	if q.Limit < 0 || q.Limit > MaxLimit {
		errs = append(errs, domain.FieldError{Field: "limit", Message: fmt.Sprintf("must be between 0 and %d", MaxLimit)})
	}
	if q.Offset < 0 {
		errs = append(errs, domain.FieldError{Field: "offset", Message: "must not be negative"})
	}
	if q.ToneMin != nil && q.ToneMax != nil && *q.ToneMin > *q.ToneMax {
		errs = append(errs, domain.FieldError{Field: "tone", Message: "min must not exceed max"})
	}
	if q.DateFrom != nil && q.DateTo != nil && *q.DateFrom > *q.DateTo {
		errs = append(errs, domain.FieldError{Field: "date", Message: "from must not be after to"})
	}
	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

func builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

func (q Query) where() squirrel.And {
	conds := squirrel.And{}
	if q.Country != "" {
		conds = append(conds, squirrel.Expr("country_codes @> ARRAY[?]::text[]", strings.ToUpper(q.Country)))
	}
	if q.Theme != "" {
		conds = append(conds, squirrel.Expr("themes @> ARRAY[?]::text[]", q.Theme))
	}
	if q.Person != "" {
		conds = append(conds, squirrel.Expr(
			"EXISTS (SELECT 1 FROM unnest(persons) AS p WHERE p ILIKE ?)", "%"+likeEscape(q.Person)+"%"))
	}
	if q.Source != "" {
		conds = append(conds, squirrel.ILike{"source_common_name": "%" + likeEscape(q.Source) + "%"})
	}
	if q.ToneMin != nil {
		conds = append(conds, squirrel.GtOrEq{"tone": *q.ToneMin})
	}
	if q.ToneMax != nil {
		conds = append(conds, squirrel.LtOrEq{"tone": *q.ToneMax})
	}
	if q.DateFrom != nil {
		conds = append(conds, squirrel.GtOrEq{"date": *q.DateFrom})
	}
	if q.DateTo != nil {
		conds = append(conds, squirrel.LtOrEq{"date": *q.DateTo})
	}
	return conds
}

// toSQL builds the SELECT for q, newest records first.
func (q Query) toSQL() (string, []any, error) {
	limit := q.Limit
	if limit == 0 {
		limit = DefaultLimit
	}

	return builder().
		Select("record").
		From("gkg_records").
		Where(q.where()).
		OrderBy("date DESC", "gkg_record_id ASC").
		Limit(uint64(limit)).
		Offset(uint64(q.Offset)).
		ToSql()
}

func (q Query) countSQL() (string, []any, error) {
	return builder().
		Select("count(*)").
		From("gkg_records").
		Where(q.where()).
		ToSql()
}

// Search returns the records matching q.
func (r *Repo) Search(ctx context.Context, q Query) ([]domain.Record, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	sql, args, err := q.toSQL()
	if err != nil {
		return nil, fmt.Errorf("%s: build query: %w", entity, err)
	}

	rows, err := postgres.QuerierFromCtx(ctx, r.pool).Query(ctx, sql, args...)
	if err != nil {
		return nil, postgres.MapError(err, entity, "search")
	}
	defer rows.Close()

	records := make([]domain.Record, 0)
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, postgres.MapError(err, entity, "search")
		}
		rec, err := decodeRecord(doc)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, postgres.MapError(err, entity, "search")
	}

	return records, nil
}

// Count returns the number of records matching q, ignoring paging.
func (r *Repo) Count(ctx context.Context, q Query) (int64, error) {
	sql, args, err := q.countSQL()
	if err != nil {
		return 0, fmt.Errorf("%s: build count: %w", entity, err)
	}

	var n int64
	if err := postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx, sql, args...).Scan(&n); err != nil {
		return 0, postgres.MapError(err, entity, "count")
	}
	return n, nil
}

func likeEscape(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

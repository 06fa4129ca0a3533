package gkgrecord

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/gkgfeed/internal/domain"
)

func ptr[T any](v T) *T { return &v }

func TestQuery_ToSQL_Empty(t *testing.T) {
	t.Parallel()

	sql, args, err := Query{}.toSQL()
	require.NoError(t, err)

	assert.Equal(t, "SELECT record FROM gkg_records WHERE (1=1) ORDER BY date DESC, gkg_record_id ASC LIMIT 50 OFFSET 0", sql)
	assert.Empty(t, args)
}

func TestQuery_ToSQL_AllFilters(t *testing.T) {
	t.Parallel()

	q := Query{
		Country:  "up",
		Theme:    "KILL",
		Person:   "putin",
		Source:   "50%_off",
		ToneMin:  ptr(-5.0),
		ToneMax:  ptr(5.0),
		DateFrom: ptr(int64(20150218000000)),
		DateTo:   ptr(int64(20150218235959)),
		Limit:    10,
		Offset:   20,
	}

	sql, args, err := q.toSQL()
	require.NoError(t, err)

	assert.Equal(t,
		"SELECT record FROM gkg_records WHERE (country_codes @> ARRAY[$1]::text[]"+
			" AND themes @> ARRAY[$2]::text[]"+
			" AND EXISTS (SELECT 1 FROM unnest(persons) AS p WHERE p ILIKE $3)"+
			" AND source_common_name ILIKE $4"+
			" AND tone >= $5 AND tone <= $6 AND date >= $7 AND date <= $8)"+
			" ORDER BY date DESC, gkg_record_id ASC LIMIT 10 OFFSET 20",
		sql)
	assert.Equal(t, []any{
		"UP", "KILL", "%putin%", `%50\%\_off%`,
		-5.0, 5.0, int64(20150218000000), int64(20150218235959),
	}, args)
}

func TestQuery_CountSQL(t *testing.T) {
	t.Parallel()

	sql, args, err := Query{Source: "bbc", Limit: 5, Offset: 5}.countSQL()
	require.NoError(t, err)

	assert.Equal(t, "SELECT count(*) FROM gkg_records WHERE (source_common_name ILIKE $1)", sql)
	assert.Equal(t, []any{"%bbc%"}, args)
}

func TestQuery_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		q     Query
		field string
	}{
		{"negative limit", Query{Limit: -1}, "limit"},
		{"limit too large", Query{Limit: MaxLimit + 1}, "limit"},
		{"negative offset", Query{Offset: -3}, "offset"},
		{"tone inverted", Query{ToneMin: ptr(2.0), ToneMax: ptr(1.0)}, "tone"},
		{"date inverted", Query{DateFrom: ptr(int64(2)), DateTo: ptr(int64(1))}, "date"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.q.Validate()
			require.ErrorIs(t, err, domain.ErrValidation)

			var ve *domain.ValidationError
			require.True(t, errors.As(err, &ve))
			assert.Equal(t, tt.field, ve.Errors[0].Field)
		})
	}

	assert.NoError(t, Query{Limit: MaxLimit}.Validate())
}

func TestThemeCodes(t *testing.T) {
	t.Parallel()

	rec := &domain.Record{
		Themes: []string{"KILL", "ARMEDCONFLICT"},
		EnhancedThemes: []domain.EnhancedTheme{
			{Theme: "KILL", CharOffset: 10},
			{Theme: "TAX_FNCACT_SOLDIERS", CharOffset: 50},
			{Theme: "", CharOffset: 60},
		},
	}
	assert.Equal(t, []string{"KILL", "ARMEDCONFLICT", "TAX_FNCACT_SOLDIERS"}, themeCodes(rec))
	assert.Empty(t, themeCodes(&domain.Record{}))
}

func TestCountryCodes(t *testing.T) {
	t.Parallel()

	rec := &domain.Record{
		Locations:         []domain.Location{{CountryCode: "up"}},
		EnhancedLocations: []domain.EnhancedLocation{{CountryCode: "UP"}, {CountryCode: "RS"}},
	}
	assert.Equal(t, []string{"UP", "RS"}, countryCodes(rec))
}

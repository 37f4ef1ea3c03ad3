package schema

import (
	"fmt"
	"strconv"
	"strings"
)

// Cast identifies how a source value is converted to its target type.
type Cast string

const (
	CastNone    Cast = "none"    // trimmed string passthrough
	CastYear    Cast = "year"    // 4-digit year -> integer
	CastMinutes Cast = "minutes" // "142 min" -> integer minutes
	CastDecimal Cast = "decimal" // plain decimal -> float64
	CastInteger Cast = "integer" // plain integer -> int64
	CastGrouped Cast = "grouped" // "28,341,469" -> float64
)

// Mapping renames and retypes one source column for the warehouse.
type Mapping struct {
	Source   string
	Target   string
	SQLType  string
	Cast     Cast
	Nullable bool
}

// TargetTable is the warehouse table the default group loads into.
const TargetTable = "movies"

// movieMappings is the static rename/cast table. The warehouse DDL is
// derived from this same table, so column names and types cannot drift.
var movieMappings = []Mapping{
	{Source: ColPosterLink, Target: "poster_link", SQLType: "TEXT", Cast: CastNone, Nullable: true},
	{Source: ColSeriesTitle, Target: "title", SQLType: "VARCHAR(512)", Cast: CastNone},
	{Source: ColReleasedYear, Target: "release_year", SQLType: "INTEGER", Cast: CastYear},
	{Source: ColCertificate, Target: "certificate", SQLType: "VARCHAR(16)", Cast: CastNone, Nullable: true},
	{Source: ColRuntime, Target: "runtime_minutes", SQLType: "INTEGER", Cast: CastMinutes, Nullable: true},
	{Source: ColGenre, Target: "genre", SQLType: "VARCHAR(256)", Cast: CastNone, Nullable: true},
	{Source: ColIMDBRating, Target: "imdb_rating", SQLType: "NUMERIC(3,1)", Cast: CastDecimal},
	{Source: ColOverview, Target: "overview", SQLType: "TEXT", Cast: CastNone, Nullable: true},
	{Source: ColMetaScore, Target: "meta_score", SQLType: "INTEGER", Cast: CastInteger, Nullable: true},
	{Source: ColDirector, Target: "director", SQLType: "VARCHAR(256)", Cast: CastNone, Nullable: true},
	{Source: ColStar1, Target: "star1", SQLType: "VARCHAR(256)", Cast: CastNone, Nullable: true},
	{Source: ColStar2, Target: "star2", SQLType: "VARCHAR(256)", Cast: CastNone, Nullable: true},
	{Source: ColStar3, Target: "star3", SQLType: "VARCHAR(256)", Cast: CastNone, Nullable: true},
	{Source: ColStar4, Target: "star4", SQLType: "VARCHAR(256)", Cast: CastNone, Nullable: true},
	{Source: ColNoOfVotes, Target: "vote_count", SQLType: "BIGINT", Cast: CastInteger},
	{Source: ColGross, Target: "gross", SQLType: "NUMERIC(14,2)", Cast: CastGrouped, Nullable: true},
}

// Mappings returns the rename/cast table in target column order.
func Mappings() []Mapping {
	out := make([]Mapping, len(movieMappings))
	copy(out, movieMappings)
	return out
}

// TargetColumns returns the ordered warehouse column names.
func TargetColumns() []string {
	cols := make([]string, len(movieMappings))
	for i, m := range movieMappings {
		cols[i] = m.Target
	}
	return cols
}

// ColumnDDLs returns DDL fragments for the warehouse table, one per column.
func ColumnDDLs() []string {
	out := make([]string, 0, len(movieMappings))
	for _, m := range movieMappings {
		ddl := fmt.Sprintf("%s %s", m.Target, m.SQLType)
		if !m.Nullable {
			ddl += " NOT NULL"
		}
		out = append(out, ddl)
	}
	return out
}

// CastError reports a value that could not be converted to its target type.
type CastError struct {
	Source string
	Target string
	Value  string
	Err    error
}

func (e *CastError) Error() string {
	return fmt.Sprintf("cast %s -> %s: %q: %v", e.Source, e.Target, e.Value, e.Err)
}

func (e *CastError) Unwrap() error { return e.Err }

// Apply converts a source row into a warehouse row keyed by target column.
// Blank values on nullable targets become nil; a blank or malformed value
// on a NOT NULL target is a CastError.
func Apply(row map[string]string) (map[string]any, error) {
	out := make(map[string]any, len(movieMappings))
	for _, m := range movieMappings {
		raw := strings.TrimSpace(row[m.Source])
		if raw == "" {
			if !m.Nullable {
				return nil, &CastError{Source: m.Source, Target: m.Target, Value: raw, Err: fmt.Errorf("value required")}
			}
			out[m.Target] = nil
			continue
		}
		val, err := castValue(m.Cast, raw)
		if err != nil {
			return nil, &CastError{Source: m.Source, Target: m.Target, Value: raw, Err: err}
		}
		out[m.Target] = val
	}
	return out, nil
}

func castValue(cast Cast, raw string) (any, error) {
	switch cast {
	case CastNone:
		return raw, nil
	case CastYear:
		if len(raw) != 4 {
			return nil, fmt.Errorf("expected 4-digit year")
		}
		year, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid year")
		}
		return year, nil
	case CastMinutes:
		trimmed := strings.TrimSpace(strings.TrimSuffix(raw, "min"))
		minutes, err := strconv.ParseInt(trimmed, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid runtime")
		}
		return minutes, nil
	case CastDecimal:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid decimal")
		}
		return f, nil
	case CastInteger:
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid integer")
		}
		return n, nil
	case CastGrouped:
		f, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", ""), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid grouped number")
		}
		return f, nil
	default:
		return nil, fmt.Errorf("unknown cast %q", cast)
	}
}

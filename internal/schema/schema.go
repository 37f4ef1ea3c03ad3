// Package schema declares the movie dataset source schema and the static
// rename/cast table that maps it onto the warehouse layout.
package schema

// DataType is the declared primitive type of a source column.
type DataType string

const (
	TypeString  DataType = "string"
	TypeInteger DataType = "integer"
	TypeDecimal DataType = "decimal"
)

// Field describes one source column.
type Field struct {
	Name     string
	DataType DataType
	Nullable bool
	Position int
}

// Source column names. The CSV header must match these exactly.
const (
	ColPosterLink   = "Poster_Link"
	ColSeriesTitle  = "Series_Title"
	ColReleasedYear = "Released_Year"
	ColCertificate  = "Certificate"
	ColRuntime      = "Runtime"
	ColGenre        = "Genre"
	ColIMDBRating   = "IMDB_Rating"
	ColOverview     = "Overview"
	ColMetaScore    = "Meta_score"
	ColDirector     = "Director"
	ColStar1        = "Star1"
	ColStar2        = "Star2"
	ColStar3        = "Star3"
	ColStar4        = "Star4"
	ColNoOfVotes    = "No_of_Votes"
	ColGross        = "Gross"
)

var sourceFields = []Field{
	{Name: ColPosterLink, DataType: TypeString, Nullable: true, Position: 1},
	{Name: ColSeriesTitle, DataType: TypeString, Position: 2},
	{Name: ColReleasedYear, DataType: TypeString, Position: 3},
	{Name: ColCertificate, DataType: TypeString, Nullable: true, Position: 4},
	{Name: ColRuntime, DataType: TypeString, Nullable: true, Position: 5},
	{Name: ColGenre, DataType: TypeString, Nullable: true, Position: 6},
	{Name: ColIMDBRating, DataType: TypeDecimal, Position: 7},
	{Name: ColOverview, DataType: TypeString, Nullable: true, Position: 8},
	{Name: ColMetaScore, DataType: TypeInteger, Nullable: true, Position: 9},
	{Name: ColDirector, DataType: TypeString, Nullable: true, Position: 10},
	{Name: ColStar1, DataType: TypeString, Nullable: true, Position: 11},
	{Name: ColStar2, DataType: TypeString, Nullable: true, Position: 12},
	{Name: ColStar3, DataType: TypeString, Nullable: true, Position: 13},
	{Name: ColStar4, DataType: TypeString, Nullable: true, Position: 14},
	{Name: ColNoOfVotes, DataType: TypeInteger, Position: 15},
	{Name: ColGross, DataType: TypeString, Nullable: true, Position: 16},
}

// SourceFields returns the declared source columns in order.
func SourceFields() []Field {
	out := make([]Field, len(sourceFields))
	copy(out, sourceFields)
	return out
}

// SourceColumns returns the ordered source column names.
func SourceColumns() []string {
	cols := make([]string, len(sourceFields))
	for i, f := range sourceFields {
		cols[i] = f.Name
	}
	return cols
}

// HasSourceColumn reports whether name is a declared source column.
func HasSourceColumn(name string) bool {
	for _, f := range sourceFields {
		if f.Name == name {
			return true
		}
	}
	return false
}

// SourceField returns the declaration for a column, if present.
func SourceField(name string) (Field, bool) {
	for _, f := range sourceFields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

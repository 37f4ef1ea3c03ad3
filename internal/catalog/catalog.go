// Package catalog decodes the source CSV and infers its schema, standing in
// for the external cataloguing service the dataset was registered with.
package catalog

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/reeldata/reelpipe/internal/schema"
)

// Row is one CSV record keyed by header column.
type Row map[string]string

// Dataset holds the decoded CSV with its header order preserved.
type Dataset struct {
	Columns []string
	Rows    []Row
}

// inferSampleSize bounds how many rows type inference looks at.
const inferSampleSize = 200

// Decode reads a headered CSV stream into a Dataset. Short records are
// rejected; the ragged-row tolerance of the managed reader is not carried.
func Decode(r io.Reader) (*Dataset, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	columns := make([]string, len(header))
	for i, h := range header {
		columns[i] = strings.TrimSpace(h)
	}

	var rows []Row
	line := 1
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", line, err)
		}
		if len(rec) != len(columns) {
			return nil, fmt.Errorf("row %d: %d fields, expected %d", line, len(rec), len(columns))
		}
		row := make(Row, len(columns))
		for i, col := range columns {
			row[col] = rec[i]
		}
		rows = append(rows, row)
	}

	return &Dataset{Columns: columns, Rows: rows}, nil
}

// InferredField is an inferred column type plus observed null stats.
type InferredField struct {
	Name      string
	DataType  schema.DataType
	BlankRows int
}

// InferSchema guesses column types from a sample of rows. A column is an
// integer or decimal only when every non-blank sampled value parses as one.
func InferSchema(ds *Dataset) []InferredField {
	fields := make([]InferredField, 0, len(ds.Columns))
	sample := ds.Rows
	if len(sample) > inferSampleSize {
		sample = sample[:inferSampleSize]
	}

	for _, col := range ds.Columns {
		inf := InferredField{Name: col, DataType: schema.TypeString}
		allInt := true
		allDec := true
		seen := 0
		for _, row := range sample {
			v := strings.TrimSpace(row[col])
			if v == "" {
				inf.BlankRows++
				continue
			}
			seen++
			if _, err := strconv.ParseInt(v, 10, 64); err != nil {
				allInt = false
			}
			if _, err := strconv.ParseFloat(v, 64); err != nil {
				allDec = false
			}
		}
		if seen > 0 {
			switch {
			case allInt:
				inf.DataType = schema.TypeInteger
			case allDec:
				inf.DataType = schema.TypeDecimal
			}
		}
		fields = append(fields, inf)
	}
	return fields
}

// ValidateAgainstSource checks the decoded header against the declared
// source schema: every declared column must be present, in any order.
// Extra columns are tolerated and ignored downstream.
func ValidateAgainstSource(ds *Dataset) error {
	present := make(map[string]bool, len(ds.Columns))
	for _, col := range ds.Columns {
		present[col] = true
	}
	var missing []string
	for _, name := range schema.SourceColumns() {
		if !present[name] {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("dataset is missing declared columns: %s", strings.Join(missing, ", "))
	}
	return nil
}

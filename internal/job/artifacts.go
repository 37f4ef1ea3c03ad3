package job

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	writerfile "github.com/xitongsys/parquet-go-source/writerfile"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/writer"

	"github.com/reeldata/reelpipe/internal/connector/objectstore"
	"github.com/reeldata/reelpipe/internal/quality"
	"github.com/reeldata/reelpipe/internal/schema"
)

// OutcomeReport is the rule-evaluation artifact written per run.
type OutcomeReport struct {
	RunID           string            `json:"runId"`
	Job             string            `json:"job"`
	EvaluatedAt     time.Time         `json:"evaluatedAt"`
	RowsRead        int64             `json:"rowsRead"`
	RowsLoaded      int64             `json:"rowsLoaded"`
	RowsQuarantined int64             `json:"rowsQuarantined"`
	Outcomes        []quality.Outcome `json:"outcomes"`
}

// ArtifactWriter writes run outputs to the object store under a hive-style
// dt=<load date>/run=<run id> layout.
type ArtifactWriter struct {
	Store  objectstore.Store
	Bucket string
}

func (w *ArtifactWriter) partitionKey(prefix, loadDate, runID, file string) string {
	return objectstore.JoinPath(prefix, fmt.Sprintf("dt=%s", loadDate), fmt.Sprintf("run=%s", runID), file)
}

func (w *ArtifactWriter) objectURL(key string) string {
	return fmt.Sprintf("s3://%s/%s", w.Bucket, key)
}

// WriteQuarantine persists rejected rows as a gzipped JSONL part.
func (w *ArtifactWriter) WriteQuarantine(ctx context.Context, prefix, loadDate, runID string, rows []quality.QuarantinedRow) (string, error) {
	if len(rows) == 0 {
		return "", nil
	}
	buf := &bytes.Buffer{}
	gz := gzip.NewWriter(buf)
	enc := json.NewEncoder(gz)
	for _, row := range rows {
		if err := enc.Encode(row); err != nil {
			_ = gz.Close()
			return "", fmt.Errorf("encode quarantined row: %w", err)
		}
	}
	if err := gz.Close(); err != nil {
		return "", fmt.Errorf("flush gzip: %w", err)
	}

	key := w.partitionKey(prefix, loadDate, runID, "part-000000.jsonl.gz")
	if err := w.Store.PutObject(ctx, w.Bucket, key, buf.Bytes()); err != nil {
		return "", err
	}
	return w.objectURL(key), nil
}

// WriteOutcomes persists the rule-evaluation report as JSON.
func (w *ArtifactWriter) WriteOutcomes(ctx context.Context, prefix, loadDate, runID string, report *OutcomeReport) (string, error) {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode outcome report: %w", err)
	}
	key := w.partitionKey(prefix, loadDate, runID, "outcomes.json")
	if err := w.Store.PutObject(ctx, w.Bucket, key, data); err != nil {
		return "", err
	}
	return w.objectURL(key), nil
}

// WriteCurated persists transformed rows as a snappy-compressed Parquet part.
func (w *ArtifactWriter) WriteCurated(ctx context.Context, prefix, loadDate, runID string, rows []map[string]any) (string, error) {
	if len(rows) == 0 {
		return "", nil
	}

	buf := &bytes.Buffer{}
	pfw := writerfile.NewWriterFile(buf)
	pw, err := writer.NewJSONWriter(curatedParquetSchema(), pfw, 4)
	if err != nil {
		return "", fmt.Errorf("create parquet writer: %w", err)
	}
	pw.CompressionType = parquet.CompressionCodec_SNAPPY

	for _, row := range rows {
		encoded, err := json.Marshal(row)
		if err != nil {
			_ = pw.WriteStop()
			_ = pfw.Close()
			return "", fmt.Errorf("encode curated row: %w", err)
		}
		if err := pw.Write(string(encoded)); err != nil {
			_ = pw.WriteStop()
			_ = pfw.Close()
			return "", fmt.Errorf("write parquet row: %w", err)
		}
	}
	if err := pw.WriteStop(); err != nil {
		_ = pfw.Close()
		return "", fmt.Errorf("finalize parquet: %w", err)
	}
	_ = pfw.Close()

	key := w.partitionKey(prefix, loadDate, runID, "part-000000.parquet")
	if err := w.Store.PutObject(ctx, w.Bucket, key, buf.Bytes()); err != nil {
		return "", err
	}
	return w.objectURL(key), nil
}

// curatedParquetSchema derives the Parquet schema from the mapping table.
func curatedParquetSchema() string {
	fields := make([]map[string]string, 0, len(schema.Mappings()))
	for _, m := range schema.Mappings() {
		fields = append(fields, map[string]string{
			"Tag": fmt.Sprintf("name=%s, type=%s, repetitiontype=OPTIONAL", m.Target, parquetPhysicalType(m.SQLType)),
		})
	}
	out := map[string]any{
		"Tag":    "name=parquet_go_root, repetitiontype=REQUIRED",
		"Fields": fields,
	}
	b, _ := json.Marshal(out)
	return string(b)
}

func parquetPhysicalType(sqlType string) string {
	upper := strings.ToUpper(sqlType)
	switch {
	case strings.HasPrefix(upper, "INTEGER"), strings.HasPrefix(upper, "BIGINT"):
		return "INT64"
	case strings.HasPrefix(upper, "NUMERIC"), strings.HasPrefix(upper, "DECIMAL"), strings.HasPrefix(upper, "DOUBLE"):
		return "DOUBLE"
	default:
		return "BYTE_ARRAY, convertedtype=UTF8"
	}
}

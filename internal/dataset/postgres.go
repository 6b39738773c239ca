package dataset

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/siftlab/sift/internal/record"
)

// LoadPostgres runs a query against PostgreSQL and materializes the result
// as records. Column names become record keys; numeric columns normalize to
// float64 and timestamps to ISO date strings so the evaluator sees the same
// runtime shapes as for file-based datasets.
func LoadPostgres(ctx context.Context, dsn, query string) (*Dataset, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect: %w", err)
	}
	defer pool.Close()

	rows, err := pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	fieldDescs := rows.FieldDescriptions()
	columns := make([]string, len(fieldDescs))
	for i, fd := range fieldDescs {
		columns[i] = string(fd.Name)
	}

	var records []record.Record
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("failed to read row: %w", err)
		}

		rec := record.Record{}
		for i, v := range values {
			if i >= len(columns) {
				break
			}
			rec[columns[i]] = normalizePgValue(v)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration failed: %w", err)
	}

	return &Dataset{Name: "postgres", Records: records}, nil
}

func normalizePgValue(v any) any {
	switch t := v.(type) {
	case int16:
		return float64(t)
	case int32:
		return float64(t)
	case int64:
		return float64(t)
	case float32:
		return float64(t)
	case time.Time:
		return t.Format("2006-01-02")
	case [16]byte: // uuid
		return fmt.Sprintf("%x-%x-%x-%x-%x", t[0:4], t[4:6], t[6:8], t[8:10], t[10:16])
	default:
		return v
	}
}

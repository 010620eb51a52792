package rows

import (
	"context"
	"database/sql"
	"fmt"
	"reflect"
)

type sqlSource struct {
	rows *sql.Rows
}

// FromSQL returns a row source over a database/sql result set. The result set is closed
// once Each returns. Byte slice cells are converted to strings.
func FromSQL(rs *sql.Rows) Source {
	return &sqlSource{rows: rs}
}

// Query runs query on db and returns its result set as a row source.
func Query(ctx context.Context, db *sql.DB, query string, args ...any) (Source, error) {
	rs, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	return FromSQL(rs), nil
}

func (s *sqlSource) ElemType() reflect.Type {
	return RowType
}

func (s *sqlSource) Each(fn func(elem any) error) error {
	defer s.rows.Close()

	columns, err := s.rows.Columns()
	if err != nil {
		return fmt.Errorf("reading columns: %w", err)
	}

	for s.rows.Next() {
		cells := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range cells {
			ptrs[i] = &cells[i]
		}
		if err := s.rows.Scan(ptrs...); err != nil {
			return fmt.Errorf("scanning row: %w", err)
		}
		for i, cell := range cells {
			if b, ok := cell.([]byte); ok {
				cells[i] = string(b)
			}
		}
		if err := fn(NewRow(columns, cells)); err != nil {
			return err
		}
	}
	return s.rows.Err()
}

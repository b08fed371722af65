// Package store exports cleaned datasets to SQL tables through gorm.
package store

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/KaramelBytes/tabsift/internal/dataset"
)

const (
	batchRows = 500
	// keeps a batch under the bind-parameter limits of both drivers
	maxParams = 30000
)

// Open connects to the database named by dsn. postgres:// and postgresql://
// URLs use PostgreSQL; sqlite://path, *.db, *.sqlite and :memory: use SQLite.
func Open(dsn string) (*gorm.DB, error) {
	dialector, err := dialectorFor(dsn)
	if err != nil {
		return nil, err
	}
	db, err := gorm.Open(dialector, &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", dialector.Name(), err)
	}
	return db, nil
}

func dialectorFor(dsn string) (gorm.Dialector, error) {
	d := strings.TrimSpace(dsn)
	lower := strings.ToLower(d)
	switch {
	case d == "":
		return nil, fmt.Errorf("empty DSN")
	case strings.HasPrefix(lower, "postgres://"), strings.HasPrefix(lower, "postgresql://"):
		return postgres.Open(d), nil
	case strings.HasPrefix(lower, "sqlite://"):
		return sqlite.Open(d[len("sqlite://"):]), nil
	case d == ":memory:", strings.HasSuffix(lower, ".db"), strings.HasSuffix(lower, ".sqlite"):
		return sqlite.Open(d), nil
	default:
		return nil, fmt.Errorf("unsupported DSN %q (use postgres://..., sqlite://path, *.db or *.sqlite)", dsn)
	}
}

// Close releases the underlying connection pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Export replaces table with the contents of ds. Numeric columns become
// floating point columns, all others TEXT; missing cells are stored as NULL.
func Export(ctx context.Context, db *gorm.DB, table string, ds *dataset.Dataset) error {
	table = strings.TrimSpace(table)
	if table == "" {
		return fmt.Errorf("table name is required")
	}
	if ds.Width() == 0 {
		return fmt.Errorf("dataset %s has no columns to export", ds.Name())
	}
	cols := ds.Columns()
	numeric := map[string]bool{}
	for _, n := range ds.NumericColumns() {
		numeric[n] = true
	}
	realType := "REAL"
	if db.Dialector.Name() == "postgres" {
		realType = "DOUBLE PRECISION"
	}

	defs := make([]string, len(cols))
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = quoteIdent(c.Name)
		typ := "TEXT"
		if numeric[c.Name] {
			typ = realType
		}
		defs[i] = names[i] + " " + typ
	}
	per := batchRows
	if per*len(cols) > maxParams {
		per = maxParams / len(cols)
		if per < 1 {
			per = 1
		}
	}

	f := ds.Format()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DROP TABLE IF EXISTS " + quoteIdent(table)).Error; err != nil {
			return fmt.Errorf("drop table %s: %w", table, err)
		}
		create := fmt.Sprintf("CREATE TABLE %s (%s)", quoteIdent(table), strings.Join(defs, ", "))
		if err := tx.Exec(create).Error; err != nil {
			return fmt.Errorf("create table %s: %w", table, err)
		}
		placeholder := "(" + strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", ") + ")"
		head := fmt.Sprintf("INSERT INTO %s (%s) VALUES ", quoteIdent(table), strings.Join(names, ", "))
		for start := 0; start < ds.Rows(); start += per {
			end := start + per
			if end > ds.Rows() {
				end = ds.Rows()
			}
			tuples := make([]string, 0, end-start)
			args := make([]interface{}, 0, (end-start)*len(cols))
			for r := start; r < end; r++ {
				tuples = append(tuples, placeholder)
				for _, c := range cols {
					v, ok := c.Value(r)
					switch {
					case !ok:
						args = append(args, nil)
					case numeric[c.Name]:
						x, _ := f.ParseNumber(v)
						args = append(args, x)
					default:
						args = append(args, v)
					}
				}
			}
			if err := tx.Exec(head+strings.Join(tuples, ", "), args...).Error; err != nil {
				return fmt.Errorf("insert rows %d-%d: %w", start, end-1, err)
			}
		}
		slog.Debug("exported dataset", "table", table, "rows", ds.Rows(), "columns", len(cols))
		return nil
	})
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

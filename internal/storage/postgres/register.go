package postgres

import (
	"context"

	"remap/internal/storage"
)

func init() {
	storage.Register("postgres", func(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
		c := config{dsn: cfg.DSN, table: cfg.Table}
		for _, col := range cfg.Columns {
			c.columns = append(c.columns, column{name: col.Name, integer: col.Integer})
		}
		return open(ctx, c)
	})
}

package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"
)

// NewDatabaseConnection read only pool for the actor directory (candidates / organizations)
func NewDatabaseConnection(ctx context.Context, d Connection) (*pgxpool.Pool, error) {
	dbConfig, err := pgxpool.ParseConfig(d.ConnectStr)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	// directory lookups are short point reads
	dbConfig.MaxConns = 8
	dbConfig.ConnConfig.RuntimeParams["default_transaction_read_only"] = "on"

	var pool *pgxpool.Pool
	err = withRetry(ctx, "postgreSQL "+dbConfig.ConnConfig.Host, d.Retry, func(ctx context.Context) error {
		p, err := pgxpool.ConnectConfig(ctx, dbConfig)
		if err != nil {
			return err
		}
		if err := p.Ping(ctx); err != nil {
			p.Close()
			return err
		}
		pool = p
		return nil
	})
	return pool, err
}

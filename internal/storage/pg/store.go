package pg

import (
	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store is the single Postgres access point. Resource methods are spread
// across the files in this package.
type Store struct {
	db *pgxpool.Pool
	qb squirrel.StatementBuilderType
}

func NewStore(pool *ConnectionPool) *Store {
	return &Store{
		db: pool.conn,
		qb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

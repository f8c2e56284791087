package postgres

import (
	"github.com/brc420-network/brc420-indexer/internal/postgres"
	"github.com/brc420-network/brc420-indexer/modules/brc420/datagateway"
	"github.com/jackc/pgx/v5"
)

var _ datagateway.BRC420DataGateway = (*Repository)(nil)

type Repository struct {
	db postgres.DB
	tx pgx.Tx
}

func NewRepository(db postgres.DB) *Repository {
	return &Repository{
		db: db,
	}
}

// queryable returns the active transaction if one was begun, otherwise the
// underlying pool.
func (r *Repository) queryable() postgres.Queryable {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

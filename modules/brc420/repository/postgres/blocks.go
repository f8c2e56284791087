package postgres

import (
	"context"

	"github.com/brc420-network/brc420-indexer/common/errs"
	"github.com/brc420-network/brc420-indexer/modules/brc420/internal/entity"
	"github.com/cockroachdb/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

func (r *Repository) GetLatestProcessedHeight(ctx context.Context) (int64, error) {
	var blockHeight pgtype.Int8
	err := r.queryable().QueryRow(ctx, `SELECT MAX(block_height) FROM brc420_indexed_blocks`).Scan(&blockHeight)
	if err != nil {
		return 0, errors.Wrap(err, "failed to get latest processed height")
	}
	if !blockHeight.Valid {
		return 0, errors.WithStack(errs.NotFound)
	}
	return blockHeight.Int64, nil
}

// GetUnprocessedHeights lists every height in [fromHeight, toHeight] that has
// no progress marker yet. Heights skipped by an earlier crash reappear here, so
// recovery needs no separate bookkeeping.
func (r *Repository) GetUnprocessedHeights(ctx context.Context, fromHeight, toHeight int64) ([]int64, error) {
	rows, err := r.queryable().Query(ctx, `
		SELECT h.height FROM generate_series($1::bigint, $2::bigint) AS h(height)
		WHERE NOT EXISTS (
			SELECT 1 FROM brc420_indexed_blocks b WHERE b.block_height = h.height
		)
		ORDER BY h.height
	`, fromHeight, toHeight)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get unprocessed heights")
	}
	heights, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return nil, errors.Wrap(err, "failed to collect unprocessed heights")
	}
	return heights, nil
}

func (r *Repository) MarkHeightsProcessed(ctx context.Context, heights []int64) error {
	_, err := r.queryable().Exec(ctx, `
		INSERT INTO brc420_indexed_blocks (block_height)
		SELECT unnest($1::bigint[])
		ON CONFLICT (block_height) DO NOTHING
	`, heights)
	if err != nil {
		return errors.Wrap(err, "failed to mark heights processed")
	}
	return nil
}

func (r *Repository) AddBlockStats(ctx context.Context, stats entity.BlockStats) error {
	_, err := r.queryable().Exec(ctx, `
		INSERT INTO brc420_block_stats (block_height, block_hash, "timestamp", tx_count, inscriptions, deploys, mints, bitmaps, parcels, transfers)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (block_height) DO UPDATE SET
			block_hash = EXCLUDED.block_hash,
			"timestamp" = EXCLUDED."timestamp",
			tx_count = EXCLUDED.tx_count,
			inscriptions = EXCLUDED.inscriptions,
			deploys = EXCLUDED.deploys,
			mints = EXCLUDED.mints,
			bitmaps = EXCLUDED.bitmaps,
			parcels = EXCLUDED.parcels,
			transfers = EXCLUDED.transfers,
			processed_at = now()
	`,
		stats.BlockHeight,
		stats.BlockHash,
		pgtype.Timestamp{Time: stats.Timestamp.UTC(), Valid: true},
		stats.TxCount,
		stats.Inscriptions,
		stats.Deploys,
		stats.Mints,
		stats.Bitmaps,
		stats.Parcels,
		stats.Transfers,
	)
	if err != nil {
		return errors.Wrap(err, "failed to add block stats")
	}
	return nil
}

func (r *Repository) GetBlockStats(ctx context.Context, blockHeight int64) (*entity.BlockStats, error) {
	rows, err := r.queryable().Query(ctx, `
		SELECT block_height, block_hash, "timestamp", tx_count, inscriptions, deploys, mints, bitmaps, parcels, transfers, processed_at
		FROM brc420_block_stats
		WHERE block_height = $1
	`, blockHeight)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get block stats")
	}
	model, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[blockStatsModel])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errors.WithStack(errs.NotFound)
		}
		return nil, errors.Wrap(err, "failed to collect block stats")
	}
	stats := mapBlockStatsModelToType(model)
	return &stats, nil
}

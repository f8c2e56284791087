package postgres

import (
	"context"

	"github.com/brc420-network/brc420-indexer/common/errs"
	"github.com/brc420-network/brc420-indexer/modules/brc420/datagateway"
	"github.com/brc420-network/brc420-indexer/modules/brc420/internal/entity"
	"github.com/brc420-network/brc420-indexer/modules/brc420/internal/ordinals"
	"github.com/cockroachdb/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

func (r *Repository) CreateMint(ctx context.Context, mint entity.Mint) error {
	_, err := r.queryable().Exec(ctx, `
		INSERT INTO brc420_mints (id, deploy_id, block_height, inscription_index, "timestamp", current_wallet)
		VALUES ($1, $2, $3, $4, $5, $6)
	`,
		mint.Id.String(),
		mint.DeployId.String(),
		mint.BlockHeight,
		int32(mint.InscriptionIndex),
		pgtype.Timestamp{Time: mint.Timestamp.UTC(), Valid: true},
		mint.CurrentWallet,
	)
	if err != nil {
		return errors.Wrap(err, "failed to create mint")
	}
	return nil
}

func (r *Repository) GetMintById(ctx context.Context, id ordinals.InscriptionId) (*entity.Mint, error) {
	rows, err := r.queryable().Query(ctx, `
		SELECT id, deploy_id, block_height, inscription_index, "timestamp", current_wallet
		FROM brc420_mints
		WHERE id = $1
	`, id.String())
	if err != nil {
		return nil, errors.Wrap(err, "failed to get mint by id")
	}
	model, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[mintModel])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errors.WithStack(errs.NotFound)
		}
		return nil, errors.Wrap(err, "failed to collect mint")
	}
	mint, err := mapMintModelToType(model)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return &mint, nil
}

func (r *Repository) CountMintsByDeploy(ctx context.Context, deployId ordinals.InscriptionId) (uint64, error) {
	var count int64
	err := r.queryable().QueryRow(ctx, `SELECT COUNT(*) FROM brc420_mints WHERE deploy_id = $1`, deployId.String()).Scan(&count)
	if err != nil {
		return 0, errors.Wrap(err, "failed to count mints by deploy")
	}
	return uint64(count), nil
}

func (r *Repository) GetMintsByDeploy(ctx context.Context, params datagateway.GetMintsByDeployParams) ([]entity.Mint, error) {
	rows, err := r.queryable().Query(ctx, `
		SELECT id, deploy_id, block_height, inscription_index, "timestamp", current_wallet
		FROM brc420_mints
		WHERE deploy_id = $1
		ORDER BY block_height, inscription_index
		LIMIT $2 OFFSET $3
	`, params.DeployId.String(), params.Limit, params.Offset)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get mints by deploy")
	}
	models, err := pgx.CollectRows(rows, pgx.RowToStructByName[mintModel])
	if err != nil {
		return nil, errors.Wrap(err, "failed to collect mints")
	}
	mints := make([]entity.Mint, 0, len(models))
	for _, model := range models {
		mint, err := mapMintModelToType(model)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		mints = append(mints, mint)
	}
	return mints, nil
}

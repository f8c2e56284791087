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

func (r *Repository) CreateDeploy(ctx context.Context, deploy entity.Deploy) error {
	_, err := r.queryable().Exec(ctx, `
		INSERT INTO brc420_deploys (id, source_id, name, max_supply, price, block_height, inscription_index, "timestamp", deployer_address, current_wallet, mint_count)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`,
		deploy.Id.String(),
		deploy.SourceId.String(),
		deploy.Name,
		int64(deploy.Max),
		numericFromDecimal(deploy.Price),
		deploy.BlockHeight,
		int32(deploy.InscriptionIndex),
		pgtype.Timestamp{Time: deploy.Timestamp.UTC(), Valid: true},
		deploy.DeployerAddress,
		deploy.CurrentWallet,
		int64(deploy.MintCount),
	)
	if err != nil {
		return errors.Wrap(err, "failed to create deploy")
	}
	return nil
}

func (r *Repository) GetDeployById(ctx context.Context, id ordinals.InscriptionId) (*entity.Deploy, error) {
	rows, err := r.queryable().Query(ctx, `
		SELECT id, source_id, name, max_supply, price, block_height, inscription_index, "timestamp", deployer_address, current_wallet, mint_count
		FROM brc420_deploys
		WHERE id = $1
	`, id.String())
	if err != nil {
		return nil, errors.Wrap(err, "failed to get deploy by id")
	}
	model, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[deployModel])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errors.WithStack(errs.NotFound)
		}
		return nil, errors.Wrap(err, "failed to collect deploy")
	}
	deploy, err := mapDeployModelToType(model)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return &deploy, nil
}

func (r *Repository) GetDeployBySourceId(ctx context.Context, sourceId ordinals.InscriptionId) (*entity.Deploy, error) {
	rows, err := r.queryable().Query(ctx, `
		SELECT id, source_id, name, max_supply, price, block_height, inscription_index, "timestamp", deployer_address, current_wallet, mint_count
		FROM brc420_deploys
		WHERE source_id = $1
	`, sourceId.String())
	if err != nil {
		return nil, errors.Wrap(err, "failed to get deploy by source id")
	}
	model, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[deployModel])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errors.WithStack(errs.NotFound)
		}
		return nil, errors.Wrap(err, "failed to collect deploy")
	}
	deploy, err := mapDeployModelToType(model)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return &deploy, nil
}

func (r *Repository) GetDeploys(ctx context.Context, params datagateway.GetDeploysParams) ([]entity.Deploy, error) {
	rows, err := r.queryable().Query(ctx, `
		SELECT id, source_id, name, max_supply, price, block_height, inscription_index, "timestamp", deployer_address, current_wallet, mint_count
		FROM brc420_deploys
		WHERE ($1 = '' OR name ILIKE '%' || $1 || '%')
		ORDER BY block_height, inscription_index
		LIMIT $2 OFFSET $3
	`, params.Search, params.Limit, params.Offset)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get deploys")
	}
	models, err := pgx.CollectRows(rows, pgx.RowToStructByName[deployModel])
	if err != nil {
		return nil, errors.Wrap(err, "failed to collect deploys")
	}
	deploys := make([]entity.Deploy, 0, len(models))
	for _, model := range models {
		deploy, err := mapDeployModelToType(model)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		deploys = append(deploys, deploy)
	}
	return deploys, nil
}

// IncrementDeployMintCount bumps the mint counter only while it is still below
// the deploy's max supply. The WHERE clause makes the supply check atomic
// against concurrent minters. Returns false if the cap was already reached.
func (r *Repository) IncrementDeployMintCount(ctx context.Context, sourceId ordinals.InscriptionId, maxSupply uint64) (bool, error) {
	tag, err := r.queryable().Exec(ctx, `
		UPDATE brc420_deploys
		SET mint_count = mint_count + 1
		WHERE source_id = $1 AND mint_count < $2
	`, sourceId.String(), int64(maxSupply))
	if err != nil {
		return false, errors.Wrap(err, "failed to increment deploy mint count")
	}
	return tag.RowsAffected() > 0, nil
}

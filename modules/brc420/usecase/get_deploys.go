package usecase

import (
	"context"

	"github.com/brc420-network/brc420-indexer/modules/brc420/datagateway"
	"github.com/brc420-network/brc420-indexer/modules/brc420/internal/entity"
	"github.com/brc420-network/brc420-indexer/modules/brc420/internal/ordinals"
	"github.com/cockroachdb/errors"
)

func (u *Usecase) GetDeploys(ctx context.Context, search string, limit, offset int32) ([]entity.Deploy, error) {
	deploys, err := u.brc420Dg.GetDeploys(ctx, datagateway.GetDeploysParams{
		Search: search,
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to get deploys")
	}
	return deploys, nil
}

func (u *Usecase) GetDeployById(ctx context.Context, id ordinals.InscriptionId) (*entity.Deploy, error) {
	deploy, err := u.brc420Dg.GetDeployById(ctx, id)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get deploy by id")
	}
	return deploy, nil
}

func (u *Usecase) GetMintsByDeploy(ctx context.Context, deployId ordinals.InscriptionId, limit, offset int32) ([]entity.Mint, uint64, error) {
	mints, err := u.brc420Dg.GetMintsByDeploy(ctx, datagateway.GetMintsByDeployParams{
		DeployId: deployId,
		Limit:    limit,
		Offset:   offset,
	})
	if err != nil {
		return nil, 0, errors.Wrap(err, "failed to get mints by deploy")
	}
	total, err := u.brc420Dg.CountMintsByDeploy(ctx, deployId)
	if err != nil {
		return nil, 0, errors.Wrap(err, "failed to count mints by deploy")
	}
	return mints, total, nil
}

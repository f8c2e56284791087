package usecase

import (
	"context"

	"github.com/brc420-network/brc420-indexer/modules/brc420/internal/entity"
	"github.com/brc420-network/brc420-indexer/modules/brc420/internal/ordinals"
	"github.com/cockroachdb/errors"
)

// GetWalletHistory returns the current owner of a tracked inscription along
// with every recorded transfer, oldest first.
func (u *Usecase) GetWalletHistory(ctx context.Context, id ordinals.InscriptionId) (*entity.InscriptionOwner, []entity.Transfer, error) {
	owner, err := u.brc420Dg.GetInscriptionOwner(ctx, id)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to get inscription owner")
	}
	transfers, err := u.brc420Dg.GetTransfersByInscriptionId(ctx, id)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to get transfers by inscription id")
	}
	return owner, transfers, nil
}

func (u *Usecase) GetLatestProcessedHeight(ctx context.Context) (int64, error) {
	height, err := u.brc420Dg.GetLatestProcessedHeight(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "failed to get latest processed height")
	}
	return height, nil
}

func (u *Usecase) GetBlockStats(ctx context.Context, blockHeight int64) (*entity.BlockStats, error) {
	stats, err := u.brc420Dg.GetBlockStats(ctx, blockHeight)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get block stats")
	}
	return stats, nil
}

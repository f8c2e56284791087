package brc420

import (
	"context"
	"time"

	"github.com/brc420-network/brc420-indexer/common/errs"
	"github.com/brc420-network/brc420-indexer/modules/brc420/internal/entity"
	"github.com/brc420-network/brc420-indexer/modules/brc420/internal/ordinals"
	"github.com/brc420-network/brc420-indexer/pkg/logger"
	"github.com/brc420-network/brc420-indexer/pkg/logger/slogx"
	"github.com/cockroachdb/errors"
)

// processDeploy applies the deploy acceptance rule: first writer wins per
// source id, no replacement ever, regardless of block ordering.
func (p *Processor) processDeploy(ctx context.Context, claim DeployClaim, id ordinals.InscriptionId, blockHeight int64, index uint32, wallet string) (bool, error) {
	validated, err := ValidateDeployClaim(claim)
	if err != nil {
		logger.DebugContext(ctx, "Rejecting malformed deploy", slogx.Stringer("id", id), slogx.Error(err))
		return false, nil
	}
	if err := ValidateWallet(wallet, p.network); err != nil {
		logger.DebugContext(ctx, "Rejecting deploy with invalid wallet", slogx.Stringer("id", id), slogx.Error(err))
		return false, nil
	}
	sourceId, err := ordinals.NewInscriptionIdFromString(validated.SourceId)
	if err != nil {
		logger.DebugContext(ctx, "Rejecting deploy with invalid source id", slogx.Stringer("id", id), slogx.Error(err))
		return false, nil
	}

	p.deployLocks.Lock(validated.SourceId)
	defer p.deployLocks.Unlock(validated.SourceId)

	if _, err := p.brc420Dg.GetDeployBySourceId(ctx, sourceId); err == nil {
		logger.WarnContext(ctx, "Duplicate deploy attempt", slogx.Stringer("source_id", sourceId))
		return false, nil
	} else if !errors.Is(err, errs.NotFound) {
		return false, errors.Wrap(err, "failed to look up deploy")
	}

	deploy := entity.Deploy{
		Id:               id,
		SourceId:         sourceId,
		Name:             validated.Name,
		Max:              validated.Max,
		Price:            validated.Price,
		BlockHeight:      blockHeight,
		InscriptionIndex: index,
		Timestamp:        time.Now().UTC(),
		DeployerAddress:  wallet,
		CurrentWallet:    wallet,
		MintCount:        0,
	}

	tx, err := p.brc420Dg.BeginBRC420Tx(ctx)
	if err != nil {
		return false, errors.Wrap(err, "failed to begin transaction")
	}
	defer func() { _ = tx.Rollback(ctx) }()
	if err := tx.CreateDeploy(ctx, deploy); err != nil {
		return false, errors.Wrap(err, "failed to create deploy")
	}
	if err := tx.CreateInscriptionOwner(ctx, entity.InscriptionOwner{
		InscriptionId: id,
		Kind:          entity.OwnedKindDeploy,
		CurrentWallet: wallet,
	}); err != nil {
		return false, errors.Wrap(err, "failed to create inscription owner")
	}
	if err := tx.Commit(ctx); err != nil {
		return false, errors.Wrap(err, "failed to commit deploy")
	}

	logger.InfoContext(ctx, "Inserted deploy", slogx.Stringer("id", id), slogx.String("name", validated.Name))
	return true, nil
}

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
	"github.com/shopspring/decimal"
)

// processMint applies the mint acceptance rules in cheapest-first order:
// deploy existence, remaining supply, payment to the deployer, then
// content-type equality with the deploy source inscription.
func (p *Processor) processMint(ctx context.Context, claim MintClaim, id ordinals.InscriptionId, contentType string, blockHeight int64, index uint32, wallet string) (bool, error) {
	if err := ValidateMintClaim(claim); err != nil {
		logger.DebugContext(ctx, "Rejecting malformed mint", slogx.Stringer("id", id), slogx.Error(err))
		return false, nil
	}
	deploySourceId, err := ordinals.NewInscriptionIdFromString(claim.DeploySourceId)
	if err != nil {
		logger.DebugContext(ctx, "Rejecting mint with invalid deploy reference", slogx.Stringer("id", id), slogx.Error(err))
		return false, nil
	}

	p.deployLocks.Lock(claim.DeploySourceId)
	defer p.deployLocks.Unlock(claim.DeploySourceId)

	// replays of an already recorded mint are no-ops
	if _, err := p.brc420Dg.GetMintById(ctx, id); err == nil {
		return false, nil
	} else if !errors.Is(err, errs.NotFound) {
		return false, errors.Wrap(err, "failed to look up mint")
	}

	deploy, err := p.brc420Dg.GetDeployBySourceId(ctx, deploySourceId)
	if err != nil {
		if errors.Is(err, errs.NotFound) {
			logger.WarnContext(ctx, "Mint attempt for non-existent deploy", slogx.Stringer("deploy_source_id", deploySourceId))
			return false, nil
		}
		return false, errors.Wrap(err, "failed to look up deploy")
	}
	if deploy.MintCount >= deploy.Max {
		logger.WarnContext(ctx, "Mint attempt exceeds max supply", slogx.String("name", deploy.Name))
		return false, nil
	}
	if !p.verifyMintPayment(ctx, id, deploy) {
		logger.WarnContext(ctx, "Invalid payment for mint", slogx.Stringer("id", id))
		return false, nil
	}
	ok, err := p.verifyMintContentType(ctx, contentType, deploy.SourceId)
	if err != nil {
		return false, errors.Wrap(err, "failed to verify mint content type")
	}
	if !ok {
		logger.WarnContext(ctx, "Invalid content type for mint", slogx.Stringer("id", id))
		return false, nil
	}

	mint := entity.Mint{
		Id:               id,
		DeployId:         deploySourceId,
		BlockHeight:      blockHeight,
		InscriptionIndex: index,
		Timestamp:        time.Now().UTC(),
		CurrentWallet:    wallet,
	}

	tx, err := p.brc420Dg.BeginBRC420Tx(ctx)
	if err != nil {
		return false, errors.Wrap(err, "failed to begin transaction")
	}
	defer func() { _ = tx.Rollback(ctx) }()
	if err := tx.CreateMint(ctx, mint); err != nil {
		return false, errors.Wrap(err, "failed to create mint")
	}
	// the guarded increment re-checks the cap at the store level
	incremented, err := tx.IncrementDeployMintCount(ctx, deploySourceId, deploy.Max)
	if err != nil {
		return false, errors.Wrap(err, "failed to increment mint count")
	}
	if !incremented {
		logger.WarnContext(ctx, "Mint attempt exceeds max supply", slogx.String("name", deploy.Name))
		return false, nil
	}
	if err := tx.CreateInscriptionOwner(ctx, entity.InscriptionOwner{
		InscriptionId: id,
		Kind:          entity.OwnedKindMint,
		CurrentWallet: wallet,
	}); err != nil {
		return false, errors.Wrap(err, "failed to create inscription owner")
	}
	if err := tx.Commit(ctx); err != nil {
		return false, errors.Wrap(err, "failed to commit mint")
	}

	logger.InfoContext(ctx, "Inserted mint", slogx.Stringer("id", id), slogx.Stringer("deploy_source_id", deploySourceId))
	return true, nil
}

// verifyMintPayment sums the mint transaction's outputs addressed to the
// deployer and requires the total to reach the deploy price. Split payments
// across several outputs count; the rule deliberately does not exclude
// change-like outputs. Provider failures count as failed payment.
func (p *Processor) verifyMintPayment(ctx context.Context, id ordinals.InscriptionId, deploy *entity.Deploy) bool {
	tx, err := p.mempool.GetTransaction(ctx, id.TxHash.String())
	if err != nil {
		logger.ErrorContext(ctx, "Failed to fetch mint transaction for payment check", slogx.Stringer("id", id), slogx.Error(err))
		return false
	}
	var totalPaidSats int64
	for _, output := range tx.Outputs {
		if output.Address == deploy.DeployerAddress {
			totalPaidSats += output.Value
		}
	}
	totalPaid := decimal.New(totalPaidSats, -8)
	return totalPaid.GreaterThanOrEqual(deploy.Price)
}

// verifyMintContentType requires the mint inscription's content type to
// exactly match the deploy source inscription's.
func (p *Processor) verifyMintContentType(ctx context.Context, mintContentType string, sourceId ordinals.InscriptionId) (bool, error) {
	sourceContent, err := p.ord.GetInscriptionContent(ctx, sourceId.String())
	if err != nil {
		return false, errors.Wrap(err, "failed to fetch deploy source content")
	}
	return mintContentType == sourceContent.ContentType, nil
}

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

// handleTransfer records a wallet change for a tracked inscription. The first
// observation of an inscription records nothing; its ownership row is created
// by the protocol processor's insert. Returns whether a transfer was
// recorded.
func (p *Processor) handleTransfer(ctx context.Context, id ordinals.InscriptionId, newWallet string, blockHeight int64) (bool, error) {
	owner, err := p.brc420Dg.GetInscriptionOwner(ctx, id)
	if err != nil {
		if errors.Is(err, errs.NotFound) {
			return false, nil
		}
		return false, errors.Wrap(err, "failed to look up inscription owner")
	}
	if owner.CurrentWallet == newWallet {
		return false, nil
	}

	transfer := entity.Transfer{
		InscriptionId: id,
		FromWallet:    owner.CurrentWallet,
		ToWallet:      newWallet,
		BlockHeight:   blockHeight,
		Timestamp:     time.Now().UTC(),
	}

	tx, err := p.brc420Dg.BeginBRC420Tx(ctx)
	if err != nil {
		return false, errors.Wrap(err, "failed to begin transaction")
	}
	defer func() { _ = tx.Rollback(ctx) }()
	if err := tx.CreateTransfer(ctx, transfer); err != nil {
		return false, errors.Wrap(err, "failed to create transfer")
	}
	if err := tx.UpdateInscriptionOwner(ctx, id, newWallet); err != nil {
		return false, errors.Wrap(err, "failed to update inscription owner")
	}
	if err := tx.UpdateEntityWallet(ctx, owner.Kind, id, newWallet); err != nil {
		return false, errors.Wrap(err, "failed to update entity wallet")
	}
	if err := tx.Commit(ctx); err != nil {
		return false, errors.Wrap(err, "failed to commit transfer")
	}

	logger.InfoContext(ctx, "Processed transfer",
		slogx.Stringer("id", id),
		slogx.String("from_wallet", owner.CurrentWallet),
		slogx.String("to_wallet", newWallet),
	)
	return true, nil
}

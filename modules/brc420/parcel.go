package brc420

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/brc420-network/brc420-indexer/common/errs"
	"github.com/brc420-network/brc420-indexer/modules/brc420/internal/entity"
	"github.com/brc420-network/brc420-indexer/modules/brc420/internal/ordinals"
	"github.com/brc420-network/brc420-indexer/pkg/logger"
	"github.com/brc420-network/brc420-indexer/pkg/logger/slogx"
	"github.com/cockroachdb/errors"
)

// processParcel accepts a sub-claim of a plot inside an existing bitmap. The
// parcel must be a direct on-chain child of the bitmap inscription. Conflicts
// per (parcelNumber, bitmapNumber) slot resolve to the smallest (blockHeight,
// inscriptionId) tuple; losers and demoted previous winners are kept with
// IsValid false.
func (p *Processor) processParcel(ctx context.Context, claim ParcelClaim, id ordinals.InscriptionId, blockHeight int64, wallet string) (bool, error) {
	if err := ValidateParcelClaim(claim); err != nil {
		logger.DebugContext(ctx, "Rejecting malformed parcel", slogx.Stringer("id", id), slogx.Error(err))
		return false, nil
	}

	// the bitmap existence check comes before the provenance call so claims
	// on unclaimed plots never cost an external lookup
	bitmap, err := p.brc420Dg.GetValidBitmapByNumber(ctx, claim.BitmapNumber)
	if err != nil {
		if errors.Is(err, errs.NotFound) {
			logger.DebugContext(ctx, "Referenced bitmap not found for parcel",
				slogx.Int64("bitmap_number", claim.BitmapNumber),
				slogx.Stringer("id", id),
			)
			return false, nil
		}
		return false, errors.Wrap(err, "failed to look up bitmap")
	}

	if !p.verifyParcelProvenance(ctx, id, bitmap.Id) {
		logger.DebugContext(ctx, "Parcel is not a child of the bitmap inscription",
			slogx.Stringer("id", id),
			slogx.Stringer("bitmap_id", bitmap.Id),
		)
		return false, nil
	}

	// best-effort annotation; absence never blocks acceptance
	var txCount *int64
	if meta, err := p.getBlockMeta(ctx, blockHeight); err == nil {
		txCount = &meta.TxCount
	}

	parcel := entity.Parcel{
		Id:                  id,
		ParcelNumber:        claim.ParcelNumber,
		BitmapNumber:        claim.BitmapNumber,
		BitmapInscriptionId: bitmap.Id,
		Content:             claim.Content,
		Address:             wallet,
		BlockHeight:         blockHeight,
		Timestamp:           time.Now().UTC(),
		TransactionCount:    txCount,
		IsValid:             true,
		Wallet:              wallet,
	}

	lockKey := fmt.Sprintf("%d.%d", claim.ParcelNumber, claim.BitmapNumber)
	p.parcelLocks.Lock(lockKey)
	defer p.parcelLocks.Unlock(lockKey)

	// replays of an already recorded claim are no-ops
	if _, err := p.brc420Dg.GetParcelById(ctx, id); err == nil {
		return false, nil
	} else if !errors.Is(err, errs.NotFound) {
		return false, errors.Wrap(err, "failed to look up parcel")
	}

	existing, err := p.brc420Dg.GetValidParcel(ctx, claim.ParcelNumber, claim.BitmapNumber)
	if err != nil && !errors.Is(err, errs.NotFound) {
		return false, errors.Wrap(err, "failed to look up parcel")
	}

	if existing != nil {
		newWins := blockHeight < existing.BlockHeight ||
			(blockHeight == existing.BlockHeight && id.String() < existing.Id.String())
		if !newWins {
			logger.InfoContext(ctx, "Parcel lost tie-break to existing claimant",
				slogx.Stringer("id", id),
				slogx.Stringer("existing_id", existing.Id),
			)
			parcel.IsValid = false
			if err := p.insertParcel(ctx, parcel, nil); err != nil {
				return false, errors.WithStack(err)
			}
			return false, nil
		}

		logger.InfoContext(ctx, "Parcel demotes previous claimant",
			slogx.Stringer("id", id),
			slogx.Stringer("previous_id", existing.Id),
		)
		if err := p.insertParcel(ctx, parcel, &existing.Id); err != nil {
			return false, errors.WithStack(err)
		}
		return true, nil
	}

	if err := p.insertParcel(ctx, parcel, nil); err != nil {
		return false, errors.WithStack(err)
	}
	logger.InfoContext(ctx, "Inserted parcel",
		slogx.Stringer("id", id),
		slogx.Int64("parcel_number", claim.ParcelNumber),
		slogx.Int64("bitmap_number", claim.BitmapNumber),
	)
	return true, nil
}

// verifyParcelProvenance confirms the parcel is listed among the bitmap
// inscription's direct children. Provider failures count as failed
// provenance.
func (p *Processor) verifyParcelProvenance(ctx context.Context, id, bitmapId ordinals.InscriptionId) bool {
	children, err := p.ord.GetChildren(ctx, bitmapId.String())
	if err != nil {
		logger.ErrorContext(ctx, "Failed to fetch children for provenance check",
			slogx.Stringer("bitmap_id", bitmapId),
			slogx.Error(err),
		)
		return false
	}
	return slices.Contains(children, id.String())
}

// insertParcel writes the parcel and its ownership row, demoting
// demotePrevious first when set.
func (p *Processor) insertParcel(ctx context.Context, parcel entity.Parcel, demotePrevious *ordinals.InscriptionId) error {
	tx, err := p.brc420Dg.BeginBRC420Tx(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to begin transaction")
	}
	defer func() { _ = tx.Rollback(ctx) }()
	if demotePrevious != nil {
		if err := tx.InvalidateParcel(ctx, *demotePrevious); err != nil {
			return errors.Wrap(err, "failed to invalidate previous parcel")
		}
	}
	if err := tx.CreateParcel(ctx, parcel); err != nil {
		return errors.Wrap(err, "failed to create parcel")
	}
	if err := tx.CreateInscriptionOwner(ctx, entity.InscriptionOwner{
		InscriptionId: parcel.Id,
		Kind:          entity.OwnedKindParcel,
		CurrentWallet: parcel.Wallet,
	}); err != nil {
		return errors.Wrap(err, "failed to create inscription owner")
	}
	if err := tx.Commit(ctx); err != nil {
		return errors.Wrap(err, "failed to commit parcel")
	}
	return nil
}

package brc420

import (
	"context"
	"strconv"
	"time"

	"github.com/brc420-network/brc420-indexer/common/errs"
	"github.com/brc420-network/brc420-indexer/modules/brc420/internal/entity"
	"github.com/brc420-network/brc420-indexer/modules/brc420/internal/ordinals"
	"github.com/brc420-network/brc420-indexer/pkg/logger"
	"github.com/brc420-network/brc420-indexer/pkg/logger/slogx"
	"github.com/cockroachdb/errors"
)

// processBitmap applies first-valid-wins per plot number: the candidate with
// the smallest (blockHeight, inscriptionIndex) tuple holds the number. Blocks
// complete out of order across workers, so the comparison is re-evaluated on
// every insert attempt rather than assumed monotonic. Losing candidates are
// kept with IsValid false.
func (p *Processor) processBitmap(ctx context.Context, claim BitmapClaim, id ordinals.InscriptionId, blockHeight int64, index uint32, wallet string) (bool, error) {
	if err := ValidateBitmapClaim(claim); err != nil {
		logger.DebugContext(ctx, "Rejecting malformed bitmap", slogx.Stringer("id", id), slogx.Error(err))
		return false, nil
	}
	if claim.Number > blockHeight {
		logger.WarnContext(ctx, "Bitmap number is greater than its block height",
			slogx.Int64("bitmap_number", claim.Number),
		)
		return false, nil
	}

	lockKey := strconv.FormatInt(claim.Number, 10)
	p.bitmapLocks.Lock(lockKey)
	defer p.bitmapLocks.Unlock(lockKey)

	// replays of an already recorded claim are no-ops
	if _, err := p.brc420Dg.GetBitmapById(ctx, id); err == nil {
		return false, nil
	} else if !errors.Is(err, errs.NotFound) {
		return false, errors.Wrap(err, "failed to look up bitmap")
	}

	bitmap := entity.Bitmap{
		Id:               id,
		BitmapNumber:     claim.Number,
		Content:          claim.Content,
		BlockHeight:      blockHeight,
		InscriptionIndex: index,
		Timestamp:        time.Now().UTC(),
		CurrentWallet:    wallet,
		IsValid:          true,
	}

	existing, err := p.brc420Dg.GetValidBitmapByNumber(ctx, claim.Number)
	if err != nil && !errors.Is(err, errs.NotFound) {
		return false, errors.Wrap(err, "failed to look up bitmap")
	}

	if existing != nil {
		existingWins := existing.BlockHeight < blockHeight ||
			(existing.BlockHeight == blockHeight && existing.InscriptionIndex < index)
		if existingWins {
			logger.WarnContext(ctx, "Bitmap lost tie-break to existing claimant",
				slogx.Int64("bitmap_number", claim.Number),
				slogx.Stringer("existing_id", existing.Id),
			)
			bitmap.IsValid = false
			if err := p.insertBitmap(ctx, bitmap, wallet); err != nil {
				return false, errors.WithStack(err)
			}
			return false, nil
		}

		logger.InfoContext(ctx, "Bitmap demotes previous claimant",
			slogx.Int64("bitmap_number", claim.Number),
			slogx.Stringer("previous_id", existing.Id),
		)
		tx, err := p.brc420Dg.BeginBRC420Tx(ctx)
		if err != nil {
			return false, errors.Wrap(err, "failed to begin transaction")
		}
		defer func() { _ = tx.Rollback(ctx) }()
		if err := tx.InvalidateBitmap(ctx, existing.Id); err != nil {
			return false, errors.Wrap(err, "failed to invalidate previous bitmap")
		}
		if err := tx.CreateBitmap(ctx, bitmap); err != nil {
			return false, errors.Wrap(err, "failed to create bitmap")
		}
		if err := tx.CreateInscriptionOwner(ctx, entity.InscriptionOwner{
			InscriptionId: id,
			Kind:          entity.OwnedKindBitmap,
			CurrentWallet: wallet,
		}); err != nil {
			return false, errors.Wrap(err, "failed to create inscription owner")
		}
		if err := tx.Commit(ctx); err != nil {
			return false, errors.Wrap(err, "failed to commit bitmap")
		}
		return true, nil
	}

	if err := p.insertBitmap(ctx, bitmap, wallet); err != nil {
		return false, errors.WithStack(err)
	}
	logger.InfoContext(ctx, "Inserted bitmap", slogx.Stringer("id", id), slogx.Int64("bitmap_number", claim.Number))
	return true, nil
}

func (p *Processor) insertBitmap(ctx context.Context, bitmap entity.Bitmap, wallet string) error {
	tx, err := p.brc420Dg.BeginBRC420Tx(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to begin transaction")
	}
	defer func() { _ = tx.Rollback(ctx) }()
	if err := tx.CreateBitmap(ctx, bitmap); err != nil {
		return errors.Wrap(err, "failed to create bitmap")
	}
	if err := tx.CreateInscriptionOwner(ctx, entity.InscriptionOwner{
		InscriptionId: bitmap.Id,
		Kind:          entity.OwnedKindBitmap,
		CurrentWallet: wallet,
	}); err != nil {
		return errors.Wrap(err, "failed to create inscription owner")
	}
	if err := tx.Commit(ctx); err != nil {
		return errors.Wrap(err, "failed to commit bitmap")
	}
	return nil
}

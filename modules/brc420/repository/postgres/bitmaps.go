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

func (r *Repository) CreateBitmap(ctx context.Context, bitmap entity.Bitmap) error {
	_, err := r.queryable().Exec(ctx, `
		INSERT INTO brc420_bitmaps (id, bitmap_number, content, block_height, inscription_index, "timestamp", current_wallet, is_valid)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`,
		bitmap.Id.String(),
		bitmap.BitmapNumber,
		bitmap.Content,
		bitmap.BlockHeight,
		int32(bitmap.InscriptionIndex),
		pgtype.Timestamp{Time: bitmap.Timestamp.UTC(), Valid: true},
		bitmap.CurrentWallet,
		bitmap.IsValid,
	)
	if err != nil {
		return errors.Wrap(err, "failed to create bitmap")
	}
	return nil
}

// InvalidateBitmap demotes a previous number winner instead of deleting it.
func (r *Repository) InvalidateBitmap(ctx context.Context, id ordinals.InscriptionId) error {
	_, err := r.queryable().Exec(ctx, `UPDATE brc420_bitmaps SET is_valid = false WHERE id = $1`, id.String())
	if err != nil {
		return errors.Wrap(err, "failed to invalidate bitmap")
	}
	return nil
}

func (r *Repository) GetValidBitmapByNumber(ctx context.Context, number int64) (*entity.Bitmap, error) {
	rows, err := r.queryable().Query(ctx, `
		SELECT id, bitmap_number, content, block_height, inscription_index, "timestamp", current_wallet, is_valid
		FROM brc420_bitmaps
		WHERE bitmap_number = $1 AND is_valid
	`, number)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get valid bitmap by number")
	}
	model, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[bitmapModel])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errors.WithStack(errs.NotFound)
		}
		return nil, errors.Wrap(err, "failed to collect bitmap")
	}
	bitmap, err := mapBitmapModelToType(model)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return &bitmap, nil
}

func (r *Repository) GetBitmapById(ctx context.Context, id ordinals.InscriptionId) (*entity.Bitmap, error) {
	rows, err := r.queryable().Query(ctx, `
		SELECT id, bitmap_number, content, block_height, inscription_index, "timestamp", current_wallet, is_valid
		FROM brc420_bitmaps
		WHERE id = $1
	`, id.String())
	if err != nil {
		return nil, errors.Wrap(err, "failed to get bitmap by id")
	}
	model, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[bitmapModel])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errors.WithStack(errs.NotFound)
		}
		return nil, errors.Wrap(err, "failed to collect bitmap")
	}
	bitmap, err := mapBitmapModelToType(model)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return &bitmap, nil
}

func (r *Repository) GetBitmaps(ctx context.Context, params datagateway.GetBitmapsParams) ([]entity.Bitmap, error) {
	rows, err := r.queryable().Query(ctx, `
		SELECT id, bitmap_number, content, block_height, inscription_index, "timestamp", current_wallet, is_valid
		FROM brc420_bitmaps
		WHERE is_valid AND ($1 = '' OR bitmap_number::text LIKE $1 || '%')
		ORDER BY bitmap_number
		LIMIT $2 OFFSET $3
	`, params.Search, params.Limit, params.Offset)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get bitmaps")
	}
	models, err := pgx.CollectRows(rows, pgx.RowToStructByName[bitmapModel])
	if err != nil {
		return nil, errors.Wrap(err, "failed to collect bitmaps")
	}
	bitmaps := make([]entity.Bitmap, 0, len(models))
	for _, model := range models {
		bitmap, err := mapBitmapModelToType(model)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		bitmaps = append(bitmaps, bitmap)
	}
	return bitmaps, nil
}

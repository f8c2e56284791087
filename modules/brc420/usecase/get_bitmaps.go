package usecase

import (
	"context"

	"github.com/brc420-network/brc420-indexer/modules/brc420/datagateway"
	"github.com/brc420-network/brc420-indexer/modules/brc420/internal/entity"
	"github.com/cockroachdb/errors"
)

func (u *Usecase) GetBitmaps(ctx context.Context, search string, limit, offset int32) ([]entity.Bitmap, error) {
	bitmaps, err := u.brc420Dg.GetBitmaps(ctx, datagateway.GetBitmapsParams{
		Search: search,
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to get bitmaps")
	}
	return bitmaps, nil
}

func (u *Usecase) GetValidBitmapByNumber(ctx context.Context, number int64) (*entity.Bitmap, error) {
	bitmap, err := u.brc420Dg.GetValidBitmapByNumber(ctx, number)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get bitmap by number")
	}
	return bitmap, nil
}

func (u *Usecase) GetParcelsByBitmapNumber(ctx context.Context, bitmapNumber int64, limit, offset int32) ([]entity.Parcel, error) {
	parcels, err := u.brc420Dg.GetParcelsByBitmapNumber(ctx, datagateway.GetParcelsByBitmapNumberParams{
		BitmapNumber: bitmapNumber,
		Limit:        limit,
		Offset:       offset,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to get parcels by bitmap number")
	}
	return parcels, nil
}

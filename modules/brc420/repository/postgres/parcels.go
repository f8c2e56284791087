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

func (r *Repository) CreateParcel(ctx context.Context, parcel entity.Parcel) error {
	txCount := pgtype.Int8{}
	if parcel.TransactionCount != nil {
		txCount = pgtype.Int8{Int64: *parcel.TransactionCount, Valid: true}
	}
	_, err := r.queryable().Exec(ctx, `
		INSERT INTO brc420_parcels (id, parcel_number, bitmap_number, bitmap_inscription_id, content, address, block_height, "timestamp", transaction_count, is_valid, wallet)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`,
		parcel.Id.String(),
		parcel.ParcelNumber,
		parcel.BitmapNumber,
		parcel.BitmapInscriptionId.String(),
		parcel.Content,
		parcel.Address,
		parcel.BlockHeight,
		pgtype.Timestamp{Time: parcel.Timestamp.UTC(), Valid: true},
		txCount,
		parcel.IsValid,
		parcel.Wallet,
	)
	if err != nil {
		return errors.Wrap(err, "failed to create parcel")
	}
	return nil
}

func (r *Repository) GetParcelById(ctx context.Context, id ordinals.InscriptionId) (*entity.Parcel, error) {
	rows, err := r.queryable().Query(ctx, `
		SELECT id, parcel_number, bitmap_number, bitmap_inscription_id, content, address, block_height, "timestamp", transaction_count, is_valid, wallet
		FROM brc420_parcels
		WHERE id = $1
	`, id.String())
	if err != nil {
		return nil, errors.Wrap(err, "failed to get parcel by id")
	}
	model, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[parcelModel])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errors.WithStack(errs.NotFound)
		}
		return nil, errors.Wrap(err, "failed to collect parcel")
	}
	parcel, err := mapParcelModelToType(model)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return &parcel, nil
}

func (r *Repository) GetValidParcel(ctx context.Context, parcelNumber, bitmapNumber int64) (*entity.Parcel, error) {
	rows, err := r.queryable().Query(ctx, `
		SELECT id, parcel_number, bitmap_number, bitmap_inscription_id, content, address, block_height, "timestamp", transaction_count, is_valid, wallet
		FROM brc420_parcels
		WHERE parcel_number = $1 AND bitmap_number = $2 AND is_valid
	`, parcelNumber, bitmapNumber)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get valid parcel")
	}
	model, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[parcelModel])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errors.WithStack(errs.NotFound)
		}
		return nil, errors.Wrap(err, "failed to collect parcel")
	}
	parcel, err := mapParcelModelToType(model)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return &parcel, nil
}

// InvalidateParcel demotes a previous slot winner instead of deleting it, so
// reinscription history stays queryable.
func (r *Repository) InvalidateParcel(ctx context.Context, id ordinals.InscriptionId) error {
	_, err := r.queryable().Exec(ctx, `UPDATE brc420_parcels SET is_valid = false WHERE id = $1`, id.String())
	if err != nil {
		return errors.Wrap(err, "failed to invalidate parcel")
	}
	return nil
}

func (r *Repository) GetParcelsByBitmapNumber(ctx context.Context, params datagateway.GetParcelsByBitmapNumberParams) ([]entity.Parcel, error) {
	rows, err := r.queryable().Query(ctx, `
		SELECT id, parcel_number, bitmap_number, bitmap_inscription_id, content, address, block_height, "timestamp", transaction_count, is_valid, wallet
		FROM brc420_parcels
		WHERE bitmap_number = $1 AND is_valid
		ORDER BY parcel_number
		LIMIT $2 OFFSET $3
	`, params.BitmapNumber, params.Limit, params.Offset)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get parcels by bitmap number")
	}
	models, err := pgx.CollectRows(rows, pgx.RowToStructByName[parcelModel])
	if err != nil {
		return nil, errors.Wrap(err, "failed to collect parcels")
	}
	parcels := make([]entity.Parcel, 0, len(models))
	for _, model := range models {
		parcel, err := mapParcelModelToType(model)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		parcels = append(parcels, parcel)
	}
	return parcels, nil
}

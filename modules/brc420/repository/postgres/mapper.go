package postgres

import (
	"github.com/brc420-network/brc420-indexer/modules/brc420/internal/entity"
	"github.com/brc420-network/brc420-indexer/modules/brc420/internal/ordinals"
	"github.com/cockroachdb/errors"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

func decimalFromNumeric(src pgtype.Numeric) (decimal.Decimal, error) {
	if !src.Valid {
		return decimal.Zero, nil
	}
	if src.NaN || src.InfinityModifier != pgtype.Finite {
		return decimal.Decimal{}, errors.New("numeric is not a finite number")
	}
	return decimal.NewFromBigInt(src.Int, src.Exp), nil
}

func numericFromDecimal(src decimal.Decimal) pgtype.Numeric {
	return pgtype.Numeric{
		Int:   src.Coefficient(),
		Exp:   src.Exponent(),
		Valid: true,
	}
}

func mapDeployModelToType(src deployModel) (entity.Deploy, error) {
	id, err := ordinals.NewInscriptionIdFromString(src.Id)
	if err != nil {
		return entity.Deploy{}, errors.Wrap(err, "failed to parse deploy inscription id")
	}
	sourceId, err := ordinals.NewInscriptionIdFromString(src.SourceId)
	if err != nil {
		return entity.Deploy{}, errors.Wrap(err, "failed to parse deploy source id")
	}
	price, err := decimalFromNumeric(src.Price)
	if err != nil {
		return entity.Deploy{}, errors.Wrap(err, "failed to parse deploy price")
	}
	return entity.Deploy{
		Id:               id,
		SourceId:         sourceId,
		Name:             src.Name,
		Max:              uint64(src.MaxSupply),
		Price:            price,
		BlockHeight:      src.BlockHeight,
		InscriptionIndex: uint32(src.InscriptionIndex),
		Timestamp:        src.Timestamp.Time.UTC(),
		DeployerAddress:  src.DeployerAddress,
		CurrentWallet:    src.CurrentWallet,
		MintCount:        uint64(src.MintCount),
	}, nil
}

func mapMintModelToType(src mintModel) (entity.Mint, error) {
	id, err := ordinals.NewInscriptionIdFromString(src.Id)
	if err != nil {
		return entity.Mint{}, errors.Wrap(err, "failed to parse mint inscription id")
	}
	deployId, err := ordinals.NewInscriptionIdFromString(src.DeployId)
	if err != nil {
		return entity.Mint{}, errors.Wrap(err, "failed to parse mint deploy id")
	}
	return entity.Mint{
		Id:               id,
		DeployId:         deployId,
		BlockHeight:      src.BlockHeight,
		InscriptionIndex: uint32(src.InscriptionIndex),
		Timestamp:        src.Timestamp.Time.UTC(),
		CurrentWallet:    src.CurrentWallet,
	}, nil
}

func mapBitmapModelToType(src bitmapModel) (entity.Bitmap, error) {
	id, err := ordinals.NewInscriptionIdFromString(src.Id)
	if err != nil {
		return entity.Bitmap{}, errors.Wrap(err, "failed to parse bitmap inscription id")
	}
	return entity.Bitmap{
		Id:               id,
		BitmapNumber:     src.BitmapNumber,
		Content:          src.Content,
		BlockHeight:      src.BlockHeight,
		InscriptionIndex: uint32(src.InscriptionIndex),
		Timestamp:        src.Timestamp.Time.UTC(),
		CurrentWallet:    src.CurrentWallet,
		IsValid:          src.IsValid,
	}, nil
}

func mapParcelModelToType(src parcelModel) (entity.Parcel, error) {
	id, err := ordinals.NewInscriptionIdFromString(src.Id)
	if err != nil {
		return entity.Parcel{}, errors.Wrap(err, "failed to parse parcel inscription id")
	}
	bitmapId, err := ordinals.NewInscriptionIdFromString(src.BitmapInscriptionId)
	if err != nil {
		return entity.Parcel{}, errors.Wrap(err, "failed to parse parcel bitmap inscription id")
	}
	var txCount *int64
	if src.TransactionCount.Valid {
		value := src.TransactionCount.Int64
		txCount = &value
	}
	return entity.Parcel{
		Id:                  id,
		ParcelNumber:        src.ParcelNumber,
		BitmapNumber:        src.BitmapNumber,
		BitmapInscriptionId: bitmapId,
		Content:             src.Content,
		Address:             src.Address,
		BlockHeight:         src.BlockHeight,
		Timestamp:           src.Timestamp.Time.UTC(),
		TransactionCount:    txCount,
		IsValid:             src.IsValid,
		Wallet:              src.Wallet,
	}, nil
}

func mapInscriptionOwnerModelToType(src inscriptionOwnerModel) (entity.InscriptionOwner, error) {
	id, err := ordinals.NewInscriptionIdFromString(src.InscriptionId)
	if err != nil {
		return entity.InscriptionOwner{}, errors.Wrap(err, "failed to parse owner inscription id")
	}
	return entity.InscriptionOwner{
		InscriptionId: id,
		Kind:          entity.OwnedKind(src.Kind),
		CurrentWallet: src.CurrentWallet,
	}, nil
}

func mapTransferModelToType(src transferModel) (entity.Transfer, error) {
	id, err := ordinals.NewInscriptionIdFromString(src.InscriptionId)
	if err != nil {
		return entity.Transfer{}, errors.Wrap(err, "failed to parse transfer inscription id")
	}
	return entity.Transfer{
		InscriptionId: id,
		FromWallet:    src.FromWallet,
		ToWallet:      src.ToWallet,
		BlockHeight:   src.BlockHeight,
		Timestamp:     src.Timestamp.Time.UTC(),
	}, nil
}

func mapBlockStatsModelToType(src blockStatsModel) entity.BlockStats {
	return entity.BlockStats{
		BlockHeight:  src.BlockHeight,
		BlockHash:    src.BlockHash,
		Timestamp:    src.Timestamp.Time.UTC(),
		TxCount:      src.TxCount,
		Inscriptions: src.Inscriptions,
		Deploys:      src.Deploys,
		Mints:        src.Mints,
		Bitmaps:      src.Bitmaps,
		Parcels:      src.Parcels,
		Transfers:    src.Transfers,
		ProcessedAt:  src.ProcessedAt.Time.UTC(),
	}
}

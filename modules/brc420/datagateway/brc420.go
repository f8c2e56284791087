package datagateway

import (
	"context"

	"github.com/brc420-network/brc420-indexer/modules/brc420/internal/entity"
	"github.com/brc420-network/brc420-indexer/modules/brc420/internal/ordinals"
)

type BRC420DataGateway interface {
	BeginBRC420Tx(ctx context.Context) (BRC420DataGatewayWithTx, error)

	// Progress tracking.
	GetLatestProcessedHeight(ctx context.Context) (int64, error)
	GetUnprocessedHeights(ctx context.Context, fromHeight, toHeight int64) ([]int64, error)
	MarkHeightsProcessed(ctx context.Context, heights []int64) error
	AddBlockStats(ctx context.Context, stats entity.BlockStats) error
	GetBlockStats(ctx context.Context, blockHeight int64) (*entity.BlockStats, error)

	// Deploys.
	CreateDeploy(ctx context.Context, deploy entity.Deploy) error
	GetDeployById(ctx context.Context, id ordinals.InscriptionId) (*entity.Deploy, error)
	GetDeployBySourceId(ctx context.Context, sourceId ordinals.InscriptionId) (*entity.Deploy, error)
	GetDeploys(ctx context.Context, params GetDeploysParams) ([]entity.Deploy, error)
	IncrementDeployMintCount(ctx context.Context, sourceId ordinals.InscriptionId, maxSupply uint64) (bool, error)

	// Mints.
	CreateMint(ctx context.Context, mint entity.Mint) error
	GetMintById(ctx context.Context, id ordinals.InscriptionId) (*entity.Mint, error)
	CountMintsByDeploy(ctx context.Context, deployId ordinals.InscriptionId) (uint64, error)
	GetMintsByDeploy(ctx context.Context, params GetMintsByDeployParams) ([]entity.Mint, error)

	// Bitmaps.
	CreateBitmap(ctx context.Context, bitmap entity.Bitmap) error
	InvalidateBitmap(ctx context.Context, id ordinals.InscriptionId) error
	GetValidBitmapByNumber(ctx context.Context, number int64) (*entity.Bitmap, error)
	GetBitmapById(ctx context.Context, id ordinals.InscriptionId) (*entity.Bitmap, error)
	GetBitmaps(ctx context.Context, params GetBitmapsParams) ([]entity.Bitmap, error)

	// Parcels.
	CreateParcel(ctx context.Context, parcel entity.Parcel) error
	GetParcelById(ctx context.Context, id ordinals.InscriptionId) (*entity.Parcel, error)
	GetValidParcel(ctx context.Context, parcelNumber, bitmapNumber int64) (*entity.Parcel, error)
	InvalidateParcel(ctx context.Context, id ordinals.InscriptionId) error
	GetParcelsByBitmapNumber(ctx context.Context, params GetParcelsByBitmapNumberParams) ([]entity.Parcel, error)

	// Ownership.
	CreateInscriptionOwner(ctx context.Context, owner entity.InscriptionOwner) error
	GetInscriptionOwner(ctx context.Context, id ordinals.InscriptionId) (*entity.InscriptionOwner, error)
	UpdateInscriptionOwner(ctx context.Context, id ordinals.InscriptionId, wallet string) error
	// UpdateEntityWallet updates the wallet column of the protocol table the
	// inscription lives in, so entity rows track the ownership index.
	UpdateEntityWallet(ctx context.Context, kind entity.OwnedKind, id ordinals.InscriptionId, wallet string) error
	CreateTransfer(ctx context.Context, transfer entity.Transfer) error
	GetTransfersByInscriptionId(ctx context.Context, id ordinals.InscriptionId) ([]entity.Transfer, error)
}

type BRC420DataGatewayWithTx interface {
	BRC420DataGateway
	Tx
}

type GetDeploysParams struct {
	// Search filters by case-insensitive name substring when non-empty.
	Search string
	Limit  int32
	Offset int32
}

type GetMintsByDeployParams struct {
	DeployId ordinals.InscriptionId
	Limit    int32
	Offset   int32
}

type GetBitmapsParams struct {
	// Search filters by bitmap number prefix when non-empty.
	Search string
	Limit  int32
	Offset int32
}

type GetParcelsByBitmapNumberParams struct {
	BitmapNumber int64
	Limit        int32
	Offset       int32
}

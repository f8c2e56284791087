package postgres

import (
	"github.com/jackc/pgx/v5/pgtype"
)

type deployModel struct {
	Id               string           `db:"id"`
	SourceId         string           `db:"source_id"`
	Name             string           `db:"name"`
	MaxSupply        int64            `db:"max_supply"`
	Price            pgtype.Numeric   `db:"price"`
	BlockHeight      int64            `db:"block_height"`
	InscriptionIndex int32            `db:"inscription_index"`
	Timestamp        pgtype.Timestamp `db:"timestamp"`
	DeployerAddress  string           `db:"deployer_address"`
	CurrentWallet    string           `db:"current_wallet"`
	MintCount        int64            `db:"mint_count"`
}

type mintModel struct {
	Id               string           `db:"id"`
	DeployId         string           `db:"deploy_id"`
	BlockHeight      int64            `db:"block_height"`
	InscriptionIndex int32            `db:"inscription_index"`
	Timestamp        pgtype.Timestamp `db:"timestamp"`
	CurrentWallet    string           `db:"current_wallet"`
}

type bitmapModel struct {
	Id               string           `db:"id"`
	BitmapNumber     int64            `db:"bitmap_number"`
	Content          string           `db:"content"`
	BlockHeight      int64            `db:"block_height"`
	InscriptionIndex int32            `db:"inscription_index"`
	Timestamp        pgtype.Timestamp `db:"timestamp"`
	CurrentWallet    string           `db:"current_wallet"`
	IsValid          bool             `db:"is_valid"`
}

type parcelModel struct {
	Id                  string           `db:"id"`
	ParcelNumber        int64            `db:"parcel_number"`
	BitmapNumber        int64            `db:"bitmap_number"`
	BitmapInscriptionId string           `db:"bitmap_inscription_id"`
	Content             string           `db:"content"`
	Address             string           `db:"address"`
	BlockHeight         int64            `db:"block_height"`
	Timestamp           pgtype.Timestamp `db:"timestamp"`
	TransactionCount    pgtype.Int8      `db:"transaction_count"`
	IsValid             bool             `db:"is_valid"`
	Wallet              string           `db:"wallet"`
}

type inscriptionOwnerModel struct {
	InscriptionId string `db:"inscription_id"`
	Kind          string `db:"kind"`
	CurrentWallet string `db:"current_wallet"`
}

type transferModel struct {
	InscriptionId string           `db:"inscription_id"`
	FromWallet    string           `db:"from_wallet"`
	ToWallet      string           `db:"to_wallet"`
	BlockHeight   int64            `db:"block_height"`
	Timestamp     pgtype.Timestamp `db:"timestamp"`
}

type blockStatsModel struct {
	BlockHeight  int64            `db:"block_height"`
	BlockHash    string           `db:"block_hash"`
	Timestamp    pgtype.Timestamp `db:"timestamp"`
	TxCount      int64            `db:"tx_count"`
	Inscriptions int64            `db:"inscriptions"`
	Deploys      int64            `db:"deploys"`
	Mints        int64            `db:"mints"`
	Bitmaps      int64            `db:"bitmaps"`
	Parcels      int64            `db:"parcels"`
	Transfers    int64            `db:"transfers"`
	ProcessedAt  pgtype.Timestamp `db:"processed_at"`
}

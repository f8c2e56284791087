package entity

import (
	"time"

	"github.com/brc420-network/brc420-indexer/modules/brc420/internal/ordinals"
	"github.com/shopspring/decimal"
)

// Deploy is an accepted brc-420 deploy. SourceId is unique across all
// deploys: the first accepted deploy for a source inscription wins and is
// never replaced. MintCount is the only mutable field.
type Deploy struct {
	Id               ordinals.InscriptionId
	SourceId         ordinals.InscriptionId
	Name             string
	Max              uint64
	Price            decimal.Decimal
	BlockHeight      int64
	InscriptionIndex uint32
	Timestamp        time.Time
	DeployerAddress  string
	CurrentWallet    string
	MintCount        uint64
}

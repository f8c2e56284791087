package entity

import (
	"time"

	"github.com/brc420-network/brc420-indexer/modules/brc420/internal/ordinals"
)

// Mint is an accepted mint against a deploy. Immutable once created, except
// for the current wallet which follows ownership transfers.
type Mint struct {
	Id               ordinals.InscriptionId
	DeployId         ordinals.InscriptionId
	BlockHeight      int64
	InscriptionIndex uint32
	Timestamp        time.Time
	CurrentWallet    string
}

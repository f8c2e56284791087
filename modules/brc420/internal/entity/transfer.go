package entity

import (
	"time"

	"github.com/brc420-network/brc420-indexer/modules/brc420/internal/ordinals"
)

// Transfer records a single change of wallet for a tracked inscription.
type Transfer struct {
	InscriptionId ordinals.InscriptionId
	FromWallet    string
	ToWallet      string
	BlockHeight   int64
	Timestamp     time.Time
}

package entity

import (
	"time"

	"github.com/brc420-network/brc420-indexer/modules/brc420/internal/ordinals"
)

// Parcel is a sub-claim of a plot within an existing bitmap. Validity is
// per (ParcelNumber, BitmapNumber) slot: the winner has the smallest
// (BlockHeight, InscriptionId string) tuple among provenance-checked
// candidates. A later reinscription of the same slot demotes the previous
// winner rather than deleting it.
type Parcel struct {
	Id                  ordinals.InscriptionId
	ParcelNumber        int64
	BitmapNumber        int64
	BitmapInscriptionId ordinals.InscriptionId
	Content             string
	Address             string
	BlockHeight         int64
	Timestamp           time.Time
	TransactionCount    *int64
	IsValid             bool
	Wallet              string
}

package entity

import (
	"time"

	"github.com/brc420-network/brc420-indexer/modules/brc420/internal/ordinals"
)

// Bitmap is a claim over an integer plot number. At most one bitmap per
// number has IsValid set: the candidate with the smallest
// (BlockHeight, InscriptionIndex) tuple. Losing candidates are kept with
// IsValid false for audit.
type Bitmap struct {
	Id               ordinals.InscriptionId
	BitmapNumber     int64
	Content          string
	BlockHeight      int64
	InscriptionIndex uint32
	Timestamp        time.Time
	CurrentWallet    string
	IsValid          bool
}

package entity

import "github.com/brc420-network/brc420-indexer/modules/brc420/internal/ordinals"

type OwnedKind string

const (
	OwnedKindDeploy OwnedKind = "deploy"
	OwnedKindMint   OwnedKind = "mint"
	OwnedKindBitmap OwnedKind = "bitmap"
	OwnedKindParcel OwnedKind = "parcel"
)

// InscriptionOwner is the single ownership index row for every inscription
// the module tracks, regardless of which protocol table it lives in.
type InscriptionOwner struct {
	InscriptionId ordinals.InscriptionId
	Kind          OwnedKind
	CurrentWallet string
}

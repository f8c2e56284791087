package usecase

import (
	"github.com/brc420-network/brc420-indexer/modules/brc420/datagateway"
)

type Usecase struct {
	brc420Dg datagateway.BRC420DataGateway
}

func New(brc420Dg datagateway.BRC420DataGateway) *Usecase {
	return &Usecase{
		brc420Dg: brc420Dg,
	}
}

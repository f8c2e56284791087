package httphandler

import (
	"time"

	"github.com/brc420-network/brc420-indexer/common/errs"
	"github.com/brc420-network/brc420-indexer/modules/brc420/internal/entity"
	"github.com/brc420-network/brc420-indexer/modules/brc420/internal/ordinals"
	"github.com/cockroachdb/errors"
	"github.com/gofiber/fiber/v2"
	"github.com/samber/lo"
)

type getWalletHistoryRequest struct {
	InscriptionId string `params:"inscriptionId"`
}

type transferResponse struct {
	FromWallet  string    `json:"fromWallet"`
	ToWallet    string    `json:"toWallet"`
	BlockHeight int64     `json:"blockHeight"`
	Timestamp   time.Time `json:"timestamp"`
}

type getWalletHistoryResult struct {
	InscriptionId ordinals.InscriptionId `json:"inscriptionId"`
	Kind          entity.OwnedKind       `json:"kind"`
	CurrentWallet string                 `json:"currentWallet"`
	Transfers     []transferResponse     `json:"transfers"`
}

type getWalletHistoryResponse = HttpResponse[getWalletHistoryResult]

func (h *HttpHandler) GetWalletHistory(ctx *fiber.Ctx) error {
	var req getWalletHistoryRequest
	if err := ctx.ParamsParser(&req); err != nil {
		return errors.WithStack(err)
	}
	inscriptionId, err := ordinals.NewInscriptionIdFromString(req.InscriptionId)
	if err != nil {
		return errs.NewPublicError("invalid inscription id")
	}

	owner, transfers, err := h.usecase.GetWalletHistory(ctx.UserContext(), inscriptionId)
	if err != nil {
		if errors.Is(err, errs.NotFound) {
			return errs.NewPublicError("inscription not found")
		}
		return errors.Wrap(err, "error during GetWalletHistory")
	}

	resp := getWalletHistoryResponse{
		Result: &getWalletHistoryResult{
			InscriptionId: owner.InscriptionId,
			Kind:          owner.Kind,
			CurrentWallet: owner.CurrentWallet,
			Transfers: lo.Map(transfers, func(transfer entity.Transfer, _ int) transferResponse {
				return transferResponse{
					FromWallet:  transfer.FromWallet,
					ToWallet:    transfer.ToWallet,
					BlockHeight: transfer.BlockHeight,
					Timestamp:   transfer.Timestamp,
				}
			}),
		},
	}
	return errors.WithStack(ctx.JSON(resp))
}

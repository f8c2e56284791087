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

type getDeployMintsRequest struct {
	paginationRequest
	DeployId string `params:"deployId"`
}

type mintResponse struct {
	Id               ordinals.InscriptionId `json:"id"`
	DeployId         ordinals.InscriptionId `json:"deployId"`
	BlockHeight      int64                  `json:"blockHeight"`
	InscriptionIndex uint32                 `json:"inscriptionIndex"`
	Timestamp        time.Time              `json:"timestamp"`
	CurrentWallet    string                 `json:"currentWallet"`
}

type getDeployMintsResult struct {
	Total uint64         `json:"total"`
	List  []mintResponse `json:"list"`
}

type getDeployMintsResponse = HttpResponse[getDeployMintsResult]

func (h *HttpHandler) GetDeployMints(ctx *fiber.Ctx) error {
	var req getDeployMintsRequest
	if err := ctx.ParamsParser(&req); err != nil {
		return errors.WithStack(err)
	}
	if err := ctx.QueryParser(&req); err != nil {
		return errors.WithStack(err)
	}
	if err := req.Validate(); err != nil {
		return errors.WithStack(err)
	}
	if err := req.ParseDefault(); err != nil {
		return errors.WithStack(err)
	}
	deployId, err := ordinals.NewInscriptionIdFromString(req.DeployId)
	if err != nil {
		return errs.NewPublicError("invalid deploy id")
	}

	mints, total, err := h.usecase.GetMintsByDeploy(ctx.UserContext(), deployId, req.Limit, req.Offset)
	if err != nil {
		return errors.Wrap(err, "error during GetMintsByDeploy")
	}

	resp := getDeployMintsResponse{
		Result: &getDeployMintsResult{
			Total: total,
			List: lo.Map(mints, func(mint entity.Mint, _ int) mintResponse {
				return mintResponse{
					Id:               mint.Id,
					DeployId:         mint.DeployId,
					BlockHeight:      mint.BlockHeight,
					InscriptionIndex: mint.InscriptionIndex,
					Timestamp:        mint.Timestamp,
					CurrentWallet:    mint.CurrentWallet,
				}
			}),
		},
	}
	return errors.WithStack(ctx.JSON(resp))
}

package httphandler

import (
	"time"

	"github.com/brc420-network/brc420-indexer/modules/brc420/internal/entity"
	"github.com/brc420-network/brc420-indexer/modules/brc420/internal/ordinals"
	"github.com/cockroachdb/errors"
	"github.com/gofiber/fiber/v2"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

type getDeploysRequest struct {
	paginationRequest
	Search string `query:"search"`
}

type deployResponse struct {
	Id               ordinals.InscriptionId `json:"id"`
	SourceId         ordinals.InscriptionId `json:"sourceId"`
	Name             string                 `json:"name"`
	Max              uint64                 `json:"max"`
	Price            decimal.Decimal        `json:"price"`
	BlockHeight      int64                  `json:"blockHeight"`
	InscriptionIndex uint32                 `json:"inscriptionIndex"`
	Timestamp        time.Time              `json:"timestamp"`
	DeployerAddress  string                 `json:"deployerAddress"`
	CurrentWallet    string                 `json:"currentWallet"`
	MintCount        uint64                 `json:"mintCount"`
}

func deployToResponse(deploy entity.Deploy) deployResponse {
	return deployResponse{
		Id:               deploy.Id,
		SourceId:         deploy.SourceId,
		Name:             deploy.Name,
		Max:              deploy.Max,
		Price:            deploy.Price,
		BlockHeight:      deploy.BlockHeight,
		InscriptionIndex: deploy.InscriptionIndex,
		Timestamp:        deploy.Timestamp,
		DeployerAddress:  deploy.DeployerAddress,
		CurrentWallet:    deploy.CurrentWallet,
		MintCount:        deploy.MintCount,
	}
}

type getDeploysResult struct {
	List []deployResponse `json:"list"`
}

type getDeploysResponse = HttpResponse[getDeploysResult]

func (h *HttpHandler) GetDeploys(ctx *fiber.Ctx) error {
	var req getDeploysRequest
	if err := ctx.QueryParser(&req); err != nil {
		return errors.WithStack(err)
	}
	if err := req.Validate(); err != nil {
		return errors.WithStack(err)
	}
	if err := req.ParseDefault(); err != nil {
		return errors.WithStack(err)
	}

	deploys, err := h.usecase.GetDeploys(ctx.UserContext(), req.Search, req.Limit, req.Offset)
	if err != nil {
		return errors.Wrap(err, "error during GetDeploys")
	}

	resp := getDeploysResponse{
		Result: &getDeploysResult{
			List: lo.Map(deploys, func(deploy entity.Deploy, _ int) deployResponse {
				return deployToResponse(deploy)
			}),
		},
	}
	return errors.WithStack(ctx.JSON(resp))
}

package httphandler

import (
	"github.com/brc420-network/brc420-indexer/common/errs"
	"github.com/brc420-network/brc420-indexer/modules/brc420/internal/ordinals"
	"github.com/cockroachdb/errors"
	"github.com/gofiber/fiber/v2"
	"github.com/samber/lo"
)

type getDeployRequest struct {
	DeployId string `params:"deployId"`
}

type getDeployResponse = HttpResponse[deployResponse]

func (h *HttpHandler) GetDeploy(ctx *fiber.Ctx) error {
	var req getDeployRequest
	if err := ctx.ParamsParser(&req); err != nil {
		return errors.WithStack(err)
	}
	deployId, err := ordinals.NewInscriptionIdFromString(req.DeployId)
	if err != nil {
		return errs.NewPublicError("invalid deploy id")
	}

	deploy, err := h.usecase.GetDeployById(ctx.UserContext(), deployId)
	if err != nil {
		if errors.Is(err, errs.NotFound) {
			return errs.NewPublicError("deploy not found")
		}
		return errors.Wrap(err, "error during GetDeployById")
	}

	resp := getDeployResponse{
		Result: lo.ToPtr(deployToResponse(*deploy)),
	}
	return errors.WithStack(ctx.JSON(resp))
}

package httphandler

import (
	"github.com/brc420-network/brc420-indexer/common/errs"
	"github.com/cockroachdb/errors"
	"github.com/gofiber/fiber/v2"
)

type getCurrentBlockResult struct {
	Hash         string `json:"hash"`
	Height       int64  `json:"height"`
	Inscriptions int64  `json:"inscriptions"`
	Deploys      int64  `json:"deploys"`
	Mints        int64  `json:"mints"`
	Bitmaps      int64  `json:"bitmaps"`
	Parcels      int64  `json:"parcels"`
	Transfers    int64  `json:"transfers"`
}

type getCurrentBlockResponse = HttpResponse[getCurrentBlockResult]

func (h *HttpHandler) GetCurrentBlock(ctx *fiber.Ctx) (err error) {
	height, err := h.usecase.GetLatestProcessedHeight(ctx.UserContext())
	if err != nil {
		if errors.Is(err, errs.NotFound) {
			return errs.NewPublicError("no blocks processed yet")
		}
		return errors.Wrap(err, "error during GetLatestProcessedHeight")
	}

	result := getCurrentBlockResult{Height: height}
	stats, err := h.usecase.GetBlockStats(ctx.UserContext(), height)
	if err != nil && !errors.Is(err, errs.NotFound) {
		return errors.Wrap(err, "error during GetBlockStats")
	}
	if stats != nil {
		result.Hash = stats.BlockHash
		result.Inscriptions = stats.Inscriptions
		result.Deploys = stats.Deploys
		result.Mints = stats.Mints
		result.Bitmaps = stats.Bitmaps
		result.Parcels = stats.Parcels
		result.Transfers = stats.Transfers
	}

	resp := getCurrentBlockResponse{
		Result: &result,
	}

	return errors.WithStack(ctx.JSON(resp))
}

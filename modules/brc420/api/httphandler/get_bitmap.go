package httphandler

import (
	"strconv"

	"github.com/brc420-network/brc420-indexer/common/errs"
	"github.com/cockroachdb/errors"
	"github.com/gofiber/fiber/v2"
	"github.com/samber/lo"
)

type getBitmapRequest struct {
	BitmapNumber string `params:"bitmapNumber"`
}

type getBitmapResponse = HttpResponse[bitmapResponse]

func (h *HttpHandler) GetBitmap(ctx *fiber.Ctx) error {
	var req getBitmapRequest
	if err := ctx.ParamsParser(&req); err != nil {
		return errors.WithStack(err)
	}
	bitmapNumber, err := strconv.ParseInt(req.BitmapNumber, 10, 64)
	if err != nil || bitmapNumber < 0 {
		return errs.NewPublicError("invalid bitmap number")
	}

	bitmap, err := h.usecase.GetValidBitmapByNumber(ctx.UserContext(), bitmapNumber)
	if err != nil {
		if errors.Is(err, errs.NotFound) {
			return errs.NewPublicError("bitmap not found")
		}
		return errors.Wrap(err, "error during GetValidBitmapByNumber")
	}

	resp := getBitmapResponse{
		Result: lo.ToPtr(bitmapToResponse(*bitmap)),
	}
	return errors.WithStack(ctx.JSON(resp))
}

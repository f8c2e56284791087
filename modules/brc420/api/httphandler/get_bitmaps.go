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

type getBitmapsRequest struct {
	paginationRequest
	Search string `query:"search"`
}

func (r getBitmapsRequest) Validate() error {
	if err := r.paginationRequest.Validate(); err != nil {
		return err
	}
	for _, c := range r.Search {
		if c < '0' || c > '9' {
			return errs.WithPublicMessage(errors.New("'search' must contain only digits"), "validation error")
		}
	}
	return nil
}

type bitmapResponse struct {
	Id               ordinals.InscriptionId `json:"id"`
	BitmapNumber     int64                  `json:"bitmapNumber"`
	Content          string                 `json:"content"`
	BlockHeight      int64                  `json:"blockHeight"`
	InscriptionIndex uint32                 `json:"inscriptionIndex"`
	Timestamp        time.Time              `json:"timestamp"`
	CurrentWallet    string                 `json:"currentWallet"`
	IsValid          bool                   `json:"isValid"`
}

func bitmapToResponse(bitmap entity.Bitmap) bitmapResponse {
	return bitmapResponse{
		Id:               bitmap.Id,
		BitmapNumber:     bitmap.BitmapNumber,
		Content:          bitmap.Content,
		BlockHeight:      bitmap.BlockHeight,
		InscriptionIndex: bitmap.InscriptionIndex,
		Timestamp:        bitmap.Timestamp,
		CurrentWallet:    bitmap.CurrentWallet,
		IsValid:          bitmap.IsValid,
	}
}

type getBitmapsResult struct {
	List []bitmapResponse `json:"list"`
}

type getBitmapsResponse = HttpResponse[getBitmapsResult]

func (h *HttpHandler) GetBitmaps(ctx *fiber.Ctx) error {
	var req getBitmapsRequest
	if err := ctx.QueryParser(&req); err != nil {
		return errors.WithStack(err)
	}
	if err := req.Validate(); err != nil {
		return errors.WithStack(err)
	}
	if err := req.ParseDefault(); err != nil {
		return errors.WithStack(err)
	}

	bitmaps, err := h.usecase.GetBitmaps(ctx.UserContext(), req.Search, req.Limit, req.Offset)
	if err != nil {
		return errors.Wrap(err, "error during GetBitmaps")
	}

	resp := getBitmapsResponse{
		Result: &getBitmapsResult{
			List: lo.Map(bitmaps, func(bitmap entity.Bitmap, _ int) bitmapResponse {
				return bitmapToResponse(bitmap)
			}),
		},
	}
	return errors.WithStack(ctx.JSON(resp))
}

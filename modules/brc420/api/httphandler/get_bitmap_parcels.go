package httphandler

import (
	"strconv"
	"time"

	"github.com/brc420-network/brc420-indexer/common/errs"
	"github.com/brc420-network/brc420-indexer/modules/brc420/internal/entity"
	"github.com/brc420-network/brc420-indexer/modules/brc420/internal/ordinals"
	"github.com/cockroachdb/errors"
	"github.com/gofiber/fiber/v2"
	"github.com/samber/lo"
)

type getBitmapParcelsRequest struct {
	paginationRequest
	BitmapNumber string `params:"bitmapNumber"`
}

type parcelResponse struct {
	Id                  ordinals.InscriptionId `json:"id"`
	ParcelNumber        int64                  `json:"parcelNumber"`
	BitmapNumber        int64                  `json:"bitmapNumber"`
	BitmapInscriptionId ordinals.InscriptionId `json:"bitmapInscriptionId"`
	Content             string                 `json:"content"`
	Address             string                 `json:"address"`
	BlockHeight         int64                  `json:"blockHeight"`
	Timestamp           time.Time              `json:"timestamp"`
	TransactionCount    *int64                 `json:"transactionCount"`
	IsValid             bool                   `json:"isValid"`
	Wallet              string                 `json:"wallet"`
}

type getBitmapParcelsResult struct {
	List []parcelResponse `json:"list"`
}

type getBitmapParcelsResponse = HttpResponse[getBitmapParcelsResult]

func (h *HttpHandler) GetBitmapParcels(ctx *fiber.Ctx) error {
	var req getBitmapParcelsRequest
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
	bitmapNumber, err := strconv.ParseInt(req.BitmapNumber, 10, 64)
	if err != nil || bitmapNumber < 0 {
		return errs.NewPublicError("invalid bitmap number")
	}

	parcels, err := h.usecase.GetParcelsByBitmapNumber(ctx.UserContext(), bitmapNumber, req.Limit, req.Offset)
	if err != nil {
		return errors.Wrap(err, "error during GetParcelsByBitmapNumber")
	}

	resp := getBitmapParcelsResponse{
		Result: &getBitmapParcelsResult{
			List: lo.Map(parcels, func(parcel entity.Parcel, _ int) parcelResponse {
				return parcelResponse{
					Id:                  parcel.Id,
					ParcelNumber:        parcel.ParcelNumber,
					BitmapNumber:        parcel.BitmapNumber,
					BitmapInscriptionId: parcel.BitmapInscriptionId,
					Content:             parcel.Content,
					Address:             parcel.Address,
					BlockHeight:         parcel.BlockHeight,
					Timestamp:           parcel.Timestamp,
					TransactionCount:    parcel.TransactionCount,
					IsValid:             parcel.IsValid,
					Wallet:              parcel.Wallet,
				}
			}),
		},
	}
	return errors.WithStack(ctx.JSON(resp))
}

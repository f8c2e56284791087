package httphandler

import (
	"github.com/gofiber/fiber/v2"
)

func (h *HttpHandler) Mount(router fiber.Router) error {
	r := router.Group("/v1/brc420")

	r.Get("/deploys", h.GetDeploys)
	r.Get("/deploy/:deployId", h.GetDeploy)
	r.Get("/deploy/:deployId/mints", h.GetDeployMints)
	r.Get("/bitmaps", h.GetBitmaps)
	r.Get("/bitmap/:bitmapNumber", h.GetBitmap)
	r.Get("/bitmap/:bitmapNumber/parcels", h.GetBitmapParcels)
	r.Get("/wallet/:inscriptionId/history", h.GetWalletHistory)
	r.Get("/block", h.GetCurrentBlock)
	return nil
}

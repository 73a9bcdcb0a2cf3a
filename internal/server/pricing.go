package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	documentdomain "github.com/atelierbooks/facturio/internal/document/domain"
	"github.com/atelierbooks/facturio/internal/document/pricing"
)

type pricingPreviewRequest struct {
	Items             []lineItemRequest `json:"items"`
	DiscountValue     float64           `json:"discount_value"`
	DiscountIsPercent bool              `json:"discount_is_percent"`
}

// PreviewPricing prices a draft without persisting anything, so the
// editor can show live totals.
func (s *Server) PreviewPricing(c *gin.Context) {
	var req pricingPreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	items := make([]documentdomain.LineItem, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, documentdomain.LineItem{
			Description: strings.TrimSpace(item.Description),
			UnitPrice:   item.UnitPrice,
			Quantity:    item.Quantity,
		})
	}

	totals := pricing.Compute(items, req.DiscountValue, req.DiscountIsPercent)
	c.JSON(http.StatusOK, gin.H{"data": totals})
}

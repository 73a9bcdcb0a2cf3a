package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	stockdomain "github.com/atelierbooks/facturio/internal/stock/domain"
)

type stockLotRequest struct {
	Name      string `json:"name"`
	Color     string `json:"color"`
	LotNumber string `json:"lot_number"`
	EntryDate string `json:"entry_date"`
	Quantity  int    `json:"quantity"`
}

func (s *Server) ListStock(c *gin.Context) {
	var query struct {
		Available bool `form:"available"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	var (
		lots []stockdomain.Lot
		err  error
	)
	if query.Available {
		lots, err = s.stockSvc.Available(c.Request.Context())
	} else {
		lots, err = s.stockSvc.List(c.Request.Context())
	}
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": lots})
}

func (s *Server) ReplaceStock(c *gin.Context) {
	var req []stockLotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	lots := make([]stockdomain.Lot, 0, len(req))
	for _, lot := range req {
		lots = append(lots, stockdomain.Lot{
			Name:      strings.TrimSpace(lot.Name),
			Color:     strings.TrimSpace(lot.Color),
			LotNumber: strings.TrimSpace(lot.LotNumber),
			EntryDate: strings.TrimSpace(lot.EntryDate),
			Quantity:  lot.Quantity,
		})
	}

	if err := s.stockSvc.Replace(c.Request.Context(), lots); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": lots})
}

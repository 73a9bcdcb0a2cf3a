package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	catalogdomain "github.com/atelierbooks/facturio/internal/catalog/domain"
)

type catalogItemRequest struct {
	Description string  `json:"description"`
	UnitPrice   float64 `json:"unit_price"`
	Quantity    int     `json:"quantity"`
}

func (s *Server) ListCatalog(c *gin.Context) {
	items, err := s.catalogSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": items})
}

func (s *Server) ReplaceCatalog(c *gin.Context) {
	var req []catalogItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	items := make([]catalogdomain.Item, 0, len(req))
	for _, item := range req {
		items = append(items, catalogdomain.Item{
			Description: strings.TrimSpace(item.Description),
			UnitPrice:   item.UnitPrice,
			Quantity:    item.Quantity,
		})
	}

	if err := s.catalogSvc.Replace(c.Request.Context(), items); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": items})
}

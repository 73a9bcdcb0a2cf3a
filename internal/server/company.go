package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	companydomain "github.com/atelierbooks/facturio/internal/company/domain"
)

type companyRequest struct {
	Name    string `json:"name"`
	Siret   string `json:"siret"`
	Address string `json:"address"`
	RM      string `json:"rm"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
}

func (s *Server) GetCompany(c *gin.Context) {
	profile, err := s.companySvc.Get(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": profile})
}

func (s *Server) PutCompany(c *gin.Context) {
	var req companyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	profile := companydomain.Profile{
		Name:    strings.TrimSpace(req.Name),
		Siret:   strings.TrimSpace(req.Siret),
		Address: strings.TrimSpace(req.Address),
		RM:      strings.TrimSpace(req.RM),
		Phone:   strings.TrimSpace(req.Phone),
		Email:   strings.TrimSpace(req.Email),
	}

	if err := s.companySvc.Put(c.Request.Context(), profile); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": profile})
}

package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	clientdomain "github.com/atelierbooks/facturio/internal/client/domain"
)

type clientRequest struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	City    string `json:"city"`
}

func (s *Server) ListClients(c *gin.Context) {
	clients, err := s.clientSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": clients})
}

func (s *Server) ReplaceClients(c *gin.Context) {
	var req []clientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	clients := make([]clientdomain.Client, 0, len(req))
	for _, client := range req {
		clients = append(clients, clientdomain.Client{
			Name:    strings.TrimSpace(client.Name),
			Address: strings.TrimSpace(client.Address),
			Phone:   strings.TrimSpace(client.Phone),
			Email:   strings.TrimSpace(client.Email),
			City:    strings.TrimSpace(client.City),
		})
	}

	if err := s.clientSvc.Replace(c.Request.Context(), clients); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": clients})
}

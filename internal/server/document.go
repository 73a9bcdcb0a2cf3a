package server

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	clientdomain "github.com/atelierbooks/facturio/internal/client/domain"
	documentdomain "github.com/atelierbooks/facturio/internal/document/domain"
)

const dateLayout = "2006-01-02"

type lineItemRequest struct {
	Description string  `json:"description"`
	UnitPrice   float64 `json:"unit_price"`
	Quantity    int     `json:"quantity"`
}

type draftRequest struct {
	Date              string            `json:"date"`
	Client            clientRequest     `json:"client"`
	Items             []lineItemRequest `json:"items"`
	DiscountValue     float64           `json:"discount_value"`
	DiscountIsPercent bool              `json:"discount_is_percent"`
	Place             string            `json:"place"`
}

type createQuoteRequest struct {
	Number string `json:"number"`
	draftRequest
}

type materialUseRequest struct {
	Name string `json:"name"`
	Lot  string `json:"lot"`
	Qty  int    `json:"qty"`
}

type serialBindingRequest struct {
	UnitID    string               `json:"unit_id"`
	Serial    string               `json:"serial"`
	Product   string               `json:"product"`
	Materials []materialUseRequest `json:"materials"`
}

type saveInvoiceRequest struct {
	draftRequest
	Serials []serialBindingRequest `json:"serials"`
}

func (r draftRequest) toDraft() (documentdomain.Draft, error) {
	date, err := time.Parse(dateLayout, r.Date)
	if err != nil {
		return documentdomain.Draft{}, newValidationError("date", "invalid_date", "invalid date")
	}

	items := make([]documentdomain.LineItem, 0, len(r.Items))
	for _, item := range r.Items {
		items = append(items, documentdomain.LineItem{
			Description: strings.TrimSpace(item.Description),
			UnitPrice:   item.UnitPrice,
			Quantity:    item.Quantity,
		})
	}

	return documentdomain.Draft{
		Date: date,
		Client: clientdomain.Client{
			Name:    strings.TrimSpace(r.Client.Name),
			Address: strings.TrimSpace(r.Client.Address),
			Phone:   strings.TrimSpace(r.Client.Phone),
			Email:   strings.TrimSpace(r.Client.Email),
			City:    strings.TrimSpace(r.Client.City),
		},
		Items:             items,
		DiscountValue:     r.DiscountValue,
		DiscountIsPercent: r.DiscountIsPercent,
		Place:             strings.TrimSpace(r.Place),
	}, nil
}

func toBindings(req []serialBindingRequest) []documentdomain.SerialBinding {
	bindings := make([]documentdomain.SerialBinding, 0, len(req))
	for _, binding := range req {
		materials := make([]documentdomain.MaterialUse, 0, len(binding.Materials))
		for _, use := range binding.Materials {
			materials = append(materials, documentdomain.MaterialUse{
				Name: strings.TrimSpace(use.Name),
				Lot:  strings.TrimSpace(use.Lot),
				Qty:  use.Qty,
			})
		}
		bindings = append(bindings, documentdomain.SerialBinding{
			UnitID:    binding.UnitID,
			Serial:    strings.TrimSpace(binding.Serial),
			Product:   strings.TrimSpace(binding.Product),
			Materials: materials,
		})
	}
	return bindings
}

func (s *Server) ListDocuments(c *gin.Context) {
	var query struct {
		Status string `form:"status"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	switch query.Status {
	case "", string(documentdomain.StatusQuote), string(documentdomain.StatusInvoice):
	default:
		AbortWithError(c, newValidationError("status", "invalid_status", "invalid status"))
		return
	}

	docs, err := s.documentSvc.List(c.Request.Context(), documentdomain.Status(query.Status))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": docs})
}

func (s *Server) GetDocument(c *gin.Context) {
	doc, err := s.documentSvc.Get(c.Request.Context(), c.Param("number"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": doc})
}

func (s *Server) GetDocumentTotals(c *gin.Context) {
	totals, err := s.documentSvc.Totals(c.Request.Context(), c.Param("number"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": totals})
}

func (s *Server) CreateQuote(c *gin.Context) {
	var req createQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	draft, err := req.toDraft()
	if err != nil {
		AbortWithError(c, err)
		return
	}

	doc, err := s.documentSvc.CreateQuote(c.Request.Context(), documentdomain.CreateQuoteRequest{
		Number: strings.TrimSpace(req.Number),
		Draft:  draft,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": doc})
}

func (s *Server) UpdateQuote(c *gin.Context) {
	var req draftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	draft, err := req.toDraft()
	if err != nil {
		AbortWithError(c, err)
		return
	}

	doc, err := s.documentSvc.UpdateQuote(c.Request.Context(), c.Param("number"), draft)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": doc})
}

func (s *Server) ConvertToInvoice(c *gin.Context) {
	doc, err := s.documentSvc.ConvertToInvoice(c.Request.Context(), c.Param("number"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": doc})
}

func (s *Server) GetSerialSlots(c *gin.Context) {
	slots, err := s.documentSvc.SerialSlots(c.Request.Context(), c.Param("number"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": slots})
}

func (s *Server) SaveInvoice(c *gin.Context) {
	var req saveInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	draft, err := req.toDraft()
	if err != nil {
		AbortWithError(c, err)
		return
	}

	doc, err := s.documentSvc.SaveInvoice(c.Request.Context(), c.Param("number"), documentdomain.SaveInvoiceRequest{
		Draft:   draft,
		Serials: toBindings(req.Serials),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": doc})
}

func (s *Server) GetDocumentPDF(c *gin.Context) {
	number := c.Param("number")
	out, err := s.documentSvc.Render(c.Request.Context(), number)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", number+".pdf"))
	c.Data(http.StatusOK, "application/pdf", out)
}

func (s *Server) SendDocument(c *gin.Context) {
	var req struct {
		To string `json:"to"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	if err := s.documentSvc.Send(c.Request.Context(), c.Param("number"), strings.TrimSpace(req.To)); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "sent"})
}

package service

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/atelierbooks/facturio/internal/document/domain"
	"github.com/atelierbooks/facturio/internal/document/format"
	"github.com/atelierbooks/facturio/internal/document/pricing"
	"github.com/atelierbooks/facturio/internal/providers/pdf"
)

const dateLayout = "02/01/2006"

func (s *service) buildRenderInput(ctx context.Context, doc domain.Document) (pdf.DocumentData, error) {
	profile, err := s.company.Get(ctx)
	if err != nil {
		return pdf.DocumentData{}, err
	}
	settings := s.render.Current()

	isInvoice := doc.Status == domain.StatusInvoice
	label := "Devis"
	if isInvoice {
		label = "Facture"
	}

	meta := []string{
		fmt.Sprintf("N° %s", doc.Number),
		fmt.Sprintf("Le %s", doc.Date.Format(dateLayout)),
	}
	if doc.Place != "" {
		meta = append(meta, fmt.Sprintf("Fait à %s", doc.Place))
	}

	var companyLines []string
	for _, line := range []string{
		profile.Name,
		profile.Address,
		labelled("SIRET", profile.Siret),
		labelled("RM", profile.RM),
		labelled("Tél", profile.Phone),
		profile.Email,
	} {
		if line != "" {
			companyLines = append(companyLines, line)
		}
	}

	var clientLines []string
	for _, line := range []string{
		doc.Client.Name,
		doc.Client.Address,
		doc.Client.City,
		labelled("Tél", doc.Client.Phone),
		doc.Client.Email,
	} {
		if line != "" {
			clientLines = append(clientLines, line)
		}
	}

	serialized := isInvoice && len(doc.Serials) > 0

	refHeader := "QTÉ"
	if serialized {
		refHeader = "N° SÉRIE"
	}

	var lines []pdf.Line
	var totals domain.Totals
	if serialized {
		lines = serializedLines(doc)
		totals = pricing.ComputeSerialized(doc.Items, doc.Serials, doc.DiscountValue, doc.DiscountIsPercent)
	} else {
		lines = itemLines(doc)
		totals = pricing.Compute(doc.Items, doc.DiscountValue, doc.DiscountIsPercent)
	}

	data := pdf.DocumentData{
		Title:        label,
		IsInvoice:    isInvoice,
		MetaLines:    meta,
		CompanyLines: companyLines,
		ClientLines:  clientLines,
		RefHeader:    refHeader,
		Lines:        lines,
		Subtotal:     format.Money(totals.Subtotal),
		Discount:     "- " + format.Money(totals.DiscountAmount),
		Tax:          format.Money(0),
		Total:        format.Money(totals.Total),
		TaxNote:      settings.TaxNote,
	}
	if isInvoice {
		data.PaymentTerms = settings.PaymentTerms
	} else {
		data.SignatureLines = settings.SignatureLines
		data.ValidityFooter = settings.ValidityFooter
	}
	if settings.LogoFile != "" {
		data.LogoPath = filepath.Join(s.cfg.AssetsDir, settings.LogoFile)
	}
	if len(settings.Tint) == 3 {
		data.Tint = &pdf.Color{R: settings.Tint[0], G: settings.Tint[1], B: settings.Tint[2]}
	}
	return data, nil
}

// itemLines renders one table row per line item, quantity in the
// reference column.
func itemLines(doc domain.Document) []pdf.Line {
	lines := make([]pdf.Line, 0, len(doc.Items))
	for _, item := range doc.Items {
		lines = append(lines, pdf.Line{
			Description: item.Description,
			Price:       format.Money(item.UnitPrice),
			Ref:         fmt.Sprintf("%d", item.Quantity),
			Total:       format.Money(item.UnitPrice * float64(item.Quantity)),
		})
	}
	return lines
}

// serializedLines renders one table row per physical unit with its
// serial number, plus an indented traceability sub-row per consumed
// lot.
func serializedLines(doc domain.Document) []pdf.Line {
	priceByProduct := make(map[string]float64, len(doc.Items))
	for _, item := range doc.Items {
		priceByProduct[item.Description] = item.UnitPrice
	}

	lines := make([]pdf.Line, 0, len(doc.Serials))
	for _, binding := range doc.Serials {
		price := priceByProduct[binding.Product]
		line := pdf.Line{
			Description: binding.Product,
			Price:       format.Money(price),
			Ref:         binding.Serial,
			Total:       format.Money(price),
		}
		for _, use := range binding.Materials {
			line.Materials = append(line.Materials, pdf.MaterialLine{
				Label: fmt.Sprintf("%s (Lot %s)", use.Name, use.Lot),
				Qty:   fmt.Sprintf("x%d", use.Qty),
			})
		}
		lines = append(lines, line)
	}
	return lines
}

func labelled(label, value string) string {
	if value == "" {
		return ""
	}
	return label + " : " + value
}

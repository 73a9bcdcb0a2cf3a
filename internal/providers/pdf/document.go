package pdf

import (
	"context"
	"fmt"
	"os"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/image"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

type MarotoProvider struct{}

func New() Provider {
	return &MarotoProvider{}
}

func (p *MarotoProvider) GenerateDocument(ctx context.Context, data DocumentData) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} / {total}",
			Place:   props.RightBottom,
		}).
		Build()

	m := maroto.New(cfg)

	// Logo is decorative: skip it when the asset is absent.
	if data.LogoPath != "" {
		if _, err := os.Stat(data.LogoPath); err == nil {
			m.AddRow(22,
				image.NewFromFileCol(3, data.LogoPath, props.Rect{
					Center:  false,
					Percent: 80,
				}),
				col.New(9),
			)
		}
	}

	tint := tintColor(data.Tint)

	m.AddRow(18,
		text.NewCol(12, data.Title, props.Text{
			Size:  28,
			Style: fontstyle.Bold,
			Align: align.Center,
			Color: tint,
		}),
	)

	for _, line := range data.MetaLines {
		m.AddRow(5,
			text.NewCol(12, line, props.Text{Size: 10, Align: align.Center}),
		)
	}
	m.AddRow(6, col.New(12))

	// Company block on the left, client block on the right.
	companyCol := col.New(6)
	for i, line := range data.CompanyLines {
		companyCol.Add(text.New(line, props.Text{Size: 9, Top: float64(i * 5)}))
	}
	clientCol := col.New(6)
	clientCol.Add(text.New("Client", props.Text{Size: 9, Style: fontstyle.Bold}))
	for i, line := range data.ClientLines {
		clientCol.Add(text.New(line, props.Text{Size: 9, Top: float64((i + 1) * 5)}))
	}
	height := 5 * (max(len(data.CompanyLines), len(data.ClientLines)+1) + 1)
	m.AddRow(float64(height), companyCol, clientCol)

	// Table header.
	m.AddRow(8,
		text.NewCol(6, "DESCRIPTION", props.Text{Size: 9, Style: fontstyle.Bold, Color: tint}),
		text.NewCol(2, "PRIX", props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right, Color: tint}),
		text.NewCol(2, data.RefHeader, props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right, Color: tint}),
		text.NewCol(2, "TOTAL", props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right, Color: tint}),
	)

	for _, line := range data.Lines {
		m.AddRow(7,
			text.NewCol(6, line.Description, props.Text{Size: 9}),
			text.NewCol(2, line.Price, props.Text{Size: 9, Align: align.Right}),
			text.NewCol(2, line.Ref, props.Text{Size: 9, Align: align.Right}),
			text.NewCol(2, line.Total, props.Text{Size: 9, Align: align.Right}),
		)
		for _, material := range line.Materials {
			m.AddRow(6,
				text.NewCol(8, "    ↳ "+material.Label, props.Text{Size: 8}),
				col.New(2),
				text.NewCol(2, material.Qty, props.Text{Size: 8, Align: align.Right}),
			)
		}
	}

	// Totals block.
	m.AddRow(7,
		col.New(8),
		text.NewCol(2, "Sous total :", props.Text{Size: 9, Align: align.Right}),
		text.NewCol(2, data.Subtotal, props.Text{Size: 9, Align: align.Right}),
	)
	m.AddRow(7,
		col.New(8),
		text.NewCol(2, "Remise :", props.Text{Size: 9, Align: align.Right}),
		text.NewCol(2, data.Discount, props.Text{Size: 9, Align: align.Right}),
	)
	m.AddRow(7,
		col.New(8),
		text.NewCol(2, "TVA (0%) :", props.Text{Size: 9, Align: align.Right}),
		text.NewCol(2, data.Tax, props.Text{Size: 9, Align: align.Right}),
	)
	m.AddRow(8,
		col.New(8),
		text.NewCol(2, "TOTAL :", props.Text{Size: 11, Style: fontstyle.Bold, Align: align.Right}),
		text.NewCol(2, data.Total, props.Text{Size: 11, Style: fontstyle.Bold, Align: align.Right}),
	)
	if data.TaxNote != "" {
		m.AddRow(6,
			col.New(6),
			text.NewCol(6, data.TaxNote, props.Text{Size: 8, Style: fontstyle.Italic, Align: align.Right}),
		)
	}

	// Closing block: payment terms for invoices, signature for quotes.
	if data.IsInvoice {
		m.AddRow(8,
			text.NewCol(12, "Condition de paiement :", props.Text{Size: 9, Style: fontstyle.Bold, Top: 4}),
		)
		for _, line := range data.PaymentTerms {
			m.AddRow(5, text.NewCol(12, line, props.Text{Size: 8}))
		}
	} else {
		m.AddRow(8,
			text.NewCol(12, "Signature du client :", props.Text{Size: 9, Style: fontstyle.Bold, Top: 4}),
		)
		for _, line := range data.SignatureLines {
			m.AddRow(5, text.NewCol(12, line, props.Text{Size: 8}))
		}
		if data.ValidityFooter != "" {
			m.AddRow(8,
				text.NewCol(12, data.ValidityFooter, props.Text{Size: 9, Align: align.Center, Top: 4}),
			)
		}
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("generate document: %w", err)
	}
	return doc.GetBytes(), nil
}

func tintColor(c *Color) *props.Color {
	if c == nil {
		return nil
	}
	return &props.Color{Red: c.R, Green: c.G, Blue: c.B}
}

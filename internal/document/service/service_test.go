package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	clientdomain "github.com/atelierbooks/facturio/internal/client/domain"
	companyrepository "github.com/atelierbooks/facturio/internal/company/repository"
	companyservice "github.com/atelierbooks/facturio/internal/company/service"
	"github.com/atelierbooks/facturio/internal/config"
	"github.com/atelierbooks/facturio/internal/document/domain"
	docrepository "github.com/atelierbooks/facturio/internal/document/repository"
	"github.com/atelierbooks/facturio/internal/observability/metrics"
	"github.com/atelierbooks/facturio/internal/providers/email"
	"github.com/atelierbooks/facturio/internal/providers/pdf"
	stockdomain "github.com/atelierbooks/facturio/internal/stock/domain"
	stockrepository "github.com/atelierbooks/facturio/internal/stock/repository"
	stockservice "github.com/atelierbooks/facturio/internal/stock/service"
)

type stubPDF struct{}

func (stubPDF) GenerateDocument(ctx context.Context, data pdf.DocumentData) ([]byte, error) {
	return []byte("%PDF-stub"), nil
}

type captureEmail struct {
	to          []string
	subject     string
	attachments []email.Attachment
}

func (c *captureEmail) Send(ctx context.Context, to []string, subject string, body string, attachments ...email.Attachment) error {
	c.to = to
	c.subject = subject
	c.attachments = attachments
	return nil
}

type fixture struct {
	svc   domain.Service
	stock stockdomain.Service
	mail  *captureEmail
}

func newFixture(t *testing.T, lots []stockdomain.Lot) fixture {
	t.Helper()

	cfg := config.Config{DataDir: t.TempDir(), AssetsDir: t.TempDir()}
	m := metrics.New()

	docRepo, err := docrepository.Provide(cfg)
	require.NoError(t, err)

	stockRepo, err := stockrepository.Provide(cfg)
	require.NoError(t, err)
	require.NoError(t, stockRepo.Replace(context.Background(), lots))
	stockSvc := stockservice.New(stockservice.Params{
		Log:     zap.NewNop(),
		Repo:    stockRepo,
		Metrics: m,
	})

	companyRepo, err := companyrepository.Provide(cfg)
	require.NoError(t, err)
	companySvc := companyservice.New(companyservice.Params{
		Log:  zap.NewNop(),
		Repo: companyRepo,
	})

	render, err := config.NewRenderSettingsHolder(cfg)
	require.NoError(t, err)

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	mail := &captureEmail{}
	svc := New(Params{
		Log:     zap.NewNop(),
		Repo:    docRepo,
		Stock:   stockSvc,
		Company: companySvc,
		Config:  cfg,
		Render:  render,
		PDF:     stubPDF{},
		Email:   mail,
		Metrics: m,
		Node:    node,
	})
	return fixture{svc: svc, stock: stockSvc, mail: mail}
}

func testDraft() domain.Draft {
	return domain.Draft{
		Date:   time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		Client: clientdomain.Client{Name: "Dupont", Email: "dupont@example.com"},
		Items: []domain.LineItem{
			{Description: "Sac bandoulière", UnitPrice: 120, Quantity: 2},
		},
		Place: "Lyon",
	}
}

func lotQty(t *testing.T, svc stockdomain.Service, lot string) int {
	t.Helper()
	lots, err := svc.List(context.Background())
	require.NoError(t, err)
	for _, l := range lots {
		if l.LotNumber == lot {
			return l.Quantity
		}
	}
	t.Fatalf("lot %s not found", lot)
	return 0
}

func TestCreateQuoteAssignsNextNumber(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	first, err := f.svc.CreateQuote(ctx, domain.CreateQuoteRequest{Draft: testDraft()})
	require.NoError(t, err)
	assert.Equal(t, "20240315-001", first.Number)
	assert.Equal(t, domain.StatusQuote, first.Status)

	second, err := f.svc.CreateQuote(ctx, domain.CreateQuoteRequest{Draft: testDraft()})
	require.NoError(t, err)
	assert.Equal(t, "20240315-002", second.Number)
}

func TestCreateQuoteRejectsDuplicateNumber(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	_, err := f.svc.CreateQuote(ctx, domain.CreateQuoteRequest{Number: "20240315-001", Draft: testDraft()})
	require.NoError(t, err)

	_, err = f.svc.CreateQuote(ctx, domain.CreateQuoteRequest{Number: "20240315-001", Draft: testDraft()})
	assert.ErrorIs(t, err, domain.ErrDuplicateNumber)
}

func TestCreateQuoteValidatesDraft(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	draft := testDraft()
	draft.Items = nil
	_, err := f.svc.CreateQuote(ctx, domain.CreateQuoteRequest{Draft: draft})
	assert.ErrorIs(t, err, domain.ErrInvalidItems)

	draft = testDraft()
	draft.Items[0].Quantity = 0
	_, err = f.svc.CreateQuote(ctx, domain.CreateQuoteRequest{Draft: draft})
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

	draft = testDraft()
	draft.Items[0].UnitPrice = -1
	_, err = f.svc.CreateQuote(ctx, domain.CreateQuoteRequest{Draft: draft})
	assert.ErrorIs(t, err, domain.ErrInvalidPrice)

	draft = testDraft()
	draft.DiscountIsPercent = true
	draft.DiscountValue = 150
	_, err = f.svc.CreateQuote(ctx, domain.CreateQuoteRequest{Draft: draft})
	assert.ErrorIs(t, err, domain.ErrInvalidDiscount)
}

func TestUpdateQuoteRejectsInvoices(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	doc, err := f.svc.CreateQuote(ctx, domain.CreateQuoteRequest{Draft: testDraft()})
	require.NoError(t, err)
	_, err = f.svc.ConvertToInvoice(ctx, doc.Number)
	require.NoError(t, err)

	_, err = f.svc.UpdateQuote(ctx, doc.Number, testDraft())
	assert.ErrorIs(t, err, domain.ErrNotAQuote)
}

func TestConvertToInvoiceIsOneWay(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	doc, err := f.svc.CreateQuote(ctx, domain.CreateQuoteRequest{Draft: testDraft()})
	require.NoError(t, err)

	converted, err := f.svc.ConvertToInvoice(ctx, doc.Number)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusInvoice, converted.Status)

	_, err = f.svc.ConvertToInvoice(ctx, doc.Number)
	assert.ErrorIs(t, err, domain.ErrAlreadyInvoice)
}

func TestSerialSlotsEnumeratesUnits(t *testing.T) {
	f := newFixture(t, []stockdomain.Lot{
		{Name: "Cuir noir", Color: "noir", LotNumber: "L1", Quantity: 10},
		{Name: "Cuir brun", Color: "brun", LotNumber: "L2", Quantity: 0},
	})
	ctx := context.Background()

	doc, err := f.svc.CreateQuote(ctx, domain.CreateQuoteRequest{Draft: testDraft()})
	require.NoError(t, err)

	_, err = f.svc.SerialSlots(ctx, doc.Number)
	assert.ErrorIs(t, err, domain.ErrNotAnInvoice)

	_, err = f.svc.ConvertToInvoice(ctx, doc.Number)
	require.NoError(t, err)

	slots, err := f.svc.SerialSlots(ctx, doc.Number)
	require.NoError(t, err)
	require.Len(t, slots, 2)
	assert.Equal(t, doc.Number+"-001", slots[0].Serial)
	assert.Equal(t, doc.Number+"-002", slots[1].Serial)
	assert.NotEmpty(t, slots[0].UnitID)

	// The exhausted lot is not offered to a unit that holds none of it.
	require.Len(t, slots[0].Options, 1)
	assert.Equal(t, "L1", slots[0].Options[0].Lot)
	assert.Equal(t, 10, slots[0].Options[0].Available)
}

func invoiceWithUnits(t *testing.T, f fixture) domain.Document {
	t.Helper()
	ctx := context.Background()

	doc, err := f.svc.CreateQuote(ctx, domain.CreateQuoteRequest{Draft: testDraft()})
	require.NoError(t, err)
	doc, err = f.svc.ConvertToInvoice(ctx, doc.Number)
	require.NoError(t, err)
	return doc
}

func bindings(number string, qtyPerUnit int) []domain.SerialBinding {
	return []domain.SerialBinding{
		{
			Serial:  number + "-001",
			Product: "Sac bandoulière",
			Materials: []domain.MaterialUse{
				{Name: "Cuir noir", Lot: "L1", Qty: qtyPerUnit},
			},
		},
		{
			Serial:  number + "-002",
			Product: "Sac bandoulière",
			Materials: []domain.MaterialUse{
				{Name: "Cuir noir", Lot: "L1", Qty: qtyPerUnit},
			},
		},
	}
}

func TestSaveInvoiceConsumesStock(t *testing.T) {
	f := newFixture(t, []stockdomain.Lot{
		{Name: "Cuir noir", Color: "noir", LotNumber: "L1", Quantity: 10},
	})
	ctx := context.Background()
	doc := invoiceWithUnits(t, f)

	req := domain.SaveInvoiceRequest{Draft: testDraft(), Serials: bindings(doc.Number, 2)}
	saved, err := f.svc.SaveInvoice(ctx, doc.Number, req)
	require.NoError(t, err)
	assert.Equal(t, 6, lotQty(t, f.stock, "L1"))
	assert.Equal(t, 2, saved.Units())
	for _, binding := range saved.Serials {
		assert.NotEmpty(t, binding.UnitID)
	}

	// Editing the same invoice applies only the delta.
	req.Serials = bindings(doc.Number, 3)
	resaved, err := f.svc.SaveInvoice(ctx, doc.Number, req)
	require.NoError(t, err)
	assert.Equal(t, 4, lotQty(t, f.stock, "L1"))

	// Unit identities survive the edit.
	assert.Equal(t, saved.Serials[0].UnitID, resaved.Serials[0].UnitID)
	assert.Equal(t, saved.Serials[1].UnitID, resaved.Serials[1].UnitID)

	// Dropping all consumption returns everything to the ledger.
	empty := bindings(doc.Number, 0)
	empty[0].Materials = nil
	empty[1].Materials = nil
	_, err = f.svc.SaveInvoice(ctx, doc.Number, domain.SaveInvoiceRequest{Draft: testDraft(), Serials: empty})
	require.NoError(t, err)
	assert.Equal(t, 10, lotQty(t, f.stock, "L1"))
}

func TestSaveInvoiceRejectsUnderflow(t *testing.T) {
	f := newFixture(t, []stockdomain.Lot{
		{Name: "Cuir noir", Color: "noir", LotNumber: "L1", Quantity: 3},
	})
	ctx := context.Background()
	doc := invoiceWithUnits(t, f)

	req := domain.SaveInvoiceRequest{Draft: testDraft(), Serials: bindings(doc.Number, 2)}
	_, err := f.svc.SaveInvoice(ctx, doc.Number, req)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	// Nothing was applied and the record kept no serials.
	assert.Equal(t, 3, lotQty(t, f.stock, "L1"))
	reloaded, err := f.svc.Get(ctx, doc.Number)
	require.NoError(t, err)
	assert.Empty(t, reloaded.Serials)
}

func TestSaveInvoiceRejectsSerialMismatch(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	doc := invoiceWithUnits(t, f)

	req := domain.SaveInvoiceRequest{
		Draft:   testDraft(),
		Serials: bindings(doc.Number, 1)[:1],
	}
	_, err := f.svc.SaveInvoice(ctx, doc.Number, req)
	assert.ErrorIs(t, err, domain.ErrSerialMismatch)

	wrong := bindings(doc.Number, 1)
	wrong[1].Serial = doc.Number + "-099"
	_, err = f.svc.SaveInvoice(ctx, doc.Number, domain.SaveInvoiceRequest{Draft: testDraft(), Serials: wrong})
	assert.ErrorIs(t, err, domain.ErrSerialMismatch)
}

func TestSaveInvoiceRejectsQuotes(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	doc, err := f.svc.CreateQuote(ctx, domain.CreateQuoteRequest{Draft: testDraft()})
	require.NoError(t, err)

	_, err = f.svc.SaveInvoice(ctx, doc.Number, domain.SaveInvoiceRequest{Draft: testDraft(), Serials: bindings(doc.Number, 1)})
	assert.ErrorIs(t, err, domain.ErrNotAnInvoice)
}

func TestTotalsAppliesDiscount(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	draft := testDraft()
	draft.DiscountValue = 10
	draft.DiscountIsPercent = true
	doc, err := f.svc.CreateQuote(ctx, domain.CreateQuoteRequest{Draft: draft})
	require.NoError(t, err)

	totals, err := f.svc.Totals(ctx, doc.Number)
	require.NoError(t, err)
	assert.InDelta(t, 240, totals.Subtotal, 0.001)
	assert.InDelta(t, 24, totals.DiscountAmount, 0.001)
	assert.InDelta(t, 216, totals.Total, 0.001)
}

func TestSendAttachesRenderedDocument(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	doc, err := f.svc.CreateQuote(ctx, domain.CreateQuoteRequest{Draft: testDraft()})
	require.NoError(t, err)

	require.NoError(t, f.svc.Send(ctx, doc.Number, ""))
	assert.Equal(t, []string{"dupont@example.com"}, f.mail.to)
	assert.Equal(t, "Devis N° "+doc.Number, f.mail.subject)
	require.Len(t, f.mail.attachments, 1)
	assert.Equal(t, "devis_"+doc.Number+".pdf", f.mail.attachments[0].Filename)
	assert.Equal(t, []byte("%PDF-stub"), f.mail.attachments[0].Content)
}

func TestSendRequiresRecipient(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	draft := testDraft()
	draft.Client.Email = ""
	doc, err := f.svc.CreateQuote(ctx, domain.CreateQuoteRequest{Draft: draft})
	require.NoError(t, err)

	err = f.svc.Send(ctx, doc.Number, "")
	assert.ErrorIs(t, err, domain.ErrMailNotSet)
}

func TestGetUnknownNumber(t *testing.T) {
	f := newFixture(t, nil)

	_, err := f.svc.Get(context.Background(), "none")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

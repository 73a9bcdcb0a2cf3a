package service

import (
	"context"
	"fmt"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"

	companydomain "github.com/atelierbooks/facturio/internal/company/domain"
	"github.com/atelierbooks/facturio/internal/config"
	"github.com/atelierbooks/facturio/internal/document/domain"
	"github.com/atelierbooks/facturio/internal/document/format"
	"github.com/atelierbooks/facturio/internal/document/pricing"
	"github.com/atelierbooks/facturio/internal/document/serial"
	"github.com/atelierbooks/facturio/internal/observability/metrics"
	"github.com/atelierbooks/facturio/internal/providers/email"
	"github.com/atelierbooks/facturio/internal/providers/pdf"
	stockdomain "github.com/atelierbooks/facturio/internal/stock/domain"
)

type Params struct {
	fx.In

	Log     *zap.Logger
	Repo    domain.Repository
	Stock   stockdomain.Service
	Company companydomain.Service
	Config  config.Config
	Render  *config.RenderSettingsHolder
	PDF     pdf.Provider
	Email   email.Provider
	Metrics *metrics.Metrics
	Node    *snowflake.Node
}

type service struct {
	log     *zap.Logger
	repo    domain.Repository
	stock   stockdomain.Service
	company companydomain.Service
	cfg     config.Config
	render  *config.RenderSettingsHolder
	pdf     pdf.Provider
	email   email.Provider
	metrics *metrics.Metrics
	node    *snowflake.Node
}

func New(p Params) domain.Service {
	return &service{
		log:     p.Log.Named("document.service"),
		repo:    p.Repo,
		stock:   p.Stock,
		company: p.Company,
		cfg:     p.Config,
		render:  p.Render,
		pdf:     p.PDF,
		email:   p.Email,
		metrics: p.Metrics,
		node:    p.Node,
	}
}

func (s *service) List(ctx context.Context, status domain.Status) ([]domain.Document, error) {
	docs, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if status == "" {
		return docs, nil
	}
	filtered := make([]domain.Document, 0, len(docs))
	for _, doc := range docs {
		if doc.Status == status {
			filtered = append(filtered, doc)
		}
	}
	return filtered, nil
}

func (s *service) Get(ctx context.Context, number string) (domain.Document, error) {
	doc, err := s.repo.FindByNumber(ctx, number)
	if err != nil {
		return domain.Document{}, err
	}
	if doc == nil {
		return domain.Document{}, domain.ErrNotFound
	}
	return *doc, nil
}

func (s *service) Totals(ctx context.Context, number string) (domain.Totals, error) {
	doc, err := s.Get(ctx, number)
	if err != nil {
		return domain.Totals{}, err
	}
	return pricing.Compute(doc.Items, doc.DiscountValue, doc.DiscountIsPercent), nil
}

func validateDraft(draft domain.Draft) error {
	if len(draft.Items) == 0 {
		return domain.ErrInvalidItems
	}
	for _, item := range draft.Items {
		if item.Quantity <= 0 {
			return domain.ErrInvalidQuantity
		}
		if item.UnitPrice < 0 {
			return domain.ErrInvalidPrice
		}
	}
	if draft.DiscountValue < 0 {
		return domain.ErrInvalidDiscount
	}
	if draft.DiscountIsPercent && draft.DiscountValue > 100 {
		return domain.ErrInvalidDiscount
	}
	return nil
}

func (s *service) CreateQuote(ctx context.Context, req domain.CreateQuoteRequest) (domain.Document, error) {
	if err := validateDraft(req.Draft); err != nil {
		return domain.Document{}, err
	}

	number := req.Number
	if number != "" {
		existing, err := s.repo.FindByNumber(ctx, number)
		if err != nil {
			return domain.Document{}, err
		}
		if existing != nil {
			return domain.Document{}, domain.ErrDuplicateNumber
		}
	} else {
		docs, err := s.repo.List(ctx)
		if err != nil {
			return domain.Document{}, err
		}
		numbers := make([]string, 0, len(docs))
		for _, doc := range docs {
			numbers = append(numbers, doc.Number)
		}
		number = format.NextNumber(req.Date, numbers)
	}

	doc := domain.Document{
		Number:            number,
		Date:              req.Date,
		Client:            req.Client,
		Items:             req.Items,
		DiscountValue:     req.DiscountValue,
		DiscountIsPercent: req.DiscountIsPercent,
		Place:             req.Place,
		Status:            domain.StatusQuote,
	}
	if err := s.repo.Upsert(ctx, doc); err != nil {
		return domain.Document{}, err
	}

	s.metrics.DocumentSaved(string(domain.StatusQuote))
	s.log.Info("quote created", zap.String("number", number))
	return doc, nil
}

func (s *service) UpdateQuote(ctx context.Context, number string, draft domain.Draft) (domain.Document, error) {
	doc, err := s.Get(ctx, number)
	if err != nil {
		return domain.Document{}, err
	}
	if doc.Status != domain.StatusQuote {
		return domain.Document{}, domain.ErrNotAQuote
	}
	if err := validateDraft(draft); err != nil {
		return domain.Document{}, err
	}

	doc.Date = draft.Date
	doc.Client = draft.Client
	doc.Items = draft.Items
	doc.DiscountValue = draft.DiscountValue
	doc.DiscountIsPercent = draft.DiscountIsPercent
	doc.Place = draft.Place

	if err := s.repo.Upsert(ctx, doc); err != nil {
		return domain.Document{}, err
	}

	s.metrics.DocumentSaved(string(domain.StatusQuote))
	s.log.Info("quote updated", zap.String("number", number))
	return doc, nil
}

func (s *service) ConvertToInvoice(ctx context.Context, number string) (domain.Document, error) {
	doc, err := s.Get(ctx, number)
	if err != nil {
		return domain.Document{}, err
	}
	if doc.Status == domain.StatusInvoice {
		return domain.Document{}, domain.ErrAlreadyInvoice
	}

	doc.Status = domain.StatusInvoice
	if err := s.repo.Upsert(ctx, doc); err != nil {
		return domain.Document{}, err
	}

	s.metrics.DocumentSaved(string(domain.StatusInvoice))
	s.log.Info("quote converted to invoice", zap.String("number", number))
	return doc, nil
}

func (s *service) SerialSlots(ctx context.Context, number string) ([]domain.SerialSlot, error) {
	doc, err := s.Get(ctx, number)
	if err != nil {
		return nil, err
	}
	if doc.Status != domain.StatusInvoice {
		return nil, domain.ErrNotAnInvoice
	}

	enumerated := serial.Enumerate(doc.Number, doc.Items)
	merged := serial.Merge(enumerated, doc.Serials, s.newUnitID)

	// The full ledger rather than available-only: a lot this invoice
	// already holds must stay selectable even when exhausted.
	lots, err := s.stock.List(ctx)
	if err != nil {
		return nil, err
	}
	return serial.Slots(merged, lots), nil
}

func (s *service) SaveInvoice(ctx context.Context, number string, req domain.SaveInvoiceRequest) (domain.Document, error) {
	doc, err := s.Get(ctx, number)
	if err != nil {
		return domain.Document{}, err
	}
	if doc.Status != domain.StatusInvoice {
		return domain.Document{}, domain.ErrNotAnInvoice
	}
	if err := validateDraft(req.Draft); err != nil {
		return domain.Document{}, err
	}

	enumerated := serial.Enumerate(number, req.Items)
	if len(req.Serials) != len(enumerated) {
		return domain.Document{}, domain.ErrSerialMismatch
	}
	for i, binding := range req.Serials {
		if binding.Serial != enumerated[i].Serial {
			return domain.Document{}, domain.ErrSerialMismatch
		}
		for _, use := range binding.Materials {
			if use.Qty <= 0 {
				return domain.Document{}, domain.ErrInvalidQuantity
			}
		}
	}

	stamped := s.stampUnitIDs(req.Serials, doc.Serials)

	// Reconcile the stock ledger before touching the record: a rejected
	// reconciliation leaves both the ledger and the document unchanged.
	oldCons := serial.Consumption(doc.Serials)
	newCons := serial.Consumption(stamped)
	if err := s.stock.Reconcile(ctx, oldCons, newCons); err != nil {
		return domain.Document{}, err
	}

	doc.Date = req.Date
	doc.Client = req.Client
	doc.Items = req.Items
	doc.DiscountValue = req.DiscountValue
	doc.DiscountIsPercent = req.DiscountIsPercent
	doc.Place = req.Place
	doc.Serials = stamped

	if err := s.repo.Upsert(ctx, doc); err != nil {
		return domain.Document{}, err
	}

	s.metrics.DocumentSaved(string(domain.StatusInvoice))
	s.log.Info("invoice saved",
		zap.String("number", number),
		zap.Int("units", doc.Units()),
	)
	return doc, nil
}

// stampUnitIDs carries stable unit identities from the stored bindings
// onto the submitted ones, matching by serial label, and mints fresh
// identities for labels never bound before.
func (s *service) stampUnitIDs(submitted, previous []domain.SerialBinding) []domain.SerialBinding {
	prevBySerial := make(map[string]string, len(previous))
	for _, binding := range previous {
		prevBySerial[binding.Serial] = binding.UnitID
	}

	stamped := make([]domain.SerialBinding, len(submitted))
	for i, binding := range submitted {
		if binding.UnitID == "" {
			binding.UnitID = prevBySerial[binding.Serial]
		}
		if binding.UnitID == "" {
			binding.UnitID = s.newUnitID()
		}
		stamped[i] = binding
	}
	return stamped
}

func (s *service) newUnitID() string {
	return s.node.Generate().String()
}

func (s *service) Render(ctx context.Context, number string) ([]byte, error) {
	doc, err := s.Get(ctx, number)
	if err != nil {
		return nil, err
	}

	data, err := s.buildRenderInput(ctx, doc)
	if err != nil {
		s.metrics.DocumentRendered("error")
		return nil, err
	}

	out, err := s.pdf.GenerateDocument(ctx, data)
	if err != nil {
		s.metrics.DocumentRendered("error")
		s.log.Error("document render failed", zap.String("number", number), zap.Error(err))
		return nil, err
	}
	s.metrics.DocumentRendered("ok")
	return out, nil
}

func (s *service) Send(ctx context.Context, number string, to string) error {
	doc, err := s.Get(ctx, number)
	if err != nil {
		return err
	}
	if to == "" {
		to = doc.Client.Email
	}
	if to == "" {
		return domain.ErrMailNotSet
	}

	out, err := s.Render(ctx, number)
	if err != nil {
		return err
	}

	label, filePrefix := "Devis", "devis"
	if doc.Status == domain.StatusInvoice {
		label, filePrefix = "Facture", "facture"
	}
	subject := fmt.Sprintf("%s N° %s", label, doc.Number)
	body := fmt.Sprintf("Bonjour,\r\n\r\nVeuillez trouver ci-joint le document %s.\r\n\r\nCordialement", doc.Number)

	err = s.email.Send(ctx, []string{to}, subject, body, email.Attachment{
		Filename: fmt.Sprintf("%s_%s.pdf", filePrefix, doc.Number),
		MIMEType: "application/pdf",
		Content:  out,
	})
	if err != nil {
		s.log.Error("document send failed", zap.String("number", number), zap.Error(err))
		return err
	}
	s.log.Info("document sent", zap.String("number", number), zap.String("to", to))
	return nil
}

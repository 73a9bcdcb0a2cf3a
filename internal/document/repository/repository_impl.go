package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	clientdomain "github.com/atelierbooks/facturio/internal/client/domain"
	"github.com/atelierbooks/facturio/internal/config"
	"github.com/atelierbooks/facturio/internal/document/domain"
	"github.com/atelierbooks/facturio/pkg/recordfile"
)

var columns = []string{
	"number", "date",
	"client_name", "client_address", "client_phone", "client_email", "client_city",
	"items", "discount_value", "discount_is_percent", "place", "status",
	"materials", "serials",
}

const dateLayout = "2006-01-02"

type repo struct {
	mu   sync.Mutex
	path string
	docs []domain.Document
}

// Provide loads quotes.csv into memory. Older records missing the
// materials or serials columns, or carrying unparseable values there,
// load with empty lists; the rest of the row is kept.
func Provide(cfg config.Config) (domain.Repository, error) {
	r := &repo{path: filepath.Join(cfg.DataDir, "quotes.csv")}

	rows, err := recordfile.Read(r.path)
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		doc, err := decode(row)
		if err != nil {
			return nil, fmt.Errorf("quotes.csv record %q: %w", row.Get("number"), err)
		}
		r.docs = append(r.docs, doc)
	}
	return r, nil
}

func (r *repo) List(ctx context.Context) ([]domain.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Document, len(r.docs))
	copy(out, r.docs)
	return out, nil
}

func (r *repo) FindByNumber(ctx context.Context, number string) (*domain.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, doc := range r.docs {
		if doc.Number == number {
			found := doc
			return &found, nil
		}
	}
	return nil, nil
}

func (r *repo) Upsert(ctx context.Context, doc domain.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	next := make([]domain.Document, len(r.docs))
	copy(next, r.docs)

	replaced := false
	for i := range next {
		if next[i].Number == doc.Number {
			next[i] = doc
			replaced = true
			break
		}
	}
	if !replaced {
		next = append(next, doc)
	}

	if err := r.flush(next); err != nil {
		return err
	}
	r.docs = next
	return nil
}

func (r *repo) flush(docs []domain.Document) error {
	rows := make([]recordfile.Row, 0, len(docs))
	for _, doc := range docs {
		row, err := encode(doc)
		if err != nil {
			return fmt.Errorf("encode document %s: %w", doc.Number, err)
		}
		rows = append(rows, row)
	}
	return recordfile.Write(r.path, columns, rows)
}

func decode(row recordfile.Row) (domain.Document, error) {
	date, err := time.Parse(dateLayout, row.Get("date"))
	if err != nil {
		return domain.Document{}, fmt.Errorf("parse date: %w", err)
	}

	var items []domain.LineItem
	if err := json.Unmarshal([]byte(row.Get("items")), &items); err != nil {
		return domain.Document{}, fmt.Errorf("parse items: %w", err)
	}

	discountValue, err := strconv.ParseFloat(row.Get("discount_value"), 64)
	if err != nil {
		return domain.Document{}, fmt.Errorf("parse discount_value: %w", err)
	}

	status := domain.Status(row.Get("status"))
	if status == "" {
		status = domain.StatusQuote
	}

	return domain.Document{
		Number: row.Get("number"),
		Date:   date,
		Client: clientdomain.Client{
			Name:    row.Get("client_name"),
			Address: row.Get("client_address"),
			Phone:   row.Get("client_phone"),
			Email:   row.Get("client_email"),
			City:    row.Get("client_city"),
		},
		Items:             items,
		DiscountValue:     discountValue,
		DiscountIsPercent: row.Get("discount_is_percent") == "True",
		Place:             row.Get("place"),
		Status:            status,
		Materials:         legacyList(row.Get("materials")),
		Serials:           decodeSerials(row.Get("serials")),
	}, nil
}

// legacyList keeps the legacy materials column as-is when it holds
// valid JSON, and degrades to an empty list otherwise.
func legacyList(raw string) json.RawMessage {
	if raw == "" || !json.Valid([]byte(raw)) {
		return json.RawMessage("[]")
	}
	return json.RawMessage(raw)
}

// decodeSerials degrades unparseable serial lists to empty rather than
// refusing the record.
func decodeSerials(raw string) []domain.SerialBinding {
	if raw == "" {
		return nil
	}
	var serials []domain.SerialBinding
	if err := json.Unmarshal([]byte(raw), &serials); err != nil {
		return nil
	}
	return serials
}

func encode(doc domain.Document) (recordfile.Row, error) {
	items, err := json.Marshal(doc.Items)
	if err != nil {
		return nil, err
	}

	materials := doc.Materials
	if len(materials) == 0 {
		materials = json.RawMessage("[]")
	}

	serials := []byte("[]")
	if len(doc.Serials) > 0 {
		if serials, err = json.Marshal(doc.Serials); err != nil {
			return nil, err
		}
	}

	return recordfile.Row{
		"number":              doc.Number,
		"date":                doc.Date.Format(dateLayout),
		"client_name":         doc.Client.Name,
		"client_address":      doc.Client.Address,
		"client_phone":        doc.Client.Phone,
		"client_email":        doc.Client.Email,
		"client_city":         doc.Client.City,
		"items":               string(items),
		"discount_value":      strconv.FormatFloat(doc.DiscountValue, 'f', -1, 64),
		"discount_is_percent": formatBool(doc.DiscountIsPercent),
		"place":               doc.Place,
		"status":              string(doc.Status),
		"materials":           string(materials),
		"serials":             string(serials),
	}, nil
}

// formatBool uses the True/False literals the historical record files
// carry.
func formatBool(v bool) string {
	if v {
		return "True"
	}
	return "False"
}

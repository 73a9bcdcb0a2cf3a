package repository

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	clientdomain "github.com/atelierbooks/facturio/internal/client/domain"
	"github.com/atelierbooks/facturio/internal/config"
	"github.com/atelierbooks/facturio/internal/document/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProvideMissingFile(t *testing.T) {
	repo, err := Provide(config.Config{DataDir: t.TempDir()})
	require.NoError(t, err)

	docs, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestLoadsLegacyRecordWithoutSerialColumns(t *testing.T) {
	// A record written before materials/serials existed.
	dir := t.TempDir()
	legacy := `number,date,client_name,client_address,client_phone,client_email,client_city,items,discount_value,discount_is_percent,place,status
20240101-001,2024-01-01,Durand,1 rue du Port,0600000000,durand@example.fr,Brest,"[{""description"": ""Sac"", ""unit_price"": 40.0, ""quantity"": 2}]",10.0,True,Brest,quote
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "quotes.csv"), []byte(legacy), 0o644))

	repo, err := Provide(config.Config{DataDir: dir})
	require.NoError(t, err)

	doc, err := repo.FindByNumber(context.Background(), "20240101-001")
	require.NoError(t, err)
	require.NotNil(t, doc)
	assert.Equal(t, domain.StatusQuote, doc.Status)
	assert.Equal(t, "Durand", doc.Client.Name)
	require.Len(t, doc.Items, 1)
	assert.Equal(t, 40.0, doc.Items[0].UnitPrice)
	assert.True(t, doc.DiscountIsPercent)
	assert.Empty(t, doc.Serials)
	assert.Equal(t, "[]", string(doc.Materials))
}

func TestMalformedSerialsDegradeToEmpty(t *testing.T) {
	dir := t.TempDir()
	record := `number,date,client_name,client_address,client_phone,client_email,client_city,items,discount_value,discount_is_percent,place,status,materials,serials
20240101-001,2024-01-01,Durand,,,,Brest,[],0,False,Brest,invoice,not json,{broken
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "quotes.csv"), []byte(record), 0o644))

	repo, err := Provide(config.Config{DataDir: dir})
	require.NoError(t, err)

	doc, err := repo.FindByNumber(context.Background(), "20240101-001")
	require.NoError(t, err)
	require.NotNil(t, doc)
	assert.Empty(t, doc.Serials)
	assert.Equal(t, "[]", string(doc.Materials))
}

func TestUpsertRoundTrip(t *testing.T) {
	dir := t.TempDir()
	repo, err := Provide(config.Config{DataDir: dir})
	require.NoError(t, err)

	doc := domain.Document{
		Number: "20250314-001",
		Date:   time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC),
		Client: clientdomain.Client{Name: "Durand", City: "Brest"},
		Items: []domain.LineItem{
			{Description: "Sac", UnitPrice: 40, Quantity: 2},
		},
		DiscountValue:     10,
		DiscountIsPercent: true,
		Place:             "Brest",
		Status:            domain.StatusQuote,
	}
	require.NoError(t, repo.Upsert(context.Background(), doc))

	// Mutate and upsert again under the same number.
	doc.Status = domain.StatusInvoice
	doc.Serials = []domain.SerialBinding{
		{UnitID: "u1", Serial: "20250314-001-001", Product: "Sac", Materials: []domain.MaterialUse{{Name: "Cuir", Lot: "L1", Qty: 2}}},
	}
	require.NoError(t, repo.Upsert(context.Background(), doc))

	// A fresh repository over the same directory sees the saved state.
	reloaded, err := Provide(config.Config{DataDir: dir})
	require.NoError(t, err)

	docs, err := reloaded.List(context.Background())
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, domain.StatusInvoice, docs[0].Status)
	require.Len(t, docs[0].Serials, 1)
	assert.Equal(t, "u1", docs[0].Serials[0].UnitID)
	assert.Equal(t, "L1", docs[0].Serials[0].Materials[0].Lot)
}

package serial

import (
	"fmt"
	"testing"

	"github.com/atelierbooks/facturio/internal/document/domain"
	stockdomain "github.com/atelierbooks/facturio/internal/stock/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("unit-%d", n)
	}
}

func TestEnumerate(t *testing.T) {
	items := []domain.LineItem{
		{Description: "Sac", UnitPrice: 40, Quantity: 2},
		{Description: "Ceinture", UnitPrice: 20, Quantity: 1},
	}

	bindings := Enumerate("20250314-001", items)
	require.Len(t, bindings, 3)
	assert.Equal(t, "20250314-001-001", bindings[0].Serial)
	assert.Equal(t, "Sac", bindings[0].Product)
	assert.Equal(t, "20250314-001-002", bindings[1].Serial)
	assert.Equal(t, "20250314-001-003", bindings[2].Serial)
	assert.Equal(t, "Ceinture", bindings[2].Product)
}

func TestMergeCarriesBindingsBySerial(t *testing.T) {
	items := []domain.LineItem{{Description: "Sac", Quantity: 2}}
	previous := []domain.SerialBinding{
		{UnitID: "unit-a", Serial: "X-001", Product: "Sac", Materials: []domain.MaterialUse{{Name: "Cuir", Lot: "L1", Qty: 2}}},
	}

	merged := Merge(Enumerate("X", items), previous, sequentialIDs())
	require.Len(t, merged, 2)

	assert.Equal(t, "unit-a", merged[0].UnitID)
	assert.Equal(t, []domain.MaterialUse{{Name: "Cuir", Lot: "L1", Qty: 2}}, merged[0].Materials)

	// The second unit is new: fresh identity, no materials.
	assert.Equal(t, "unit-1", merged[1].UnitID)
	assert.Empty(t, merged[1].Materials)
}

func TestMergeReorderReshufflesLabels(t *testing.T) {
	// Labels are positional: swapping the two items moves label X-001
	// onto the Ceinture unit, and the Sac's leather binding follows the
	// label, not the unit. This pins the known misattribution hazard of
	// positional numbering.
	previous := Merge(Enumerate("X", []domain.LineItem{
		{Description: "Sac", Quantity: 1},
		{Description: "Ceinture", Quantity: 1},
	}), nil, sequentialIDs())
	previous[0].Materials = []domain.MaterialUse{{Name: "Cuir", Lot: "L1", Qty: 2}}

	reordered := Merge(Enumerate("X", []domain.LineItem{
		{Description: "Ceinture", Quantity: 1},
		{Description: "Sac", Quantity: 1},
	}), previous, sequentialIDs())

	assert.Equal(t, "Ceinture", reordered[0].Product)
	assert.Equal(t, "X-001", reordered[0].Serial)
	assert.Equal(t, []domain.MaterialUse{{Name: "Cuir", Lot: "L1", Qty: 2}}, reordered[0].Materials)
}

func TestSlots(t *testing.T) {
	bindings := []domain.SerialBinding{
		{UnitID: "u1", Serial: "X-001", Product: "Sac", Materials: []domain.MaterialUse{{Name: "Cuir", Lot: "L1", Qty: 2}}},
		{UnitID: "u2", Serial: "X-002", Product: "Sac"},
	}
	lots := []stockdomain.Lot{
		{Name: "Cuir", LotNumber: "L1", Quantity: 3},
		{Name: "Laine", LotNumber: "L2", Quantity: 0},
		{Name: "Boucle", LotNumber: "L3", Quantity: 7},
	}

	slots := Slots(bindings, lots)
	require.Len(t, slots, 2)

	// First slot: L1 is selected with self-exclusive availability 3+2,
	// L2 is exhausted and hidden, L3 is offered.
	require.Len(t, slots[0].Options, 2)
	assert.Equal(t, domain.LotOption{Name: "Cuir", Lot: "L1", Available: 5, Selected: true, Qty: 2}, slots[0].Options[0])
	assert.Equal(t, "L3", slots[0].Options[1].Lot)
	assert.False(t, slots[0].Options[1].Selected)

	// Second slot holds nothing: plain availability.
	require.Len(t, slots[1].Options, 2)
	assert.Equal(t, 3, slots[1].Options[0].Available)
}

func TestSlotsKeepsExhaustedHeldLot(t *testing.T) {
	// A lot fully consumed by this serial must still be offered back to
	// it, otherwise the binding could never be edited down.
	bindings := []domain.SerialBinding{
		{Serial: "X-001", Product: "Sac", Materials: []domain.MaterialUse{{Name: "Cuir", Lot: "L1", Qty: 4}}},
	}
	lots := []stockdomain.Lot{{Name: "Cuir", LotNumber: "L1", Quantity: 0}}

	slots := Slots(bindings, lots)
	require.Len(t, slots[0].Options, 1)
	assert.Equal(t, 4, slots[0].Options[0].Available)
	assert.True(t, slots[0].Options[0].Selected)
}

func TestConsumption(t *testing.T) {
	bindings := []domain.SerialBinding{
		{Serial: "X-001", Materials: []domain.MaterialUse{{Name: "Cuir", Lot: "L1", Qty: 2}}},
	}

	units := Consumption(bindings)
	require.Len(t, units, 1)
	assert.Equal(t, "X-001", units[0].Serial)
	assert.Equal(t, []stockdomain.LotUse{{Name: "Cuir", Lot: "L1", Qty: 2}}, units[0].Uses)
}

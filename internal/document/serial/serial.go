// Package serial enumerates the serialized units of an invoice and
// carries lot bindings across edits.
//
// Serial labels derive purely from position: the k-th unit across all
// line items in listed order gets <number>-NNN. Labels are therefore
// recomputed on every edit, and reordering or resizing earlier items
// reshuffles which label lands on which physical unit. Bindings carry
// over by label, not by unit, so such edits can misattribute lot
// consumption; the stable UnitID stamped on each binding exists to make
// that drift observable.
package serial

import (
	"github.com/atelierbooks/facturio/internal/document/domain"
	"github.com/atelierbooks/facturio/internal/document/format"
	stockdomain "github.com/atelierbooks/facturio/internal/stock/domain"
)

// Enumerate produces one empty binding per physical unit, labeled in
// line-item order.
func Enumerate(number string, items []domain.LineItem) []domain.SerialBinding {
	var bindings []domain.SerialBinding
	k := 1
	for _, item := range items {
		for u := 0; u < item.Quantity; u++ {
			bindings = append(bindings, domain.SerialBinding{
				Serial:  format.Serial(number, k),
				Product: item.Description,
			})
			k++
		}
	}
	return bindings
}

// Merge carries materials and unit identity from previous bindings onto
// the enumerated slots, matching by serial label. Slots whose label has
// no previous binding get a fresh unit identity from newID.
func Merge(enumerated, previous []domain.SerialBinding, newID func() string) []domain.SerialBinding {
	prevBySerial := make(map[string]domain.SerialBinding, len(previous))
	for _, binding := range previous {
		prevBySerial[binding.Serial] = binding
	}

	merged := make([]domain.SerialBinding, len(enumerated))
	for i, slot := range enumerated {
		if prev, ok := prevBySerial[slot.Serial]; ok {
			slot.UnitID = prev.UnitID
			slot.Materials = prev.Materials
		}
		if slot.UnitID == "" {
			slot.UnitID = newID()
		}
		merged[i] = slot
	}
	return merged
}

// Slots builds the tracker view: each enumerated unit with its lot
// options. A lot is offered when it still holds stock or when this
// serial already consumes it; availability is self-exclusive, counting
// the serial's own prior reservation on top of the ledger quantity.
func Slots(bindings []domain.SerialBinding, lots []stockdomain.Lot) []domain.SerialSlot {
	slots := make([]domain.SerialSlot, 0, len(bindings))
	for _, binding := range bindings {
		held := make(map[string]int, len(binding.Materials))
		for _, m := range binding.Materials {
			held[m.Lot] = m.Qty
		}

		var options []domain.LotOption
		for _, lot := range lots {
			qty, selected := held[lot.LotNumber]
			if lot.Quantity <= 0 && !selected {
				continue
			}
			options = append(options, domain.LotOption{
				Name:      lot.Name,
				Color:     lot.Color,
				Lot:       lot.LotNumber,
				Available: lot.Quantity + qty,
				Selected:  selected,
				Qty:       qty,
			})
		}

		slots = append(slots, domain.SerialSlot{
			Serial:  binding.Serial,
			UnitID:  binding.UnitID,
			Product: binding.Product,
			Options: options,
		})
	}
	return slots
}

// Consumption converts bindings to the reconciliation engine's input.
func Consumption(bindings []domain.SerialBinding) []stockdomain.UnitConsumption {
	units := make([]stockdomain.UnitConsumption, 0, len(bindings))
	for _, binding := range bindings {
		uses := make([]stockdomain.LotUse, 0, len(binding.Materials))
		for _, m := range binding.Materials {
			uses = append(uses, stockdomain.LotUse{Name: m.Name, Lot: m.Lot, Qty: m.Qty})
		}
		units = append(units, stockdomain.UnitConsumption{Serial: binding.Serial, Uses: uses})
	}
	return units
}

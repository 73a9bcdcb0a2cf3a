package domain

import "sort"

// LotUse records how much of one lot a serialized unit consumes.
type LotUse struct {
	Name string `json:"name"`
	Lot  string `json:"lot"`
	Qty  int    `json:"qty"`
}

// UnitConsumption is the full lot consumption of one serialized unit,
// keyed by its serial identifier.
type UnitConsumption struct {
	Serial string
	Uses   []LotUse
}

// Delta is a pending ledger adjustment for one lot. A positive Qty
// consumes stock, a negative Qty credits it back.
type Delta struct {
	Lot string
	Qty int
}

// ComputeDeltas diffs the previous and edited consumption snapshots of
// one invoice and returns the net ledger adjustment per lot, sorted by
// lot number.
//
// This function is PURE:
// - No side effects
// - Fully deterministic
//
// Two passes are required. The first pass walks the edited state and
// charges the difference against whatever the same serial already held,
// so a kept lot is never double-counted. That pass can only see lots the
// serial still references, so a second pass walks the previous state and
// credits back every lot a serial dropped, and everything held by
// serials that no longer exist.
func ComputeDeltas(old, updated []UnitConsumption) []Delta {
	oldBySerial := make(map[string]UnitConsumption, len(old))
	for _, unit := range old {
		oldBySerial[unit.Serial] = unit
	}
	updatedBySerial := make(map[string]UnitConsumption, len(updated))
	for _, unit := range updated {
		updatedBySerial[unit.Serial] = unit
	}

	deltas := make(map[string]int)

	// Consumption pass: charge each (serial, lot) pair in the edited
	// state net of what that serial previously held for the same lot.
	for _, unit := range updated {
		prev := oldBySerial[unit.Serial]
		for _, use := range unit.Uses {
			deltas[use.Lot] += use.Qty - lotQty(prev, use.Lot)
		}
	}

	// Recredit pass: give back lots that went from bound to unbound,
	// which the diff above cannot express.
	for _, unit := range old {
		kept, stillExists := updatedBySerial[unit.Serial]
		for _, use := range unit.Uses {
			if stillExists && holdsLot(kept, use.Lot) {
				continue
			}
			deltas[use.Lot] -= use.Qty
		}
	}

	out := make([]Delta, 0, len(deltas))
	for lot, qty := range deltas {
		if qty == 0 {
			continue
		}
		out = append(out, Delta{Lot: lot, Qty: qty})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Lot < out[j].Lot })
	return out
}

func lotQty(unit UnitConsumption, lot string) int {
	for _, use := range unit.Uses {
		if use.Lot == lot {
			return use.Qty
		}
	}
	return 0
}

func holdsLot(unit UnitConsumption, lot string) bool {
	for _, use := range unit.Uses {
		if use.Lot == lot {
			return true
		}
	}
	return false
}

// ApplyDeltas returns a copy of lots with deltas applied, or
// ErrInsufficientStock if any lot would end up negative. Deltas for lot
// numbers absent from the ledger are ignored, matching the behavior of
// the stock editor which is free to delete lots still referenced by old
// invoices.
func ApplyDeltas(lots []Lot, deltas []Delta) ([]Lot, error) {
	byLot := make(map[string]int, len(lots))
	for i, lot := range lots {
		byLot[lot.LotNumber] = i
	}

	next := make([]Lot, len(lots))
	copy(next, lots)

	for _, delta := range deltas {
		i, ok := byLot[delta.Lot]
		if !ok {
			continue
		}
		remaining := next[i].Quantity - delta.Qty
		if remaining < 0 {
			return nil, ErrInsufficientStock
		}
		next[i].Quantity = remaining
	}
	return next, nil
}

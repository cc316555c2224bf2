package services

import "math"

// The availability calculator is pure: it works on snapshots already loaded
// from the ledger and never touches the database. The engine uses it to
// validate requests under row locks; controllers reuse it for advisory
// display, with the engine always re-validating.

// StockSnapshot is a read-only copy of one stock record's counters. A missing
// record is represented by the zero value.
type StockSnapshot struct {
	InTransit    int
	SemiFinished int
	Finished     int
	Shipped      int
}

// RequirementLine is one packaging requirement or BOM component, in
// declaration order.
type RequirementLine struct {
	ProductID uint
	Sku       string
	PerUnit   int
}

type bound struct {
	max    int
	factor string
}

// minBound picks the smallest bound; ties keep the earliest entry so the
// limiting factor follows declaration order.
func minBound(bounds []bound) (int, string) {
	if len(bounds) == 0 {
		return 0, ""
	}
	best := bounds[0]
	for _, b := range bounds[1:] {
		if b.max < best.max {
			best = b
		}
	}
	return best.max, best.factor
}

// MaxReceive is not constrained by stock; the purchase order balance is the
// caller's concern.
func MaxReceive() (int, string) {
	return math.MaxInt32, ""
}

// MaxConfirmReceipt is bounded by what is still in transit.
func MaxConfirmReceipt(sku string, own StockSnapshot) (int, string) {
	return own.InTransit, sku
}

// MaxPackage returns how many units can move from semi finished to finished,
// bounded by the item's own semi finished stock and by every required
// packaging material's finished stock.
func MaxPackage(sku string, own StockSnapshot, reqs []RequirementLine, packaging map[uint]StockSnapshot) (int, string) {
	bounds := []bound{{max: own.SemiFinished, factor: sku}}
	for _, r := range reqs {
		bounds = append(bounds, bound{
			max:    packaging[r.ProductID].Finished / r.PerUnit,
			factor: r.Sku,
		})
	}
	return minBound(bounds)
}

// MaxUnpack is bounded only by finished stock; restoring packaging is always
// safe and needs no upper-bound check.
func MaxUnpack(sku string, own StockSnapshot) (int, string) {
	return own.Finished, sku
}

func MaxShip(sku string, own StockSnapshot) (int, string) {
	return own.Finished, sku
}

// MaxAssemble returns how many combos can be assembled, bounded by each
// component's semi finished stock and each combo-level packaging material's
// finished stock. The limiting factor is the first strictly minimal item in
// declaration order.
func MaxAssemble(components []RequirementLine, base map[uint]StockSnapshot,
	packReqs []RequirementLine, packaging map[uint]StockSnapshot) (int, string) {

	if len(components) == 0 {
		return 0, ""
	}

	var bounds []bound
	for _, c := range components {
		bounds = append(bounds, bound{
			max:    base[c.ProductID].SemiFinished / c.PerUnit,
			factor: c.Sku,
		})
	}
	for _, p := range packReqs {
		bounds = append(bounds, bound{
			max:    packaging[p.ProductID].Finished / p.PerUnit,
			factor: p.Sku,
		})
	}
	return minBound(bounds)
}

func MaxDisassemble(sku string, combo StockSnapshot) (int, string) {
	return combo.Finished, sku
}

func MaxShipCombo(sku string, combo StockSnapshot) (int, string) {
	return combo.Finished, sku
}

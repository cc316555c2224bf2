package services

import "testing"

func TestMaxPackage(t *testing.T) {
	tests := []struct {
		name       string
		own        StockSnapshot
		reqs       []RequirementLine
		packaging  map[uint]StockSnapshot
		wantMax    int
		wantFactor string
	}{
		{
			name:       "no packaging required",
			own:        StockSnapshot{SemiFinished: 10},
			wantMax:    10,
			wantFactor: "X",
		},
		{
			name: "packaging bounds below own stock",
			own:  StockSnapshot{SemiFinished: 10},
			reqs: []RequirementLine{
				{ProductID: 2, Sku: "P", PerUnit: 2},
			},
			packaging:  map[uint]StockSnapshot{2: {Finished: 15}},
			wantMax:    7,
			wantFactor: "P",
		},
		{
			name: "own stock bounds below packaging",
			own:  StockSnapshot{SemiFinished: 3},
			reqs: []RequirementLine{
				{ProductID: 2, Sku: "P", PerUnit: 1},
			},
			packaging:  map[uint]StockSnapshot{2: {Finished: 100}},
			wantMax:    3,
			wantFactor: "X",
		},
		{
			name: "tie keeps earliest factor",
			own:  StockSnapshot{SemiFinished: 5},
			reqs: []RequirementLine{
				{ProductID: 2, Sku: "P1", PerUnit: 1},
				{ProductID: 3, Sku: "P2", PerUnit: 1},
			},
			packaging: map[uint]StockSnapshot{
				2: {Finished: 5},
				3: {Finished: 5},
			},
			wantMax:    5,
			wantFactor: "X",
		},
		{
			name: "missing packaging record means zero",
			own:  StockSnapshot{SemiFinished: 10},
			reqs: []RequirementLine{
				{ProductID: 2, Sku: "P", PerUnit: 1},
			},
			packaging:  map[uint]StockSnapshot{},
			wantMax:    0,
			wantFactor: "P",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			max, factor := MaxPackage("X", tc.own, tc.reqs, tc.packaging)
			if max != tc.wantMax {
				t.Errorf("max = %d, want %d", max, tc.wantMax)
			}
			if factor != tc.wantFactor {
				t.Errorf("factor = %q, want %q", factor, tc.wantFactor)
			}
		})
	}
}

func TestMaxAssemble(t *testing.T) {
	// 2xA + 1xB, A bounds at floor(5/2)=2, B at 3
	components := []RequirementLine{
		{ProductID: 1, Sku: "A", PerUnit: 2},
		{ProductID: 2, Sku: "B", PerUnit: 1},
	}
	base := map[uint]StockSnapshot{
		1: {SemiFinished: 5},
		2: {SemiFinished: 3},
	}

	max, factor := MaxAssemble(components, base, nil, nil)
	if max != 2 {
		t.Errorf("max = %d, want 2", max)
	}
	if factor != "A" {
		t.Errorf("factor = %q, want A", factor)
	}
}

func TestMaxAssembleComboPackagingBounds(t *testing.T) {
	components := []RequirementLine{
		{ProductID: 1, Sku: "A", PerUnit: 1},
	}
	base := map[uint]StockSnapshot{1: {SemiFinished: 10}}
	packReqs := []RequirementLine{
		{ProductID: 5, Sku: "BOX", PerUnit: 2},
	}
	packaging := map[uint]StockSnapshot{5: {Finished: 9}}

	max, factor := MaxAssemble(components, base, packReqs, packaging)
	if max != 4 {
		t.Errorf("max = %d, want 4", max)
	}
	if factor != "BOX" {
		t.Errorf("factor = %q, want BOX", factor)
	}
}

func TestMaxAssembleNoComponents(t *testing.T) {
	max, factor := MaxAssemble(nil, nil, nil, nil)
	if max != 0 || factor != "" {
		t.Errorf("got (%d, %q), want (0, \"\")", max, factor)
	}
}

func TestSingleBucketBounds(t *testing.T) {
	snap := StockSnapshot{InTransit: 4, SemiFinished: 3, Finished: 2, Shipped: 1}

	if max, factor := MaxConfirmReceipt("X", snap); max != 4 || factor != "X" {
		t.Errorf("MaxConfirmReceipt = (%d, %q)", max, factor)
	}
	if max, _ := MaxUnpack("X", snap); max != 2 {
		t.Errorf("MaxUnpack = %d, want 2", max)
	}
	if max, _ := MaxShip("X", snap); max != 2 {
		t.Errorf("MaxShip = %d, want 2", max)
	}
	if max, _ := MaxDisassemble("C", StockSnapshot{Finished: 6}); max != 6 {
		t.Errorf("MaxDisassemble = %d, want 6", max)
	}
	if max, _ := MaxShipCombo("C", StockSnapshot{Finished: 6}); max != 6 {
		t.Errorf("MaxShipCombo = %d, want 6", max)
	}
}

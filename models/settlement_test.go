package models

import "testing"

func inv(paid bool) *SupplierInvoice {
	return &SupplierInvoice{Paid: paid}
}

func TestDeriveSettlementStatus(t *testing.T) {
	cases := []struct {
		name         string
		partnerPaid  bool
		fundsCleared bool
		linked       []*SupplierInvoice
		want         SettlementStatus
	}{
		{"partner unpaid", false, false, nil, SettlementOpen},
		{"partner unpaid ignores suppliers", false, true, []*SupplierInvoice{inv(true)}, SettlementOpen},
		{"paid not cleared", true, false, nil, SettlementPaidNotCleared},
		{"paid not cleared ignores suppliers", true, false, []*SupplierInvoice{inv(false)}, SettlementPaidNotCleared},
		{"no supplier obligations", true, true, nil, SettlementSettled},
		{"all suppliers paid", true, true, []*SupplierInvoice{inv(true), inv(true)}, SettlementSettled},
		{"one supplier unpaid", true, true, []*SupplierInvoice{inv(true), inv(false)}, SettlementWaitingSuppliers},
		{"single unpaid supplier", true, true, []*SupplierInvoice{inv(false)}, SettlementWaitingSuppliers},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := DeriveSettlementStatus(tc.partnerPaid, tc.fundsCleared, tc.linked)
			if got != tc.want {
				t.Fatalf("DeriveSettlementStatus(%v, %v, %d invoices) = %s, want %s",
					tc.partnerPaid, tc.fundsCleared, len(tc.linked), got, tc.want)
			}
		})
	}
}

func TestDeriveSettlementStatus_Deterministic(t *testing.T) {
	linked := []*SupplierInvoice{inv(true), inv(false)}
	first := DeriveSettlementStatus(true, true, linked)
	for i := 0; i < 10; i++ {
		if got := DeriveSettlementStatus(true, true, linked); got != first {
			t.Fatalf("derivation is not deterministic: %s then %s", first, got)
		}
	}
}

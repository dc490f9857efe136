package models

// SettlementStatus is the derived lifecycle stage of a sales invoice's
// payment completeness across both partner and supplier sides. It is a pure
// function of its inputs, recomputed on every read; nothing stores it and
// no backward transition exists to model.
type SettlementStatus string

const (
	SettlementOpen             SettlementStatus = "OPEN"
	SettlementPaidNotCleared   SettlementStatus = "PAID_NOT_CLEARED"
	SettlementWaitingSuppliers SettlementStatus = "WAITING_SUPPLIERS"
	SettlementSettled          SettlementStatus = "SETTLED"
)

// DeriveSettlementStatus evaluates the rules in order, first match wins.
//
// An empty linked set yields SETTLED: once the partner has paid and funds
// cleared, no supplier obligation is outstanding. Observed behavior of the
// tracker — an order with genuinely no supplier cost settles immediately,
// and an order whose supplier invoices were never linked looks the same.
//
// Callers must only pass a linked set they actually verified. A failed
// lookup is not an empty set; surface that error instead of calling this.
func DeriveSettlementStatus(partnerPaid, fundsCleared bool, linked []*SupplierInvoice) SettlementStatus {
	if !partnerPaid {
		return SettlementOpen
	}
	if !fundsCleared {
		return SettlementPaidNotCleared
	}
	for _, inv := range linked {
		if !inv.Paid {
			return SettlementWaitingSuppliers
		}
	}
	return SettlementSettled
}

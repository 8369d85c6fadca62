package models

// StockEntry is the live quantity of one specific line-entry, labeled by its
// stock-keeping identity. Derived, never persisted.
type StockEntry struct {
	ReceiptID string       `json:"receiptId"`
	EntryID   string       `json:"entryId"`
	Identity  ItemIdentity `json:"identity"`
	Quantity  int          `json:"quantity"`
}

// StockView is the aggregated per-owner inventory computed from all live
// receipts: one entry per (receiptId, entryId) pair plus a running total per
// distinct item identity.
type StockView struct {
	OwnerID string       `json:"ownerId"`
	Entries []StockEntry `json:"entries"`
}

// Total returns the aggregated quantity for the given identity across all
// entries, the number shown to the user.
func (v StockView) Total(id ItemIdentity) int {
	total := 0
	for _, entry := range v.Entries {
		if entry.Identity == id.normalized() {
			total += entry.Quantity
		}
	}
	return total
}

// Totals returns the per-identity aggregation for the whole view.
func (v StockView) Totals() map[ItemIdentity]int {
	totals := make(map[ItemIdentity]int, len(v.Entries))
	for _, entry := range v.Entries {
		totals[entry.Identity] += entry.Quantity
	}
	return totals
}

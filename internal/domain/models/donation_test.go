package models

import "testing"

func TestIdentityMatching(t *testing.T) {
	shirt := ItemEntry{
		EntryID:  "e1",
		Category: CategoryClothing,
		Name:     "T-shirt",
		Quantity: 5,
		Gender:   GenderUnisex,
		Size:     "M",
	}

	identity := shirt.Identity()
	if !identity.Matches(shirt) {
		t.Fatal("entry must match its own identity")
	}

	other := shirt
	other.Size = "G"
	if identity.Matches(other) {
		t.Error("different garment size must not match")
	}

	other = shirt
	other.Gender = GenderFemale
	if identity.Matches(other) {
		t.Error("different gender must not match")
	}

	other = shirt
	other.Name = "Shirt"
	if identity.Matches(other) {
		t.Error("different name must not match")
	}
}

func TestIdentityFootwearNeverCrossMatchesGarmentSize(t *testing.T) {
	sneaker := ItemEntry{
		EntryID:  "e1",
		Category: CategoryFootwear,
		Name:     "Sneaker",
		Quantity: 2,
		Gender:   GenderMale,
		ShoeSize: "42",
	}

	// A clothing entry that happens to carry "42" in the garment size field
	// is a different stock-keeping unit.
	jacket := ItemEntry{
		EntryID:  "e2",
		Category: CategoryClothing,
		Name:     "Sneaker",
		Quantity: 2,
		Gender:   GenderMale,
		Size:     "42",
	}

	if sneaker.Identity().Matches(jacket) {
		t.Error("footwear shoe size must not match a garment size")
	}
	if jacket.Identity().Matches(sneaker) {
		t.Error("garment size must not match a footwear shoe size")
	}
}

func TestIdentityIgnoresStaleSizeField(t *testing.T) {
	// Legacy documents can carry a leftover garment size on footwear entries;
	// identity only reads the field the category uses.
	clean := ItemEntry{Category: CategoryFootwear, Name: "Boot", Gender: GenderFemale, ShoeSize: "37"}
	stale := clean
	stale.Size = "M"

	if clean.Identity() != stale.Identity() {
		t.Error("stale garment size on footwear must not change identity")
	}
}

func TestItemEntryValidate(t *testing.T) {
	tests := []struct {
		name    string
		entry   ItemEntry
		wantErr bool
	}{
		{"valid clothing", ItemEntry{Category: CategoryClothing, Name: "Coat", Quantity: 1, Gender: GenderUnisex, Size: "G"}, false},
		{"valid footwear", ItemEntry{Category: CategoryFootwear, Name: "Sandal", Quantity: 3, Gender: GenderFemale, ShoeSize: "36"}, false},
		{"empty name", ItemEntry{Category: CategoryClothing, Name: "  ", Quantity: 1, Gender: GenderUnisex, Size: "M"}, true},
		{"negative quantity", ItemEntry{Category: CategoryClothing, Name: "Coat", Quantity: -1, Gender: GenderUnisex, Size: "M"}, true},
		{"unknown category", ItemEntry{Category: "toy", Name: "Car", Quantity: 1, Gender: GenderUnisex, Size: "M"}, true},
		{"unknown gender", ItemEntry{Category: CategoryClothing, Name: "Coat", Quantity: 1, Gender: "kids", Size: "M"}, true},
		{"footwear without shoe size", ItemEntry{Category: CategoryFootwear, Name: "Boot", Quantity: 1, Gender: GenderMale, Size: "42"}, true},
		{"clothing with shoe size", ItemEntry{Category: CategoryClothing, Name: "Coat", Quantity: 1, Gender: GenderMale, Size: "M", ShoeSize: "42"}, true},
		{"zero quantity allowed", ItemEntry{Category: CategoryOther, Name: "Blanket", Quantity: 0, Gender: GenderUnisex, Size: "U"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.entry.Validate()
			if tt.wantErr && err == nil {
				t.Errorf("expected error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestStockViewTotals(t *testing.T) {
	shirt := ItemIdentity{Category: CategoryClothing, Name: "T-shirt", Gender: GenderUnisex, Size: "M"}
	boot := ItemIdentity{Category: CategoryFootwear, Name: "Boot", Gender: GenderMale, ShoeSize: "41"}

	view := StockView{
		OwnerID: "user-1",
		Entries: []StockEntry{
			{ReceiptID: "a", EntryID: "1", Identity: shirt, Quantity: 5},
			{ReceiptID: "b", EntryID: "1", Identity: shirt, Quantity: 3},
			{ReceiptID: "b", EntryID: "2", Identity: boot, Quantity: 2},
		},
	}

	if got := view.Total(shirt); got != 8 {
		t.Errorf("expected shirt total 8, got %d", got)
	}
	if got := view.Total(boot); got != 2 {
		t.Errorf("expected boot total 2, got %d", got)
	}

	totals := view.Totals()
	if len(totals) != 2 {
		t.Fatalf("expected 2 identities, got %d", len(totals))
	}
	if totals[shirt] != 8 || totals[boot] != 2 {
		t.Errorf("unexpected totals: %v", totals)
	}
}

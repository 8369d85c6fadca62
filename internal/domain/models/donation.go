package models

import (
	"errors"
	"strings"
	"time"
)

// Category enumerates the kinds of donated items handled by the ledger.
type Category string

const (
	CategoryAccessory Category = "accessory"
	CategoryClothing  Category = "clothing"
	CategoryFootwear  Category = "footwear"
	CategoryOther     Category = "other"
)

// Gender enumerates the target audience of a donated item.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderUnisex Gender = "unisex"
)

// ErrInvalidEntry indicates an item line-entry violates the model invariants.
var ErrInvalidEntry = errors.New("invalid item entry")

// ItemEntry is one item line inside a donation receipt. Exactly one of Size
// and ShoeSize is populated: Size for everything except footwear, ShoeSize
// for footwear (which is counted in pairs).
type ItemEntry struct {
	EntryID  string   `bson:"entryId" json:"entryId"`
	Category Category `bson:"category" json:"category"`
	Name     string   `bson:"name" json:"name"`
	Quantity int      `bson:"quantity" json:"quantity"`
	Gender   Gender   `bson:"gender" json:"gender"`
	Size     string   `bson:"size,omitempty" json:"size,omitempty"`
	ShoeSize string   `bson:"shoeSize,omitempty" json:"shoeSize,omitempty"`
}

// Receipt is one persisted donation-intake transaction. A receipt is created
// whole when the intake form is finalized, its items list is replaced in
// place on edits and withdrawals, and the document is deleted once the list
// becomes empty.
type Receipt struct {
	ID                string      `bson:"_id,omitempty" json:"id"`
	OwnerID           string      `bson:"ownerId" json:"ownerId"`
	CollectionPointID string      `bson:"collectionPointId,omitempty" json:"collectionPointId,omitempty"`
	ReceivedAt        time.Time   `bson:"receivedAt" json:"receivedAt"`
	Items             []ItemEntry `bson:"items" json:"items"`
}

// ItemIdentity is the composite key that groups line-entries into one
// stock-keeping unit across receipts: category, name, gender and the size
// field relevant to the category.
type ItemIdentity struct {
	Category Category `bson:"category" json:"category"`
	Name     string   `bson:"name" json:"name"`
	Gender   Gender   `bson:"gender" json:"gender"`
	Size     string   `bson:"size,omitempty" json:"size,omitempty"`
	ShoeSize string   `bson:"shoeSize,omitempty" json:"shoeSize,omitempty"`
}

// Identity projects the entry onto its stock-keeping identity. Only the size
// field matching the category is carried over, so a stray value in the other
// field can never influence matching.
func (e ItemEntry) Identity() ItemIdentity {
	id := ItemIdentity{
		Category: e.Category,
		Name:     e.Name,
		Gender:   e.Gender,
	}
	if e.Category == CategoryFootwear {
		id.ShoeSize = e.ShoeSize
	} else {
		id.Size = e.Size
	}
	return id
}

// Matches reports whether the entry denotes the same stock-keeping unit as
// the identity. This is the single comparison shared by the aggregator and
// the reconciliation engine; footwear shoe sizes are never compared against
// garment sizes.
func (id ItemIdentity) Matches(e ItemEntry) bool {
	return e.Identity() == id.normalized()
}

func (id ItemIdentity) normalized() ItemIdentity {
	if id.Category == CategoryFootwear {
		id.Size = ""
	} else {
		id.ShoeSize = ""
	}
	return id
}

// Validate checks the line-entry invariants: a non-empty name, a non-negative
// quantity, known enum values, and the size/shoeSize field determined by the
// category.
func (e ItemEntry) Validate() error {
	if strings.TrimSpace(e.Name) == "" {
		return errors.Join(ErrInvalidEntry, errors.New("name must not be empty"))
	}
	if e.Quantity < 0 {
		return errors.Join(ErrInvalidEntry, errors.New("quantity must not be negative"))
	}

	switch e.Category {
	case CategoryAccessory, CategoryClothing, CategoryFootwear, CategoryOther:
	default:
		return errors.Join(ErrInvalidEntry, errors.New("unknown category"))
	}

	switch e.Gender {
	case GenderMale, GenderFemale, GenderUnisex:
	default:
		return errors.Join(ErrInvalidEntry, errors.New("unknown gender"))
	}

	if e.Category == CategoryFootwear {
		if e.ShoeSize == "" || e.Size != "" {
			return errors.Join(ErrInvalidEntry, errors.New("footwear must carry shoeSize and no garment size"))
		}
	} else {
		if e.Size == "" || e.ShoeSize != "" {
			return errors.Join(ErrInvalidEntry, errors.New("non-footwear must carry size and no shoeSize"))
		}
	}

	return nil
}

package models

import "time"

// SnapshotLine is one aggregated identity total inside a stock snapshot.
type SnapshotLine struct {
	Identity ItemIdentity `bson:"identity" json:"identity"`
	Quantity int          `bson:"quantity" json:"quantity"`
}

// StockSnapshot is the scheduled daily aggregate of one owner's stock,
// persisted for reporting.
type StockSnapshot struct {
	ID        string         `bson:"_id,omitempty" json:"id"`
	OwnerID   string         `bson:"ownerId" json:"ownerId"`
	TakenAt   time.Time      `bson:"takenAt" json:"takenAt"`
	Lines     []SnapshotLine `bson:"lines" json:"lines"`
	TotalQty  int            `bson:"totalQty" json:"totalQty"`
	CreatedAt time.Time      `bson:"createdAt" json:"createdAt"`
}

package models

import "time"

// DestinationTypeONG is the only destination type realized transfers carry
// today; volunteers receive donations through the same flow in the intake
// app but outbound history is kept per NGO.
const DestinationTypeONG = "ONG"

// TransferredItem records how much of one stock-keeping unit actually left
// the stock, which on a partial withdrawal is less than what was requested.
type TransferredItem struct {
	Identity ItemIdentity `bson:"identity" json:"identity"`
	Quantity int          `bson:"quantity" json:"quantity"`
}

// RealizedTransfer is the append-only history record written after an
// outbound donation. Never mutated or deleted.
type RealizedTransfer struct {
	ID              string            `bson:"_id,omitempty" json:"id"`
	OwnerID         string            `bson:"ownerId" json:"ownerId"`
	DestinationID   string            `bson:"destinationId" json:"destinationId"`
	DestinationType string            `bson:"destinationType" json:"destinationType"`
	TransferredAt   time.Time         `bson:"transferredAt" json:"transferredAt"`
	Items           []TransferredItem `bson:"items" json:"items"`
}

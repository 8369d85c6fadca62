package models

import "time"

// Address holds the location fields shared by every registered partner.
// Street and district are usually filled from a postal-code lookup.
type Address struct {
	PostalCode string `bson:"postalCode" json:"postalCode"`
	Street     string `bson:"street" json:"street"`
	Number     string `bson:"number" json:"number"`
	District   string `bson:"district" json:"district"`
	City       string `bson:"city" json:"city"`
	State      string `bson:"state" json:"state"`
}

// NGO is a registered receiving organization. The registration number is
// stored verbatim; checksum validation happens outside this service.
type NGO struct {
	ID                 string    `bson:"_id,omitempty" json:"id"`
	OwnerID            string    `bson:"ownerId" json:"ownerId"`
	Name               string    `bson:"name" json:"name"`
	RegistrationNumber string    `bson:"registrationNumber" json:"registrationNumber"`
	Phone              string    `bson:"phone" json:"phone"`
	Email              string    `bson:"email" json:"email"`
	Address            Address   `bson:"address" json:"address"`
	CreatedAt          time.Time `bson:"createdAt" json:"createdAt"`
}

// Volunteer is a registered individual donor or helper.
type Volunteer struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	OwnerID   string    `bson:"ownerId" json:"ownerId"`
	Name      string    `bson:"name" json:"name"`
	Document  string    `bson:"document" json:"document"`
	Phone     string    `bson:"phone" json:"phone"`
	Email     string    `bson:"email" json:"email"`
	Address   Address   `bson:"address" json:"address"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

// CollectionPoint is a physical place where donations are received.
type CollectionPoint struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	OwnerID   string    `bson:"ownerId" json:"ownerId"`
	Name      string    `bson:"name" json:"name"`
	Phone     string    `bson:"phone" json:"phone"`
	Address   Address   `bson:"address" json:"address"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

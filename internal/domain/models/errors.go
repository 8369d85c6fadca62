package models

import "errors"

// Store-level sentinels shared by every repository implementation so the
// services can branch on them without knowing the backing store.
var (
	ErrReceiptNotFound = errors.New("receipt not found")
	ErrEntryNotFound   = errors.New("item entry not found")
	ErrPartnerNotFound = errors.New("partner not found")
)

package services

import (
	"portfolio-tracker/models"
)

// Identity is the authenticated caller, produced once at the HTTP boundary
// from the bearer token. User ids are integers end to end; no string
// comparisons anywhere.
type Identity struct {
	UserID  uint
	IsAdmin bool
}

// CanAccessPortfolio is the owner-or-admin rule applied uniformly to every
// portfolio-scoped read and write. Transactions and owned assets are checked
// through their owning portfolio.
func CanAccessPortfolio(ident Identity, portfolio *models.Portfolio) bool {
	return ident.IsAdmin || ident.UserID == portfolio.UserID
}

// CanAccessUser guards user-level mutations such as account deletion.
func CanAccessUser(ident Identity, userID uint) bool {
	return ident.IsAdmin || ident.UserID == userID
}

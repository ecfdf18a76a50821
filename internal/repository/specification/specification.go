package specification

import "gorm.io/gorm"

// Specification is a composable query predicate. Repositories apply
// each one to the base query before executing it.
type Specification interface {
	Apply(db *gorm.DB) *gorm.DB
}

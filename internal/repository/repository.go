package repository

import (
	"errors"

	"gorm.io/gorm"
)

// Order is a resolved sort clause. Column is a real database column name;
// services translate and whitelist API sort fields before building one.
type Order struct {
	Column string
	Desc   bool
}

func (o Order) clause() string {
	dir := "asc"
	if o.Desc {
		dir = "desc"
	}
	return o.Column + " " + dir
}

// IsNotFound reports whether the store error means the row does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// IsDuplicate reports whether the store error is a unique-constraint
// violation. The gorm TranslateError option normalizes driver-specific
// duplicate-key errors, so callers never inspect driver codes.
func IsDuplicate(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

package domain

import (
	"time"

	"cloud.google.com/go/civil"
	"gorm.io/datatypes"
)

// CivilDate converts a persisted date to a calendar date.
func CivilDate(d datatypes.Date) civil.Date {
	return civil.DateOf(time.Time(d))
}

// CivilDatePtr converts an optional persisted date; nil stays nil.
func CivilDatePtr(d *datatypes.Date) *civil.Date {
	if d == nil {
		return nil
	}
	c := CivilDate(*d)
	return &c
}

// StoreDate converts a calendar date to its persisted form at UTC midnight.
func StoreDate(d civil.Date) datatypes.Date {
	return datatypes.Date(d.In(time.UTC))
}

func StoreDatePtr(d *civil.Date) *datatypes.Date {
	if d == nil {
		return nil
	}
	v := StoreDate(*d)
	return &v
}

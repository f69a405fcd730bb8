package models

import "fmt"

// Category is the fixed set of bill categories.
type Category string

const (
	CategoryGroceries Category = "Groceries"
	CategoryRent      Category = "Rent"
	CategoryUtilities Category = "Utilities"
	CategoryDining    Category = "Dining"
	CategoryFun       Category = "Fun"
	CategoryOther     Category = "Other"
)

var allCategories = []Category{
	CategoryGroceries,
	CategoryRent,
	CategoryUtilities,
	CategoryDining,
	CategoryFun,
	CategoryOther,
}

// AllCategories returns every category in display order.
func AllCategories() []Category {
	out := make([]Category, len(allCategories))
	copy(out, allCategories)
	return out
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	for _, known := range allCategories {
		if c == known {
			return true
		}
	}
	return false
}

// ParseCategory converts a string into a Category.
func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if !c.Valid() {
		return "", fmt.Errorf("unknown category %q", s)
	}
	return c, nil
}

// NormalizeCategory backfills records written before bills carried a category.
// An empty category becomes Other; anything else is returned unchanged.
func NormalizeCategory(c Category) Category {
	if c == "" {
		return CategoryOther
	}
	return c
}

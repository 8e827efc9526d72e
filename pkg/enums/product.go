package enums

import (
	"fmt"
	"strings"
)

// ProductCategory represents the sweet families the catalog is grouped by.
type ProductCategory string

const (
	ProductCategoryLaddu      ProductCategory = "LADDU"
	ProductCategoryBarfi      ProductCategory = "BARFI"
	ProductCategoryRasgulla   ProductCategory = "RASGULLA"
	ProductCategorySandesh    ProductCategory = "SANDESH"
	ProductCategoryGulabJamun ProductCategory = "GULAB_JAMUN"
	ProductCategoryHalwa      ProductCategory = "HALWA"
	ProductCategoryJalebi     ProductCategory = "JALEBI"
	ProductCategoryKheer      ProductCategory = "KHEER"
)

var validProductCategories = []ProductCategory{
	ProductCategoryLaddu,
	ProductCategoryBarfi,
	ProductCategoryRasgulla,
	ProductCategorySandesh,
	ProductCategoryGulabJamun,
	ProductCategoryHalwa,
	ProductCategoryJalebi,
	ProductCategoryKheer,
}

// String implements fmt.Stringer.
func (c ProductCategory) String() string {
	return string(c)
}

// IsValid reports whether the value is a known ProductCategory.
func (c ProductCategory) IsValid() bool {
	for _, candidate := range validProductCategories {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseProductCategory converts raw input into a ProductCategory. Matching is case-insensitive.
func ParseProductCategory(value string) (ProductCategory, error) {
	normalized := strings.ToUpper(strings.TrimSpace(value))
	for _, candidate := range validProductCategories {
		if string(candidate) == normalized {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid product category %q", value)
}

// ProductCategories lists every category in display order.
func ProductCategories() []ProductCategory {
	out := make([]ProductCategory, len(validProductCategories))
	copy(out, validProductCategories)
	return out
}

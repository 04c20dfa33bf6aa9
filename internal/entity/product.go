package entity

import "github.com/shopspring/decimal"

type ProductCategory string

const (
	CategoryBurger   ProductCategory = "BURGER"
	CategorySideDish ProductCategory = "SIDE_DISH"
	CategoryBeverage ProductCategory = "BEVERAGE"
	CategoryDessert  ProductCategory = "DESSERT"
)

func (c ProductCategory) Valid() bool {
	switch c {
	case CategoryBurger, CategorySideDish, CategoryBeverage, CategoryDessert:
		return true
	}
	return false
}

// Product is read-only from the core's perspective. Price is
// authoritative from the catalog store at read time.
type Product struct {
	ID          string
	Name        string
	Description string
	Price       decimal.Decimal
	Category    ProductCategory
	ImageURL    string
}

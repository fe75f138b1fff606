package models

// PackageType identifies a purchasable package.
type PackageType string

const (
	PackageSingle PackageType = "single"
	PackageFull   PackageType = "full"
)

// Package is a catalog entry: the points credited and the price charged.
type Package struct {
	Name   string `json:"name"`
	Points int64  `json:"points"`
	Price  int64  `json:"price"`
}

// Catalog maps package identifiers to their fixed point credit and price.
type Catalog map[PackageType]Package

// DefaultCatalog returns the packages offered when no catalog is configured.
func DefaultCatalog() Catalog {
	return Catalog{
		PackageSingle: {Name: "Single Language (300 pts)", Points: 300, Price: 15000},
		PackageFull:   {Name: "Full Access 7-in-1 (2,100 pts)", Points: 2100, Price: 49000},
	}
}

// Lookup returns the package for t.
func (c Catalog) Lookup(t PackageType) (Package, bool) {
	p, ok := c[t]
	return p, ok
}

// Matches reports whether points and amount are exactly the catalog values
// for t.
func (c Catalog) Matches(t PackageType, points, amount int64) bool {
	p, ok := c[t]
	return ok && p.Points == points && p.Price == amount
}

package querycache

import "pricewatch/internal/domain"

// Typed accessors over the untyped store. A present entry of the wrong
// type counts as a miss; it can only mean a key collision and the caller
// should refetch.

// Products returns the cached product list.
func Products(c *Cache) ([]*domain.Product, bool) {
	v, ok := c.Get(ProductsKey())
	if !ok {
		return nil, false
	}
	products, ok := v.([]*domain.Product)
	return products, ok
}

// SetProducts replaces the cached product list.
func SetProducts(c *Cache, products []*domain.Product) {
	c.Set(ProductsKey(), products)
}

// RetailerLinks returns the cached retailer link list of a product.
func RetailerLinks(c *Cache, productID string) ([]*domain.ProductRetailerLink, bool) {
	v, ok := c.Get(RetailerLinksKey(productID))
	if !ok {
		return nil, false
	}
	links, ok := v.([]*domain.ProductRetailerLink)
	return links, ok
}

// SetRetailerLinks replaces the cached retailer link list of a product.
func SetRetailerLinks(c *Cache, productID string, links []*domain.ProductRetailerLink) {
	c.Set(RetailerLinksKey(productID), links)
}

// Checks returns the cached checks of a product for a time range.
func Checks(c *Cache, productID string, r domain.TimeRange) ([]*domain.AvailabilityCheck, bool) {
	v, ok := c.Get(ChecksKey(productID, r))
	if !ok {
		return nil, false
	}
	checks, ok := v.([]*domain.AvailabilityCheck)
	return checks, ok
}

// SetChecks replaces the cached checks of a product for a time range.
func SetChecks(c *Cache, productID string, r domain.TimeRange, checks []*domain.AvailabilityCheck) {
	c.Set(ChecksKey(productID, r), checks)
}

// LatestCheck returns the cached latest check of a product.
func LatestCheck(c *Cache, productID string) (*domain.AvailabilityCheck, bool) {
	v, ok := c.Get(LatestCheckKey(productID))
	if !ok {
		return nil, false
	}
	check, ok := v.(*domain.AvailabilityCheck)
	return check, ok
}

// SetLatestCheck replaces the cached latest check of a product.
func SetLatestCheck(c *Cache, productID string, check *domain.AvailabilityCheck) {
	c.Set(LatestCheckKey(productID), check)
}

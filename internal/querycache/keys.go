package querycache

import "pricewatch/internal/domain"

// Cache key builders. Keys are flat strings with "|"-separated segments,
// one per query parameter.

// ProductsKey caches the full product list.
func ProductsKey() Key {
	return "products"
}

// RetailerLinksKey caches the retailer link list of one product.
func RetailerLinksKey(productID string) Key {
	return Key("retailer-links|" + productID)
}

// ChecksKey caches the availability checks of one product for a time
// range.
func ChecksKey(productID string, r domain.TimeRange) Key {
	return Key("checks|" + productID + "|" + string(r))
}

// LatestCheckKey caches the most recent check of one product.
func LatestCheckKey(productID string) Key {
	return Key("latest-check|" + productID)
}

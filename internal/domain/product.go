package domain

import "time"

// Product is a tracked product. Products are owned by the backend; the
// client holds them in the query cache and reorders them optimistically.
type Product struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	URL       string    `json:"url,omitempty"` // legacy single-retailer URL, empty when links exist
	SortOrder int       `json:"sort_order"`    // display order, dense 0-based among all products
	CreatedAt time.Time `json:"created_at"`
}

// ProductRetailerLink associates a product with a retailer URL.
//
// Invariant: SortOrder is a dense 0-based sequence among siblings of the
// same product after any reorder operation.
type ProductRetailerLink struct {
	ID         string    `json:"id"`
	ProductID  string    `json:"product_id"`
	RetailerID string    `json:"retailer_id"`
	URL        string    `json:"url"`
	Label      *string   `json:"label"` // nil = derive display label from URL host
	SortOrder  int       `json:"sort_order"`
	CreatedAt  time.Time `json:"created_at"`
}

// ReorderItem is one {id, sort_order} pair of a reorder request, sent in
// the same order as the reordered list.
type ReorderItem struct {
	ID        string `json:"id"`
	SortOrder int    `json:"sort_order"`
}

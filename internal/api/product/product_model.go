package product

// CreateProductRequest represents the expected JSON body for product creation.
// UserID is accepted so existing clients don't break, but it is always
// discarded; ownership comes from the verified token claim.
type CreateProductRequest struct {
	Name        string  `json:"name" example:"Chair"`
	Description *string `json:"description,omitempty"`
	Price       float64 `json:"price" example:"10"`
	ImageURL    *string `json:"image_url,omitempty"`
	UserID      int64   `json:"user_id,omitempty"`
}

// CreateProductResponse returns the id of the newly created product.
type CreateProductResponse struct {
	ProductID int64 `json:"productId"`
}

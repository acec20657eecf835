package dto

// StockChangeInput describes a sale or restock of one product, optionally one size.
type StockChangeInput struct {
	ProductID   string `json:"product_id"`
	Size        string `json:"selected_size"`
	Quantity    int    `json:"quantity"`
	ReferenceID string `json:"reference_id"`
	Notes       string `json:"notes"`
	OperatorID  string `json:"-"`
}

// StockChange is what the repository applies inside one transaction.
type StockChange struct {
	ProductID    string
	Size         string
	Delta        int
	MovementType string
	ReferenceID  string
	Notes        string
	OperatorID   string
}

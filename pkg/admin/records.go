package admin

// Typed records for the common resource types. Records cover the known,
// stable fields; the dynamic attribute map on Resource remains the open
// extension surface for fields a newer API version may add. Decode an
// instance into a record with Resource.Decode and write one back with
// Resource.SetFrom.

// Product represents a product resource.
type Product struct {
	ID          int64     `json:"id,omitempty"`
	Title       string    `json:"title,omitempty"`
	BodyHTML    string    `json:"body_html,omitempty"`
	Vendor      string    `json:"vendor,omitempty"`
	ProductType string    `json:"product_type,omitempty"`
	Handle      string    `json:"handle,omitempty"`
	Status      string    `json:"status,omitempty"`
	Tags        string    `json:"tags,omitempty"`
	CreatedAt   string    `json:"created_at,omitempty"`
	UpdatedAt   string    `json:"updated_at,omitempty"`
	PublishedAt string    `json:"published_at,omitempty"`
	Variants    []Variant `json:"variants,omitempty"`
}

// Variant represents a product variant resource.
type Variant struct {
	ID                int64  `json:"id,omitempty"`
	ProductID         int64  `json:"product_id,omitempty"`
	Title             string `json:"title,omitempty"`
	Price             string `json:"price,omitempty"`
	SKU               string `json:"sku,omitempty"`
	Position          int    `json:"position,omitempty"`
	InventoryQuantity int    `json:"inventory_quantity,omitempty"`
	CreatedAt         string `json:"created_at,omitempty"`
	UpdatedAt         string `json:"updated_at,omitempty"`
}

// Order represents an order resource.
type Order struct {
	ID                int64      `json:"id,omitempty"`
	Name              string     `json:"name,omitempty"`
	Email             string     `json:"email,omitempty"`
	OrderNumber       int        `json:"order_number,omitempty"`
	FinancialStatus   string     `json:"financial_status,omitempty"`
	FulfillmentStatus string     `json:"fulfillment_status,omitempty"`
	Currency          string     `json:"currency,omitempty"`
	TotalPrice        string     `json:"total_price,omitempty"`
	CreatedAt         string     `json:"created_at,omitempty"`
	UpdatedAt         string     `json:"updated_at,omitempty"`
	LineItems         []LineItem `json:"line_items,omitempty"`
}

// LineItem represents one line of an order.
type LineItem struct {
	ID        int64  `json:"id,omitempty"`
	VariantID int64  `json:"variant_id,omitempty"`
	ProductID int64  `json:"product_id,omitempty"`
	Title     string `json:"title,omitempty"`
	Quantity  int    `json:"quantity,omitempty"`
	Price     string `json:"price,omitempty"`
}

// Customer represents a customer resource.
type Customer struct {
	ID          int64  `json:"id,omitempty"`
	Email       string `json:"email,omitempty"`
	FirstName   string `json:"first_name,omitempty"`
	LastName    string `json:"last_name,omitempty"`
	Phone       string `json:"phone,omitempty"`
	State       string `json:"state,omitempty"`
	OrdersCount int    `json:"orders_count,omitempty"`
	TotalSpent  string `json:"total_spent,omitempty"`
	CreatedAt   string `json:"created_at,omitempty"`
	UpdatedAt   string `json:"updated_at,omitempty"`
}

package domain

// Product is catalog reference data. The checkout core only reads it; prices
// here are authoritative over anything a client sends.
type Product struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	PictureURL  string  `json:"picture_url"`
	Price       float64 `json:"price"`
	AuditInfo
}

type DeliveryMethod struct {
	ID           int64   `json:"id"`
	ShortName    string  `json:"short_name"`
	Description  string  `json:"description"`
	Cost         float64 `json:"cost"`
	DeliveryTime string  `json:"delivery_time"`
	AuditInfo
}

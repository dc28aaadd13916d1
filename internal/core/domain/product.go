package domain

// ProductStatus is a product's stage in the supply chain.
type ProductStatus int

const (
	ProductCreated ProductStatus = iota
	ProductManufacturingComplete
	ProductShippedToDistributor
	ProductReceivedByDistributor
	ProductShippedToRetailer
	ProductReceivedByRetailer
	ProductAvailableForSale
	ProductSold
)

var productStatusNames = []string{
	"Created",
	"Manufacturing Complete",
	"Shipped to Distributor",
	"Received by Distributor",
	"Shipped to Retailer",
	"Received by Retailer",
	"Available for Sale",
	"Sold",
}

func (s ProductStatus) String() string {
	if s < 0 || int(s) >= len(productStatusNames) {
		return "Unknown"
	}
	return productStatusNames[s]
}

// Valid reports whether s is a known stage.
func (s ProductStatus) Valid() bool {
	return s >= ProductCreated && s <= ProductSold
}

// ProductToken describes the token minted to represent a physical product.
// Quantity only applies to fungible batches.
type ProductToken struct {
	Name     string `json:"name"`
	SKU      string `json:"sku,omitempty"`
	Fungible bool   `json:"fungible,omitempty"`
	Quantity int64  `json:"quantity,omitempty"`
}

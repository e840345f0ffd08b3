package bike

// Bike is one catalog entry and maps to the `bikes` table.
// Category is stored in the `type` column and keeps that name on the wire.
type Bike struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Category    string  `json:"type"`
	Price       float64 `json:"price"`
	Description *string `json:"description"`
}

// SeedBikes is inserted by SeedIfEmpty when the table has no rows.
var SeedBikes = []Bike{
	{Name: "City Cruiser", Category: "City", Price: 299.99, Description: ptrString("Perfect for urban commuting")},
	{Name: "Mountain Explorer", Category: "Mountain", Price: 599.99, Description: ptrString("Built for off-road adventures")},
	{Name: "Road Racer", Category: "Road", Price: 899.99, Description: ptrString("High-performance road bike")},
	{Name: "Folding Compact", Category: "Folding", Price: 399.99, Description: ptrString("Portable and space-saving")},
	{Name: "Electric E-Bike", Category: "Electric", Price: 1499.99, Description: ptrString("Powered assistance for easy riding")},
}

func ptrString(s string) *string { return &s }

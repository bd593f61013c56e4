package domain

// Warehouse is a read-only reference owned by the directory collaborator.
// The ledger consumes warehouse identities but never manages their
// lifecycle.
type Warehouse struct {
	ID       string
	Name     string
	Location string
	Address  string
}

// Product is a read-only reference owned by the catalog collaborator.
type Product struct {
	ID   string
	SKU  string
	Name string
	Unit string
}

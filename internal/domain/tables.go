package domain

var Tables = []interface{}{
	// Catalog
	&SiteContentDocument{},
	// Orders
	&Order{},
	// Customers
	&User{},
	&SavedAddress{},
}

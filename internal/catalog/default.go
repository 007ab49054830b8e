package catalog

var defaultCartons = []Carton{
	{ID: "C-0606", Description: "6 x 6 x 6 Carton", Length: 6, Width: 6, Height: 6},
	{ID: "C-0806", Description: "8 x 6 x 4 Carton", Length: 8, Width: 6, Height: 4},
	{ID: "C-1008", Description: "10 x 8 x 6 Carton", Length: 10, Width: 8, Height: 6},
	{ID: "C-1212", Description: "12 x 12 x 12 Carton", Length: 12, Width: 12, Height: 12},
	{ID: "C-1410", Description: "14 x 10 x 8 Carton", Length: 14, Width: 10, Height: 8},
	{ID: "C-1612", Description: "16 x 12 x 10 Carton", Length: 16, Width: 12, Height: 10},
	{ID: "C-1818", Description: "18 x 18 x 18 Carton", Length: 18, Width: 18, Height: 18},
	{ID: "C-2020", Description: "20 x 20 x 20 Carton", Length: 20, Width: 20, Height: 20},
	{ID: "C-2418", Description: "24 x 18 x 12 Carton", Length: 24, Width: 18, Height: 12},
}

var defaultPackages = []Package{
	{ID: "PKG-S", Length: 4, Width: 3, Height: 2},
	{ID: "PKG-M", Length: 6, Width: 4, Height: 4},
	{ID: "PKG-L", Length: 10, Width: 8, Height: 6},
}

// Default returns a copy of the built-in catalog used when no file is configured.
func Default() Catalog {
	return Catalog{Cartons: defaultCartons, Packages: defaultPackages}.Clone()
}

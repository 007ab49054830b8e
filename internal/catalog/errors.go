package catalog

import "errors"

var (
	// ErrNoCartons is returned when a catalog holds no cartons.
	ErrNoCartons = errors.New("catalog contains no cartons")
	// ErrInvalidRecord is returned for rows with missing or non-positive dimensions.
	ErrInvalidRecord = errors.New("invalid catalog record")
	// ErrUnsupportedFormat is returned for catalog files that are neither YAML nor XLSX.
	ErrUnsupportedFormat = errors.New("unsupported catalog format")
	// ErrMissingSheet is returned when a workbook lacks the Cartons sheet.
	ErrMissingSheet = errors.New("workbook has no Cartons sheet")
	// ErrUnknownPackage is returned when a package preset cannot be found.
	ErrUnknownPackage = errors.New("unknown package")
	// ErrUnknownCarton is returned when a carton cannot be found.
	ErrUnknownCarton = errors.New("unknown carton")
)

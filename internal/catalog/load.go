package catalog

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"
)

const (
	cartonsSheet  = "Cartons"
	packagesSheet = "Packages"
)

// Header aliases, lowercase. The first entries match the original workbook.
var (
	cartonHeaders = map[string][]string{
		"id":          {"carton_id", "carton id", "id", "sku"},
		"description": {"description", "desc", "name", "label"},
		"length":      {"id length (in)", "length (in)", "length", "len"},
		"width":       {"id width (in)", "width (in)", "width"},
		"height":      {"id height (in)", "height (in)", "height", "id depth (in)", "depth"},
		"max_weight":  {"max weight (lb)", "max weight", "max_weight"},
	}
	packageHeaders = map[string][]string{
		"id":     {"package_id", "package id", "id", "sku", "name"},
		"length": {"pkg_lngth_in", "pkg_length_in", "length (in)", "length"},
		"width":  {"pkg_width_in", "width (in)", "width"},
		"height": {"pkg_depth_in", "pkg_height_in", "height (in)", "height", "depth"},
		"weight": {"pkg_weight_lb", "weight (lb)", "weight"},
	}
)

// Load reads a catalog file, choosing the decoder from the file extension.
func Load(path string) (Catalog, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		f, err := os.Open(path)
		if err != nil {
			return Catalog{}, fmt.Errorf("open catalog: %w", err)
		}
		defer f.Close()
		return LoadYAML(f)
	case ".xlsx", ".xlsm":
		f, err := excelize.OpenFile(path)
		if err != nil {
			return Catalog{}, fmt.Errorf("open workbook: %w", err)
		}
		defer f.Close()
		return loadWorkbook(f)
	default:
		return Catalog{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

// LoadYAML decodes a YAML catalog with top-level cartons and packages lists.
func LoadYAML(r io.Reader) (Catalog, error) {
	var c Catalog
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil && err != io.EOF {
		return Catalog{}, fmt.Errorf("parse YAML catalog: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Catalog{}, err
	}
	return c, nil
}

// LoadXLSX decodes a workbook with a Cartons sheet and an optional Packages sheet.
func LoadXLSX(r io.Reader) (Catalog, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return Catalog{}, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()
	return loadWorkbook(f)
}

func loadWorkbook(f *excelize.File) (Catalog, error) {
	sheets := map[string]string{}
	for _, name := range f.GetSheetList() {
		sheets[normalize(name)] = name
	}

	name, ok := sheets[normalize(cartonsSheet)]
	if !ok {
		return Catalog{}, ErrMissingSheet
	}
	rows, err := f.GetRows(name)
	if err != nil {
		return Catalog{}, fmt.Errorf("read %s sheet: %w", name, err)
	}
	var c Catalog
	if c.Cartons, err = parseCartons(rows); err != nil {
		return Catalog{}, err
	}

	if name, ok := sheets[normalize(packagesSheet)]; ok {
		rows, err := f.GetRows(name)
		if err != nil {
			return Catalog{}, fmt.Errorf("read %s sheet: %w", name, err)
		}
		if c.Packages, err = parsePackages(rows); err != nil {
			return Catalog{}, err
		}
	}

	if err := c.Validate(); err != nil {
		return Catalog{}, err
	}
	return c, nil
}

func parseCartons(rows [][]string) ([]Carton, error) {
	cols, body, err := mapHeader(cartonsSheet, rows, cartonHeaders, "length", "width", "height")
	if err != nil {
		return nil, err
	}

	cartons := make([]Carton, 0, len(body))
	for i, row := range body {
		if blank(row) {
			continue
		}
		r := rowReader{sheet: cartonsSheet, line: i + 2, row: row, cols: cols}
		carton := Carton{
			ID:          r.text("id"),
			Description: r.text("description"),
			Length:      r.number("length"),
			Width:       r.number("width"),
			Height:      r.number("height"),
			MaxWeight:   r.optionalNumber("max_weight"),
		}
		if r.err != nil {
			return nil, r.err
		}
		if carton.Label() == "" {
			carton.Description = fmt.Sprintf("Carton %d", len(cartons)+1)
		}
		cartons = append(cartons, carton)
	}
	return cartons, nil
}

func parsePackages(rows [][]string) ([]Package, error) {
	cols, body, err := mapHeader(packagesSheet, rows, packageHeaders, "id", "length", "width", "height")
	if err != nil {
		return nil, err
	}

	packages := make([]Package, 0, len(body))
	for i, row := range body {
		if blank(row) {
			continue
		}
		r := rowReader{sheet: packagesSheet, line: i + 2, row: row, cols: cols}
		pkg := Package{
			ID:     r.text("id"),
			Length: r.number("length"),
			Width:  r.number("width"),
			Height: r.number("height"),
			Weight: r.optionalNumber("weight"),
		}
		if r.err != nil {
			return nil, r.err
		}
		packages = append(packages, pkg)
	}
	return packages, nil
}

// mapHeader resolves column roles from the first row and returns the data rows.
func mapHeader(sheet string, rows [][]string, aliases map[string][]string, required ...string) (map[string]int, [][]string, error) {
	if len(rows) == 0 {
		return nil, nil, fmt.Errorf("%w: %s sheet is empty", ErrInvalidRecord, sheet)
	}

	cols := make(map[string]int, len(aliases))
	for role, names := range aliases {
		best := -1
		rank := len(names)
		for i, cell := range rows[0] {
			header := normalize(cell)
			for n, name := range names {
				if header == name && n < rank {
					best, rank = i, n
				}
			}
		}
		if best >= 0 {
			cols[role] = best
		}
	}

	var missing []string
	for _, role := range required {
		if _, ok := cols[role]; !ok {
			missing = append(missing, role)
		}
	}
	if len(missing) > 0 {
		return nil, nil, fmt.Errorf("%w: %s sheet is missing columns: %s", ErrInvalidRecord, sheet, strings.Join(missing, ", "))
	}
	return cols, rows[1:], nil
}

// rowReader extracts typed cells and keeps the first error.
type rowReader struct {
	sheet string
	line  int
	row   []string
	cols  map[string]int
	err   error
}

func (r *rowReader) cell(role string) (string, bool) {
	idx, ok := r.cols[role]
	if !ok || idx >= len(r.row) {
		return "", false
	}
	return strings.TrimSpace(r.row[idx]), true
}

func (r *rowReader) text(role string) string {
	v, _ := r.cell(role)
	return v
}

func (r *rowReader) number(role string) float64 {
	v, _ := r.cell(role)
	if r.err != nil {
		return 0
	}
	n, err := strconv.ParseFloat(v, 64)
	if err != nil {
		r.err = fmt.Errorf("%w: %s row %d: %s %q is not a number", ErrInvalidRecord, r.sheet, r.line, role, v)
		return 0
	}
	return n
}

func (r *rowReader) optionalNumber(role string) float64 {
	if v, ok := r.cell(role); !ok || v == "" {
		return 0
	}
	return r.number(role)
}

func blank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

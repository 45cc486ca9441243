package utils

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"insurance-recommendation-engine/internal/models"
)

// CSVParser errors
var (
	ErrEmptyCSV         = errors.New("CSV content is empty")
	ErrMissingColumns   = errors.New("missing required columns")
	ErrNoDataRows       = errors.New("CSV file contains no data rows")
	ErrDuplicateID      = errors.New("duplicate product id")
	ErrMalformedCatalog = errors.New("malformed catalog")
)

// RequiredColumns defines the columns that must be present in a catalog CSV.
var RequiredColumns = []string{
	"id",
	"name",
	"type",
	"coverage",
	"monthly_premium",
	"critical_illness",
	"maternity",
	"accident",
	"co_pay",
	"age_min",
	"age_max",
}

// ColumnAliases maps alternative column names to standard names.
var ColumnAliases = map[string]string{
	// id aliases
	"product_id": "id",
	"productid":  "id",

	// name aliases
	"product_name": "name",
	"productname":  "name",
	"plan_name":    "name",

	// type aliases
	"product_type": "type",
	"category":     "type",

	// coverage aliases
	"coverage_amount": "coverage",
	"sum_insured":     "coverage",

	// premium aliases
	"premium":         "monthly_premium",
	"monthlypremium":  "monthly_premium",
	"monthly premium": "monthly_premium",

	// flag aliases
	"criticalillness":  "critical_illness",
	"critical illness": "critical_illness",
	"critical":         "critical_illness",

	// co-pay aliases
	"copay":  "co_pay",
	"co-pay": "co_pay",

	// age aliases
	"min_age": "age_min",
	"minage":  "age_min",
	"max_age": "age_max",
	"maxage":  "age_max",
}

// CSVParser handles parsing of insurance catalog CSV files.
type CSVParser struct {
	columnMapping map[string]int
}

// NewCSVParser creates a new CSV parser instance.
func NewCSVParser() *CSVParser {
	return &CSVParser{
		columnMapping: make(map[string]int),
	}
}

// ParseProducts parses catalog CSV content.
// Any malformed row rejects the whole catalog; all row errors are reported together.
func (p *CSVParser) ParseProducts(content string) ([]*models.Product, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyCSV
	}
	return p.ParseProductsReader(strings.NewReader(content))
}

// ParseProductsReader parses catalog CSV rows from r.
func (p *CSVParser) ParseProductsReader(r io.Reader) ([]*models.Product, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1 // row length is checked per column lookup

	header, err := reader.Read()
	if err == io.EOF {
		return nil, ErrEmptyCSV
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	if err := p.buildColumnMapping(header); err != nil {
		return nil, err
	}

	var products []*models.Product
	var rowErrors []error
	seen := make(map[string]int)
	lineNum := 1 // Header is line 1

	for {
		lineNum++
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			rowErrors = append(rowErrors, fmt.Errorf("line %d: %w", lineNum, err))
			continue
		}

		product, err := p.parseRow(record)
		if err != nil {
			rowErrors = append(rowErrors, fmt.Errorf("line %d: %w", lineNum, err))
			continue
		}

		if err := models.ValidateProduct(product); err != nil {
			rowErrors = append(rowErrors, fmt.Errorf("line %d: %w", lineNum, err))
			continue
		}

		if first, dup := seen[product.ID]; dup {
			rowErrors = append(rowErrors, fmt.Errorf("line %d: %w %q (first seen on line %d)", lineNum, ErrDuplicateID, product.ID, first))
			continue
		}
		seen[product.ID] = lineNum

		products = append(products, product)
	}

	if len(rowErrors) > 0 {
		return nil, fmt.Errorf("%w: %w", ErrMalformedCatalog, errors.Join(rowErrors...))
	}

	if len(products) == 0 {
		return nil, ErrNoDataRows
	}

	return products, nil
}

// buildColumnMapping creates a mapping of standard column names to their indices.
func (p *CSVParser) buildColumnMapping(header []string) error {
	p.columnMapping = make(map[string]int)

	for i, col := range header {
		normalized := normalizeColumn(col)
		p.columnMapping[normalized] = i
	}

	var missing []string
	for _, required := range RequiredColumns {
		if _, ok := p.columnMapping[required]; !ok {
			missing = append(missing, required)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(missing, ", "))
	}

	return nil
}

func normalizeColumn(col string) string {
	normalized := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(col, "\ufeff")))
	if alias, ok := ColumnAliases[normalized]; ok {
		return alias
	}
	return normalized
}

// parseRow parses a single CSV row into a Product.
func (p *CSVParser) parseRow(record []string) (*models.Product, error) {
	getValue := func(column string) (string, error) {
		idx, ok := p.columnMapping[column]
		if !ok {
			return "", fmt.Errorf("column %s not found", column)
		}
		if idx >= len(record) {
			return "", fmt.Errorf("column %s index out of range", column)
		}
		return strings.TrimSpace(record[idx]), nil
	}

	getInt := func(column string) (int64, error) {
		raw, err := getValue(column)
		if err != nil {
			return 0, err
		}
		v, err := parseInt(raw)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %w", column, err)
		}
		return v, nil
	}

	id, err := getValue("id")
	if err != nil {
		return nil, err
	}
	name, err := getValue("name")
	if err != nil {
		return nil, err
	}
	productType, err := getValue("type")
	if err != nil {
		return nil, err
	}

	coverage, err := getInt("coverage")
	if err != nil {
		return nil, err
	}
	premium, err := getInt("monthly_premium")
	if err != nil {
		return nil, err
	}
	coPay, err := getInt("co_pay")
	if err != nil {
		return nil, err
	}
	ageMin, err := getInt("age_min")
	if err != nil {
		return nil, err
	}
	ageMax, err := getInt("age_max")
	if err != nil {
		return nil, err
	}

	flags := make(map[string]bool, 3)
	for _, column := range []string{"critical_illness", "maternity", "accident"} {
		raw, err := getValue(column)
		if err != nil {
			return nil, err
		}
		flags[column] = models.ParseFlag(raw)
	}

	return &models.Product{
		ID:              id,
		Name:            name,
		Type:            models.ProductType(productType),
		Coverage:        coverage,
		MonthlyPremium:  premium,
		CriticalIllness: flags["critical_illness"],
		Maternity:       flags["maternity"],
		Accident:        flags["accident"],
		CoPay:           int(coPay),
		AgeMin:          int(ageMin),
		AgeMax:          int(ageMax),
	}, nil
}

// parseInt parses a whole number, accepting grouping commas, a rupee prefix,
// a percent suffix and an all-zero fraction such as "650.0".
func parseInt(s string) (int64, error) {
	if s == "" {
		return 0, errors.New("empty value")
	}

	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimPrefix(s, "₹")
	s = strings.TrimSuffix(s, "%")
	s = strings.TrimSpace(s)

	if whole, frac, ok := strings.Cut(s, "."); ok {
		if strings.Trim(frac, "0") != "" {
			return 0, fmt.Errorf("%q is not a whole number", s)
		}
		s = whole
	}

	return strconv.ParseInt(s, 10, 64)
}

// ValidateCSVStructure performs a quick validation of CSV structure without full parsing.
func ValidateCSVStructure(content string) (*CSVValidationResult, error) {
	result := &CSVValidationResult{
		Columns:        []string{},
		MissingColumns: []string{},
		Errors:         []string{},
	}

	if strings.TrimSpace(content) == "" {
		result.Errors = append(result.Errors, "empty file")
		return result, nil
	}

	reader := csv.NewReader(strings.NewReader(content))
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("failed to read header: %v", err))
		return result, nil
	}

	normalizedColumns := make(map[string]bool)
	for _, col := range header {
		normalizedColumns[normalizeColumn(col)] = true
		result.Columns = append(result.Columns, col)
	}

	for _, required := range RequiredColumns {
		if !normalizedColumns[required] {
			result.MissingColumns = append(result.MissingColumns, required)
		}
	}

	for {
		_, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("row error: %v", err))
			continue
		}
		result.RowCount++
	}

	result.Valid = len(result.MissingColumns) == 0 && result.RowCount > 0

	return result, nil
}

// CSVValidationResult contains the results of CSV validation.
type CSVValidationResult struct {
	Valid          bool     `json:"valid"`
	RowCount       int      `json:"row_count"`
	Columns        []string `json:"columns"`
	MissingColumns []string `json:"missing_columns"`
	Errors         []string `json:"errors"`
}

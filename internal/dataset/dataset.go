// Package dataset reads product datasets and writes categorization output
// in the flat JSON record format consumed by downstream accuracy tooling.
package dataset

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/seralys/inciwise/internal/model"
)

// productRecord is the wire form of one product. Scrapes from different
// eras disagree on field names, so most fields carry an alias.
type productRecord struct {
	ProductBrand string             `json:"product_brand"`
	Brand        string             `json:"brand"`
	ProductTitle string             `json:"product_title"`
	Title        string             `json:"title"`
	Ingredients  []ingredientRecord `json:"ingredients"`
}

type ingredientRecord struct {
	Name           string   `json:"name"`
	IngredientName string   `json:"ingredient_name"`
	Functions      []string `json:"functions"`
	WhatItDoes     string   `json:"what_it_does"`
	Rating         string   `json:"rating"`
	IDRating       string   `json:"id_rating"`
	Irritancy      string   `json:"irritancy_comedogenicity"`
	IrritancyAlt   string   `json:"irritancy/comedogenicity"`
}

// Load reads a product dataset from a JSON file.
func Load(path string) ([]model.Product, error) {
	f, err := os.Open(path) // #nosec G304 -- path supplied by the operator
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer func() { _ = f.Close() }()

	products, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode dataset %s: %w", path, err)
	}

	return products, nil
}

// Decode parses a product dataset. The document is either a bare product
// list or an object whose "results" field holds the list. Missing product
// fields default to their zero values rather than failing the decode.
func Decode(r io.Reader) ([]model.Product, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset: %w", err)
	}

	var records []productRecord
	if bytes.HasPrefix(bytes.TrimLeft(data, " \t\r\n"), []byte("[")) {
		if err := json.Unmarshal(data, &records); err != nil {
			return nil, fmt.Errorf("failed to parse product list: %w", err)
		}
	} else {
		var doc struct {
			Results []productRecord `json:"results"`
		}
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse dataset document: %w", err)
		}
		records = doc.Results
	}

	products := make([]model.Product, 0, len(records))
	for _, rec := range records {
		products = append(products, rec.toProduct())
	}

	return products, nil
}

func (r productRecord) toProduct() model.Product {
	product := model.Product{
		Brand: firstNonEmpty(r.ProductBrand, r.Brand),
		Title: firstNonEmpty(r.ProductTitle, r.Title),
	}

	if len(r.Ingredients) > 0 {
		product.Ingredients = make([]model.Ingredient, 0, len(r.Ingredients))
		for _, ing := range r.Ingredients {
			product.Ingredients = append(product.Ingredients, ing.toIngredient())
		}
	}

	return product
}

func (r ingredientRecord) toIngredient() model.Ingredient {
	ing := model.Ingredient{
		Name:      firstNonEmpty(r.Name, r.IngredientName),
		Functions: normalizeFunctions(r.Functions, r.WhatItDoes),
		Rating:    model.Rating(strings.ToLower(strings.TrimSpace(firstNonEmpty(r.Rating, r.IDRating)))),
	}
	ing.Irritancy, ing.Comedogenicity = parseIrritancyComedogenicity(firstNonEmpty(r.Irritancy, r.IrritancyAlt))
	return ing
}

// normalizeFunctions produces trimmed, lower-cased function tags from either
// an explicit tag list or a comma-joined "what it does" string.
func normalizeFunctions(functions []string, whatItDoes string) []string {
	if len(functions) == 0 && whatItDoes != "" {
		functions = strings.Split(whatItDoes, ",")
	}

	var out []string
	for _, fn := range functions {
		fn = strings.ToLower(strings.TrimSpace(fn))
		if fn != "" {
			out = append(out, fn)
		}
	}

	return out
}

// parseIrritancyComedogenicity parses the published "irritancy,comedogenicity"
// pair, e.g. "0,0" or "1,2". Either half may be a range like "0-3", which
// resolves to its maximum. Anything unparsable yields nil values, never an
// error.
func parseIrritancyComedogenicity(value string) (irritancy, comedogenicity *int) {
	parts := strings.Split(value, ",")
	if len(parts) != 2 {
		return nil, nil
	}

	irr, err := parseScaleValue(parts[0])
	if err != nil {
		return nil, nil
	}
	com, err := parseScaleValue(parts[1])
	if err != nil {
		return nil, nil
	}

	return &irr, &com
}

func parseScaleValue(s string) (int, error) {
	s = strings.TrimSpace(s)
	if !strings.Contains(s, "-") {
		return strconv.Atoi(s)
	}

	high := 0
	for i, part := range strings.Split(s, "-") {
		v, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return 0, err
		}
		if i == 0 || v > high {
			high = v
		}
	}

	return high, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

package validate

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// BuildInvoiceJSONSchema returns the Invoice wire shape as a JSON-Schema
// (draft 2020-12 subset) generic map. Batch callers must submit objects that
// match it; anything with wrong types or unknown extra fields is a contract
// violation, not document noise.
//
// Scalars are nullable rather than required: the wire contract emits absent
// fields as null, and completeness is a validation rule, not a shape rule.
// Negative invoice totals also pass the shape check so the negative-total
// format rule can report them. Line-item amounts stay non-negative here;
// that is a structural property of the row shape.
func BuildInvoiceJSONSchema() map[string]any {
	lineItem := map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"description": map[string]any{"type": "string"},
			"quantity":    map[string]any{"type": "number", "minimum": 0},
			"unit_price":  map[string]any{"type": "number", "minimum": 0},
			"line_total":  map[string]any{"type": "number", "minimum": 0},
		},
		"required": []string{"description", "quantity", "unit_price", "line_total"},
	}

	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"invoice_id":     map[string]any{"type": "string"},
			"invoice_number": nullableString(),
			"invoice_date":   nullableDate(),
			"due_date":       nullableDate(),
			"seller_name":    nullableString(),
			"seller_address": nullableString(),
			"seller_tax_id":  nullableString(),
			"buyer_name":     nullableString(),
			"buyer_address":  nullableString(),
			"buyer_tax_id":   nullableString(),
			"currency":       nullableString(),
			"net_total":      nullableNumber(),
			"tax_amount":     nullableNumber(),
			"gross_total":    nullableNumber(),
			"line_items": map[string]any{
				"type":  []string{"array", "null"},
				"items": lineItem,
			},
		},
	}
}

func nullableString() map[string]any {
	return map[string]any{"type": []string{"string", "null"}}
}

func nullableNumber() map[string]any {
	return map[string]any{"type": []string{"number", "null"}}
}

func nullableDate() map[string]any {
	return map[string]any{
		"type":    []string{"string", "null"},
		"pattern": `^\d{4}-\d{2}-\d{2}$`,
	}
}

// compileInvoiceSchema compiles the map form once for reuse across requests.
func compileInvoiceSchema() (*jsonschema.Schema, error) {
	b, err := json.Marshal(BuildInvoiceJSONSchema())
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("invoice.schema.json", bytes.NewReader(b)); err != nil {
		return nil, fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("invoice.schema.json")
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return schema, nil
}

package model

import (
	"github.com/go-openapi/errors"
	"github.com/go-openapi/strfmt"
	"github.com/go-openapi/validate"
)

// ExportRequest - parameters for writing an export file.
type ExportRequest struct {
	// Format - "csv" (default) or "xlsx"
	Format string `json:"format,omitempty"`
	// Delimiter - ";" (default) or ","; CSV only
	Delimiter string `json:"delimiter,omitempty"`
	// IncludeBOM - prefix the CSV with a UTF-8 byte-order-mark; nil means
	// the configured default
	IncludeBOM *bool `json:"include_bom,omitempty"`
}

// Validate validates this export request.
func (m *ExportRequest) Validate(_ strfmt.Registry) error {
	var res []error

	if m.Format != "" {
		if err := validate.Enum("format", "body", m.Format, []interface{}{"csv", "xlsx"}); err != nil {
			res = append(res, err)
		}
	}
	if m.Delimiter != "" {
		if err := validate.Enum("delimiter", "body", m.Delimiter, []interface{}{";", ","}); err != nil {
			res = append(res, err)
		}
	}

	if len(res) > 0 {
		return errors.CompositeValidationError(res...)
	}
	return nil
}

// ExportResult - where the export file was written.
type ExportResult struct {
	Path string `json:"path"`
}

// PurchaseRequest - initiates a purchase of one pro product.
type PurchaseRequest struct {
	ProductID *string `json:"product_id"`
}

// Validate validates this purchase request.
func (m *PurchaseRequest) Validate(_ strfmt.Registry) error {
	if m.ProductID == nil || *m.ProductID == "" {
		return errors.CompositeValidationError(errors.Required("product_id", "body", nil))
	}
	return nil
}

// Entitlements - the gate's current view.
type Entitlements struct {
	IsPro     bool      `json:"is_pro"`
	FreeLimit int64     `json:"free_limit"`
	Products  []Product `json:"products,omitempty"`
}

// Product - a purchasable pro unlock.
type Product struct {
	ID           string `json:"id"`
	DisplayName  string `json:"display_name,omitempty"`
	DisplayPrice string `json:"display_price,omitempty"`
}

// PurchaseResult - outcome of a purchase attempt.
type PurchaseResult struct {
	Success bool `json:"success"`
}

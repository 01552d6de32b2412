package products

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/odyssey-erp/odyssey-catalog/internal/catalog/prices"
	"github.com/odyssey-erp/odyssey-catalog/internal/catalog/shared"
)

func (in *CreateInput) normalize() {
	in.Code = strings.TrimSpace(in.Code)
	in.Name = strings.TrimSpace(in.Name)
	in.Unit = strings.TrimSpace(in.Unit)
	in.CategoryName = strings.TrimSpace(in.CategoryName)
	in.CategoryCode = strings.TrimSpace(in.CategoryCode)
	in.BrandName = strings.TrimSpace(in.BrandName)
	in.BrandCode = strings.TrimSpace(in.BrandCode)
}

func validateCreate(in CreateInput) error {
	if err := shared.Validate(in); err != nil {
		return err
	}
	if err := validateWeight(in.Weight); err != nil {
		return err
	}
	if in.Price != nil {
		if _, err := prices.NormalizeValue(*in.Price); err != nil {
			return err
		}
	}
	if in.CategoryID == nil && in.CategoryName == "" && in.CategoryCode != "" {
		return shared.Invalid("category_name is required with category_code")
	}
	if in.BrandID == nil && (in.BrandName == "") != (in.BrandCode == "") {
		return shared.Invalid("brand_name and brand_code must be given together")
	}
	return nil
}

func validateUpdate(in UpdateInput) error {
	if in.Empty() {
		return shared.Invalid("update payload has no fields")
	}
	if in.Name != nil {
		trimmed := strings.TrimSpace(*in.Name)
		in.Name = &trimmed
	}
	if err := shared.Validate(in); err != nil {
		return err
	}
	if err := validateWeight(in.Weight); err != nil {
		return err
	}
	if in.Price != nil {
		if _, err := prices.NormalizeValue(*in.Price); err != nil {
			return err
		}
	}
	return nil
}

func validateWeight(w *decimal.Decimal) error {
	if w == nil {
		return nil
	}
	if w.IsNegative() {
		return shared.Invalid("weight must be >= 0")
	}
	if w.Round(3).GreaterThan(shared.MaxWeight) {
		return shared.Invalid("weight must be <= %s", shared.MaxWeight)
	}
	return nil
}

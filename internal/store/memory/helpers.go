package memory

import (
	"cmp"
	"fmt"

	"golang.org/x/text/cases"

	"github.com/odyssey-erp/odyssey-catalog/internal/catalog/shared"
)

// fold maps s to its Unicode case folded form for case-insensitive matching.
func fold(s string) string {
	return cases.Fold().String(s)
}

func cmpID(a, b int64) int {
	return cmp.Compare(a, b)
}

func duplicate(entity, code string) error {
	return fmt.Errorf("%w: %s %q already exists", shared.ErrDuplicateCode, entity, code)
}

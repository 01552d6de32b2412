// Package guard flips the catalog into test mode for any test binary that
// imports it, so broker connections and invalidation listeners stay off.
package guard

import (
	"os"
	"sync"
)

var once sync.Once

func init() {
	once.Do(func() {
		if os.Getenv("CATALOG_TEST_MODE") == "" {
			_ = os.Setenv("CATALOG_TEST_MODE", "1")
		}
	})
}

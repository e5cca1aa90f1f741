package types

import (
	"math/rand"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
)

const (
	UUID_PREFIX_CART      = "cart"
	UUID_PREFIX_CART_ITEM = "item"
	UUID_PREFIX_RULE      = "rule"
	UUID_PREFIX_TAX_RATE  = "tax"
)

// GenerateUUID returns a k-sortable unique identifier
func GenerateUUID() string {
	entropy := ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0)
	return strings.ToLower(ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String())
}

// GenerateUUIDWithPrefix returns a k-sortable unique identifier
// with a prefix ex cart_0ujsswThIGTUYm2K8FjOOfXtY1K
func GenerateUUIDWithPrefix(prefix string) string {
	if prefix == "" {
		return GenerateUUID()
	}
	return prefix + "_" + GenerateUUID()
}

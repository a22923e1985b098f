package badger

import (
	"fmt"

	"github.com/poiesic/bracee/core"
)

// Key prefixes for different data types
const (
	vectorItemPrefix = "vecit"
	profilePrefix    = "perpro"
)

// makeNamespacePrefix generates the key prefix for a facet's namespace.
// Every vector item in the facet lives under this prefix, which is what
// makes namespace isolation and per-facet resets cheap.
func makeNamespacePrefix(facet core.Facet) []byte {
	return []byte(fmt.Sprintf("%s:%s:", vectorItemPrefix, facet.Namespace()))
}

// makeItemKey generates a key for a vector item within a facet's namespace.
// Format: prefix:namespace:itemID
func makeItemKey(facet core.Facet, itemID string) []byte {
	return []byte(fmt.Sprintf("%s:%s:%s", vectorItemPrefix, facet.Namespace(), itemID))
}

// makeProfileKey generates a key for a person profile by ID.
func makeProfileKey(personID string) []byte {
	return []byte(fmt.Sprintf("%s:%s", profilePrefix, personID))
}

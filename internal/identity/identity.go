// Package identity derives stable identifiers for model objects.
package identity

import (
	"strings"

	"github.com/google/uuid"
)

// NamespaceModelIdentity is the UUID v5 namespace for every identifier this
// tool generates. It is derived from the URL namespace and a fixed name so
// the same object always receives the same identifier across runs.
var NamespaceModelIdentity = uuid.NewSHA1(uuid.NameSpaceURL, []byte("pbimodel/model-identity/v1"))

// RelationshipID returns the identifier for a relationship from its
// unordered endpoint key. Case differences do not change the result.
//
// Examples:
//   - "Orders.Region=People.Region" → uuid_v5(namespace, "relationship:orders.region=people.region")
func RelationshipID(key string) uuid.UUID {
	return uuid.NewSHA1(NamespaceModelIdentity, []byte("relationship:"+normalize(key)))
}

// LineageTag returns the lineage tag for a column of a table.
func LineageTag(table, column string) uuid.UUID {
	return uuid.NewSHA1(NamespaceModelIdentity, []byte("column:"+normalize(table)+"."+normalize(column)))
}

// TableLineageTag returns the lineage tag for a table.
func TableLineageTag(table string) uuid.UUID {
	return uuid.NewSHA1(NamespaceModelIdentity, []byte("table:"+normalize(table)))
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

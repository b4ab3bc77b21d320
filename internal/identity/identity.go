// Package identity computes deterministic release identities.
package identity

import (
	"strings"

	"github.com/google/uuid"
)

// NamespaceUUID is the UUID v5 namespace for release identities.
// Computed as: uuid.NewSHA1(uuid.NameSpaceDNS, []byte("release.opmodel.dev"))
var NamespaceUUID = uuid.NewSHA1(uuid.NameSpaceDNS, []byte("release.opmodel.dev"))

// Release returns the identity of one released version of an artifact. The
// same coordinates always yield the same identity, so reruns of a release
// and undo records agree on it.
func Release(groupID, artifactID, version string) uuid.UUID {
	return uuid.NewSHA1(NamespaceUUID, []byte(strings.Join([]string{groupID, artifactID, version}, ":")))
}

// Package idgen produces prefixed, human-scannable identifiers for the
// in-memory reference store. Durable deployments should prefer store-native
// keys and treat this as a fallback.
package idgen

import (
	"strings"

	"github.com/google/uuid"
)

// New returns an identifier of the form "<prefix>-<suffix>" where the suffix
// is a random UUID without dashes. Uniqueness holds statistically within and
// across process lifetimes.
func New(prefix string) string {
	suffix := strings.ReplaceAll(uuid.New().String(), "-", "")
	return prefix + "-" + suffix
}

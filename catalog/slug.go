package catalog

import (
	"fmt"
	"path"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// Slug derives the catalog slug for a mirrored service document path.
// "Region1/Fires_MapServer.json" becomes "region1-fires-mapserver".
func Slug(mirrorPath string) string {
	s := strings.TrimSuffix(mirrorPath, ".json")
	s = strings.ReplaceAll(s, "/", "-")
	s = strings.ReplaceAll(s, "_", "-")
	return strings.ToLower(s)
}

// ContentHash computes the xxHash of a document as a fixed-width hex string.
func ContentHash(data []byte) string {
	return fmt.Sprintf("%016x", xxhash.Sum64(data))
}

// serviceParts splits a service document path into the service's remote
// name and type. The final underscore separates base name from type, so
// base names may themselves contain underscores.
func serviceParts(mirrorPath string) (name, serviceType string) {
	trimmed := strings.TrimSuffix(mirrorPath, ".json")
	dir, file := path.Split(trimmed)
	i := strings.LastIndex(file, "_")
	if i < 0 {
		return trimmed, ""
	}
	return dir + file[:i], file[i+1:]
}

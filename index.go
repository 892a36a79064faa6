package arcmirror

import (
	"encoding/json"
	"strings"
)

// IndexFileName is the name under which a catalog node's own document is
// cached inside its mirror directory.
const IndexFileName = "_index.json"

// Index holds the traversal fields of a catalog node document. ArcGIS
// servers return many more fields; everything else is preserved verbatim
// in the cached file and ignored here.
type Index struct {
	Folders  []string     `json:"folders"`
	Services []ServiceRef `json:"services"`
}

// ServiceRef identifies a service listed in a catalog index.
type ServiceRef struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// Validate returns an error if the reference cannot be fetched or cached.
func (s ServiceRef) Validate() error {
	if s.Name == "" {
		return Errorf(EINVALID, "service name required")
	}
	if s.Type == "" {
		return Errorf(EINVALID, "service type required")
	}
	return nil
}

// BaseName returns the final segment of the service name. Services inside
// folders embed the folder path in their name ("Region1/Fires"), but the
// cached file lives in the folder's directory already.
func (s ServiceRef) BaseName() string {
	if i := strings.LastIndex(s.Name, "/"); i >= 0 {
		return s.Name[i+1:]
	}
	return s.Name
}

// FileName returns the name of the cache file for this service,
// e.g. "Fires_MapServer.json".
func (s ServiceRef) FileName() string {
	return s.BaseName() + "_" + s.Type + ".json"
}

// ParseIndex decodes the traversal fields of a catalog node document.
// Unknown fields are ignored and absent folders/services keys are treated
// as empty, so any JSON object parses. Returns EINVALID if data is not a
// JSON object or the traversal fields have the wrong shape.
func ParseIndex(data []byte) (*Index, error) {
	var index Index
	if err := json.Unmarshal(data, &index); err != nil {
		return nil, Errorf(EINVALID, "parse index: %s", err)
	}
	return &index, nil
}

package arcmirror

import (
	"encoding/json"
	"strings"
)

// ServiceInfo holds the subset of a cached service document that feeds the
// catalog. Field names follow the ArcGIS REST response casing.
type ServiceInfo struct {
	CurrentVersion     float64       `json:"currentVersion"`
	ServiceDescription string        `json:"serviceDescription"`
	MapName            string        `json:"mapName"`
	Description        string        `json:"description"`
	CopyrightText      string        `json:"copyrightText"`
	Capabilities       string        `json:"capabilities"`
	DocumentInfo       *DocumentInfo `json:"documentInfo"`
	Layers             []LayerInfo   `json:"layers"`
}

// DocumentInfo carries map document metadata. ArcGIS serializes these keys
// in title case.
type DocumentInfo struct {
	Title    string `json:"Title"`
	Author   string `json:"Author"`
	Comments string `json:"Comments"`
	Subject  string `json:"Subject"`
	Category string `json:"Category"`
	Keywords string `json:"Keywords"`
}

// LayerInfo describes a single layer of a map service.
type LayerInfo struct {
	ID                int     `json:"id"`
	Name              string  `json:"name"`
	ParentLayerID     *int    `json:"parentLayerId"`
	DefaultVisibility bool    `json:"defaultVisibility"`
	MinScale          float64 `json:"minScale"`
	MaxScale          float64 `json:"maxScale"`
	Type              string  `json:"type"`
	GeometryType      string  `json:"geometryType"`
}

// ParseServiceInfo decodes the catalog fields of a service document.
// Unknown fields are ignored. Returns EINVALID if data is not a JSON
// object or a known field has the wrong shape.
func ParseServiceInfo(data []byte) (*ServiceInfo, error) {
	var info ServiceInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, Errorf(EINVALID, "parse service document: %s", err)
	}
	return &info, nil
}

// Title returns the best available display title: the map name, then the
// document title, then empty.
func (s *ServiceInfo) Title() string {
	if s.MapName != "" {
		return s.MapName
	}
	if s.DocumentInfo != nil {
		return s.DocumentInfo.Title
	}
	return ""
}

// Summary returns the best available description: the long description,
// then the service description, then the document comments.
func (s *ServiceInfo) Summary() string {
	if s.Description != "" {
		return s.Description
	}
	if s.ServiceDescription != "" {
		return s.ServiceDescription
	}
	if s.DocumentInfo != nil {
		return s.DocumentInfo.Comments
	}
	return ""
}

// Keywords splits the comma-separated document keywords into a normalized
// list. Entries are trimmed and lowercased; empty and duplicate entries are
// dropped. Order of first appearance is preserved.
func (s *ServiceInfo) Keywords() []string {
	if s.DocumentInfo == nil || s.DocumentInfo.Keywords == "" {
		return nil
	}

	seen := make(map[string]bool)
	var keywords []string
	for _, part := range strings.Split(s.DocumentInfo.Keywords, ",") {
		kw := strings.ToLower(strings.TrimSpace(part))
		if kw == "" || seen[kw] {
			continue
		}
		seen[kw] = true
		keywords = append(keywords, kw)
	}
	return keywords
}

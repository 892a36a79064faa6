// Package arcmirror provides a CLI tool that mirrors ArcGIS REST service
// catalogs to local disk. It walks the folder/service hierarchy exposed
// by a server's services endpoint, caches every JSON document it fetches,
// and can build a queryable SQLite catalog from the mirrored tree.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., http/, fs/, sqlite/).
package arcmirror

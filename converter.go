package arcmirror

// Converter converts HTML to Markdown.
type Converter interface {
	// Convert transforms HTML content into Markdown.
	// Service descriptions published through ArcGIS frequently embed
	// HTML markup; the catalog stores them as Markdown instead.
	Convert(html string) (string, error)
}

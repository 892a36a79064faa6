// Package htmltomarkdown converts HTML service descriptions to Markdown.
package htmltomarkdown

import (
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/arcmirror/arcmirror"
)

// Ensure Converter implements arcmirror.Converter at compile time.
var _ arcmirror.Converter = (*Converter)(nil)

// Converter turns embedded HTML into Markdown. ArcGIS service
// descriptions are typically authored in ArcMap, which pads them with
// non-breaking spaces; those are normalized to plain spaces.
type Converter struct {
	conv *converter.Converter
}

// NewConverter creates a new Converter.
func NewConverter() *Converter {
	return &Converter{
		conv: converter.NewConverter(
			converter.WithPlugins(
				base.NewBasePlugin(),
				commonmark.NewCommonmarkPlugin(),
				table.NewTablePlugin(),
			),
		),
	}
}

// Convert transforms HTML content into trimmed Markdown.
func (c *Converter) Convert(html string) (string, error) {
	if strings.TrimSpace(html) == "" {
		return "", arcmirror.Errorf(arcmirror.EINVALID, "empty HTML input")
	}

	md, err := c.conv.ConvertString(html)
	if err != nil {
		return "", err
	}

	md = strings.ReplaceAll(md, " ", " ")
	return strings.TrimSpace(md), nil
}

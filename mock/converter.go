package mock

import "github.com/arcmirror/arcmirror"

var _ arcmirror.Converter = (*Converter)(nil)

// Converter is a mock implementation of arcmirror.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}

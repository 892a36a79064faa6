package mock

import (
	"context"

	"github.com/arcmirror/arcmirror"
)

var _ arcmirror.Pacer = (*Pacer)(nil)

// Pacer is a mock implementation of arcmirror.Pacer.
type Pacer struct {
	WaitFn func(ctx context.Context) error
}

func (p *Pacer) Wait(ctx context.Context) error {
	return p.WaitFn(ctx)
}

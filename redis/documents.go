package redis

import (
	"context"
	"encoding/json"
	"fmt"
)

// Documents is a collection of JSON values of type T stored one per key
// under <prefix>:<collection>:<id>. Documents never expire.
type Documents[T any] struct {
	c    *Client
	name string
}

func NewDocuments[T any](c *Client, collection string) *Documents[T] {
	return &Documents[T]{c: c, name: collection}
}

func (d *Documents[T]) key(id string) string { return d.c.Key(d.name, id) }

// Get decodes the document stored under id. found is false when there is
// none.
func (d *Documents[T]) Get(ctx context.Context, id string) (doc T, found bool, err error) {
	raw, err := d.c.Get(ctx, d.key(id))
	switch {
	case IsNil(err):
		return doc, false, nil
	case err != nil:
		return doc, false, fmt.Errorf("get %s/%s: %w", d.name, id, err)
	}
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return doc, false, fmt.Errorf("decode %s/%s: %w", d.name, id, err)
	}
	return doc, true, nil
}

// Claim writes doc under id unless something is already there, atomically
// via SETNX. It reports whether this call won the id.
func (d *Documents[T]) Claim(ctx context.Context, id string, doc T) (bool, error) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return false, fmt.Errorf("encode %s/%s: %w", d.name, id, err)
	}
	won, err := d.c.SetNX(ctx, d.key(id), string(raw), 0)
	if err != nil {
		return false, fmt.Errorf("claim %s/%s: %w", d.name, id, err)
	}
	return won, nil
}

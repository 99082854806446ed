// Package address is the boundary to the address registry. No registry is wired yet,
// so both lookups fail with ErrNotImplemented.
package address

import (
	"context"
	"errors"
)

var ErrNotImplemented = errors.New("address lookup is not implemented")

// Element is one level of an address hierarchy.
type Element struct {
	ObjectID   int64  `json:"objectId"`
	ObjectGUID string `json:"objectGuid"`
	Text       string `json:"text"`
	Level      string `json:"objectLevel"`
	LevelText  string `json:"objectLevelText"`
}

// Lookup resolves address ids for posts.
type Lookup interface {
	Search(ctx context.Context, parentID int64, query string) ([]Element, error)
	Chain(ctx context.Context, guid string) ([]Element, error)
}

type Unavailable struct{}

func (Unavailable) Search(context.Context, int64, string) ([]Element, error) {
	return nil, ErrNotImplemented
}

func (Unavailable) Chain(context.Context, string) ([]Element, error) {
	return nil, ErrNotImplemented
}

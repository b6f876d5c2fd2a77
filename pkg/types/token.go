package types

import "fmt"

// TokenID is the natural key of a token type: the creator's address plus
// the collection and token names. Two tokens are the same type iff all
// three fields are equal; there is no surrogate id.
type TokenID struct {
	Creator    Address `json:"creator"`
	Collection string  `json:"collection"`
	Name       string  `json:"name"`
}

// String renders the id as creator::collection::name.
func (id TokenID) String() string {
	return fmt.Sprintf("%s::%s::%s", id.Creator.Short(), id.Collection, id.Name)
}

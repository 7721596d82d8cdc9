// Package id generates ULID identifiers for orders and runs.
package id

import "github.com/oklog/ulid/v2"

// New returns a ULID string. ULIDs are lexicographically sortable by
// generation time, which keeps order books and journal indexes in
// submission order.
func New() string {
	return ulid.Make().String()
}

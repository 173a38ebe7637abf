// Package hashid substitutes reversible, obfuscated tokens (hashids) for
// integer primary keys at the boundary of a record store.
//
// A Behavior is attached to a table: results leave the table with the token
// written into a target field, newly created records get their token right
// after insert, and lookups by token are rewritten into lookups by real key:
//
//	addresses, _ := table.New("addresses", memory.New("id"))
//	behavior, _ := hashid.New(addresses, hashid.WithField("hash"))
//	_ = addresses.AddBehavior(behavior)
//
//	query, _ := addresses.Find(hashid.FinderName, hashid.Lookup("k5"))
//	address, _ := addresses.FirstOrFail(ctx, query)
//
// Malformed or foreign tokens never raise: they simply match nothing.
package hashid

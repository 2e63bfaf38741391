// Package typedpatch applies JSON Patch style mutations to typed Go values.
//
// Paths are slash-delimited ("/Items/2/Name"). Named segments address
// exported struct fields (or their json names) and purely numeric segments
// address elements of slices and arrays. Paths are checked against the static
// shape of the root type before they are used:
//
//	typedpatch.Valid[Order]("/Items/0/Quantity") // true
//	typedpatch.Valid[Order]("/Customer/3")       // false, Customer is not a collection
//
// Mutations are applied in place through a pointer:
//
//	err := typedpatch.ApplyMutation(&order, "/Items/1", item, typedpatch.Add)
//
// Slices are growable: Add inserts (index == len appends) and Remove shifts
// the following elements left. Arrays are fixed-size: only Replace is
// accepted. Add on a property fails if it already holds a value. Intermediate
// objects are never created implicitly; a nil parent is an error.
//
// The patch sub-package accumulates ordered operation sets and replays them
// against entities.
package typedpatch

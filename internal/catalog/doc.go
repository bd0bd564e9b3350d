// Package catalog holds the storefront rules that do not touch storage:
// discount pricing, launch visibility, the category tree closure, the
// color × size variant matrix and the catalog sort/filter pipeline.
//
// Every function here is deterministic over its arguments so services can
// run them against whatever snapshot they loaded from the store.
package catalog

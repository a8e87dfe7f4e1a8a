// Package query caches backend reads for the dashboard and CLI.
//
// A [Store] holds one entry per [Key]. Reads through [Fetch] are served from
// the cache while fresh and otherwise loaded, with concurrent loads of the
// same key collapsed into one request. Loads are numbered store-wide; per key
// the result of the most recently issued load that has resolved wins, so a
// slow response can never overwrite a newer one. Writes go through a
// [Mutation], which invalidates the affected resources on success so the next
// read or poll refetches.
package query

// Package cache provides a size-bounded LRU for derived grids.
//
// Entries are charged against a capacity in bytes and, when a
// resource.Controller is supplied, against the process memory budget.
// A value that does not fit is simply not cached.
package cache

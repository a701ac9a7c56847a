// Package cache provides a small thread-safe cache with least recently
// used eviction.
//
//	c := cache.New[int, *Thing](16)
//	v := c.GetOrCreate(3, func() *Thing { return newThing(3) })
//
// Cache is safe for concurrent use and must not be copied after creation.
package cache

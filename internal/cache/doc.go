// Package cache provides a generic LRU cache.
//
//	c := cache.New[string, *image.Alpha](256)
//	mask := c.GetOrCreate(label, func() *image.Alpha { return rasterize(label) })
//
// The text package keeps rasterized label masks in it, so the grid labels
// that repeat every frame are drawn once.
//
// # Thread Safety
//
// Cache is safe for concurrent use. It must not be copied after creation
// (it contains a mutex).
package cache

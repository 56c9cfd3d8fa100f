// Package cache provides a small generic LRU cache for derived render data,
// such as rasterized text labels shared between view nodes.
//
//	c := cache.New[string, *image.RGBA](64)
//	img, err := c.GetOrCreate("hello", rasterize)
//
// Cache is safe for concurrent use and must not be copied after creation.
package cache

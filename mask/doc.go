// Package mask rasterizes a clipstack.Stack into an 8-bit coverage mask.
//
// Render walks the stack from its topmost Replace element upward and folds
// each element's coverage into the running clip:
//
//	intersect           a*b
//	union               a + b - a*b
//	difference          a * (1-b)
//	reverse difference  b * (1-a)
//	xor                 a + b - 2*a*b
//	replace             b
//
// Non-anti-aliased shapes sample pixel centers, which keeps every rendered
// pixel inside the bounds reported by the stack. Anti-aliased nonzero paths
// use golang.org/x/image/vector; even-odd paths are supersampled.
//
// Cache memoizes masks by generation ID and listens for purge notifications
// so stale masks are released as soon as their clip state is popped.
//
//	c := mask.NewCache(0)
//	c.Attach(stack)
//	m, err := c.Mask(stack, image.Rect(0, 0, 640, 480))
//	mask.Apply(dst, src, image.Point{}, m)
package mask

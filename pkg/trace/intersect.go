// Package trace resolves rays against a world of spheres and shades the
// nearest hit with a Phong model and hard shadows.
package trace

import (
	"slices"

	"github.com/taigrr/prism/pkg/math3d"
	"github.com/taigrr/prism/pkg/models"
)

// Intersection is a ray parameter paired with the index of the object it
// crossed in World.Objects.
type Intersection struct {
	T      float64
	Object int
}

// Intersections is a list of intersections, usually sorted by T.
type Intersections []Intersection

// Intersect returns the two crossings of r with s, or nil on a miss. Both
// roots are returned even when the ray is tangent. id is recorded as the
// object index of each intersection.
func Intersect(s *models.Sphere, id int, r math3d.Ray) Intersections {
	t1, t2, ok := s.Roots(r)
	if !ok {
		return nil
	}
	return Intersections{{T: t1, Object: id}, {T: t2, Object: id}}
}

// Hit returns the intersection with the smallest strictly positive T.
// A crossing at exactly zero is ignored so a ray leaving a surface does not
// hit that surface again.
func (xs Intersections) Hit() (Intersection, bool) {
	var best Intersection
	found := false
	for _, x := range xs {
		if !(x.T > 0) { // also drops NaN
			continue
		}
		if !found || x.T < best.T {
			best = x
			found = true
		}
	}
	return best, found
}

// Hit intersects a single sphere and returns its visible hit.
func Hit(s *models.Sphere, id int, r math3d.Ray) (Intersection, bool) {
	return Intersect(s, id, r).Hit()
}

// Sort orders the intersections by ascending T. Equal values keep their
// relative order.
func (xs Intersections) Sort() {
	slices.SortStableFunc(xs, func(a, b Intersection) int {
		switch {
		case a.T < b.T:
			return -1
		case a.T > b.T:
			return 1
		}
		return 0
	})
}

package sim

import "gonum.org/v1/gonum/spatial/r2"

// collisionAxis is the separation direction used when two particles sit at
// exactly the same position.
var collisionAxis = r2.Vec{X: 1, Y: 0}

// project returns the component of v along onto. A zero onto yields zero.
func project(v, onto r2.Vec) r2.Vec {
	n2 := r2.Norm2(onto)
	if n2 == 0 {
		return r2.Vec{}
	}
	return r2.Scale(r2.Dot(v, onto)/n2, onto)
}

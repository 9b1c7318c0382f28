// Package geom carries the small pieces of crystallographic geometry
// the converter needs: the cell orthogonalization matrix and the
// conversion of isotropic displacement parameters to equivalent
// anisotropic components. No refinement happens here.
package geom

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Cell holds the six cell constants: lengths in angstrom, angles in
// degrees.
type Cell struct {
	A, B, C            float64
	Alpha, Beta, Gamma float64
}

// OrthogonalizationMatrix returns the 3x3 matrix mapping fractional to
// cartesian coordinates, a along x and b in the xy plane.
func (c Cell) OrthogonalizationMatrix() *mat.Dense {
	alpha := c.Alpha * math.Pi / 180
	beta := c.Beta * math.Pi / 180
	gamma := c.Gamma * math.Pi / 180

	cosAlpha := math.Cos(alpha)
	cosBeta := math.Cos(beta)
	cosGamma := math.Cos(gamma)
	sinGamma := math.Sin(gamma)

	m := mat.NewDense(3, 3, nil)
	m.Set(0, 0, c.A)
	m.Set(0, 1, c.B*cosGamma)
	m.Set(0, 2, c.C*cosBeta)
	m.Set(1, 1, c.B*sinGamma)
	m.Set(1, 2, c.C*(cosAlpha-cosBeta*cosGamma)/sinGamma)
	m.Set(2, 2, c.C*math.Sqrt(1-cosBeta*cosBeta-math.Pow((cosAlpha-cosBeta*cosGamma)/sinGamma, 2)))
	return m
}

// Volume returns the cell volume in cubic angstrom, the determinant of
// the orthogonalization matrix.
func (c Cell) Volume() float64 {
	return mat.Det(c.OrthogonalizationMatrix())
}

// ReciprocalAngleCosines returns the cosines of the reciprocal cell
// angles alpha*, beta*, gamma* for the given direct angles in degrees.
func ReciprocalAngleCosines(alpha, beta, gamma float64) (cosAlphaStar, cosBetaStar, cosGammaStar float64) {
	a := alpha * math.Pi / 180
	b := beta * math.Pi / 180
	g := gamma * math.Pi / 180

	cosAlphaStar = (math.Cos(b)*math.Cos(g) - math.Cos(a)) / (math.Sin(b) * math.Sin(g))
	cosBetaStar = (math.Cos(a)*math.Cos(g) - math.Cos(b)) / (math.Sin(a) * math.Sin(g))
	cosGammaStar = (math.Cos(a)*math.Cos(b) - math.Cos(g)) / (math.Sin(a) * math.Sin(b))
	return cosAlphaStar, cosBetaStar, cosGammaStar
}

// IsoToAniso converts a single isotropic parameter to the six
// anisotropic components U11, U22, U33, U23, U13, U12 of a sphere of
// equal displacement in the given cell. Diagonal components equal the
// isotropic value; off-diagonal components scale with the reciprocal
// angle cosines.
func IsoToAniso(uiso, alpha, beta, gamma float64) [6]float64 {
	cosAlphaStar, cosBetaStar, cosGammaStar := ReciprocalAngleCosines(alpha, beta, gamma)
	return [6]float64{
		uiso, uiso, uiso,
		uiso * cosAlphaStar,
		uiso * cosBetaStar,
		uiso * cosGammaStar,
	}
}

package predict

import "math"

// standardScaler centers each feature column and divides by its
// population standard deviation. Constant columns get scale 1.0 so
// transforming them yields zeros instead of dividing by zero.
type standardScaler struct {
	mean  []float64
	scale []float64
}

func (s *standardScaler) fit(rows [][]float64) {
	cols := len(rows[0])
	s.mean = make([]float64, cols)
	s.scale = make([]float64, cols)

	n := float64(len(rows))
	for c := 0; c < cols; c++ {
		sum := 0.0
		for _, r := range rows {
			sum += r[c]
		}
		s.mean[c] = sum / n

		varSum := 0.0
		for _, r := range rows {
			d := r[c] - s.mean[c]
			varSum += d * d
		}
		s.scale[c] = math.Sqrt(varSum / n)
		if s.scale[c] == 0 {
			s.scale[c] = 1.0
		}
	}
}

func (s *standardScaler) transform(row []float64) []float64 {
	out := make([]float64, len(row))
	for c, v := range row {
		out[c] = (v - s.mean[c]) / s.scale[c]
	}
	return out
}

// linreg is ordinary least squares with an intercept, fit through the
// normal equations.
type linreg struct {
	coef      []float64
	intercept float64
}

// fit solves (X'X)b = X'y for the standardized design matrix with an
// implicit leading column of ones.
func (l *linreg) fit(rows [][]float64, targets []float64) {
	cols := len(rows[0])
	dim := cols + 1

	// Normal-equation matrix and right-hand side, intercept first.
	a := make([][]float64, dim)
	for i := range a {
		a[i] = make([]float64, dim+1)
	}
	for k, r := range rows {
		x := make([]float64, dim)
		x[0] = 1.0
		copy(x[1:], r)
		for i := 0; i < dim; i++ {
			for j := 0; j < dim; j++ {
				a[i][j] += x[i] * x[j]
			}
			a[i][dim] += x[i] * targets[k]
		}
	}

	b := solve(a, dim)
	l.intercept = b[0]
	l.coef = b[1:]
}

// solve runs Gaussian elimination with partial pivoting over the
// augmented matrix. Near-singular pivots zero their coefficient rather
// than blowing up; collinear features then simply contribute nothing.
func solve(a [][]float64, dim int) []float64 {
	const eps = 1e-10

	for col := 0; col < dim; col++ {
		pivot := col
		for r := col + 1; r < dim; r++ {
			if math.Abs(a[r][col]) > math.Abs(a[pivot][col]) {
				pivot = r
			}
		}
		a[col], a[pivot] = a[pivot], a[col]

		if math.Abs(a[col][col]) < eps {
			continue
		}
		for r := col + 1; r < dim; r++ {
			f := a[r][col] / a[col][col]
			for c := col; c <= dim; c++ {
				a[r][c] -= f * a[col][c]
			}
		}
	}

	b := make([]float64, dim)
	for col := dim - 1; col >= 0; col-- {
		if math.Abs(a[col][col]) < eps {
			b[col] = 0
			continue
		}
		sum := a[col][dim]
		for c := col + 1; c < dim; c++ {
			sum -= a[col][c] * b[c]
		}
		b[col] = sum / a[col][col]
	}
	return b
}

func (l *linreg) predict(row []float64) float64 {
	out := l.intercept
	for i, v := range row {
		out += l.coef[i] * v
	}
	return out
}

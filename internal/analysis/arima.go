package analysis

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/optimize"
)

// ARIMAModel is a fitted ARIMA(1,1,1) model over a daily series. The fit
// minimizes the conditional sum of squares of the differenced series, with
// the AR and MA coefficients kept inside the unit interval through a tanh
// reparameterization.
type ARIMAModel struct {
	Phi    float64
	Theta  float64
	Sigma2 float64
	AIC    float64
	BIC    float64

	lastLevel float64
	lastDiff  float64
	lastEps   float64
}

// FitARIMA111 fits an ARIMA(1,1,1) model to series. It returns an error when
// the optimizer fails or produces a degenerate fit; callers are expected to
// fall back to a simpler estimator in that case.
func FitARIMA111(series []float64) (*ARIMAModel, error) {
	if len(series) < 4 {
		return nil, fmt.Errorf("arima: need at least 4 observations, got %d", len(series))
	}

	diff := make([]float64, len(series)-1)
	for i := 1; i < len(series); i++ {
		diff[i-1] = series[i] - series[i-1]
	}

	css := func(x []float64) float64 {
		phi, theta := math.Tanh(x[0]), math.Tanh(x[1])
		_, sse := residuals(diff, phi, theta)
		return sse
	}

	problem := optimize.Problem{Func: css}
	result, err := optimize.Minimize(problem, []float64{0.1, 0.1}, nil, &optimize.NelderMead{})
	if err != nil {
		return nil, fmt.Errorf("arima: optimization failed: %w", err)
	}
	if err := result.Status.Err(); err != nil {
		return nil, fmt.Errorf("arima: optimizer did not converge: %w", err)
	}

	phi, theta := math.Tanh(result.X[0]), math.Tanh(result.X[1])
	eps, sse := residuals(diff, phi, theta)

	n := float64(len(diff))
	sigma2 := sse / n
	if sigma2 <= 0 || math.IsNaN(sigma2) || math.IsInf(sigma2, 0) {
		return nil, fmt.Errorf("arima: degenerate innovation variance %v", sigma2)
	}

	// Gaussian log-likelihood at the CSS estimate; 3 parameters (phi, theta,
	// sigma2).
	logLik := -n / 2 * (math.Log(2*math.Pi*sigma2) + 1)
	k := 3.0

	return &ARIMAModel{
		Phi:       phi,
		Theta:     theta,
		Sigma2:    sigma2,
		AIC:       -2*logLik + 2*k,
		BIC:       -2*logLik + k*math.Log(n),
		lastLevel: series[len(series)-1],
		lastDiff:  diff[len(diff)-1],
		lastEps:   eps[len(eps)-1],
	}, nil
}

// Forecast projects steps future values with symmetric 95% confidence
// bounds. Bounds widen with horizon through the cumulative psi weights of
// the integrated process.
func (m *ARIMAModel) Forecast(steps int) (values, low, high []float64) {
	values = make([]float64, steps)
	low = make([]float64, steps)
	high = make([]float64, steps)

	// Forecast the differenced series, then integrate back to levels.
	diffForecast := make([]float64, steps)
	for h := 0; h < steps; h++ {
		if h == 0 {
			diffForecast[h] = m.Phi*m.lastDiff + m.Theta*m.lastEps
		} else {
			diffForecast[h] = m.Phi * diffForecast[h-1]
		}
	}

	level := m.lastLevel
	psiSum := 0.0 // cumulative psi weight for the current horizon
	varSum := 0.0 // sum over horizons of (cumulative psi)^2
	psi := 1.0
	for h := 0; h < steps; h++ {
		level += diffForecast[h]
		values[h] = level

		if h == 0 {
			psi = 1
		} else if h == 1 {
			psi = m.Phi + m.Theta
		} else {
			psi *= m.Phi
		}
		psiSum += psi
		varSum += psiSum * psiSum

		se := math.Sqrt(m.Sigma2 * varSum)
		low[h] = level - 1.96*se
		high[h] = level + 1.96*se
	}
	return values, low, high
}

func residuals(diff []float64, phi, theta float64) ([]float64, float64) {
	eps := make([]float64, len(diff))
	var sse float64
	for t := range diff {
		if t == 0 {
			eps[t] = diff[t]
		} else {
			eps[t] = diff[t] - phi*diff[t-1] - theta*eps[t-1]
		}
		sse += eps[t] * eps[t]
	}
	return eps, sse
}

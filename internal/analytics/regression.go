package analytics

import "github.com/andresuchdata/logistics-analytics/backend-go/internal/domain"

// LineFit is an ordinary-least-squares line y = Slope*x + Intercept.
// Degenerate is set when no line can be fit (fewer than two distinct x values);
// Slope and Intercept are zero in that case.
type LineFit struct {
	Slope      float64
	Intercept  float64
	Degenerate bool
}

// FitLine computes the OLS line through points.
func FitLine(points []domain.SeriesPoint) LineFit {
	n := float64(len(points))
	if len(points) == 0 {
		return LineFit{Degenerate: true}
	}

	var sumX, sumY, sumXY, sumXX float64
	for _, p := range points {
		sumX += p.X
		sumY += p.Y
		sumXY += p.X * p.Y
		sumXX += p.X * p.X
	}

	denominator := n*sumXX - sumX*sumX
	if denominator == 0 {
		return LineFit{Degenerate: true}
	}

	slope := (n*sumXY - sumX*sumY) / denominator
	return LineFit{
		Slope:     slope,
		Intercept: (sumY - slope*sumX) / n,
	}
}

// Predict evaluates the line at x.
func (f LineFit) Predict(x float64) float64 {
	return f.Slope*x + f.Intercept
}

// LinearRegression fits points and returns one RegressionPoint per input. For a
// degenerate fit every PredictedY equals the observed Y.
func LinearRegression(points []domain.SeriesPoint) []domain.RegressionPoint {
	return applyFit(points, FitLine(points))
}

func applyFit(points []domain.SeriesPoint, fit LineFit) []domain.RegressionPoint {
	out := make([]domain.RegressionPoint, len(points))
	for i, p := range points {
		predicted := p.Y
		if !fit.Degenerate {
			predicted = fit.Predict(p.X)
		}
		out[i] = domain.RegressionPoint{
			X:          p.X,
			Y:          p.Y,
			PredictedY: predicted,
			Date:       p.Date,
		}
	}
	return out
}

// LabelForecast splits a regression result into past and present points. The
// last point is the present one: its observed value is shown as current status
// and the past value is suppressed. Every other point is past. The fitted value
// is carried as the forecast for all points.
func LabelForecast(points []domain.RegressionPoint) []domain.ForecastPoint {
	out := make([]domain.ForecastPoint, len(points))
	last := len(points) - 1
	for i, p := range points {
		y := p.Y
		fp := domain.ForecastPoint{
			RegressionPoint: p,
			Phase:           domain.PhasePast,
			Forecast:        p.PredictedY,
		}
		if i == last {
			fp.Phase = domain.PhasePresent
			fp.Present = &y
		} else {
			fp.Past = &y
		}
		out[i] = fp
	}
	return out
}

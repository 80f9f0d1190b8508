package tools

import (
	"context"
	"fmt"
	"log"
	"math"
	"time"

	"github.com/axion-health/axion-api/internal/analysis"
	"github.com/axion-health/axion-api/internal/metrics"
	"gonum.org/v1/gonum/stat"
)

const (
	minForecastSamples = 14
	historyWindow      = 7
)

// RunForecasting fits an ARIMA(1,1,1) model over a metric's daily means and
// projects future values with 95% confidence bounds. When the fit fails the
// tool degrades to a moving-average estimate and says so in a note.
func (t *Toolset) RunForecasting(ctx context.Context, userID, metricName string, forecastDays, lookbackDays int) Outcome {
	if forecastDays <= 0 {
		forecastDays = 7
	}
	if lookbackDays <= 0 {
		lookbackDays = 30
	}

	normalized := metrics.Normalize(metricName)
	end := t.now()
	start := end.AddDate(0, 0, -lookbackDays)

	log.Printf("[TOOL] run_forecasting user=%s metric=%s days=%d", userID, normalized, forecastDays)

	samples, err := t.Metrics.MetricsInRange(userID, normalized, start, end)
	if err != nil {
		log.Printf("[TOOL] run_forecasting store error: %v", err)
		return upstreamFailure(map[string]any{
			"forecast_values": []any{},
			"error":           err.Error(),
		})
	}

	points := numericPoints(samples)
	if len(points) < minForecastSamples {
		return insufficientData(map[string]any{
			"forecast_values": []any{},
			"error":           fmt.Sprintf("Insufficient data for forecasting %s. Need at least %d data points, got %d", normalized, minForecastSamples, len(points)),
			"data_points":     len(points),
			"queried_metric":  normalized,
			"original_query":  metricName,
		})
	}

	daily := analysis.AggregateDaily(points, t.aggregator())
	if len(daily) < minForecastSamples {
		return insufficientData(map[string]any{
			"forecast_values": []any{},
			"error":           fmt.Sprintf("Insufficient daily data points for ARIMA. Need at least %d days.", minForecastSamples),
			"data_points":     len(daily),
			"queried_metric":  normalized,
			"original_query":  metricName,
		})
	}

	series := make([]float64, len(daily))
	for i, d := range daily {
		series[i] = d.Value
	}
	lastDate := daily[len(daily)-1].Date
	forecastDates := futureDates(lastDate, forecastDays)

	model, err := analysis.FitARIMA111(series)
	if err != nil {
		log.Printf("[TOOL] run_forecasting ARIMA fit failed, using fallback: %v", err)
		return ok(t.movingAverageFallback(daily, forecastDates, normalized))
	}

	values, low, high := model.Forecast(forecastDays)
	intervals := make([]map[string]any, forecastDays)
	for i := range intervals {
		intervals[i] = map[string]any{"low": low[i], "high": high[i]}
	}

	histDates, histValues := recentHistory(daily)

	log.Printf("[TOOL] run_forecasting complete: %d days predicted", forecastDays)
	return ok(map[string]any{
		"forecast_dates":       forecastDates,
		"forecast_values":      values,
		"confidence_intervals": intervals,
		"metric_name":          normalized,
		"original_query":       metricName,
		"model_info": map[string]any{
			"type":  "ARIMA",
			"order": []int{1, 1, 1},
			"aic":   model.AIC,
			"bic":   model.BIC,
		},
		"historical_data": map[string]any{
			"dates":  histDates,
			"values": histValues,
		},
	})
}

// movingAverageFallback repeats the mean of the last 7 daily values with
// bounds at mean ± 1.96·std of those same values.
func (t *Toolset) movingAverageFallback(daily []analysis.DailyPoint, forecastDates []string, metricName string) map[string]any {
	window := daily
	if len(window) > historyWindow {
		window = window[len(window)-historyWindow:]
	}
	recent := make([]float64, len(window))
	for i, d := range window {
		recent[i] = d.Value
	}

	mean := stat.Mean(recent, nil)
	std := stat.StdDev(recent, nil)
	if math.IsNaN(std) || std <= 0 {
		// Degenerate window (constant or single value); keep the interval
		// strictly ordered.
		std = math.Max(math.Abs(mean)*0.05, 1e-6)
	}

	values := make([]float64, len(forecastDates))
	intervals := make([]map[string]any, len(forecastDates))
	for i := range forecastDates {
		values[i] = mean
		intervals[i] = map[string]any{
			"low":  mean - 1.96*std,
			"high": mean + 1.96*std,
		}
	}

	histDates, histValues := recentHistory(daily)

	return map[string]any{
		"forecast_dates":       forecastDates,
		"forecast_values":      values,
		"confidence_intervals": intervals,
		"metric_name":          metricName,
		"model_info": map[string]any{
			"type":   "Simple Moving Average (Fallback)",
			"window": historyWindow,
		},
		"historical_data": map[string]any{
			"dates":  histDates,
			"values": histValues,
		},
		"note": "ARIMA model failed, using simple moving average",
	}
}

func futureDates(lastDate time.Time, days int) []string {
	dates := make([]string, days)
	for i := 0; i < days; i++ {
		dates[i] = lastDate.AddDate(0, 0, i+1).Format("2006-01-02")
	}
	return dates
}

func recentHistory(daily []analysis.DailyPoint) ([]string, []float64) {
	window := daily
	if len(window) > historyWindow {
		window = window[len(window)-historyWindow:]
	}
	dates := make([]string, len(window))
	values := make([]float64, len(window))
	for i, d := range window {
		dates[i] = d.Date.Format("2006-01-02")
		values[i] = d.Value
	}
	return dates, values
}

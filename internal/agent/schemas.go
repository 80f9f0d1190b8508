package agent

import "github.com/google/generative-ai-go/genai"

// Tool names form a closed vocabulary; the dispatcher registry is validated
// against these declarations at startup.
const (
	ToolDetectAnomalies      = "detect_anomalies"
	ToolFindCorrelations     = "find_correlations"
	ToolRunForecasting       = "run_forecasting"
	ToolSearchPrivateJournal = "search_private_journal"
	ToolExternalResearch     = "external_research"
)

// ToolDeclarations returns the function schemas the model is configured
// with. None of them mention user_id: the dispatcher injects it, so the
// model can neither supply nor override it.
func ToolDeclarations() []*genai.FunctionDeclaration {
	return []*genai.FunctionDeclaration{
		{
			Name:        ToolDetectAnomalies,
			Description: "Detect unusual patterns or outliers in a specific health metric using machine learning. Use this when the user asks about abnormal readings, sudden changes, or wants to identify concerning patterns.",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"metric_name": {
						Type:        genai.TypeString,
						Description: "Name of the health metric to analyze. Common metrics: 'heart_rate_resting', 'heart_rate_sleep', 'steps', 'sleep_duration', 'blood_pressure_systolic', 'blood_pressure_diastolic', 'oxygen_saturation', 'body_fat'. You can also use user-friendly names like 'heart rate' which will be normalized automatically.",
					},
					"lookback_days": {
						Type:        genai.TypeInteger,
						Description: "Number of days to analyze (default: 30)",
					},
					"contamination": {
						Type:        genai.TypeNumber,
						Description: "Expected proportion of outliers 0.0-0.5 (default: 0.1)",
					},
				},
				Required: []string{"metric_name"},
			},
		},
		{
			Name:        ToolFindCorrelations,
			Description: "Find statistical relationships between different health metrics. Use this when the user asks about connections between metrics, what affects what, or wants to understand how different health factors relate to each other.",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"lookback_days": {
						Type:        genai.TypeInteger,
						Description: "Number of days to analyze (default: 30)",
					},
					"min_correlation": {
						Type:        genai.TypeNumber,
						Description: "Minimum correlation coefficient to report (default: 0.3)",
					},
				},
			},
		},
		{
			Name:        ToolRunForecasting,
			Description: "Predict future values of a health metric based on historical patterns using time-series analysis. Use this when the user asks about future trends, predictions, or what to expect.",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"metric_name": {
						Type:        genai.TypeString,
						Description: "Name of the health metric to forecast. Common metrics: 'heart_rate_resting' (for resting heart rate), 'heart_rate_sleep', 'steps', 'sleep_duration', 'weight', 'body_mass_index'. You can also use user-friendly names like 'heart rate' or 'resting heart rate' which will be normalized automatically.",
					},
					"forecast_days": {
						Type:        genai.TypeInteger,
						Description: "Number of days to forecast (default: 7)",
					},
					"lookback_days": {
						Type:        genai.TypeInteger,
						Description: "Number of historical days to use (default: 30)",
					},
				},
				Required: []string{"metric_name"},
			},
		},
		{
			Name:        ToolSearchPrivateJournal,
			Description: "Search the user's private journal entries using semantic similarity. Use this when the user asks about past experiences, journal entries, or wants to recall information they wrote about.",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"query": {
						Type:        genai.TypeString,
						Description: "Search query describing what to look for in journal entries",
					},
					"n_results": {
						Type:        genai.TypeInteger,
						Description: "Number of results to return (default: 5)",
					},
				},
				Required: []string{"query"},
			},
		},
		{
			Name:        ToolExternalResearch,
			Description: "Search the internet for health-related information with citations to credible sources. Use this when the user asks about medical conditions, medication effects, health advice, or any information not available in their personal data.",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"query": {
						Type:        genai.TypeString,
						Description: "Research query (e.g., 'side effects of antihistamines on heart rate')",
					},
				},
				Required: []string{"query"},
			},
		},
	}
}

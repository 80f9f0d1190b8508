package agent

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"time"
)

// maxToolRounds bounds the number of model round-trips in one query. A
// model that keeps requesting tools past the cap gets cut off with whatever
// text it last produced.
const maxToolRounds = 10

const querySystemInstruction = `You are a personalized health AI assistant. You have access to the user's private health data and can:
1. Detect anomalies in health metrics
2. Find correlations between metrics
3. Forecast future trends
4. Search their private journal entries
5. Research health topics on the internet

Available health metrics include:
- Heart: heart_rate_resting, heart_rate_sleep, heart_rate_variability_sdnn, heart_rate_variability_rmssd
- Activity: steps, active_duration, floors_climbed, active_energy_burned
- Sleep: sleep_duration, sleep_deep_duration, sleep_rem_duration, sleep_light_duration
- Body: weight, body_mass_index, body_fat, height
- Vitals: blood_pressure_systolic, blood_pressure_diastolic, oxygen_saturation, respiratory_rate, blood_glucose

You can use user-friendly names (e.g., "heart rate" for "heart_rate_resting") and they will be normalized automatically.

When answering queries:
- Always prioritize the user's privacy and data security
- Provide specific, actionable insights based on their personal data
- Cite sources when using external research
- Be clear about the limitations of your analysis
- Use a supportive, non-alarmist tone
- If you detect concerning patterns, suggest consulting a healthcare professional
- Remember context from previous messages in this conversation`

const insightsSystemInstruction = `You are a proactive health insights AI assistant. You have access to the user's health data through tools.

To generate insights:
1. Use find_correlations to discover relationships between health metrics
2. Use detect_anomalies on key metrics (heart_rate_resting, steps, sleep_duration) to find unusual patterns
3. Based on the data from these tools, generate 3-5 specific, actionable insights

Be specific with actual numbers, dates, and metric values from the tool results. Provide insights that are meaningful, backed by real data, and relevant to their health.`

const insightsPrompt = `Analyze my health data and provide 3-5 specific health insights. Use your tools to:
1. Find correlations between my health metrics
2. Detect any anomalies in my heart rate, steps, and sleep patterns
3. Based on the real data you find, give me personalized recommendations

Format your response as a clear, numbered list with specific metrics, dates, and values from my actual data.`

// Orchestrator drives the multi-round tool-calling conversation.
type Orchestrator struct {
	llm        LLM
	dispatcher *Dispatcher
	now        func() time.Time
}

func NewOrchestrator(llm LLM, dispatcher *Dispatcher) *Orchestrator {
	return &Orchestrator{
		llm:        llm,
		dispatcher: dispatcher,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// ProcessQuery answers one natural-language question, running whatever
// tools the model asks for along the way. The returned Response is
// well-formed under all circumstances.
func (o *Orchestrator) ProcessQuery(ctx context.Context, userID, query string, history []Turn) Response {
	log.Printf("[AGENT] processing query for user %s: %q", userID, query)
	resp := o.processWith(ctx, userID, querySystemInstruction, query, history)
	if resp.Error != "" {
		log.Printf("[AGENT] query degraded for user %s: %s", userID, resp.Error)
	} else {
		log.Printf("[AGENT] query processed, tools used: %v", resp.ToolsUsed)
	}
	return resp
}

// GenerateInsights runs the same loop with a fixed proactive prompt and
// wraps the answer in a one-element insight feed.
func (o *Orchestrator) GenerateInsights(ctx context.Context, userID string) []Insight {
	log.Printf("[AGENT] generating insights for user %s", userID)

	resp := o.processWith(ctx, userID, insightsSystemInstruction, insightsPrompt, nil)
	timestamp := o.now().Format(time.RFC3339)

	if resp.Error != "" {
		return []Insight{{
			Type:        "error",
			Title:       "Error Generating Insights",
			Description: fmt.Sprintf("Unable to generate insights: %s", resp.Error),
			Timestamp:   timestamp,
		}}
	}

	description := resp.Answer
	if description == "" {
		description = "Unable to generate insights at this time."
	}

	return []Insight{{
		Type:        "summary",
		Title:       "AI Health Insights",
		Description: description,
		Timestamp:   timestamp,
		ToolsUsed:   resp.ToolsUsed,
	}}
}

// processWith is the shared loop body behind ProcessQuery and
// GenerateInsights.
func (o *Orchestrator) processWith(ctx context.Context, userID, systemInstruction, prompt string, history []Turn) (resp Response) {
	defer func() {
		if r := recover(); r != nil {
			resp = degradedResponse(fmt.Sprintf("%T: %v", r, r))
		}
	}()

	session := o.llm.StartChat(systemInstruction, history)
	turn, err := session.Send(ctx, prompt)
	if err != nil {
		return degradedResponse(err.Error())
	}

	toolsUsed := []string{}
	toolResults := make(map[string]map[string]any)

	for round := 0; round < maxToolRounds; round++ {
		if len(turn.ToolCalls) == 0 {
			break // final answer
		}

		// Execute the whole batch before responding: one round-trip per
		// model decision point, not per tool call.
		responses := make([]ToolResponse, 0, len(turn.ToolCalls))
		for _, call := range turn.ToolCalls {
			toolsUsed = append(toolsUsed, call.Name)
			outcome := o.dispatcher.Execute(ctx, call.Name, userID, call.Args)
			toolResults[call.Name] = outcome.Payload // last result wins
			responses = append(responses, ToolResponse{Name: call.Name, Result: outcome.Payload})
		}

		log.Printf("[AGENT] round %d: sending %d tool results back to model", round+1, len(responses))
		turn, err = session.SendToolResults(ctx, responses)
		if err != nil {
			return degradedResponse(err.Error())
		}
	}

	if len(turn.ToolCalls) > 0 {
		log.Printf("[AGENT] iteration cap reached after %d rounds, returning last text", maxToolRounds)
	}

	return Response{
		Answer:      turn.Text,
		ToolsUsed:   toolsUsed,
		ToolResults: toolResults,
		Sources:     extractSources(toolResults),
	}
}

// extractSources surfaces external-research citations as top-level sources.
func extractSources(toolResults map[string]map[string]any) []Source {
	sources := []Source{}
	research, ok := toolResults[ToolExternalResearch]
	if !ok {
		return sources
	}

	switch citations := research["citations"].(type) {
	case []string:
		for _, c := range citations {
			sources = append(sources, Source{URL: c, Title: citationTitle(c)})
		}
	case []any:
		for _, c := range citations {
			if s, ok := c.(string); ok {
				sources = append(sources, Source{URL: s, Title: citationTitle(s)})
			}
		}
	}
	return sources
}

func citationTitle(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return rawURL
	}
	return parsed.Host
}

func degradedResponse(errMsg string) Response {
	return Response{
		Answer:      fmt.Sprintf("I apologize, but I encountered an error processing your query: %s", errMsg),
		ToolsUsed:   []string{},
		ToolResults: map[string]map[string]any{},
		Sources:     []Source{},
		Error:       errMsg,
	}
}

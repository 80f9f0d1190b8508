// Package tools implements the five analysis functions the health agent can
// invoke: anomaly detection, cross-metric correlation, forecasting, semantic
// journal search and cited external research. Every tool returns a tagged
// Outcome instead of raising; the payload map is what the model sees.
package tools

// Kind classifies a tool outcome so callers can branch without matching
// error strings.
type Kind int

const (
	// KindOK is a successful analysis.
	KindOK Kind = iota
	// KindInsufficientData is an expected condition: the user simply does
	// not have enough samples. Reported in-band, never fatal.
	KindInsufficientData
	// KindUpstreamFailure is a dependency fault (store, index, research
	// endpoint). Also reported in-band; retries belong to outer layers.
	KindUpstreamFailure
)

// Outcome is the result of one tool execution. Payload is always non-nil
// and well-formed; on non-OK kinds it carries an "error" key.
type Outcome struct {
	Kind    Kind
	Payload map[string]any
}

func ok(payload map[string]any) Outcome {
	return Outcome{Kind: KindOK, Payload: payload}
}

func insufficientData(payload map[string]any) Outcome {
	return Outcome{Kind: KindInsufficientData, Payload: payload}
}

func upstreamFailure(payload map[string]any) Outcome {
	return Outcome{Kind: KindUpstreamFailure, Payload: payload}
}

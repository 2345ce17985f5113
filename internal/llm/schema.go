package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	"coldopen/internal/model"
)

// Decoders validate the model's JSON content at the boundary before anything
// downstream trusts it. Top-level shape is strict (missing required fields
// are a schema violation); enum details are coerced to safe defaults, since
// models drift on casing long before they drift on structure.

// AnalysisResult is the validated shape of an analysis completion.
type AnalysisResult struct {
	TalkingPoints           []model.TalkingPoint `json:"talking_points"`
	MutualInterests         []string             `json:"mutual_interests"`
	ConnectionOpportunities []string             `json:"connection_opportunities"`
	SuggestedApproach       string               `json:"suggested_approach"`
	CautionFlags            []string             `json:"caution_flags"`
}

// MessageResult is the validated shape of a generation completion.
type MessageResult struct {
	Subject     string             `json:"subject"`
	Message     string             `json:"message"`
	Annotations []model.Annotation `json:"annotations"`
}

// PolishResult is the validated shape of a polish completion. It mirrors
// MessageResult minus the subject; the two flows stay deliberately separate.
type PolishResult struct {
	Message     string             `json:"message"`
	Annotations []model.Annotation `json:"annotations"`
}

// DecodeAnalysis parses and validates analysis content. At least one talking
// point with a topic is required; an analysis without one cannot seed a
// message.
func DecodeAnalysis(content string) (*AnalysisResult, error) {
	var out AnalysisResult
	if err := json.Unmarshal([]byte(content), &out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	kept := out.TalkingPoints[:0]
	for _, tp := range out.TalkingPoints {
		if strings.TrimSpace(tp.Topic) == "" {
			continue
		}
		tp.Relevance = normalizeRelevance(tp.Relevance)
		kept = append(kept, tp)
	}
	out.TalkingPoints = kept

	if len(out.TalkingPoints) == 0 {
		return nil, fmt.Errorf("%w: no talking points", ErrSchemaViolation)
	}
	return &out, nil
}

// DecodeMessage parses and validates generation content.
func DecodeMessage(content string) (*MessageResult, error) {
	var out MessageResult
	if err := json.Unmarshal([]byte(content), &out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if strings.TrimSpace(out.Message) == "" {
		return nil, fmt.Errorf("%w: empty message", ErrSchemaViolation)
	}
	out.Annotations = normalizeAnnotations(out.Annotations)
	return &out, nil
}

// DecodePolish parses and validates polish content.
func DecodePolish(content string) (*PolishResult, error) {
	var out PolishResult
	if err := json.Unmarshal([]byte(content), &out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if strings.TrimSpace(out.Message) == "" {
		return nil, fmt.Errorf("%w: empty message", ErrSchemaViolation)
	}
	out.Annotations = normalizeAnnotations(out.Annotations)
	return &out, nil
}

func normalizeRelevance(r model.Relevance) model.Relevance {
	switch model.Relevance(strings.ToLower(string(r))) {
	case model.RelevanceHigh:
		return model.RelevanceHigh
	case model.RelevanceLow:
		return model.RelevanceLow
	default:
		return model.RelevanceMedium
	}
}

// normalizeAnnotations drops empty entries and coerces unknown sources to
// "generated", the only always-true attribution.
func normalizeAnnotations(in []model.Annotation) []model.Annotation {
	out := in[:0]
	for _, a := range in {
		if strings.TrimSpace(a.Text) == "" {
			continue
		}
		switch a.Source {
		case model.SourceTargetProfile, model.SourceUserProfile, model.SourceGenerated:
		default:
			a.Source = model.SourceGenerated
		}
		out = append(out, a)
	}
	return out
}

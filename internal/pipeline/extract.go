package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/agri-advisor/internal/model"
	"github.com/sells-group/agri-advisor/pkg/anthropic"
)

const extractSystemPrompt = `You extract agricultural recommendations from raw text into structured JSON. Respond with only a JSON array, no commentary.`

const extractUserPrompt = `%s

Text:
%s

Return a JSON array in this format:
[
  {
    "recommendation": "",
    "dosage": "",
    "method": "",
    "confidence": %.1f
  }
]`

// extractor turns raw snippet text into structured evidence items via a
// single model call. The model's reply is parsed strictly as JSON and
// fails closed: malformed output yields an empty slice, never an error
// and never evaluation of returned text.
type extractor struct {
	ai    anthropic.Client
	model string
}

// Extract structures the given text into evidence items tagged with the
// source kind. instruction is the source-specific framing line;
// defaultConfidence seeds the confidence the model should report.
func (e *extractor) Extract(ctx context.Context, instruction, text string, source model.SourceKind, defaultConfidence float64) ([]model.EvidenceItem, error) {
	prompt := fmt.Sprintf(extractUserPrompt, instruction, text, defaultConfidence)

	resp, err := e.ai.CreateMessage(ctx, anthropic.MessageRequest{
		Model:     e.model,
		MaxTokens: 1024,
		System:    anthropic.BuildCachedSystemBlocks(extractSystemPrompt),
		Messages: []anthropic.Message{
			{Role: "user", Content: prompt},
		},
	})
	if err != nil {
		return nil, eris.Wrap(err, "extract: create message")
	}
	resp.Usage.LogCost(e.model, "extract")

	items, err := parseEvidenceItems(resp.Text(), source, defaultConfidence)
	if err != nil {
		return nil, eris.Wrap(err, "extract: parse items")
	}
	return items, nil
}

// parseEvidenceItems parses a model reply as a JSON array of evidence
// items. Items with an empty recommendation are dropped; out-of-range
// confidences clamp to the default.
func parseEvidenceItems(text string, source model.SourceKind, defaultConfidence float64) ([]model.EvidenceItem, error) {
	cleaned := cleanJSONArray(text)

	var raw []struct {
		Recommendation string  `json:"recommendation"`
		Dosage         string  `json:"dosage"`
		Method         string  `json:"method"`
		Confidence     float64 `json:"confidence"`
	}
	if err := json.Unmarshal([]byte(cleaned), &raw); err != nil {
		return nil, eris.Wrap(err, "parse evidence json")
	}

	items := make([]model.EvidenceItem, 0, len(raw))
	for _, r := range raw {
		if strings.TrimSpace(r.Recommendation) == "" {
			continue
		}
		conf := r.Confidence
		if conf <= 0 || conf > 1 {
			conf = defaultConfidence
		}
		items = append(items, model.EvidenceItem{
			Source:         source,
			Recommendation: r.Recommendation,
			Dosage:         r.Dosage,
			Method:         r.Method,
			Confidence:     conf,
		})
	}
	return items, nil
}

// cleanJSONArray attempts to extract a JSON array from text that may
// contain markdown code fences or other wrapping.
func cleanJSONArray(text string) string {
	text = strings.TrimSpace(text)

	// Strip markdown code fences.
	if strings.HasPrefix(text, "```json") {
		text = strings.TrimPrefix(text, "```json")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
	} else if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
	}

	// Find first [ and last ].
	start := strings.Index(text, "[")
	end := strings.LastIndex(text, "]")
	if start >= 0 && end > start {
		text = text[start : end+1]
	}

	return strings.TrimSpace(text)
}

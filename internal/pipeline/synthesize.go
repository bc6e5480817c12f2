package pipeline

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/sells-group/agri-advisor/internal/model"
	"github.com/sells-group/agri-advisor/pkg/anthropic"
)

// requiredSolutions is the contract with the synthesis model: exactly
// this many distinct corrective methods, or the output is rejected.
const requiredSolutions = 5

const synthesisSystemPrompt = `You are a professional agricultural technical advisor. You answer with only valid JSON, no commentary.`

const synthesisUserPrompt = `Provide the TOP %d most effective DISTINCT corrective methods to solve the stated agricultural problem.

Return ONLY valid JSON in this structure:

{
  "domain": "%s",
  "problem": "%s",
  "top_solutions_ranked": [
      {
          "rank": 1,
          "method_name": "",
          "core_mechanism": "",
          "why_effective": ""
      }
  ],
  "confidence_level": "high/medium/low",
  "poll": {
      "question": "",
      "options": ["", "", "", "", ""]
  }
}

STRICT RULES:
- Provide EXACTLY %d direct corrective methods.
- Each method must directly solve the stated problem.
- Exclude monitoring, diagnosis, advisory-only steps.
- No duplicate mechanisms.
- Each method must represent a different intervention approach.
- Keep responses short and technical.
- No vague verbs.
- Poll options must match method_name exactly.
- Output ONLY JSON.

Verified Evidence:
%s`

// synthesisOutput mirrors the JSON contract the model is held to.
type synthesisOutput struct {
	Domain          string           `json:"domain"`
	Problem         string           `json:"problem"`
	Solutions       []model.Solution `json:"top_solutions_ranked"`
	ConfidenceLevel string           `json:"confidence_level"`
	Poll            *model.Poll      `json:"poll"`
}

// Synthesizer turns ranked evidence into the final advisory via one
// model call, then validates and repairs the structured output.
type Synthesizer struct {
	ai           anthropic.Client
	model        string
	dedupOverlap int
}

// NewSynthesizer creates the advisory synthesizer.
func NewSynthesizer(ai anthropic.Client, modelID string, dedupOverlap int) *Synthesizer {
	return &Synthesizer{ai: ai, model: modelID, dedupOverlap: dedupOverlap}
}

// Synthesize builds the synthesis prompt from the filtered evidence,
// invokes the model once, and validates its output. Parse failures
// yield an Error advisory carrying the raw text; insufficiently
// distinct solutions yield Uncertain. Never returns nil.
func (s *Synthesizer) Synthesize(ctx context.Context, domain model.Domain, query string, evidence []model.EvidenceItem) *model.Advisory {
	evidenceJSON, err := json.MarshalIndent(evidence, "", "  ")
	if err != nil {
		return model.ErrorAdvisory("failed to serialize evidence", "")
	}

	prompt := fmt.Sprintf(synthesisUserPrompt, requiredSolutions, domain, query, requiredSolutions, string(evidenceJSON))

	resp, err := s.ai.CreateMessage(ctx, anthropic.MessageRequest{
		Model:     s.model,
		MaxTokens: 2048,
		System:    anthropic.BuildCachedSystemBlocks(synthesisSystemPrompt),
		Messages: []anthropic.Message{
			{Role: "user", Content: prompt},
		},
	})
	if err != nil {
		zap.L().Error("synthesize: model call failed", zap.Error(err))
		return model.ErrorAdvisory("advisory model call failed", "")
	}
	resp.Usage.LogCost(s.model, "synthesize")

	return s.Validate(domain, query, resp.Text())
}

// Validate extracts and parses the JSON object in raw model text, then
// enforces the distinct-solution contract. Exposed separately so the
// validation path is testable without a model.
func (s *Synthesizer) Validate(domain model.Domain, query, raw string) *model.Advisory {
	span, ok := extractJSONObject(raw)
	if !ok {
		return model.ErrorAdvisory("model output contained no JSON object", raw)
	}

	var out synthesisOutput
	if err := json.Unmarshal([]byte(span), &out); err != nil {
		zap.L().Warn("synthesize: JSON parse failed", zap.Error(err))
		return model.ErrorAdvisory("model output failed JSON parsing", raw)
	}

	solutions := DeduplicateSolutions(out.Solutions, s.dedupOverlap)
	if len(solutions) < requiredSolutions {
		zap.L().Info("synthesize: insufficient distinct solutions",
			zap.Int("proposed", len(out.Solutions)),
			zap.Int("distinct", len(solutions)),
		)
		return model.Uncertain("Generated solutions overlap or are not sufficiently distinct.")
	}

	solutions = solutions[:requiredSolutions]
	for i := range solutions {
		solutions[i].Rank = i + 1
	}

	confidence := out.ConfidenceLevel
	if confidence == "" {
		confidence = "medium"
	}

	return &model.Advisory{
		Status:          model.StatusSuccess,
		Domain:          domain,
		Problem:         query,
		Solutions:       solutions,
		ConfidenceLevel: confidence,
		Poll:            repairPoll(out.Poll, solutions),
	}
}

// repairPoll makes the poll options match the surviving method names
// verbatim, regardless of what the model emitted.
func repairPoll(poll *model.Poll, solutions []model.Solution) *model.Poll {
	question := "Which method worked best for you?"
	if poll != nil && poll.Question != "" {
		question = poll.Question
	}
	options := make([]string, len(solutions))
	for i, sol := range solutions {
		options[i] = sol.MethodName
	}
	return &model.Poll{Question: question, Options: options}
}

// extractJSONObject returns the first balanced {...} span in text,
// tolerating prose before and after. Brace depth is tracked outside of
// string literals; an unterminated object reports not found.
func extractJSONObject(text string) (string, bool) {
	start := -1
	depth := 0
	inString := false
	escaped := false

	for i, r := range text {
		if inString {
			switch {
			case escaped:
				escaped = false
			case r == '\\':
				escaped = true
			case r == '"':
				inString = false
			}
			continue
		}

		switch r {
		case '"':
			if start >= 0 {
				inString = true
			}
		case '{':
			if start < 0 {
				start = i
			}
			depth++
		case '}':
			if start < 0 {
				continue
			}
			depth--
			if depth == 0 {
				return text[start : i+1], true
			}
		}
	}
	return "", false
}

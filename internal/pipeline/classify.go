package pipeline

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/agri-advisor/internal/model"
	"github.com/sells-group/agri-advisor/pkg/anthropic"
)

const classifySystemPrompt = `Classify agriculture questions into exactly one domain. Respond with only the domain name, nothing else.`

const classifyUserPrompt = `Classify the agriculture question into ONE domain:

Domains:
%s
- unknown

Question:
%s

Return only the domain name.`

// Classifier maps a free-text query onto the closed domain set with a
// single model call.
type Classifier struct {
	ai    anthropic.Client
	model string
}

// NewClassifier creates a domain classifier using the given model.
func NewClassifier(ai anthropic.Client, modelID string) *Classifier {
	return &Classifier{ai: ai, model: modelID}
}

// Classify resolves the query's domain. A failed call, an empty reply,
// or any value outside the closed set maps to DomainUnknown. No retries.
func (c *Classifier) Classify(ctx context.Context, query string) model.Domain {
	var domainList strings.Builder
	for _, d := range model.AllDomains() {
		fmt.Fprintf(&domainList, "- %s\n", d)
	}

	resp, err := c.ai.CreateMessage(ctx, anthropic.MessageRequest{
		Model:     c.model,
		MaxTokens: 16,
		System:    anthropic.BuildCachedSystemBlocks(classifySystemPrompt),
		Messages: []anthropic.Message{
			{Role: "user", Content: fmt.Sprintf(classifyUserPrompt, strings.TrimRight(domainList.String(), "\n"), query)},
		},
	})
	if err != nil {
		zap.L().Warn("classify: model call failed", zap.Error(err))
		return model.DomainUnknown
	}
	resp.Usage.LogCost(c.model, "classify")

	domain := model.ParseDomain(resp.Text())
	zap.L().Debug("classify: resolved domain",
		zap.String("query", query),
		zap.String("domain", string(domain)),
	)
	return domain
}

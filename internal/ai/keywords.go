package ai

import (
	"context"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

const keywordsPrompt = `You are an SEO expert. Analyze the portfolio content you are given and extract the most relevant keywords for search engine optimization.
Respond with a JSON object of the form {"keywords": ["..."]} and nothing else.`

type keywordsOutput struct {
	Keywords []string `json:"keywords"`
}

// OptimizeKeywords extracts SEO keywords from portfolio content. Blank and
// repeated keywords are dropped; order is kept.
func (c *Client) OptimizeKeywords(ctx context.Context, content string) ([]string, error) {
	var out keywordsOutput
	err := c.completeJSON(ctx, []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: keywordsPrompt},
		{Role: openai.ChatMessageRoleUser, Content: "Portfolio Content: " + content},
	}, &out)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(out.Keywords))
	keywords := make([]string, 0, len(out.Keywords))
	for _, k := range out.Keywords {
		k = strings.TrimSpace(k)
		key := strings.ToLower(k)
		if k == "" || seen[key] {
			continue
		}
		seen[key] = true
		keywords = append(keywords, k)
	}
	return keywords, nil
}

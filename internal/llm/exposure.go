package llm

import (
	"context"
	"fmt"
)

const analystSystemPrompt = "You are a brand analysis assistant. Always respond in valid JSON."

// Exposure is the model's assessment of one assistant answer.
type Exposure struct {
	// BrandScore is 0-100.
	BrandScore float64 `json:"brand_score"`
	// ExposureCount is how often the brand is mentioned.
	ExposureCount int `json:"exposure_count"`
	// ExposureRank is the brand's position among all mentioned brands, 1 is best.
	ExposureRank int    `json:"exposure_rank"`
	Analysis     string `json:"analysis"`
}

// EvaluateExposure asks the model to score brand exposure in responseText.
func (c *Client) EvaluateExposure(ctx context.Context, responseText string) (*Exposure, error) {
	prompt := fmt.Sprintf(`Analyze the brand exposure in the text below. Return a JSON object with these fields:
brand_score: brand score (0-100)
exposure_count: number of brand mentions (integer)
exposure_rank: rank of the brand among all brands mentioned (1 is highest)
analysis: a short analysis report

Text:
%s`, responseText)

	var e Exposure
	if err := c.completeJSON(ctx, analystSystemPrompt, prompt, &e); err != nil {
		return nil, err
	}
	e.BrandScore = min(max(e.BrandScore, 0), 100)
	return &e, nil
}

package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"docsearch/internal/domain"
)

// WorkersAIClient calls the Cloudflare Workers AI run endpoint for text
// embedding models. Request shape: {"text": [...]}. Response shape:
// {"result": {"data": [[...], ...]}}.
type WorkersAIClient struct {
	accountID string
	apiToken  string
	model     string
	baseURL   string
	client    *http.Client
}

type workersAIRequest struct {
	Text []string `json:"text"`
}

type workersAIResponse struct {
	Result  workersAIResult  `json:"result"`
	Success bool             `json:"success"`
	Errors  []workersAIError `json:"errors"`
}

type workersAIResult struct {
	Data [][]float32 `json:"data"`
}

type workersAIError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// NewWorkersAIClient creates a Workers AI model client. Account id and API
// token are read from the named environment variables.
func NewWorkersAIClient(accountIDEnv, apiTokenEnv, model, baseURL string) (*WorkersAIClient, error) {
	accountID := os.Getenv(accountIDEnv)
	if accountID == "" {
		return nil, fmt.Errorf("account id not found in environment variable: %s", accountIDEnv)
	}
	apiToken := os.Getenv(apiTokenEnv)
	if apiToken == "" {
		return nil, fmt.Errorf("API token not found in environment variable: %s", apiTokenEnv)
	}
	if baseURL == "" {
		baseURL = "https://api.cloudflare.com/client/v4"
	}

	return &WorkersAIClient{
		accountID: accountID,
		apiToken:  apiToken,
		model:     model,
		baseURL:   baseURL,
		client: &http.Client{
			Timeout: 60 * time.Second,
		},
	}, nil
}

// Run implements port.ModelClient.
func (c *WorkersAIClient) Run(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	jsonData, err := json.Marshal(workersAIRequest{Text: texts})
	if err != nil {
		return nil, fmt.Errorf("%w: marshal request: %v", domain.ErrEmbedding, err)
	}

	url := fmt.Sprintf("%s/accounts/%s/ai/run/%s", c.baseURL, c.accountID, c.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("%w: create request: %v", domain.ErrEmbedding, err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiToken)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: request failed: %v", domain.ErrEmbedding, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", domain.ErrEmbedding, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: API returned status %d: %s", domain.ErrEmbedding, resp.StatusCode, string(body))
	}

	var aiResp workersAIResponse
	if err := json.Unmarshal(body, &aiResp); err != nil {
		return nil, fmt.Errorf("%w: parse response: %v", domain.ErrEmbedding, err)
	}
	if !aiResp.Success {
		msg := "unknown error"
		if len(aiResp.Errors) > 0 {
			msg = aiResp.Errors[0].Message
		}
		return nil, fmt.Errorf("%w: API error: %s", domain.ErrEmbedding, msg)
	}
	if len(aiResp.Result.Data) != len(texts) {
		return nil, fmt.Errorf("%w: expected %d embeddings, got %d", domain.ErrEmbedding, len(texts), len(aiResp.Result.Data))
	}

	return aiResp.Result.Data, nil
}

// ModelName implements port.ModelClient.
func (c *WorkersAIClient) ModelName() string {
	return c.model
}

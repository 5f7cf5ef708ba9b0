// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package summarize

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/pdiddy/paper-ledger/internal/httputil"
)

// systemPrompt instructs the model to produce a fixed-structure Chinese
// summary from the paper's HTML source.
const systemPrompt = `你是一名论文阅读专家。根据提供的Arxiv论文HTML原文，总结论文的要点，只需提供Markdown格式文本，不要使用加粗，不需要输出其他内容。
要求：
论文总结分为以下部分：论文研究单位、论文概述、论文核心贡献点、论文方法描述、论文使用数据集和训练资源、论文使用的评估环境和评估指标。`

const userPromptPrefix = "以下为论文的HTML原文（可能已截断）：\n\n"

// Backend abstracts the inference endpoint so tests can supply a mock.
type Backend interface {
	Complete(ctx context.Context, source string) (string, error)
}

// ModelScopeBackend calls a ModelScope OpenAI-compatible chat-completions
// endpoint to summarize one paper's HTML source.
type ModelScopeBackend struct {
	BaseURL string
	Model   string
	Token   string
	Client  *http.Client
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []chatChoice `json:"choices"`
}

type chatChoice struct {
	Message chatMessage `json:"message"`
}

// Complete sends the summarization prompt and returns the raw model output.
func (b *ModelScopeBackend) Complete(ctx context.Context, source string) (string, error) {
	reqBody := chatRequest{
		Model: b.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPromptPrefix + source},
		},
		Stream: false,
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	endpoint := strings.TrimSuffix(b.BaseURL, "/") + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+b.Token)

	client := b.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling inference API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		err := fmt.Errorf("inference API returned %d: %s", resp.StatusCode, string(body))
		// 4xx responses (bad token, bad model) will not improve on retry;
		// 429 stays retryable.
		if resp.StatusCode >= 400 && resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests {
			return "", httputil.Fatal(err)
		}
		return "", err
	}

	var cResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&cResp); err != nil {
		return "", fmt.Errorf("decoding inference response: %w", err)
	}

	if len(cResp.Choices) == 0 {
		return "", fmt.Errorf("inference API returned no choices")
	}
	if cResp.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("inference API returned empty content")
	}
	return cResp.Choices[0].Message.Content, nil
}

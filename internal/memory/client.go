package memory

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

const defaultBaseURL = "https://app.backboard.io/api"

var ErrEmptyResponse = errors.New("memory service returned an empty response")

// Client define las operaciones que usamos del servicio de memoria (Backboard).
type Client interface {
	CreateAssistant(ctx context.Context, req CreateAssistantRequest) (Assistant, error)
	CreateThread(ctx context.Context, assistantID string) (Thread, error)
	SendMessage(ctx context.Context, threadID string, req SendMessageRequest) (Message, error)
}

type CreateAssistantRequest struct {
	Name         string `json:"name"`
	Description  string `json:"description,omitempty"`
	SystemPrompt string `json:"system_prompt,omitempty"`
	LLMModel     string `json:"llm_model_name,omitempty"`
}

type Assistant struct {
	AssistantID string `json:"assistant_id"`
	Name        string `json:"name"`
	CreatedAt   string `json:"created_at"`
}

type Thread struct {
	ThreadID    string `json:"thread_id"`
	AssistantID string `json:"assistant_id"`
	CreatedAt   string `json:"created_at"`
}

// SendMessageRequest. Con SendToLLM en false el contenido solo se guarda en
// memoria y no se genera respuesta.
type SendMessageRequest struct {
	Content   string
	Role      string
	SendToLLM bool
	Metadata  map[string]any
}

type Message struct {
	MessageID string         `json:"message_id"`
	ThreadID  string         `json:"thread_id"`
	Role      string         `json:"role"`
	Content   string         `json:"content"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	CreatedAt string         `json:"created_at"`
}

// HTTPClient implementa Client contra la API REST de Backboard.
type HTTPClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
	logger  *zap.Logger
}

// NewHTTPClient construye un cliente autenticado con X-API-Key.
func NewHTTPClient(baseURL, apiKey string, logger *zap.Logger) *HTTPClient {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 60 * time.Second},
		logger:  logger,
	}
}

func (c *HTTPClient) CreateAssistant(ctx context.Context, req CreateAssistantRequest) (Assistant, error) {
	var out Assistant
	if err := c.doJSON(ctx, http.MethodPost, "/assistants", req, &out); err != nil {
		return Assistant{}, err
	}
	if out.AssistantID == "" {
		return Assistant{}, ErrEmptyResponse
	}
	return out, nil
}

func (c *HTTPClient) CreateThread(ctx context.Context, assistantID string) (Thread, error) {
	var out Thread
	if err := c.doJSON(ctx, http.MethodPost, "/assistants/"+assistantID+"/threads", struct{}{}, &out); err != nil {
		return Thread{}, err
	}
	if out.ThreadID == "" {
		return Thread{}, ErrEmptyResponse
	}
	return out, nil
}

// SendMessage usa multipart/form-data, que es lo que exige el endpoint de mensajes.
func (c *HTTPClient) SendMessage(ctx context.Context, threadID string, req SendMessageRequest) (Message, error) {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	if err := w.WriteField("content", req.Content); err != nil {
		return Message{}, fmt.Errorf("write form: %w", err)
	}
	if err := w.WriteField("send_to_llm", strconv.FormatBool(req.SendToLLM)); err != nil {
		return Message{}, fmt.Errorf("write form: %w", err)
	}
	if req.Role != "" {
		if err := w.WriteField("role", req.Role); err != nil {
			return Message{}, fmt.Errorf("write form: %w", err)
		}
	}
	if len(req.Metadata) > 0 {
		meta, err := json.Marshal(req.Metadata)
		if err != nil {
			return Message{}, fmt.Errorf("marshal metadata: %w", err)
		}
		if err := w.WriteField("metadata", string(meta)); err != nil {
			return Message{}, fmt.Errorf("write form: %w", err)
		}
	}
	if err := w.Close(); err != nil {
		return Message{}, fmt.Errorf("close form: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/threads/"+threadID+"/messages", &body)
	if err != nil {
		return Message{}, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", w.FormDataContentType())

	var out Message
	if err := c.do(httpReq, &out); err != nil {
		return Message{}, err
	}
	return out, nil
}

func (c *HTTPClient) doJSON(ctx context.Context, method, path string, payload, out any) error {
	bodyBytes, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(bodyBytes))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *HTTPClient) do(req *http.Request, out any) error {
	req.Header.Set("X-API-Key", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		c.logger.Warn("memory service error",
			zap.Int("status", resp.StatusCode),
			zap.String("path", req.URL.Path),
			zap.String("body", string(respBody)),
		)
		return fmt.Errorf("memory http error: status=%d", resp.StatusCode)
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}
	return nil
}

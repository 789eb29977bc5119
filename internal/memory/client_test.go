package memory

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestHTTPClient_CreateAssistantAndThread(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-API-Key") != "key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		switch r.URL.Path {
		case "/assistants":
			var req CreateAssistantRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name != "Ditto twin" {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			_, _ = w.Write([]byte(`{"assistant_id":"a1","name":"Ditto twin"}`))
		case "/assistants/a1/threads":
			_, _ = w.Write([]byte(`{"thread_id":"t1","assistant_id":"a1"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL+"/", "key", zap.NewNop())
	assistant, err := c.CreateAssistant(context.Background(), CreateAssistantRequest{Name: "Ditto twin"})
	if err != nil {
		t.Fatalf("create assistant: %v", err)
	}
	if assistant.AssistantID != "a1" {
		t.Fatalf("unexpected assistant: %+v", assistant)
	}

	thread, err := c.CreateThread(context.Background(), assistant.AssistantID)
	if err != nil {
		t.Fatalf("create thread: %v", err)
	}
	if thread.ThreadID != "t1" {
		t.Fatalf("unexpected thread: %+v", thread)
	}
}

func TestHTTPClient_SendMessageUsesMultipart(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/threads/t1/messages" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
			w.WriteHeader(http.StatusUnsupportedMediaType)
			return
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if r.FormValue("content") != "hola" || r.FormValue("send_to_llm") != "false" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		var meta map[string]any
		if err := json.Unmarshal([]byte(r.FormValue("metadata")), &meta); err != nil || meta["type"] != "diary_entry" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		_, _ = w.Write([]byte(`{"message_id":"m1","thread_id":"t1","role":"user","content":"hola"}`))
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, "key", nil)
	msg, err := c.SendMessage(context.Background(), "t1", SendMessageRequest{
		Content:  "hola",
		Metadata: map[string]any{"type": "diary_entry"},
	})
	if err != nil {
		t.Fatalf("send message: %v", err)
	}
	if msg.MessageID != "m1" {
		t.Fatalf("unexpected message: %+v", msg)
	}
}

func TestHTTPClient_PropagatesHTTPErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`upstream down`))
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, "key", zap.NewNop())
	_, err := c.CreateThread(context.Background(), "a1")
	if err == nil || !strings.Contains(err.Error(), "status=502") {
		t.Fatalf("expected status error, got %v", err)
	}
}

func TestHTTPClient_EmptyAssistantID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, "key", zap.NewNop())
	if _, err := c.CreateAssistant(context.Background(), CreateAssistantRequest{Name: "x"}); err != ErrEmptyResponse {
		t.Fatalf("expected ErrEmptyResponse, got %v", err)
	}
}

package llm

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestHTTPClientComplete(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		if r.Method != http.MethodPost {
			t.Fatalf("unexpected method: %s", r.Method)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id":"c1","model":"gpt","choices":[{"index":0,"message":{"role":"assistant","content":"hi"},"finish_reason":"stop"}]}`)
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, "", time.Second)
	got, err := client.Complete(context.Background(), []ChatMessage{{Role: "user", Content: "hello"}}, Options{Model: "gpt"})
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if got != "hi" {
		t.Fatalf("unexpected content: %q", got)
	}
}

func TestHTTPClientCompleteError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"error":{"message":"bad","type":"invalid_request_error"}}`)
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, "", time.Second)
	_, err := client.Complete(context.Background(), []ChatMessage{{Role: "user", Content: "hello"}}, Options{Model: "gpt"})
	if err == nil {
		t.Fatal("expected error")
	}
	if IsTransient(err) {
		t.Fatalf("4xx should not be transient: %v", err)
	}
}

func TestHTTPClientCompleteServerErrorTransient(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, "", time.Second)
	_, err := client.Complete(context.Background(), []ChatMessage{{Role: "user", Content: "hello"}}, Options{Model: "gpt"})
	if err == nil {
		t.Fatal("expected error")
	}
	if !IsTransient(err) {
		t.Fatalf("5xx should be transient: %v", err)
	}
}

func TestHTTPClientCompleteStream(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, "data: {\"id\":\"c1\",\"model\":\"gpt\",\"choices\":[{\"index\":0,\"delta\":{\"reasoning_content\":\"hmm\"}}]}\n\n")
		fmt.Fprint(w, "data: {not valid json}\n\n")
		fmt.Fprint(w, "data: {\"id\":\"c1\",\"model\":\"gpt\",\"choices\":[{\"index\":0,\"delta\":{\"content\":\"hi \"}}]}\n\n")
		fmt.Fprint(w, "data: {\"id\":\"c1\",\"model\":\"gpt\",\"choices\":[{\"index\":0,\"delta\":{\"content\":\"there\"}}]}\n\n")
		fmt.Fprint(w, "data: [DONE]\n\n")
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, "", time.Second)
	var thinking, content string
	err := client.CompleteStream(context.Background(), []ChatMessage{{Role: "user", Content: "hello"}}, Options{Model: "gpt"}, func(delta StreamDelta) error {
		thinking += delta.ThinkingDelta
		content += delta.ContentDelta
		return nil
	})
	if err != nil {
		t.Fatalf("CompleteStream failed: %v", err)
	}
	if thinking != "hmm" {
		t.Fatalf("unexpected thinking: %q", thinking)
	}
	if content != "hi there" {
		t.Fatalf("unexpected content: %q", content)
	}
}

func TestHTTPClientHealthCheck(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/models" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		fmt.Fprint(w, `{"object":"list","data":[]}`)
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, "", time.Second)
	if !client.HealthCheck(context.Background()) {
		t.Fatal("expected health check to pass")
	}

	server.Close()
	if client.HealthCheck(context.Background()) {
		t.Fatal("expected health check to fail after server close")
	}
}

package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func TestChat_SendsQueryAndDecodesAnswer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/chat" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		var req struct {
			Query  string `json:"query"`
			UseRAG *bool  `json:"use_rag"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Query != "what is indexed?" {
			t.Errorf("query = %q", req.Query)
		}
		if req.UseRAG == nil || *req.UseRAG {
			t.Error("use_rag=false must be sent explicitly")
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"answer":"Nothing yet.","sources":[]}`)
	}))
	defer srv.Close()

	c := New(srv.URL, "")
	ans, err := c.Chat(context.Background(), "what is indexed?", false)
	if err != nil {
		t.Fatalf("Chat returned error: %v", err)
	}
	if ans.Text != "Nothing yet." {
		t.Errorf("answer = %q", ans.Text)
	}
	if ans.Sources == nil || len(ans.Sources) != 0 {
		t.Errorf("sources = %v, want empty", ans.Sources)
	}
}

func TestChat_DecodesErrorEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		io.WriteString(w, `{"error":"provider down"}`)
	}))
	defer srv.Close()

	c := New(srv.URL, "")
	_, err := c.Chat(context.Background(), "hi", true)
	if err == nil {
		t.Fatal("expected error for 500 response")
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error %T is not *APIError", err)
	}
	if apiErr.Status != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", apiErr.Status)
	}
	if apiErr.Message != "provider down" {
		t.Errorf("message = %q, want %q", apiErr.Message, "provider down")
	}
}

func TestUploadText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/upload/text" {
			t.Errorf("path = %s", r.URL.Path)
		}
		var req struct {
			Text string `json:"text"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Text != "a fact" {
			t.Errorf("text = %q", req.Text)
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"message":"Successfully processed text input","chunks_added":1}`)
	}))
	defer srv.Close()

	c := New(srv.URL, "")
	result, err := c.UploadText(context.Background(), "a fact")
	if err != nil {
		t.Fatalf("UploadText returned error: %v", err)
	}
	if result.ChunksAdded != 1 {
		t.Errorf("chunks_added = %d, want 1", result.ChunksAdded)
	}
	if result.Message != "Successfully processed text input" {
		t.Errorf("message = %q", result.Message)
	}
}

func TestUploadPDF(t *testing.T) {
	content := []byte("%PDF-1.4 test body")
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.pdf")
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("write test pdf: %v", err)
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/upload" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parse multipart form: %v", err)
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			t.Fatalf("form file: %v", err)
		}
		defer file.Close()
		if header.Filename != "doc.pdf" {
			t.Errorf("filename = %q, want doc.pdf", header.Filename)
		}
		got, _ := io.ReadAll(file)
		if string(got) != string(content) {
			t.Error("uploaded content does not match source file")
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"message":"Successfully processed doc.pdf","chunks_added":4}`)
	}))
	defer srv.Close()

	c := New(srv.URL, "")
	result, err := c.UploadPDF(context.Background(), path)
	if err != nil {
		t.Fatalf("UploadPDF returned error: %v", err)
	}
	if result.ChunksAdded != 4 {
		t.Errorf("chunks_added = %d, want 4", result.ChunksAdded)
	}
}

func TestUploadPDF_MissingFile(t *testing.T) {
	c := New("http://localhost:0", "")
	_, err := c.UploadPDF(context.Background(), filepath.Join(t.TempDir(), "absent.pdf"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLiveness(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			t.Errorf("path = %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"message":"Welcome to the RAG Chatbot API"}`)
	}))
	defer srv.Close()

	c := New(srv.URL, "")
	msg, err := c.Liveness(context.Background())
	if err != nil {
		t.Fatalf("Liveness returned error: %v", err)
	}
	if msg != "Welcome to the RAG Chatbot API" {
		t.Errorf("message = %q", msg)
	}
}

func TestAuthorizationHeader(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"answer":"ok","sources":[]}`)
	}))
	defer srv.Close()

	c := New(srv.URL, "sekrit")
	if _, err := c.Chat(context.Background(), "hi", true); err != nil {
		t.Fatalf("Chat returned error: %v", err)
	}
	if gotAuth != "Bearer sekrit" {
		t.Errorf("authorization = %q, want bearer token", gotAuth)
	}

	open := New(srv.URL, "")
	if _, err := open.Chat(context.Background(), "hi", true); err != nil {
		t.Fatalf("Chat returned error: %v", err)
	}
	if gotAuth != "" {
		t.Errorf("authorization = %q, want no header without a key", gotAuth)
	}
}

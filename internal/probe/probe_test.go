package probe_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/edgard/botcheck/internal/probe"
)

const testToken = "123456:ABC-DEF1234ghIkl"

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestGetMeTargetsIdentityEndpoint(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	var gotPath, gotMethod string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		gotPath = r.URL.Path
		gotMethod = r.Method
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok":true,"result":{"id":42,"is_bot":true,"first_name":"Forex","username":"forex_bot"}}`))
	}))
	defer srv.Close()

	client := probe.NewClient(srv.URL, testToken, 5*time.Second, discardLogger())

	result, err := client.GetMe(context.Background())
	if err != nil {
		t.Fatalf("GetMe returned error: %v", err)
	}

	if want := "/bot" + testToken + "/getMe"; gotPath != want {
		t.Errorf("request path = %q, want %q", gotPath, want)
	}
	if gotMethod != http.MethodGet {
		t.Errorf("request method = %q, want GET", gotMethod)
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("expected exactly 1 request, got %d", got)
	}
	if result.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", result.StatusCode)
	}
	if !result.OK() {
		t.Error("result.OK() = false, want true")
	}

	user, err := result.BotUser()
	if err != nil {
		t.Fatalf("BotUser returned error: %v", err)
	}
	if user.ID != 42 || user.Username != "forex_bot" {
		t.Errorf("unexpected bot user: %+v", user)
	}
}

func TestSendMessageBody(t *testing.T) {
	t.Parallel()

	const (
		chatID = "-1001234567890"
		text   = "🔍 Test message from ForexTradingBot\n\nThis is a test message to verify the bot and channel setup."
	)

	var gotPath, gotContentType string
	var gotBody []byte

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotContentType = r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok":true,"result":{"message_id":7}}`))
	}))
	defer srv.Close()

	client := probe.NewClient(srv.URL, testToken, 5*time.Second, discardLogger())

	if _, err := client.SendMessage(context.Background(), chatID, text); err != nil {
		t.Fatalf("SendMessage returned error: %v", err)
	}

	if want := "/bot" + testToken + "/sendMessage"; gotPath != want {
		t.Errorf("request path = %q, want %q", gotPath, want)
	}
	if gotContentType != "application/json" {
		t.Errorf("content type = %q, want application/json", gotContentType)
	}

	var decoded map[string]string
	if err := json.Unmarshal(gotBody, &decoded); err != nil {
		t.Fatalf("request body is not valid JSON: %v", err)
	}
	if len(decoded) != 2 || decoded["chat_id"] != chatID || decoded["text"] != text {
		t.Errorf("request body = %s, want {chat_id: %q, text: %q} and nothing else", gotBody, chatID, text)
	}
}

func TestSendAlertIncludesParseMode(t *testing.T) {
	t.Parallel()

	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotBody, _ = io.ReadAll(r.Body)
		w.Write([]byte(`{"ok":true,"result":{"message_id":8}}`))
	}))
	defer srv.Close()

	client := probe.NewClient(srv.URL, testToken, 5*time.Second, discardLogger())

	if _, err := client.SendAlert(context.Background(), "-100", "<b>down</b>"); err != nil {
		t.Fatalf("SendAlert returned error: %v", err)
	}

	var decoded map[string]string
	if err := json.Unmarshal(gotBody, &decoded); err != nil {
		t.Fatalf("alert body is not valid JSON: %v", err)
	}
	if decoded["parse_mode"] != "HTML" {
		t.Errorf("parse_mode = %q, want HTML", decoded["parse_mode"])
	}
}

func TestNoRetryOnFailureResponse(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"ok":false,"error_code":401,"description":"Unauthorized"}`))
	}))
	defer srv.Close()

	client := probe.NewClient(srv.URL, testToken, 5*time.Second, discardLogger())

	result, err := client.GetMe(context.Background())
	if err != nil {
		t.Fatalf("a failure status must not be a transport error, got: %v", err)
	}

	if got := calls.Load(); got != 1 {
		t.Errorf("expected exactly 1 request, got %d", got)
	}
	if result.StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", result.StatusCode)
	}
	if result.OK() {
		t.Error("result.OK() = true for a rejected request")
	}
	if got := result.Description(); got != "Unauthorized" {
		t.Errorf("description = %q, want %q", got, "Unauthorized")
	}
}

func TestResultPretty(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		body    string
		want    string
		wantErr bool
	}{
		{
			name: "object",
			body: `{"ok":true,"result":{"id":42}}`,
			want: "{\n  \"ok\": true,\n  \"result\": {\n    \"id\": 42\n  }\n}",
		},
		{
			name: "already indented",
			body: "{\n  \"ok\": false\n}",
			want: "{\n  \"ok\": false\n}",
		},
		{
			name:    "not json",
			body:    "<html>502 Bad Gateway</html>",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			result := &probe.Result{Body: []byte(tt.body)}
			got, err := result.Pretty()
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error for non-JSON body")
				}
				return
			}
			if err != nil {
				t.Fatalf("Pretty returned error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Pretty() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTransportFailurePropagates(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	client := probe.NewClient(srv.URL, testToken, 2*time.Second, discardLogger())

	if _, err := client.GetMe(context.Background()); err == nil {
		t.Fatal("expected transport error from closed server")
	}
}

package apprise

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/thomaslty/ass-to-srt/internal/batch"
	"github.com/thomaslty/ass-to-srt/internal/config"
	"github.com/thomaslty/ass-to-srt/pkg/logger"
)

func TestMain(m *testing.M) {
	logger.Init(true)
	os.Exit(m.Run())
}

func TestNotifyRunSummary(t *testing.T) {
	var gotPath string
	var gotBody NotifyRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &gotBody)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := NewClient(config.AppriseConfig{
		Enabled: true,
		BaseURL: srv.URL,
		Key:     "subs",
	})

	summary := &batch.Summary{
		Total:     3,
		Converted: 2,
		Failed:    []batch.Failure{{File: "broken.ass", Reason: "parse broken.ass: no dialogue events"}},
		Elapsed:   120 * time.Millisecond,
	}

	if err := client.NotifyRunSummary(summary); err != nil {
		t.Fatalf("NotifyRunSummary() error = %v", err)
	}

	if gotPath != "/notify/subs" {
		t.Errorf("path = %s, want /notify/subs", gotPath)
	}
	if gotBody.Type != "failure" {
		t.Errorf("type = %s, want failure", gotBody.Type)
	}
	if !strings.Contains(gotBody.Body, "broken.ass") {
		t.Errorf("body does not name the failed file: %q", gotBody.Body)
	}
	if !strings.Contains(gotBody.Title, "2/3") {
		t.Errorf("title = %q, want converted count 2/3", gotBody.Title)
	}
}

func TestNotifyDisabled(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	client := NewClient(config.AppriseConfig{
		Enabled: false,
		BaseURL: srv.URL,
		Key:     "subs",
	})

	if err := client.NotifyRunSummary(&batch.Summary{Total: 1, Converted: 1}); err != nil {
		t.Fatalf("NotifyRunSummary() error = %v", err)
	}
	if called {
		t.Error("request sent while notifications are disabled")
	}
}

func TestNotifyServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad key", http.StatusNotFound)
	}))
	defer srv.Close()

	client := NewClient(config.AppriseConfig{
		Enabled: true,
		BaseURL: srv.URL,
		Key:     "wrong",
	})

	if err := client.NotifyRunSummary(&batch.Summary{Total: 1, Converted: 1}); err == nil {
		t.Error("NotifyRunSummary() error = nil, want error on 404")
	}
}

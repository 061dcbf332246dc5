package classify

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"marketintel/internal/types"
)

func testRemoteConfig(baseURL string) RemoteConfig {
	return RemoteConfig{
		BaseURL:           baseURL,
		APIKey:            "test-key",
		Model:             "deepseek-chat",
		MaxTokens:         150,
		Temperature:       0.7,
		Timeout:           5 * time.Second,
		RequestsPerMinute: 6000,
	}
}

func TestRemoteClassify(t *testing.T) {
	var gotAuth, gotPath string
	var gotBody map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		raw, _ := io.ReadAll(r.Body)
		json.Unmarshal(raw, &gotBody)

		w.Header().Set("Content-Type", "application/json")
		w.Write(envelope(t, verdictJSON))
	}))
	defer srv.Close()

	remote := NewRemote(testRemoteConfig(srv.URL))
	article := types.Article{Title: "Company beats estimates", Description: "Strong quarter all around."}

	v, err := remote.Classify(context.Background(), article)
	if err != nil {
		t.Fatalf("Classify failed: %v", err)
	}
	if v.Label != types.ImpactVeryPositive {
		t.Errorf("Expected Very Positive, got %q", v.Label)
	}
	if v.Classifier != "remote" {
		t.Errorf("Expected classifier remote, got %q", v.Classifier)
	}

	if gotAuth != "Bearer test-key" {
		t.Errorf("Expected bearer auth, got %q", gotAuth)
	}
	if gotPath != "/chat/completions" {
		t.Errorf("Expected /chat/completions, got %q", gotPath)
	}
	if gotBody["model"] != "deepseek-chat" {
		t.Errorf("Expected model in body, got %v", gotBody["model"])
	}
	msgs, ok := gotBody["messages"].([]any)
	if !ok || len(msgs) != 1 {
		t.Fatalf("Expected single user message, got %v", gotBody["messages"])
	}
}

func TestRemoteClassifyNoCredentials(t *testing.T) {
	requests := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
	}))
	defer srv.Close()

	cfg := testRemoteConfig(srv.URL)
	cfg.APIKey = ""
	remote := NewRemote(cfg)

	_, err := remote.Classify(context.Background(), types.Article{Title: "t", Description: "d"})
	if !errors.Is(err, ErrNoCredentials) {
		t.Fatalf("Expected ErrNoCredentials, got %v", err)
	}
	if requests != 0 {
		t.Errorf("Expected no network call without credentials, got %d", requests)
	}
}

func TestRemoteClassifyServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream busy", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	remote := NewRemote(testRemoteConfig(srv.URL))
	if _, err := remote.Classify(context.Background(), types.Article{Title: "t", Description: "d"}); err == nil {
		t.Fatal("Expected error on http 503")
	}
}

type stubClassifier struct {
	name    string
	verdict types.ImpactVerdict
	err     error
	calls   int
}

func (s *stubClassifier) Name() string { return s.name }

func (s *stubClassifier) Classify(_ context.Context, _ types.Article) (types.ImpactVerdict, error) {
	s.calls++
	return s.verdict, s.err
}

func TestChainFallsThrough(t *testing.T) {
	failing := &stubClassifier{name: "failing", err: errors.New("nope")}
	chain := NewChain(failing, NewLexicon())

	article := types.Article{Title: "Shares surge to record high", Description: "Strong session."}
	v, err := chain.Classify(context.Background(), article)
	if err != nil {
		t.Fatalf("Chain must fall through to lexicon, got: %v", err)
	}
	if v.Classifier != "lexicon" {
		t.Errorf("Expected lexicon verdict, got %q", v.Classifier)
	}
	if failing.calls != 1 {
		t.Errorf("Expected failing classifier to be tried once, got %d", failing.calls)
	}
}

func TestChainStopsAtFirstSuccess(t *testing.T) {
	first := &stubClassifier{name: "first", verdict: types.ImpactVerdict{Summary: "s", Label: types.ImpactSomewhatPositive, Classifier: "first"}}
	second := &stubClassifier{name: "second"}
	chain := NewChain(first, second)

	v, err := chain.Classify(context.Background(), types.Article{Title: "t", Description: "d"})
	if err != nil {
		t.Fatalf("Chain failed: %v", err)
	}
	if v.Classifier != "first" {
		t.Errorf("Expected first classifier verdict, got %q", v.Classifier)
	}
	if second.calls != 0 {
		t.Errorf("Expected second classifier untouched, got %d calls", second.calls)
	}
}

func TestChainAllFail(t *testing.T) {
	chain := NewChain(
		&stubClassifier{name: "a", err: errors.New("a failed")},
		&stubClassifier{name: "b", err: errors.New("b failed")},
	)
	if _, err := chain.Classify(context.Background(), types.Article{Title: "t", Description: "d"}); err == nil {
		t.Fatal("Expected error when every classifier fails")
	}
}

func TestChainHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	untouched := &stubClassifier{name: "untouched"}
	chain := NewChain(untouched)
	if _, err := chain.Classify(ctx, types.Article{Title: "t", Description: "d"}); err == nil {
		t.Fatal("Expected error on cancelled context")
	}
	if untouched.calls != 0 {
		t.Errorf("Expected no classification after cancel, got %d calls", untouched.calls)
	}
}

package shopify

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func fastRetry() RetryOptions {
	return RetryOptions{
		MaxRetries:   3,
		BaseDelay:    time.Millisecond,
		MaxDelay:     5 * time.Millisecond,
		JitterFactor: 0,
	}
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *AdminClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewAdminClient("example.myshopify.com", "token", "",
		WithEndpoint(srv.URL),
		WithHTTPClient(srv.Client()),
		WithRetryOptions(fastRetry()),
	)
}

func respond(t *testing.T, w http.ResponseWriter, body string) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	if _, err := w.Write([]byte(body)); err != nil {
		t.Errorf("write response: %v", err)
	}
}

func TestCreatePage(t *testing.T) {
	var gotToken atomic.Value
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotToken.Store(r.Header.Get("X-Shopify-Access-Token"))

		var req graphqlRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		page, _ := req.Variables["page"].(map[string]any)
		if page["title"] != "特定商取引法に基づく表記" || page["handle"] != "legal" {
			t.Errorf("page input = %v", page)
		}

		respond(t, w, `{"data":{"pageCreate":{"page":{"id":"gid://shopify/Page/1","handle":"legal"},"userErrors":[]}}}`)
	})

	res, err := client.CreatePage(context.Background(), CreatePageInput{
		Title:     "特定商取引法に基づく表記",
		Handle:    "legal",
		BodyHTML:  "<div></div>",
		Published: true,
	})
	if err != nil {
		t.Fatalf("CreatePage: %v", err)
	}
	if res.PageID != "gid://shopify/Page/1" || res.Handle != "legal" {
		t.Errorf("result = %+v", res)
	}
	if gotToken.Load() != "token" {
		t.Errorf("access token header = %v", gotToken.Load())
	}
}

func TestCreatePageUserErrors(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		respond(t, w, `{"data":{"pageCreate":{"page":null,"userErrors":[{"field":["handle"],"message":"Handle has already been taken"}]}}}`)
	})

	_, err := client.CreatePage(context.Background(), CreatePageInput{Title: "t", BodyHTML: "b"})
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %v, want APIError", err)
	}
	if apiErr.Retryable {
		t.Error("user errors must not be retryable")
	}
	if len(apiErr.UserErrors) != 1 {
		t.Errorf("user errors = %v", apiErr.UserErrors)
	}
}

func TestGetPageDeletedReturnsNil(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		respond(t, w, `{"data":{"page":null}}`)
	})

	page, err := client.GetPage(context.Background(), "gid://shopify/Page/404")
	if err != nil {
		t.Fatalf("GetPage: %v", err)
	}
	if page != nil {
		t.Errorf("page = %+v, want nil", page)
	}
}

func TestQueryRetriesOn429(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		respond(t, w, `{"data":{"page":{"id":"gid://shopify/Page/1","title":"t","handle":"h","isPublished":true}}}`)
	})

	page, err := client.GetPage(context.Background(), "gid://shopify/Page/1")
	if err != nil {
		t.Fatalf("GetPage after retries: %v", err)
	}
	if page == nil || page.ID != "gid://shopify/Page/1" {
		t.Errorf("page = %+v", page)
	}
	if got := calls.Load(); got != 3 {
		t.Errorf("calls = %d, want 3", got)
	}
}

func TestQueryRetriesOnThrottled(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			respond(t, w, `{"errors":[{"message":"Throttled","extensions":{"code":"THROTTLED"}}]}`)
			return
		}
		respond(t, w, `{"data":{"page":null}}`)
	})

	if _, err := client.GetPage(context.Background(), "gid://shopify/Page/1"); err != nil {
		t.Fatalf("GetPage: %v", err)
	}
	if got := calls.Load(); got != 2 {
		t.Errorf("calls = %d, want 2", got)
	}
}

func TestQueryDoesNotRetryOn404(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := client.GetPage(context.Background(), "gid://shopify/Page/1")
	if err == nil {
		t.Fatal("expected error")
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("calls = %d, want 1 (no retry on 404)", got)
	}
}

func TestRetryBudgetExhausted(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := client.GetPage(context.Background(), "gid://shopify/Page/1")
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusServiceUnavailable {
		t.Fatalf("err = %v", err)
	}
	if got := calls.Load(); got != 4 { // initial + 3 retries
		t.Errorf("calls = %d, want 4", got)
	}
}

func TestRetryOptionsDelay(t *testing.T) {
	opts := RetryOptions{
		BaseDelay:    500 * time.Millisecond,
		MaxDelay:     5 * time.Second,
		JitterFactor: 0,
	}
	if d := opts.Delay(0); d != 500*time.Millisecond {
		t.Errorf("Delay(0) = %v", d)
	}
	if d := opts.Delay(1); d != time.Second {
		t.Errorf("Delay(1) = %v", d)
	}
	if d := opts.Delay(10); d != 5*time.Second {
		t.Errorf("Delay(10) = %v, want cap", d)
	}

	opts.JitterFactor = 0.2
	for i := 0; i < 50; i++ {
		d := opts.Delay(2)
		if d < 1600*time.Millisecond || d > 2400*time.Millisecond {
			t.Fatalf("jittered Delay(2) = %v outside ±20%%", d)
		}
	}
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"context canceled", context.Canceled, false},
		{"deadline", context.DeadlineExceeded, false},
		{"throttled", newThrottledError(), true},
		{"status 500", newStatusError(500), true},
		{"status 429", newStatusError(429), true},
		{"status 404", newStatusError(404), false},
		{"user errors", newUserError("x", []UserError{{Message: "bad"}}), false},
		{"network", errors.New("connection reset by peer"), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRetryable(tt.err); got != tt.want {
				t.Errorf("IsRetryable = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWithRetryRespectsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	var calls int
	err := WithRetry(ctx, RetryOptions{MaxRetries: 5, BaseDelay: time.Hour, MaxDelay: time.Hour}, func(ctx context.Context) error {
		calls++
		cancel()
		return newThrottledError()
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

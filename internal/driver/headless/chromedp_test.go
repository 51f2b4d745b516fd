package headless

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestDriverVisit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Test", "ok")
		fmt.Fprint(w, `<!doctype html><html><head></head><body>
<script>
	const a = document.createElement("a");
	a.setAttribute("href", "/late.html");
	document.body.appendChild(a);
</script>
<a href="/early.html">early</a>
</body></html>`)
	}))
	defer srv.Close()

	driver, err := New(Config{
		NavigationTimeout: 15 * time.Second,
		SettleDelay:       200 * time.Millisecond,
	}, zap.NewNop())
	if err != nil {
		t.Skipf("chromedp unavailable: %v", err)
	}
	defer driver.Close()

	page, err := driver.NewContext(context.Background(), "test-agent/1.0")
	if err != nil {
		t.Fatalf("new context: %v", err)
	}
	defer page.Close()

	var mu sync.Mutex
	headers := make(map[string]string)
	links, err := page.Visit(context.Background(), srv.URL, func(name, value string) {
		mu.Lock()
		headers[name] = value
		mu.Unlock()
	})
	if err != nil {
		t.Skipf("visit failed: %v", err)
	}

	found := map[string]bool{}
	for _, l := range links {
		found[l] = true
	}
	if !found["/early.html"] {
		t.Fatalf("static link missing from %v", links)
	}
	if !found["/late.html"] {
		t.Fatalf("script-injected link missing from %v", links)
	}

	mu.Lock()
	defer mu.Unlock()
	if headers["X-Test"] != "ok" {
		t.Fatalf("response header not forwarded, got %v", headers)
	}
}

func TestWaitDomainBudget(t *testing.T) {
	t.Parallel()

	d := &Driver{cfg: Config{DomainQPS: 0}}
	if err := d.waitDomainBudget(context.Background(), "https://x.test/"); err != nil {
		t.Fatalf("disabled limiter should not error: %v", err)
	}

	d = &Driver{cfg: Config{DomainQPS: 1000}}
	start := time.Now()
	for i := 0; i < 3; i++ {
		if err := d.waitDomainBudget(context.Background(), "https://x.test/"); err != nil {
			t.Fatalf("limiter wait: %v", err)
		}
	}
	if time.Since(start) > 2*time.Second {
		t.Fatal("limiter waited far longer than configured rate")
	}
}

func TestWaitSignal(t *testing.T) {
	t.Parallel()

	ch := make(chan struct{})
	close(ch)
	action := waitSignal(ch, time.Minute)
	if err := action.Do(context.Background()); err != nil {
		t.Fatalf("closed channel should return immediately: %v", err)
	}

	action = waitSignal(make(chan struct{}), 10*time.Millisecond)
	if err := action.Do(context.Background()); err != nil {
		t.Fatalf("grace timeout is not an error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	action = waitSignal(make(chan struct{}), time.Minute)
	if err := action.Do(ctx); err == nil {
		t.Fatal("canceled context should surface an error")
	}
}

package robots

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/capjamesg/find-abbreviations/internal/fetch"
)

type fakeGetter struct {
	calls atomic.Int32
	body  string
	err   error
}

func (f *fakeGetter) Get(_ context.Context, _ string) ([]byte, string, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, "", f.err
	}
	return []byte(f.body), "text/plain", nil
}

func TestManager_RemembersRulesPerHost(t *testing.T) {
	g := &fakeGetter{body: "User-agent: *\nDisallow: /private\n"}
	m := &Manager{Getter: g, UserAgent: "findabbrev"}
	ctx := context.Background()
	for _, c := range []struct {
		url  string
		want bool
	}{
		{"https://example.com/private/page", false},
		{"https://example.com/song", true},
		{"https://example.com", true},
	} {
		got, err := m.Allowed(ctx, c.url)
		if err != nil {
			t.Fatalf("%s: %v", c.url, err)
		}
		if got != c.want {
			t.Fatalf("%s: allowed=%v, want %v", c.url, got, c.want)
		}
	}
	if g.calls.Load() != 1 {
		t.Fatalf("expected one robots.txt fetch, got %d", g.calls.Load())
	}
}

func TestManager_EntryExpiry(t *testing.T) {
	g := &fakeGetter{body: ""}
	now := time.Unix(0, 0)
	m := &Manager{Getter: g, EntryExpiry: time.Minute, now: func() time.Time { return now }}
	ctx := context.Background()
	if _, err := m.Allowed(ctx, "http://a.example/x"); err != nil {
		t.Fatal(err)
	}
	now = now.Add(2 * time.Minute)
	if _, err := m.Allowed(ctx, "http://a.example/y"); err != nil {
		t.Fatal(err)
	}
	if g.calls.Load() != 2 {
		t.Fatalf("expected a refetch after expiry, got %d calls", g.calls.Load())
	}
}

func TestManager_FailureModes(t *testing.T) {
	ctx := context.Background()
	missing := &Manager{Getter: &fakeGetter{err: &fetch.StatusError{Code: http.StatusNotFound}}}
	if ok, err := missing.Allowed(ctx, "https://example.com/a"); err != nil || !ok {
		t.Fatalf("404 should allow all, got %v %v", ok, err)
	}
	html := &Manager{Getter: &fakeGetter{err: fetch.ErrUnsupportedContentType}}
	if ok, err := html.Allowed(ctx, "https://example.com/a"); err != nil || !ok {
		t.Fatalf("non-text robots.txt should allow all, got %v %v", ok, err)
	}
	down := &Manager{Getter: &fakeGetter{err: &fetch.StatusError{Code: http.StatusServiceUnavailable}}}
	if ok, err := down.Allowed(ctx, "https://example.com/a"); err != nil || ok {
		t.Fatalf("5xx should disallow, got %v %v", ok, err)
	}
	if _, err := (&Manager{}).Allowed(ctx, "https://example.com/a"); err == nil {
		t.Fatalf("expected error without getter")
	}
	if _, err := missing.Allowed(ctx, "ftp://example.com/a"); err == nil {
		t.Fatalf("expected error for non-http url")
	}
}

func TestGuard_WithFetchClient(t *testing.T) {
	var pages atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			w.Header().Set("Content-Type", "text/plain")
			_, _ = w.Write([]byte("User-agent: findabbrev\nDisallow: /drafts/\n\nUser-agent: *\nDisallow: /\n"))
			return
		}
		pages.Add(1)
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte("Club Penguin"))
	}))
	defer srv.Close()

	client := &fetch.Client{HTTPClient: srv.Client(), UserAgent: "findabbrev/1.0", MaxAttempts: 1}
	g := &Guard{Getter: client, Robots: &Manager{Getter: client, UserAgent: client.UserAgent}}
	body, _, err := g.Get(context.Background(), srv.URL+"/songs/1")
	if err != nil || string(body) != "Club Penguin" {
		t.Fatalf("expected allowed fetch, got %q %v", body, err)
	}
	if _, _, err := g.Get(context.Background(), srv.URL+"/drafts/2"); !errors.Is(err, ErrDisallowed) {
		t.Fatalf("expected ErrDisallowed, got %v", err)
	}
	if pages.Load() != 1 {
		t.Fatalf("disallowed page must not be fetched, pages=%d", pages.Load())
	}
}

func TestEvaluate_UAPrecedence_AndPathDecisions(t *testing.T) {
	txt := "User-agent: *\nDisallow: /\n\nUser-agent: findabbrev\nDisallow: /private\n"
	rules := parseRobots(txt)
	if rules.IsAllowed("findabbrev/1.0", "/private/page") {
		t.Fatalf("expected disallow for named agent")
	}
	if !rules.IsAllowed("findabbrev/1.0", "/public") {
		t.Fatalf("named group should beat the wildcard group")
	}
	if rules.IsAllowed("otheragent", "/public") {
		t.Fatalf("wildcard group should apply to other agents")
	}

	txt2 := "User-agent: *\nDisallow: /private # keep out\nAllow: /private/public\n"
	rules2 := parseRobots(txt2)
	if !rules2.IsAllowed("any", "/private/public/info") {
		t.Fatalf("more specific allow should win")
	}
	if rules2.IsAllowed("any", "/private/else") {
		t.Fatalf("expected disallow")
	}
}

func TestEvaluate_Wildcards_And_Anchors(t *testing.T) {
	rules := parseRobots("User-agent: *\nDisallow: /*.zip$\nAllow: /downloads/*.zip$\n")
	if rules.IsAllowed("any", "/foo/file.zip") {
		t.Fatalf("expected zip disallowed")
	}
	if !rules.IsAllowed("any", "/downloads/file.zip") {
		t.Fatalf("expected downloads zip allowed")
	}
	if !rules.IsAllowed("any", "/foo/file.zip.txt") {
		t.Fatalf("anchor should stop the match")
	}
	rules2 := parseRobots("User-agent: *\nDisallow: /*?session=\n")
	if rules2.IsAllowed("any", "/index.html?session=1") {
		t.Fatalf("expected query pattern to disallow")
	}
	if !(Rules{}).IsAllowed("any", "/x") || (Rules{DisallowAll: true}).IsAllowed("any", "/x") {
		t.Fatalf("empty rules allow everything; DisallowAll allows nothing")
	}
}

// Package robots decides whether a URL input may be fetched according to the
// host's robots.txt.
package robots

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/capjamesg/find-abbreviations/internal/fetch"
)

// ErrDisallowed is returned by Guard for URLs robots.txt does not allow.
var ErrDisallowed = errors.New("disallowed by robots.txt")

// Getter fetches a URL and returns its body and Content-Type.
type Getter interface {
	Get(ctx context.Context, url string) ([]byte, string, error)
}

type Rules struct {
	Groups []Group
	// DisallowAll is set when robots.txt could not be read for a reason other
	// than a client error.
	DisallowAll bool
}

type Group struct {
	Agents   []string
	Allow    []string
	Disallow []string
}

// Manager fetches and remembers robots.txt per host.
type Manager struct {
	Getter    Getter
	UserAgent string
	// EntryExpiry bounds how long rules are remembered. Zero means 30 minutes.
	EntryExpiry time.Duration

	mu  sync.Mutex
	mem map[string]memEntry
	now func() time.Time
}

type memEntry struct {
	rules  Rules
	expiry time.Time
}

// Rules returns the parsed robots.txt at robotsURL. A 4xx response or a body
// that is not text means no restrictions; any other failure disallows the
// whole host.
func (m *Manager) Rules(ctx context.Context, robotsURL string) (Rules, error) {
	m.mu.Lock()
	if m.now == nil {
		m.now = time.Now
	}
	if m.mem == nil {
		m.mem = make(map[string]memEntry)
	}
	if ent, ok := m.mem[robotsURL]; ok && m.now().Before(ent.expiry) {
		m.mu.Unlock()
		return ent.rules, nil
	}
	m.mu.Unlock()

	if m.Getter == nil {
		return Rules{}, errors.New("robots: no getter configured")
	}
	body, _, err := m.Getter.Get(ctx, robotsURL)
	var rules Rules
	var status *fetch.StatusError
	switch {
	case err == nil:
		rules = parseRobots(string(body))
	case errors.As(err, &status) && status.Code >= 400 && status.Code < 500,
		errors.Is(err, fetch.ErrUnsupportedContentType):
		log.Debug().Err(err).Str("url", robotsURL).Msg("no usable robots.txt; allowing all")
	case ctx.Err() != nil:
		return Rules{}, ctx.Err()
	default:
		log.Warn().Err(err).Str("url", robotsURL).Msg("robots.txt unavailable; disallowing host")
		rules = Rules{DisallowAll: true}
	}
	m.store(robotsURL, rules)
	return rules, nil
}

// Allowed reports whether rawURL may be fetched.
func (m *Manager) Allowed(ctx context.Context, rawURL string) (bool, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false, fmt.Errorf("parse url: %w", err)
	}
	scheme := strings.ToLower(u.Scheme)
	if (scheme != "http" && scheme != "https") || u.Host == "" {
		return false, fmt.Errorf("unsupported url: %q", rawURL)
	}
	rules, err := m.Rules(ctx, scheme+"://"+u.Host+"/robots.txt")
	if err != nil {
		return false, err
	}
	path := u.EscapedPath()
	if path == "" {
		path = "/"
	}
	if u.RawQuery != "" {
		path += "?" + u.RawQuery
	}
	return rules.IsAllowed(m.UserAgent, path), nil
}

func (m *Manager) store(key string, rules Rules) {
	exp := m.EntryExpiry
	if exp <= 0 {
		exp = 30 * time.Minute
	}
	m.mu.Lock()
	m.mem[key] = memEntry{rules: rules, expiry: m.now().Add(exp)}
	m.mu.Unlock()
}

// Guard is a Getter that refuses URLs robots.txt disallows.
type Guard struct {
	Getter Getter
	Robots *Manager
}

func (g *Guard) Get(ctx context.Context, rawURL string) ([]byte, string, error) {
	ok, err := g.Robots.Allowed(ctx, rawURL)
	if err != nil {
		return nil, "", fmt.Errorf("robots: %w", err)
	}
	if !ok {
		return nil, "", fmt.Errorf("%s: %w", rawURL, ErrDisallowed)
	}
	return g.Getter.Get(ctx, rawURL)
}

func parseRobots(text string) Rules {
	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	var groups []Group
	current := Group{}
	flush := func() {
		if len(current.Agents) == 0 && len(current.Allow) == 0 && len(current.Disallow) == 0 {
			return
		}
		groups = append(groups, current)
		current = Group{}
	}
	for scanner.Scan() {
		line := scanner.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		line = strings.TrimSpace(line)
		colon := strings.IndexByte(line, ':')
		if colon <= 0 {
			continue
		}
		key := strings.ToLower(strings.TrimSpace(line[:colon]))
		val := strings.TrimSpace(line[colon+1:])
		switch key {
		case "user-agent", "useragent":
			if len(current.Agents) > 0 && (len(current.Allow) > 0 || len(current.Disallow) > 0) {
				flush()
			}
			current.Agents = append(current.Agents, strings.ToLower(val))
		case "allow":
			current.Allow = append(current.Allow, val)
		case "disallow":
			current.Disallow = append(current.Disallow, val)
		}
	}
	flush()
	return Rules{Groups: groups}
}

// IsAllowed evaluates path, which may carry a query string, for userAgent.
// The group with the longest agent token contained in userAgent applies, "*"
// losing to any named match. Within it the most specific matching directive
// wins and Allow wins ties. No match means allowed.
func (r Rules) IsAllowed(userAgent, path string) bool {
	if r.DisallowAll {
		return false
	}
	idx := r.selectGroup(userAgent)
	if idx < 0 {
		return true
	}
	grp := r.Groups[idx]

	bestScore := -1
	bestAllow := true
	evaluate := func(patterns []string, isAllow bool) {
		for _, p := range patterns {
			if p == "" || !patternMatches(p, path) {
				continue
			}
			score := patternSpecificity(p)
			if score > bestScore || (score == bestScore && isAllow && !bestAllow) {
				bestScore = score
				bestAllow = isAllow
			}
		}
	}
	evaluate(grp.Disallow, false)
	evaluate(grp.Allow, true)
	return bestScore == -1 || bestAllow
}

func (r Rules) selectGroup(userAgent string) int {
	ua := strings.ToLower(strings.TrimSpace(userAgent))
	bestIdx, bestScore := -1, -1
	for i, g := range r.Groups {
		for _, a := range g.Agents {
			token := strings.TrimSpace(a)
			var score int
			switch {
			case token == "":
				continue
			case token == "*":
				score = 0
			case strings.Contains(ua, token):
				score = len(token)
			default:
				continue
			}
			if score > bestScore {
				bestScore, bestIdx = score, i
			}
		}
	}
	return bestIdx
}

// patternMatches anchors pattern at the start of path. '*' matches any run
// and a trailing '$' anchors the end.
func patternMatches(pattern, path string) bool {
	anchorEnd := strings.HasSuffix(pattern, "$")
	p := strings.TrimSuffix(pattern, "$")
	var b strings.Builder
	b.WriteString("^")
	for i, part := range strings.Split(p, "*") {
		if i > 0 {
			b.WriteString(".*")
		}
		b.WriteString(regexp.QuoteMeta(part))
	}
	if anchorEnd {
		b.WriteString("$")
	}
	return regexp.MustCompile(b.String()).MatchString(path)
}

func patternSpecificity(pattern string) int {
	return len(strings.ReplaceAll(strings.TrimSuffix(pattern, "$"), "*", ""))
}

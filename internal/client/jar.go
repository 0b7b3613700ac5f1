package client

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/lk2023060901/myai/internal/pkg/kv"
	"github.com/lk2023060901/myai/internal/pkg/logger"
	"go.uber.org/zap"
)

const jarKey = "client:cookies"

type storedCookie struct {
	Name    string    `json:"name"`
	Value   string    `json:"value"`
	Path    string    `json:"path,omitempty"`
	Secure  bool      `json:"secure,omitempty"`
	Expires time.Time `json:"expires,omitzero"`
}

func (c storedCookie) expired(now time.Time) bool {
	return !c.Expires.IsZero() && !c.Expires.After(now)
}

// Jar is an http.CookieJar persisted in a kv.Store, so the CLI session
// survives between runs. Cookies are keyed by host only; the client talks
// to a single backend.
type Jar struct {
	mu     sync.Mutex
	store  kv.Store
	hosts  map[string][]storedCookie
	now    func() time.Time
	logger *logger.Logger
}

var _ http.CookieJar = (*Jar)(nil)

// NewJar loads the persisted cookies from store. Unreadable data starts an
// empty jar.
func NewJar(ctx context.Context, store kv.Store, log *logger.Logger) *Jar {
	if log == nil {
		log = logger.Nop()
	}
	j := &Jar{store: store, hosts: map[string][]storedCookie{}, now: time.Now, logger: log}
	raw, err := store.Get(ctx, jarKey)
	if err == nil {
		if err := json.Unmarshal(raw, &j.hosts); err != nil {
			log.Debug("cookie jar reset", zap.Error(err))
			j.hosts = map[string][]storedCookie{}
		}
	} else if !kv.IsNotFound(err) {
		log.Debug("cookie jar read failed", zap.Error(err))
	}
	return j
}

func (j *Jar) SetCookies(u *url.URL, cookies []*http.Cookie) {
	host := u.Hostname()
	now := j.now()

	j.mu.Lock()
	list := j.hosts[host]
	for _, ck := range cookies {
		sc := storedCookie{Name: ck.Name, Value: ck.Value, Path: ck.Path, Secure: ck.Secure}
		switch {
		case ck.MaxAge < 0:
			sc.Expires = now.Add(-time.Second)
		case ck.MaxAge > 0:
			sc.Expires = now.Add(time.Duration(ck.MaxAge) * time.Second)
		case !ck.Expires.IsZero():
			sc.Expires = ck.Expires
		}
		list = replaceCookie(list, sc)
	}
	list = dropExpired(list, now)
	if len(list) == 0 {
		delete(j.hosts, host)
	} else {
		j.hosts[host] = list
	}
	j.persistLocked()
	j.mu.Unlock()
}

func (j *Jar) Cookies(u *url.URL) []*http.Cookie {
	now := j.now()
	secure := u.Scheme == "https" || isLoopback(u.Hostname())

	j.mu.Lock()
	defer j.mu.Unlock()
	var out []*http.Cookie
	for _, sc := range j.hosts[u.Hostname()] {
		if sc.expired(now) || (sc.Secure && !secure) {
			continue
		}
		if sc.Path != "" && !pathMatch(u.Path, sc.Path) {
			continue
		}
		out = append(out, &http.Cookie{Name: sc.Name, Value: sc.Value})
	}
	return out
}

// Value returns the live cookie name for u's host.
func (j *Jar) Value(u *url.URL, name string) (string, bool) {
	now := j.now()
	j.mu.Lock()
	defer j.mu.Unlock()
	for _, sc := range j.hosts[u.Hostname()] {
		if sc.Name == name && !sc.expired(now) {
			return sc.Value, true
		}
	}
	return "", false
}

// Clear forgets every cookie of u's host.
func (j *Jar) Clear(u *url.URL) {
	j.mu.Lock()
	delete(j.hosts, u.Hostname())
	j.persistLocked()
	j.mu.Unlock()
}

func (j *Jar) persistLocked() {
	ctx := context.Background()
	if len(j.hosts) == 0 {
		if err := j.store.Delete(ctx, jarKey); err != nil {
			j.logger.Debug("cookie jar delete failed", zap.Error(err))
		}
		return
	}
	raw, err := json.Marshal(j.hosts)
	if err != nil {
		j.logger.Debug("cookie jar encode failed", zap.Error(err))
		return
	}
	if err := j.store.Set(ctx, jarKey, raw); err != nil {
		j.logger.Debug("cookie jar write failed", zap.Error(err))
	}
}

func replaceCookie(list []storedCookie, sc storedCookie) []storedCookie {
	for i := range list {
		if list[i].Name == sc.Name && list[i].Path == sc.Path {
			list[i] = sc
			return list
		}
	}
	return append(list, sc)
}

func dropExpired(list []storedCookie, now time.Time) []storedCookie {
	out := list[:0]
	for _, sc := range list {
		if !sc.expired(now) {
			out = append(out, sc)
		}
	}
	return out
}

// pathMatch reports whether reqPath path-matches cookiePath (RFC 6265 5.1.4).
func pathMatch(reqPath, cookiePath string) bool {
	if reqPath == "" {
		reqPath = "/"
	}
	if reqPath == cookiePath {
		return true
	}
	if !strings.HasPrefix(reqPath, cookiePath) {
		return false
	}
	return strings.HasSuffix(cookiePath, "/") || reqPath[len(cookiePath)] == '/'
}

func isLoopback(host string) bool {
	if host == "localhost" {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}

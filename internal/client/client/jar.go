package client

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/net/publicsuffix"
)

// PersistentJar is an http.CookieJar whose contents can be exported and
// restored. It is how the refresh cookie survives a restart. Cookie values
// are never interpreted by the client.
type PersistentJar struct {
	mu    sync.Mutex
	jar   *cookiejar.Jar
	seen  map[string]map[string]*http.Cookie // origin -> name|path -> cookie
	dirty bool
	now   func() time.Time
}

var _ http.CookieJar = (*PersistentJar)(nil)

type jarEntry struct {
	URL     string         `json:"url"`
	Cookies []*http.Cookie `json:"cookies"`
}

func NewPersistentJar() *PersistentJar {
	j := &PersistentJar{now: time.Now}
	j.reset()
	return j
}

func (j *PersistentJar) reset() {
	// cookiejar.New only fails on a nil-safe options misuse
	jar, _ := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	j.jar = jar
	j.seen = make(map[string]map[string]*http.Cookie)
}

func origin(u *url.URL) string {
	return u.Scheme + "://" + u.Host
}

func (j *PersistentJar) SetCookies(u *url.URL, cookies []*http.Cookie) {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.jar.SetCookies(u, cookies)

	o := origin(u)
	bucket := j.seen[o]
	if bucket == nil {
		bucket = make(map[string]*http.Cookie)
		j.seen[o] = bucket
	}

	now := j.now()
	for _, c := range cookies {
		path := c.Path
		if path == "" {
			path = defaultPath(u.Path)
		}
		key := c.Name + "|" + path
		if c.MaxAge < 0 || (!c.Expires.IsZero() && !c.Expires.After(now)) {
			delete(bucket, key)
			j.dirty = true
			continue
		}
		cp := *c
		cp.Path = path
		if cp.MaxAge > 0 {
			cp.Expires = now.Add(time.Duration(cp.MaxAge) * time.Second)
			cp.MaxAge = 0
		}
		cp.Raw, cp.RawExpires, cp.Unparsed = "", "", nil
		bucket[key] = &cp
		j.dirty = true
	}
}

// defaultPath is the RFC 6265 default-path of a request path.
func defaultPath(p string) string {
	if p == "" || p[0] != '/' {
		return "/"
	}
	i := strings.LastIndex(p, "/")
	if i == 0 {
		return "/"
	}
	return p[:i]
}

func (j *PersistentJar) Cookies(u *url.URL) []*http.Cookie {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.jar.Cookies(u)
}

// Export serialises the live cookies and clears the dirty flag.
func (j *PersistentJar) Export() ([]byte, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	now := j.now()
	entries := make([]jarEntry, 0, len(j.seen))
	for o, bucket := range j.seen {
		e := jarEntry{URL: o}
		for _, c := range bucket {
			if !c.Expires.IsZero() && !c.Expires.After(now) {
				continue
			}
			e.Cookies = append(e.Cookies, c)
		}
		if len(e.Cookies) > 0 {
			entries = append(entries, e)
		}
	}

	b, err := json.Marshal(entries)
	if err != nil {
		return nil, fmt.Errorf("export cookies: %w", err)
	}
	j.dirty = false
	return b, nil
}

// Import replaces the jar contents with a previous Export. Empty input
// leaves an empty jar.
func (j *PersistentJar) Import(data []byte) error {
	var entries []jarEntry
	if len(data) > 0 {
		if err := json.Unmarshal(data, &entries); err != nil {
			return fmt.Errorf("import cookies: %w", err)
		}
	}

	j.Clear()
	for _, e := range entries {
		u, err := url.Parse(e.URL)
		if err != nil {
			return fmt.Errorf("import cookies: %w", err)
		}
		j.SetCookies(u, e.Cookies)
	}

	j.mu.Lock()
	j.dirty = false
	j.mu.Unlock()
	return nil
}

// Clear drops every cookie.
func (j *PersistentJar) Clear() {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.reset()
	j.dirty = true
}

// Dirty reports whether the jar changed since the last Export or Import.
func (j *PersistentJar) Dirty() bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.dirty
}

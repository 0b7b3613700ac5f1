package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/fatih/color"
	"github.com/lk2023060901/myai/internal/auth"
	"github.com/lk2023060901/myai/internal/catalog/types"
	"github.com/lk2023060901/myai/internal/plan"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	color.NoColor = true
}

type fakeBackend struct {
	*httptest.Server
	mu        sync.Mutex
	goals     []string
	languages []string
	remote    []string
	removals  []string
}

func newFakeBackend(t *testing.T) *fakeBackend {
	t.Helper()
	fb := &fakeBackend{}
	mux := http.NewServeMux()
	writeJSON := func(w http.ResponseWriter, v any) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(v)
	}
	mux.HandleFunc("POST /plan", func(w http.ResponseWriter, r *http.Request) {
		var req plan.Request
		_ = json.NewDecoder(r.Body).Decode(&req)
		fb.mu.Lock()
		fb.goals = append(fb.goals, req.UserGoal)
		fb.languages = append(fb.languages, req.Language)
		fb.mu.Unlock()
		writeJSON(w, plan.Response{
			Goal: req.UserGoal,
			Plan: []plan.Item{
				{Task: "Write script", Tools: []plan.Tool{{Name: "ChatGPT", Link: "https://chat.openai.com"}}},
				{Task: "Generate video", Tools: []plan.Tool{{Name: "Runway", Link: "https://runwayml.com"}}},
				{Task: "Write script", Tools: []plan.Tool{{Name: "Claude", Link: "https://claude.ai"}}},
			},
		})
	})
	mux.HandleFunc("GET /catalog/categories", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{"categories": []types.Category{
			{ID: "cap:video-gen", Label: "Video generation", Count: 2},
		}})
	})
	mux.HandleFunc("GET /catalog/tools", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, types.ListResult{
			Total: 1,
			Items: []types.ToolOut{{Name: "Runway", Tags: []string{"cap:video-gen"}, Description: "Video from text"}},
			Limit: 20,
		})
	})
	mux.HandleFunc("GET /auth/providers", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]bool{"google": false, "facebook": false, "apple": false})
	})
	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		for _, name := range []string{auth.AccessCookieName, auth.RefreshCookieName, auth.XSRFCookieName} {
			http.SetCookie(w, &http.Cookie{Name: name, Value: "v", Path: "/", MaxAge: 3600})
		}
		writeJSON(w, map[string]any{"user": map[string]any{"id": 1, "email": "a@b.c"}})
	})
	recentsReply := func(w http.ResponseWriter) {
		fb.mu.Lock()
		defer fb.mu.Unlock()
		writeJSON(w, map[string]any{"code": 0, "data": map[string]any{"recents": fb.remote}})
	}
	mux.HandleFunc("GET /me/recents", func(w http.ResponseWriter, r *http.Request) {
		recentsReply(w)
	})
	mux.HandleFunc("POST /me/recents", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Prompt string `json:"prompt"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		fb.mu.Lock()
		fb.remote = append([]string{req.Prompt}, fb.remote...)
		fb.mu.Unlock()
		recentsReply(w)
	})
	mux.HandleFunc("DELETE /me/recents", func(w http.ResponseWriter, r *http.Request) {
		prompt := r.URL.Query().Get("prompt")
		fb.mu.Lock()
		fb.removals = append(fb.removals, prompt)
		kept := []string{}
		for _, p := range fb.remote {
			if prompt != "" && p != prompt {
				kept = append(kept, p)
			}
		}
		fb.remote = kept
		fb.mu.Unlock()
		recentsReply(w)
	})
	fb.Server = httptest.NewServer(mux)
	t.Cleanup(fb.Close)
	return fb
}

func (fb *fakeBackend) seen() (goals, languages []string) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return append([]string(nil), fb.goals...), append([]string(nil), fb.languages...)
}

func (fb *fakeBackend) remoteRemovals() []string {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return append([]string(nil), fb.removals...)
}

type result struct {
	out, errOut string
	err         error
}

// run executes one CLI invocation against server with state kept in dir.
func run(t *testing.T, dir, server, stdin string, args ...string) result {
	t.Helper()
	var out, errOut bytes.Buffer
	root, closeFn := NewRootCmd(Streams{In: strings.NewReader(stdin), Out: &out, Err: &errOut})
	root.SetArgs(append([]string{"--dir", dir, "--server", server, "--no-color"}, args...))
	err := root.ExecuteContext(context.Background())
	closeFn()
	return result{out: out.String(), errOut: errOut.String(), err: err}
}

func TestPlanThenPrompt(t *testing.T) {
	fb := newFakeBackend(t)
	dir := t.TempDir()

	res := run(t, dir, fb.URL, "", "plan", "make", "a", "product", "video")
	require.NoError(t, res.err)
	assert.Contains(t, res.out, "make a product video")
	assert.Contains(t, res.out, "Write script")
	assert.Contains(t, res.out, "Claude")
	assert.Contains(t, res.out, "2 steps, 3 tools")
	goals, langs := fb.seen()
	assert.Equal(t, []string{"make a product video"}, goals)
	assert.Equal(t, []string{"en"}, langs)

	res = run(t, dir, fb.URL, "", "prompt", "1")
	require.NoError(t, res.err)
	assert.Contains(t, res.out, "make a product video")
	assert.Contains(t, res.out, "ChatGPT")

	res = run(t, dir, fb.URL, "", "prompt", "3")
	assert.EqualError(t, res.err, "step must be between 1 and 2")

	require.NoError(t, run(t, dir, fb.URL, "", "lang", "bg").err)
	res = run(t, dir, fb.URL, "", "prompt", "1")
	require.NoError(t, res.err)
	assert.Contains(t, res.out, "make a product video")
	assert.Contains(t, res.out, "При работата използвай следните инструменти: ChatGPT, Claude.",
		"prompt follows the current language, not the one the plan was made in")
	assert.NotContains(t, res.out, "Use these tools")

	res = run(t, dir, fb.URL, "", "recent", "list")
	require.NoError(t, res.err)
	assert.Equal(t, "1. make a product video\n", res.out)
}

func TestPlan_Views(t *testing.T) {
	fb := newFakeBackend(t)
	dir := t.TempDir()

	res := run(t, dir, fb.URL, "", "plan", "--search", "runway", "video ad")
	require.NoError(t, res.err)
	assert.Contains(t, res.out, "Runway")
	assert.NotContains(t, res.out, "ChatGPT")

	res = run(t, dir, fb.URL, "", "plan", "--favs", "video ad")
	require.NoError(t, res.err)
	assert.Contains(t, res.out, "No tools match")

	res = run(t, dir, fb.URL, "", "plan", "--lang", "bg", "video ad")
	require.NoError(t, res.err)
	_, langs := fb.seen()
	assert.Equal(t, []string{"en", "en", "bg"}, langs)

	res = run(t, dir, fb.URL, "", "lang")
	require.NoError(t, res.err)
	assert.Equal(t, "bg\n", res.out)

	res = run(t, dir, fb.URL, "", "plan", "--lang", "fr", "video ad")
	assert.EqualError(t, res.err, `unsupported language "fr"`)
}

func TestPrompt_NoPlan(t *testing.T) {
	fb := newFakeBackend(t)
	res := run(t, t.TempDir(), fb.URL, "", "prompt", "1")
	assert.ErrorIs(t, res.err, errNoPlan)
}

func TestFavToggle(t *testing.T) {
	fb := newFakeBackend(t)
	dir := t.TempDir()

	require.NoError(t, run(t, dir, fb.URL, "", "plan", "video ad").err)

	res := run(t, dir, fb.URL, "", "fav", "toggle", "Runway")
	require.NoError(t, res.err)
	assert.Contains(t, res.out, "Runway added to favorites")

	res = run(t, dir, fb.URL, "", "fav", "toggle", "--link", "https://x.example", "Other")
	require.NoError(t, res.err)

	res = run(t, dir, fb.URL, "", "fav", "list")
	require.NoError(t, res.err)
	assert.Contains(t, res.out, "https://runwayml.com", "link filled from the last plan")
	assert.Contains(t, res.out, "https://x.example")

	res = run(t, dir, fb.URL, "", "plan", "--favs", "video ad")
	require.NoError(t, res.err)
	assert.Contains(t, res.out, "★ Runway")
	assert.NotContains(t, res.out, "ChatGPT")

	res = run(t, dir, fb.URL, "", "fav", "toggle", "Runway")
	require.NoError(t, res.err)
	assert.Contains(t, res.out, "Runway removed from favorites")

	res = run(t, dir, fb.URL, "", "fav", "sync")
	assert.ErrorIs(t, res.err, errNotSignedIn)
}

func TestRecent(t *testing.T) {
	fb := newFakeBackend(t)
	dir := t.TempDir()
	for _, g := range []string{"one", "two", "three"} {
		require.NoError(t, run(t, dir, fb.URL, "", "plan", g).err)
	}

	res := run(t, dir, fb.URL, "", "recent", "rm", "2")
	require.NoError(t, res.err)
	assert.Equal(t, "1. three\n2. one\n", res.out)

	res = run(t, dir, fb.URL, "", "recent", "rm", "missing")
	assert.Error(t, res.err)

	require.NoError(t, run(t, dir, fb.URL, "", "recent", "clear").err)
	res = run(t, dir, fb.URL, "", "recent", "list")
	require.NoError(t, res.err)
	assert.Contains(t, res.out, "No recent prompts")
}

func TestLang(t *testing.T) {
	fb := newFakeBackend(t)
	dir := t.TempDir()

	res := run(t, dir, fb.URL, "", "lang")
	require.NoError(t, res.err)
	assert.Equal(t, "en\n", res.out)

	require.NoError(t, run(t, dir, fb.URL, "", "lang", "BG").err)
	res = run(t, dir, fb.URL, "", "lang")
	require.NoError(t, res.err)
	assert.Equal(t, "bg\n", res.out)

	res = run(t, dir, fb.URL, "", "lang", "de")
	assert.Error(t, res.err)
}

func TestCatalog(t *testing.T) {
	fb := newFakeBackend(t)
	dir := t.TempDir()

	res := run(t, dir, fb.URL, "", "catalog", "categories")
	require.NoError(t, res.err)
	assert.Contains(t, res.out, "cap:video-gen")
	assert.Contains(t, res.out, "Video generation")

	res = run(t, dir, fb.URL, "", "catalog", "tools", "--cap", "cap:video-gen")
	require.NoError(t, res.err)
	assert.Contains(t, res.out, "Runway")
	assert.Contains(t, res.out, "1-1 of 1")

	res = run(t, dir, fb.URL, "", "catalog", "tools", "--lang", "xx")
	assert.Error(t, res.err)
}

func TestShell(t *testing.T) {
	fb := newFakeBackend(t)
	dir := t.TempDir()

	input := strings.Join([]string{
		":search runway",
		"launch a podcast",
		":search nothing-here",
		":search",
		":bogus",
		":lang bg",
		":quit",
		"never planned",
	}, "\n")
	res := run(t, dir, fb.URL, input, "shell")
	require.NoError(t, res.err)

	assert.Contains(t, res.out, "no plan yet")
	assert.Contains(t, res.out, "Runway")
	assert.Contains(t, res.out, "No tools match")
	assert.Contains(t, res.out, "Language set to bg")
	assert.Contains(t, res.errOut, "unknown command :bogus")
	goals, _ := fb.seen()
	assert.Equal(t, []string{"launch a podcast"}, goals)
}

func TestConfig(t *testing.T) {
	fb := newFakeBackend(t)
	dir := t.TempDir()

	res := run(t, dir, fb.URL, "", "config", "set-server", "https://api.example.com/")
	require.NoError(t, res.err)
	assert.Contains(t, res.out, "https://api.example.com")

	p, err := LoadProfile(profilePath(dir))
	require.NoError(t, err)
	assert.Equal(t, "https://api.example.com", p.Server.BaseURL)

	res = run(t, dir, fb.URL, "", "config", "set-server", "ftp://nope")
	assert.Error(t, res.err)

	res = run(t, dir, fb.URL, "", "config", "show")
	require.NoError(t, res.err)
	assert.Contains(t, res.out, "base_url: "+fb.URL)
}

func TestAuth_NotSignedIn(t *testing.T) {
	fb := newFakeBackend(t)
	dir := t.TempDir()
	tests := []struct {
		name string
		args []string
	}{
		{name: "me", args: []string{"auth", "me"}},
		{name: "remote recents", args: []string{"recent", "list", "--remote"}},
		{name: "fav sync", args: []string{"fav", "sync"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := run(t, dir, fb.URL, "", tt.args...)
			assert.ErrorIs(t, res.err, errNotSignedIn)
		})
	}
}

func TestAuth_GoogleDisabled(t *testing.T) {
	fb := newFakeBackend(t)
	res := run(t, t.TempDir(), fb.URL, "", "auth", "google")
	assert.ErrorIs(t, res.err, errGoogleDisabled)
	assert.Empty(t, res.out, "no login URL is printed")
}

func TestRecent_MirrorsServer(t *testing.T) {
	fb := newFakeBackend(t)
	dir := t.TempDir()

	res := run(t, dir, fb.URL, "", "auth", "login", "--email", "a@b.c", "--password", "pw")
	require.NoError(t, res.err)
	for _, g := range []string{"one", "two", "three"} {
		require.NoError(t, run(t, dir, fb.URL, "", "plan", g).err)
	}

	res = run(t, dir, fb.URL, "", "recent", "list", "--remote")
	require.NoError(t, res.err)
	assert.Equal(t, "1. three\n2. two\n3. one\n", res.out)

	require.NoError(t, run(t, dir, fb.URL, "", "recent", "rm", "2").err)
	res = run(t, dir, fb.URL, "", "recent", "list", "--remote")
	require.NoError(t, res.err)
	assert.Equal(t, "1. three\n2. one\n", res.out)

	require.NoError(t, run(t, dir, fb.URL, "", "recent", "clear").err)
	res = run(t, dir, fb.URL, "", "recent", "list", "--remote")
	require.NoError(t, res.err)
	assert.Contains(t, res.out, "No recent prompts")
	assert.Equal(t, []string{"two", ""}, fb.remoteRemovals())
}

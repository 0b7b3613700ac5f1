package prefs

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/lk2023060901/myai/internal/locale"
	"github.com/lk2023060901/myai/internal/pkg/kv"
	"github.com/lk2023060901/myai/internal/plan"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// brokenStore fails every operation, like storage in privacy mode.
type brokenStore struct{}

var errBroken = errors.New("quota exceeded")

func (brokenStore) Get(context.Context, string) ([]byte, error) { return nil, errBroken }
func (brokenStore) Set(context.Context, string, []byte) error   { return errBroken }
func (brokenStore) Delete(context.Context, string) error        { return errBroken }

func TestRecents_Push(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemory()
	r := NewRecents(store, nil)
	r.Load(ctx)

	assert.Equal(t, []string{"a"}, r.Push(ctx, "  a "))
	assert.Equal(t, []string{"b", "a"}, r.Push(ctx, "b"))
	assert.Equal(t, []string{"a", "b"}, r.Push(ctx, "a"), "re-push moves to front without duplicating")
	assert.Equal(t, []string{"a", "b"}, r.Push(ctx, "   "), "blank is a no-op")

	raw, err := store.Get(ctx, KeyRecents)
	require.NoError(t, err)
	assert.JSONEq(t, `["a","b"]`, string(raw))
}

func TestRecents_Bounded(t *testing.T) {
	ctx := context.Background()
	r := NewRecents(kv.NewMemory(), nil)
	for i := 1; i <= 7; i++ {
		r.Push(ctx, fmt.Sprintf("p%d", i))
	}
	assert.Equal(t, []string{"p7", "p6", "p5", "p4", "p3", "p2"}, r.List())
}

func TestRecents_DropsOldestWhenFull(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemory()
	require.NoError(t, store.Set(ctx, KeyRecents, []byte(`["a","b","c","d","e","f"]`)))

	r := NewRecents(store, nil)
	r.Load(ctx)
	assert.Equal(t, []string{"g", "a", "b", "c", "d", "e"}, r.Push(ctx, "g"))
}

func TestRecents_RemoveAndClear(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemory()
	r := NewRecents(store, nil)
	r.Push(ctx, "x")
	r.Push(ctx, "y")

	assert.Equal(t, []string{"x"}, r.Remove(ctx, "y"))
	assert.Equal(t, []string{"x"}, r.Remove(ctx, "missing"))

	r.Clear(ctx)
	assert.Empty(t, r.List())
	_, err := store.Get(ctx, KeyRecents)
	assert.True(t, kv.IsNotFound(err), "clear deletes the key")

	assert.Empty(t, NewRecents(store, nil).Load(ctx))
}

func TestRecents_Load(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{name: "absent", want: []string{}},
		{name: "malformed", raw: `{not json`, want: []string{}},
		{name: "wrong shape", raw: `{"a":1}`, want: []string{}},
		{name: "mixed values", raw: `["a", 3, "", "b"]`, want: []string{"a", "b"}},
		{name: "over cap", raw: `["1","2","3","4","5","6","7","8"]`, want: []string{"1", "2", "3", "4", "5", "6"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := kv.NewMemory()
			if tt.raw != "" {
				require.NoError(t, store.Set(context.Background(), KeyRecents, []byte(tt.raw)))
			}
			assert.Equal(t, tt.want, NewRecents(store, nil).Load(context.Background()))
		})
	}
}

func TestRecents_StorageFailureIsSwallowed(t *testing.T) {
	ctx := context.Background()
	r := NewRecents(brokenStore{}, nil)
	assert.Empty(t, r.Load(ctx))
	assert.Equal(t, []string{"kept"}, r.Push(ctx, "kept"))
	r.Clear(ctx)
	assert.Empty(t, r.List())
}

func TestFavorites_Toggle(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemory()
	f := NewFavorites(store, nil)
	f.Load(ctx)

	tool := plan.Tool{Name: "ChatGPT", Link: "https://chat.openai.com/", Icon: "icon.png"}
	assert.True(t, f.Toggle(ctx, tool))
	assert.True(t, f.Has("ChatGPT"))
	assert.Equal(t, 1, f.Count())

	raw, err := store.Get(ctx, KeyFavorites)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"name":"ChatGPT","icon":"icon.png","link":"https://chat.openai.com/"}]`, string(raw))

	assert.False(t, f.Toggle(ctx, tool))
	assert.Equal(t, 0, f.Count())
	raw, _ = store.Get(ctx, KeyFavorites)
	assert.JSONEq(t, `[]`, string(raw))
}

func TestFavorites_ToggleTwiceRestores(t *testing.T) {
	ctx := context.Background()
	tests := []string{"ChatGPT", " ChatGPT ", "\tChatGPT"}
	for _, name := range tests {
		t.Run(fmt.Sprintf("%q", name), func(t *testing.T) {
			f := NewFavorites(kv.NewMemory(), nil)
			f.Add(ctx, FavTool{Name: "Claude"})
			before := f.List()

			assert.True(t, f.Toggle(ctx, plan.Tool{Name: name}))
			assert.True(t, f.Has("ChatGPT"))
			assert.Equal(t, 2, f.Count())

			assert.False(t, f.Toggle(ctx, plan.Tool{Name: name}))
			assert.Equal(t, before, f.List())
		})
	}

	f := NewFavorites(kv.NewMemory(), nil)
	assert.False(t, f.Toggle(ctx, plan.Tool{Name: "   "}))
	assert.Equal(t, 0, f.Count())
}

func TestFavorites_OrderAndUpdate(t *testing.T) {
	ctx := context.Background()
	f := NewFavorites(kv.NewMemory(), nil)
	f.Add(ctx, FavTool{Name: "B"})
	f.Add(ctx, FavTool{Name: "A"})
	f.Add(ctx, FavTool{Name: "B", Link: "l"})
	f.Add(ctx, FavTool{Name: "  "})

	assert.Equal(t, []FavTool{{Name: "B", Link: "l"}, {Name: "A"}}, f.List())
	assert.True(t, f.Names().Has("A"))

	f.Remove(ctx, "B")
	assert.Equal(t, []FavTool{{Name: "A"}}, f.List())
}

func TestFavorites_LoadIgnoresBadData(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemory()
	require.NoError(t, store.Set(ctx, KeyFavorites, []byte(`[{"name":"A"},{"name":""},{"name":"A","icon":"i"}]`)))
	assert.Equal(t, []FavTool{{Name: "A", Icon: "i"}}, NewFavorites(store, nil).Load(ctx))

	require.NoError(t, store.Set(ctx, KeyFavorites, []byte(`garbage`)))
	assert.Empty(t, NewFavorites(store, nil).Load(ctx))
}

func TestMigrateFavorites(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemory()
	require.NoError(t, store.Set(ctx, KeyLegacyFavorites, []byte(`["A","B"]`)))

	migrated, err := MigrateFavorites(ctx, store, nil)
	require.NoError(t, err)
	assert.Equal(t, []FavTool{{Name: "A"}, {Name: "B"}}, migrated)

	raw, err := store.Get(ctx, KeyFavorites)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"name":"A"},{"name":"B"}]`, string(raw))
	_, err = store.Get(ctx, KeyLegacyFavorites)
	assert.True(t, kv.IsNotFound(err))

	again, err := MigrateFavorites(ctx, store, nil)
	require.NoError(t, err)
	assert.Nil(t, again, "second run is a no-op")
}

func TestMigrateFavorites_CurrentKeyWins(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemory()
	require.NoError(t, store.Set(ctx, KeyFavorites, []byte(`[{"name":"New"}]`)))
	require.NoError(t, store.Set(ctx, KeyLegacyFavorites, []byte(`["Old"]`)))

	migrated, err := MigrateFavorites(ctx, store, nil)
	require.NoError(t, err)
	assert.Nil(t, migrated)

	_, err = store.Get(ctx, KeyLegacyFavorites)
	assert.NoError(t, err, "legacy data is left alone when nothing is migrated")
}

func TestMigrateFavorites_NothingToDo(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemory()
	migrated, err := MigrateFavorites(ctx, store, nil)
	require.NoError(t, err)
	assert.Nil(t, migrated)
	assert.Empty(t, store.Keys())

	require.NoError(t, store.Set(ctx, KeyLegacyFavorites, []byte(`oops`)))
	migrated, err = MigrateFavorites(ctx, store, nil)
	require.NoError(t, err)
	assert.Nil(t, migrated)
}

func TestMigrateFavorites_ReadError(t *testing.T) {
	_, err := MigrateFavorites(context.Background(), brokenStore{}, nil)
	assert.ErrorIs(t, err, errBroken)
}

func TestOpenFavorites(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemory()
	require.NoError(t, store.Set(ctx, KeyLegacyFavorites, []byte(`["A","B","A"]`)))

	f := OpenFavorites(ctx, store, nil)
	assert.Equal(t, []FavTool{{Name: "A"}, {Name: "B"}}, f.List())

	f2 := OpenFavorites(ctx, store, nil)
	assert.Equal(t, f.List(), f2.List())

	broken := OpenFavorites(ctx, brokenStore{}, nil)
	assert.Equal(t, 0, broken.Count())
	assert.True(t, broken.Toggle(ctx, plan.Tool{Name: "X"}), "in-memory state survives failed writes")
}

func TestLanguage(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemory()
	l := NewLanguage(store, nil)

	assert.Equal(t, locale.EN, l.Load(ctx))
	assert.Equal(t, locale.BG, l.Detect(ctx, "Направи лого за пекарна"))

	raw, err := store.Get(ctx, KeyLanguage)
	require.NoError(t, err)
	assert.Equal(t, "bg", string(raw))

	assert.True(t, l.Set(ctx, locale.EN))
	assert.False(t, l.Set(ctx, locale.Locale("de")))
	assert.Equal(t, locale.EN, NewLanguage(store, nil).Load(ctx))
}

func TestLanguage_UnknownPersistedValueIgnored(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemory()
	require.NoError(t, store.Set(ctx, KeyLanguage, []byte("klingon")))
	assert.Equal(t, locale.Default, NewLanguage(store, nil).Load(ctx))

	require.NoError(t, store.Set(ctx, KeyLanguage, []byte(`"bg"`)))
	assert.Equal(t, locale.BG, NewLanguage(store, nil).Load(ctx))

	assert.Equal(t, locale.Default, NewLanguage(brokenStore{}, nil).Load(ctx))
}

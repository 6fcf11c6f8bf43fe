package session

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/nexusauth/internal/client/db"
	"github.com/dmitrijs2005/nexusauth/internal/client/models"
	"github.com/dmitrijs2005/nexusauth/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/nexusauth/internal/common"
)

func newCache(t *testing.T) (*Cache, *metadata.SQLiteRepository) {
	t.Helper()
	conn, err := db.Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	repo := metadata.NewSQLiteRepository(conn)
	return NewCache(repo), repo
}

func sample() Profile {
	return Profile{
		ID:           "id-1",
		Username:     "ada_l",
		FullName:     "Ada Lovelace",
		Email:        "ada@x.io",
		Gender:       "female",
		Hobbies:      []string{"math", "music"},
		Country:      "UK",
		RegisteredAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

func TestCache_SaveLoadClear(t *testing.T) {
	c, _ := newCache(t)
	ctx := context.Background()

	p, err := c.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, p, "nobody signed in yet")

	want := sample()
	require.NoError(t, c.Save(ctx, want))

	got, err := c.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Empty(t, cmp.Diff(want, *got))

	at, err := c.SavedAt(ctx)
	require.NoError(t, err)
	assert.False(t, at.IsZero())

	require.NoError(t, c.Clear(ctx))
	got, err = c.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, c.Clear(ctx), "clearing twice is fine")
}

func TestCache_SaveOverwrites(t *testing.T) {
	c, _ := newCache(t)
	ctx := context.Background()

	p := sample()
	require.NoError(t, c.Save(ctx, p))
	p.IsVerified = true
	require.NoError(t, c.Save(ctx, p))

	got, err := c.Load(ctx)
	require.NoError(t, err)
	assert.True(t, got.IsVerified)
}

func TestCache_UsesSessionKey(t *testing.T) {
	c, repo := newCache(t)
	ctx := context.Background()

	require.NoError(t, c.Save(ctx, sample()))

	rec, err := repo.Get(ctx, common.SessionKey)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Contains(t, string(rec.Value), `"username":"ada_l"`)
	assert.NotContains(t, string(rec.Value), "password")
}

func TestCache_CorruptEntryIsDropped(t *testing.T) {
	c, repo := newCache(t)
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, common.SessionKey, []byte("{not json")))

	got, err := c.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)

	rec, err := repo.Get(ctx, common.SessionKey)
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestFromProfile(t *testing.T) {
	last := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	src := &models.Profile{
		ID: "id-1", Username: "ada_l", FullName: "Ada Lovelace", Email: "ada@x.io",
		Gender: "female", Hobbies: []string{"math", "music"}, Country: "UK",
		RegisteredAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC), LastLogin: &last,
	}

	got := FromProfile(src)
	assert.Empty(t, cmp.Diff(sample(), got))

	src.Hobbies[0] = "arts"
	assert.Equal(t, "math", got.Hobbies[0], "hobbies are copied")
}

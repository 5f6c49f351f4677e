package snapshot

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/Vraj-Prajapati-14/LearnSphere-Frontend/internal/client/client"
	"github.com/Vraj-Prajapati-14/LearnSphere-Frontend/internal/client/repositories/metadata"
	"github.com/Vraj-Prajapati-14/LearnSphere-Frontend/internal/client/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := client.InitDatabase(context.Background(), filepath.Join(t.TempDir(), "session.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

var alice = session.Identity{
	ID: "42", Email: "alice@example.com", Name: "Alice", Role: session.RoleStudent, AccessToken: "tok-a",
}

func TestStore_SaveLoadClear(t *testing.T) {
	ctx := context.Background()
	s, err := Open(ctx, openDB(t))
	require.NoError(t, err)

	got, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, got, "empty store must load nothing")

	require.NoError(t, s.Save(ctx, alice))
	require.NoError(t, s.SaveCookies(ctx, []byte(`[{"url":"http://h","cookies":[]}]`)))

	got, err = s.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, alice, *got)

	cookies, err := s.LoadCookies(ctx)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"url":"http://h","cookies":[]}]`, string(cookies))

	require.NoError(t, s.Clear(ctx))

	got, err = s.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)
	cookies, err = s.LoadCookies(ctx)
	require.NoError(t, err)
	assert.Nil(t, cookies)
}

func TestStore_ExpiredRecordIsAbsentAndRemoved(t *testing.T) {
	ctx := context.Background()
	db := openDB(t)
	s, err := Open(ctx, db, WithTTL(time.Hour))
	require.NoError(t, err)

	now := time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }
	require.NoError(t, s.Save(ctx, alice))

	now = now.Add(59 * time.Minute)
	got, err := s.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, got, "still inside the TTL")

	now = now.Add(2 * time.Minute)
	got, err = s.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)

	raw, err := metadata.NewSQLiteRepository(db).Get(ctx, IdentityKey)
	require.NoError(t, err)
	assert.Nil(t, raw, "expired record must be deleted")
}

func TestStore_DefaultTTLIsSevenDays(t *testing.T) {
	ctx := context.Background()
	s, err := Open(ctx, openDB(t), WithTTL(0))
	require.NoError(t, err)
	assert.Equal(t, 7*24*time.Hour, s.ttl)
}

func TestStore_SealedRecords(t *testing.T) {
	ctx := context.Background()
	db := openDB(t)

	s, err := Open(ctx, db, WithSecret("correct horse"))
	require.NoError(t, err)
	require.NoError(t, s.Save(ctx, alice))

	raw, err := metadata.NewSQLiteRepository(db).Get(ctx, IdentityKey)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "alice@example.com", "sealed value must not be plaintext")

	again, err := Open(ctx, db, WithSecret("correct horse"))
	require.NoError(t, err)
	got, err := again.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, alice.Email, got.Email)

	wrong, err := Open(ctx, db, WithSecret("battery staple"))
	require.NoError(t, err)
	got, err = wrong.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, got, "unreadable record is treated as absent")

	salt, err := metadata.NewSQLiteRepository(db).Get(ctx, SaltKey)
	require.NoError(t, err)
	assert.Len(t, salt, 16, "salt survives clearing the session")
}

func TestStore_GarbageIsDiscarded(t *testing.T) {
	ctx := context.Background()
	db := openDB(t)
	require.NoError(t, metadata.NewSQLiteRepository(db).Set(ctx, IdentityKey, []byte("not json")))

	s, err := Open(ctx, db)
	require.NoError(t, err)

	got, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestStore_ClosedDatabaseFails(t *testing.T) {
	ctx := context.Background()
	db := openDB(t)
	s, err := Open(ctx, db)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	_, err = s.Load(ctx)
	require.Error(t, err)
	require.Error(t, s.Save(ctx, alice))
	require.Error(t, s.Clear(ctx))
}

package tokenstore_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"testing"

	"github.com/nabdaotp/dashboard/pkg/slogx"
	"github.com/nabdaotp/dashboard/pkg/tokenstore"
	"github.com/stretchr/testify/require"
)

func TestSaveWritesStorageAndCookie(t *testing.T) {
	ctx := context.Background()
	storage := tokenstore.NewMemoryStorage()
	cookies := &tokenstore.RecordingSink{}
	store := tokenstore.New(storage, cookies)

	store.Save(ctx, "t1")

	require.Equal(t, "t1", store.Load(ctx))

	c := cookies.Last()
	require.NotNil(t, c)
	require.Equal(t, "nadba-token", c.Name)
	require.Equal(t, "t1", c.Value)
	require.Equal(t, "/", c.Path)
	require.Equal(t, 604800, c.MaxAge)
	require.Equal(t, http.SameSiteLaxMode, c.SameSite)
	require.True(t, cookies.Active())
}

func TestClearRemovesEverything(t *testing.T) {
	ctx := context.Background()
	storage := tokenstore.NewMemoryStorage()
	cookies := &tokenstore.RecordingSink{}
	store := tokenstore.New(storage, cookies)

	store.Save(ctx, "t1")
	store.SelectInstance(ctx, "inst-9")
	require.Equal(t, "inst-9", store.SelectedInstance(ctx))

	store.Clear(ctx)

	require.Empty(t, store.Load(ctx))
	require.Empty(t, store.SelectedInstance(ctx))
	require.Zero(t, storage.Len())
	require.False(t, cookies.Active())
	require.Equal(t, -1, cookies.Last().MaxAge)
}

func TestSelectInstanceLeavesCookieAlone(t *testing.T) {
	ctx := context.Background()
	cookies := &tokenstore.RecordingSink{}
	store := tokenstore.New(tokenstore.NewMemoryStorage(), cookies)

	store.SelectInstance(ctx, "inst-1")
	require.Nil(t, cookies.Last())
}

func TestNilStorageMeansNoCredential(t *testing.T) {
	ctx := context.Background()
	cookies := &tokenstore.RecordingSink{}
	store := tokenstore.New(nil, cookies)

	require.NotPanics(t, func() {
		store.Save(ctx, "t1")
		store.SelectInstance(ctx, "inst-1")
	})
	require.Empty(t, store.Load(ctx))
	require.Empty(t, store.SelectedInstance(ctx))

	// The cookie is still projected; only the durable copy is missing.
	require.True(t, cookies.Active())

	require.NotPanics(t, func() { store.Clear(ctx) })
}

func TestNilCookieSink(t *testing.T) {
	ctx := context.Background()
	store := tokenstore.New(tokenstore.NewMemoryStorage(), nil)

	require.NotPanics(t, func() {
		store.Save(ctx, "t1")
		store.Clear(ctx)
	})
}

type brokenStorage struct{}

func (brokenStorage) Get(context.Context, string) (string, bool, error) {
	return "", false, errors.New("disk on fire")
}
func (brokenStorage) Set(context.Context, string, string) error   { return errors.New("disk on fire") }
func (brokenStorage) Delete(context.Context, ...string) error      { return errors.New("disk on fire") }

func TestStorageErrorsAreSwallowed(t *testing.T) {
	ctx := context.Background()
	store := tokenstore.New(brokenStorage{}, nil, tokenstore.WithLogger(slogx.Discard()))

	require.NotPanics(t, func() {
		store.Save(ctx, "t1")
		store.Clear(ctx)
	})
	require.Empty(t, store.Load(ctx))
}

func TestJarSink(t *testing.T) {
	ctx := context.Background()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	u, err := url.Parse("http://dashboard.test/")
	require.NoError(t, err)

	store := tokenstore.New(tokenstore.NewMemoryStorage(), tokenstore.JarSink{Jar: jar, URL: u})

	store.Save(ctx, "t1")
	got := jar.Cookies(u)
	require.Len(t, got, 1)
	require.Equal(t, "t1", got[0].Value)

	store.Clear(ctx)
	require.Empty(t, jar.Cookies(u))
}

func TestMirrorCookie(t *testing.T) {
	cookies := &tokenstore.RecordingSink{}
	store := tokenstore.New(tokenstore.NewMemoryStorage(), cookies)

	store.MirrorCookie("")
	require.Nil(t, cookies.Last())

	store.MirrorCookie("t9")
	require.Equal(t, "t9", cookies.Last().Value)
}

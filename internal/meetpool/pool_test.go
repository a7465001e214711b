package meetpool

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFallback struct {
	link  string
	err   error
	calls int
}

func (f *fakeFallback) GenerateMeetLink(ctx context.Context) (string, error) {
	f.calls++
	return f.link, f.err
}

func writePool(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "meet_links.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestIssueFIFOAndExhaustion(t *testing.T) {
	path := writePool(t, "https://meet.google.com/aaa\nhttps://meet.google.com/bbb\n")
	fallback := &fakeFallback{link: "https://meet.google.com/generated"}
	pool := New(path, fallback)

	ctx := context.Background()
	assert.Equal(t, "https://meet.google.com/aaa", pool.Issue(ctx))
	assert.Equal(t, "https://meet.google.com/bbb", pool.Issue(ctx))
	assert.Equal(t, 0, fallback.calls)

	// Third call must go to the fallback, never re-issuing a pooled link.
	assert.Equal(t, "https://meet.google.com/generated", pool.Issue(ctx))
	assert.Equal(t, 1, fallback.calls)
}

func TestIssueSkipsBlankLines(t *testing.T) {
	path := writePool(t, "\n\n  https://meet.google.com/ccc  \n\n")
	pool := New(path, nil)

	assert.Equal(t, "https://meet.google.com/ccc", pool.Issue(context.Background()))
	assert.Equal(t, 0, pool.Remaining())
}

func TestIssueRewritesRemainder(t *testing.T) {
	path := writePool(t, "one\ntwo\nthree\n")
	pool := New(path, nil)

	pool.Issue(context.Background())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "two\nthree\n", string(data))
}

func TestIssueMissingFileUsesFallback(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.txt")
	fallback := &fakeFallback{link: "https://meet.google.com/generated"}
	pool := New(path, fallback)

	assert.Equal(t, "https://meet.google.com/generated", pool.Issue(context.Background()))
}

func TestIssueExhaustedMessage(t *testing.T) {
	path := writePool(t, "")

	t.Run("fallback error", func(t *testing.T) {
		pool := New(path, &fakeFallback{err: errors.New("calendar unavailable")})
		assert.Equal(t, ExhaustedMessage, pool.Issue(context.Background()))
	})

	t.Run("no fallback", func(t *testing.T) {
		pool := New(path, nil)
		assert.Equal(t, ExhaustedMessage, pool.Issue(context.Background()))
	})
}

func TestFallbackLinksNotPooled(t *testing.T) {
	path := writePool(t, "")
	fallback := &fakeFallback{link: "https://meet.google.com/generated"}
	pool := New(path, fallback)

	ctx := context.Background()
	pool.Issue(ctx)
	pool.Issue(ctx)

	// Each exhausted call re-generates; nothing is written back.
	assert.Equal(t, 2, fallback.calls)
	assert.Equal(t, 0, pool.Remaining())
}

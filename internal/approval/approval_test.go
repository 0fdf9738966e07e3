package approval

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const twoRequests = `{
  "requests": [
    {"id": "req1", "path": "internal/dock/layout.go", "summary": "rename group"},
    {"id": "req2", "tool": "bash", "params": {"command": "go test ./..."}}
  ]
}`

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoad(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		content    *string
		wantLoaded bool
		wantIDs    []string
		wantErr    bool
	}{
		{name: "missing file", content: nil, wantLoaded: true},
		{name: "empty file", content: ptr(""), wantLoaded: true},
		{name: "no requests key", content: ptr(`{}`), wantLoaded: true},
		{name: "two requests", content: ptr(twoRequests), wantLoaded: true, wantIDs: []string{"req1", "req2"}},
		{name: "malformed", content: ptr(`{"requests": [`), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			path := filepath.Join(t.TempDir(), "approvals.json")
			if tt.content != nil {
				writeFile(t, path, *tt.content)
			}

			snap, err := Load(path)
			if tt.wantErr {
				require.Error(t, err)
				assert.False(t, snap.Loaded)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantLoaded, snap.Loaded)
			var ids []string
			for _, r := range snap.Requests {
				ids = append(ids, r.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func ptr(s string) *string { return &s }

func TestParseFields(t *testing.T) {
	t.Parallel()

	snap, err := Parse([]byte(twoRequests))
	require.NoError(t, err)
	require.Len(t, snap.Requests, 2)

	assert.Equal(t, "internal/dock/layout.go", snap.Requests[0].Path)
	assert.Equal(t, "rename group", snap.Requests[0].Summary)
	assert.Equal(t, "bash", snap.Requests[1].Tool)
	assert.Equal(t, "go test ./...", snap.Requests[1].Params["command"])
}

func TestFingerprintTracksContent(t *testing.T) {
	t.Parallel()

	a, err := Parse([]byte(twoRequests))
	require.NoError(t, err)
	b, err := Parse([]byte(twoRequests))
	require.NoError(t, err)
	c, err := Parse([]byte(`{"requests": []}`))
	require.NoError(t, err)

	assert.Equal(t, a.Fingerprint, b.Fingerprint)
	assert.NotEqual(t, a.Fingerprint, c.Fingerprint)
}

func TestFilterMatch(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		filter Filter
		req    Request
		want   bool
	}{
		{name: "no patterns", filter: Filter{}, req: Request{Path: "a/b.go"}, want: true},
		{name: "tool request always passes", filter: Filter{Include: []string{"**/*.md"}}, req: Request{Tool: "bash"}, want: true},
		{name: "include hit", filter: Filter{Include: []string{"internal/**/*.go"}}, req: Request{Path: "internal/dock/layout.go"}, want: true},
		{name: "include miss", filter: Filter{Include: []string{"internal/**/*.go"}}, req: Request{Path: "docs/readme.md"}, want: false},
		{name: "exclude wins", filter: Filter{Include: []string{"**"}, Exclude: []string{"**/*_test.go"}}, req: Request{Path: "internal/dock/layout_test.go"}, want: false},
		{name: "path cleaned", filter: Filter{Include: []string{"internal/*.go"}}, req: Request{Path: "./internal/x.go"}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.filter.Match(tt.req))
		})
	}
}

func TestFilterApplyPreservesOrder(t *testing.T) {
	t.Parallel()

	snap := Snapshot{Loaded: true, Requests: []Request{
		{ID: "a", Path: "x.go"},
		{ID: "b", Path: "x.md"},
		{ID: "c", Tool: "bash"},
		{ID: "d", Path: "y.go"},
	}}
	got := Filter{Include: []string{"*.go"}}.Apply(snap)

	require.Len(t, got.Requests, 3)
	assert.Equal(t, "a", got.Requests[0].ID)
	assert.Equal(t, "c", got.Requests[1].ID)
	assert.Equal(t, "d", got.Requests[2].ID)
	assert.Len(t, snap.Requests, 4, "input must not be modified")
}

func TestFilterValidate(t *testing.T) {
	t.Parallel()

	assert.NoError(t, Filter{Include: []string{"**/*.go"}}.Validate())
	assert.Error(t, Filter{Exclude: []string{"[unclosed"}}.Validate())
}

func TestFeedReloadSkipsUnchanged(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "approvals.json")
	writeFile(t, path, twoRequests)
	feed := NewFeed(path, Filter{}, 0)

	snap, changed, err := feed.Reload()
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Len(t, snap.Requests, 2)

	_, changed, err = feed.Reload()
	require.NoError(t, err)
	assert.False(t, changed)

	select {
	case got := <-feed.Updates():
		assert.Len(t, got.Requests, 2)
	default:
		t.Fatal("expected one published snapshot")
	}
	select {
	case <-feed.Updates():
		t.Fatal("unchanged reload must not publish")
	default:
	}
}

func TestFeedReloadKeepsPreviousOnError(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "approvals.json")
	writeFile(t, path, twoRequests)
	feed := NewFeed(path, Filter{}, 0)
	_, _, err := feed.Reload()
	require.NoError(t, err)

	writeFile(t, path, `{not json`)
	snap, changed, err := feed.Reload()
	require.Error(t, err)
	assert.False(t, changed)
	assert.True(t, snap.Loaded)
	assert.Len(t, feed.Current().Requests, 2)
}

func TestFeedInitiallyUnloaded(t *testing.T) {
	t.Parallel()

	feed := NewFeed(filepath.Join(t.TempDir(), "approvals.json"), Filter{}, 0)
	assert.False(t, feed.Current().Loaded)
}

func TestFeedPublishIsLatestWins(t *testing.T) {
	t.Parallel()

	feed := NewFeed("unused.json", Filter{}, 0)
	feed.publish(Snapshot{Loaded: true, Fingerprint: 1})
	feed.publish(Snapshot{Loaded: true, Fingerprint: 2})

	got := <-feed.Updates()
	assert.Equal(t, uint64(2), got.Fingerprint)
}

func TestFeedWatchesFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "approvals.json")
	feed := NewFeed(path, Filter{}, 20*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, feed.Start(ctx))
	defer feed.Close()

	initial := <-feed.Updates()
	assert.True(t, initial.Loaded)
	assert.Empty(t, initial.Requests)

	writeFile(t, path, twoRequests)

	select {
	case snap := <-feed.Updates():
		assert.Len(t, snap.Requests, 2)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for approvals update")
	}
}

func TestFeedCloseIsIdempotent(t *testing.T) {
	t.Parallel()

	feed := NewFeed(filepath.Join(t.TempDir(), "approvals.json"), Filter{}, 0)
	require.NoError(t, feed.Start(context.Background()))
	assert.NoError(t, feed.Close())
	assert.NoError(t, feed.Close())
}

func TestDebouncerCoalesces(t *testing.T) {
	t.Parallel()

	d := newDebouncer(20 * time.Millisecond)
	var calls atomic.Int32
	for i := 0; i < 10; i++ {
		d.Trigger(func() { calls.Add(1) })
	}

	assert.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load())
}

func TestDebouncerCancel(t *testing.T) {
	t.Parallel()

	d := newDebouncer(10 * time.Millisecond)
	var calls atomic.Int32
	d.Trigger(func() { calls.Add(1) })
	d.Cancel()

	time.Sleep(40 * time.Millisecond)
	assert.Equal(t, int32(0), calls.Load())
}

package panel

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AbdelazizMoustafa10m/dockyard/internal/dock"
	"github.com/AbdelazizMoustafa10m/dockyard/internal/storage"
)

// failingKV wraps a memory store and fails every Set.
type failingKV struct {
	*storage.Memory
}

func (f failingKV) Set(string, string) error { return errors.New("disk full") }

func newTestEngine(t *testing.T, kv storage.KV) (*Engine, *fakeHost) {
	t.Helper()
	host := newFakeHost("filetree", "shell")
	e := NewEngine(NewStore(fileTreeSlot(), shellSlot()), kv, "dockyard")
	e.Mount(host)
	host.calls = nil
	return e, host
}

func TestEngine_MountRunsInitialPass(t *testing.T) {
	t.Parallel()

	host := newFakeHost("filetree", "shell")
	e := NewEngine(NewStore(fileTreeSlot(), shellSlot()), nil, "dockyard")
	require.Equal(t, PhaseInitial, e.Phase())

	e.Mount(host)

	assert.Empty(t, host.sizeCalls())
	assert.Len(t, host.calls, 2)
	assert.Equal(t, PhaseSteady, e.Phase())
	assert.Same(t, host, e.Host())
}

func TestEngine_TogglePersistsExpandedSize(t *testing.T) {
	t.Parallel()

	kv := storage.NewMemory()
	e, host := newTestEngine(t, kv)
	host.group("filetree").sizes = map[dock.Dimension]float64{dock.Width: 312.5}

	require.NoError(t, e.Toggle("filetree"))

	v, ok, err := kv.Get("dockyard:panel:filetree")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "312.5", v, "the live dragged width is persisted")

	slot, _ := e.Store().Slot("filetree")
	assert.True(t, slot.Collapsed)
	assert.Equal(t, 312.5, slot.Size)
	assert.Contains(t, host.calls, "setSize g-filetree width=48", "toggle is applied immediately")
}

func TestEngine_ToggleFromCollapsedDoesNotPersist(t *testing.T) {
	t.Parallel()

	kv := storage.NewMemory()
	host := newFakeHost("filetree", "shell")
	tree := fileTreeSlot()
	tree.Collapsed = true
	e := NewEngine(NewStore(tree, shellSlot()), kv, "dockyard")
	e.Mount(host)
	host.calls = nil

	require.NoError(t, e.Toggle("filetree"))

	keys, err := kv.Keys("")
	require.NoError(t, err)
	assert.Empty(t, keys, "collapsed size is not history")
	assert.Contains(t, host.calls, "setSize g-filetree width=280", "expanding restores the saved width")
}

func TestEngine_DoubleToggleRoundTrips(t *testing.T) {
	t.Parallel()

	e, host := newTestEngine(t, storage.NewMemory())

	require.NoError(t, e.Toggle("shell"))
	require.NoError(t, e.Toggle("shell"))

	slot, _ := e.Store().Slot("shell")
	assert.False(t, slot.Collapsed)
	sizes := host.sizeCalls()
	require.NotEmpty(t, sizes)
	assert.Equal(t, "setSize g-shell height=100", sizes[len(sizes)-1],
		"the second toggle sees the collapsed flag set by the first")
}

func TestEngine_ToggleUnknown(t *testing.T) {
	t.Parallel()

	e, _ := newTestEngine(t, nil)
	require.ErrorIs(t, e.Toggle("nope"), ErrUnknownPanel)
}

func TestEngine_TogglePersistFailureStillToggles(t *testing.T) {
	t.Parallel()

	e, _ := newTestEngine(t, failingKV{storage.NewMemory()})

	err := e.Toggle("filetree")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")

	slot, _ := e.Store().Slot("filetree")
	assert.True(t, slot.Collapsed)
}

func TestEngine_Restore(t *testing.T) {
	t.Parallel()

	kv := storage.NewMemory()
	require.NoError(t, kv.Set("dockyard:panel:filetree", "222"))
	require.NoError(t, kv.Set("dockyard:panel:shell", "garbage"))
	require.NoError(t, kv.Set("other:panel:filetree", "999"))

	e := NewEngine(NewStore(fileTreeSlot(), shellSlot()), kv, "dockyard")
	require.NoError(t, e.Restore())

	tree, _ := e.Store().Slot("filetree")
	shell, _ := e.Store().Slot("shell")
	assert.Equal(t, 222.0, tree.Size)
	assert.Equal(t, 50.0, shell.Size, "unparsable values keep the configured size")
}

func TestEngine_RestoreWithoutStorage(t *testing.T) {
	t.Parallel()

	e := NewEngine(NewStore(fileTreeSlot()), nil, "dockyard")
	assert.NoError(t, e.Restore())
}

func TestEngine_SetCollapsedAppliesSnapshot(t *testing.T) {
	t.Parallel()

	kv := storage.NewMemory()
	e, host := newTestEngine(t, kv)

	require.NoError(t, e.SetCollapsed(map[string]bool{"filetree": true, "shell": true}))

	assert.Equal(t, map[string]bool{"filetree": true, "shell": true}, e.CollapsedState())
	assert.Contains(t, host.calls, "setSize g-filetree width=48")
	assert.Contains(t, host.calls, "setSize g-shell height=32")
	keys, err := kv.Keys("dockyard:")
	require.NoError(t, err)
	assert.Len(t, keys, 2)
}

func TestEngine_SetCollapsedReportsUnknownIDs(t *testing.T) {
	t.Parallel()

	e, _ := newTestEngine(t, nil)

	err := e.SetCollapsed(map[string]bool{"ghost": true, "shell": true})
	require.ErrorIs(t, err, ErrUnknownPanel)

	shell, _ := e.Store().Slot("shell")
	assert.True(t, shell.Collapsed, "known ids are still applied")
}

func TestEngine_ResizeClampsAndApplies(t *testing.T) {
	t.Parallel()

	e, host := newTestEngine(t, nil)

	require.NoError(t, e.Resize("filetree", 120))
	tree, _ := e.Store().Slot("filetree")
	assert.Equal(t, 180.0, tree.Size)
	assert.Equal(t, []string{"setSize g-filetree width=180"}, host.sizeCalls())

	require.NoError(t, e.ResizeBy("filetree", 20))
	tree, _ = e.Store().Slot("filetree")
	assert.Equal(t, 200.0, tree.Size)
}

func TestEngine_ResizeIgnoredWhileCollapsed(t *testing.T) {
	t.Parallel()

	e, host := newTestEngine(t, nil)
	require.NoError(t, e.Toggle("shell"))
	host.calls = nil

	require.NoError(t, e.Resize("shell", 500))

	assert.Empty(t, host.calls)
	require.ErrorIs(t, e.Resize("nope", 1), ErrUnknownPanel)
	require.ErrorIs(t, e.ResizeBy("nope", 1), ErrUnknownPanel)
}

func TestEngine_FlushPersistsExpandedSlots(t *testing.T) {
	t.Parallel()

	kv := storage.NewMemory()
	e, _ := newTestEngine(t, kv)
	require.NoError(t, e.Toggle("shell"))

	require.NoError(t, e.Flush())

	v, ok, err := kv.Get("dockyard:panel:filetree")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "280", v)
}

package review

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AbdelazizMoustafa10m/dockyard/internal/approval"
	"github.com/AbdelazizMoustafa10m/dockyard/internal/dock"
)

func loaded(reqs ...approval.Request) approval.Snapshot {
	return approval.Snapshot{Loaded: true, Requests: reqs}
}

func TestTitle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		req  approval.Request
		want string
	}{
		{name: "path", req: approval.Request{ID: "1", Path: "internal/dock/layout.go", Tool: "edit"}, want: "Review: layout.go"},
		{name: "tool", req: approval.Request{ID: "1", Tool: "bash"}, want: "Review: bash"},
		{name: "neither", req: approval.Request{ID: "1"}, want: "Review"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Title(tt.req))
		})
	}
}

func TestPanelID(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "review-req1", PanelID("review", "req1"))
	assert.Equal(t, "approval-x", PanelID("approval", "x"))
}

func TestNewManagerDefaults(t *testing.T) {
	t.Parallel()

	m := NewManager("", 0)
	assert.Equal(t, DefaultKind, m.Kind())
	assert.Equal(t, float64(DefaultMinHeight), m.minHeight)
	assert.Empty(t, m.CenterGroup())
}

func TestReconcileNoHostOrNotLoaded(t *testing.T) {
	t.Parallel()

	m := NewManager("", 0)
	require.NoError(t, m.Reconcile(nil, loaded(approval.Request{ID: "req1"})))

	h := newRecHost()
	h.open("review-stale", "review", nil, "")
	require.NoError(t, m.Reconcile(h, approval.Snapshot{Loaded: false}))

	assert.Empty(t, h.calls, "an unloaded snapshot must not close panels")
	assert.NotNil(t, h.Panel("review-stale"))
}

func TestReconcileLifecycle(t *testing.T) {
	t.Parallel()

	m := NewManager("", 0)
	h := newRecHost()
	h.open("filetree", dock.ComponentFileTree, nil, "")

	req := approval.Request{ID: "req1", Path: "main.go", Summary: "first"}
	require.NoError(t, m.Reconcile(h, loaded(req)))
	require.NotNil(t, h.Panel("review-req1"))
	assert.Equal(t, "Review: main.go", h.Panel("review-req1").Title())

	h.calls = nil
	req.Summary = "second"
	require.NoError(t, m.Reconcile(h, loaded(req)))
	assert.Equal(t, []string{"update review-req1", `title review-req1 "Review: main.go"`}, h.calls)
	assert.Equal(t, "second", h.Panel("review-req1").Params().String("summary"))

	h.calls = nil
	require.NoError(t, m.Reconcile(h, loaded()))
	assert.Equal(t, []string{"close review-req1"}, h.calls)
	assert.Nil(t, h.Panel("review-req1"))
}

func TestReconcileClosesBeforeCreating(t *testing.T) {
	t.Parallel()

	m := NewManager("", 0)
	h := newRecHost()
	h.open("review-old", "review", nil, "")

	require.NoError(t, m.Reconcile(h, loaded(approval.Request{ID: "req-new", Tool: "bash"})))

	closeAt, addAt := -1, -1
	for i, c := range h.calls {
		switch c {
		case "close review-old":
			closeAt = i
		case "add review-req-new right ":
			addAt = i
		}
	}
	require.NotEqual(t, -1, closeAt, "calls: %v", h.calls)
	require.NotEqual(t, -1, addAt, "calls: %v", h.calls)
	assert.Less(t, closeAt, addAt)
}

func TestReconcileLeavesOtherComponentsAlone(t *testing.T) {
	t.Parallel()

	m := NewManager("", 0)
	h := newRecHost()
	h.open("shell", dock.ComponentShell, nil, "")
	h.open("notes", dock.ComponentEditor, dock.Params{"path": "a.go"}, "")

	require.NoError(t, m.Reconcile(h, loaded()))

	assert.Empty(t, h.calls)
}

func TestReconcilePositioning(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		setup   func(h *recHost)
		req     approval.Request
		wantAdd string
	}{
		{
			name: "beside editor for same path",
			setup: func(h *recHost) {
				h.open("filetree", dock.ComponentFileTree, nil, "")
				h.open("shell", dock.ComponentShell, nil, "")
				h.open("editor-1", dock.ComponentEditor, dock.Params{"path": "./internal/x.go"}, "center")
			},
			req:     approval.Request{ID: "r", Path: "internal/x.go"},
			wantAdd: "add review-r right center",
		},
		{
			name: "above shell when editor path differs",
			setup: func(h *recHost) {
				h.open("filetree", dock.ComponentFileTree, nil, "")
				h.open("shell", dock.ComponentShell, nil, "bottom")
				h.open("editor-1", dock.ComponentEditor, dock.Params{"path": "other.go"}, "center")
			},
			req:     approval.Request{ID: "r", Path: "internal/x.go"},
			wantAdd: "add review-r above bottom",
		},
		{
			name: "above shell for tool request",
			setup: func(h *recHost) {
				h.open("shell", dock.ComponentShell, nil, "bottom")
			},
			req:     approval.Request{ID: "r", Tool: "bash"},
			wantAdd: "add review-r above bottom",
		},
		{
			name: "right of filetree",
			setup: func(h *recHost) {
				h.open("filetree", dock.ComponentFileTree, nil, "left")
			},
			req:     approval.Request{ID: "r"},
			wantAdd: "add review-r right filetree",
		},
		{
			name:    "root when nothing is open",
			setup:   func(*recHost) {},
			req:     approval.Request{ID: "r"},
			wantAdd: "add review-r right ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			h := newRecHost()
			tt.setup(h)
			m := NewManager("", 0)

			require.NoError(t, m.Reconcile(h, loaded(tt.req)))
			require.NotEmpty(t, h.calls)
			assert.Equal(t, tt.wantAdd, h.calls[0])
		})
	}
}

func TestReconcileClosesPlaceholderAndConstrainsCenter(t *testing.T) {
	t.Parallel()

	h := newRecHost()
	h.open(dock.ComponentEmpty, dock.ComponentEmpty, nil, "center")
	m := NewManager("", 12)

	// A host that places new panels as tabs of the placeholder's group.
	within := &withinHost{recHost: h, group: "center"}
	require.NoError(t, m.Reconcile(within, loaded(approval.Request{ID: "r", Tool: "bash"})))

	assert.Nil(t, h.Panel(dock.ComponentEmpty), "placeholder closed")
	assert.Equal(t, "center", m.CenterGroup())
	assert.Contains(t, h.calls, "constraints center height=[12,+Inf]")
}

func TestReconcileClosesPlaceholderInOtherGroup(t *testing.T) {
	t.Parallel()

	l := dock.NewLayout()
	_, err := l.AddPanel(dock.AddPanelOptions{ID: dock.ComponentEmpty, Component: dock.ComponentEmpty})
	require.NoError(t, err)
	_, err = l.AddPanel(dock.AddPanelOptions{
		ID:        dock.ComponentShell,
		Component: dock.ComponentShell,
		Position:  dock.Position{Direction: dock.Below, ReferencePanel: dock.ComponentEmpty},
	})
	require.NoError(t, err)
	m := NewManager("", 0)

	require.NoError(t, m.Reconcile(l, loaded(approval.Request{ID: "r1"})))

	rev := l.Panel("review-r1")
	require.NotNil(t, rev)
	assert.Nil(t, l.Panel(dock.ComponentEmpty))
	assert.Len(t, l.Groups(), 2, "the placeholder group is dropped")
	assert.Equal(t, rev.Group().ID(), m.CenterGroup())

	// A second review leaves the first alone.
	require.NoError(t, m.Reconcile(l, loaded(approval.Request{ID: "r1"}, approval.Request{ID: "r2"})))
	assert.NotNil(t, l.Panel("review-r1"))
	assert.NotNil(t, l.Panel("review-r2"))
}

func TestReconcileRecordsNewGroupAsCenter(t *testing.T) {
	t.Parallel()

	h := newRecHost()
	h.open("filetree", dock.ComponentFileTree, nil, "")
	m := NewManager("", 0)

	require.NoError(t, m.Reconcile(h, loaded(approval.Request{ID: "a"})))

	group := h.Panel("review-a").Group()
	require.NotNil(t, group)
	assert.Equal(t, group.ID(), m.CenterGroup())
	b := group.Constraints(dock.Height)
	assert.Equal(t, float64(DefaultMinHeight), b.Minimum)
	assert.Equal(t, dock.Unbounded, b.Maximum)
}

func TestReconcileSkipsRequestsWithoutID(t *testing.T) {
	t.Parallel()

	h := newRecHost()
	m := NewManager("", 0)

	require.NoError(t, m.Reconcile(h, loaded(
		approval.Request{Path: "orphan.go"},
		approval.Request{ID: "ok"},
	)))

	assert.NotNil(t, h.Panel("review-ok"))
	assert.Len(t, h.Panels(), 1)
}

func TestReconcileDuplicateRequestIDsCreateOnce(t *testing.T) {
	t.Parallel()

	h := newRecHost()
	m := NewManager("", 0)

	require.NoError(t, m.Reconcile(h, loaded(approval.Request{ID: "x"}, approval.Request{ID: "x"})))
	assert.Len(t, h.Panels(), 1)
}

func TestReconcilePropagatesAddPanelError(t *testing.T) {
	t.Parallel()

	h := newRecHost()
	h.addErr = errHostDown
	m := NewManager("", 0)

	err := m.Reconcile(h, loaded(approval.Request{ID: "a"}, approval.Request{ID: "b"}))
	require.ErrorIs(t, err, errHostDown)
	assert.Contains(t, err.Error(), "review-a")
	assert.Equal(t, []string{"add review-a right "}, h.calls, "not retried and no later creates")
}

func TestReconcileCustomKind(t *testing.T) {
	t.Parallel()

	h := newRecHost()
	h.open("review-legacy", "review", nil, "")
	m := NewManager("approval", 0)

	require.NoError(t, m.Reconcile(h, loaded(approval.Request{ID: "a"})))

	assert.NotNil(t, h.Panel("approval-a"))
	assert.NotNil(t, h.Panel("review-legacy"), "panels of another kind are not managed")
}

func TestReconcileAgainstLayout(t *testing.T) {
	t.Parallel()

	l := dock.NewLayout()
	_, err := l.AddPanel(dock.AddPanelOptions{ID: "filetree", Component: dock.ComponentFileTree})
	require.NoError(t, err)
	_, err = l.AddPanel(dock.AddPanelOptions{
		ID: "empty", Component: dock.ComponentEmpty,
		Position: dock.Position{Direction: dock.Right, ReferencePanel: "filetree"},
	})
	require.NoError(t, err)
	_, err = l.AddPanel(dock.AddPanelOptions{
		ID: "shell", Component: dock.ComponentShell,
		Position: dock.Position{Direction: dock.Below, ReferencePanel: "empty"},
	})
	require.NoError(t, err)

	m := NewManager("", 6)
	snap := loaded(approval.Request{ID: "a", Path: "a.go"}, approval.Request{ID: "b", Tool: "bash"})
	require.NoError(t, m.Reconcile(l, snap))

	assert.NotNil(t, l.Panel("review-a"))
	assert.NotNil(t, l.Panel("review-b"))
	require.NoError(t, m.Reconcile(l, loaded(approval.Request{ID: "b", Tool: "bash"})))
	assert.Nil(t, l.Panel("review-a"))
	assert.NotNil(t, l.Panel("review-b"))
}

// withinHost routes every AddPanel into a fixed group as a tab.
type withinHost struct {
	*recHost
	group string
}

func (h *withinHost) AddPanel(opts dock.AddPanelOptions) (dock.Panel, error) {
	opts.Position = dock.Position{Direction: dock.Within, ReferenceGroup: h.group}
	return h.recHost.AddPanel(opts)
}

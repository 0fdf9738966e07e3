package tui

import (
	"github.com/AbdelazizMoustafa10m/dockyard/internal/approval"
)

// ApprovalSnapshotMsg carries a new approval feed snapshot into the update
// loop, where review panels are reconciled against it.
type ApprovalSnapshotMsg struct {
	Snapshot approval.Snapshot
}

// FeedClosedMsg is sent once the approval feed channel is closed or the
// bridge context ends. The app stops listening after it.
type FeedClosedMsg struct{}

package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/AbdelazizMoustafa10m/dockyard/internal/approval"
)

// ApprovalCmd returns a tea.Cmd that reads a single snapshot from ch and
// converts it to an ApprovalSnapshotMsg. It yields FeedClosedMsg when the
// channel is closed or ctx is done.
//
// Usage: call again inside App.Update to keep draining the channel:
//
//	case ApprovalSnapshotMsg:
//	    // reconcile...
//	    return a, ApprovalCmd(ctx, ch)
func ApprovalCmd(ctx context.Context, ch <-chan approval.Snapshot) tea.Cmd {
	return func() tea.Msg {
		select {
		case <-ctx.Done():
			return FeedClosedMsg{}
		case snap, ok := <-ch:
			if !ok {
				return FeedClosedMsg{}
			}
			return ApprovalSnapshotMsg{Snapshot: snap}
		}
	}
}

// SendApprovalSnapshot delivers snap to a running program from outside the
// update loop.
func SendApprovalSnapshot(p *tea.Program, snap approval.Snapshot) {
	p.Send(ApprovalSnapshotMsg{Snapshot: snap})
}

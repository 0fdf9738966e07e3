package tui

import (
	"fmt"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/AbdelazizMoustafa10m/dockyard/internal/approval"
)

const benchWidth = 120
const benchHeight = 40

func buildReadyApp(b *testing.B) App {
	b.Helper()
	app := NewApp(testConfig(b))
	model, _ := app.Update(tea.WindowSizeMsg{Width: benchWidth, Height: benchHeight})
	ready, ok := model.(App)
	if !ok {
		b.Fatal("Update(WindowSizeMsg) did not return an App")
	}
	return ready
}

// BenchmarkAppView measures a full frame at 120x40.
func BenchmarkAppView(b *testing.B) {
	app := buildReadyApp(b)
	b.ReportAllocs()

	for b.Loop() {
		_ = app.View()
	}
}

// BenchmarkAppViewWithReviews renders a frame with several review panels
// open and a filled activity log.
func BenchmarkAppViewWithReviews(b *testing.B) {
	app := buildReadyApp(b)
	var reqs []approval.Request
	for i := range 5 {
		reqs = append(reqs, approval.Request{ID: fmt.Sprintf("r%d", i), Path: fmt.Sprintf("pkg/file%d.go", i)})
	}
	model, _ := app.Update(reviewSnapshot(reqs...))
	app = model.(App)
	for i := range 50 {
		app.eventLog.AddEntry(EventCategory(i%4), fmt.Sprintf("benchmark entry %d", i))
	}
	b.ReportAllocs()

	for b.Loop() {
		_ = app.View()
	}
}

// BenchmarkToggle measures a collapse round trip through the engine.
func BenchmarkToggle(b *testing.B) {
	app := buildReadyApp(b)
	msg := tea.KeyMsg{Type: tea.KeyCtrlB}
	b.ReportAllocs()

	for b.Loop() {
		model, _ := app.Update(msg)
		app = model.(App)
	}
}

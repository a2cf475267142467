package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plugingenius/plugingenius-cli/pkg/generator"
	"github.com/plugingenius/plugingenius-cli/pkg/models"
	"github.com/plugingenius/plugingenius-cli/pkg/packager"
	"github.com/plugingenius/plugingenius-cli/pkg/presenter"
)

func testArtifact(t *testing.T) *models.PluginArtifact {
	t.Helper()
	a, err := generator.New().Render(models.PluginRequest{
		Title:       "Quote Rotator",
		Description: "Shows a random quote",
		Category:    models.CategoryShortcode,
	})
	require.NoError(t, err)
	return a
}

func key(s string) tea.KeyMsg {
	switch s {
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// collect runs cmd and flattens batches
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collect(c)...)
		}
		return out
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

func find[T any](msgs []tea.Msg) (T, bool) {
	for _, msg := range msgs {
		if m, ok := msg.(T); ok {
			return m, true
		}
	}
	var zero T
	return zero, false
}

func newModel(t *testing.T, actions Actions) *ResultModel {
	t.Helper()
	m := NewResultModel(context.Background(), presenter.New(testArtifact(t)), actions)
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return m
}

func TestResultModel_Tabs(t *testing.T) {
	m := newModel(t, Actions{})
	assert.Equal(t, TabOverview, m.ActiveTab())
	assert.Contains(t, m.View(), "Quote Rotator")

	tests := []struct {
		key      string
		expected Tab
		contains string
	}{
		{"tab", TabCode, "quote-rotator.php"},
		{"right", TabInstructions, "shortcode"},
		{"tab", TabOverview, "FEATURES"},
		{"left", TabInstructions, ""},
		{"shift+tab", TabCode, "<?php"},
	}
	for _, tt := range tests {
		m.Update(key(tt.key))
		assert.Equal(t, tt.expected, m.ActiveTab(), "after %s", tt.key)
		if tt.contains != "" {
			assert.Contains(t, m.tabContent(m.ActiveTab()), tt.contains)
		}
	}
}

func TestResultModel_Download(t *testing.T) {
	var calls int
	m := newModel(t, Actions{
		Download: func(ctx context.Context, a *models.PluginArtifact) *packager.Result {
			calls++
			return &packager.Result{
				Status:      packager.StatusSuccess,
				TextFile:    "quote-rotator-files.txt",
				ArchiveFile: "quote-rotator.zip",
				Log:         []string{"Starting download process...", "Download process completed"},
			}
		},
	})

	_, cmd := m.Update(key("d"))
	require.NotNil(t, cmd)
	assert.True(t, m.presenter.State().Downloading)
	assert.Contains(t, m.View(), "Downloading...")

	// a second press while in flight is ignored
	_, again := m.Update(key("d"))
	assert.Nil(t, again)

	done, ok := find[downloadDoneMsg](collect(cmd))
	require.True(t, ok)
	m.Update(done)

	state := m.presenter.State()
	assert.False(t, state.Downloading)
	assert.Equal(t, presenter.OutcomeSuccess, state.Download)
	assert.Equal(t, "Downloaded quote-rotator-files.txt and quote-rotator.zip", m.Status())
	assert.Equal(t, 1, calls)

	m.Update(key("l"))
	assert.Contains(t, m.View(), "Download process completed")
}

func TestResultModel_DownloadError(t *testing.T) {
	tests := []struct {
		name     string
		result   *packager.Result
		expected string
	}{
		{
			name:     "text error is reported",
			result:   &packager.Result{Status: packager.StatusError, TextErr: errors.New("disk full")},
			expected: "disk full",
		},
		{
			name:     "generic message when nothing is known",
			result:   &packager.Result{Status: packager.StatusError},
			expected: errDownloadFailed.Error(),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newModel(t, Actions{
				Download: func(context.Context, *models.PluginArtifact) *packager.Result { return tt.result },
			})
			_, cmd := m.Update(key("d"))
			done, ok := find[downloadDoneMsg](collect(cmd))
			require.True(t, ok)
			m.Update(done)

			state := m.presenter.State()
			assert.Equal(t, presenter.OutcomeError, state.Download)
			assert.Equal(t, tt.expected, state.DownloadMessage)
			assert.Contains(t, m.View(), "Download failed")
		})
	}
}

func TestResultModel_Save(t *testing.T) {
	saveErr := errors.New("store offline")
	m := newModel(t, Actions{
		Save: func(ctx context.Context, a *models.PluginArtifact) (models.SavedPlugin, error) {
			return models.SavedPlugin{}, saveErr
		},
	})

	_, cmd := m.Update(key("s"))
	assert.True(t, m.presenter.State().Saving)
	done, ok := find[saveDoneMsg](collect(cmd))
	require.True(t, ok)
	m.Update(done)
	assert.Equal(t, presenter.OutcomeError, m.presenter.State().Save)
	assert.Equal(t, "store offline", m.presenter.State().SaveMessage)

	saveErr = nil
	_, cmd = m.Update(key("s"))
	assert.Equal(t, presenter.OutcomeNone, m.presenter.State().Save)
	done, ok = find[saveDoneMsg](collect(cmd))
	require.True(t, ok)
	m.Update(done)
	assert.Equal(t, presenter.OutcomeSuccess, m.presenter.State().Save)
}

func TestResultModel_Copy(t *testing.T) {
	var copied string
	m := newModel(t, Actions{
		Copy: func(a *models.PluginArtifact) error {
			copied = packager.BuildText(a)
			return nil
		},
	})

	_, cmd := m.Update(key("c"))
	done, ok := find[copyDoneMsg](collect(cmd))
	require.True(t, ok)
	_, tick := m.Update(done)

	assert.NotNil(t, tick)
	assert.True(t, m.presenter.State().Copied)
	assert.True(t, strings.HasPrefix(copied, "# Quote Rotator"))

	m.Update(clearCopiedMsg{})
	assert.False(t, m.presenter.State().Copied)
	assert.Empty(t, m.Status())
}

func TestResultModel_CopyFailure(t *testing.T) {
	m := newModel(t, Actions{
		Copy: func(*models.PluginArtifact) error { return errors.New("no clipboard") },
	})

	_, cmd := m.Update(key("c"))
	done, ok := find[copyDoneMsg](collect(cmd))
	require.True(t, ok)
	_, tick := m.Update(done)

	assert.Nil(t, tick)
	assert.False(t, m.presenter.State().Copied)
	assert.Equal(t, "Copy failed: no clipboard", m.Status())
}

func TestResultModel_MissingActions(t *testing.T) {
	m := newModel(t, Actions{})

	tests := []struct {
		key      string
		expected string
	}{
		{"d", "Download is not available"},
		{"s", "Saving is not available"},
		{"c", "Clipboard is not available"},
	}
	for _, tt := range tests {
		_, cmd := m.Update(key(tt.key))
		assert.Nil(t, cmd)
		assert.Equal(t, tt.expected, m.Status())
	}
}

func TestResultModel_InvalidArtifact(t *testing.T) {
	var called bool
	m := NewResultModel(context.Background(), presenter.New(&models.PluginArtifact{Name: "Broken"}), Actions{
		Download: func(context.Context, *models.PluginArtifact) *packager.Result {
			called = true
			return &packager.Result{}
		},
	})

	view := m.View()
	assert.Contains(t, view, "The plugin data is incomplete or invalid. Please try generating the plugin again.")

	_, cmd := m.Update(key("d"))
	assert.Nil(t, cmd)
	m.Update(key("tab"))
	assert.Equal(t, TabOverview, m.ActiveTab())
	assert.False(t, called)
}

func TestResultModel_IgnoresMessagesAfterQuit(t *testing.T) {
	m := newModel(t, Actions{
		Download: func(context.Context, *models.PluginArtifact) *packager.Result {
			return &packager.Result{Status: packager.StatusSuccess}
		},
	})

	_, cmd := m.Update(key("d"))
	done, ok := find[downloadDoneMsg](collect(cmd))
	require.True(t, ok)

	_, quit := m.Update(key("q"))
	require.NotNil(t, quit)
	assert.IsType(t, tea.QuitMsg{}, quit())
	assert.True(t, m.Quitting())

	m.Update(done)
	assert.True(t, m.presenter.State().Downloading)
	assert.Empty(t, m.View())
}

func TestInstructionsText(t *testing.T) {
	fragment := "<p>To use this plugin:</p><ol><li>Upload the folder</li><li>Activate &amp; enjoy</li></ol><p>Use <code>[quote]</code> anywhere.</p>"

	got := InstructionsText(fragment, 0)
	assert.Equal(t, "To use this plugin:\n  - Upload the folder\n  - Activate & enjoy\n\nUse [quote] anywhere.", got)

	wrapped := InstructionsText("<p>"+strings.Repeat("word ", 30)+"</p>", 20)
	for _, line := range strings.Split(wrapped, "\n") {
		assert.LessOrEqual(t, len(line), 20)
	}
}

func TestRenderCode(t *testing.T) {
	a := testArtifact(t)
	code := renderCode(a)

	main := strings.Index(code, "quote-rotator.php")
	readme := strings.Index(code, "readme.txt")
	require.GreaterOrEqual(t, main, 0)
	require.GreaterOrEqual(t, readme, 0)
	assert.Less(t, main, readme)
}

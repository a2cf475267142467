// Package presenter holds the state behind the result view. It has no
// rendering of its own; the terminal UI and the server read from it.
package presenter

import (
	"github.com/plugingenius/plugingenius-cli/pkg/models"
)

// Outcome is the last resolution of an action
type Outcome int

const (
	OutcomeNone Outcome = iota
	OutcomeSuccess
	OutcomeError
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeError:
		return "error"
	default:
		return "none"
	}
}

// State is the set of independent action flags. Download and save never
// touch each other's fields.
type State struct {
	Downloading     bool
	Download        Outcome
	DownloadMessage string

	Saving      bool
	Save        Outcome
	SaveMessage string

	Copied bool
}

// Presenter pairs a validated artifact with its action state
type Presenter struct {
	artifact *models.PluginArtifact
	err      error
	state    State
}

// New validates a and returns a presenter for it. An invalid artifact still
// yields a presenter, one that refuses every action and reports Err.
func New(a *models.PluginArtifact) *Presenter {
	return &Presenter{artifact: a, err: Validate(a)}
}

// Artifact returns the presented artifact, nil when it is invalid
func (p *Presenter) Artifact() *models.PluginArtifact {
	if p.err != nil {
		return nil
	}
	return p.artifact
}

// Err reports why the artifact cannot be presented
func (p *Presenter) Err() error {
	return p.err
}

// Valid reports whether the artifact passed validation
func (p *Presenter) Valid() bool {
	return p.err == nil
}

// State returns a snapshot of the flags
func (p *Presenter) State() State {
	return p.state
}

// BeginDownload marks a download in flight. It refuses when one is
// already running or the artifact is invalid.
func (p *Presenter) BeginDownload() bool {
	if p.err != nil || p.state.Downloading {
		return false
	}
	p.state.Downloading = true
	p.state.Download = OutcomeNone
	p.state.DownloadMessage = ""
	return true
}

// FinishDownload resolves the running download
func (p *Presenter) FinishDownload(err error) {
	if !p.state.Downloading {
		return
	}
	p.state.Downloading = false
	if err != nil {
		p.state.Download = OutcomeError
		p.state.DownloadMessage = err.Error()
		return
	}
	p.state.Download = OutcomeSuccess
}

// BeginSave marks a save in flight
func (p *Presenter) BeginSave() bool {
	if p.err != nil || p.state.Saving {
		return false
	}
	p.state.Saving = true
	p.state.Save = OutcomeNone
	p.state.SaveMessage = ""
	return true
}

// FinishSave resolves the running save
func (p *Presenter) FinishSave(err error) {
	if !p.state.Saving {
		return
	}
	p.state.Saving = false
	if err != nil {
		p.state.Save = OutcomeError
		p.state.SaveMessage = err.Error()
		return
	}
	p.state.Save = OutcomeSuccess
}

// MarkCopied records a finished clipboard copy. Copy has no in-flight state.
func (p *Presenter) MarkCopied(err error) bool {
	if p.err != nil {
		return false
	}
	p.state.Copied = err == nil
	return p.state.Copied
}

// ClearCopied resets the copied indicator
func (p *Presenter) ClearCopied() {
	p.state.Copied = false
}

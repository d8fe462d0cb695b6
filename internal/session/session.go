// Package session holds the mutable review-wizard state for the active
// document: the editable record, the current step and the cached export
// artifact. The core mapping/format/export functions stay pure; all mutation
// funnels through the Manager.
package session

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/tharindu-jay/policyscan/internal/record"
)

// Wizard steps, in review order.
const (
	StepPolicyVehicle  = 1
	StepVehicleInfo    = 2
	StepCoverage       = 3
	StepPeriodProposer = 4
)

// Session is a snapshot of the review state for one document.
type Session struct {
	FileName string
	Step     int
	Record   record.FlatRecord
}

// Manager guards the single active review session. Starting a session for a
// different filename fully resets the previous state.
type Manager struct {
	mu       sync.Mutex
	active   bool
	sess     Session
	artifact []byte
	logger   *slog.Logger
}

func NewManager(logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{logger: logger}
}

// Begin replaces the session with a freshly extracted record. Any prior
// record, wizard position and export artifact are discarded.
func (m *Manager) Begin(fileName string, rec record.FlatRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.active && m.sess.FileName != fileName {
		m.logger.Info("session.reset", "previous", m.sess.FileName, "next", fileName)
	}
	m.active = true
	m.sess = Session{FileName: fileName, Step: StepPolicyVehicle, Record: rec}
	m.artifact = nil
}

// Reset discards all session state.
func (m *Manager) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.active = false
	m.sess = Session{}
	m.artifact = nil
}

// Snapshot returns a copy of the current session; ok is false when no
// document has been processed yet.
func (m *Manager) Snapshot() (Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.active {
		return Session{}, false
	}
	out := m.sess
	out.Record.Covers = append([]record.CoverEntry(nil), m.sess.Record.Covers...)
	return out, true
}

// SetStep moves the wizard position.
func (m *Manager) SetStep(step int) error {
	if step < StepPolicyVehicle || step > StepPeriodProposer {
		return fmt.Errorf("step out of range: %d", step)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.active {
		return errNoSession
	}
	m.sess.Step = step
	return nil
}

// SetField edits one flat field of the record. The proposer signature and
// date are structured and edited via SetProposer.
func (m *Manager) SetField(name, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.active {
		return errNoSession
	}
	if !m.sess.Record.SetField(name, value) {
		return fmt.Errorf("unknown field: %q", name)
	}
	m.artifact = nil
	return nil
}

// SetProposer updates the proposer date and signature. The signature is
// re-classified on every edit so the stored value is always one of "",
// "available" or a legible name.
func (m *Manager) SetProposer(date, signature string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.active {
		return errNoSession
	}
	m.sess.Record.Proposer = record.ProposerDetails{
		Date:              date,
		ProposerSignature: record.ClassifySignature(signature),
	}
	m.artifact = nil
	return nil
}

// AddCover appends a cover row.
func (m *Manager) AddCover(c record.CoverEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.active {
		return errNoSession
	}
	m.sess.Record.Covers = append(m.sess.Record.Covers, c)
	m.artifact = nil
	return nil
}

// UpdateCover replaces the cover row at index.
func (m *Manager) UpdateCover(index int, c record.CoverEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.active {
		return errNoSession
	}
	if index < 0 || index >= len(m.sess.Record.Covers) {
		return fmt.Errorf("cover index out of range: %d", index)
	}
	m.sess.Record.Covers[index] = c
	m.artifact = nil
	return nil
}

// RemoveCover deletes the cover row at index, preserving the order of the
// remaining rows.
func (m *Manager) RemoveCover(index int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.active {
		return errNoSession
	}
	if index < 0 || index >= len(m.sess.Record.Covers) {
		return fmt.Errorf("cover index out of range: %d", index)
	}
	m.sess.Record.Covers = append(
		m.sess.Record.Covers[:index],
		m.sess.Record.Covers[index+1:]...,
	)
	m.artifact = nil
	return nil
}

// Artifact returns the cached export bytes, if an export happened since the
// last edit.
func (m *Manager) Artifact() ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.artifact == nil {
		return nil, false
	}
	return m.artifact, true
}

// SetArtifact caches export bytes until the next edit or reset.
func (m *Manager) SetArtifact(data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.artifact = data
}

var errNoSession = fmt.Errorf("no active session")

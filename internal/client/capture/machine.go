// Package capture models the recording lifecycle as an explicit finite-state
// machine instead of callback-driven recorder events. Transitions are
// discrete functions; an operation called in the wrong state returns
// ErrInvalidTransition rather than corrupting the buffer.
package capture

import (
	"errors"
	"fmt"

	"sollog/internal/common"
)

var ErrInvalidTransition = errors.New("invalid capture state transition")

type State string

const (
	StateIdle      State = "idle"
	StateRecording State = "recording"
	StateCaptured  State = "captured"
	StateUploading State = "uploading"
	StateDone      State = "done"
	StateFailed    State = "failed"
)

// Machine accumulates media chunks while recording and hands the assembled
// payload off for upload. It is single-owner state, not safe for concurrent
// use; the CLI drives it from one goroutine.
type Machine struct {
	state State
	buf   []byte
	err   error
}

func NewMachine() *Machine {
	return &Machine{state: StateIdle}
}

func (m *Machine) State() State { return m.state }

// Err returns the failure recorded by FailUpload, if any.
func (m *Machine) Err() error { return m.err }

func (m *Machine) invalid(op string) error {
	return fmt.Errorf("%w: %s in state %s", ErrInvalidTransition, op, m.state)
}

// StartRecording begins a new capture. Only valid from idle.
func (m *Machine) StartRecording() error {
	if m.state != StateIdle {
		return m.invalid("StartRecording")
	}
	m.state = StateRecording
	m.buf = nil
	m.err = nil
	return nil
}

// AppendChunk adds recorded media bytes. Only valid while recording.
func (m *Machine) AppendChunk(chunk []byte) error {
	if m.state != StateRecording {
		return m.invalid("AppendChunk")
	}
	m.buf = append(m.buf, chunk...)
	return nil
}

// StopRecording ends the capture. An empty capture is a validation error and
// drops back to idle.
func (m *Machine) StopRecording() error {
	if m.state != StateRecording {
		return m.invalid("StopRecording")
	}
	if len(m.buf) == 0 {
		m.state = StateIdle
		return fmt.Errorf("%w: nothing was recorded", common.ErrValidation)
	}
	m.state = StateCaptured
	return nil
}

// Payload returns the captured media. Only valid once captured.
func (m *Machine) Payload() ([]byte, error) {
	if m.state != StateCaptured {
		return nil, m.invalid("Payload")
	}
	return m.buf, nil
}

// Discard throws away a capture before any upload begins. No server
// interaction has happened at this point.
func (m *Machine) Discard() error {
	if m.state != StateCaptured {
		return m.invalid("Discard")
	}
	common.WipeByteArray(m.buf)
	m.buf = nil
	m.state = StateIdle
	return nil
}

// BeginUpload marks the capture as in flight. Once begun, the upload runs to
// completion or failure; there is no cancellation.
func (m *Machine) BeginUpload() error {
	if m.state != StateCaptured {
		return m.invalid("BeginUpload")
	}
	m.state = StateUploading
	return nil
}

// FinishUpload records success and releases the buffer.
func (m *Machine) FinishUpload() error {
	if m.state != StateUploading {
		return m.invalid("FinishUpload")
	}
	common.WipeByteArray(m.buf)
	m.buf = nil
	m.state = StateDone
	return nil
}

// FailUpload records the failure; the capture stays available so Reset can
// be followed by another attempt from scratch.
func (m *Machine) FailUpload(err error) error {
	if m.state != StateUploading {
		return m.invalid("FailUpload")
	}
	m.err = err
	m.state = StateFailed
	return nil
}

// Reset returns to idle from a terminal state.
func (m *Machine) Reset() error {
	if m.state != StateDone && m.state != StateFailed {
		return m.invalid("Reset")
	}
	common.WipeByteArray(m.buf)
	m.buf = nil
	m.err = nil
	m.state = StateIdle
	return nil
}

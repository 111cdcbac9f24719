// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import "errors"

// Event is one call observed by a Recorder.
type Event struct {
	// Flush is true for a Flush call; otherwise Commands holds the
	// commands of a Render call.
	Flush    bool
	Commands []Command
}

// Recorder is a Renderer that draws nothing and keeps every call.
// It is the reference backend for asserting frame composition.
type Recorder struct {
	events []Event

	// RenderErr, when set, is returned from Render after recording.
	RenderErr error
}

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Render records a copy of the scene's commands.
func (r *Recorder) Render(target RenderTarget, scene *Scene) error {
	if scene == nil {
		return errors.New("render: nil scene")
	}
	cmds := make([]Command, scene.Len())
	copy(cmds, scene.Commands())
	r.events = append(r.events, Event{Commands: cmds})
	return r.RenderErr
}

// Flush records a completion barrier.
func (r *Recorder) Flush() error {
	r.events = append(r.events, Event{Flush: true})
	return nil
}

// Events returns all recorded calls in order.
func (r *Recorder) Events() []Event {
	return r.events
}

// Commands returns the commands of all Render calls, concatenated.
func (r *Recorder) Commands() []Command {
	var out []Command
	for _, e := range r.events {
		out = append(out, e.Commands...)
	}
	return out
}

// Flushes returns the number of Flush calls.
func (r *Recorder) Flushes() int {
	n := 0
	for _, e := range r.events {
		if e.Flush {
			n++
		}
	}
	return n
}

// Reset forgets all recorded calls.
func (r *Recorder) Reset() {
	r.events = r.events[:0]
}

var _ Renderer = (*Recorder)(nil)

/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package workflows

import (
	"strings"
	"testing"

	"github.com/ChenM0M/Vecho/internal/models"
)

const sampleYAML = `
workflows:
  - name: Transcribe & Summarize
    desc: Transcription followed by an AI summary.
    status: active
    nodes:
      - id: in
        type: input
        label: Media In
        outputs: [tr]
      - id: tr
        type: process
        label: Transcribe
        config:
          engine: local_sherpa_onnx
        inputs: [in]
        outputs: [sum]
      - id: sum
        type: output
        label: Summary
        inputs: [tr]
    connections:
      - from: in
        to: tr
      - from: tr
        to: sum
`

func TestParseSample(t *testing.T) {
	got, err := Parse(strings.NewReader(sampleYAML))
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Fatalf("workflow count = %d", len(got))
	}
	w := got[0]
	if w.Status != models.WorkflowActive {
		t.Errorf("status = %q", w.Status)
	}
	if len(w.Nodes) != 3 || len(w.Connections) != 2 {
		t.Errorf("shape wrong: %d nodes, %d connections", len(w.Nodes), len(w.Connections))
	}
	// Connection ids are generated when absent.
	if w.Connections[0].ID != "conn-1" {
		t.Errorf("connection id = %q", w.Connections[0].ID)
	}
	if w.Nodes[1].Config["engine"] != "local_sherpa_onnx" {
		t.Errorf("node config lost: %+v", w.Nodes[1].Config)
	}
}

func TestParseRejectsBadDefinitions(t *testing.T) {
	cases := []struct {
		name string
		yaml string
	}{
		{"empty", "workflows: []"},
		{"missing name", `
workflows:
  - desc: x
    nodes: [{id: a, type: input}]
`},
		{"duplicate node id", `
workflows:
  - name: w
    nodes:
      - {id: a, type: input}
      - {id: a, type: output}
`},
		{"unknown node type", `
workflows:
  - name: w
    nodes: [{id: a, type: magic}]
`},
		{"dangling connection", `
workflows:
  - name: w
    nodes: [{id: a, type: input}]
    connections: [{from: a, to: ghost}]
`},
		{"unknown status", `
workflows:
  - name: w
    status: retired
    nodes: [{id: a, type: input}]
`},
		{"unknown field", `
workflows:
  - name: w
    shiny: true
    nodes: [{id: a, type: input}]
`},
	}
	for _, tc := range cases {
		if _, err := Parse(strings.NewReader(tc.yaml)); err == nil {
			t.Errorf("%s: expected error", tc.name)
		}
	}
}

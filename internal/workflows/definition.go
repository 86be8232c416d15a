/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

// Package workflows loads workflow pipeline definitions from YAML
// files so they can be imported into the document store.
package workflows

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ChenM0M/Vecho/internal/models"
)

// File is the on-disk YAML document: one or more workflow definitions.
type File struct {
	Workflows []Definition `yaml:"workflows"`
}

// Definition is one workflow pipeline in YAML form. Ids inside the
// definition are file-local; the store assigns the workflow id itself.
type Definition struct {
	Name        string       `yaml:"name"`
	Desc        string       `yaml:"desc"`
	Status      string       `yaml:"status"`
	Nodes       []Node       `yaml:"nodes"`
	Connections []Connection `yaml:"connections"`
}

// Node is one pipeline step.
type Node struct {
	ID      string         `yaml:"id"`
	Type    string         `yaml:"type"`
	Label   string         `yaml:"label"`
	X       float64        `yaml:"x"`
	Y       float64        `yaml:"y"`
	Config  map[string]any `yaml:"config"`
	Inputs  []string       `yaml:"inputs"`
	Outputs []string       `yaml:"outputs"`
}

// Connection wires two nodes.
type Connection struct {
	ID   string `yaml:"id"`
	From string `yaml:"from"`
	To   string `yaml:"to"`
}

// Load reads and validates a workflow file from disk.
func Load(path string) ([]models.Workflow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f)
}

// Parse reads and validates workflow definitions from YAML.
func Parse(r io.Reader) ([]models.Workflow, error) {
	var file File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("parse workflow yaml: %w", err)
	}
	if len(file.Workflows) == 0 {
		return nil, fmt.Errorf("no workflows defined")
	}

	out := make([]models.Workflow, 0, len(file.Workflows))
	for i, def := range file.Workflows {
		w, err := def.build()
		if err != nil {
			return nil, fmt.Errorf("workflow %d (%q): %w", i, def.Name, err)
		}
		out = append(out, w)
	}
	return out, nil
}

func (d Definition) build() (models.Workflow, error) {
	if d.Name == "" {
		return models.Workflow{}, fmt.Errorf("name is required")
	}
	status := models.WorkflowDraft
	switch d.Status {
	case "", string(models.WorkflowDraft):
	case string(models.WorkflowActive):
		status = models.WorkflowActive
	case string(models.WorkflowArchiving):
		status = models.WorkflowArchiving
	default:
		return models.Workflow{}, fmt.Errorf("unknown status %q", d.Status)
	}

	nodeIDs := make(map[string]struct{}, len(d.Nodes))
	nodes := make([]models.WorkflowNode, 0, len(d.Nodes))
	for _, n := range d.Nodes {
		if n.ID == "" {
			return models.Workflow{}, fmt.Errorf("node without id")
		}
		if _, dup := nodeIDs[n.ID]; dup {
			return models.Workflow{}, fmt.Errorf("duplicate node id %q", n.ID)
		}
		nodeIDs[n.ID] = struct{}{}
		switch n.Type {
		case "input", "process", "output":
		default:
			return models.Workflow{}, fmt.Errorf("node %q: unknown type %q", n.ID, n.Type)
		}
		nodes = append(nodes, models.WorkflowNode{
			ID:      n.ID,
			Type:    n.Type,
			Label:   n.Label,
			X:       n.X,
			Y:       n.Y,
			Config:  n.Config,
			Inputs:  n.Inputs,
			Outputs: n.Outputs,
		})
	}

	conns := make([]models.WorkflowConnection, 0, len(d.Connections))
	for i, c := range d.Connections {
		if _, ok := nodeIDs[c.From]; !ok {
			return models.Workflow{}, fmt.Errorf("connection %d: unknown node %q", i, c.From)
		}
		if _, ok := nodeIDs[c.To]; !ok {
			return models.Workflow{}, fmt.Errorf("connection %d: unknown node %q", i, c.To)
		}
		id := c.ID
		if id == "" {
			id = fmt.Sprintf("conn-%d", i+1)
		}
		conns = append(conns, models.WorkflowConnection{ID: id, From: c.From, To: c.To})
	}

	return models.Workflow{
		Name:        d.Name,
		Desc:        d.Desc,
		Status:      status,
		Nodes:       nodes,
		Connections: conns,
	}, nil
}

// Package tools holds the tool registry exposed by the request boundaries.
package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/xiaot623/debate/internal/domain"
)

// ExecutorFunc runs a tool with arguments that already passed schema validation.
type ExecutorFunc func(ctx context.Context, args json.RawMessage) (json.RawMessage, error)

// CheckFunc inspects arguments before schema validation so a tool can
// report failures in its own words.
type CheckFunc func(args json.RawMessage) error

// Tool is a callable operation with a declared input contract.
type Tool struct {
	Name        string
	Description string
	InputSchema json.RawMessage
	Executor    ExecutorFunc
	Check       CheckFunc // optional

	schema *jsonschema.Schema
}

// Registry stores tools keyed by name.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]*Tool
	order []string
}

// NewRegistry creates an empty tool registry.
func NewRegistry() *Registry {
	return &Registry{
		tools: make(map[string]*Tool),
	}
}

// Register compiles the tool's input schema and adds it to the registry.
func (r *Registry) Register(tool Tool) error {
	if tool.Name == "" {
		return fmt.Errorf("tool name is required")
	}
	if tool.Executor == nil {
		return fmt.Errorf("executor is required")
	}
	schema, err := compileSchema(tool.Name, tool.InputSchema)
	if err != nil {
		return fmt.Errorf("tool %s: %w", tool.Name, err)
	}
	tool.schema = schema

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.tools[tool.Name]; exists {
		return fmt.Errorf("tool already registered: %s", tool.Name)
	}
	r.tools[tool.Name] = &tool
	r.order = append(r.order, tool.Name)
	return nil
}

// List describes the registered tools in registration order.
func (r *Registry) List() []domain.ToolDescriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.ToolDescriptor, 0, len(r.order))
	for _, name := range r.order {
		t := r.tools[name]
		out = append(out, domain.ToolDescriptor{
			Name:        t.Name,
			Description: t.Description,
			InputSchema: t.InputSchema,
		})
	}
	return out
}

// Has reports whether a tool is registered under name.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.tools[name]
	return ok
}

// Execute runs the tool's Check, validates args against its schema and runs it.
// Unknown tools fail with domain.ErrUnknownAction; schema violations with
// domain.ErrInvalidInput.
func (r *Registry) Execute(ctx context.Context, name string, args json.RawMessage) (json.RawMessage, error) {
	r.mu.RLock()
	tool := r.tools[name]
	r.mu.RUnlock()
	if tool == nil {
		return nil, domain.Errorf(domain.ErrUnknownAction, "Unknown tool: %s", name)
	}

	if len(bytes.TrimSpace(args)) == 0 || bytes.Equal(bytes.TrimSpace(args), []byte("null")) {
		args = json.RawMessage(`{}`)
	}
	if tool.Check != nil {
		if err := tool.Check(args); err != nil {
			return nil, err
		}
	}
	if err := tool.validate(args); err != nil {
		return nil, err
	}
	return tool.Executor(ctx, args)
}

func (t *Tool) validate(args json.RawMessage) error {
	if t.schema == nil {
		return nil
	}
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(args))
	if err != nil {
		return domain.Errorf(domain.ErrInvalidInput, "arguments must be a JSON object: %v", err)
	}
	if err := t.schema.Validate(inst); err != nil {
		return domain.Errorf(domain.ErrInvalidInput, "invalid arguments for %s: %s", t.Name, violation(err))
	}
	return nil
}

// violation reduces a validation error to its first cause, e.g.
// "at '/agentId': minLength: got 0, want 1". The header line naming the
// schema URL is dropped.
func violation(err error) string {
	lines := strings.Split(err.Error(), "\n")
	for _, line := range lines[1:] {
		if l := strings.TrimSpace(line); l != "" {
			return strings.TrimPrefix(l, "- ")
		}
	}
	return lines[0]
}

func compileSchema(name string, raw json.RawMessage) (*jsonschema.Schema, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("unmarshal schema: %w", err)
	}

	// An absolute URL keeps the compiler from resolving against the working
	// directory, which would leak into error messages.
	url := "urn:debate:tool:" + name
	c := jsonschema.NewCompiler()
	if err := c.AddResource(url, doc); err != nil {
		return nil, fmt.Errorf("add schema resource: %w", err)
	}
	schema, err := c.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return schema, nil
}

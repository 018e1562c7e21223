package tools

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiaot623/debate/internal/domain"
)

func echoTool(name string) Tool {
	return Tool{
		Name:        name,
		Description: "echoes its arguments",
		InputSchema: json.RawMessage(`{"type":"object","properties":{"msg":{"type":"string"}},"required":["msg"]}`),
		Executor: func(ctx context.Context, args json.RawMessage) (json.RawMessage, error) {
			return args, nil
		},
	}
}

func TestRegistryRegisterValidation(t *testing.T) {
	r := NewRegistry()

	assert.Error(t, r.Register(Tool{Executor: echoTool("x").Executor}))
	assert.Error(t, r.Register(Tool{Name: "x"}))
	assert.Error(t, r.Register(Tool{Name: "bad", Executor: echoTool("x").Executor, InputSchema: json.RawMessage(`{"type": 12}`)}))

	require.NoError(t, r.Register(echoTool("echo")))
	assert.Error(t, r.Register(echoTool("echo")), "duplicate names are rejected")
}

func TestRegistryExecute(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(echoTool("echo")))
	ctx := context.Background()

	t.Run("valid arguments", func(t *testing.T) {
		out, err := r.Execute(ctx, "echo", json.RawMessage(`{"msg":"hi"}`))
		require.NoError(t, err)
		assert.JSONEq(t, `{"msg":"hi"}`, string(out))
	})

	t.Run("schema violation", func(t *testing.T) {
		_, err := r.Execute(ctx, "echo", json.RawMessage(`{"msg":3}`))
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrInvalidInput))
		assert.Contains(t, err.Error(), "invalid arguments for echo: at '/msg'")
		assert.NotContains(t, err.Error(), "file://")
		assert.NotContains(t, err.Error(), "\n")
	})

	t.Run("check runs before schema", func(t *testing.T) {
		tool := echoTool("checked")
		tool.Check = func(json.RawMessage) error {
			return domain.Errorf(domain.ErrInvalidInput, "msg must be a string")
		}
		require.NoError(t, r.Register(tool))

		_, err := r.Execute(ctx, "checked", json.RawMessage(`{"msg":3}`))
		require.Error(t, err)
		assert.Equal(t, "msg must be a string", err.Error())
	})

	t.Run("missing arguments are an empty object", func(t *testing.T) {
		_, err := r.Execute(ctx, "echo", nil)
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrInvalidInput))
	})

	t.Run("malformed json", func(t *testing.T) {
		_, err := r.Execute(ctx, "echo", json.RawMessage(`{"msg":`))
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrInvalidInput))
	})

	t.Run("unknown tool", func(t *testing.T) {
		_, err := r.Execute(ctx, "nope", json.RawMessage(`{}`))
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrUnknownAction))
		assert.Equal(t, "Unknown tool: nope", err.Error())
	})
}

func TestRegistryListKeepsOrder(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(echoTool("b")))
	require.NoError(t, r.Register(echoTool("a")))

	list := r.List()
	require.Len(t, list, 2)
	assert.Equal(t, "b", list[0].Name)
	assert.Equal(t, "a", list[1].Name)
	assert.True(t, r.Has("a"))
	assert.False(t, r.Has("c"))
}

func TestDebateToolSchema(t *testing.T) {
	var got *domain.Snapshot
	r := NewRegistry()
	require.NoError(t, r.Register(NewDebateTool(func(ctx context.Context, input map[string]any) (*domain.Snapshot, error) {
		assert.Equal(t, json.Number("2"), input["round"])
		got = &domain.Snapshot{Agents: []string{input["agentId"].(string)}, LastAction: domain.ActionRegister}
		return got, nil
	})))

	out, err := r.Execute(context.Background(), DebateToolName, json.RawMessage(`{"agentId":"pro","round":2,"action":"register","needsMoreRounds":true}`))
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.JSONEq(t, `{"agents":["pro"],"totalArguments":0,"lastAction":"register","verdict":null,"needsMoreRounds":false}`, string(out))

	for name, args := range map[string]string{
		"missing needsMoreRounds": `{"agentId":"pro","round":1,"action":"register"}`,
		"zero round":              `{"agentId":"pro","round":0,"action":"register","needsMoreRounds":true}`,
		"fractional round":        `{"agentId":"pro","round":1.5,"action":"register","needsMoreRounds":true}`,
		"unknown action":          `{"agentId":"pro","round":1,"action":"concede","needsMoreRounds":true}`,
		"empty agentId":           `{"agentId":"","round":1,"action":"register","needsMoreRounds":true}`,
		"numeric content":         `{"agentId":"pro","round":1,"action":"argue","content":5,"needsMoreRounds":true}`,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := r.Execute(context.Background(), DebateToolName, json.RawMessage(args))
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrInvalidInput))
			assert.NotContains(t, err.Error(), "file://")
		})
	}

	t.Run("empty agentId uses field message", func(t *testing.T) {
		_, err := r.Execute(context.Background(), DebateToolName, json.RawMessage(`{"agentId":"","round":1,"action":"register","needsMoreRounds":true}`))
		require.Error(t, err)
		assert.Equal(t, "agentId must be a string", err.Error())
	})

	t.Run("null optional fields", func(t *testing.T) {
		_, err := r.Execute(context.Background(), DebateToolName, json.RawMessage(`{"agentId":"pro","round":2,"action":"register","content":null,"targetAgentId":null,"needsMoreRounds":true}`))
		assert.NoError(t, err)
	})
}

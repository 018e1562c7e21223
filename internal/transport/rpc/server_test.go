package rpc

import (
	"context"
	"encoding/json"
	"net"
	"net/rpc/jsonrpc"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiaot623/debate/internal/domain"
	"github.com/xiaot623/debate/tests/helpers"
)

func TestHandlerSubmit(t *testing.T) {
	svc := helpers.NewTestService(t)
	h := &Handler{svc: svc}

	var snap domain.Snapshot
	err := h.Submit(helpers.Payload("pro", 1, "register", ""), &snap)
	require.NoError(t, err)
	assert.Equal(t, []string{"pro"}, snap.Agents)

	err = h.Submit(helpers.Payload("con", 1, "argue", "x"), &snap)
	assert.ErrorIs(t, err, domain.ErrUnregisteredAgent)
}

func TestHandlerCallToolUnknown(t *testing.T) {
	h := &Handler{svc: helpers.NewTestService(t)}

	var res domain.ToolResult
	require.NoError(t, h.CallTool(&ToolCallArgs{Name: "nope"}, &res))
	assert.True(t, res.IsError)
	assert.Equal(t, "Unknown tool: nope", res.Content[0].Text)

	assert.Error(t, h.CallTool(nil, &res))
}

func TestServerRoundTrip(t *testing.T) {
	svc := helpers.NewTestService(t)
	srv, err := NewServer(svc, nil)
	require.NoError(t, err)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	served := make(chan error, 1)
	go func() { served <- srv.Serve(ln) }()

	client, err := jsonrpc.Dial("tcp", ln.Addr().String())
	require.NoError(t, err)

	var snap domain.Snapshot
	require.NoError(t, client.Call("Debate.Submit", helpers.Payload("pro", 1, "register", ""), &snap))
	assert.Equal(t, []string{"pro"}, snap.Agents)

	err = client.Call("Debate.Submit", helpers.Payload("pro", 1, "argue", ""), &snap)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "content required")

	var res domain.ToolResult
	require.NoError(t, client.Call("Debate.CallTool", &ToolCallArgs{
		Name:      "multiagentdebate",
		Arguments: json.RawMessage(`{"agentId":"pro","round":1,"action":"argue","content":"via rpc","needsMoreRounds":true}`),
	}, &res))
	assert.False(t, res.IsError, res.Content[0].Text)

	var history domain.HistoryResponse
	require.NoError(t, client.Call("Debate.History", &HistoryArgs{}, &history))
	require.Equal(t, 1, history.Total)
	assert.Equal(t, "via rpc", history.Records[0].Content)

	require.NoError(t, client.Close())

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, srv.Shutdown(ctx))
	assert.NoError(t, <-served)
}

func TestShutdownBeforeStart(t *testing.T) {
	srv, err := NewServer(helpers.NewTestService(t), nil)
	require.NoError(t, err)
	assert.NoError(t, srv.Shutdown(context.Background()))
}

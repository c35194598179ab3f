package protocol_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/notepad/pkg/adapters/memory"
	"github.com/aretw0/notepad/pkg/core"
	"github.com/aretw0/notepad/pkg/protocol"
)

func splitResponses(t *testing.T, out string) []protocol.Response {
	t.Helper()
	require.True(t, strings.HasSuffix(out, protocol.EndMarker), "output ends with the marker")

	var resps []protocol.Response
	for _, chunk := range strings.Split(strings.TrimSuffix(out, protocol.EndMarker), protocol.EndMarker) {
		var r protocol.Response
		require.NoError(t, sonic.Unmarshal([]byte(chunk), &r))
		resps = append(resps, r)
	}
	return resps
}

func TestServeStopsOnShutdown(t *testing.T) {
	svc := core.NewService(memory.NewStorage())
	srv := protocol.NewServer(protocol.NewDispatcher(svc, nil), nil)

	in := strings.NewReader(
		`{"tool_calls":[{"func":"initialize","params":{}}]}` +
			`{"tool_calls":[{"func":"create_note","params":{"title":"Missions","content":"Kill 10 rats","current_game":"Test"}},` +
			`{"func":"shutdown"},` +
			`{"func":"list_notes","params":{"current_game":"Test"}}]}` +
			`{"tool_calls":[{"func":"list_notes"}]}`)
	var out bytes.Buffer

	require.NoError(t, srv.Serve(context.Background(), in, &out))

	resps := splitResponses(t, out.String())
	require.Len(t, resps, 3, "nothing after shutdown is handled")
	assert.Equal(t, "Notepad plugin initialized successfully", resps[0].Message)
	assert.True(t, resps[1].Success)
	assert.Equal(t, "Notepad plugin shutdown successfully", resps[2].Message)
}

func TestServeRejectsMalformedInput(t *testing.T) {
	svc := core.NewService(memory.NewStorage())
	srv := protocol.NewServer(protocol.NewDispatcher(svc, nil), nil)

	var out bytes.Buffer
	require.NoError(t, srv.Serve(context.Background(), strings.NewReader(`hello there`), &out))

	resps := splitResponses(t, out.String())
	require.Len(t, resps, 1)
	assert.False(t, resps[0].Success)
	assert.Contains(t, resps[0].Message, "Invalid command")
}

func TestServeSkipsBadFrames(t *testing.T) {
	svc := core.NewService(memory.NewStorage())
	srv := protocol.NewServer(protocol.NewDispatcher(svc, nil), nil)

	in := strings.NewReader("hello there\n" +
		`{"tool_calls":[{"func":"create_note","params":{"title":"Missions","content":"Kill 10 rats","current_game":"Test"}}]}` + "\n" +
		`[1, 2]` + "\n" +
		`oops{"tool_calls":[{"func":"read_note","params":{"title":"Missions","current_game":"Test"}}]}` + "\n" +
		"{\n  \"tool_calls\": [\n    {\"func\": \"list_notes\", \"params\": {\"current_game\": \"{Test}\"}}\n  ]\n}\n" +
		`{"tool_calls":[{"func":"shutdown"}]}`)
	var out bytes.Buffer

	require.NoError(t, srv.Serve(context.Background(), in, &out))

	resps := splitResponses(t, out.String())
	require.Len(t, resps, 7)
	assert.False(t, resps[0].Success, "leading text is rejected")
	assert.True(t, resps[1].Success, "the session survives a bad frame")
	assert.False(t, resps[2].Success, "a non-object request is rejected")
	assert.False(t, resps[3].Success, "text before a request is rejected on its own")
	assert.True(t, resps[4].Success)
	assert.Contains(t, resps[4].Message, "#1: Kill 10 rats")
	assert.True(t, resps[5].Success, "pretty-printed requests span lines; braces in strings do not count")
	assert.Contains(t, resps[5].Message, "No notepads found for game '{Test}'")
	assert.Equal(t, "Notepad plugin shutdown successfully", resps[6].Message)
}

func TestWriteAppendsMarker(t *testing.T) {
	srv := protocol.NewServer(nil, nil)
	var out bytes.Buffer

	require.NoError(t, srv.Write(&out, protocol.Response{Success: true, Message: "hi"}))
	assert.Equal(t, `{"success":true,"message":"hi"}`+protocol.EndMarker, out.String())
}

package transport

import (
	"bufio"
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/richard-senior/goalgorithm-mcp/pkg/protocol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTransport(input string) (*StdioTransport, *bytes.Buffer) {
	var out bytes.Buffer
	return &StdioTransport{
		reader: bufio.NewReader(strings.NewReader(input)),
		writer: bufio.NewWriter(&out),
	}, &out
}

func TestReadRequestSingle(t *testing.T) {
	tr, _ := newTestTransport(`{"method":"tools/list","params":{},"jsonrpc":"2.0","id":1}`)

	req, err := tr.ReadRequest()
	require.NoError(t, err)
	assert.Equal(t, "tools/list", req.Method)
}

func TestReadRequestBackToBack(t *testing.T) {
	// Requests arrive with no delimiter at all, brace counting splits them
	input := `{"method":"initialize","jsonrpc":"2.0","id":0}{"method":"tools/list","jsonrpc":"2.0","id":1}`
	tr, _ := newTestTransport(input)

	first, err := tr.ReadRequest()
	require.NoError(t, err)
	assert.Equal(t, "initialize", first.Method)

	second, err := tr.ReadRequest()
	require.NoError(t, err)
	assert.Equal(t, "tools/list", second.Method)

	_, err = tr.ReadRequest()
	assert.Equal(t, io.EOF, err)
}

func TestReadRequestBracesInsideStrings(t *testing.T) {
	// Braces and escaped quotes inside string values must not confuse the reader
	input := `{"method":"tools/call","params":{"name":"predict_match","arguments":{"home_team":"We {The} \"North\""}},"jsonrpc":"2.0","id":2}`
	tr, _ := newTestTransport(input)

	req, err := tr.ReadRequest()
	require.NoError(t, err)
	assert.Equal(t, "tools/call", req.Method)
}

func TestReadRequestLeadingWhitespace(t *testing.T) {
	tr, _ := newTestTransport("\n  {\"method\":\"initialize\",\"jsonrpc\":\"2.0\",\"id\":0}\n")

	req, err := tr.ReadRequest()
	require.NoError(t, err)
	assert.Equal(t, "initialize", req.Method)
}

func TestWriteResponseNewlineDelimited(t *testing.T) {
	tr, out := newTestTransport("")

	resp, err := protocol.NewJsonRpcResponse(map[string]any{"ok": true}, 1)
	require.NoError(t, err)
	require.NoError(t, tr.WriteResponse(resp))

	written := out.String()
	assert.True(t, strings.HasSuffix(written, "\n"), "responses are newline terminated")
	assert.Contains(t, written, `"jsonrpc":"2.0"`)
}

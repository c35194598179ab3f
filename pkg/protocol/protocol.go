// Package protocol implements the command contract spoken by the notepad plugin:
// {"func", "params"} commands in, {"success", "message", "data"} envelopes out.
package protocol

// Command names accepted by the dispatcher.
const (
	FuncInitialize = "initialize"
	FuncCreateNote = "create_note"
	FuncReadNote   = "read_note"
	FuncListNotes  = "list_notes"
	FuncDeleteNote = "delete_note"
	FuncSearch     = "search_notes"
	FuncExport     = "export_notes"
	FuncClear      = "clear_notes"
	FuncUndoClear  = "undo_clear"
	FuncShutdown   = "shutdown"
)

// EndMarker terminates every response written to the transport.
const EndMarker = "<<END>>"

// Command is one function call. Params values are expected to be strings;
// other JSON scalars are stringified on decode.
type Command struct {
	Func   string         `json:"func"`
	Params map[string]any `json:"params,omitempty"`
}

// Request is the inbound message: a batch of commands handled in order.
type Request struct {
	ToolCalls []Command `json:"tool_calls"`
}

// Response is the uniform result envelope.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func ok(message string, data any) Response {
	return Response{Success: true, Message: message, Data: data}
}

func fail(message string) Response {
	return Response{Success: false, Message: message}
}

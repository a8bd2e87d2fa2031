// Package netsvc exposes a subset of the Version Engine over a
// line-oriented TCP protocol, structurally grounded on the teacher's
// cmd/server SQL service: one net.Listener accept loop, one goroutine
// per connection, one JSON envelope per line. This is an outer-surface
// convenience — the engine has no dependency on it.
package netsvc

import (
	gojson "github.com/goccy/go-json"
)

// Request is one command sent by a client, one per line.
type Request struct {
	Command string `json:"command"` // write | read | delete | commit | checkout | merge | log | status
	Path    string `json:"path,omitempty"`
	Content string `json:"content,omitempty"` // raw text payload for "write"
	Message string `json:"message,omitempty"` // commit message
	Target  string `json:"target,omitempty"`  // checkout/merge argument
}

// Response is the server's reply to one Request.
type Response struct {
	RequestID string          `json:"request_id"`
	Success   bool            `json:"success"`
	Error     string          `json:"error,omitempty"`
	Type      string          `json:"type,omitempty"`
	Result    gojson.RawMessage `json:"result,omitempty"`
}

// EncodeResponse serializes resp to JSON with a trailing newline.
func EncodeResponse(resp Response) ([]byte, error) {
	data, err := gojson.Marshal(resp)
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// DecodeRequest parses one line of client input as a Request.
func DecodeRequest(line []byte) (Request, error) {
	var req Request
	err := gojson.Unmarshal(line, &req)
	return req, err
}

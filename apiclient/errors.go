package apiclient

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
)

// RequestError is a non-2xx response other than an exhausted 401. Message is
// the raw response body text, or the status text when the body is empty.
type RequestError struct {
	StatusCode int
	Message    string
}

func (e *RequestError) Error() string {
	return e.Message
}

// Detail returns the "detail" field of a JSON error body when there is one,
// otherwise Message.
func (e *RequestError) Detail() string {
	var body struct {
		Detail any `json:"detail"`
	}
	if err := json.Unmarshal([]byte(e.Message), &body); err != nil {
		return e.Message
	}
	switch d := body.Detail.(type) {
	case string:
		if d != "" {
			return d
		}
	case []any:
		msgs := make([]string, 0, len(d))
		for _, item := range d {
			if m, ok := item.(map[string]any); ok {
				if msg, ok := m["msg"].(string); ok {
					msgs = append(msgs, msg)
				}
			}
		}
		if len(msgs) > 0 {
			return strings.Join(msgs, "; ")
		}
	}
	return e.Message
}

func newRequestError(resp *Response) *RequestError {
	msg := strings.TrimSpace(string(resp.Body))
	if msg == "" {
		msg = statusText(resp)
	}
	return &RequestError{StatusCode: resp.StatusCode, Message: msg}
}

func statusText(resp *Response) string {
	text := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if text != "" {
		return text
	}
	if text = http.StatusText(resp.StatusCode); text != "" {
		return text
	}
	return "request failed with status " + strconv.Itoa(resp.StatusCode)
}

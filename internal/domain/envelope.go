package domain

import (
	"encoding/json"
	"fmt"
)

// Envelope is the {code, data, msg} shape every resource endpoint responds with.
type Envelope struct {
	Code int             `json:"code"`
	Data json.RawMessage `json:"data,omitempty"`
	Msg  string          `json:"msg,omitempty"`
}

func (e Envelope) DecodeData(target any) error {
	if len(e.Data) == 0 || string(e.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(e.Data, target); err != nil {
		return fmt.Errorf("decode envelope data: %w", err)
	}
	return nil
}

type SuccessCodes []int

var (
	DefaultLoginSuccessCodes    = SuccessCodes{200, 20000}
	DefaultMutationSuccessCodes = SuccessCodes{200}
)

func (c SuccessCodes) Accepts(code int) bool {
	for _, accepted := range c {
		if accepted == code {
			return true
		}
	}
	return false
}

// EnvelopeError is an application-level failure: an envelope arrived but its code is not a success code.
type EnvelopeError struct {
	Code int
	Msg  string
}

func (e *EnvelopeError) Error() string {
	if e.Msg == "" {
		return fmt.Sprintf("request rejected with code %d", e.Code)
	}
	return fmt.Sprintf("request rejected with code %d: %s", e.Code, e.Msg)
}

// TransportError covers network failures (StatusCode 0) and non-2xx HTTP responses.
// Msg carries the msg field of a JSON envelope body when the server sent one.
type TransportError struct {
	StatusCode int
	Msg        string
	Err        error
}

func (e *TransportError) Error() string {
	switch {
	case e.StatusCode == 0 && e.Err != nil:
		return fmt.Sprintf("transport failure: %v", e.Err)
	case e.Msg != "":
		return fmt.Sprintf("http status %d: %s", e.StatusCode, e.Msg)
	default:
		return fmt.Sprintf("http status %d", e.StatusCode)
	}
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

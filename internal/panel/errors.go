package panel

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// PanelError is the single error kind returned by Client. Status is the HTTP
// status code, or 0 when the request never produced a response.
type PanelError struct {
	Op     string
	Status int
	Body   string
	Err    error
}

func (e *PanelError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("panel API %s failed: %s", e.Op, e.Body)
	}
	return fmt.Sprintf("panel API error %d on %s: %s", e.Status, e.Op, e.Body)
}

func (e *PanelError) Unwrap() error { return e.Err }

// Created reports whether the panel accepted the request but its result could
// not be read. For a create call the remote object may exist anyway.
func (e *PanelError) Created() bool {
	return e.Status == http.StatusOK || e.Status == http.StatusCreated
}

// Details returns the "detail" strings of a Pterodactyl error document
// ({"errors": [{"code": ..., "detail": ...}]}), or nil when Body is not one.
func (e *PanelError) Details() []string {
	var doc struct {
		Errors []struct {
			Code   string `json:"code"`
			Detail string `json:"detail"`
		} `json:"errors"`
	}
	if err := json.Unmarshal([]byte(e.Body), &doc); err != nil {
		return nil
	}
	var out []string
	for _, item := range doc.Errors {
		switch {
		case item.Detail != "":
			out = append(out, item.Detail)
		case item.Code != "":
			out = append(out, item.Code)
		}
	}
	return out
}

// normalizeBody compacts JSON bodies and trims anything else.
func normalizeBody(raw []byte) string {
	if json.Valid(raw) {
		var buf bytes.Buffer
		if err := json.Compact(&buf, raw); err == nil {
			return buf.String()
		}
	}
	return strings.TrimSpace(string(raw))
}

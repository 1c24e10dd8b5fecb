package client

import (
	"encoding/json"
	"strings"
)

// Envelope is the backend's success envelope. Data is left raw because its
// shape belongs to the endpoint, not the transport.
type Envelope struct {
	Code         int             `json:"code"`
	Data         json.RawMessage `json:"data,omitempty"`
	TotalRecords *int            `json:"totalRecords,omitempty"`
	Message      string          `json:"message,omitempty"`
}

// DataInto decodes the envelope's data payload into v.
func (e *Envelope) DataInto(v any) error {
	if len(e.Data) == 0 {
		return nil
	}
	return json.Unmarshal(e.Data, v)
}

// errorEnvelope covers the backend's error shapes. Most endpoints put the
// message at the top level; 403 responses nest it under error.data, and
// either spot may hold a single string or an array of strings.
type errorEnvelope struct {
	Message messageText `json:"message"`
	Error   *struct {
		Data struct {
			Message messageText `json:"message"`
		} `json:"data"`
	} `json:"error"`
}

// messageText unmarshals a string-or-array message field, joining arrays
// into one display string.
type messageText string

func (m *messageText) UnmarshalJSON(b []byte) error {
	var single string
	if err := json.Unmarshal(b, &single); err == nil {
		*m = messageText(single)
		return nil
	}
	var list []string
	if err := json.Unmarshal(b, &list); err == nil {
		*m = messageText(strings.Join(list, ", "))
		return nil
	}
	*m = ""
	return nil
}

// backendMessage extracts the most specific message from an error body.
// Unparsable bodies yield an empty string and the status-based default.
func backendMessage(raw []byte) string {
	var env errorEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return ""
	}
	if env.Error != nil && env.Error.Data.Message != "" {
		return string(env.Error.Data.Message)
	}
	return string(env.Message)
}

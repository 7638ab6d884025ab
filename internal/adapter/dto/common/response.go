package common

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// SuccessResponse is the envelope of every successful response
type SuccessResponse struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// ErrorResponse is the envelope of every failed response
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Info    string `json:"info,omitempty"`
}

// TeamID accepts a team id sent either as a JSON number or a numeric string
type TeamID int

// UnmarshalJSON implements json.Unmarshaler
func (t *TeamID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}

	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	switch v := raw.(type) {
	case float64:
		*t = TeamID(int(v))
	case string:
		if strings.TrimSpace(v) == "" {
			return nil
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("teamId must be a number, got %q", v)
		}
		*t = TeamID(n)
	default:
		return fmt.Errorf("teamId must be a number")
	}
	return nil
}

// Int returns the id as an int
func (t TeamID) Int() int {
	return int(t)
}

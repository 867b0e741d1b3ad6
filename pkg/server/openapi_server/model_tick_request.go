// SPDX-License-Identifier: MIT

package openapi_server

import "errors"

var errNegativeTicks = errors.New("ticks must not be negative")

type TickRequest struct {
	Ticks int32 `json:"ticks"`
}

// AssertTickRequestRequired checks if the required fields are not zero-ed
func AssertTickRequestRequired(obj TickRequest) error {
	elements := map[string]interface{}{
		"ticks": obj.Ticks,
	}
	for name, el := range elements {
		if isZero := IsZeroValue(el); isZero {
			return &RequiredError{Field: name}
		}
	}
	if obj.Ticks < 0 {
		return &ParsingError{Err: errNegativeTicks}
	}
	return nil
}

package models

import (
	"waypoint.uwtransit.org/internal/clock"
)

// ResponseModel is the envelope every API response travels in.
type ResponseModel struct {
	Code        int         `json:"code"`
	CurrentTime int64       `json:"currentTime"`
	Data        interface{} `json:"data,omitempty"`
	Text        string      `json:"text"`
	Version     int         `json:"version"`
}

// NewResponseWithClock creates a standard response using the provided clock.
func NewResponseWithClock(code int, data interface{}, text string, c clock.Clock) ResponseModel {
	return ResponseModel{
		Code:        code,
		CurrentTime: ResponseCurrentTime(c),
		Data:        data,
		Text:        text,
		Version:     2,
	}
}

// NewOKResponseWithClock creates a successful response using the provided clock.
func NewOKResponseWithClock(data interface{}, c clock.Clock) ResponseModel {
	return NewResponseWithClock(200, data, "OK", c)
}

// NewCreatedResponseWithClock creates a 201 response using the provided clock.
func NewCreatedResponseWithClock(data interface{}, c clock.Clock) ResponseModel {
	return NewResponseWithClock(201, data, "Created", c)
}

// NewListResponseWithClock wraps a list payload in the envelope.
func NewListResponseWithClock(list interface{}, c clock.Clock) ResponseModel {
	data := map[string]interface{}{
		"limitExceeded": false,
		"list":          list,
	}
	return NewOKResponseWithClock(data, c)
}

// NewEntryResponseWithClock wraps a single entry payload in the envelope.
func NewEntryResponseWithClock(entry interface{}, c clock.Clock) ResponseModel {
	data := map[string]interface{}{
		"entry": entry,
	}
	return NewOKResponseWithClock(data, c)
}

// ResponseCurrentTime returns the clock's current time as Unix milliseconds.
func ResponseCurrentTime(c clock.Clock) int64 {
	return c.NowUnixMilli()
}

package llm

import (
	"encoding/json"
	"errors"
	"strings"
)

var (
	errNoJSON      = errors.New("no json object found")
	errInvalidJSON = errors.New("invalid json object")
)

// ExtractJSON returns the JSON document inside a model answer. It accepts clean JSON,
// fenced code blocks and answers with prose before or after the payload.
func ExtractJSON(raw string) (json.RawMessage, error) {
	payload := strings.TrimSpace(raw)
	if payload == "" {
		return nil, ErrEmptyResponse
	}
	if json.Valid([]byte(payload)) {
		return json.RawMessage(payload), nil
	}

	if fenced, ok := stripFence(payload); ok && json.Valid([]byte(fenced)) {
		return json.RawMessage(fenced), nil
	}

	err := errNoJSON
	for _, pair := range spanOrder(payload) {
		candidate, ok := span(payload, pair[0], pair[1])
		if !ok {
			continue
		}
		if json.Valid([]byte(candidate)) {
			return json.RawMessage(candidate), nil
		}
		err = errInvalidJSON
	}
	return nil, err
}

// spanOrder lists the object and array delimiters by where they first open, so a
// bracketed label before an object does not hide the object.
func spanOrder(s string) [][2]byte {
	obj, arr := strings.IndexByte(s, '{'), strings.IndexByte(s, '[')
	if arr != -1 && (obj == -1 || arr < obj) {
		return [][2]byte{{'[', ']'}, {'{', '}'}}
	}
	return [][2]byte{{'{', '}'}, {'[', ']'}}
}

func span(s string, opener, closer byte) (string, bool) {
	start := strings.IndexByte(s, opener)
	end := strings.LastIndexByte(s, closer)
	if start == -1 || end <= start {
		return "", false
	}
	return s[start : end+1], true
}

func stripFence(s string) (string, bool) {
	start := strings.Index(s, "```")
	if start == -1 {
		return "", false
	}
	rest := s[start+3:]
	if nl := strings.IndexByte(rest, '\n'); nl != -1 {
		rest = rest[nl+1:]
	}
	end := strings.LastIndex(rest, "```")
	if end == -1 {
		return "", false
	}
	return strings.TrimSpace(rest[:end]), true
}

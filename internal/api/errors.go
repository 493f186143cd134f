package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"sort"
	"strings"
)

const NonFieldErrors = "non_field_errors"

// Error is a non-2xx answer from the intake API. Field errors follow the
// {"field": ["message", ...]} convention; a bare list or string lands under
// non_field_errors.
type Error struct {
	StatusCode int
	Status     string
	Code       string
	Detail     string
	Fields     map[string][]string
}

func (e *Error) Error() string {
	msg := e.Detail
	if msg == "" && len(e.Fields) > 0 {
		msg = e.summary()
	}
	if msg == "" {
		return fmt.Sprintf("intake api http error: %s", e.Status)
	}
	return fmt.Sprintf("intake api http error: %s: %s", e.Status, msg)
}

func (e *Error) NonFieldErrors() []string {
	return e.Fields[NonFieldErrors]
}

func (e *Error) summary() string {
	parts := []string{}
	for _, k := range sortedKeys(e.Fields) {
		parts = append(parts, k+": "+strings.Join(e.Fields[k], " "))
	}
	return strings.Join(parts, "; ")
}

func decodeError(statusCode int, status string, body []byte) *Error {
	e := &Error{StatusCode: statusCode, Status: status, Fields: map[string][]string{}}
	if len(body) == 0 {
		return e
	}
	var raw any
	if err := json.Unmarshal(body, &raw); err != nil {
		e.Detail = strings.TrimSpace(string(body))
		return e
	}
	switch v := raw.(type) {
	case map[string]any:
		if env, ok := v["error"].(map[string]any); ok {
			e.Code, _ = env["code"].(string)
			e.Detail, _ = env["message"].(string)
			if details, ok := env["details"].(map[string]any); ok {
				flatten("", details, e.Fields)
			}
			return e
		}
		if d, ok := v["detail"].(string); ok {
			e.Detail = d
			delete(v, "detail")
		}
		flatten("", v, e.Fields)
	default:
		flatten("", map[string]any{NonFieldErrors: v}, e.Fields)
	}
	return e
}

func flatten(prefix string, in map[string]any, out map[string][]string) {
	for k, v := range in {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		switch t := v.(type) {
		case string:
			out[key] = append(out[key], t)
		case []any:
			for _, item := range t {
				switch it := item.(type) {
				case string:
					out[key] = append(out[key], it)
				case map[string]any:
					flatten(key, it, out)
				default:
					out[key] = append(out[key], fmt.Sprint(it))
				}
			}
		case map[string]any:
			flatten(key, t, out)
		case nil:
		default:
			out[key] = append(out[key], fmt.Sprint(t))
		}
	}
}

// FormatError renders an API failure as the HTML body of an error dialog.
func FormatError(err error) string {
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		return html.EscapeString(err.Error())
	}
	if len(apiErr.Fields) == 0 {
		if apiErr.Detail != "" {
			return html.EscapeString(apiErr.Detail)
		}
		return html.EscapeString(apiErr.Status)
	}
	var b strings.Builder
	b.WriteString("<ul>")
	for _, k := range sortedKeys(apiErr.Fields) {
		b.WriteString("<li>")
		if k != NonFieldErrors {
			b.WriteString("<strong>")
			b.WriteString(html.EscapeString(k))
			b.WriteString("</strong>: ")
		}
		b.WriteString(html.EscapeString(strings.Join(apiErr.Fields[k], " ")))
		b.WriteString("</li>")
	}
	b.WriteString("</ul>")
	return b.String()
}

func sortedKeys(m map[string][]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

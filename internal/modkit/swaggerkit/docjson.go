package swaggerkit

import (
	"encoding/json"
	"net/http"
	"strings"

	perr "liferec/internal/platform/errors"
	phttp "liferec/internal/platform/net/http"
)

func serveDocJSON(instance, server string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw, err := readDoc(instance)
		if err != nil {
			phttp.RespondError(w, r, perr.NotFoundf("docs: no document registered as %q", instance))
			return
		}
		var spec map[string]any
		if err := json.Unmarshal([]byte(raw), &spec); err != nil {
			phttp.RespondError(w, r, perr.Wrap(err, perr.ErrorCodeUnknown, "docs: document is not valid JSON"))
			return
		}

		ensureServers(spec, server)
		ensureErrorSchema(spec)
		addErrorResponses(spec)

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		_ = json.NewEncoder(w).Encode(spec)
	}
}

// ensureServers pins OAS 3.0.3, which the bundled UI renders, and adds a
// servers entry when the document has none
func ensureServers(spec map[string]any, url string) {
	if _, ok := spec["swagger"]; ok {
		delete(spec, "swagger")
	}
	if v, _ := spec["openapi"].(string); !strings.HasPrefix(v, "3.0") {
		spec["openapi"] = "3.0.3"
	}
	if _, ok := spec["servers"]; !ok && url != "" {
		spec["servers"] = []any{map[string]any{"url": url}}
	}
}

func object(parent map[string]any, key string) map[string]any {
	m, ok := parent[key].(map[string]any)
	if !ok {
		m = map[string]any{}
		parent[key] = m
	}
	return m
}

// ensureErrorSchema adds the envelope as written for errors
func ensureErrorSchema(spec map[string]any) {
	schemas := object(object(spec, "components"), "schemas")
	if _, ok := schemas["ErrorResponse"]; ok {
		return
	}
	schemas["ErrorResponse"] = map[string]any{
		"type":        "object",
		"description": "Error envelope",
		"properties": map[string]any{
			"status_code": map[string]any{"type": "integer"},
			"status":      map[string]any{"type": "string"},
			"code":        map[string]any{"type": "integer"},
			"error":       map[string]any{"type": "string"},
			"field":       map[string]any{"type": "string"},
			"request_id":  map[string]any{"type": "string"},
		},
		"required": []any{"status_code", "status", "code", "error"},
	}
}

func errorResponse(desc string, status int, code perr.ErrorCode, msg, field string) map[string]any {
	example := map[string]any{
		"status_code": status,
		"status":      http.StatusText(status),
		"code":        code,
		"error":       msg,
		"request_id":  "a1b2c3/liferec-000001",
	}
	if field != "" {
		example["field"] = field
	}
	return map[string]any{
		"description": desc,
		"content": map[string]any{
			"application/json": map[string]any{
				"schema":  map[string]any{"$ref": "#/components/schemas/ErrorResponse"},
				"example": example,
			},
		},
	}
}

// addErrorResponses gives every operation the 500 every route can return
// and every POST the 400 the binder returns
func addErrorResponses(spec map[string]any) {
	paths, ok := spec["paths"].(map[string]any)
	if !ok {
		return
	}
	internal := errorResponse("Internal Server Error", http.StatusInternalServerError, perr.ErrorCodePanic, "internal error", "")
	bad := errorResponse("Bad Request", http.StatusBadRequest, perr.ErrorCodeValidation, "text must be at most 20000 characters", "text")
	for _, item := range paths {
		ops, ok := item.(map[string]any)
		if !ok {
			continue
		}
		for method, op := range ops {
			op, ok := op.(map[string]any)
			if !ok {
				continue
			}
			resps := object(op, "responses")
			if _, ok := resps["500"]; !ok {
				resps["500"] = internal
			}
			if _, ok := resps["400"]; !ok && method == "post" {
				resps["400"] = bad
			}
		}
	}
}

// Package docs registers the OpenAPI document of the API with swag
package docs

import (
	"liferec/internal/core/version"

	"github.com/swaggo/swag/v2"
)

// Instance is the swag registry name of the document
const Instance = "liferec"

// SwaggerInfo holds the fields substituted into the template
var SwaggerInfo = &swag.Spec{
	Version:          version.Info("").Version,
	Title:            "liferec API",
	Description:      "School-record policy annotation: analyze, rewrite, byte report and rule listing",
	InfoInstanceName: Instance,
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(Instance, SwaggerInfo)
}

const docTemplate = `{
  "openapi": "3.0.3",
  "info": {"title": "{{.Title}}", "version": "{{.Version}}", "description": "{{.Description}}"},
  "paths": {
    "/v1/analyze": {
      "post": {
        "tags": ["check"],
        "summary": "Annotate a text with policy hits",
        "requestBody": {"required": true, "content": {"application/json": {"schema": {"$ref": "#/components/schemas/AnalyzeInput"}}}},
        "responses": {
          "200": {"description": "Hits; degraded results carry a warning", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/AnalyzeEnvelope"}}}},
          "504": {"description": "Analysis deadline exceeded", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/ErrorResponse"}}}}
        }
      }
    },
    "/analyze": {
      "post": {
        "tags": ["check"],
        "summary": "Unversioned analyze kept for existing web clients",
        "requestBody": {"required": true, "content": {"application/json": {"schema": {"$ref": "#/components/schemas/AnalyzeInput"}}}},
        "responses": {"200": {"description": "Same as /v1/analyze", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/AnalyzeEnvelope"}}}}}
      }
    },
    "/v1/rewrite": {
      "post": {
        "tags": ["check"],
        "summary": "Apply eligible replacements and deletions",
        "requestBody": {"required": true, "content": {"application/json": {"schema": {"$ref": "#/components/schemas/AnalyzeInput"}}}},
        "responses": {"200": {"description": "Rewritten text, changes and preview segments", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/Envelope"}}}}}
      }
    },
    "/v1/bytes": {
      "post": {
        "tags": ["check"],
        "summary": "Byte, character and suspicious character report",
        "requestBody": {"required": true, "content": {"application/json": {"schema": {"$ref": "#/components/schemas/BytesInput"}}}},
        "responses": {"200": {"description": "Byte report", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/Envelope"}}}}}
      }
    },
    "/v1/rules": {
      "get": {
        "tags": ["check"],
        "summary": "List the active rule table",
        "responses": {"200": {"description": "Rules", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/Envelope"}}}}}
      }
    },
    "/v1/meta/health": {"get": {"tags": ["meta"], "summary": "Liveness", "responses": {"200": {"description": "Alive"}}}},
    "/v1/meta/ready": {
      "get": {
        "tags": ["meta"],
        "summary": "Readiness of the rule table and embedder",
        "responses": {"200": {"description": "ok or degraded"}, "503": {"description": "No rule table loaded"}}
      }
    },
    "/v1/meta/version": {"get": {"tags": ["meta"], "summary": "Build and policy version", "responses": {"200": {"description": "Build info"}}}},
    "/v1/meta/service": {"get": {"tags": ["meta"], "summary": "Service name and uptime", "responses": {"200": {"description": "Service info"}}}},
    "/v1/meta/policy": {"get": {"tags": ["meta"], "summary": "Compiled rule table summary", "responses": {"200": {"description": "Policy info"}}}}
  },
  "components": {
    "schemas": {
      "AnalyzeInput": {
        "type": "object",
        "properties": {
          "text": {"type": "string", "maxLength": 20000, "example": "NAVER 블로그에 유튜브 영상을 올림"},
          "policy_version": {"type": "string", "pattern": "^[0-9]{4}-[0-9]{2}$", "example": "2024-03"},
          "min_preview_conf": {"type": "number", "minimum": 0, "maximum": 1, "example": 0.9}
        }
      },
      "BytesInput": {
        "type": "object",
        "properties": {
          "text": {"type": "string", "maxLength": 100000},
          "normalize": {
            "type": "object",
            "properties": {
              "newline": {"type": "string", "enum": ["keep", "lf", "crlf"]},
              "replace_nbsp": {"type": "boolean"},
              "remove_zero_width": {"type": "boolean"},
              "strip_controls": {"type": "boolean"},
              "compose": {"type": "boolean"},
              "collapse_spaces": {"type": "boolean"}
            }
          }
        }
      },
      "Source": {
        "type": "object",
        "properties": {"doc": {"type": "string"}, "page": {"type": "integer"}, "quote": {"type": "string"}}
      },
      "Hit": {
        "type": "object",
        "properties": {
          "span": {"type": "string"},
          "label": {"type": "string"},
          "replacement": {"type": "string", "nullable": true},
          "confidence": {"type": "number"},
          "source": {"$ref": "#/components/schemas/Source"},
          "start": {"type": "integer", "description": "codepoint offset"},
          "end": {"type": "integer", "description": "codepoint offset, exclusive"},
          "byte_start": {"type": "integer"},
          "byte_end": {"type": "integer"},
          "action": {"type": "string", "enum": ["flag", "replace", "delete"]},
          "delete_with_particle": {"type": "boolean"},
          "pass": {"type": "string", "enum": ["literal", "alias", "semantic", "unknown_abbrev", "collapsed"]},
          "rule_id": {"type": "string"},
          "auto_apply": {"type": "boolean"}
        }
      },
      "AnalyzeOutput": {
        "type": "object",
        "properties": {
          "id": {"type": "string"},
          "hits": {"type": "array", "items": {"$ref": "#/components/schemas/Hit"}},
          "latency_ms": {"type": "number"},
          "policy_version": {"type": "string"},
          "summary": {
            "type": "object",
            "properties": {"total": {"type": "integer"}, "auto_applied": {"type": "integer"}, "needs_review": {"type": "integer"}, "flag_only": {"type": "integer"}}
          },
          "pass_counts": {"type": "object", "additionalProperties": {"type": "integer"}},
          "degraded": {"type": "boolean"}
        }
      },
      "Envelope": {
        "type": "object",
        "properties": {
          "status_code": {"type": "integer"},
          "status": {"type": "string"},
          "request_id": {"type": "string"},
          "warnings": {"type": "array", "items": {"type": "string"}},
          "data": {"type": "object"}
        }
      },
      "AnalyzeEnvelope": {
        "allOf": [
          {"$ref": "#/components/schemas/Envelope"},
          {"type": "object", "properties": {"data": {"$ref": "#/components/schemas/AnalyzeOutput"}}}
        ]
      }
    }
  }
}`

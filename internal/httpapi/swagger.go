//go:build swagger

package httpapi

import (
	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger"
	"github.com/swaggo/swag"
)

// SwaggerInfo describes the control API served at /swagger/doc.json.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	BasePath:         "/",
	Schemes:          []string{"http"},
	Title:            "opinio API",
	Description:      "HTTP control API of the opinio client engine.",
	InfoInstanceName: swag.Name,
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}

// MountSwagger serves the Swagger UI under /swagger/.
func MountSwagger(r chi.Router) {
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))
}

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "{{.Title}}",
        "description": "{{escape .Description}}",
        "version": "{{.Version}}"
    },
    "basePath": "{{.BasePath}}",
    "schemes": {{ marshal .Schemes }},
    "paths": {
        "/status": {"get": {"summary": "Engine status", "produces": ["application/json"],
            "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/types.StatusResponse"}}}}},
        "/views": {"get": {"summary": "List view names", "produces": ["application/json"],
            "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/types.ViewsResponse"}}}}},
        "/views/{name}": {"get": {"summary": "Read one view", "produces": ["application/json"],
            "parameters": [{"name": "name", "in": "path", "required": true, "type": "string"}],
            "responses": {
                "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.ViewResponse"}},
                "404": {"description": "unknown view", "schema": {"$ref": "#/definitions/types.ErrorResponse"}}}}},
        "/state": {"get": {"summary": "Whole state as JSON", "produces": ["application/json"],
            "responses": {"200": {"description": "OK"}}}},
        "/routes/match": {"get": {"summary": "Match a location fragment", "produces": ["application/json"],
            "parameters": [{"name": "fragment", "in": "query", "type": "string"}],
            "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/types.RouteMatch"}}}}},
        "/dispatch": {"post": {"summary": "Dispatch an event", "consumes": ["application/json"], "produces": ["application/json"],
            "parameters": [{"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/types.DispatchRequest"}}],
            "responses": {
                "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.DispatchResponse"}},
                "400": {"description": "bad request", "schema": {"$ref": "#/definitions/types.ErrorResponse"}},
                "404": {"description": "unknown kind", "schema": {"$ref": "#/definitions/types.ErrorResponse"}},
                "415": {"description": "unsupported media type", "schema": {"$ref": "#/definitions/types.ErrorResponse"}},
                "422": {"description": "handler failed", "schema": {"$ref": "#/definitions/types.ErrorResponse"}},
                "429": {"description": "too busy", "schema": {"$ref": "#/definitions/types.ErrorResponse"}},
                "503": {"description": "closed", "schema": {"$ref": "#/definitions/types.ErrorResponse"}}}}},
        "/healthz": {"get": {"summary": "Liveness", "responses": {"200": {"description": "ok"}}}},
        "/readyz": {"get": {"summary": "Readiness", "responses": {"200": {"description": "ready"}, "503": {"description": "closed"}}}}
    },
    "definitions": {
        "types.ErrorResponse": {"type": "object", "properties": {
            "error": {"type": "string", "example": "invalid JSON body"},
            "code": {"type": "integer", "example": 400}}},
        "types.DispatchRequest": {"type": "object", "properties": {
            "kind": {"type": "string", "example": "CREATE_VOTE"},
            "payload": {"type": "object"}}},
        "types.DispatchResponse": {"type": "object", "properties": {
            "kind": {"type": "string", "example": "CREATE_VOTE"},
            "version": {"type": "integer", "example": 12}}},
        "types.ViewsResponse": {"type": "object", "properties": {
            "views": {"type": "array", "items": {"type": "string"}}}},
        "types.ViewResponse": {"type": "object", "properties": {
            "name": {"type": "string", "example": "status"},
            "version": {"type": "integer", "example": 12},
            "value": {"type": "object"}}},
        "types.RouteMatch": {"type": "object", "properties": {
            "id": {"type": "string", "example": "entry-detail"},
            "params": {"type": "object", "additionalProperties": {"type": "string"}},
            "title": {"type": "string", "example": "Entry"}}},
        "types.StatusResponse": {"type": "object", "properties": {
            "status": {"type": "object", "properties": {
                "type": {"type": "string", "example": "SUCCESS"},
                "message": {"type": "string"},
                "auto_clear": {"type": "boolean"}}},
            "version": {"type": "integer"},
            "inflight": {"type": "integer"},
            "dispatched": {"type": "integer"},
            "unknown_kinds": {"type": "integer"},
            "handler_errors": {"type": "integer"},
            "uptime_seconds": {"type": "integer"},
            "server_time_unix": {"type": "integer"}}}
    }
}`

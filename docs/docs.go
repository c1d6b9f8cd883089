// Package docs holds the swagger spec served when built with -tags=swagger.
// Regenerate with `swag init -g cmd/instanced/docs.go`.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "instanced maintainers"
        },
        "license": {
            "name": "MIT",
            "url": "https://opensource.org/licenses/MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/instances": {
            "get": {
                "description": "Current snapshot of all instances in creation order.",
                "produces": ["application/json"],
                "tags": ["instances"],
                "summary": "List instances",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"type": "array", "items": {"$ref": "#/definitions/types.Instance"}}
                    }
                }
            },
            "post": {
                "description": "Accepts a create command. The instance appears after a delay; completion is reported on the event stream.",
                "produces": ["application/json"],
                "tags": ["instances"],
                "summary": "Create an instance",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.StatusResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/types.ErrorResponse"}}
                }
            }
        },
        "/instances/{id}": {
            "patch": {
                "description": "Accepts a start/stop flip. Unknown ids are accepted and silently ignored at commit.",
                "produces": ["application/json"],
                "tags": ["instances"],
                "summary": "Toggle an instance",
                "parameters": [{"type": "string", "description": "Instance ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.StatusResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/types.ErrorResponse"}}
                }
            },
            "delete": {
                "description": "Accepts a removal. Responds ok whether or not the id exists.",
                "produces": ["application/json"],
                "tags": ["instances"],
                "summary": "Delete an instance",
                "parameters": [{"type": "string", "description": "Instance ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.StatusResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/types.ErrorResponse"}}
                }
            }
        },
        "/ws": {
            "get": {
                "description": "Pushes every lifecycle event as {type, id, msg, date}. Text messages sent by a client are relayed to all subscribers.",
                "tags": ["events"],
                "summary": "WebSocket event stream",
                "responses": {"101": {"description": "Switching Protocols"}}
            }
        },
        "/events": {
            "get": {
                "description": "Same payloads as the WebSocket stream, framed as text/event-stream.",
                "produces": ["text/event-stream"],
                "tags": ["events"],
                "summary": "Server-Sent Events stream",
                "responses": {"200": {"description": "OK"}}
            }
        }
    },
    "definitions": {
        "types.Instance": {
            "type": "object",
            "properties": {
                "id": {"type": "string", "example": "1b4e28ba-2fa1-11d2-883f-0016d3cca427"},
                "state": {"type": "string", "example": "stopped"}
            }
        },
        "types.LogMessage": {
            "type": "object",
            "properties": {
                "type": {"type": "string", "example": "server log"},
                "id": {"type": "string", "example": "1b4e28ba-2fa1-11d2-883f-0016d3cca427"},
                "msg": {"type": "string", "example": "Created"},
                "date": {"type": "string", "example": "2024-01-02T15:04:05.000Z"}
            }
        },
        "types.StatusResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string", "example": "ok"}
            }
        },
        "types.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string", "example": "scheduler closed"},
                "code": {"type": "integer", "example": 503}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{"http"},
	Title:            "instanced API",
	Description:      "Asynchronous instance lifecycle commands with a broadcast event stream.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}

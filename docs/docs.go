// Package docs registers the swagger specification. Regenerate with
// `swag init -g cmd/server/main.go` after changing handler annotations.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/auth/token/": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["auth"],
                "summary": "Get the current user's API token",
                "responses": {
                    "200": {"description": "OK"},
                    "401": {"description": "Unauthorized"}
                }
            }
        },
        "/chats/": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["chats"],
                "summary": "List the current user's chats",
                "parameters": [
                    {"type": "integer", "name": "page", "in": "query"},
                    {"type": "integer", "name": "page_size", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "401": {"description": "Unauthorized"}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["chats"],
                "summary": "Create a chat",
                "responses": {
                    "201": {"description": "Created"},
                    "400": {"description": "Validation error"},
                    "401": {"description": "Unauthorized"}
                }
            }
        },
        "/chats/{id}/": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["chats"],
                "summary": "Get a chat",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not found or not owned"}
                }
            },
            "patch": {
                "security": [{"BearerAuth": []}],
                "tags": ["chats"],
                "summary": "Update a chat",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Validation error"},
                    "404": {"description": "Not found or not owned"}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["chats"],
                "summary": "Delete a chat and its messages",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "204": {"description": "Deleted"},
                    "404": {"description": "Not found or not owned"}
                }
            }
        },
        "/chats/{chat_id}/messages/": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["messages"],
                "summary": "List messages in a chat",
                "parameters": [{"type": "string", "name": "chat_id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK"},
                    "403": {"description": "Parent chat missing or not owned"}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["messages"],
                "summary": "Add a message to a chat",
                "parameters": [{"type": "string", "name": "chat_id", "in": "path", "required": true}],
                "responses": {
                    "201": {"description": "Created"},
                    "400": {"description": "Validation error"},
                    "403": {"description": "Parent chat missing or not owned"}
                }
            }
        },
        "/profile/": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["profile"],
                "summary": "Get the current user's profile",
                "responses": {"200": {"description": "OK"}}
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "tags": ["profile"],
                "summary": "Update the current user's profile",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/settings/": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["settings"],
                "summary": "Get the current user's settings",
                "responses": {"200": {"description": "OK"}}
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "tags": ["settings"],
                "summary": "Update the current user's settings",
                "responses": {"200": {"description": "OK"}}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api",
	Schemes:          []string{"http"},
	Title:            "aiiabox API",
	Description:      "Multi-tenant chat/profile API with per-user data isolation.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}

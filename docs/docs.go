// Package docs registers the swagger document served at /swagger/doc.json.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/health": {"get": {"tags": ["system"], "summary": "Health check", "responses": {"200": {"description": "OK"}}}},
        "/register": {"post": {"tags": ["auth"], "summary": "Create a student account", "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}, "409": {"description": "Conflict"}}}},
        "/login": {"post": {"tags": ["auth"], "summary": "Sign in", "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}, "429": {"description": "Too Many Requests"}}}},
        "/logout": {"post": {"security": [{"BearerAuth": []}], "tags": ["auth"], "summary": "Sign out", "responses": {"200": {"description": "OK"}}}},
        "/profile": {"get": {"security": [{"BearerAuth": []}], "tags": ["auth"], "summary": "Current user", "responses": {"200": {"description": "OK"}}}},
        "/games": {"get": {"security": [{"BearerAuth": []}], "tags": ["catalog"], "summary": "List quiz games", "responses": {"200": {"description": "OK"}}}},
        "/games/{id}": {"get": {"security": [{"BearerAuth": []}], "tags": ["catalog"], "summary": "Quiz game with questions", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}},
        "/games/{id}/attempts": {"post": {"security": [{"BearerAuth": []}], "tags": ["catalog"], "summary": "Score a quiz attempt and record the completion", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "409": {"description": "Conflict"}}}},
        "/modules": {"get": {"security": [{"BearerAuth": []}], "tags": ["catalog"], "summary": "List technology modules", "responses": {"200": {"description": "OK"}}}},
        "/modules/{id}/attempts": {"post": {"security": [{"BearerAuth": []}], "tags": ["catalog"], "summary": "Score a module quiz and record the result", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}},
        "/progress": {"get": {"security": [{"BearerAuth": []}], "tags": ["catalog"], "summary": "Progress of the current user", "responses": {"200": {"description": "OK"}}}},
        "/chat/messages": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["chat"], "summary": "Tutor transcript", "responses": {"200": {"description": "OK"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["chat"], "summary": "Ask the tutor", "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}}
        },
        "/support/moods": {"get": {"security": [{"BearerAuth": []}], "tags": ["support"], "summary": "Mood options", "responses": {"200": {"description": "OK"}}}},
        "/support/session": {"get": {"security": [{"BearerAuth": []}], "tags": ["support"], "summary": "Current triage session", "responses": {"200": {"description": "OK"}}}},
        "/support/session/mood": {"post": {"security": [{"BearerAuth": []}], "tags": ["support"], "summary": "Select a mood", "responses": {"200": {"description": "OK"}}}},
        "/support/session/back": {"post": {"security": [{"BearerAuth": []}], "tags": ["support"], "summary": "Go back to mood selection", "responses": {"200": {"description": "OK"}}}},
        "/support/session/submit": {"post": {"security": [{"BearerAuth": []}], "tags": ["support"], "summary": "Submit the situation text", "responses": {"200": {"description": "OK"}}}},
        "/support/session/restart": {"post": {"security": [{"BearerAuth": []}], "tags": ["support"], "summary": "Restart the triage", "responses": {"200": {"description": "OK"}}}},
        "/tasks": {"get": {"security": [{"BearerAuth": []}], "tags": ["tasks"], "summary": "Tasks assigned to the student", "responses": {"200": {"description": "OK"}}}},
        "/tasks/{id}/submissions": {"post": {"security": [{"BearerAuth": []}], "tags": ["tasks"], "summary": "Submit a task", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"201": {"description": "Created"}, "403": {"description": "Forbidden"}, "409": {"description": "Conflict"}}}},
        "/teacher/students": {"get": {"security": [{"BearerAuth": []}], "tags": ["teacher"], "summary": "Students with progress", "responses": {"200": {"description": "OK"}}}},
        "/teacher/students/{id}": {"get": {"security": [{"BearerAuth": []}], "tags": ["teacher"], "summary": "Student detail", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}},
        "/teacher/overview": {"get": {"security": [{"BearerAuth": []}], "tags": ["teacher"], "summary": "Class overview and leaderboard", "responses": {"200": {"description": "OK"}}}},
        "/teacher/tasks": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["teacher"], "summary": "Tasks created by the teacher", "responses": {"200": {"description": "OK"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["teacher"], "summary": "Create a task", "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}}}
        },
        "/teacher/tasks/{id}": {
            "put": {"security": [{"BearerAuth": []}], "tags": ["teacher"], "summary": "Update a task", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}},
            "delete": {"security": [{"BearerAuth": []}], "tags": ["teacher"], "summary": "Delete a task", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}
        },
        "/teacher/tasks/{id}/submissions": {"get": {"security": [{"BearerAuth": []}], "tags": ["teacher"], "summary": "Submissions of a task", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}},
        "/teacher/submissions/{id}/grade": {"post": {"security": [{"BearerAuth": []}], "tags": ["teacher"], "summary": "Grade a submission", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "409": {"description": "Conflict"}}}},
        "/admin/users/{id}/role": {"put": {"security": [{"BearerAuth": []}], "tags": ["admin"], "summary": "Change a user's role", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}}
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api",
	Schemes:          []string{},
	Title:            "IAPrender API",
	Description:      "Backend of the IAPrender learning portal.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}

// Package docs registers the OpenAPI document served at /swagger.
// Regenerate with: swag init -g cmd/api/main.go
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
        "/auth": {
            "get": {
                "security": [{"TokenAuth": []}],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Current user",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.User"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/response.Message"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/response.Message"}}
                }
            }
        },
        "/profile": {
            "get": {
                "produces": ["application/json"],
                "tags": ["profile"],
                "summary": "List all profiles",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/domain.Profile"}}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/response.Message"}}
                }
            },
            "post": {
                "security": [{"TokenAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["profile"],
                "summary": "Create or update the current user's profile",
                "parameters": [
                    {"description": "Profile fields", "name": "profile", "in": "body", "required": true, "schema": {"$ref": "#/definitions/domain.ProfileInput"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.Profile"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.Errors"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/response.Message"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/response.Message"}}
                }
            },
            "delete": {
                "security": [{"TokenAuth": []}],
                "produces": ["application/json"],
                "tags": ["profile"],
                "summary": "Delete the current user and profile",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Message"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/response.Message"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/response.Message"}}
                }
            }
        },
        "/profile/me": {
            "get": {
                "security": [{"TokenAuth": []}],
                "produces": ["application/json"],
                "tags": ["profile"],
                "summary": "Current user's profile",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.Profile"}},
                    "400": {"description": "There is no profile for this user", "schema": {"$ref": "#/definitions/response.Message"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/response.Message"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/response.Message"}}
                }
            }
        },
        "/profile/user/{user_id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["profile"],
                "summary": "Profile by user id",
                "parameters": [
                    {"type": "string", "description": "User ID", "name": "user_id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.Profile"}},
                    "400": {"description": "Profile not found", "schema": {"$ref": "#/definitions/response.Message"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/response.Message"}}
                }
            }
        },
        "/profile/experience": {
            "put": {
                "security": [{"TokenAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["profile"],
                "summary": "Add an experience entry",
                "parameters": [
                    {"description": "Experience", "name": "experience", "in": "body", "required": true, "schema": {"$ref": "#/definitions/domain.ExperienceInput"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.Profile"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.Errors"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/response.Message"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/response.Message"}}
                }
            }
        },
        "/profile/experience/{exp_id}": {
            "delete": {
                "security": [{"TokenAuth": []}],
                "produces": ["application/json"],
                "tags": ["profile"],
                "summary": "Remove an experience entry",
                "parameters": [
                    {"type": "string", "description": "Experience ID", "name": "exp_id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.Profile"}},
                    "400": {"description": "Profile not found or Experience not found", "schema": {"$ref": "#/definitions/response.Message"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/response.Message"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/response.Message"}}
                }
            }
        }
    },
    "definitions": {
        "domain.User": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "email": {"type": "string"},
                "avatar": {"type": "string"},
                "created_at": {"type": "string"}
            }
        },
        "domain.UserSummary": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "avatar": {"type": "string"}
            }
        },
        "domain.Social": {
            "type": "object",
            "properties": {
                "youtube": {"type": "string"},
                "facebook": {"type": "string"},
                "twitter": {"type": "string"},
                "instagram": {"type": "string"},
                "linkedin": {"type": "string"}
            }
        },
        "domain.Experience": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "title": {"type": "string"},
                "company": {"type": "string"},
                "location": {"type": "string"},
                "from": {"type": "string"},
                "to": {"type": "string"},
                "current": {"type": "boolean"},
                "description": {"type": "string"}
            }
        },
        "domain.Profile": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "user": {"$ref": "#/definitions/domain.UserSummary"},
                "company": {"type": "string"},
                "website": {"type": "string"},
                "location": {"type": "string"},
                "bio": {"type": "string"},
                "status": {"type": "string"},
                "githubusername": {"type": "string"},
                "skills": {"type": "array", "items": {"type": "string"}},
                "social": {"$ref": "#/definitions/domain.Social"},
                "experience": {"type": "array", "items": {"$ref": "#/definitions/domain.Experience"}},
                "created_at": {"type": "string"},
                "updated_at": {"type": "string"}
            }
        },
        "domain.ProfileInput": {
            "type": "object",
            "properties": {
                "company": {"type": "string"},
                "website": {"type": "string"},
                "location": {"type": "string"},
                "bio": {"type": "string"},
                "status": {"type": "string"},
                "githubusername": {"type": "string"},
                "skills": {"type": "string"},
                "youtube": {"type": "string"},
                "facebook": {"type": "string"},
                "twitter": {"type": "string"},
                "instagram": {"type": "string"},
                "linkedin": {"type": "string"}
            }
        },
        "domain.ExperienceInput": {
            "type": "object",
            "properties": {
                "title": {"type": "string"},
                "company": {"type": "string"},
                "location": {"type": "string"},
                "from": {"type": "string"},
                "to": {"type": "string"},
                "current": {"type": "boolean"},
                "description": {"type": "string"}
            }
        },
        "response.Message": {
            "type": "object",
            "properties": {
                "msg": {"type": "string"}
            }
        },
        "response.Errors": {
            "type": "object",
            "properties": {
                "errors": {
                    "type": "array",
                    "items": {
                        "type": "object",
                        "properties": {
                            "value": {"type": "string"},
                            "msg": {"type": "string"},
                            "param": {"type": "string"},
                            "location": {"type": "string"}
                        }
                    }
                }
            }
        }
    },
    "securityDefinitions": {
        "TokenAuth": {
            "type": "apiKey",
            "name": "x-auth-token",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api",
	Schemes:          []string{},
	Title:            "DevConnector Profile API",
	Description:      "Developer profiles with a newest-first experience list.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}

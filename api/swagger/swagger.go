package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "LegTrack API",
        "description": "Legislative tracking backend: bills, hearing calendar, bookmarks, annotations and exports",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Auth", "description": "Authentication and session management"},
        {"name": "Users", "description": "User administration"},
        {"name": "Bills", "description": "Bill catalogue"},
        {"name": "Calendar", "description": "Hearing and deadline calendar"},
        {"name": "Bookmarks", "description": "Per-user tracked bills"},
        {"name": "Annotations", "description": "Per-user bill notes"},
        {"name": "Exports", "description": "Asynchronous calendar and bill exports"}
    ],
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["Auth"],
                "summary": "Login",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials"}
                }
            }
        },
        "/auth/refresh": {
            "post": {
                "tags": ["Auth"],
                "summary": "Refresh access token",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/auth/logout": {
            "post": {
                "tags": ["Auth"],
                "summary": "Logout",
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/auth/me": {
            "get": {
                "tags": ["Auth"],
                "summary": "Current user profile",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/bills": {
            "get": {
                "tags": ["Bills"],
                "summary": "List bills",
                "parameters": [
                    {"name": "chamber", "in": "query", "type": "integer"},
                    {"name": "status", "in": "query", "type": "string"},
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "numbers", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "page_size", "in": "query", "type": "integer"},
                    {"name": "sort_by", "in": "query", "type": "string"},
                    {"name": "sort_order", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/bills/{id}": {
            "get": {
                "tags": ["Bills"],
                "summary": "Get bill",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found"}
                }
            }
        },
        "/bills/number/{number}": {
            "get": {
                "tags": ["Bills"],
                "summary": "Get bill by number",
                "parameters": [
                    {"name": "number", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found"}
                }
            }
        },
        "/bills/{id}/annotations": {
            "get": {
                "tags": ["Annotations"],
                "summary": "List annotations for a bill",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/calendar/events": {
            "get": {
                "tags": ["Calendar"],
                "summary": "Filtered calendar events",
                "parameters": [
                    {"name": "types", "in": "query", "type": "string", "description": "Comma-separated event types (Assembly,Senate,Legislative,Letter Deadline)"},
                    {"name": "bills", "in": "query", "type": "string", "description": "Comma-separated bill numbers"},
                    {"name": "bill_filter", "in": "query", "type": "boolean"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Invalid selection"}
                }
            }
        },
        "/calendar/my-events": {
            "get": {
                "tags": ["Calendar"],
                "summary": "Events for bookmarked bills",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Unauthorized"}
                }
            }
        },
        "/calendar/resources": {
            "get": {
                "tags": ["Calendar"],
                "summary": "Hearing room resources",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/calendar/export.ics": {
            "get": {
                "tags": ["Calendar"],
                "summary": "Download current selection as iCalendar",
                "produces": ["text/calendar"],
                "parameters": [
                    {"name": "types", "in": "query", "type": "string"},
                    {"name": "bills", "in": "query", "type": "string"},
                    {"name": "bill_filter", "in": "query", "type": "boolean"}
                ],
                "responses": {
                    "200": {"description": "ICS payload"}
                }
            }
        },
        "/bookmarks": {
            "get": {
                "tags": ["Bookmarks"],
                "summary": "List bookmarks",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Bookmarks"],
                "summary": "Bookmark a bill",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/BookmarkRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Already bookmarked"}
                }
            }
        },
        "/bookmarks/{billId}": {
            "delete": {
                "tags": ["Bookmarks"],
                "summary": "Remove a bookmark",
                "parameters": [
                    {"name": "billId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "404": {"description": "Not bookmarked"}
                }
            }
        },
        "/annotations": {
            "post": {
                "tags": ["Annotations"],
                "summary": "Create annotation",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/AnnotationRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/annotations/{id}": {
            "put": {
                "tags": ["Annotations"],
                "summary": "Update annotation",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/AnnotationUpdateRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Not the owner"}
                }
            },
            "delete": {
                "tags": ["Annotations"],
                "summary": "Delete annotation",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/exports": {
            "post": {
                "tags": ["Exports"],
                "summary": "Queue an export job",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ExportRequest"}}
                ],
                "responses": {
                    "202": {"description": "Accepted", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Exports disabled"}
                }
            }
        },
        "/exports/{id}/status": {
            "get": {
                "tags": ["Exports"],
                "summary": "Export job status",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Unknown job"}
                }
            }
        },
        "/exports/download/{token}": {
            "get": {
                "tags": ["Exports"],
                "summary": "Download a finished export",
                "parameters": [
                    {"name": "token", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "File stream"},
                    "404": {"description": "Expired or unknown token"}
                }
            }
        }
    },
    "definitions": {
        "LoginRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            },
            "required": ["email", "password"]
        },
        "BookmarkRequest": {
            "type": "object",
            "properties": {
                "billId": {"type": "string"}
            },
            "required": ["billId"]
        },
        "AnnotationRequest": {
            "type": "object",
            "properties": {
                "billId": {"type": "string"},
                "body": {"type": "string"}
            },
            "required": ["billId", "body"]
        },
        "AnnotationUpdateRequest": {
            "type": "object",
            "properties": {
                "body": {"type": "string"}
            },
            "required": ["body"]
        },
        "ExportRequest": {
            "type": "object",
            "properties": {
                "type": {"type": "string", "enum": ["calendar", "bills"]},
                "format": {"type": "string", "enum": ["ics", "csv", "pdf"]},
                "eventTypes": {"type": "array", "items": {"type": "string"}},
                "bills": {"type": "array", "items": {"type": "string"}},
                "billFilterActive": {"type": "boolean"}
            },
            "required": ["type", "format"]
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_count": {"type": "integer"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "pagination": {"$ref": "#/definitions/Pagination"},
                "meta": {"type": "object"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}

// Package swagger carries the pre-rendered OpenAPI document served at
// /docs in non-production environments.
package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "ALS Student Tracker API",
        "description": "Roster, module progress and event tracking for Alternative Learning System community programs",
        "version": "1.0.0"
    },
    "basePath": "/api",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Auth", "description": "Authentication and session management"},
        {"name": "Students", "description": "Learner roster management"},
        {"name": "Reference", "description": "Barangays and learning modules"},
        {"name": "Progress", "description": "Module progress and scored activities"},
        {"name": "Events", "description": "Calendar events"},
        {"name": "Dashboard", "description": "Aggregated statistics and calendar view"},
        {"name": "Reports", "description": "Asynchronous roster and progress exports"}
    ],
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    },
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["Auth"],
                "summary": "Authenticate with email and password",
                "responses": {"200": {"description": "Token pair issued"}}
            }
        },
        "/auth/refresh": {
            "post": {
                "tags": ["Auth"],
                "summary": "Rotate a refresh token",
                "responses": {"200": {"description": "New token pair issued"}}
            }
        },
        "/auth/logout": {
            "post": {
                "tags": ["Auth"],
                "summary": "Revoke the presented refresh token",
                "responses": {"204": {"description": "Revoked"}}
            }
        },
        "/auth/me": {
            "get": {
                "tags": ["Auth"],
                "summary": "Authenticated user's profile",
                "responses": {"200": {"description": "Profile"}}
            }
        },
        "/auth/change-password": {
            "post": {
                "tags": ["Auth"],
                "summary": "Change the authenticated user's password",
                "responses": {"204": {"description": "Changed"}}
            }
        },
        "/students": {
            "get": {
                "tags": ["Students"],
                "summary": "List students with optional search, status and barangay filters",
                "responses": {"200": {"description": "Paginated roster"}}
            },
            "post": {
                "tags": ["Students"],
                "summary": "Register a student",
                "responses": {"201": {"description": "Created"}}
            }
        },
        "/students/{id}": {
            "get": {
                "tags": ["Students"],
                "summary": "Student detail",
                "responses": {"200": {"description": "Student"}}
            },
            "put": {
                "tags": ["Students"],
                "summary": "Update a student",
                "responses": {"200": {"description": "Updated"}}
            },
            "delete": {
                "tags": ["Students"],
                "summary": "Delete a student",
                "responses": {"204": {"description": "Deleted"}}
            }
        },
        "/barangays": {
            "get": {
                "tags": ["Reference"],
                "summary": "List barangays",
                "responses": {"200": {"description": "Barangays"}}
            }
        },
        "/modules": {
            "get": {
                "tags": ["Reference"],
                "summary": "List learning modules, optionally filtered by program",
                "responses": {"200": {"description": "Modules"}}
            }
        },
        "/progress": {
            "get": {
                "tags": ["Progress"],
                "summary": "List progress records",
                "responses": {"200": {"description": "Progress records"}}
            },
            "post": {
                "tags": ["Progress"],
                "summary": "Open a progress record",
                "responses": {"201": {"description": "Created"}}
            }
        },
        "/progress/{studentId}/{moduleId}": {
            "delete": {
                "tags": ["Progress"],
                "summary": "Delete a progress record",
                "responses": {"204": {"description": "Deleted"}}
            }
        },
        "/progress/{studentId}/{moduleId}/activities": {
            "post": {
                "tags": ["Progress"],
                "summary": "Append an activity",
                "responses": {"200": {"description": "Updated record"}}
            }
        },
        "/progress/{studentId}/{moduleId}/activities/{index}": {
            "patch": {
                "tags": ["Progress"],
                "summary": "Replace the activity at a position",
                "responses": {"200": {"description": "Updated record"}}
            },
            "delete": {
                "tags": ["Progress"],
                "summary": "Remove the activity at a position",
                "responses": {"200": {"description": "Updated record"}}
            }
        },
        "/events": {
            "get": {
                "tags": ["Events"],
                "summary": "List events",
                "responses": {"200": {"description": "Events"}}
            },
            "post": {
                "tags": ["Events"],
                "summary": "Create an event",
                "responses": {"201": {"description": "Created"}}
            }
        },
        "/events/{id}": {
            "get": {
                "tags": ["Events"],
                "summary": "Event detail",
                "responses": {"200": {"description": "Event"}}
            },
            "put": {
                "tags": ["Events"],
                "summary": "Update an event",
                "responses": {"200": {"description": "Updated"}}
            },
            "delete": {
                "tags": ["Events"],
                "summary": "Delete an event",
                "responses": {"204": {"description": "Deleted"}}
            }
        },
        "/dashboard/statistics": {
            "get": {
                "tags": ["Dashboard"],
                "summary": "Dashboard statistics",
                "responses": {"200": {"description": "Aggregates"}}
            }
        },
        "/dashboard/calendar": {
            "get": {
                "tags": ["Dashboard"],
                "summary": "Month calendar of events",
                "responses": {"200": {"description": "Events grouped by date"}}
            }
        },
        "/reports": {
            "post": {
                "tags": ["Reports"],
                "summary": "Queue a report export",
                "responses": {"202": {"description": "Job accepted"}}
            }
        },
        "/reports/{id}": {
            "get": {
                "tags": ["Reports"],
                "summary": "Report job status",
                "responses": {"200": {"description": "Job status"}}
            }
        },
        "/reports/download/{token}": {
            "get": {
                "tags": ["Reports"],
                "summary": "Download a finished report by signed token",
                "responses": {"200": {"description": "File stream"}}
            }
        }
    },
    "definitions": {
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

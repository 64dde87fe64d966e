// Package docs holds the generated OpenAPI description served at /swagger/.
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
        "/api/health": {
            "get": {
                "summary": "Service liveness probe",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/api/votes/cast": {
            "post": {
                "summary": "Cast a ballot for an election",
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Bad Request"},
                    "403": {"description": "Forbidden"},
                    "404": {"description": "Not Found"},
                    "409": {"description": "Conflict"}
                }
            }
        },
        "/api/votes/results/{election_id}": {
            "get": {
                "summary": "Live results for an election",
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not Found"}
                }
            }
        },
        "/api/votes/status/{election_id}": {
            "get": {
                "summary": "Whether a voter has cast a ballot",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/api/elections": {
            "get": {
                "summary": "List elections with turnout",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/api/elections/{election_id}": {
            "get": {
                "summary": "Election detail with positions and candidates",
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not Found"}
                }
            }
        },
        "/api/auth/register": {
            "post": {
                "summary": "Register a voter account",
                "responses": {
                    "201": {"description": "Created"},
                    "409": {"description": "Conflict"}
                }
            }
        },
        "/api/auth/login": {
            "post": {
                "summary": "Voter login",
                "responses": {
                    "200": {"description": "OK"},
                    "401": {"description": "Unauthorized"}
                }
            }
        },
        "/api/admin/auth/login": {
            "post": {
                "summary": "Admin login issuing a session token",
                "responses": {
                    "200": {"description": "OK"},
                    "401": {"description": "Unauthorized"}
                }
            }
        },
        "/api/admin/dashboard/stats": {
            "get": {
                "summary": "Aggregate counts for the admin dashboard",
                "responses": {
                    "200": {"description": "OK"},
                    "401": {"description": "Unauthorized"}
                }
            }
        }
    }
}`

var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "SecureVote API",
	Description:      "Browser voting platform: accounts, election catalog, ballot casting, live results.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}

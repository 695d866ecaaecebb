// Package swagger registers the OpenAPI document served at /swagger/doc.json.
package swagger

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
        "/api/matches": {
            "get": {
                "security": [{"ApiKeyAuth": []}],
                "description": "Authenticates the key, enforces quota and rate limit, then serves cached, upstream or fallback fixtures",
                "produces": ["application/json"],
                "tags": ["Matches"],
                "summary": "List fixtures",
                "parameters": [
                    {"type": "string", "description": "API Key", "name": "X-API-Key", "in": "header", "required": true},
                    {"type": "string", "description": "Sport (default football)", "name": "sport", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "Fixtures", "schema": {"$ref": "#/definitions/http.MatchesResponse"}},
                    "401": {"description": "API key required", "schema": {"$ref": "#/definitions/gateway.Error"}},
                    "403": {"description": "Invalid API key", "schema": {"$ref": "#/definitions/gateway.Error"}},
                    "429": {"description": "Quota or rate limit exceeded", "schema": {"$ref": "#/definitions/gateway.Error"}},
                    "500": {"description": "Failed to build match payload", "schema": {"$ref": "#/definitions/gateway.Error"}}
                }
            }
        },
        "/api/usage": {
            "get": {
                "security": [{"ApiKeyAuth": []}],
                "description": "Current-month usage of the calling key. Not counted and not rate limited.",
                "produces": ["application/json"],
                "tags": ["Matches"],
                "summary": "Current usage",
                "parameters": [
                    {"type": "string", "description": "API Key", "name": "X-API-Key", "in": "header", "required": true}
                ],
                "responses": {
                    "200": {"description": "Usage", "schema": {"$ref": "#/definitions/http.UsageResponse"}},
                    "401": {"description": "API key required", "schema": {"$ref": "#/definitions/gateway.Error"}},
                    "403": {"description": "Invalid API key", "schema": {"$ref": "#/definitions/gateway.Error"}}
                }
            }
        },
        "/api/health": {
            "get": {
                "description": "Returns OK with uptime and memory figures",
                "produces": ["application/json"],
                "tags": ["System"],
                "summary": "Liveness check",
                "responses": {
                    "200": {"description": "status: ok", "schema": {"$ref": "#/definitions/http.HealthResponse"}}
                }
            }
        },
        "/api/metrics": {
            "get": {
                "description": "Process-wide pipeline counters and point-in-time gauges",
                "produces": ["application/json"],
                "tags": ["System"],
                "summary": "Gateway metrics",
                "responses": {
                    "200": {"description": "Metrics", "schema": {"$ref": "#/definitions/http.MetricsResponse"}}
                }
            }
        },
        "/admin/create-key": {
            "post": {
                "security": [{"AdminAuth": []}],
                "description": "Issue a new API key for a user on a plan (default free)",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Admin"],
                "summary": "Create key",
                "parameters": [
                    {"description": "Key data", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/admin.CreateKeyRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created key", "schema": {"$ref": "#/definitions/admin.CreateKeyResponse"}},
                    "400": {"description": "Invalid request", "schema": {"$ref": "#/definitions/gateway.Error"}},
                    "401": {"description": "Admin token required", "schema": {"$ref": "#/definitions/gateway.Error"}}
                }
            }
        },
        "/admin/revoke-key": {
            "post": {
                "security": [{"AdminAuth": []}],
                "description": "Revoke an API key. Usage recorded so far is kept.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Admin"],
                "summary": "Revoke key",
                "parameters": [
                    {"description": "Key to revoke", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/admin.RevokeKeyRequest"}}
                ],
                "responses": {
                    "200": {"description": "Revoked", "schema": {"$ref": "#/definitions/admin.RevokeKeyResponse"}},
                    "400": {"description": "Invalid request", "schema": {"$ref": "#/definitions/gateway.Error"}},
                    "404": {"description": "API key not found", "schema": {"$ref": "#/definitions/gateway.Error"}}
                }
            }
        }
    },
    "definitions": {
        "gateway.Error": {
            "type": "object",
            "properties": {
                "error": {"type": "string"},
                "details": {"type": "string"},
                "hint": {"type": "string"},
                "limit": {"type": "integer"},
                "resetInMs": {"type": "integer"},
                "month": {"type": "string"},
                "requests": {"type": "integer"},
                "quota": {"type": "integer"},
                "plan": {"type": "string"},
                "supportedPlans": {"type": "array", "items": {"type": "string"}}
            }
        },
        "http.MatchesResponse": {
            "type": "object",
            "properties": {
                "sport": {"type": "string"},
                "source": {"type": "string", "enum": ["upstream-proxy", "local-demo-backend"]},
                "matches": {"type": "array", "items": {"type": "string"}},
                "fallbackReason": {"type": "string"},
                "cached": {"type": "boolean"},
                "plan": {"type": "string"}
            }
        },
        "http.UsageResponse": {
            "type": "object",
            "properties": {
                "apiKey": {"type": "string"},
                "userId": {"type": "string"},
                "plan": {"type": "string"},
                "month": {"type": "string"},
                "requests": {"type": "integer"},
                "errors": {"type": "integer"},
                "cacheHits": {"type": "integer"},
                "cacheMisses": {"type": "integer"},
                "rateLimited": {"type": "integer"},
                "monthlyQuota": {"type": "integer"},
                "remainingQuota": {"type": "integer"},
                "lastRequestAt": {"type": "string", "x-nullable": true}
            }
        },
        "http.HealthResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string"},
                "uptimeSeconds": {"type": "number"},
                "memory": {"$ref": "#/definitions/app.MemoryStats"},
                "timestamp": {"type": "string"},
                "demoApiKey": {"type": "string"}
            }
        },
        "app.MemoryStats": {
            "type": "object",
            "properties": {
                "alloc": {"type": "integer"},
                "totalAlloc": {"type": "integer"},
                "sys": {"type": "integer"},
                "numGC": {"type": "integer"},
                "goroutines": {"type": "integer"}
            }
        },
        "http.MetricsResponse": {
            "type": "object",
            "properties": {
                "cacheHits": {"type": "integer"},
                "cacheMisses": {"type": "integer"},
                "upstreamRequests": {"type": "integer"},
                "upstreamFailures": {"type": "integer"},
                "fallbackUses": {"type": "integer"},
                "apiAuthFailures": {"type": "integer"},
                "rateLimitBlocks": {"type": "integer"},
                "quotaBlocks": {"type": "integer"},
                "internalErrors": {"type": "integer"},
                "cacheEntries": {"type": "integer"},
                "cacheTtlMs": {"type": "integer"},
                "upstreamConfigured": {"type": "boolean"},
                "activeApiKeys": {"type": "integer"},
                "usageTrackedKeys": {"type": "integer"},
                "demoApiKeyEnabled": {"type": "boolean"}
            }
        },
        "admin.CreateKeyRequest": {
            "type": "object",
            "required": ["userId"],
            "properties": {
                "userId": {"type": "string"},
                "plan": {"type": "string", "default": "free"}
            }
        },
        "admin.CreateKeyResponse": {
            "type": "object",
            "properties": {
                "apiKey": {"type": "string"},
                "userId": {"type": "string"},
                "plan": {"type": "string"},
                "createdAt": {"type": "string"}
            }
        },
        "admin.RevokeKeyRequest": {
            "type": "object",
            "required": ["apiKey"],
            "properties": {
                "apiKey": {"type": "string"}
            }
        },
        "admin.RevokeKeyResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "apiKey": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "AdminAuth": {"type": "apiKey", "name": "X-Admin-Token", "in": "header"},
        "ApiKeyAuth": {"type": "apiKey", "name": "X-API-Key", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "sportsgate API",
	Description:      "Sports fixtures gateway with API keys, plan limits, caching and a fallback catalog.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}

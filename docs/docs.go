// Package docs is the swagger spec served under /swagger, in the layout
// `swag init -g cmd/main.go` produces. Regenerate after changing handler annotations.
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
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["system"],
                "summary": "Health check",
                "responses": {"200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}}
            }
        },
        "/api/v1/equipment": {
            "get": {
                "produces": ["application/json"],
                "tags": ["equipment"],
                "summary": "List equipment",
                "responses": {"200": {"description": "count, equipment", "schema": {"type": "object"}}}
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["equipment"],
                "summary": "Register equipment",
                "description": "min_temp may be null for ceiling-only equipment such as freezers.",
                "parameters": [{"description": "Equipment spec", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.EquipmentSpec"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/models.EquipmentSpec"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/errorResponse"}}
                }
            }
        },
        "/api/v1/equipment/status": {
            "get": {
                "produces": ["application/json"],
                "tags": ["equipment"],
                "summary": "Daily equipment status",
                "description": "Every piece of equipment classified as logged, pending or outOfRange, most urgent first.",
                "responses": {"200": {"description": "count, needs_action, statuses", "schema": {"type": "object"}}}
            }
        },
        "/api/v1/equipment/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["equipment"],
                "summary": "Get equipment",
                "parameters": [{"type": "string", "description": "Equipment ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.EquipmentSpec"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/errorResponse"}}
                }
            }
        },
        "/api/v1/equipment/{id}/readings": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["equipment"],
                "summary": "Log a reading",
                "parameters": [
                    {"type": "string", "description": "Equipment ID", "name": "id", "in": "path", "required": true},
                    {"description": "Reading", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.LogReadingRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"type": "object"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/errorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/errorResponse"}}
                }
            }
        },
        "/api/v1/equipment/{id}/sensor-readings": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["equipment"],
                "summary": "Ingest a sensor reading",
                "description": "Stores the reading and grades it as warning or critical; three consecutive out-of-range readings within 15 minutes escalate to critical.",
                "parameters": [
                    {"type": "string", "description": "Equipment ID", "name": "id", "in": "path", "required": true},
                    {"description": "Sensor reading", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.SensorReadingRequest"}}
                ],
                "responses": {
                    "201": {"description": "reading, verdict", "schema": {"type": "object"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/errorResponse"}}
                }
            }
        },
        "/api/v1/cooldowns": {
            "get": {
                "produces": ["application/json"],
                "tags": ["cooldowns"],
                "summary": "List active cooldowns",
                "responses": {"200": {"description": "count, cooldowns", "schema": {"type": "object"}}}
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["cooldowns"],
                "summary": "Start a cooldown",
                "parameters": [{"description": "Cooldown", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.StartCooldownRequest"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"type": "object"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/errorResponse"}}
                }
            }
        },
        "/api/v1/cooldowns/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["cooldowns"],
                "summary": "Get a cooldown",
                "description": "Includes the live snapshot (phase, countdown, status, progress) and the deadline review.",
                "parameters": [{"type": "string", "description": "Cooldown ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/errorResponse"}}
                }
            }
        },
        "/api/v1/cooldowns/{id}/checks": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["cooldowns"],
                "summary": "Log a cooldown check",
                "parameters": [
                    {"type": "string", "description": "Cooldown ID", "name": "id", "in": "path", "required": true},
                    {"description": "Check", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.CooldownCheckRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"type": "object"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/errorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/errorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/errorResponse"}}
                }
            }
        },
        "/api/v1/cooldowns/{id}/complete": {
            "post": {
                "produces": ["application/json"],
                "tags": ["cooldowns"],
                "summary": "Complete a cooldown",
                "description": "Requires the latest check at or below 41°F.",
                "parameters": [{"type": "string", "description": "Cooldown ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/errorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/errorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/errorResponse"}}
                }
            }
        },
        "/api/v1/receiving/categories": {
            "get": {
                "produces": ["application/json"],
                "tags": ["receiving"],
                "summary": "List food categories",
                "responses": {"200": {"description": "count, categories", "schema": {"type": "object"}}}
            }
        },
        "/api/v1/receiving/evaluate": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["receiving"],
                "summary": "Evaluate one receiving item",
                "parameters": [{"description": "Item", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.ReceivingItemRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/errorResponse"}}
                }
            }
        },
        "/api/v1/receiving/logs": {
            "get": {
                "produces": ["application/json"],
                "tags": ["receiving"],
                "summary": "List receiving logs",
                "parameters": [
                    {"type": "string", "description": "Start of range", "name": "from", "in": "query"},
                    {"type": "string", "description": "End of range; date-only means end of day", "name": "to", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "count, logs", "schema": {"type": "object"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/errorResponse"}}
                }
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["receiving"],
                "summary": "Finalize a receiving log",
                "description": "Every failing temperature-checked item needs a CCP-04 deviation (action and notes).",
                "parameters": [{"description": "Delivery", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.FinalizeReceivingRequest"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"type": "object"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/errorResponse"}}
                }
            }
        },
        "/api/v1/receiving/logs/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["receiving"],
                "summary": "Get a receiving log",
                "parameters": [{"type": "string", "description": "Receiving log ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/errorResponse"}}
                }
            }
        },
        "/api/v1/events": {
            "get": {
                "produces": ["application/json"],
                "tags": ["events"],
                "summary": "List compliance events",
                "parameters": [
                    {"type": "string", "description": "Start of range", "name": "from", "in": "query"},
                    {"type": "string", "description": "End of range; date-only means end of day", "name": "to", "in": "query"},
                    {"type": "string", "description": "Event type", "name": "type", "in": "query"},
                    {"type": "string", "description": "Equipment, cooldown or receiving log id", "name": "subject", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "count, events", "schema": {"type": "object"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/errorResponse"}}
                }
            }
        },
        "/ws/cooldowns/{id}": {
            "get": {
                "tags": ["cooldowns"],
                "summary": "Live cooldown countdown",
                "description": "Upgrades to a WebSocket and pushes snapshot envelopes every interval.",
                "parameters": [
                    {"type": "string", "description": "Cooldown ID", "name": "id", "in": "path", "required": true},
                    {"type": "string", "description": "Push interval, Go duration", "name": "interval", "in": "query"},
                    {"type": "integer", "description": "Push interval in milliseconds", "name": "interval_ms", "in": "query"}
                ],
                "responses": {
                    "101": {"description": "switching protocols"},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/errorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "errorResponse": {
            "type": "object",
            "properties": {"error": {"type": "string"}}
        },
        "models.EquipmentSpec": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "category": {"type": "string", "enum": ["storage_cold", "storage_frozen", "holding_cold", "holding_hot"]},
                "min_temp": {"type": "number", "x-nullable": true},
                "max_temp": {"type": "number"},
                "unit": {"type": "string"},
                "location": {"type": "string"}
            }
        },
        "handlers.LogReadingRequest": {
            "type": "object",
            "properties": {
                "value": {"type": "number", "example": 38.5},
                "timestamp": {"type": "string", "example": "2025-06-01T08:30:00Z"},
                "recorded_by": {"type": "string", "example": "maria"},
                "input_method": {"type": "string", "example": "manual"},
                "corrective_action": {"type": "string"}
            }
        },
        "handlers.SensorReadingRequest": {
            "type": "object",
            "properties": {
                "value": {"type": "number", "example": 44.2},
                "timestamp": {"type": "string"}
            }
        },
        "handlers.StartCooldownRequest": {
            "type": "object",
            "properties": {
                "item_name": {"type": "string", "example": "Chicken stock"},
                "start_temp": {"type": "number", "example": 135},
                "cooked_temp": {"type": "number", "example": 180},
                "start_time": {"type": "string"},
                "location": {"type": "string"},
                "started_by": {"type": "string"},
                "standard": {"type": "string", "enum": ["FDA", "CALIFORNIA"]}
            }
        },
        "handlers.CooldownCheckRequest": {
            "type": "object",
            "properties": {
                "temperature": {"type": "number", "example": 68},
                "time": {"type": "string"}
            }
        },
        "handlers.ReceivingItemRequest": {
            "type": "object",
            "properties": {
                "description": {"type": "string", "example": "Whole milk 1gal"},
                "category": {"type": "string", "example": "refrigerated_dairy"},
                "temperature": {"type": "number", "example": 39},
                "deviation": {
                    "type": "object",
                    "properties": {
                        "action_taken": {"type": "string", "enum": ["Rejected Delivery", "Accepted with Condition", "Re-temped after Wait", "Other"]},
                        "notes": {"type": "string"},
                        "re_measured_temp": {"type": "number"}
                    }
                }
            }
        },
        "handlers.FinalizeReceivingRequest": {
            "type": "object",
            "properties": {
                "vendor_name": {"type": "string", "example": "Sysco"},
                "received_by": {"type": "string"},
                "received_at": {"type": "string"},
                "items": {"type": "array", "items": {"$ref": "#/definitions/handlers.ReceivingItemRequest"}}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Temperature Compliance API",
	Description:      "Equipment temperature logging, cook-to-cold cooling tracking and CCP-04 receiving.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}

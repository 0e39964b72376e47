// Package docs holds the OpenAPI document served under /swagger when the
// binary is built with -tags swagger.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "license": {
            "name": "MIT",
            "url": "https://opensource.org/licenses/MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/predict": {
            "post": {
                "description": "Classifies the uploaded image and returns the full score vector.",
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["inference"],
                "summary": "Raw model output",
                "parameters": [
                    {"type": "file", "description": "Image file", "name": "file", "in": "formData", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.RawOutputResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/types.ErrorResponse"}},
                    "429": {"description": "Too Many Requests", "schema": {"$ref": "#/definitions/types.ErrorResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/types.ErrorResponse"}}
                }
            }
        },
        "/classify": {
            "post": {
                "description": "Classifies the uploaded image and returns ranked predictions, a score map and bar rows. Optionally writes a PDF report.",
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["inference"],
                "summary": "Top-K classification",
                "parameters": [
                    {"type": "file", "description": "Image file", "name": "file", "in": "formData", "required": true},
                    {"type": "integer", "description": "Number of predictions", "name": "top_k", "in": "formData"},
                    {"type": "boolean", "description": "Write a PDF report", "name": "report", "in": "formData"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.ClassifyResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/types.ErrorResponse"}},
                    "429": {"description": "Too Many Requests", "schema": {"$ref": "#/definitions/types.ErrorResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/types.ErrorResponse"}}
                }
            }
        },
        "/clear": {
            "post": {
                "description": "Forgets the last result. The model stays loaded and report files are kept.",
                "tags": ["ops"],
                "summary": "Reset the orchestrator",
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/status": {
            "get": {
                "produces": ["application/json"],
                "tags": ["ops"],
                "summary": "Service status",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/types.StatusResponse"}}}
            }
        },
        "/reports/{name}": {
            "get": {
                "produces": ["application/pdf"],
                "tags": ["reports"],
                "summary": "Download a report",
                "parameters": [{"type": "string", "description": "Report file name", "name": "name", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/types.ErrorResponse"}}
                }
            },
            "delete": {
                "tags": ["reports"],
                "summary": "Delete a report",
                "parameters": [{"type": "string", "description": "Report file name", "name": "name", "in": "path", "required": true}],
                "responses": {
                    "204": {"description": "No Content"},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/types.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "types.Prediction": {
            "type": "object",
            "properties": {
                "label": {"type": "string", "example": "golden_retriever"},
                "confidence": {"type": "number", "example": 0.8731},
                "class_index": {"type": "integer", "example": 207}
            }
        },
        "types.BarRow": {
            "type": "object",
            "properties": {
                "label": {"type": "string", "example": "golden_retriever"},
                "percent": {"type": "string", "example": "87.31"},
                "width": {"type": "number", "example": 87.31}
            }
        },
        "types.RawOutputResponse": {
            "type": "object",
            "properties": {
                "raw_output": {"type": "array", "items": {"type": "array", "items": {"type": "number"}}}
            }
        },
        "types.ClassifyResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string", "example": "5f0c7b2e-8f5a-4c1e-9b7e-0d6d2b1a9c11"},
                "predictions": {"type": "array", "items": {"$ref": "#/definitions/types.Prediction"}},
                "scores": {"type": "object", "additionalProperties": {"type": "number"}},
                "bars": {"type": "array", "items": {"$ref": "#/definitions/types.BarRow"}},
                "report_url": {"type": "string", "example": "/reports/Image_Classification_dog.pdf"},
                "report_error": {"type": "string"}
            }
        },
        "types.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string", "example": "no file provided"},
                "code": {"type": "integer", "example": 400}
            }
        },
        "types.StatusResponse": {
            "type": "object",
            "properties": {
                "state": {"type": "string", "example": "ready"},
                "model_id": {"type": "string", "example": "MobileNetV2"},
                "model_loaded": {"type": "boolean", "example": true},
                "classes": {"type": "integer", "example": 1000},
                "top_k": {"type": "integer", "example": 3},
                "last_submission": {"type": "string"},
                "last_report": {"type": "string"},
                "queue_len": {"type": "integer", "example": 0},
                "max_queue_depth": {"type": "integer", "example": 8},
                "classifications_total": {"type": "integer", "example": 12},
                "reports_total": {"type": "integer", "example": 4},
                "uptime_seconds": {"type": "integer", "example": 3600},
                "server_time_unix": {"type": "integer", "example": 1700000000}
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
	Title:            "imgclassd API",
	Description:      "Image classification over HTTP with a browser UI and PDF reports.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}

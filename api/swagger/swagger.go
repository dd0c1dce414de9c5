package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Ticket Report Engine API",
        "description": "Custom report generation over support tickets, SLA, agents and knowledge base analytics",
        "version": "0.1.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Reports", "description": "Report generation and export"},
        {"name": "System", "description": "Health and metrics"}
    ],
    "paths": {
        "/reports/generate": {
            "post": {
                "tags": ["Reports"],
                "summary": "Generate a report",
                "consumes": ["application/json", "application/x-www-form-urlencoded"],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ReportRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Invalid request", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "502": {"description": "Report data source failed", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "get": {
                "tags": ["Reports"],
                "summary": "Generate a report from query parameters",
                "parameters": [
                    {"name": "report_type", "in": "query", "type": "string", "required": true, "enum": ["tickets", "sla", "agent", "knowledgebase"]},
                    {"name": "date_range", "in": "query", "type": "string", "enum": ["today", "yesterday", "last_7_days", "last_30_days", "last_90_days", "custom"]},
                    {"name": "date_from", "in": "query", "type": "string", "format": "date"},
                    {"name": "date_to", "in": "query", "type": "string", "format": "date"},
                    {"name": "filter_entity_id[]", "in": "query", "type": "array", "items": {"type": "string"}, "collectionFormat": "multi"},
                    {"name": "filter_status[]", "in": "query", "type": "array", "items": {"type": "string"}, "collectionFormat": "multi"},
                    {"name": "filter_priority[]", "in": "query", "type": "array", "items": {"type": "string"}, "collectionFormat": "multi"},
                    {"name": "filter_agent_id[]", "in": "query", "type": "array", "items": {"type": "string"}, "collectionFormat": "multi"},
                    {"name": "filter_sla_status[]", "in": "query", "type": "array", "items": {"type": "string"}, "collectionFormat": "multi"},
                    {"name": "group_by", "in": "query", "type": "string", "enum": ["status", "priority", "entity", "agent", "date", "sla_status"]},
                    {"name": "sort_by", "in": "query", "type": "string"},
                    {"name": "sort_order", "in": "query", "type": "string", "enum": ["ASC", "DESC"]},
                    {"name": "limit", "in": "query", "type": "string"},
                    {"name": "kb_metric", "in": "query", "type": "string", "enum": ["views", "helpful", "helpfulness_ratio"]}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Invalid request", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/reports/export": {
            "post": {
                "tags": ["Reports"],
                "summary": "Export a report as csv or printable html",
                "produces": ["text/csv", "text/html"],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ExportRequest"}}
                ],
                "responses": {
                    "200": {"description": "Rendered file", "schema": {"type": "file"}},
                    "400": {"description": "Invalid request or unsupported format", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/reports/options": {
            "get": {
                "tags": ["Reports"],
                "summary": "Agents and active entities available as filters",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "ReportRequest": {
            "type": "object",
            "properties": {
                "report_type": {"type": "string", "enum": ["tickets", "sla", "agent", "knowledgebase"]},
                "date_range": {"type": "string"},
                "date_from": {"type": "string", "format": "date"},
                "date_to": {"type": "string", "format": "date"},
                "filter_entity_id": {"type": "array", "items": {"type": "string"}},
                "filter_status": {"type": "array", "items": {"type": "string"}},
                "filter_priority": {"type": "array", "items": {"type": "string"}},
                "filter_agent_id": {"type": "array", "items": {"type": "string"}},
                "filter_sla_status": {"type": "array", "items": {"type": "string"}},
                "group_by": {"type": "string"},
                "sort_by": {"type": "string"},
                "sort_order": {"type": "string"},
                "limit": {"type": "string", "description": "positive integer or \"all\""},
                "kb_metric": {"type": "string"},
                "show_summary": {"type": "boolean"},
                "show_charts": {"type": "boolean"},
                "show_details": {"type": "boolean"}
            },
            "required": ["report_type"]
        },
        "ExportRequest": {
            "type": "object",
            "properties": {
                "format": {"type": "string", "enum": ["csv", "printable"]},
                "request": {"$ref": "#/definitions/ReportRequest"}
            },
            "required": ["format", "request"]
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

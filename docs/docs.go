package docs

import "github.com/swaggo/swag"

const docTemplate = `{
  "swagger": "2.0",
  "info": {
    "title": "Call/Email Intake",
    "description": "Call and email incident records: drafts, submission, duplication and reporter details",
    "version": "1.0"
  },
  "basePath": "/",
  "paths": {
    "/api/call_email/": {
      "post": {
        "tags": ["call_email"],
        "summary": "Create or duplicate a call/email record",
        "description": "An empty body creates a placeholder draft; a record body is stored as a new copy.",
        "consumes": ["application/json"],
        "produces": ["application/json"],
        "parameters": [
          {"in": "body", "name": "payload", "required": false, "schema": {"$ref": "#/definitions/models.CallEmail"}}
        ],
        "responses": {
          "201": {"description": "Created", "schema": {"$ref": "#/definitions/models.CallEmail"}},
          "400": {"description": "Field errors", "schema": {"$ref": "#/definitions/fieldErrors"}}
        }
      }
    },
    "/api/call_email/{id}": {
      "get": {
        "tags": ["call_email"],
        "summary": "Get a call/email record",
        "produces": ["application/json"],
        "parameters": [
          {"in": "path", "name": "id", "type": "integer", "required": true}
        ],
        "responses": {
          "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.CallEmail"}},
          "404": {"description": "Not found"}
        }
      }
    },
    "/api/call_email/{id}/": {
      "put": {
        "tags": ["call_email"],
        "summary": "Submit a call/email record",
        "description": "Requires classification, report type and occurrence date; opens the record.",
        "consumes": ["application/json"],
        "produces": ["application/json"],
        "parameters": [
          {"in": "path", "name": "id", "type": "integer", "required": true},
          {"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/models.CallEmail"}}
        ],
        "responses": {
          "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.CallEmail"}},
          "400": {"description": "Field errors", "schema": {"$ref": "#/definitions/fieldErrors"}}
        }
      }
    },
    "/api/call_email/{id}/draft/": {
      "post": {
        "tags": ["call_email"],
        "summary": "Save a call/email draft",
        "consumes": ["application/json"],
        "produces": ["application/json"],
        "parameters": [
          {"in": "path", "name": "id", "type": "integer", "required": true},
          {"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/models.CallEmail"}}
        ],
        "responses": {
          "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.CallEmail"}},
          "400": {"description": "Field errors", "schema": {"$ref": "#/definitions/fieldErrors"}}
        }
      }
    },
    "/api/call_email/{id}/call_email_save_person/": {
      "post": {
        "tags": ["call_email"],
        "summary": "Save the reporter of a call/email record",
        "consumes": ["application/json"],
        "produces": ["application/json"],
        "parameters": [
          {"in": "path", "name": "id", "type": "integer", "required": true},
          {"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/models.CallEmail"}}
        ],
        "responses": {
          "200": {"description": "OK", "schema": {"type": "object"}},
          "400": {"description": "Field errors", "schema": {"$ref": "#/definitions/fieldErrors"}}
        }
      }
    },
    "/api/classification/": {"get": {"tags": ["reference"], "summary": "Classification choices", "produces": ["application/json"], "responses": {"200": {"description": "OK"}}}},
    "/api/call_types/": {"get": {"tags": ["reference"], "summary": "Call type choices", "produces": ["application/json"], "responses": {"200": {"description": "OK"}}}},
    "/api/report_types/": {"get": {"tags": ["reference"], "summary": "Report type choices", "produces": ["application/json"], "responses": {"200": {"description": "OK"}}}},
    "/api/referrers/": {"get": {"tags": ["reference"], "summary": "Referrer choices", "produces": ["application/json"], "responses": {"200": {"description": "OK"}}}},
    "/api/status_choices/": {"get": {"tags": ["reference"], "summary": "Status choices", "produces": ["application/json"], "responses": {"200": {"description": "OK"}}}}
  },
  "definitions": {
    "fieldErrors": {
      "type": "object",
      "additionalProperties": {"type": "array", "items": {"type": "string"}}
    },
    "models.CallEmail": {
      "type": "object",
      "properties": {
        "id": {"type": "integer"},
        "number": {"type": "string"},
        "location": {"type": "object"},
        "location_id": {"type": "integer"},
        "email_user": {"type": "object"},
        "occurrence_date_from": {"type": "string", "example": "2024-03-05"},
        "occurrence_time_start": {"type": "string", "example": "13:05"},
        "occurrence_date_to": {"type": "string"},
        "occurrence_time_end": {"type": "string"},
        "date_of_call": {"type": "string"},
        "time_of_call": {"type": "string"},
        "schema": {"type": "array", "items": {"type": "object"}},
        "renderer_data": {"type": "object"}
      }
    }
  }
}`

func init() {
	swag.Register(swag.Name, &s{})
}

type s struct{}

func (s *s) ReadDoc() string {
	return docTemplate
}

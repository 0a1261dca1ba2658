// Package docs holds the Swagger 2.0 document served under /swagger. It is
// maintained by hand alongside the handler annotations in cmd/gateway.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
	"schemes": {{ marshal .Schemes }},
	"swagger": "2.0",
	"info": {
		"description": "{{escape .Description}}",
		"title": "{{.Title}}",
		"contact": {},
		"license": {
			"name": "Apache 2.0",
			"url": "http://www.apache.org/licenses/LICENSE-2.0.html"
		},
		"version": "{{.Version}}"
	},
	"host": "{{.Host}}",
	"basePath": "{{.BasePath}}",
	"paths": {
		"/isbn/parse": {
			"get": {
				"produces": [
					"application/json"
				],
				"tags": [
					"isbn"
				],
				"summary": "Parse free text into a decomposed ISBN",
				"parameters": [
					{
						"type": "string",
						"description": "Text containing one ISBN",
						"name": "q",
						"in": "query",
						"required": true
					},
					{
						"type": "string",
						"description": "legacy, 2005 or 2017",
						"name": "standard",
						"in": "query"
					},
					{
						"type": "string",
						"description": "ISBN, ISBN-13 or ISBN-10 (2005 only)",
						"name": "format",
						"in": "query"
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/main.ParseResponse"
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/main.APIError"
						}
					},
					"422": {
						"description": "Unprocessable Entity",
						"schema": {
							"$ref": "#/definitions/main.APIError"
						}
					}
				},
				"security": [
					{
						"ApiKeyAuth": []
					},
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/isbn/validate": {
			"get": {
				"produces": [
					"application/json"
				],
				"tags": [
					"isbn"
				],
				"summary": "Report whether text holds a valid ISBN",
				"parameters": [
					{
						"type": "string",
						"description": "Text containing one ISBN",
						"name": "q",
						"in": "query",
						"required": true
					},
					{
						"type": "string",
						"description": "legacy, 2005 or 2017",
						"name": "standard",
						"in": "query"
					}
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				},
				"security": [
					{
						"ApiKeyAuth": []
					},
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/isbn/check-digit": {
			"get": {
				"produces": [
					"application/json"
				],
				"tags": [
					"isbn"
				],
				"summary": "Compute the check character for 9 or 12 digits",
				"parameters": [
					{
						"type": "string",
						"description": "9 or 12 decimal digits",
						"name": "digits",
						"in": "query",
						"required": true
					}
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/main.APIError"
						}
					},
					"422": {
						"description": "Unprocessable Entity",
						"schema": {
							"$ref": "#/definitions/main.APIError"
						}
					}
				},
				"security": [
					{
						"ApiKeyAuth": []
					},
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/isbn/batch": {
			"post": {
				"consumes": [
					"application/json"
				],
				"produces": [
					"application/json"
				],
				"tags": [
					"isbn"
				],
				"summary": "Parse many inputs in one call",
				"parameters": [
					{
						"description": "Items to parse",
						"name": "request",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/main.batchRequest"
						}
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"type": "array",
							"items": {
								"$ref": "#/definitions/isbn.Result"
							}
						}
					}
				},
				"security": [
					{
						"ApiKeyAuth": []
					},
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/groups": {
			"get": {
				"produces": [
					"application/json"
				],
				"tags": [
					"groups"
				],
				"summary": "List registration groups, or the known prefixes when none is given",
				"parameters": [
					{
						"type": "string",
						"description": "GS1 prefix such as 978",
						"name": "prefix",
						"in": "query"
					}
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				},
				"security": [
					{
						"ApiKeyAuth": []
					},
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/groups/search": {
			"get": {
				"produces": [
					"application/json"
				],
				"tags": [
					"groups"
				],
				"summary": "Full-text search over agency names",
				"parameters": [
					{
						"type": "string",
						"description": "Query string, e.g. finland or +prefix:979 +agency:italy",
						"name": "q",
						"in": "query",
						"required": true
					},
					{
						"type": "integer",
						"description": "Maximum hits",
						"name": "limit",
						"in": "query"
					}
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				},
				"security": [
					{
						"ApiKeyAuth": []
					},
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/records": {
			"get": {
				"produces": [
					"application/json"
				],
				"tags": [
					"records"
				],
				"summary": "List stored records",
				"parameters": [
					{
						"type": "integer",
						"description": "Page size",
						"name": "limit",
						"in": "query"
					},
					{
						"type": "integer",
						"description": "Records to skip",
						"name": "offset",
						"in": "query"
					}
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				},
				"security": [
					{
						"ApiKeyAuth": []
					},
					{
						"BearerAuth": []
					}
				]
			},
			"post": {
				"consumes": [
					"application/json"
				],
				"produces": [
					"application/json"
				],
				"tags": [
					"records"
				],
				"summary": "Validate an ISBN and store it with its metadata",
				"parameters": [
					{
						"description": "Record",
						"name": "request",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/main.createRecordRequest"
						}
					}
				],
				"responses": {
					"201": {
						"description": "Created",
						"schema": {
							"$ref": "#/definitions/provider.Record"
						}
					},
					"409": {
						"description": "Conflict",
						"schema": {
							"$ref": "#/definitions/main.APIError"
						}
					},
					"422": {
						"description": "Unprocessable Entity",
						"schema": {
							"$ref": "#/definitions/main.APIError"
						}
					}
				},
				"security": [
					{
						"ApiKeyAuth": []
					},
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/records/stats": {
			"get": {
				"produces": [
					"application/json"
				],
				"tags": [
					"records"
				],
				"summary": "Count stored records per registration agency",
				"parameters": [],
				"responses": {
					"200": {
						"description": "OK"
					}
				},
				"security": [
					{
						"ApiKeyAuth": []
					},
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/records/{isbn}": {
			"get": {
				"produces": [
					"application/json"
				],
				"tags": [
					"records"
				],
				"summary": "Fetch one record by ISBN in any accepted form",
				"parameters": [
					{
						"type": "string",
						"description": "ISBN-10 or ISBN-13",
						"name": "isbn",
						"in": "path",
						"required": true
					}
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"404": {
						"description": "Not Found",
						"schema": {
							"$ref": "#/definitions/main.APIError"
						}
					}
				},
				"security": [
					{
						"ApiKeyAuth": []
					},
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/marc/isbns": {
			"post": {
				"consumes": [
					"application/octet-stream"
				],
				"produces": [
					"application/json"
				],
				"tags": [
					"marc"
				],
				"summary": "Extract and validate the ISBNs of a MARC record",
				"parameters": [
					{
						"type": "string",
						"description": "auto, marc21, cnmarc or unimarc",
						"name": "profile",
						"in": "query"
					},
					{
						"type": "string",
						"description": "Charset label for non-UTF-8 records",
						"name": "charset",
						"in": "query"
					}
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/main.APIError"
						}
					}
				},
				"security": [
					{
						"ApiKeyAuth": []
					},
					{
						"BearerAuth": []
					}
				]
			}
		}
	},
	"definitions": {
		"isbn.Identifier": {
			"type": "object",
			"properties": {
				"gs1": {
					"type": "string"
				},
				"group": {
					"type": "string"
				},
				"registrant": {
					"type": "string"
				},
				"publication": {
					"type": "string"
				},
				"check_digit": {
					"type": "string"
				},
				"digits": {
					"type": "string"
				},
				"hyphenated": {
					"type": "string"
				}
			}
		},
		"isbn.Result": {
			"type": "object",
			"properties": {
				"input": {
					"type": "string"
				},
				"isbn": {
					"$ref": "#/definitions/isbn.Identifier"
				},
				"agency": {
					"type": "string"
				},
				"error": {
					"type": "string"
				},
				"kind": {
					"type": "string"
				}
			}
		},
		"main.APIError": {
			"type": "object",
			"properties": {
				"code": {
					"type": "integer"
				},
				"message": {
					"type": "string"
				},
				"detail": {
					"type": "string"
				}
			}
		},
		"main.ParseResponse": {
			"type": "object",
			"properties": {
				"input": {
					"type": "string"
				},
				"standard": {
					"type": "string"
				},
				"formatted": {
					"type": "string"
				},
				"isbn": {
					"$ref": "#/definitions/isbn.Identifier"
				},
				"isbn10": {
					"type": "string"
				},
				"agency": {
					"type": "string"
				}
			}
		},
		"main.batchRequest": {
			"type": "object",
			"required": [
				"items"
			],
			"properties": {
				"items": {
					"type": "array",
					"items": {
						"type": "string"
					}
				},
				"standard": {
					"type": "string"
				}
			}
		},
		"main.createRecordRequest": {
			"type": "object",
			"required": [
				"isbn"
			],
			"properties": {
				"isbn": {
					"type": "string"
				},
				"title": {
					"type": "string"
				},
				"source": {
					"type": "string"
				}
			}
		},
		"provider.Record": {
			"type": "object",
			"properties": {
				"id": {
					"type": "integer"
				},
				"isbn": {
					"$ref": "#/definitions/isbn.Identifier"
				},
				"title": {
					"type": "string"
				},
				"source": {
					"type": "string"
				},
				"agency": {
					"type": "string"
				},
				"created_at": {
					"type": "string"
				}
			}
		}
	},
	"securityDefinitions": {
		"ApiKeyAuth": {
			"type": "apiKey",
			"name": "X-API-Key",
			"in": "header"
		},
		"BearerAuth": {
			"type": "apiKey",
			"name": "Authorization",
			"in": "header"
		}
	}
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8899",
	BasePath:         "/api",
	Schemes:          []string{},
	Title:            "Open ISBN Gateway API",
	Description:      "Parse, validate and catalogue ISBNs (ISO 2108).",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}

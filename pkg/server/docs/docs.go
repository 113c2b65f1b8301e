// Package docs holds the OpenAPI document served under /swagger. It is kept
// by hand in the layout swag init emits; update it alongside the handler
// annotations in cmd/pdfagent/main.go and pkg/server.
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
        "/2015-03-31/functions/{function}/invocations": {
            "post": {
                "description": "Runs the function once with the JSON payload as its request and returns its response",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "invocations"
                ],
                "summary": "Invoke a function",
                "parameters": [
                    {
                        "type": "string",
                        "description": "function name, or \"function\" for the default",
                        "name": "function",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "object",
                            "additionalProperties": true
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/model.InvocationError"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/server.HTTPError"
                        }
                    },
                    "500": {
                        "description": "Internal Server Error",
                        "schema": {
                            "$ref": "#/definitions/model.InvocationError"
                        }
                    }
                }
            }
        },
        "/{path}": {
            "get": {
                "description": "Any request that matches no other route is wrapped as an API Gateway proxy event and handled by the default function",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "proxy"
                ],
                "summary": "Proxy a request to the default function",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/model.ProxyResponse"
                        }
                    },
                    "500": {
                        "description": "Internal Server Error",
                        "schema": {
                            "$ref": "#/definitions/model.InvocationError"
                        }
                    }
                }
            }
        }
    },
    "definitions": {
        "model.InvocationError": {
            "type": "object",
            "properties": {
                "errorMessage": {
                    "type": "string",
                    "example": "handler \"lambda_handler\" failed: boom"
                },
                "errorType": {
                    "type": "string",
                    "example": "HandlerError"
                }
            }
        },
        "model.ProxyResponse": {
            "type": "object",
            "properties": {
                "body": {
                    "type": "string",
                    "example": "pong"
                },
                "headers": {
                    "type": "object",
                    "additionalProperties": {
                        "type": "string"
                    }
                },
                "statusCode": {
                    "type": "integer",
                    "example": 200
                }
            }
        },
        "server.HTTPError": {
            "type": "object",
            "properties": {
                "code": {
                    "type": "integer",
                    "example": 400
                },
                "message": {
                    "type": "string",
                    "example": "status bad request"
                }
            }
        }
    },
    "securityDefinitions": {
        "ApiKeyAuth": {
            "description": "API key for the /api routes",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "0.1",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "PDF Agent API",
	Description:      "Hosts the lambda_handler function: PDF parsing with a Gemini agent",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}

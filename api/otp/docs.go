// Package otp registers the Swagger document for the public Nabda OTP API.
// The dashboard serves it at /swagger/.
package otp

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "Nabda OTP",
            "url": "https://nabdaotp.com"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/messages/send": {
            "post": {
                "security": [
                    {
                        "InstanceKey": []
                    }
                ],
                "description": "Queues a message for delivery over the instance's linked WhatsApp account.",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "Messages"
                ],
                "summary": "Send a message",
                "parameters": [
                    {
                        "description": "Recipient and text",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/otp.SendMessageRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Queued message",
                        "schema": {
                            "$ref": "#/definitions/otp.SendMessageResponse"
                        }
                    },
                    "400": {
                        "description": "Invalid phone or message",
                        "schema": {
                            "$ref": "#/definitions/otp.ErrorResponse"
                        }
                    },
                    "401": {
                        "description": "Missing or invalid API key"
                    }
                }
            }
        },
        "/messages": {
            "get": {
                "security": [
                    {
                        "InstanceKey": []
                    },
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "Lists messages sent by the instance, newest first.",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "Messages"
                ],
                "summary": "List messages",
                "parameters": [
                    {
                        "enum": [
                            "queued",
                            "sent",
                            "invalid"
                        ],
                        "type": "string",
                        "description": "Filter by delivery status",
                        "name": "status",
                        "in": "query"
                    },
                    {
                        "type": "integer",
                        "description": "Page number, starting at 1",
                        "name": "page",
                        "in": "query"
                    },
                    {
                        "type": "integer",
                        "description": "Page size",
                        "name": "limit",
                        "in": "query"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "One page of messages",
                        "schema": {
                            "$ref": "#/definitions/otp.MessagesPage"
                        }
                    },
                    "401": {
                        "description": "Missing or invalid credential"
                    }
                }
            }
        }
    },
    "definitions": {
        "otp.SendMessageRequest": {
            "type": "object",
            "required": [
                "message",
                "phone"
            ],
            "properties": {
                "phone": {
                    "type": "string",
                    "example": "+201012345678"
                },
                "message": {
                    "type": "string",
                    "example": "Your verification code is 123456"
                }
            }
        },
        "otp.Message": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "string",
                    "example": "msg_abc123def456"
                },
                "phone": {
                    "type": "string"
                },
                "message": {
                    "type": "string"
                },
                "status": {
                    "type": "string",
                    "enum": [
                        "queued",
                        "sent",
                        "invalid"
                    ]
                },
                "createdAt": {
                    "type": "string",
                    "format": "date-time"
                }
            }
        },
        "otp.SendMessageResponse": {
            "type": "object",
            "properties": {
                "success": {
                    "type": "boolean"
                },
                "data": {
                    "$ref": "#/definitions/otp.Message"
                }
            }
        },
        "otp.MessagesPage": {
            "type": "object",
            "properties": {
                "data": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/otp.Message"
                    }
                },
                "total": {
                    "type": "integer"
                },
                "page": {
                    "type": "integer"
                },
                "limit": {
                    "type": "integer"
                }
            }
        },
        "otp.ErrorResponse": {
            "type": "object",
            "properties": {
                "success": {
                    "type": "boolean"
                },
                "message": {
                    "type": "string"
                }
            }
        }
    },
    "securityDefinitions": {
        "InstanceKey": {
            "description": "Instance API key, sent as-is: \"Authorization: YOUR_INSTANCE_API_KEY\".",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        },
        "BearerAuth": {
            "description": "Dashboard session token. Format: \"Bearer {token}\".",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "api.nabdaotp.com",
	BasePath:         "/api/v1",
	Schemes:          []string{"https"},
	Title:            "Nabda OTP API",
	Description:      "Send one-time passwords over WhatsApp and track their delivery.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}

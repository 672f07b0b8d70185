// Package docs holds the OpenAPI document served under /swagger.
//
// The template is rewritten by `swag init` from the handler annotations:
//
//	swag init -g cmd/server/main.go -o docs --v3.1 --parseInternal
package docs

import "github.com/swaggo/swag/v2"

//go:generate swag init -g ../cmd/server/main.go -d .. -o . --v3.1 --parseInternal

const docTemplate = `{
    "openapi": "3.1.0",
    "info": {
        "title": "{{.Title}}",
        "description": "{{escape .Description}}",
        "contact": {
            "name": "API Support",
            "url": "https://github.com/anu-devcode/deploy-test-sub002"
        },
        "license": {
            "name": "Apache 2.0",
            "url": "http://www.apache.org/licenses/LICENSE-2.0.html"
        },
        "version": "{{.Version}}"
    },
    "servers": [
        {
            "url": "//{{.Host}}{{.BasePath}}"
        }
    ],
    "paths": {},
    "components": {
        "securitySchemes": {
            "BearerAuth": {
                "type": "apiKey",
                "description": "Bearer token authentication. Format: \"Bearer {token}\"",
                "name": "Authorization",
                "in": "header"
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Shop Backend API",
	Description:      "Multi-tenant e-commerce backend: catalog, carts, transactional checkout, orders, payments, inventory, reviews and automation rules.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}

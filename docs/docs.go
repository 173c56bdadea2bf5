// Package docs expone la especificación OpenAPI de la API embebida en el binario.
package docs

import _ "embed"

// SwaggerJSON es docs/swagger.json; sigue las anotaciones @Router de los handlers.
//
//go:embed swagger.json
var SwaggerJSON []byte

package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// apiDoc is docs/api/openapi.yaml as read by cmd/api at startup.
var apiDoc []byte

// SetSwaggerSpec installs the wallet API document. Without one, /swagger/spec
// answers 404 and the UI page renders empty.
func SetSwaggerSpec(doc []byte) {
	apiDoc = doc
}

// SwaggerSpec serves the wallet API document as YAML.
func SwaggerSpec(c *gin.Context) {
	if apiDoc == nil {
		c.String(http.StatusNotFound, "OpenAPI spec not loaded")
		return
	}
	c.Data(http.StatusOK, "application/x-yaml", apiDoc)
}

// SwaggerUI serves a Swagger UI page pointed at /swagger/spec.
func SwaggerUI(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(swaggerPage))
}

const swaggerPage = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <title>Multi-currency Wallet - API Docs</title>
  <link rel="stylesheet" href="https://cdn.jsdelivr.net/npm/swagger-ui-dist@5/swagger-ui.css">
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://cdn.jsdelivr.net/npm/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    SwaggerUIBundle({
      url: '/swagger/spec',
      dom_id: '#swagger-ui',
      presets: [SwaggerUIBundle.presets.apis, SwaggerUIBundle.SwaggerUIStandalonePreset],
      layout: 'BaseLayout',
      tryItOutEnabled: true
    });
  </script>
</body>
</html>`

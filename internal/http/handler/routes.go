package handler

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"

	"github.com/llsaimur/papertrails/internal/service"
)

// RegisterRoutes attaches HTTP routes to the provided Fiber app. Everything
// under /documents and /categories requires the auth middleware; account
// bootstrap endpoints are public.
func RegisterRoutes(app *fiber.App, db *sql.DB, docSvc service.DocumentService, catSvc service.CategoryService, userSvc service.UserService, auth fiber.Handler) {
	// Serve OpenAPI spec and Swagger UI
	app.Get("/openapi.yaml", func(c *fiber.Ctx) error {
		c.Type("yaml")
		return c.SendFile("openapi.yaml")
	})
	app.Get("/docs", func(c *fiber.Ctx) error {
		html := `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>API Docs</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    window.ui = SwaggerUIBundle({
      url: '/openapi.yaml',
      dom_id: '#swagger-ui',
      presets: [SwaggerUIBundle.presets.apis],
      layout: 'BaseLayout'
    });
  </script>
</body>
</html>`
		return c.Type("html").SendString(html)
	})

	// Readiness (DB connectivity) and plain liveness
	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", LivenessProbe())

	// Account bootstrap is public; profile endpoints are not.
	app.Post("/users/register", RegisterUser(userSvc))
	app.Post("/users/login", LoginUser(userSvc))
	app.Post("/users/password-reset", SendPasswordReset(userSvc))
	app.Get("/users/me", auth, Me(userSvc))
	app.Put("/users/email", auth, UpdateEmail(userSvc))

	docs := app.Group("/documents", auth)
	docs.Get("/", ListDocuments(docSvc))
	docs.Post("/", UploadDocument(docSvc))
	// Registered before /:id so "status" is not captured as an id.
	docs.Get("/status/:taskId", GetDocumentStatus(docSvc))
	docs.Get("/:id", GetDocument(docSvc))
	docs.Put("/:id", UpdateDocument(docSvc))
	docs.Delete("/:id", DeleteDocument(docSvc))
	docs.Patch("/:id/important", MarkDocumentImportant(docSvc))
	docs.Get("/:id/download", DownloadDocument(docSvc))

	cats := app.Group("/categories", auth)
	cats.Get("/", ListCategories(catSvc))
	cats.Post("/", CreateCategory(catSvc))
	cats.Get("/:id", GetCategory(catSvc))
	cats.Put("/:id", UpdateCategory(catSvc))
	cats.Delete("/:id", DeleteCategory(catSvc))
}

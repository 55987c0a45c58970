package handler

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"docgen/internal/model"
	"docgen/internal/service"
)

// FallbackHeader advises the caller that the delivered format differs from
// the requested one.
const FallbackHeader = "X-Format-Fallback"

// HealthCheck reports readiness: the database must answer a ping.
func HealthCheck(db *sql.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			return writeError(c, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "dependency unavailable")
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "healthy"})
	}
}

// LivenessProbe is a bare liveness check.
func LivenessProbe() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	}
}

// UploadTemplate replaces the template slot for a document kind
// (multipart/form-data, field name: file).
func UploadTemplate(svc service.TemplateService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		kind, err := model.ParseDocumentKind(c.Params("kind"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_KIND", "unknown document kind")
		}

		fh, err := c.FormFile("file")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_UPLOAD", "file is required")
		}
		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_UPLOAD", "cannot open uploaded file")
		}
		defer f.Close()

		tmpl, err := svc.Upload(c.UserContext(), kind, f, fh.Filename, fh.Size)
		if err != nil {
			if errors.Is(err, service.ErrInvalidUpload) {
				return writeError(c, fiber.StatusBadRequest, "INVALID_UPLOAD", "template must be a non-empty .docx file")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.Status(fiber.StatusCreated).JSON(tmpl)
	}
}

// ListTemplates returns the configured template slots.
func ListTemplates(svc service.TemplateService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		res, err := svc.List(c.UserContext())
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		if res == nil {
			res = []model.Template{}
		}
		return c.JSON(res)
	}
}

// DeleteTemplate clears the slot for a document kind. Clearing a vacant
// slot still returns 204.
func DeleteTemplate(svc service.TemplateService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		kind, err := model.ParseDocumentKind(c.Params("kind"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_KIND", "unknown document kind")
		}
		if err := svc.Clear(c.UserContext(), kind); err != nil {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// RenderDocument produces a deliverable from the JSON record in the body.
// The requested format is advisory: when conversion is unavailable the
// response carries the docx bytes and a fallback header.
func RenderDocument(svc service.RenderService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		kind, err := model.ParseDocumentKind(c.Params("kind"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_KIND", "unknown document kind")
		}
		format, err := model.ParseFormat(c.Query("format"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "unknown format")
		}

		var art *model.Artifact
		switch kind {
		case model.KindProposal:
			var rec model.Proposal
			if err := c.BodyParser(&rec); err != nil {
				return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "malformed record body")
			}
			art, err = svc.RenderProposal(c.UserContext(), &rec, format)
		case model.KindBilling:
			var rec model.Billing
			if err := c.BodyParser(&rec); err != nil {
				return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "malformed record body")
			}
			art, err = svc.RenderBilling(c.UserContext(), &rec, format)
		}
		if err != nil {
			switch {
			case errors.Is(err, service.ErrNoTemplate):
				return writeError(c, fiber.StatusNotFound, "NO_TEMPLATE", "no template configured for this kind")
			case errors.Is(err, service.ErrMalformedTemplate):
				return writeError(c, fiber.StatusUnprocessableEntity, "MALFORMED_TEMPLATE", "stored template cannot be rendered")
			default:
				return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
			}
		}

		if art.Fallback {
			c.Set(FallbackHeader, string(model.FormatDocx))
		}
		c.Set(fiber.HeaderContentType, art.ContentType)
		c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+art.Filename+`"`)
		return c.Status(fiber.StatusOK).Send(art.Bytes)
	}
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
func RegisterRoutes(app *fiber.App, db *sql.DB, tmplSvc service.TemplateService, renderSvc service.RenderService) {
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

	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", LivenessProbe())

	app.Post("/templates/:kind", UploadTemplate(tmplSvc))
	app.Get("/templates", ListTemplates(tmplSvc))
	app.Delete("/templates/:kind", DeleteTemplate(tmplSvc))

	app.Post("/render/:kind", RenderDocument(renderSvc))
}

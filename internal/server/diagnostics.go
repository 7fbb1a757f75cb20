package server

import (
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type sourcePayload struct {
	Name      string `json:"name"`
	File      string `json:"file"`
	URL       string `json:"url"`
	FinalPath string `json:"final_path"`
	TempPath  string `json:"temp_path"`
}

// registerDiagnostics 暴露 /-/sources 与 /-/metrics 诊断接口。
func registerDiagnostics(app *fiber.App, opts AppOptions) {
	app.Get("/-/sources", func(c fiber.Ctx) error {
		list := opts.Sources.List()
		payload := make([]sourcePayload, 0, len(list))
		for _, src := range list {
			slot, err := opts.Cache.Slot(src.File)
			if err != nil {
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "invalid_slot", "source": src.Name})
			}
			payload = append(payload, sourcePayload{
				Name:      src.Name,
				File:      src.File,
				URL:       src.URL,
				FinalPath: slot.FinalPath,
				TempPath:  slot.TempPath,
			})
		}
		return c.JSON(fiber.Map{"sources": payload})
	})

	if opts.Gatherer != nil {
		app.Get("/-/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{})))
	}
}

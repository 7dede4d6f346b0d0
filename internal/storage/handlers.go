package storage

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"backend-communitymap/internal/auth"
	"backend-communitymap/internal/imaging"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, store Store, maxUploadBytes int64, authMiddleware fiber.Handler) {
	r.Post("/upload", authMiddleware, func(c *fiber.Ctx) error {
		kind := c.FormValue("kind")
		preset, ok := imaging.PresetFor(kind)
		if !ok {
			return fiber.NewError(fiber.StatusBadRequest, "kind must be avatar, cover or marker")
		}

		fh, err := c.FormFile("file")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "nenhum arquivo selecionado")
		}
		f, err := fh.Open()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		defer f.Close()

		// Read one byte past the limit so oversized uploads are rejected
		// without buffering the whole file.
		data, err := io.ReadAll(io.LimitReader(f, maxUploadBytes+1))
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}

		if err := imaging.Validate(data, maxUploadBytes); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		jpg, err := imaging.Transcode(data, preset.MaxDimension, preset.Quality)
		if err != nil {
			if errors.Is(err, imaging.ErrDecodeFailed) {
				return fiber.NewError(fiber.StatusUnprocessableEntity, "não foi possível processar a imagem")
			}
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}

		key := fmt.Sprintf("%s/%s_%d", kind, auth.CallerID(c), time.Now().UnixNano())
		locator, err := store.Put(c.Context(), key, jpg, "image/jpeg")
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"key": key,
			"url": locator,
		})
	})

	r.Get("/objects/+", func(c *fiber.Ctx) error {
		key := strings.TrimPrefix(c.Params("+"), "/")
		data, contentType, err := store.Get(c.Context(), key)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "object not found")
			}
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		c.Set("Content-Type", contentType)
		return c.Send(data)
	})
}

package controllers

import (
	"errors"
	"strconv"

	"stock-app/services"

	"github.com/gofiber/fiber/v2"
)

// transitionError maps the engine's typed errors onto HTTP responses. The
// retryable flag tells clients whether repeating the same request can help.
func transitionError(ctx *fiber.Ctx, err error) error {
	var (
		insufficient *services.InsufficientStockError
		invalidQty   *services.InvalidQuantityError
		unknown      *services.UnknownItemError
		contention   *services.ContentionTimeoutError
		missingCfg   *services.ConfigurationMissingError
	)

	switch {
	case errors.As(err, &insufficient):
		return ctx.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error":     err.Error(),
			"item":      insufficient.Item,
			"bucket":    insufficient.Bucket,
			"requested": insufficient.Requested,
			"available": insufficient.Available,
			"retryable": false,
		})
	case errors.As(err, &invalidQty):
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":     err.Error(),
			"retryable": false,
		})
	case errors.As(err, &unknown):
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error":     err.Error(),
			"retryable": false,
		})
	case errors.As(err, &contention):
		return ctx.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error":     err.Error(),
			"retryable": true,
		})
	case errors.As(err, &missingCfg):
		return ctx.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error":     err.Error(),
			"retryable": false,
		})
	}

	return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error":     err.Error(),
		"retryable": false,
	})
}

func pagination(ctx *fiber.Ctx) (page, limit int) {
	page, _ = strconv.Atoi(ctx.Query("page", "1"))
	limit, _ = strconv.Atoi(ctx.Query("limit", "10"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 500 {
		limit = 10
	}
	return page, limit
}

package httpapi

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/holiday-planner/internal/holiday"
	"github.com/i474232898/holiday-planner/internal/store"
)

var validate = validator.New()

// ErrorHandler renders every error as {"error": true, "message": ...}.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
	}
	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": err.Error(),
	})
}

// RegisterRoutes wires the read-only holiday handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, st *store.HolidayStore) {
	v1 := app.Group("/api/v1")

	v1.Get("/holidays", func(c *fiber.Ctx) error {
		records := st.All()
		if raw := c.Query("year"); raw != "" {
			year, err := strconv.Atoi(raw)
			if err != nil || year < 1 {
				return fiber.NewError(fiber.StatusBadRequest, "year must be a positive integer")
			}
			records = st.FilterByYear(year)
		}
		return c.JSON(fiber.Map{
			"count":    len(records),
			"holidays": records,
		})
	})

	v1.Get("/holidays/week", func(c *fiber.Ctx) error {
		var req weekQuery
		if err := req.bind(c); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		records, err := st.FilterByWeek(req.Year, req.Week)
		if err != nil {
			if errors.Is(err, holiday.ErrInvalidInput) {
				return fiber.NewError(fiber.StatusBadRequest, err.Error())
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to filter holidays")
		}
		return c.JSON(fiber.Map{
			"year":     req.Year,
			"week":     req.Week,
			"holidays": records,
		})
	})

	v1.Get("/holidays/lookup", func(c *fiber.Ctx) error {
		var req lookupQuery
		req.Name = c.Query("name")
		req.Date = c.Query("date")
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		day, err := holiday.ParseDate(req.Date)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		rec, err := st.Find(req.Name, day)
		if err != nil {
			if errors.Is(err, holiday.ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "holiday not found")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to look up holiday")
		}
		return c.JSON(rec)
	})
}

// weekQuery holds query parameters for the week endpoint.
type weekQuery struct {
	Year int `validate:"required,min=1"`
	Week int `validate:"required,min=1,max=53"`
}

func (q *weekQuery) bind(c *fiber.Ctx) error {
	var err error
	if q.Year, err = intQuery(c, "year"); err != nil {
		return err
	}
	if q.Week, err = intQuery(c, "week"); err != nil {
		return err
	}
	return nil
}

// lookupQuery holds query parameters for the lookup endpoint.
type lookupQuery struct {
	Name string `validate:"required"`
	Date string `validate:"required"`
}

func intQuery(c *fiber.Ctx, key string) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return 0, fmt.Errorf("%s query parameter is required", key)
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer", key)
	}
	return n, nil
}

package httpapi

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/nvoropaev/pulsefeed/internal/feed"
	"github.com/nvoropaev/pulsefeed/internal/observability"
	"github.com/nvoropaev/pulsefeed/internal/ratelimit"
)

var validate = validator.New()

// msgDataUnavailable is returned by the aggregation endpoint when any
// source table is empty, i.e. the seeder has not populated the store.
const msgDataUnavailable = "Data not available. Please try again later."

// ErrorHandler is the app-wide fiber error handler. Every failure
// response carries a JSON body of the form {"error": <message>}.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}
	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
	})
}

// RegisterRoutes wires the HTTP handlers into the Fiber app. The two data
// endpoints are guarded by the fixed-window rate limiter; the root path
// redirects to the aggregation endpoint.
func RegisterRoutes(app *fiber.App, service *feed.Service, limiter *ratelimit.Limiter, fallbackCity string) {
	limited := RateLimit(limiter)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.Redirect("/aggregated-data", fiber.StatusFound)
	})

	app.Get("/aggregated-data", limited, func(c *fiber.Ctx) error {
		data, err := service.Aggregate(c.UserContext())
		if err != nil {
			if errors.Is(err, feed.ErrNoData) {
				return fiber.NewError(fiber.StatusInternalServerError, msgDataUnavailable)
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to read aggregated data")
		}

		return c.JSON(data)
	})

	app.Get("/weather", limited, func(c *fiber.Ctx) error {
		city, err := parseWeatherQuery(c, fallbackCity)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		reading, err := service.CurrentWeather(c.UserContext(), city)
		if err != nil {
			if errors.Is(err, feed.ErrNoCondition) {
				return fiber.NewError(fiber.StatusBadRequest, err.Error())
			}
			observability.UpstreamFailuresTotal.WithLabelValues("weather").Inc()
			// Surface the upstream error message where available.
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}

		return c.JSON(reading)
	})
}

// weatherQuery holds query parameters for the dynamic weather endpoint.
type weatherQuery struct {
	City string `validate:"omitempty,min=1,max=85"`
}

// parseWeatherQuery binds and validates the city parameter, falling back
// to the configured default city when absent.
func parseWeatherQuery(c *fiber.Ctx, fallbackCity string) (string, error) {
	q := weatherQuery{City: c.Query("city")}

	if err := validate.Struct(q); err != nil {
		return "", err
	}

	if q.City == "" {
		return fallbackCity, nil
	}
	return q.City, nil
}

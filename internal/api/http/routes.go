package httpapi

import (
	"context"
	"errors"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/surf-report/internal/marine"
	"github.com/i474232898/surf-report/internal/stations"
	"github.com/i474232898/surf-report/internal/sun"
)

var validate = validator.New()

// ReportBuilder is the part of marine.Service the API needs.
type ReportBuilder interface {
	BuildReport(ctx context.Context, loc marine.Location) (*marine.Report, error)
}

// RegisterRoutes wires the HTTP handlers into the Fiber app. spot is used for
// any coordinate the request leaves out.
func RegisterRoutes(app *fiber.App, builder ReportBuilder, spot marine.Location) {
	v1 := app.Group("/api/v1")

	v1.Get("/report", func(c *fiber.Ctx) error {
		q, err := parseSpotQuery(c, spot)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		rep, err := builder.BuildReport(c.UserContext(), q.toLocation())
		if err != nil {
			if errors.Is(err, marine.ErrNoSwell) {
				return fiber.NewError(fiber.StatusServiceUnavailable, "no swell data available from any provider")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to build report")
		}

		return c.JSON(fiber.Map{
			"report": rep,
			"sun":    sun.Around(rep.Location.Latitude, rep.Location.Longitude, rep.GeneratedAt),
		})
	})

	v1.Get("/stations", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"tideStations": stations.TideStations(),
			"windBuoys":    stations.WindBuoys(),
		})
	})

	v1.Get("/stations/nearest", func(c *fiber.Ctx) error {
		q, err := parseSpotQuery(c, spot)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		resp := fiber.Map{"latitude": q.Latitude, "longitude": q.Longitude}
		if st, ok := stations.Nearest(q.Latitude, q.Longitude, stations.TideStations()); ok {
			resp["tideStation"] = st
		}
		if b, ok := stations.Nearest(q.Latitude, q.Longitude, stations.WindBuoys()); ok {
			resp["windBuoy"] = b
		}
		return c.JSON(resp)
	})
}

// spotQuery holds the optional query parameters identifying a spot.
type spotQuery struct {
	Name      string
	Latitude  float64 `validate:"gte=-90,lte=90"`
	Longitude float64 `validate:"gte=-180,lte=180"`
	SpotID    string  `validate:"omitempty,hexadecimal,len=24"`
}

func (q spotQuery) toLocation() marine.Location {
	return marine.Location{
		Name:      q.Name,
		Latitude:  q.Latitude,
		Longitude: q.Longitude,
		SpotID:    q.SpotID,
	}
}

// parseSpotQuery starts from def and applies lat, lng, name and spotId. A
// request that moves the coordinates without naming a spot gets no Surfline
// spot, since the default one belongs elsewhere.
func parseSpotQuery(c *fiber.Ctx, def marine.Location) (spotQuery, error) {
	q := spotQuery{
		Name:      def.Name,
		Latitude:  def.Latitude,
		Longitude: def.Longitude,
		SpotID:    def.SpotID,
	}

	lat, lng := c.Query("lat"), c.Query("lng")
	if (lat == "") != (lng == "") {
		return q, errors.New("lat and lng must be given together")
	}
	if lat != "" {
		var err error
		if q.Latitude, err = strconv.ParseFloat(lat, 64); err != nil {
			return q, errors.New("invalid lat")
		}
		if q.Longitude, err = strconv.ParseFloat(lng, 64); err != nil {
			return q, errors.New("invalid lng")
		}
		q.Name = ""
		q.SpotID = ""
	}
	if name := c.Query("name"); name != "" {
		q.Name = name
	}
	if id := c.Query("spotId"); id != "" {
		q.SpotID = id
	}

	if err := validate.Struct(q); err != nil {
		return q, err
	}
	return q, nil
}

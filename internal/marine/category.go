package marine

import "context"

// Report categories. Each provider is attempted at most once per category
// while a report is built.
const (
	CategorySwell       = "swell"
	CategoryWind        = "wind"
	CategoryTemperature = "temperature"
	CategoryTide        = "tide"
	CategoryRating      = "rating"
)

type categoryKey struct{}

// WithCategory tags ctx with the report category a provider call serves.
func WithCategory(ctx context.Context, category string) context.Context {
	return context.WithValue(ctx, categoryKey{}, category)
}

// CategoryFromContext returns the category set by WithCategory, or "".
func CategoryFromContext(ctx context.Context) string {
	c, _ := ctx.Value(categoryKey{}).(string)
	return c
}

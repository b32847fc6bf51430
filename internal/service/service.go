package service

import (
	"time"

	"github.com/rs/zerolog"

	"hourglass/internal/config"
	"hourglass/internal/models"
	"hourglass/internal/repository"
)

// base holds what every service needs.
type base struct {
	store repository.Store
	cfg   *config.AppConfig
	log   zerolog.Logger
	now   func() time.Time
	loc   *time.Location
}

type Option func(*base)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(b *base) { b.now = now }
}

func newBase(store repository.Store, cfg *config.AppConfig, log zerolog.Logger, opts ...Option) base {
	b := base{
		store: store,
		cfg:   cfg,
		log:   log,
		now:   time.Now,
		loc:   cfg.Location(),
	}
	for _, opt := range opts {
		opt(&b)
	}
	return b
}

func (b *base) clock() time.Time {
	return b.now().UTC()
}

// day is the calendar day of t in the configured timezone.
func (b *base) day(t time.Time) string {
	return t.In(b.loc).Format(models.DateLayout)
}

func (b *base) listLimit() int {
	if b.cfg.App.ListLimit > 0 {
		return b.cfg.App.ListLimit
	}
	return 1000
}

func parseDay(value string, field string) (string, error) {
	if _, err := time.Parse(models.DateLayout, value); err != nil {
		return "", invalidf("%s must be a YYYY-MM-DD date", field)
	}
	return value, nil
}

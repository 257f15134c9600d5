package testfixtures

import (
	"io"
	"log/slog"

	"github.com/example/academic-timetable/internal/application"
	"github.com/example/academic-timetable/internal/persistence"
	"github.com/example/academic-timetable/internal/scheduler"
)

// ServiceFactory assists tests with constructing application services over a store.
type ServiceFactory struct {
	Occupancy      scheduler.OccupancyFactory
	MaxStudentYear int
	Logger         *slog.Logger
}

// ServiceFactoryOption configures a ServiceFactory instance.
type ServiceFactoryOption func(*ServiceFactory)

// NewServiceFactory constructs a ServiceFactory with a discarding logger, the
// linear occupancy scan and three student years.
func NewServiceFactory(opts ...ServiceFactoryOption) *ServiceFactory {
	factory := &ServiceFactory{
		Occupancy:      scheduler.NewLinearScan,
		MaxStudentYear: 3,
		Logger:         DiscardLogger(),
	}
	for _, opt := range opts {
		opt(factory)
	}
	if factory.Logger == nil {
		factory.Logger = DiscardLogger()
	}
	return factory
}

// WithOccupancy overrides the occupancy strategy used by the validator.
func WithOccupancy(occupancy scheduler.OccupancyFactory) ServiceFactoryOption {
	return func(factory *ServiceFactory) {
		factory.Occupancy = occupancy
	}
}

// WithLogger overrides the logger handed to services.
func WithLogger(logger *slog.Logger) ServiceFactoryOption {
	return func(factory *ServiceFactory) {
		factory.Logger = logger
	}
}

// NewTimetableService builds a timetable service over store.
func (f *ServiceFactory) NewTimetableService(store application.ScheduleRepository) *application.TimetableService {
	return application.NewTimetableService(store, scheduler.NewValidator(f.Occupancy), f.Logger)
}

// NewCatalogService builds a catalog service over store.
func (f *ServiceFactory) NewCatalogService(store persistence.Store) *application.CatalogService {
	return application.NewCatalogService(store, f.MaxStudentYear, f.Logger)
}

// DiscardLogger returns a logger that drops everything.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

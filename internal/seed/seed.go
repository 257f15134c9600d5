// Package seed fills an empty catalog with starter reference data.
package seed

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/example/academic-timetable/internal/application"
)

// Catalog is the subset of the catalog service the seeder drives.
type Catalog interface {
	ListTeachers(ctx context.Context) ([]application.Teacher, error)
	CreateTeacher(ctx context.Context, input application.TeacherInput) (application.Teacher, error)
	ListRooms(ctx context.Context) ([]application.Room, error)
	CreateRoom(ctx context.Context, input application.RoomInput) (application.Room, error)
	ListStudentYears(ctx context.Context) ([]application.StudentYear, error)
	CreateStudentYear(ctx context.Context, input application.StudentYearInput) (application.StudentYear, error)
}

// Teachers are the starter teachers.
var Teachers = []string{"Popescu Ion", "Ionescu Maria", "Georgescu Ana"}

// Rooms are the starter rooms.
var Rooms = []application.RoomInput{
	{Name: "A1", IsCourseRoom: true},
	{Name: "Lab 101", IsCourseRoom: false},
}

// Result counts what Run created.
type Result struct {
	Teachers     int
	Rooms        int
	StudentYears int
}

// Run seeds each collection only when it is empty, so repeated runs are no-ops.
// Student years 1..maxStudentYear are created.
func Run(ctx context.Context, catalog Catalog, maxStudentYear int, logger *slog.Logger) (Result, error) {
	if logger == nil {
		logger = slog.Default()
	}
	var res Result

	teachers, err := catalog.ListTeachers(ctx)
	if err != nil {
		return res, fmt.Errorf("seed: list teachers: %w", err)
	}
	if len(teachers) == 0 {
		for _, name := range Teachers {
			if _, err := catalog.CreateTeacher(ctx, application.TeacherInput{Name: name}); err != nil {
				return res, fmt.Errorf("seed: teacher %q: %w", name, err)
			}
			res.Teachers++
		}
	}

	rooms, err := catalog.ListRooms(ctx)
	if err != nil {
		return res, fmt.Errorf("seed: list rooms: %w", err)
	}
	if len(rooms) == 0 {
		for _, room := range Rooms {
			if _, err := catalog.CreateRoom(ctx, room); err != nil {
				return res, fmt.Errorf("seed: room %q: %w", room.Name, err)
			}
			res.Rooms++
		}
	}

	years, err := catalog.ListStudentYears(ctx)
	if err != nil {
		return res, fmt.Errorf("seed: list student years: %w", err)
	}
	if len(years) == 0 {
		for year := 1; year <= maxStudentYear; year++ {
			if _, err := catalog.CreateStudentYear(ctx, application.StudentYearInput{Year: year}); err != nil {
				return res, fmt.Errorf("seed: student year %d: %w", year, err)
			}
			res.StudentYears++
		}
	}

	logger.InfoContext(ctx, "catalog seeded",
		"teachers_created", res.Teachers,
		"rooms_created", res.Rooms,
		"student_years_created", res.StudentYears,
	)
	return res, nil
}

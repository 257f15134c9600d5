package scheduler

import "strings"

// Teaching hours are whole hours on a 24h clock.
const (
	// EarliestStartHour is the first hour a session may begin.
	EarliestStartHour = 8
	// LatestEndHour is the hour by which every session must have ended.
	LatestEndHour = 20
	// SessionLength is the fixed length of every session in hours.
	SessionLength = 2
)

// DayOfWeek names a teaching day.
type DayOfWeek string

const (
	Monday    DayOfWeek = "Monday"
	Tuesday   DayOfWeek = "Tuesday"
	Wednesday DayOfWeek = "Wednesday"
	Thursday  DayOfWeek = "Thursday"
	Friday    DayOfWeek = "Friday"
)

var teachingDays = []DayOfWeek{Monday, Tuesday, Wednesday, Thursday, Friday}

// TeachingDays returns the days sessions may be scheduled on, in week order.
func TeachingDays() []DayOfWeek {
	out := make([]DayOfWeek, len(teachingDays))
	copy(out, teachingDays)
	return out
}

// IsTeachingDay reports whether d is one of Monday..Friday.
func (d DayOfWeek) IsTeachingDay() bool {
	for _, day := range teachingDays {
		if d == day {
			return true
		}
	}
	return false
}

// ClassType is the kind of a teaching session.
type ClassType string

const (
	ClassTypeCourse     ClassType = "Course"
	ClassTypeSeminar    ClassType = "Seminar"
	ClassTypeLaboratory ClassType = "Laboratory"
)

// ParseClassType matches the exact names used on the wire.
func ParseClassType(value string) (ClassType, bool) {
	switch ClassType(strings.TrimSpace(value)) {
	case ClassTypeCourse:
		return ClassTypeCourse, true
	case ClassTypeSeminar:
		return ClassTypeSeminar, true
	case ClassTypeLaboratory:
		return ClassTypeLaboratory, true
	}
	return "", false
}

// GroupSpecific reports whether sessions of this type belong to one student group.
func (c ClassType) GroupSpecific() bool {
	return c == ClassTypeSeminar || c == ClassTypeLaboratory
}

// RoomKind is the category of a room. A room is exactly one kind.
type RoomKind string

const (
	// RoomKindCourse rooms host lectures.
	RoomKindCourse RoomKind = "course"
	// RoomKindLab rooms host seminars and laboratories.
	RoomKindLab RoomKind = "lab"
)

// RoomKindOf converts the stored is_course_room flag.
func RoomKindOf(isCourseRoom bool) RoomKind {
	if isCourseRoom {
		return RoomKindCourse
	}
	return RoomKindLab
}

// requiredRoomKind is the single source of truth for class/room compatibility.
var requiredRoomKind = map[ClassType]RoomKind{
	ClassTypeCourse:     RoomKindCourse,
	ClassTypeSeminar:    RoomKindLab,
	ClassTypeLaboratory: RoomKindLab,
}

// RequiredRoomKind returns the room kind a class type must be held in.
func RequiredRoomKind(c ClassType) (RoomKind, bool) {
	kind, ok := requiredRoomKind[c]
	return kind, ok
}

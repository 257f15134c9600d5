package scheduler

import "fmt"

// RejectionKind classifies why a candidate was not admitted.
type RejectionKind string

const (
	// KindValidation marks a business rule violation on the candidate itself.
	KindValidation RejectionKind = "validation"
	// KindConflict marks a room or teacher double-booking.
	KindConflict RejectionKind = "conflict"
	// KindNotFound marks a reference the validator needs that does not exist.
	KindNotFound RejectionKind = "not_found"
)

// Rule names the admission check that failed.
type Rule string

const (
	RuleRequiredFields Rule = "required_fields"
	RuleClassType      Rule = "class_type"
	RuleStudentGroup   Rule = "student_group"
	RuleHourRange      Rule = "hour_range"
	RuleHourOrder      Rule = "hour_order"
	RuleDuration       Rule = "duration"
	RuleWeekday        Rule = "weekday"
	RuleRoomOverlap    Rule = "room_overlap"
	RuleTeacherOverlap Rule = "teacher_overlap"
	RuleRoomExists     Rule = "room_exists"
	RuleRoomCompatible Rule = "room_compatible"
)

// Rejection is returned when a candidate fails admission.
type Rejection struct {
	Kind    RejectionKind
	Rule    Rule
	Message string
	// ConflictingEntryID is set for conflict rejections.
	ConflictingEntryID int64
}

// Error implements the error interface.
func (r *Rejection) Error() string {
	if r == nil {
		return ""
	}
	return r.Message
}

func reject(kind RejectionKind, rule Rule, message string) *Rejection {
	return &Rejection{Kind: kind, Rule: rule, Message: message}
}

// Candidate is a proposed schedule entry. Nil pointers and empty strings mean
// the caller did not supply the field.
type Candidate struct {
	DayOfWeek      string
	StartHour      *int
	EndHour        *int
	SubjectID      *int64
	RoomID         *int64
	TeacherID      *int64
	ClassType      string
	StudentGroupID *int64
}

// Room is the resolved room the candidate asks for.
type Room struct {
	ID   int64
	Kind RoomKind
}

// Validator decides admissibility of schedule entries.
type Validator struct {
	occupancy OccupancyFactory
}

// NewValidator returns a validator using the given occupancy strategy. A nil
// factory selects the linear scan.
func NewValidator(factory OccupancyFactory) *Validator {
	if factory == nil {
		factory = NewLinearScan
	}
	return &Validator{occupancy: factory}
}

// Validate runs every admission check in a fixed order and returns the first
// failure as a *Rejection, or nil when the candidate may be admitted. room is
// nil when the requested room does not exist.
func (v *Validator) Validate(candidate Candidate, existing []Booking, room *Room) error {
	if rej := v.check(candidate, existing, room); rej != nil {
		return rej
	}
	return nil
}

// Precheck runs the checks that need nothing but the candidate itself. It
// returns the same rejection Validate would for those rules.
func (v *Validator) Precheck(candidate Candidate) error {
	if _, _, rej := precheck(candidate); rej != nil {
		return rej
	}
	return nil
}

func precheck(c Candidate) (ClassType, DayOfWeek, *Rejection) {
	if c.DayOfWeek == "" || c.StartHour == nil || c.EndHour == nil ||
		c.SubjectID == nil || c.RoomID == nil || c.TeacherID == nil || c.ClassType == "" {
		return "", "", reject(KindValidation, RuleRequiredFields, "All fields are required.")
	}
	classType, ok := ParseClassType(c.ClassType)
	if !ok {
		return "", "", reject(KindValidation, RuleClassType, "Invalid class type.")
	}
	if classType.GroupSpecific() && c.StudentGroupID == nil {
		return "", "", reject(KindValidation, RuleStudentGroup, "A student group is required for seminars and laboratories.")
	}

	start, end := *c.StartHour, *c.EndHour
	if start < EarliestStartHour || start >= LatestEndHour || end < EarliestStartHour+1 || end > LatestEndHour {
		return "", "", reject(KindValidation, RuleHourRange,
			fmt.Sprintf("Classes must be scheduled between %d and %d.", EarliestStartHour, LatestEndHour))
	}
	if start >= end {
		return "", "", reject(KindValidation, RuleHourOrder, "End hour must be after start hour.")
	}
	if end-start != SessionLength {
		return "", "", reject(KindValidation, RuleDuration, fmt.Sprintf("Classes must be %d hours long.", SessionLength))
	}

	day := DayOfWeek(c.DayOfWeek)
	if !day.IsTeachingDay() {
		return "", "", reject(KindValidation, RuleWeekday, "Classes must be scheduled Monday to Friday.")
	}
	return classType, day, nil
}

func (v *Validator) check(c Candidate, existing []Booking, room *Room) *Rejection {
	classType, day, rej := precheck(c)
	if rej != nil {
		return rej
	}
	start, end := *c.StartHour, *c.EndHour

	occupancy := v.occupancy(existing)
	if conflict, busy := occupancy.RoomConflict(*c.RoomID, day, start, end); busy {
		rej := reject(KindConflict, RuleRoomOverlap, "Room is already occupied at that time.")
		rej.ConflictingEntryID = conflict.WithEntryID
		return rej
	}
	if conflict, busy := occupancy.TeacherConflict(*c.TeacherID, day, start, end); busy {
		rej := reject(KindConflict, RuleTeacherOverlap, "Teacher is already scheduled at that time.")
		rej.ConflictingEntryID = conflict.WithEntryID
		return rej
	}

	if room == nil {
		return reject(KindNotFound, RuleRoomExists, "Room not found.")
	}
	required, _ := RequiredRoomKind(classType)
	if room.Kind != required {
		if classType == ClassTypeCourse {
			return reject(KindValidation, RuleRoomCompatible, "Courses must be held in course rooms.")
		}
		return reject(KindValidation, RuleRoomCompatible, "Seminars and laboratories must be held in laboratory rooms.")
	}

	return nil
}

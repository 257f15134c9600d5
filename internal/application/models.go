package application

import "github.com/example/academic-timetable/internal/persistence"

// Teacher is a member of staff.
type Teacher struct {
	ID   int64
	Name string
}

// Room is a course room or a laboratory room.
type Room struct {
	ID           int64
	Name         string
	IsCourseRoom bool
}

// StudentYear is a year of study.
type StudentYear struct {
	ID   int64
	Year int
}

// StudentGroup is a lettered group inside a student year.
type StudentGroup struct {
	ID            int64
	StudentYearID int64
	Year          int
	Letter        string
}

// Name is the year-qualified group name, e.g. "2A1".
func (g StudentGroup) Name() string {
	return qualifiedGroupName(g.Year, g.Letter)
}

// Subject is taught to one student year by a course teacher and any number of
// seminar and laboratory teachers.
type Subject struct {
	ID                   int64
	Name                 string
	CourseTeacherID      int64
	StudentYearID        int64
	SeminarLabTeacherIDs []int64
}

// ScheduleEntry is one admitted weekly session.
type ScheduleEntry struct {
	ID             int64
	DayOfWeek      string
	StartHour      int
	EndHour        int
	ClassType      string
	SubjectID      int64
	RoomID         int64
	TeacherID      int64
	StudentGroupID *int64
}

// TeacherInput captures caller provided teacher fields.
type TeacherInput struct {
	Name string `json:"name" validate:"required,max=200"`
}

// RoomInput captures caller provided room fields.
type RoomInput struct {
	Name         string `json:"name" validate:"required,max=200"`
	IsCourseRoom bool   `json:"is_course_room"`
}

// StudentYearInput captures caller provided student year fields. The upper
// bound is configured on the service.
type StudentYearInput struct {
	Year int `json:"year" validate:"gte=1"`
}

// StudentGroupInput captures caller provided student group fields.
type StudentGroupInput struct {
	StudentYearID int64  `json:"student_year_id" validate:"gt=0"`
	Letter        string `json:"letter" validate:"required,group_letter"`
}

// SubjectInput captures caller provided subject fields.
type SubjectInput struct {
	Name                 string  `json:"name" validate:"required,max=200"`
	CourseTeacherID      int64   `json:"course_teacher_id" validate:"gt=0"`
	StudentYearID        int64   `json:"student_year_id" validate:"gt=0"`
	SeminarLabTeacherIDs []int64 `json:"seminar_lab_teacher_ids" validate:"dive,gt=0"`
}

// ScheduleEntryInput is a proposed schedule entry. Nil pointers and empty
// strings mark fields the caller left out.
type ScheduleEntryInput struct {
	DayOfWeek      string
	StartHour      *int
	EndHour        *int
	SubjectID      *int64
	RoomID         *int64
	TeacherID      *int64
	ClassType      string
	StudentGroupID *int64
}

func toTeacher(model persistence.Teacher) Teacher {
	return Teacher{ID: model.ID, Name: model.Name}
}

func toRoom(model persistence.Room) Room {
	return Room{ID: model.ID, Name: model.Name, IsCourseRoom: model.IsCourseRoom}
}

func toStudentYear(model persistence.StudentYear) StudentYear {
	return StudentYear{ID: model.ID, Year: model.Year}
}

func toStudentGroup(model persistence.StudentGroup) StudentGroup {
	return StudentGroup{ID: model.ID, StudentYearID: model.StudentYearID, Year: model.Year, Letter: model.Letter}
}

func toSubject(model persistence.Subject) Subject {
	return Subject{
		ID:                   model.ID,
		Name:                 model.Name,
		CourseTeacherID:      model.CourseTeacherID,
		StudentYearID:        model.StudentYearID,
		SeminarLabTeacherIDs: append([]int64(nil), model.SeminarLabTeacherIDs...),
	}
}

func toScheduleEntry(model persistence.ScheduleEntry) ScheduleEntry {
	return ScheduleEntry{
		ID:             model.ID,
		DayOfWeek:      model.DayOfWeek,
		StartHour:      model.StartHour,
		EndHour:        model.EndHour,
		ClassType:      model.ClassType,
		SubjectID:      model.SubjectID,
		RoomID:         model.RoomID,
		TeacherID:      model.TeacherID,
		StudentGroupID: cloneID(model.StudentGroupID),
	}
}

// convertAll maps a slice of store models; an empty input yields nil.
func convertAll[M any, A any](models []M, convert func(M) A) []A {
	if len(models) == 0 {
		return nil
	}
	out := make([]A, 0, len(models))
	for _, model := range models {
		out = append(out, convert(model))
	}
	return out
}

func cloneID(id *int64) *int64 {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}

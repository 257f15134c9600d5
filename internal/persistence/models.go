package persistence

// Teacher is a member of staff who can teach courses, seminars and laboratories.
type Teacher struct {
	ID   int64
	Name string
}

// Room is either a course room or a laboratory room.
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

// StudentGroup is a lettered group inside a student year. Year is filled from
// the referenced StudentYear on reads and ignored on create.
type StudentGroup struct {
	ID            int64
	StudentYearID int64
	Letter        string
	Year          int
}

// Subject is taught to one student year. SeminarLabTeacherIDs is stored in
// subject_teachers.
type Subject struct {
	ID                   int64
	Name                 string
	CourseTeacherID      int64
	StudentYearID        int64
	SeminarLabTeacherIDs []int64
}

// ScheduleEntry is one weekly session.
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

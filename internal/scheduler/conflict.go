package scheduler

// Booking is the part of a stored schedule entry that matters for double-booking.
type Booking struct {
	EntryID   int64
	Day       DayOfWeek
	StartHour int
	EndHour   int
	RoomID    int64
	TeacherID int64
}

// ConflictType describes the type of conflict detected between bookings.
type ConflictType string

const (
	// ConflictTypeRoom indicates a room is double-booked.
	ConflictTypeRoom ConflictType = "room"
	// ConflictTypeTeacher indicates a teacher is double-booked.
	ConflictTypeTeacher ConflictType = "teacher"
)

// Conflict details an existing booking that collides with a candidate.
type Conflict struct {
	WithEntryID int64
	Type        ConflictType
}

// Overlaps reports whether the half-open hour ranges [s1,e1) and [s2,e2) intersect.
func Overlaps(s1, e1, s2, e2 int) bool {
	return !(e1 <= s2 || s1 >= e2)
}

// Occupancy answers double-booking questions against a fixed set of bookings.
type Occupancy interface {
	// RoomConflict returns the first booking of room on day overlapping [start,end).
	RoomConflict(roomID int64, day DayOfWeek, start, end int) (Conflict, bool)
	// TeacherConflict returns the first booking of teacher on day overlapping [start,end).
	TeacherConflict(teacherID int64, day DayOfWeek, start, end int) (Conflict, bool)
}

// OccupancyFactory builds an Occupancy over the supplied bookings.
type OccupancyFactory func(bookings []Booking) Occupancy

// LinearScan checks every booking on each query.
type LinearScan struct {
	bookings []Booking
}

// NewLinearScan returns an Occupancy that scans all bookings.
func NewLinearScan(bookings []Booking) Occupancy {
	return &LinearScan{bookings: bookings}
}

func (l *LinearScan) RoomConflict(roomID int64, day DayOfWeek, start, end int) (Conflict, bool) {
	for _, b := range l.bookings {
		if b.RoomID == roomID && b.Day == day && Overlaps(start, end, b.StartHour, b.EndHour) {
			return Conflict{WithEntryID: b.EntryID, Type: ConflictTypeRoom}, true
		}
	}
	return Conflict{}, false
}

func (l *LinearScan) TeacherConflict(teacherID int64, day DayOfWeek, start, end int) (Conflict, bool) {
	for _, b := range l.bookings {
		if b.TeacherID == teacherID && b.Day == day && Overlaps(start, end, b.StartHour, b.EndHour) {
			return Conflict{WithEntryID: b.EntryID, Type: ConflictTypeTeacher}, true
		}
	}
	return Conflict{}, false
}

type bucketKey struct {
	id  int64
	day DayOfWeek
}

// BucketIndex groups bookings by (room, day) and (teacher, day) so a query only
// looks at bookings that share both keys.
type BucketIndex struct {
	byRoom    map[bucketKey][]Booking
	byTeacher map[bucketKey][]Booking
}

// NewBucketIndex builds the buckets once; queries are proportional to bucket size.
func NewBucketIndex(bookings []Booking) Occupancy {
	idx := &BucketIndex{
		byRoom:    make(map[bucketKey][]Booking),
		byTeacher: make(map[bucketKey][]Booking),
	}
	for _, b := range bookings {
		rk := bucketKey{id: b.RoomID, day: b.Day}
		idx.byRoom[rk] = append(idx.byRoom[rk], b)
		tk := bucketKey{id: b.TeacherID, day: b.Day}
		idx.byTeacher[tk] = append(idx.byTeacher[tk], b)
	}
	return idx
}

func (idx *BucketIndex) RoomConflict(roomID int64, day DayOfWeek, start, end int) (Conflict, bool) {
	return firstOverlap(idx.byRoom[bucketKey{id: roomID, day: day}], start, end, ConflictTypeRoom)
}

func (idx *BucketIndex) TeacherConflict(teacherID int64, day DayOfWeek, start, end int) (Conflict, bool) {
	return firstOverlap(idx.byTeacher[bucketKey{id: teacherID, day: day}], start, end, ConflictTypeTeacher)
}

func firstOverlap(bucket []Booking, start, end int, kind ConflictType) (Conflict, bool) {
	for _, b := range bucket {
		if Overlaps(start, end, b.StartHour, b.EndHour) {
			return Conflict{WithEntryID: b.EntryID, Type: kind}, true
		}
	}
	return Conflict{}, false
}

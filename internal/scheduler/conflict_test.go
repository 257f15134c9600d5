package scheduler

import (
	"fmt"
	"testing"
)

func TestOverlaps(t *testing.T) {
	t.Parallel()

	tests := []struct {
		s1, e1, s2, e2 int
		want           bool
	}{
		{8, 10, 10, 12, false},
		{10, 12, 8, 10, false},
		{8, 10, 9, 11, true},
		{9, 11, 8, 10, true},
		{8, 12, 9, 11, true},
		{8, 10, 8, 10, true},
		{8, 10, 12, 14, false},
	}

	for _, tt := range tests {
		if got := Overlaps(tt.s1, tt.e1, tt.s2, tt.e2); got != tt.want {
			t.Errorf("Overlaps(%d,%d,%d,%d) = %v, want %v", tt.s1, tt.e1, tt.s2, tt.e2, got, tt.want)
		}
		if got := Overlaps(tt.s2, tt.e2, tt.s1, tt.e1); got != tt.want {
			t.Errorf("Overlaps is not symmetric for [%d,%d) and [%d,%d)", tt.s1, tt.e1, tt.s2, tt.e2)
		}
	}
}

func TestOccupancy_LinearAndBucketAgree(t *testing.T) {
	t.Parallel()

	var bookings []Booking
	id := int64(1)
	for i, day := range TeachingDays() {
		for start := EarliestStartHour; start < LatestEndHour; start += 3 {
			bookings = append(bookings, Booking{
				EntryID:   id,
				Day:       day,
				StartHour: start,
				EndHour:   start + SessionLength,
				RoomID:    int64(i%3 + 1),
				TeacherID: int64(start%4 + 1),
			})
			id++
		}
	}

	linear := NewLinearScan(bookings)
	bucket := NewBucketIndex(bookings)

	for _, day := range TeachingDays() {
		for start := EarliestStartHour; start+SessionLength <= LatestEndHour; start++ {
			for ref := int64(1); ref <= 4; ref++ {
				name := fmt.Sprintf("%s/%d/%d", day, start, ref)
				_, lr := linear.RoomConflict(ref, day, start, start+SessionLength)
				_, br := bucket.RoomConflict(ref, day, start, start+SessionLength)
				if lr != br {
					t.Fatalf("%s: room answers differ: linear=%v bucket=%v", name, lr, br)
				}
				_, lt := linear.TeacherConflict(ref, day, start, start+SessionLength)
				_, bt := bucket.TeacherConflict(ref, day, start, start+SessionLength)
				if lt != bt {
					t.Fatalf("%s: teacher answers differ: linear=%v bucket=%v", name, lt, bt)
				}
			}
		}
	}
}

func TestOccupancy_ReportsConflictType(t *testing.T) {
	t.Parallel()

	bookings := []Booking{{EntryID: 3, Day: Friday, StartHour: 12, EndHour: 14, RoomID: 2, TeacherID: 5}}
	for name, factory := range factories() {
		occ := factory(bookings)
		c, ok := occ.RoomConflict(2, Friday, 13, 15)
		if !ok || c.Type != ConflictTypeRoom || c.WithEntryID != 3 {
			t.Fatalf("%s: unexpected room conflict %+v (%v)", name, c, ok)
		}
		c, ok = occ.TeacherConflict(5, Friday, 11, 13)
		if !ok || c.Type != ConflictTypeTeacher || c.WithEntryID != 3 {
			t.Fatalf("%s: unexpected teacher conflict %+v (%v)", name, c, ok)
		}
		if _, ok := occ.RoomConflict(2, Thursday, 12, 14); ok {
			t.Fatalf("%s: bookings on other days must not conflict", name)
		}
	}
}

package sqlite

import (
	"context"
	"fmt"

	"github.com/example/academic-timetable/internal/persistence"
)

// RoomRepository implements persistence.RoomRepository using SQLite.
type RoomRepository struct {
	pool   *ConnectionPool
	mapper *ErrorMapper
}

// NewRoomRepository creates a new SQLite room repository.
func NewRoomRepository(pool *ConnectionPool) *RoomRepository {
	return &RoomRepository{pool: pool, mapper: NewErrorMapper()}
}

const selectRoom = `SELECT id, name, is_course_room FROM rooms`

// CreateRoom inserts a room and returns it with its assigned id.
func (r *RoomRepository) CreateRoom(ctx context.Context, room persistence.Room) (persistence.Room, error) {
	result, err := r.pool.DB().ExecContext(ctx,
		`INSERT INTO rooms (name, is_course_room) VALUES (?, ?)`,
		room.Name, room.IsCourseRoom,
	)
	if err != nil {
		return persistence.Room{}, r.mapper.MapError(err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return persistence.Room{}, fmt.Errorf("failed to read room id: %w", err)
	}
	room.ID = id
	return room, nil
}

// GetRoom retrieves a room by id.
func (r *RoomRepository) GetRoom(ctx context.Context, id int64) (persistence.Room, error) {
	return getRoom(ctx, r.pool.DB(), r.mapper, id)
}

func getRoom(ctx context.Context, q querier, mapper *ErrorMapper, id int64) (persistence.Room, error) {
	var room persistence.Room
	err := q.QueryRowContext(ctx, selectRoom+` WHERE id = ?`, id).
		Scan(&room.ID, &room.Name, &room.IsCourseRoom)
	if err != nil {
		return persistence.Room{}, mapper.MapError(err)
	}
	return room, nil
}

// ListRooms returns all rooms ordered by id.
func (r *RoomRepository) ListRooms(ctx context.Context) ([]persistence.Room, error) {
	rows, err := r.pool.DB().QueryContext(ctx, selectRoom+` ORDER BY id ASC`)
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	defer rows.Close()

	rooms := []persistence.Room{}
	for rows.Next() {
		var room persistence.Room
		if err := rows.Scan(&room.ID, &room.Name, &room.IsCourseRoom); err != nil {
			return nil, r.mapper.MapError(err)
		}
		rooms = append(rooms, room)
	}
	if err := rows.Err(); err != nil {
		return nil, r.mapper.MapError(err)
	}
	return rooms, nil
}

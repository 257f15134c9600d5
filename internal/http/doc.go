// Package http provides HTTP handlers and middleware for the timetable API.
//
// All routes live under /api/v1/timetable and accept paths with or without a
// trailing slash:
//   - POST /schedule/: admits a schedule entry. Body fields: day_of_week,
//     start_hour, end_hour, subject_id, room_id, teacher_id, class_type and the
//     optional student_group_id. Rejections answer 400 (404 when the room does
//     not exist) with error_code, message and rule.
//   - GET /schedule/ lists every entry; ?group_name=A1 or ?group_name=2A1 lists
//     the entries of one group and answers 404 when the group is unknown.
//   - GET /schedule/{id} and DELETE /schedule/{id}.
//   - GET and POST on /teachers/, /rooms/, /years/, /groups/ and /subjects/.
//
// GET /healthz pings the store. Request/response DTOs live alongside their
// handlers.
package http

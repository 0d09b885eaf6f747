package models

// Classroom describes a physical teaching room.
type Classroom struct {
	ID         string `db:"room_id" json:"id"`
	Building   string `db:"building" json:"building"`
	RoomNumber string `db:"room_number" json:"room_number"`
	Capacity   int    `db:"capacity" json:"capacity"`
	RoomType   string `db:"room_type" json:"room_type"`
}

// ClassroomOption is a compact row for availability pickers.
type ClassroomOption struct {
	ID   string `db:"room_id" json:"id"`
	Name string `db:"name" json:"name"`
}

package room

// DefaultRooms returns the catalog installed on first startup: one premium,
// one collaborative and one focus tier. A fresh slice is built on every call.
func DefaultRooms() []*Room {
	return []*Room{
		{
			Name:        "Executive Board Room",
			Capacity:    12,
			Floor:       5,
			Description: "Premium board room for executive meetings and client presentations",
			Amenities:   []string{"projector", "video conferencing", "whiteboard", "catering"},
			IsAvailable: true,
		},
		{
			Name:        "Innovation Hub",
			Capacity:    8,
			Floor:       3,
			Description: "Collaborative space for workshops and brainstorming sessions",
			Amenities:   []string{"smart board", "modular furniture", "whiteboard"},
			IsAvailable: true,
		},
		{
			Name:        "Focus Room",
			Capacity:    4,
			Floor:       2,
			Description: "Small quiet room for focused discussions",
			Amenities:   []string{"tv screen", "whiteboard"},
			IsAvailable: true,
		},
	}
}

package domain

// Party is an event users can join and chat about.
type Party struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Date        string   `json:"date"`
	Time        string   `json:"time"`
	Location    string   `json:"location"`
	Category    string   `json:"category"`
	Price       float64  `json:"price"`
	Capacity    int      `json:"capacity"`
	Host        string   `json:"host"`
	HostID      string   `json:"hostId,omitempty"`
	Attendees   int      `json:"attendees"`
}

// Full reports whether the party reached its capacity.
func (p Party) Full() bool {
	return p.Attendees >= p.Capacity
}

// Venue is a bookable location listed by an owner.
type Venue struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Address      string   `json:"address"`
	Capacity     int      `json:"capacity"`
	PricePerHour float64  `json:"pricePerHour"`
	Amenities    []string `json:"amenities"`
	Owner        string   `json:"owner"`
	OwnerID      string   `json:"ownerId,omitempty"`
}

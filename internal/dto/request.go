package dto

type CreateReservationRequest struct {
	RoomID      uint   `json:"room_id"`
	GuestID     uint   `json:"guest_id"`
	CheckIn     string `json:"check_in"`
	CheckOut    string `json:"check_out"`
	GuestsCount int    `json:"guests_count"`
}

type RoomRequest struct {
	PropertyID uint    `json:"property_id"`
	Name       string  `json:"name"`
	Price      float64 `json:"price"`
	Discount   float64 `json:"discount"`
	Capacity   int     `json:"capacity"`
	Sleeps     int     `json:"sleeps"`
	BedType    string  `json:"bed_type"`
	BedCount   int     `json:"bed_count"`
	RoomType   string  `json:"room_type"`
	Status     string  `json:"status"`
}

type PropertyRequest struct {
	Name      string `json:"name"`
	Location  string `json:"location"`
	Country   string `json:"country"`
	Thumbnail string `json:"thumbnail"`
}

type GuestRequest struct {
	Fullname    string `json:"fullname"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Nationality string `json:"nationality"`
	CountryFlag string `json:"country_flag"`
}

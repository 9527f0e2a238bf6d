package roomhandler

type RoomSummary struct {
	Name    string `json:"name"    example:"lobby"`
	Members int    `json:"members" example:"3"`
} // @name RoomSummary

type RoomDetail struct {
	Name    string   `json:"name"    example:"lobby"`
	Members []string `json:"members" example:"alice,bob"`
} // @name RoomDetail

type ErrorResponse struct {
	Error string `json:"error"`
} // @name ErrorResponse

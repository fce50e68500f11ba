package entity

type AuthResponse struct {
	Token  string       `json:"token"`
	UserID int64        `json:"user_id"`
	User   TelegramUser `json:"user"`
}

// TelegramUser is the verified identity payload echoed back on auth.
type TelegramUser struct {
	ID        int64  `json:"id"`
	Username  string `json:"username,omitempty"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
}

type SwipeResponse struct {
	Matched bool   `json:"matched"`
	Message string `json:"message"`
}

type ProfileListResponse struct {
	Profiles []Profile `json:"profiles"`
}

type LikeCountResponse struct {
	Count int64 `json:"count"`
}

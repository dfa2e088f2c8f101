package transport

type RegisterRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type TodoCreateRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// TodoUpdateRequest distinguishes an absent field from an empty one: nil
// means the field was not supplied and the stored value is kept.
type TodoUpdateRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
}

package userprofile

// UpdateProfileInput is the body of PUT /users/:id. Nil fields are left unchanged.
type UpdateProfileInput struct {
	Name     *string `json:"name" example:"Jane Doe"`
	Category *string `json:"category" example:"Music"`
	Role     *string `json:"role" example:"user"`
}

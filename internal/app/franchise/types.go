package franchise

type AdminRef struct {
	Email string `json:"email"`
}

type CreateFranchiseRequest struct {
	Name   string     `json:"name"`
	Admins []AdminRef `json:"admins"`
}

type CreateStoreRequest struct {
	Name string `json:"name"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

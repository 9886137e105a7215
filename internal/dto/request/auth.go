package request

type RegisterRequest struct {
	FirstName string `json:"nome" validate:"required,max=50"`
	LastName  string `json:"cognome" validate:"required,max=50"`
	Email     string `json:"email" validate:"required,email,max=50"`
	Password  string `json:"password" validate:"required,min=6,max=72"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// ClientInfo is recorded on the session row at login
type ClientInfo struct {
	UserAgent string
	IPAddress string
}

package request

import "encoding/json"

type Login struct {
	Email    string `validate:"required,email" json:"email"`
	Password string `validate:"required"       json:"password"`
}

// MarshalJSON masks the password so a logged request body never leaks it.
func (l Login) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]string{
		"email":    l.Email,
		"password": "***",
	})
}

type Revalidate struct {
	Path string `validate:"required" json:"path"`
}

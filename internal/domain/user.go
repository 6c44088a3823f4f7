package domain

import "time"

// User es la identidad canónica derivada del subject del token.
// Los atributos de display se toman de los claims al momento de crear
// el registro y no se re-sincronizan en logins posteriores.
type User struct {
	ID          string    `json:"id"`
	Email       string    `json:"email,omitempty"`
	DisplayName string    `json:"display_name,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

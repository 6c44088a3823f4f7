package domain

import "time"

// GmailCredentials asocia un usuario con sus credenciales OAuth almacenadas.
// Se provisiona una fila vacía en el signup; el flujo OAuth la completa.
type GmailCredentials struct {
	ID           string     `json:"id"`
	UserID       string     `json:"user_id"`
	AccessToken  string     `json:"-"`
	RefreshToken string     `json:"-"`
	TokenExpiry  *time.Time `json:"token_expiry,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

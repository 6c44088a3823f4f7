package domain

import "time"

// Subscription es un gasto recurrente registrado por un usuario.
// UserID siempre proviene de la identidad autenticada del request que creó
// el registro, nunca de un valor enviado por el cliente.
type Subscription struct {
	ID             int64     `json:"id"`
	UserID         string    `json:"user_id"`
	Name           string    `json:"name"`
	DateStarted    time.Time `json:"date_started"`
	PriceInDollars float64   `json:"price_in_dollars"`
	Recurs         bool      `json:"recurs"`
	CreatedAt      time.Time `json:"created_at"`
}

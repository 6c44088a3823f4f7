package service

// Principal es la identidad resuelta de un request autenticado. La lógica de
// negocio recibe siempre este tipo, nunca el header crudo.
type Principal struct {
	ID    string
	Email string
	Name  string
}

// PrincipalFromClaims construye el principal desde claims verificados.
func PrincipalFromClaims(claims TokenClaims) Principal {
	return Principal{
		ID:    claims.Subject,
		Email: claims.Email,
		Name:  claims.Name,
	}
}

package service

import (
	"crypto/rsa"
	"errors"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// TokenVerifier valida tokens de identidad emitidos externamente contra un
// conjunto configurado de llaves públicas. La verificación de firma siempre
// está activa: no existe constructor sin llaves.
type TokenVerifier struct {
	keys    []*rsa.PublicKey
	methods []string
	issuer  string
}

// TokenClaims es el payload decodificado de un token de identidad.
type TokenClaims struct {
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

var (
	ErrTokenMalformed = errors.New("token malformed")
	ErrTokenUntrusted = errors.New("token untrusted")
	ErrTokenExpired   = errors.New("token expired")
)

// NewTokenVerifier construye un verificador desde bloques PEM de llaves
// públicas RSA. Falla si ningún bloque produce una llave usable.
func NewTokenVerifier(keyPEMs []string, methods []string, issuer string) (*TokenVerifier, error) {
	keys := make([]*rsa.PublicKey, 0, len(keyPEMs))
	var lastErr error
	for _, pem := range keyPEMs {
		key, err := jwt.ParseRSAPublicKeyFromPEM([]byte(pem))
		if err != nil {
			lastErr = err
			continue
		}
		keys = append(keys, key)
	}
	if len(keys) == 0 {
		if lastErr != nil {
			return nil, lastErr
		}
		return nil, errors.New("no trusted keys")
	}
	if len(methods) == 0 {
		methods = []string{jwt.SigningMethodRS256.Alg()}
	}
	return &TokenVerifier{
		keys:    keys,
		methods: methods,
		issuer:  strings.TrimSpace(issuer),
	}, nil
}

// Verify decodifica y verifica un token, devolviendo sus claims.
// Un subject vacío cuenta como token malformado aunque la firma valide.
func (v *TokenVerifier) Verify(raw string) (TokenClaims, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return TokenClaims{}, ErrTokenMalformed
	}

	var claims TokenClaims
	parser := jwt.NewParser(jwt.WithValidMethods(v.methods))
	_, err := parser.ParseWithClaims(raw, &claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, ErrTokenUntrusted
		}
		keySet := jwt.VerificationKeySet{Keys: make([]jwt.VerificationKey, 0, len(v.keys))}
		for _, key := range v.keys {
			keySet.Keys = append(keySet.Keys, key)
		}
		return keySet, nil
	})
	if err != nil {
		return TokenClaims{}, mapTokenError(err)
	}

	if strings.TrimSpace(claims.Subject) == "" {
		return TokenClaims{}, ErrTokenMalformed
	}
	if v.issuer != "" && claims.Issuer != v.issuer {
		return TokenClaims{}, ErrTokenUntrusted
	}
	return claims, nil
}

func mapTokenError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrTokenExpired
	case errors.Is(err, jwt.ErrTokenMalformed):
		return ErrTokenMalformed
	case errors.Is(err, jwt.ErrTokenSignatureInvalid),
		errors.Is(err, jwt.ErrTokenUnverifiable),
		errors.Is(err, jwt.ErrSignatureInvalid),
		errors.Is(err, ErrTokenUntrusted):
		return ErrTokenUntrusted
	default:
		return ErrTokenMalformed
	}
}

package auth

// Claims representa la identidad verificada extraída del token.
// El email es la identidad del paciente en todo el sistema.
type Claims struct {
	UserID string
	Email  string
}

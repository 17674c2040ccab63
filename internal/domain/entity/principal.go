package entity

// Principal is the authenticated caller as reported by the identity provider.
type Principal struct {
	ID     string
	Email  string
	Name   string
	Avatar string
	Admin  bool
}

package domain

// User is an inventory system account as listed by the remote API.
type User struct {
	ID        int64
	FirstName string
	LastName  string
	Email     string
}

package repository

import "context"

// Credential store keys.
const (
	KeyToken    = "token"
	KeyUserName = "userName"
)

// CredentialRecord is the raw content of the credential store. Either field
// may be empty when the store holds a partial write.
type CredentialRecord struct {
	Token    string
	UserName string
}

// Complete reports whether both fields are present.
func (r CredentialRecord) Complete() bool {
	return r.Token != "" && r.UserName != ""
}

// CredentialStore persists the token and display name between runs.
type CredentialStore interface {
	Init(ctx context.Context) error
	Load(ctx context.Context) (CredentialRecord, error)
	// Save writes both keys in a single transaction.
	Save(ctx context.Context, record CredentialRecord) error
	// Clear removes both keys. Clearing an empty store is not an error.
	Clear(ctx context.Context) error
}

package auth

import (
	"github.com/uwfpm/readysync/internal/core/domain"
	"github.com/uwfpm/readysync/internal/core/ports/driven"
)

// Ensure StaticProvider implements the interface.
var _ driven.CredentialProvider = (*StaticProvider)(nil)

// StaticProvider returns a fixed credential pair. Useful for tests and
// for deployments that already inject plaintext credentials through a
// secret manager.
type StaticProvider struct {
	creds domain.Credentials
}

// NewStaticProvider creates a provider around a fixed pair.
func NewStaticProvider(username, password string) *StaticProvider {
	return &StaticProvider{
		creds: domain.Credentials{Username: username, Password: password},
	}
}

// Credentials returns the fixed pair.
func (p *StaticProvider) Credentials() (domain.Credentials, error) {
	return p.creds, nil
}

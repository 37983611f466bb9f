// Package auth provides implementations of the driven.CredentialProvider
// port. The default provider decrypts a Fernet token held in the
// environment; organisations with a different secret store can supply
// their own provider at construction.
package auth

import (
	"fmt"
	"os"
	"strings"

	"github.com/fernet/fernet-go"

	"github.com/uwfpm/readysync/internal/core/domain"
	"github.com/uwfpm/readysync/internal/core/ports/driven"
)

const (
	// DefaultKeyEnvVar names the env var holding the Fernet private key.
	DefaultKeyEnvVar = "READY_ENC_KEY"

	// DefaultCredsEnvVar names the env var holding the encrypted
	// credentials token. Once decrypted, the plaintext is a
	// colon-delimited username:password pair.
	DefaultCredsEnvVar = "READY_ENC_CREDS"
)

// Ensure FernetEnvProvider implements the interface.
var _ driven.CredentialProvider = (*FernetEnvProvider)(nil)

// FernetEnvProvider decrypts basic-auth credentials from a pair of
// environment variables. Any failure here is fatal to startup: there is
// no point fetching without credentials, and the failure is never
// transient enough to retry.
type FernetEnvProvider struct {
	keyVar   string
	credsVar string
}

// NewFernetEnvProvider creates a provider reading the given env vars.
// Empty names fall back to the defaults.
func NewFernetEnvProvider(keyVar, credsVar string) *FernetEnvProvider {
	if keyVar == "" {
		keyVar = DefaultKeyEnvVar
	}
	if credsVar == "" {
		credsVar = DefaultCredsEnvVar
	}
	return &FernetEnvProvider{keyVar: keyVar, credsVar: credsVar}
}

// Credentials decrypts and splits the username/password pair.
func (p *FernetEnvProvider) Credentials() (domain.Credentials, error) {
	encodedKey := os.Getenv(p.keyVar)
	if encodedKey == "" {
		return domain.Credentials{}, fmt.Errorf("%w: %s is not set", domain.ErrCredentials, p.keyVar)
	}
	token := os.Getenv(p.credsVar)
	if token == "" {
		return domain.Credentials{}, fmt.Errorf("%w: %s is not set", domain.ErrCredentials, p.credsVar)
	}

	key, err := fernet.DecodeKey(encodedKey)
	if err != nil {
		return domain.Credentials{}, fmt.Errorf("%w: decode key from %s: %v", domain.ErrCredentials, p.keyVar, err)
	}

	// TTL 0 disables expiry: the token is provisioned once per
	// environment, not minted per run.
	plaintext := fernet.VerifyAndDecrypt([]byte(token), 0, []*fernet.Key{key})
	if plaintext == nil {
		return domain.Credentials{}, fmt.Errorf("%w: token in %s failed verification", domain.ErrCredentials, p.credsVar)
	}

	user, pass, ok := strings.Cut(string(plaintext), ":")
	if !ok {
		return domain.Credentials{}, fmt.Errorf("%w: decrypted token is not colon-delimited", domain.ErrCredentials)
	}
	return domain.Credentials{Username: user, Password: pass}, nil
}

// GenerateKey returns a freshly generated, encoded Fernet key.
func GenerateKey() (string, error) {
	key := new(fernet.Key)
	if err := key.Generate(); err != nil {
		return "", fmt.Errorf("generate fernet key: %w", err)
	}
	return key.Encode(), nil
}

// EncryptCredentials produces the token to place in the credentials
// env var: the colon-joined pair encrypted under the encoded key.
func EncryptCredentials(encodedKey string, creds domain.Credentials) (string, error) {
	key, err := fernet.DecodeKey(encodedKey)
	if err != nil {
		return "", fmt.Errorf("decode fernet key: %w", err)
	}
	token, err := fernet.EncryptAndSign([]byte(creds.Username+":"+creds.Password), key)
	if err != nil {
		return "", fmt.Errorf("encrypt credentials: %w", err)
	}
	return string(token), nil
}

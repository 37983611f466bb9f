package cli

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uwfpm/readysync/internal/adapters/driven/auth"
	"github.com/uwfpm/readysync/internal/core/domain"
)

// useMissingConfig points the CLI at a nonexistent config file so the
// defaults apply, and restores the previous value afterwards.
func useMissingConfig(t *testing.T) {
	t.Helper()
	old := cfgFile
	cfgFile = filepath.Join(t.TempDir(), "absent.toml")
	t.Cleanup(func() { cfgFile = old })
}

func executeWithInput(t *testing.T, input string, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetIn(bytes.NewBufferString(input))
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
	}()

	err := rootCmd.Execute()
	return buf.String(), err
}

// exportValue extracts the value of an "export NAME=value" line.
func exportValue(t *testing.T, out, name string) string {
	t.Helper()
	for _, line := range strings.Split(out, "\n") {
		if v, ok := strings.CutPrefix(line, "export "+name+"="); ok {
			return v
		}
	}
	t.Fatalf("no export of %s in output:\n%s", name, out)
	return ""
}

func TestCredsEncrypt_RoundTrip(t *testing.T) {
	useMissingConfig(t)

	out, err := executeWithInput(t, "svc-account\nhunter2\n", "creds", "encrypt")
	require.NoError(t, err)

	key := exportValue(t, out, auth.DefaultKeyEnvVar)
	token := exportValue(t, out, auth.DefaultCredsEnvVar)
	require.NotEmpty(t, key)
	require.NotEmpty(t, token)

	t.Setenv(auth.DefaultKeyEnvVar, key)
	t.Setenv(auth.DefaultCredsEnvVar, token)

	creds, err := auth.NewFernetEnvProvider("", "").Credentials()
	require.NoError(t, err)
	assert.Equal(t, "svc-account", creds.Username)
	assert.Equal(t, "hunter2", creds.Password)
}

func TestCredsEncrypt_ReusesProvidedKey(t *testing.T) {
	useMissingConfig(t)
	defer func() { credsKey = "" }()

	key, err := auth.GenerateKey()
	require.NoError(t, err)

	out, err := executeWithInput(t, "user\npass\n", "creds", "encrypt", "--key", key)
	require.NoError(t, err)

	assert.Equal(t, key, exportValue(t, out, auth.DefaultKeyEnvVar))
}

func TestCredsEncrypt_EmptyUsername(t *testing.T) {
	useMissingConfig(t)

	_, err := executeWithInput(t, "\npass\n", "creds", "encrypt")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCredsCheck_OK(t *testing.T) {
	useMissingConfig(t)

	key, err := auth.GenerateKey()
	require.NoError(t, err)
	token, err := auth.EncryptCredentials(key, domain.Credentials{Username: "user", Password: "pass"})
	require.NoError(t, err)

	t.Setenv(auth.DefaultKeyEnvVar, key)
	t.Setenv(auth.DefaultCredsEnvVar, token)

	out, err := executeWithInput(t, "", "creds", "check")
	require.NoError(t, err)
	assert.Contains(t, out, "Credentials OK (username user)")
}

func TestCredsCheck_MissingEnv(t *testing.T) {
	useMissingConfig(t)

	t.Setenv(auth.DefaultKeyEnvVar, "")
	t.Setenv(auth.DefaultCredsEnvVar, "")

	_, err := executeWithInput(t, "", "creds", "check")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrCredentials)
}

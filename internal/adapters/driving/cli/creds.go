package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/uwfpm/readysync/internal/adapters/driven/auth"
	"github.com/uwfpm/readysync/internal/core/domain"
)

var credsKey string

var credsCmd = &cobra.Command{
	Use:   "creds",
	Short: "Manage encrypted API credentials",
}

var credsEncryptCmd = &cobra.Command{
	Use:   "encrypt",
	Short: "Encrypt API credentials for the environment",
	Long: `Prompts for a username and password, encrypts them and prints the
environment variable exports the other commands read at startup. A new
encryption key is generated unless --key provides an existing one.`,
	RunE: runCredsEncrypt,
}

var credsCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify that the environment holds decryptable credentials",
	RunE:  runCredsCheck,
}

func init() {
	credsEncryptCmd.Flags().StringVar(&credsKey, "key", "",
		"existing encryption key to reuse (default: generate a new one)")
	credsCmd.AddCommand(credsEncryptCmd)
	credsCmd.AddCommand(credsCheckCmd)
	rootCmd.AddCommand(credsCmd)
}

func runCredsEncrypt(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	username, password, err := promptCredentials(cmd)
	if err != nil {
		return err
	}
	if username == "" || password == "" {
		return fmt.Errorf("%w: username and password must not be empty", domain.ErrInvalidInput)
	}

	key := credsKey
	if key == "" {
		key, err = auth.GenerateKey()
		if err != nil {
			return fmt.Errorf("generating key: %w", err)
		}
	}

	token, err := auth.EncryptCredentials(key, domain.Credentials{
		Username: username,
		Password: password,
	})
	if err != nil {
		return fmt.Errorf("encrypting credentials: %w", err)
	}

	keyEnv := cfg.Credentials.KeyEnv
	if keyEnv == "" {
		keyEnv = auth.DefaultKeyEnvVar
	}
	credsEnv := cfg.Credentials.CredsEnv
	if credsEnv == "" {
		credsEnv = auth.DefaultCredsEnvVar
	}

	cmd.Println("Add the following to the service environment:")
	cmd.Printf("export %s=%s\n", keyEnv, key)
	cmd.Printf("export %s=%s\n", credsEnv, token)
	return nil
}

func runCredsCheck(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	provider := auth.NewFernetEnvProvider(cfg.Credentials.KeyEnv, cfg.Credentials.CredsEnv)
	creds, err := provider.Credentials()
	if err != nil {
		return fmt.Errorf("credential check failed: %w", err)
	}

	cmd.Printf("Credentials OK (username %s).\n", creds.Username)
	return nil
}

// promptCredentials reads a username and password from the command's
// input. The password prompt suppresses echo when stdin is a terminal.
func promptCredentials(cmd *cobra.Command) (username, password string, err error) {
	reader := bufio.NewReader(cmd.InOrStdin())

	cmd.Print("Username: ")
	username, err = readLine(reader)
	if err != nil {
		return "", "", fmt.Errorf("reading username: %w", err)
	}

	cmd.Print("Password: ")
	if f, ok := cmd.InOrStdin().(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		raw, err := term.ReadPassword(int(f.Fd()))
		cmd.Println()
		if err != nil {
			return "", "", fmt.Errorf("reading password: %w", err)
		}
		return username, string(raw), nil
	}

	password, err = readLine(reader)
	if err != nil {
		return "", "", fmt.Errorf("reading password: %w", err)
	}
	return username, password, nil
}

// readLine reads one trimmed line, tolerating a final line without a
// trailing newline.
func readLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || line == "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

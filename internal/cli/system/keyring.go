package system

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/julianstephens/moodlit/internal/cli"
	"github.com/julianstephens/moodlit/internal/constants"
	"github.com/julianstephens/moodlit/internal/keyring"
	"github.com/julianstephens/moodlit/internal/storage/postgres"
)

// KeyringSetCmd stores the connection string that '--config postgres' uses.
type KeyringSetCmd struct {
	ConnectionString string `arg:"" help:"PostgreSQL connection string (URL or key=value DSN)."`
}

func (cmd *KeyringSetCmd) Run(ctx *cli.Context) error {
	connStr := strings.TrimSpace(cmd.ConnectionString)
	if !looksLikePostgres(connStr) {
		return errors.New("expected a postgres:// URL or a key=value DSN with host=")
	}

	embedded := false
	if _, err := postgres.ValidateConnString(connStr); err != nil {
		if !errors.Is(err, postgres.ErrEmbeddedCredentials) {
			return fmt.Errorf("invalid connection string: %w", err)
		}
		embedded = true
	}

	if err := keyring.SetConnectionString(connStr); err != nil {
		return err
	}

	fmt.Println("✓ Connection string saved to the OS keyring")
	if embedded {
		fmt.Println("  It includes a password; the keyring keeps it encrypted.")
	}
	if os.Getenv(keyring.EnvConnectionString) != "" {
		fmt.Printf("⚠️  %s is set and takes precedence over the keyring.\n", keyring.EnvConnectionString)
	}
	fmt.Printf("  Open your journal with: %s --config postgres\n", constants.AppName)
	return nil
}

// KeyringGetCmd shows the stored connection string with its password masked.
type KeyringGetCmd struct{}

func (cmd *KeyringGetCmd) Run(ctx *cli.Context) error {
	connStr, err := keyring.GetConnectionString()
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return fmt.Errorf("nothing stored yet; save one with '%s keyring set <connection>'", constants.AppName)
		}
		return err
	}
	fmt.Println(maskPassword(connStr))
	return nil
}

// KeyringDeleteCmd forgets the stored connection string.
type KeyringDeleteCmd struct{}

func (cmd *KeyringDeleteCmd) Run(ctx *cli.Context) error {
	if err := keyring.DeleteConnectionString(); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return errors.New("no connection string stored in the keyring")
		}
		return err
	}
	fmt.Println("✓ Connection string removed from the OS keyring")
	return nil
}

// KeyringStatusCmd reports whether the keyring works and which connection
// '--config postgres' would use.
type KeyringStatusCmd struct{}

func (cmd *KeyringStatusCmd) Run(ctx *cli.Context) error {
	if !keyring.IsAvailable() {
		fmt.Println("❌ OS keyring is not available on this system")
		fmt.Printf("   Set %s to use PostgreSQL instead.\n", keyring.EnvConnectionString)
		return keyring.ErrKeyringUnavailable
	}
	fmt.Println("✓ OS keyring is available")

	connStr, source, err := keyring.Resolve()
	if err != nil {
		fmt.Println("ℹ '--config postgres' has no connection string yet")
		return nil
	}
	fmt.Printf("✓ '--config postgres' connects with %s (from the %s)\n", maskPassword(connStr), source)
	return nil
}

func looksLikePostgres(connStr string) bool {
	return strings.HasPrefix(connStr, "postgres://") ||
		strings.HasPrefix(connStr, "postgresql://") ||
		strings.Contains(connStr, "host=")
}

// maskPassword hides the password of a URL or DSN connection string.
func maskPassword(connStr string) string {
	if scheme, rest, ok := strings.Cut(connStr, "://"); ok && strings.HasPrefix(scheme, "postgres") {
		at := strings.LastIndex(rest, "@")
		if at < 0 {
			return connStr
		}
		user, _, hasPassword := strings.Cut(rest[:at], ":")
		if !hasPassword {
			return connStr
		}
		return scheme + "://" + user + ":****" + rest[at:]
	}

	fields := strings.Fields(connStr)
	for i, f := range fields {
		if strings.HasPrefix(f, "password=") {
			fields[i] = "password=****"
		}
	}
	return strings.Join(fields, " ")
}

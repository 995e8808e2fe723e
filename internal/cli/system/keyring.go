package system

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/julianstephens/voidtrack/internal/cli"
	"github.com/julianstephens/voidtrack/internal/constants"
	"github.com/julianstephens/voidtrack/internal/keyring"
	"github.com/julianstephens/voidtrack/internal/kv"
)

// KeyringCmd manages the Postgres connection string used by storage = "keyring".
type KeyringCmd struct {
	Set    KeyringSetCmd    `cmd:"" help:"Store a PostgreSQL connection string in the OS keyring."`
	Status KeyringStatusCmd `cmd:"" help:"Show whether a connection string is stored."`
	Delete KeyringDeleteCmd `cmd:"" help:"Remove the stored connection string."`
}

type KeyringSetCmd struct {
	ConnectionString string `arg:"" help:"PostgreSQL URL or key=value DSN."`
}

func (cmd *KeyringSetCmd) Run(ctx *cli.Context) error {
	conn := strings.TrimSpace(cmd.ConnectionString)
	if !kv.IsPostgresURL(conn) && !strings.Contains(conn, "host=") {
		return errors.New("not a PostgreSQL connection string (expected postgres:// or host=...)")
	}

	if _, err := kv.ValidateConnString(conn); err != nil {
		if !errors.Is(err, kv.ErrEmbeddedCredentials) {
			return fmt.Errorf("invalid connection string: %w", err)
		}
		ctx.Println("⚠️  The connection string embeds a password; it is stored as given.")
	}

	if err := keyring.Connection.Set(conn); err != nil {
		return err
	}
	ctx.Println("✓ Connection string saved to the OS keyring")
	ctx.Printf("  Use it with storage = %q in %s\n", "keyring", ctx.ConfigPath)
	return nil
}

type KeyringStatusCmd struct{}

func (cmd *KeyringStatusCmd) Run(ctx *cli.Context) error {
	stored, err := keyring.Connection.Stored()
	if err != nil {
		return err
	}
	if stored {
		ctx.Println("✓ Connection string stored in OS keyring")
	} else {
		ctx.Println("✗ No connection string stored in OS keyring")
	}
	if os.Getenv(constants.EnvDBConnection) != "" {
		ctx.Printf("  %s is set and takes precedence\n", constants.EnvDBConnection)
	}
	return nil
}

type KeyringDeleteCmd struct{}

func (cmd *KeyringDeleteCmd) Run(ctx *cli.Context) error {
	if err := keyring.Connection.Delete(); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return errors.New("nothing to delete: no connection string in keyring")
		}
		return err
	}
	ctx.Println("✓ Connection string removed from OS keyring")
	return nil
}

package main

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/mvxkit/snapwallet/pkg/constants"
	"github.com/mvxkit/snapwallet/pkg/extension"
	"github.com/mvxkit/snapwallet/pkg/provider"
	"github.com/mvxkit/snapwallet/pkg/types"
)

func main() {
	app := &cli.App{
		Name:  "snapctl",
		Usage: "Interact with the MultiversX MetaMask snap through a local extension bridge",
		Description: `A small client for the MultiversX snap hosted by a MetaMask-compatible
wallet extension. Every command connects the snap first; signing commands
log in before forwarding the request, so the extension will prompt for
approval in the wallet UI.`,
		Version: "1.0.0",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "bridge-url",
				Usage: "Base URL of the local extension bridge",
				Value: constants.DefaultBridgeURL,
			},
			&cli.StringFlag{
				Name:  "snap-id",
				Usage: "Snap origin to connect",
				Value: constants.DefaultSnapID,
			},
			&cli.StringFlag{
				Name:  "snap-version",
				Usage: "Semver range requested when connecting the snap",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Enable debug logging",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "status",
				Usage:  "Report extension presence and snap availability",
				Action: statusCommand,
			},
			{
				Name:   "address",
				Usage:  "Log in and print the wallet address",
				Action: addressCommand,
			},
			{
				Name:  "login",
				Usage: "Log in, optionally signing a native auth token",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "token",
						Usage: "Native auth token to sign during login",
					},
				},
				Action: loginCommand,
			},
			{
				Name:  "sign-message",
				Usage: "Sign an arbitrary message",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "message",
						Usage:    "Message payload to sign",
						Required: true,
					},
				},
				Action: signMessageCommand,
			},
			{
				Name:  "sign-tx",
				Usage: "Sign a transaction read from a JSON file",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "file",
						Usage:    "Path to the transaction JSON",
						Required: true,
					},
				},
				Action: signTxCommand,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newProvider(c *cli.Context) *provider.WalletProvider {
	level := slog.LevelInfo
	if c.Bool("verbose") {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	ext := extension.NewBridgeClient(c.String("bridge-url"), logger)
	return provider.NewWalletProvider(ext, &provider.Config{
		SnapID:      c.String("snap-id"),
		SnapVersion: c.String("snap-version"),
		Logger:      logger,
	})
}

// initProvider connects the snap and turns the swallowed-error contract back
// into a CLI-friendly error.
func initProvider(ctx context.Context, c *cli.Context) (*provider.WalletProvider, error) {
	p := newProvider(c)
	if !p.Init(ctx) {
		return nil, fmt.Errorf("wallet extension or snap unavailable at %s", c.String("bridge-url"))
	}
	return p, nil
}

func statusCommand(c *cli.Context) error {
	p := newProvider(c)
	installed := p.IsInstalled()
	initialized := p.Init(c.Context)

	return printJSON(map[string]bool{
		"installed":   installed,
		"initialized": initialized,
	})
}

func addressCommand(c *cli.Context) error {
	p, err := initProvider(c.Context, c)
	if err != nil {
		return err
	}
	account, err := p.Login(c.Context, provider.LoginOptions{})
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}
	fmt.Println(account.Address)
	return nil
}

func loginCommand(c *cli.Context) error {
	p, err := initProvider(c.Context, c)
	if err != nil {
		return err
	}
	account, err := p.Login(c.Context, provider.LoginOptions{Token: c.String("token")})
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}
	return printJSON(account)
}

func signMessageCommand(c *cli.Context) error {
	p, err := initProvider(c.Context, c)
	if err != nil {
		return err
	}
	if _, err := p.Login(c.Context, provider.LoginOptions{}); err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	signed, err := p.SignMessage(c.Context, types.NewMessage([]byte(c.String("message"))))
	if err != nil {
		return fmt.Errorf("message signing failed: %w", err)
	}
	return printJSON(map[string]any{
		"address":   signed.Address,
		"signer":    signed.Signer,
		"version":   signed.Version,
		"signature": hex.EncodeToString(signed.Signature),
	})
}

func signTxCommand(c *cli.Context) error {
	raw, err := os.ReadFile(c.String("file"))
	if err != nil {
		return fmt.Errorf("failed to read transaction file: %w", err)
	}
	tx, err := types.NewTransactionFromJSON(raw)
	if err != nil {
		return err
	}

	p, err := initProvider(c.Context, c)
	if err != nil {
		return err
	}
	signed, err := p.SignTransaction(c.Context, tx)
	if err != nil {
		return fmt.Errorf("transaction signing failed: %w", err)
	}
	return printJSON(signed)
}

func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

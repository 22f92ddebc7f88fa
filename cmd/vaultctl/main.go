package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/gui-benedito/go-secret-vault/internal/config"
	"github.com/gui-benedito/go-secret-vault/internal/logger"
	"github.com/gui-benedito/go-secret-vault/internal/service"
	"github.com/gui-benedito/go-secret-vault/internal/store"
	"github.com/gui-benedito/go-secret-vault/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

const usage = `Usage: vaultctl [flags] <command> [args]

Commands:
  set-password              set or change the master password
  add <kind> <title>        add a secret (kind: credential|note)
  get <id>                  decrypt and print one secret
  list                      list secrets (metadata only)
  update <id>               update fields of a secret
  delete <id>               soft-delete a secret
  versions <id>             list version history of a secret
  restore <id> <version>    restore a secret to an earlier version
  export <file>             export the vault to an encrypted backup file
  import <file>             restore the vault from a backup file
  generate [length]         generate a random password
  strength <password>       rate a candidate password
`

func main() {
	printBuildInfo()

	log := logger.NewLogger("vaultctl")
	cfg, err := config.GetStructuredConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	ctx := log.WithContext(context.Background())

	repos, err := store.NewRepositories(ctx, cfg.Storage, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error connecting to storage")
	}
	defer repos.Close()

	app := &cli{
		services: service.NewServices(repos, log),
		users:    repos.Users,
		userID:   cfg.App.UserID,
		in:       bufio.NewReader(os.Stdin),
		out:      os.Stdout,
	}

	if err := app.run(ctx, flag.Args()); err != nil {
		fmt.Fprintln(os.Stderr, "vaultctl:", service.UserMessage(err))
		log.Debug().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

// cli dispatches subcommands onto the engine services.
type cli struct {
	services *service.Services
	users    store.UserRepository
	userID   int64

	in  *bufio.Reader
	out io.Writer
}

func (c *cli) run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprint(c.out, usage)
		return nil
	}

	if err := c.ensureUser(ctx); err != nil {
		return err
	}

	command, rest := args[0], args[1:]
	switch command {
	case "set-password":
		return c.setPassword(ctx)
	case "add":
		return c.add(ctx, rest)
	case "get":
		return c.get(ctx, rest)
	case "list":
		return c.list(ctx)
	case "update":
		return c.update(ctx, rest)
	case "delete":
		return c.delete(ctx, rest)
	case "versions":
		return c.versions(ctx, rest)
	case "restore":
		return c.restore(ctx, rest)
	case "export":
		return c.export(ctx, rest)
	case "import":
		return c.importBackup(ctx, rest)
	case "generate":
		return c.generate(rest)
	case "strength":
		return c.strength(rest)
	default:
		fmt.Fprint(c.out, usage)
		return fmt.Errorf("unknown command %q", command)
	}
}

// ensureUser bootstraps the local single-user profile on first run.
func (c *cli) ensureUser(ctx context.Context) error {
	return c.users.EnsureUser(ctx, models.User{
		UserID: c.userID,
		Email:  "local@vaultctl",
	})
}

func (c *cli) setPassword(ctx context.Context) error {
	current, err := c.prompt("Current master password (empty if none): ")
	if err != nil {
		return err
	}
	next, err := c.prompt("New master password: ")
	if err != nil {
		return err
	}

	if _, err := c.services.MasterKeyService.SetMasterPassword(ctx, c.userID, current, next); err != nil {
		return err
	}

	fmt.Fprintln(c.out, "master password set")
	return nil
}

func (c *cli) add(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return errors.New("usage: add <kind> <title>")
	}

	kind := models.SecretKind(args[0])
	title := strings.Join(args[1:], " ")

	password, err := c.prompt("Master password: ")
	if err != nil {
		return err
	}
	value, err := c.prompt("Secret value: ")
	if err != nil {
		return err
	}
	identifier, err := c.prompt("Identifier (optional): ")
	if err != nil {
		return err
	}
	notes, err := c.prompt("Notes (optional): ")
	if err != nil {
		return err
	}

	fields := models.SecretFields{SecretValue: value}
	if identifier != "" {
		fields.Identifier = &identifier
	}
	if notes != "" {
		fields.Notes = &notes
	}

	record, err := c.services.VaultService.CreateSecret(ctx, c.userID, models.CreateSecretRequest{
		Kind:   kind,
		Title:  title,
		Fields: fields,
	}, password)
	if err != nil {
		return err
	}

	fmt.Fprintf(c.out, "created %s\n", record.ID)
	return nil
}

func (c *cli) get(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: get <id>")
	}

	password, err := c.prompt("Master password: ")
	if err != nil {
		return err
	}

	record, fields, err := c.services.VaultService.GetSecret(ctx, c.userID, args[0], password)
	if err != nil {
		return err
	}

	fmt.Fprintf(c.out, "%s (%s)\n", record.Title, record.Kind)
	if fields.Identifier != nil {
		fmt.Fprintf(c.out, "identifier: %s\n", *fields.Identifier)
	}
	fmt.Fprintf(c.out, "value: %s\n", fields.SecretValue)
	if fields.Notes != nil {
		fmt.Fprintf(c.out, "notes: %s\n", *fields.Notes)
	}
	return nil
}

func (c *cli) list(ctx context.Context) error {
	records, err := c.services.VaultService.ListSecrets(ctx, c.userID, models.SecretFilter{})
	if err != nil {
		return err
	}

	if len(records) == 0 {
		fmt.Fprintln(c.out, "vault is empty")
		return nil
	}
	for _, record := range records {
		marker := " "
		if record.IsFavorite {
			marker = "*"
		}
		fmt.Fprintf(c.out, "%s %s  %-10s  %s\n", marker, record.ID, record.Kind, record.Title)
	}
	return nil
}

func (c *cli) update(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: update <id>")
	}

	password, err := c.prompt("Master password: ")
	if err != nil {
		return err
	}

	var changes models.SecretChanges
	if title, err := c.prompt("New title (empty keeps current): "); err != nil {
		return err
	} else if title != "" {
		changes.Title = &title
	}
	if value, err := c.prompt("New secret value (empty keeps current): "); err != nil {
		return err
	} else if value != "" {
		changes.SecretValue = &value
	}
	if notes, err := c.prompt("New notes (empty keeps current): "); err != nil {
		return err
	} else if notes != "" {
		changes.Notes = &notes
	}

	if _, err := c.services.VaultService.UpdateSecret(ctx, c.userID, args[0], changes, password); err != nil {
		return err
	}

	fmt.Fprintln(c.out, "updated")
	return nil
}

func (c *cli) delete(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: delete <id>")
	}

	if err := c.services.VaultService.DeleteSecret(ctx, c.userID, args[0]); err != nil {
		return err
	}

	fmt.Fprintln(c.out, "deleted")
	return nil
}

func (c *cli) versions(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: versions <id>")
	}

	versions, err := c.services.VaultService.ListVersions(ctx, c.userID, args[0])
	if err != nil {
		return err
	}

	for _, version := range versions {
		state := "active"
		if !version.IsActive {
			state = "deleted"
		}
		fmt.Fprintf(c.out, "v%-4d %s  %s  %s\n",
			version.Version, version.CreatedAt.Format("2006-01-02 15:04:05"), state, version.Title)
	}
	return nil
}

func (c *cli) restore(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return errors.New("usage: restore <id> <version>")
	}

	target, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid version number %q", args[1])
	}

	password, err := c.prompt("Master password: ")
	if err != nil {
		return err
	}

	if _, err := c.services.VaultService.RestoreVersion(ctx, c.userID, args[0], target, password); err != nil {
		return err
	}

	fmt.Fprintf(c.out, "restored version %d\n", target)
	return nil
}

func (c *cli) export(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: export <file>")
	}

	password, err := c.prompt("Master password: ")
	if err != nil {
		return err
	}

	artifact, err := c.services.BackupService.Export(ctx, c.userID, password)
	if err != nil {
		return err
	}

	if err := os.WriteFile(args[0], []byte(artifact), 0o600); err != nil {
		return fmt.Errorf("writing backup file: %w", err)
	}

	fmt.Fprintf(c.out, "vault exported to %s\n", args[0])
	return nil
}

func (c *cli) importBackup(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: import <file>")
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading backup file: %w", err)
	}

	password, err := c.prompt("Master password of the backup: ")
	if err != nil {
		return err
	}

	backup, err := c.services.BackupService.Import(strings.TrimSpace(string(data)), password)
	if err != nil {
		return err
	}

	result, err := c.services.BackupService.Restore(ctx, c.userID, backup)
	if err != nil {
		return err
	}

	fmt.Fprintf(c.out, "restored %d secrets, %d versions (%d orphan versions dropped)\n",
		result.SecretsRestored, result.VersionsRestored, result.VersionsDropped)
	return nil
}

func (c *cli) generate(args []string) error {
	opts := models.GeneratorOptions{Length: 16}
	if len(args) == 1 {
		length, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid length %q", args[0])
		}
		opts.Length = length
	}

	password, err := c.services.PasswordService.Generate(opts)
	if err != nil {
		return err
	}

	fmt.Fprintln(c.out, password)
	return nil
}

func (c *cli) strength(args []string) error {
	if len(args) != 1 {
		return errors.New("usage: strength <password>")
	}

	report := c.services.PasswordService.AnalyzeStrength(args[0])

	fmt.Fprintf(c.out, "%s (score %d/4, ~%.0f bits)\n", report.Label, report.Score, report.EntropyBits)
	for _, warning := range report.Warnings {
		fmt.Fprintf(c.out, "  warning: %s\n", warning)
	}
	return nil
}

func (c *cli) prompt(label string) (string, error) {
	fmt.Fprint(c.out, label)
	line, err := c.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}

	if buildDate == "" {
		buildDate = "N/A"
	}

	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}

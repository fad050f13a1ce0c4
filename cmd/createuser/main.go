package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/marginalwallet/wallet-api/internal/auth"
	"github.com/marginalwallet/wallet-api/internal/config"
	"github.com/marginalwallet/wallet-api/internal/domain"
	"github.com/marginalwallet/wallet-api/internal/repository/postgres"
	"github.com/marginalwallet/wallet-api/internal/service"
	"golang.org/x/term"
)

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type options struct {
	name     string
	email    string
	password string
}

func parseArgs(args []string, stdout, stderr io.Writer) (*options, error) {
	fs := flag.NewFlagSet("createuser", flag.ContinueOnError)
	fs.SetOutput(stderr)

	opts := &options{}
	fs.StringVar(&opts.name, "name", "", "User name")
	fs.StringVar(&opts.email, "email", "", "Email address, used to log in")
	fs.StringVar(&opts.password, "password", "", "Password (optional, will prompt if omitted)")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if opts.name == "" || opts.email == "" {
		fmt.Fprintln(stdout, "Usage: createuser -name <name> -email <email> [-password <password>]")
		fs.PrintDefaults()
		return nil, fmt.Errorf("missing required flags: name, email")
	}
	return opts, nil
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	opts, err := parseArgs(args, stdout, stderr)
	if err != nil {
		return err
	}

	if opts.password == "" {
		fmt.Fprint(stdout, "Password: ")
		opts.password, err = readPassword(stdin)
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}
		fmt.Fprintln(stdout)
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()

	userService := service.NewUserService(postgres.NewUserRepository(pool), auth.NewPasswordHasher(cfg.BcryptCost))
	return createUser(ctx, userService, opts, stdout)
}

// registrar is the part of UserService the command needs
type registrar interface {
	Register(ctx context.Context, input service.RegisterInput) (*domain.User, error)
}

func createUser(ctx context.Context, users registrar, opts *options, stdout io.Writer) error {
	user, err := users.Register(ctx, service.RegisterInput{
		Name:     opts.name,
		Email:    opts.email,
		Password: opts.password,
	})
	if err != nil {
		if errors.Is(err, domain.ErrUserAlreadyExists) {
			return fmt.Errorf("a user named %s or with email %s already exists", opts.name, opts.email)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	fmt.Fprintf(stdout, "User %s created successfully with ID %d\n", user.Name, user.ID)
	return nil
}

func readPassword(stdin io.Reader) (string, error) {
	if f, ok := stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		bytePassword, err := term.ReadPassword(int(f.Fd()))
		if err != nil {
			return "", err
		}
		return string(bytePassword), nil
	}

	// pipes and tests
	scanner := bufio.NewScanner(stdin)
	if scanner.Scan() {
		return strings.TrimRight(scanner.Text(), "\r"), nil
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}

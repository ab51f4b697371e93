package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"

	"crew-directory.backend/internal/config"
	"crew-directory.backend/internal/domain/entities"
	domainerrors "crew-directory.backend/internal/domain/errors"
	domainrepo "crew-directory.backend/internal/domain/repositories"
	"crew-directory.backend/internal/infrastructure/datasources/postgres"
	"crew-directory.backend/internal/infrastructure/repositories"
	"crew-directory.backend/pkg/crypto"
)

// passwordEnv supplies the password when -password is omitted
const passwordEnv = "CREATE_USER_PASSWORD"

var openCreateUserDB = func(cfg config.DatabaseConfig) (*gorm.DB, io.Closer, error) {
	pool, err := postgres.NewConnection(cfg)
	if err != nil {
		return nil, nil, err
	}
	db, err := postgres.OpenGorm(pool)
	if err != nil {
		_ = pool.Close()
		return nil, nil, err
	}
	return db, pool, nil
}

type createUserRuntime interface {
	FreelancerExists(ctx context.Context, id int64) (bool, error)
	CreateUser(ctx context.Context, user *entities.User) error
}

type createUserDeps struct {
	loadEnv func() error
	loadCfg func() *config.Config
	getenv  func(string) string
	prepare func(cfg *config.Config) (createUserRuntime, io.Closer, error)
	out     io.Writer
}

type createUserRuntimeImpl struct {
	userRepo   domainrepo.UserRepository
	freelancer domainrepo.FreelancerWriter
}

func (r createUserRuntimeImpl) FreelancerExists(ctx context.Context, id int64) (bool, error) {
	if _, err := r.freelancer.GetByID(ctx, id); err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (r createUserRuntimeImpl) CreateUser(ctx context.Context, user *entities.User) error {
	return r.userRepo.Create(ctx, user)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func defaultCreateUserDeps() createUserDeps {
	return createUserDeps{
		loadEnv: func() error { return godotenv.Load() },
		loadCfg: config.Load,
		getenv:  os.Getenv,
		prepare: func(cfg *config.Config) (createUserRuntime, io.Closer, error) {
			db, closer, err := openCreateUserDB(cfg.Database)
			if err != nil {
				return nil, nil, fmt.Errorf("failed to connect db: %w", err)
			}

			return createUserRuntimeImpl{
				userRepo:   repositories.NewUserRepository(db),
				freelancer: repositories.NewFreelancerWriter(db),
			}, closer, nil
		},
		out: os.Stdout,
	}
}

type userFlags struct {
	email        string
	name         string
	role         entities.UserRole
	freelancerID null.Int64
	password     string
}

func parseUserFlags(args []string, getenv func(string) string) (*userFlags, error) {
	fs := flag.NewFlagSet("create-user", flag.ContinueOnError)
	emailFlag := fs.String("email", "", "login email (required)")
	nameFlag := fs.String("name", "", "display name")
	roleFlag := fs.String("role", string(entities.UserRoleMember), "ADMIN or MEMBER")
	freelancerFlag := fs.Int64("freelancer-id", 0, "freelancer row the member edits (required for MEMBER)")
	passwordFlag := fs.String("password", "", "initial password, defaults to $"+passwordEnv)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	f := &userFlags{
		email:    strings.ToLower(strings.TrimSpace(*emailFlag)),
		name:     strings.TrimSpace(*nameFlag),
		role:     entities.UserRole(strings.ToUpper(strings.TrimSpace(*roleFlag))),
		password: *passwordFlag,
	}
	if f.email == "" || !strings.Contains(f.email, "@") {
		return nil, fmt.Errorf("--email is required")
	}
	if f.password == "" {
		f.password = getenv(passwordEnv)
	}
	if err := crypto.ValidatePasswordStrength(f.password); err != nil {
		return nil, fmt.Errorf("password rejected: %w", err)
	}

	switch f.role {
	case entities.UserRoleAdmin:
		if *freelancerFlag != 0 {
			return nil, fmt.Errorf("--freelancer-id is only valid for MEMBER accounts")
		}
	case entities.UserRoleMember:
		if *freelancerFlag <= 0 {
			return nil, fmt.Errorf("--freelancer-id is required for MEMBER accounts")
		}
		f.freelancerID = null.Int64From(*freelancerFlag)
	default:
		return nil, fmt.Errorf("invalid role %q (allowed: ADMIN, MEMBER)", *roleFlag)
	}
	if f.name == "" {
		f.name = f.email
	}
	return f, nil
}

func runCreateUser(args []string, deps createUserDeps) error {
	def := defaultCreateUserDeps()
	if deps.loadEnv == nil {
		deps.loadEnv = def.loadEnv
	}
	if deps.loadCfg == nil {
		deps.loadCfg = def.loadCfg
	}
	if deps.getenv == nil {
		deps.getenv = def.getenv
	}
	if deps.prepare == nil {
		deps.prepare = def.prepare
	}
	if deps.out == nil {
		deps.out = def.out
	}

	if err := deps.loadEnv(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	flags, err := parseUserFlags(args, deps.getenv)
	if err != nil {
		return err
	}

	cfg := deps.loadCfg()
	runtime, closer, err := deps.prepare(cfg)
	if err != nil {
		return err
	}
	if closer == nil {
		closer = nopCloser{}
	}
	defer closer.Close()

	ctx := context.Background()
	if flags.freelancerID.Valid {
		ok, err := runtime.FreelancerExists(ctx, flags.freelancerID.Int64)
		if err != nil {
			return fmt.Errorf("failed to load freelancer %d: %w", flags.freelancerID.Int64, err)
		}
		if !ok {
			return fmt.Errorf("freelancer %d does not exist", flags.freelancerID.Int64)
		}
	}

	hash, err := crypto.HashPassword(flags.password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	user := &entities.User{
		Email:        flags.email,
		Name:         flags.name,
		PasswordHash: hash,
		Role:         flags.role,
		FreelancerID: flags.freelancerID,
	}
	if err := runtime.CreateUser(ctx, user); err != nil {
		if errors.Is(err, domainerrors.ErrAlreadyExists) {
			return fmt.Errorf("a user with email %s already exists", flags.email)
		}
		return fmt.Errorf("failed creating user: %w", err)
	}

	_, _ = fmt.Fprintf(deps.out, "Created %s account\n", user.Role)
	_, _ = fmt.Fprintf(deps.out, "user_id=%s\n", user.ID.String())
	_, _ = fmt.Fprintf(deps.out, "email=%s\n", user.Email)
	if user.FreelancerID.Valid {
		_, _ = fmt.Fprintf(deps.out, "freelancer_id=%d\n", user.FreelancerID.Int64)
	}
	return nil
}

func main() {
	if err := runCreateUser(os.Args[1:], defaultCreateUserDeps()); err != nil {
		log.Fatal(err)
	}
}

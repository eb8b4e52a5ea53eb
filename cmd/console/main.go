// Command console is a thin terminal frontend over the admin-console SDK:
// it wires configuration, logging, the session store, the API client, and
// the session manager, then dispatches one subcommand.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/utpfund/admin-console-go/internal/client"
	"github.com/utpfund/admin-console-go/internal/core/domain"
	"github.com/utpfund/admin-console-go/internal/core/ports"
	"github.com/utpfund/admin-console-go/internal/core/service"
	"github.com/utpfund/admin-console-go/internal/infrastructure/config"
	"github.com/utpfund/admin-console-go/internal/infrastructure/store/filestore"
	"github.com/utpfund/admin-console-go/internal/infrastructure/store/redisstore"
	"github.com/utpfund/admin-console-go/pkg/logger"
)

const usage = `usage: console <command> [flags]

commands:
  login      -email <addr> -password <secret>
  logout
  whoami
  refresh
  users      [-page N] [-limit N] [-role R] [-search S]
  deposits   [-status pending|approved|rejected]
  approve    -id <request> [-notes text]
  reject     -id <request> -reason text
  dashboard  [-period all|today|week|month]
  stats
`

func main() {
	if err := run(context.Background(), os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("missing command")
	}

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}
	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: cfg.LogPretty})

	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	api := client.New(cfg.APIBaseURL,
		client.WithTimeout(cfg.HTTPTimeout),
		client.WithLogger(log),
	)
	auth := service.NewAuthManager(api, store,
		service.WithAuthLogger(log),
		service.WithValidateOnStart(cfg.ValidateOnStart),
	)
	defer auth.Close()
	auth.Initialize(ctx)

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "login":
		fs := flag.NewFlagSet("login", flag.ExitOnError)
		email := fs.String("email", "", "operator email")
		password := fs.String("password", "", "operator password")
		_ = fs.Parse(rest)
		result, err := auth.Login(ctx, domain.Credentials{Email: *email, Password: *password})
		if err != nil {
			return err
		}
		log.Info().Str("email", result.User.Email).Msg("session established")
		return print(result.User)

	case "logout":
		if err := auth.Logout(ctx); err != nil {
			return err
		}
		log.Info().Msg("signed out")
		return nil

	case "whoami":
		session := auth.Session()
		if !session.Authenticated {
			return domain.ErrNotAuthenticated
		}
		return print(session.User)

	case "refresh":
		token, err := auth.RefreshToken(ctx)
		if err != nil {
			return err
		}
		log.Info().Msg("token refreshed")
		fmt.Println(token)
		return nil

	case "users":
		fs := flag.NewFlagSet("users", flag.ExitOnError)
		page := fs.Int("page", 0, "page number")
		limit := fs.Int("limit", 0, "page size")
		role := fs.String("role", "", "filter by role")
		search := fs.String("search", "", "search term")
		_ = fs.Parse(rest)
		list, err := service.NewUserService(api).List(ctx, service.UserListParams{
			Page: *page, Limit: *limit, Role: *role, Search: *search,
		})
		if err != nil {
			return err
		}
		return print(list)

	case "deposits":
		fs := flag.NewFlagSet("deposits", flag.ExitOnError)
		status := fs.String("status", "", "filter by status")
		_ = fs.Parse(rest)
		list, err := service.NewDepositService(api).List(ctx, service.DepositListParams{Status: *status})
		if err != nil {
			return err
		}
		return print(list)

	case "approve":
		fs := flag.NewFlagSet("approve", flag.ExitOnError)
		id := fs.String("id", "", "deposit request id")
		notes := fs.String("notes", "", "approval notes")
		_ = fs.Parse(rest)
		result, err := service.NewDepositService(api).Approve(ctx, *id, *notes)
		if err != nil {
			return err
		}
		return print(result)

	case "reject":
		fs := flag.NewFlagSet("reject", flag.ExitOnError)
		id := fs.String("id", "", "deposit request id")
		reason := fs.String("reason", "", "rejection reason")
		_ = fs.Parse(rest)
		result, err := service.NewDepositService(api).Reject(ctx, *id, *reason)
		if err != nil {
			return err
		}
		return print(result)

	case "dashboard":
		fs := flag.NewFlagSet("dashboard", flag.ExitOnError)
		period := fs.String("period", "all", "aggregation window")
		_ = fs.Parse(rest)
		board, err := service.NewDashboardService(api).SuperAdmin(ctx, domain.DashboardPeriod(*period))
		if err != nil {
			return err
		}
		return print(board)

	case "stats":
		stats, err := service.NewDashboardService(api).Stats(ctx)
		if err != nil {
			return err
		}
		return print(stats)

	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func openStore(ctx context.Context, cfg *config.Config) (ports.SessionStore, error) {
	switch cfg.Store.Backend {
	case "redis":
		rdb, err := redisstore.Connect(ctx, redisstore.Config{
			Addr: cfg.Redis.Addr,
			DB:   cfg.Redis.DB,
		})
		if err != nil {
			return nil, err
		}
		return redisstore.NewDefault(rdb, cfg.Redis.Prefix), nil
	default:
		dir := cfg.Store.Dir
		if dir == "" {
			var err error
			if dir, err = filestore.DefaultDir(); err != nil {
				return nil, err
			}
		}
		return filestore.New(dir, filestore.WithPollInterval(cfg.Store.PollInterval))
	}
}

func print(v any) error {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(raw))
	return nil
}

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"text/tabwriter"

	"github.com/google/subcommands"

	authusecase "stock_trader/internal/feature/auth/usecase"
	"stock_trader/internal/platform/db"
	"stock_trader/internal/platform/migrations"
	"stock_trader/internal/platform/render"
)

type migrateCmd struct {
	env  *env
	gorm bool
}

func (*migrateCmd) Name() string     { return "migrate" }
func (*migrateCmd) Synopsis() string { return "apply the database schema" }
func (*migrateCmd) Usage() string {
	return `financectl migrate [-gorm]

  Applies pending goose migrations. With -gorm the schema is created by
  gorm AutoMigrate instead, which is what local development and tests use.
`
}

func (c *migrateCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.gorm, "gorm", false, "use gorm AutoMigrate instead of the versioned migrations")
}

func (c *migrateCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.env.withApp(ctx, func(a *app) error {
		if c.gorm {
			if err := db.Migrate(a.db); err != nil {
				return err
			}
			fmt.Fprintln(c.env.out, "schema migrated")
			return nil
		}
		sqlDB, err := a.db.DB()
		if err != nil {
			return err
		}
		if err := migrations.Up(ctx, sqlDB); err != nil {
			return err
		}
		fmt.Fprintln(c.env.out, "migrations applied")
		return nil
	})
}

type quoteCmd struct {
	env *env
}

func (*quoteCmd) Name() string     { return "quote" }
func (*quoteCmd) Synopsis() string { return "look up the current price of symbols" }
func (*quoteCmd) Usage() string {
	return `financectl quote <symbol>...
`
}
func (*quoteCmd) SetFlags(*flag.FlagSet) {}

func (c *quoteCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		fmt.Fprint(c.env.errw, c.Usage())
		return subcommands.ExitUsageError
	}
	return c.env.withApp(ctx, func(a *app) error {
		w := tabwriter.NewWriter(c.env.out, 0, 4, 2, ' ', 0)
		for _, raw := range f.Args() {
			q, err := a.container.Quotes.Lookup(ctx, raw)
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "%s\t%s\t%s\n", q.Symbol, q.Name, render.USD(q.Price))
		}
		return w.Flush()
	})
}

type summaryCmd struct {
	env  *env
	user string
}

func (*summaryCmd) Name() string     { return "summary" }
func (*summaryCmd) Synopsis() string { return "value an account's holdings at current prices" }
func (*summaryCmd) Usage() string {
	return `financectl summary -user <username>
`
}

func (c *summaryCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.user, "user", "", "account username")
}

func (c *summaryCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.user == "" {
		fmt.Fprint(c.env.errw, c.Usage())
		return subcommands.ExitUsageError
	}
	return c.env.withApp(ctx, func(a *app) error {
		id, err := lookupAccount(ctx, a, c.user)
		if err != nil {
			return err
		}
		p, err := a.container.Trading.Summary(ctx, id)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(c.env.out, 0, 4, 2, ' ', tabwriter.AlignRight)
		fmt.Fprintln(w, "SYMBOL\tNAME\tSHARES\tPRICE\tTOTAL\t")
		for _, pos := range p.Positions {
			fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\t\n", pos.Symbol, pos.Name, pos.Shares, render.USD(pos.Price), render.USD(pos.Value))
		}
		fmt.Fprintf(w, "CASH\t\t\t\t%s\t\n", render.USD(p.Cash))
		fmt.Fprintf(w, "STOCKS\t\t\t\t%s\t\n", render.USD(p.HoldingsTotal))
		fmt.Fprintf(w, "TOTAL\t\t\t\t%s\t\n", render.USD(p.Total))
		return w.Flush()
	})
}

type historyCmd struct {
	env  *env
	user string
}

func (*historyCmd) Name() string     { return "history" }
func (*historyCmd) Synopsis() string { return "list an account's transactions" }
func (*historyCmd) Usage() string {
	return `financectl history -user <username>
`
}

func (c *historyCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.user, "user", "", "account username")
}

func (c *historyCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.user == "" {
		fmt.Fprint(c.env.errw, c.Usage())
		return subcommands.ExitUsageError
	}
	return c.env.withApp(ctx, func(a *app) error {
		id, err := lookupAccount(ctx, a, c.user)
		if err != nil {
			return err
		}
		records, err := a.container.Trading.History(ctx, id)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(c.env.out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "SYMBOL\tSHARES\tPRICE\tTRANSACTED")
		for _, r := range records {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", r.Symbol, render.Shares(r.Shares), render.USD(r.Price), r.ExecutedAt.UTC().Format("2006-01-02 15:04:05"))
		}
		return w.Flush()
	})
}

type purgeCmd struct {
	env *env
}

func (*purgeCmd) Name() string     { return "purge-sessions" }
func (*purgeCmd) Synopsis() string { return "delete expired sessions" }
func (*purgeCmd) Usage() string {
	return `financectl purge-sessions
`
}
func (*purgeCmd) SetFlags(*flag.FlagSet) {}

func (c *purgeCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.env.withApp(ctx, func(a *app) error {
		n, err := a.container.Auth.PurgeExpiredSessions(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(c.env.out, "%d expired sessions deleted\n", n)
		return nil
	})
}

func lookupAccount(ctx context.Context, a *app, username string) (uint, error) {
	acct, err := a.accounts.FindByUsername(ctx, username)
	if errors.Is(err, authusecase.ErrAccountNotFound) {
		return 0, fmt.Errorf("no account named %q", username)
	}
	if err != nil {
		return 0, err
	}
	return acct.ID, nil
}

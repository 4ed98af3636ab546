package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/naveenspark/shopfront/internal/auth"
	"github.com/naveenspark/shopfront/internal/config"
	"github.com/naveenspark/shopfront/internal/guard"
	"github.com/naveenspark/shopfront/internal/kv"
	"github.com/naveenspark/shopfront/internal/logging"
	"github.com/naveenspark/shopfront/internal/session"
	"github.com/naveenspark/shopfront/internal/tui"
	"github.com/naveenspark/shopfront/pkg/client"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", exitMessage(err))
		os.Exit(1)
	}
}

// globalFlags override the config file and environment.
type globalFlags struct {
	configPath string
	apiURL     string
	store      string
	verbose    bool
}

// deps is everything a command needs, built once per invocation.
type deps struct {
	cfg    *config.Config
	client *client.Client
	auth   *auth.Service
	close  func() error
}

func newRootCmd() *cobra.Command {
	var (
		flags globalFlags
		rt    *deps
		open  string
	)

	root := &cobra.Command{
		Use:   "shopfront",
		Short: "Terminal storefront: browse, order and run the shop",
		Long: `shopfront is a terminal client for the shop API.

Run it without arguments to open the storefront. Admin views need an
account with the admin role.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "version" {
				return nil
			}
			var err error
			rt, err = setup(cmd, flags)
			return err
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			if rt == nil {
				return nil
			}
			return rt.close()
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTUI(rt, open)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&flags.configPath, "config", "", "config file (default ~/.shopfront/config.toml)")
	pf.StringVar(&flags.apiURL, "api-url", "", "shop API base URL (or set SHOPFRONT_API_URL)")
	pf.StringVar(&flags.store, "store", "", "session store: file, keyring, redis or memory (or set SHOPFRONT_STORE)")
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "log to stdout as well as the log file")
	root.Flags().StringVar(&open, "open", guard.PathHome, "view to open first, e.g. /admin/login")

	rtFn := func() *deps { return rt }
	root.AddCommand(
		newVersionCmd(),
		newLoginCmd(rtFn),
		newRegisterCmd(rtFn),
		newLogoutCmd(rtFn),
		newWhoamiCmd(rtFn),
	)
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "shopfront %s\n", version)
		},
	}
}

// setup loads config, starts logging and opens the session store.
func setup(cmd *cobra.Command, flags globalFlags) (*deps, error) {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return nil, err
	}
	if cmd.Flags().Changed("api-url") {
		cfg.APIURL = flags.apiURL
	}
	if cmd.Flags().Changed("store") {
		cfg.Store = flags.store
	}
	if flags.verbose {
		cfg.LogToStdout = true
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	logging.Setup(logging.LoggerSetupParams{
		LogFileName: cfg.LogFile,
		LogToStdout: cfg.LogToStdout && cmd != cmd.Root(),
		LogLevel:    cfg.LogLevel,
	})
	log.Debugf("shopfront %s: api=%s store=%s", version, cfg.APIURL, cfg.Store)

	storage, closeStorage, err := kv.Open(cmd.Context(), cfg)
	if err != nil {
		return nil, err
	}
	store := session.NewStore(storage)

	c := client.New(cfg.APIURL, store,
		client.WithTimeout(cfg.HTTPTimeout.Duration),
		client.WithReadCache(cfg.CacheTTL.Duration, cfg.CacheSizeMB),
	)
	return &deps{
		cfg:    cfg,
		client: c,
		auth:   auth.NewService(c, store),
		close:  closeStorage,
	}, nil
}

func runTUI(rt *deps, start string) error {
	g := guard.New(guard.DefaultTable(), rt.auth)
	app := tui.NewApp(rt.client, rt.auth, g, start, tui.WithFileBaseURL(rt.cfg.APIURL))

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui error: %w", err)
	}
	return nil
}

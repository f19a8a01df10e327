/*
Package main implements the qubemenu daemon and CLI [DBG] application.

qubemenu aggregates per-qube application entries into one searchable menu
state. It subscribes to the platform's administrative event feed, keeps an
in-memory picture of every qube (name, running state, feature flags) and its
application entries, and serves ranked, highlighted search results plus page
state to a presentation client over MessagePack IPC.

The daemon owns no widgets: the GUI toolkit, desktop file parsing, process
launching and window management all live in external collaborators. What
lives here is the state reconciliation loop and the text matching.

# Usage

Start the daemon against the default admin sockets:

	qubemenu

Use custom sockets and enable debug mode:

	qubemenu -socket /run/test/events.sock -d

Run in CLI mode for interactive testing:

	qubemenu -c -limit 10

# Configuration

Runtime configuration is managed through a TOML file that is automatically
created with defaults if it doesn't exist:

	[menu]
	initial_page = 1
	sort_running = false
	keep_visible = false

	[server]
	max_limit = 64
	min_query = 1
	max_query = 60
	enable_filter = true

	[highlight]
	open_tag = "<b>"
	close_tag = "</b>"

Two feature flags on the local qube override the menu section at runtime:
menu-initial-page and menu-sort-running. Malformed values fall back to the
config defaults and are never treated as errors.

# IPC Protocol

The presentation client communicates via MessagePack over stdin/stdout.

Send a search request:

	{"id": "req1", "q": "fire", "l": 20}

Receive ranked entries with highlight markup applied:

	{"id": "req1", "s": [{"e": "work/firefox", "n": "<b>Fire</b>fox", "q": "work", "run": true, "r": 1}], "c": 1, "t": 92}

Menu actions manage page state and settings:

	{"id": "m1", "action": "get_state"}
	{"id": "m2", "action": "set_page", "page": 2}

# Event Feed

Administrative events (domain add/remove, start/shutdown, feature and
property changes, entry add/remove) arrive on a unix socket and are applied
strictly in delivery order on a single cooperative loop. Events naming an
unknown qube are ignored. The feed owns reconnection; when it ends, so does
the daemon.

# Exit Codes

When the admin sockets cannot be reached at startup the daemon exits with
code 6, telling the supervising service that the environment is unusable and
the process should not be restarted. All other failures exit with 1.

# Command Line Flags

	-socket string
	    Admin event feed socket (default resolved from XDG_RUNTIME_DIR)
	-store-socket string
	    Feature store socket
	-local string
	    Name of the local qube whose features configure the menu
	-config string
	    Path to a custom TOML config file
	-keep-visible
	    Report to the client that the menu should stay visible after actions
	-page int
	    Initial page index, overriding config and feature flags
	-background
	    Suppress the startup banner; useful for initial autostart
	-c  Run in CLI mode instead of server mode
	-d  Enable debug mode with detailed logging
	-limit int
	    Number of results to return in CLI mode
	-no-filter
	    Disable query filtering (DBG only)
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/qubemenu/qubemenu/internal/cli"
	"github.com/qubemenu/qubemenu/internal/utils"
	"github.com/qubemenu/qubemenu/pkg/admin"
	"github.com/qubemenu/qubemenu/pkg/config"
	"github.com/qubemenu/qubemenu/pkg/menu"
	"github.com/qubemenu/qubemenu/pkg/server"
)

const (
	Version = "0.3.0"
	AppName = "qubemenu"

	// exitEnvUnusable tells the supervising service not to restart us.
	exitEnvUnusable = 6
)

// sigHandler is a simple handler for OS signals to exit normally.
func sigHandler(cancel context.CancelFunc) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		fmt.Fprintf(os.Stderr, "\nExiting...\n")
		cancel()
		os.Exit(0)
	}()
}

// main wires the collaborators together and manages the flow; the actual
// logic lives in the packages.
func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigHandler(cancel)

	defaultConfig := config.DefaultConfig()

	showVersion := flag.Bool("version", false, "Show current version")
	debugMode := flag.Bool("d", false, "Toggle debug mode")
	cliMode := flag.Bool("c", false, "Run CLI -- useful for testing and debugging")
	configPath := flag.String("config", "", "Path to a custom config file")
	socketPath := flag.String("socket", "", "Admin event feed socket path")
	storeSocketPath := flag.String("store-socket", "", "Feature store socket path")
	localName := flag.String("local", "dom0", "Name of the local qube")
	keepVisible := flag.Bool("keep-visible", false, "Do not hide the menu after an action")
	initialPage := flag.Int("page", defaultConfig.Menu.InitialPage, "Open menu at selected page (overrides config and feature flags)")
	background := flag.Bool("background", false, "Start without presenting; suppresses the startup banner")
	limit := flag.Int("limit", defaultConfig.CLI.DefaultLimit, "Number of results to return in CLI mode")
	noFilter := flag.Bool("no-filter", defaultConfig.CLI.DefaultNoFilter, "Disable query filtering (DBG only)")

	flag.Parse()

	pageFromFlag := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "page" {
			pageFromFlag = true
		}
	})

	if *showVersion {
		showVersionInfo()
		os.Exit(0)
	}

	if *debugMode {
		log.SetLevel(log.DebugLevel)
		log.SetReportTimestamp(true)
	} else {
		log.SetLevel(log.WarnLevel)
	}

	appConfig, activePath, err := config.LoadConfigWithPriority(*configPath)
	if err != nil {
		log.Warnf("Config load failed, using defaults: %v", err)
		appConfig = config.DefaultConfig()
	}
	log.Debugf("Using config file: (%s)", config.GetActiveConfigPath(activePath))

	if *keepVisible {
		appConfig.Menu.KeepVisible = true
	}

	eventsSock := utils.ResolveSocketPath(*socketPath, "events.sock")
	storeSock := utils.ResolveSocketPath(*storeSocketPath, "features.sock")

	feed, feedErr := admin.Dial(eventsSock)

	var store admin.FeatureStore
	if feedErr == nil {
		storeClient, err := admin.DialStore(storeSock)
		if err != nil {
			if !*cliMode {
				log.Errorf("Cannot reach feature store at %s: %v", storeSock, err)
				os.Exit(exitEnvUnusable)
			}
			log.Warnf("No feature store at %s, using defaults", storeSock)
			store = admin.NewMemStore()
		} else {
			defer storeClient.Close()
			store = storeClient
		}
	} else {
		store = admin.NewMemStore()
	}

	// CLI mode is for testing matching and highlighting; it attaches to the
	// feed when one is around but runs happily without a platform.
	if feedErr != nil {
		if !*cliMode {
			// the admin bus is not there; signal the supervisor that
			// restarting us will not help
			log.Errorf("Cannot reach admin event feed at %s: %v", eventsSock, feedErr)
			os.Exit(exitEnvUnusable)
		}
		log.Warnf("No event feed at %s, running with empty menu state...", eventsSock)
	}

	mgr := menu.NewManagerWithDefaults(*localName, store, menu.Settings{
		InitialPage: appConfig.Menu.InitialPage,
		SortRunning: appConfig.Menu.SortRunning,
	})
	if pageFromFlag {
		mgr.SetPage(*initialPage)
	}

	dispatcher := admin.NewDispatcher()
	mgr.Register(dispatcher)

	loop := menu.NewLoop()
	go loop.Run(ctx)

	if feedErr == nil {
		defer feed.Close()
		go func() {
			if err := feed.Run(ctx); err != nil {
				log.Errorf("Event feed terminated: %v", err)
			}
		}()
		go func() {
			// every event becomes one queued loop action, preserving
			// feed order
			for ev := range feed.Events() {
				ev := ev
				loop.Do(func() { dispatcher.Dispatch(ev) })
			}
		}()
	}

	if *cliMode {
		log.SetReportTimestamp(false)
		inputHandler := cli.NewInputHandler(mgr, loop, *limit, *noFilter)
		if err := inputHandler.Start(); err != nil {
			log.Fatalf("CLI error: %v", err)
		}
		return
	}

	if !*background {
		showStartupInfo(eventsSock)
	}

	srv := server.NewServer(mgr, loop, appConfig)
	if err := srv.Start(); err != nil {
		log.Fatalf("IPC server failed: %v", err)
	}
}

// showVersionInfo displays the version banner.
func showVersionInfo() {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportCaller:    false,
		ReportTimestamp: false,
	})

	styles := log.DefaultStyles()
	styles.Values["version"] = lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	logger.SetStyles(styles)

	logger.Print("")
	logger.Print("[ qubemenu ] Unified application menu state for qubes")
	logger.Print("", "version", Version)
	logger.Print("")
	logger.Print("use -h or --help to see available options")
}

// showStartupInfo displays some basic info about the init process.
func showStartupInfo(socketPath string) {
	pid := os.Getpid()
	currentLevel := log.GetLevel()
	log.SetLevel(log.InfoLevel)

	println("==========")
	println(" qubemenu ")
	println("==========")
	log.Infof("Version: %s", Version)
	log.Infof("Process ID: [ %d ]", pid)
	log.Info("init: OK")
	log.Infof("event feed: ( %s )", socketPath)
	log.Info("status: ready")
	println("==========")

	log.SetLevel(currentLevel)
}

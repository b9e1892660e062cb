package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/realscripter/vouch/internal/client"
	"github.com/realscripter/vouch/internal/config"
	httpapp "github.com/realscripter/vouch/internal/http"
	"github.com/realscripter/vouch/internal/model"
	"github.com/realscripter/vouch/internal/moderation"
	"github.com/realscripter/vouch/internal/store"
	"github.com/realscripter/vouch/internal/store/memory"
	"github.com/realscripter/vouch/internal/store/sqlite"
	"github.com/realscripter/vouch/internal/vouch"
)

func main() {
	if len(os.Args) < 2 {
		runServer()
		return
	}

	cmd := os.Args[1]

	if cmd == "-h" || cmd == "--help" || cmd == "help" {
		printUsage()
		return
	}

	if cmd == "-v" || cmd == "--version" || cmd == "version" {
		fmt.Println("vouch v0.1.0")
		return
	}

	if strings.HasPrefix(cmd, "-") {
		runServer()
		return
	}

	args := os.Args[2:]

	switch cmd {
	case "server", "serve":
		runServer()
	case "vouch", "submit":
		cmdSubmit(args)
	case "check":
		cmdCheck(args)
	case "edit":
		cmdEdit(args)
	case "delete", "rm":
		cmdDelete(args)
	case "time":
		cmdTime(args)
	case "top", "leaderboard":
		cmdTop(args)
	case "ping":
		cmdPing(args)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`vouch - community vouch bulletin board

Usage: vouch <command> [options]

Server:
  server              Run the HTTP server (also the default with no command)

Client Commands:
  vouch               Submit a vouch or scam warning for a username
  check               Show your vouch totals for a username
  edit                Edit a vouch via its session id
  delete              Delete a vouch via its session id
  time                Show remaining session time
  top                 Show the most vouched usernames
  ping                Check that the server is up

Server environment:
  VOUCH_ADDR          Listen address (default :8080, PORT also honored)
  VOUCH_DB            SQLite path; empty keeps everything in memory
  VOUCH_MOD_URL       Chat-completions endpoint for moderation
  VOUCH_MOD_MODEL     Moderation model name
  VOUCH_MOD_TIMEOUT   Moderation call timeout (default 5s)`)
}

func runServer() {
	cfg := config.Load()

	st, err := openStore(cfg)
	if err != nil {
		log.Fatalf("failed to open store: %v", err)
	}
	defer st.Close()

	gateway := moderation.NewClient(cfg.Moderation.URL, cfg.Moderation.APIKey, cfg.Moderation.Model, moderation.Rules, cfg.Moderation.Timeout)
	svc := vouch.NewService(st, gateway, vouch.Options{
		MaxMessageLen: cfg.MaxMessageLen,
		RateLimit:     cfg.RateLimit.Max,
		RateWindow:    cfg.RateLimit.Window,
		SessionTTL:    cfg.SessionTTL,
	})
	server := httpapp.NewServer(svc, cfg)

	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           server,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Printf("vouch board listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	log.Println("shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = httpServer.Shutdown(ctx)
}

func openStore(cfg config.Config) (store.Store, error) {
	if cfg.DBPath != "" {
		log.Printf("using sqlite store at %s", cfg.DBPath)
		return sqlite.Open(cfg.DBPath)
	}
	return memory.New(), nil
}

// ============================================================================
// CLIENT COMMANDS
// ============================================================================

func cmdSubmit(args []string) {
	fs := flag.NewFlagSet("vouch", flag.ExitOnError)
	url := fs.String("url", "http://localhost:8080", "Vouch board server URL")
	username := fs.String("user", "", "Target username (required)")
	message := fs.String("message", "", "Vouch message (required)")
	scam := fs.Bool("scam", false, "Post a scam warning instead of an endorsement")
	fs.Parse(args)

	if *username == "" || *message == "" {
		fmt.Fprintln(os.Stderr, "Error: --user and --message are required")
		os.Exit(1)
	}

	kind := model.KindVouch
	if *scam {
		kind = model.KindScamVouch
	}

	sessionID, err := client.New(*url).Submit(*username, *message, kind)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Vouch posted. Session id (valid 30 min, keep it to edit/delete): %s\n", sessionID)
}

func cmdCheck(args []string) {
	fs := flag.NewFlagSet("check", flag.ExitOnError)
	url := fs.String("url", "http://localhost:8080", "Vouch board server URL")
	username := fs.String("user", "", "Target username (required)")
	fs.Parse(args)

	if *username == "" {
		fmt.Fprintln(os.Stderr, "Error: --user is required")
		os.Exit(1)
	}

	summary, err := client.New(*url).Check(*username)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("%s: %d vouches, %d scam warnings\n", *username, summary.TotalVouches, summary.TotalScamVouches)
	for _, m := range summary.RecentVouches {
		fmt.Printf("  + %s\n", m.Message)
	}
	for _, m := range summary.RecentScamVouches {
		fmt.Printf("  ! %s\n", m.Message)
	}
}

func cmdEdit(args []string) {
	fs := flag.NewFlagSet("edit", flag.ExitOnError)
	url := fs.String("url", "http://localhost:8080", "Vouch board server URL")
	session := fs.String("session", "", "Session id from the original submission (required)")
	ip := fs.String("ip", "", "Your IP as seen by the server (required)")
	message := fs.String("message", "", "Replacement message (required)")
	fs.Parse(args)

	if *session == "" || *ip == "" || *message == "" {
		fmt.Fprintln(os.Stderr, "Error: --session, --ip and --message are required")
		os.Exit(1)
	}

	if err := client.New(*url).Edit(*session, *ip, *message); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("Vouch updated.")
}

func cmdDelete(args []string) {
	fs := flag.NewFlagSet("delete", flag.ExitOnError)
	url := fs.String("url", "http://localhost:8080", "Vouch board server URL")
	session := fs.String("session", "", "Session id from the original submission (required)")
	ip := fs.String("ip", "", "Your IP as seen by the server (required)")
	fs.Parse(args)

	if *session == "" || *ip == "" {
		fmt.Fprintln(os.Stderr, "Error: --session and --ip are required")
		os.Exit(1)
	}

	if err := client.New(*url).Delete(*session, *ip); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("Vouch deleted.")
}

func cmdTime(args []string) {
	fs := flag.NewFlagSet("time", flag.ExitOnError)
	url := fs.String("url", "http://localhost:8080", "Vouch board server URL")
	session := fs.String("session", "", "Session id from the original submission (required)")
	ip := fs.String("ip", "", "Your IP as seen by the server (required)")
	fs.Parse(args)

	if *session == "" || *ip == "" {
		fmt.Fprintln(os.Stderr, "Error: --session and --ip are required")
		os.Exit(1)
	}

	left, err := client.New(*url).TimeLeft(*session, *ip)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Session valid for another %ds\n", left)
}

func cmdTop(args []string) {
	fs := flag.NewFlagSet("top", flag.ExitOnError)
	url := fs.String("url", "http://localhost:8080", "Vouch board server URL")
	fs.Parse(args)

	tallies, err := client.New(*url).Leaderboard()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if len(tallies) == 0 {
		fmt.Println("No vouches yet.")
		return
	}
	for i, t := range tallies {
		fmt.Printf("%2d. %-20s %d vouches, %d scam warnings\n", i+1, t.Username, t.Vouches, t.Scams)
	}
}

func cmdPing(args []string) {
	fs := flag.NewFlagSet("ping", flag.ExitOnError)
	url := fs.String("url", "http://localhost:8080", "Vouch board server URL")
	fs.Parse(args)

	if err := client.New(*url).Ping(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("pong")
}

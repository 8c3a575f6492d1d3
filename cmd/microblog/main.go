// Command microblog is an administrative CLI over the microblog core:
// user registration, follow-graph edits, posting, and feed inspection.
//
// Configuration comes from flags and the environment:
//
//	--db / DB_PATH    path to the sqlite database (default data/microblog.db)
//	JWT_SECRET        enables token issuance for the login command
package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/sakif/microblog/internal/auth"
	"github.com/sakif/microblog/internal/repository/sqlite"
	"github.com/sakif/microblog/internal/service"
)

var (
	dbPath  string
	verbose bool

	logger *slog.Logger

	db     *sqlite.DB
	tokens *auth.TokenService

	users         *service.UserService
	authService   *service.AuthService
	posts         *service.MicropostService
	relationships *service.RelationshipService
	feeds         *service.FeedService
)

var rootCmd = &cobra.Command{
	Use:   "microblog",
	Short: "Administer the microblog backend",
	Long: `microblog drives the backend core directly: create and remove
accounts, edit the follow graph, publish posts, and read timelines and
feeds without going through a web frontend.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
	PersistentPostRun: teardown,
}

// setup opens the store and wires every service; each subcommand then runs
// exactly one operation against them.
func setup(cmd *cobra.Command, args []string) error {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if dbPath == "" {
		dbPath = os.Getenv("DB_PATH")
	}
	if dbPath == "" {
		dbPath = "data/microblog.db"
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return fmt.Errorf("creating database directory: %w", err)
	}

	var err error
	db, err = sqlite.New(dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}

	passwords := auth.NewPasswordService()

	// Token issuance is optional: without JWT_SECRET the login command
	// still verifies credentials, it just cannot mint a token.
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		tokens, err = auth.NewTokenService(secret, 24*time.Hour)
		if err != nil {
			return fmt.Errorf("configuring tokens: %w", err)
		}
	}

	users = service.NewUserService(db.Users(), passwords, logger)
	authService = service.NewAuthService(db.Users(), passwords, tokens, logger)
	posts = service.NewMicropostService(db.Microposts(), db.Users(), logger)
	relationships = service.NewRelationshipService(db.Relationships(), db.Users(), logger)
	feeds = service.NewFeedService(db.Microposts(), logger)
	return nil
}

func teardown(cmd *cobra.Command, args []string) {
	if db != nil {
		if err := db.Close(); err != nil {
			logger.Warn("closing database", slog.String("error", err.Error()))
		}
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "path to the sqlite database (overrides DB_PATH)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(
		registerCmd,
		loginCmd,
		promoteCmd,
		demoteCmd,
		deleteUserCmd,
		postCmd,
		timelineCmd,
		followCmd,
		unfollowCmd,
		followingCmd,
		followersCmd,
		feedCmd,
	)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

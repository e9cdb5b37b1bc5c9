package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/zhubert/confide/internal/config"
	"github.com/zhubert/confide/internal/devserver"
	"github.com/zhubert/confide/internal/logger"
)

// DevServerDBFile is the dev server database inside the config directory.
const DevServerDBFile = "devserver.db"

var (
	devAddr string
	devDB   string
)

var devserverCmd = &cobra.Command{
	Use:   "devserver",
	Short: "Run a local backend for development",
	Long: `Runs a local implementation of the confide backend API backed by SQLite.
Answers reflect the question back; point the client at it with
--api-url http://localhost:8080 (the default).`,
	RunE: runDevServer,
}

func init() {
	devserverCmd.Flags().StringVar(&devAddr, "addr", ":8080", "Address to listen on")
	devserverCmd.Flags().StringVar(&devDB, "db", "", "SQLite database path (default ~/.confide/"+DevServerDBFile+", \":memory:\" for a throwaway)")
	rootCmd.AddCommand(devserverCmd)
}

// devServerDBPath returns the database path from --db or the config directory.
func devServerDBPath() (string, error) {
	if devDB != "" {
		return devDB, nil
	}
	dir, err := config.Dir()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	return filepath.Join(dir, DevServerDBFile), nil
}

func runDevServer(cmd *cobra.Command, args []string) error {
	defer logger.Close()
	if !debugMode || quietMode {
		gin.SetMode(gin.ReleaseMode)
	}

	path, err := devServerDBPath()
	if err != nil {
		return fmt.Errorf("error locating database: %w", err)
	}
	store, err := devserver.OpenStore(path)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("confide dev server listening on %s (database %s)\n", devAddr, path)
	return devserver.New(store, nil).Run(ctx, devAddr)
}

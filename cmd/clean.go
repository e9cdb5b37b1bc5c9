package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zhubert/confide/internal/config"
	"github.com/zhubert/confide/internal/logger"
)

var skipConfirm bool

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove logs, telemetry files and local state",
	Long: `Removes the debug log and its rotated backups, the telemetry files, the
saved settings in ~/.confide and the dev server database.

Conversations stored by the backend are not touched. It will prompt for
confirmation before proceeding unless the --yes flag is used.`,
	RunE: runClean,
}

func init() {
	cleanCmd.Flags().BoolVarP(&skipConfirm, "yes", "y", false, "Skip confirmation prompt")
	rootCmd.AddCommand(cleanCmd)
}

func runClean(cmd *cobra.Command, args []string) error {
	dir, err := config.Dir()
	if err != nil {
		return fmt.Errorf("error locating config directory: %w", err)
	}
	return runCleanWithReader(os.Stdin, dir)
}

// localState returns the files in dir that clean removes.
func localState(dir string) []string {
	var found []string
	for _, name := range []string{"config.json", DevServerDBFile} {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			found = append(found, path)
		}
	}
	return found
}

// runCleanWithReader allows injecting a reader and state directory for testing
func runCleanWithReader(input io.Reader, dir string) error {
	state := localState(dir)

	fmt.Println("This will clean:")
	for _, path := range state {
		fmt.Printf("  - %s\n", path)
	}
	fmt.Println("  - All confide log and telemetry files in /tmp")

	// Confirm unless --yes flag is set
	if !skipConfirm {
		if !confirm(input, "Continue?") {
			fmt.Println("Aborted.")
			return nil
		}
	}

	removed := 0
	for _, path := range state {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			fmt.Fprintf(os.Stderr, "Warning: error removing %s: %v\n", path, err)
			continue
		}
		removed++
	}

	logsCleared, err := logger.ClearLogs()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: error clearing logs: %v\n", err)
	}

	if removed == 0 && logsCleared == 0 {
		fmt.Println("Nothing to clean.")
		return nil
	}

	fmt.Println()
	fmt.Println("Cleaned:")
	if removed > 0 {
		fmt.Printf("  - %d state file(s) removed\n", removed)
	}
	if logsCleared > 0 {
		fmt.Printf("  - %d log file(s) removed\n", logsCleared)
	}
	return nil
}

// confirm prompts the user for y/n confirmation
func confirm(input io.Reader, prompt string) bool {
	reader := bufio.NewReader(input)
	fmt.Printf("%s [y/N]: ", prompt)
	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	response = strings.ToLower(strings.TrimSpace(response))
	return response == "y" || response == "yes"
}

// Package cmd provides the command-line interface for crossroad.
package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "crossroad",
	Short: "Crossroad simulates the traffic light of a single intersection.",
	Long: `Crossroad simulates the traffic light of a single intersection ` +
		`with a discrete event engine. Cars arrive at given times, the ` +
		`light turns green some time after the first waiting car and stays ` +
		`green long enough for every waiting car to pass.`,
	SilenceUsage: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		return loadEnvFile(".env")
	},
}

func init() {
	rootCmd.AddCommand(newRunCmd())
}

// loadEnvFile loads the variables in the file into the environment. Variables
// that are already set are kept. A missing file is not an error.
func loadEnvFile(filename string) error {
	err := godotenv.Load(filename)
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}

	return fmt.Errorf("loading %s: %w", filename, err)
}

// Execute adds all child commands to the root command and sets flags
// appropriately.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		atexit.Exit(1)
	}
}

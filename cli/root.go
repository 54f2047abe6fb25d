// Package cli provides the ocre-sim command line tool.
package cli

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/project-ocre/ocre-sdk-go"
	"github.com/project-ocre/ocre-sdk-go/pkg/file"
	"github.com/project-ocre/ocre-sdk-go/pkg/log"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:     "ocre-sim",
	Version: ocre.Version,
	Short:   "ocre-sim is the simulator runner for the Ocre device SDK",
	Long:    "ocre-sim runs Ocre SDK demo applications against an in-process simulated host, driven by an optional scenario file.",
	Run: func(cmd *cobra.Command, args []string) {
		if err := cmd.Help(); err != nil {
			log.FailureStatusEvent(os.Stderr, "%s", err.Error())
		}
	},
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.FailureStatusEvent(os.Stderr, "%s", err.Error())
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initDotEnv)
}

// initDotEnv loads environment variables from the .env file
func initDotEnv() {
	if file.Exists(".env") {
		if err := godotenv.Load(".env"); err != nil {
			log.FailureStatusEvent(os.Stderr, "%s", err.Error())
			os.Exit(1)
		}
	}
}

package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sells-group/install-check/internal/locator"
)

var (
	analyzeAddress string
	analyzeSave    bool
	analyzeCaseID  string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [address]",
	Short: "Classify an install from an address using OpenStreetMap context",
	Example: `  install-check analyze "Rue du Pont 12, 4000 Liège, België"
  install-check analyze --address "Korenmarkt 1, Gent" --save --case-id T-2201 -o yaml`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		address := analyzeAddress
		if address == "" && len(args) == 1 {
			address = args[0]
		}
		if strings.TrimSpace(address) == "" {
			return errors.New("an address is required (argument or --address)")
		}

		env, err := initChecker(cmd.Context(), cfg, "analyze", analyzeSave)
		if err != nil {
			return err
		}
		defer env.Close()

		res, err := env.Checker.Analyze(cmd.Context(), address)
		if errors.Is(err, locator.ErrUnresolved) {
			return fmt.Errorf("could not geocode %q: try a complete address or check connectivity", address)
		}
		if err != nil {
			return err
		}

		return emitResult(cmd, env, res, analyzeSave, analyzeCaseID)
	},
}

func init() {
	f := analyzeCmd.Flags()
	f.StringVar(&analyzeAddress, "address", "", "free-text street address")
	f.BoolVar(&analyzeSave, "save", false, "append the decision to the classification log")
	f.StringVar(&analyzeCaseID, "case-id", "", "case id stored with the record")
	rootCmd.AddCommand(analyzeCmd)
}

package main

import (
	"github.com/spf13/cobra"

	"github.com/sells-group/install-check/internal/model"
	"github.com/sells-group/install-check/internal/pipeline"
)

var (
	checkURL          string
	checkNetwork      string
	checkFacadeLength float64
	checkAerialHeight float64
	checkPublicDig    string
	checkSave         bool
	checkCaseID       string
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Classify an install from a map link and manually observed facts",
	Example: `  install-check check --url "https://www.google.com/maps/@50.85,4.35,17z" --network facade --facade-length 42
  install-check check --url "$LINK" --network underground --public-dig yes --save --case-id T-1042`,
	RunE: func(cmd *cobra.Command, args []string) error {
		in, err := manualInputFromFlags(cmd)
		if err != nil {
			return err
		}

		env, err := initChecker(cmd.Context(), cfg, "check", checkSave)
		if err != nil {
			return err
		}
		defer env.Close()

		res := env.Checker.Check(cmd.Context(), in)
		return emitResult(cmd, env, res, checkSave, checkCaseID)
	},
}

// manualInputFromFlags builds the manual input. Numeric flags that were not
// set stay unknown.
func manualInputFromFlags(cmd *cobra.Command) (pipeline.ManualInput, error) {
	netType, err := model.ParseNetworkType(checkNetwork)
	if err != nil {
		return pipeline.ManualInput{}, err
	}
	dig, err := model.ParseTriState(checkPublicDig)
	if err != nil {
		return pipeline.ManualInput{}, err
	}

	in := pipeline.ManualInput{
		URL:               checkURL,
		NetworkType:       netType,
		PublicDigRequired: dig,
	}
	if cmd.Flags().Changed("facade-length") {
		in.FacadeLengthM = model.Ptr(checkFacadeLength)
	}
	if cmd.Flags().Changed("aerial-height") {
		in.AerialHeightM = model.Ptr(checkAerialHeight)
	}
	return in, nil
}

// emitResult prints the result, saving it first when asked.
func emitResult(cmd *cobra.Command, env *checkerEnv, res *pipeline.Result, save bool, caseID string) error {
	out := struct {
		Result *pipeline.Result `json:"result"`
		Record *model.Record    `json:"record,omitempty"`
	}{Result: res}

	if save {
		rec, err := env.Checker.Save(cmd.Context(), res, caseID)
		if err != nil {
			return err
		}
		out.Record = rec
	}
	return writeOutput(cmd.OutOrStdout(), cfg.Output.Format, out)
}

func init() {
	f := checkCmd.Flags()
	f.StringVar(&checkURL, "url", "", "Google Maps or Street View link")
	f.StringVar(&checkNetwork, "network", "auto", "network type: auto, facade, aerial or underground")
	f.Float64Var(&checkFacadeLength, "facade-length", 0, "façade length from the TAP in meters (unset = unknown)")
	f.Float64Var(&checkAerialHeight, "aerial-height", 0, "aerial attachment height in meters (unset = unknown)")
	f.StringVar(&checkPublicDig, "public-dig", "unknown", "digging in public area required: yes, no or unknown")
	f.BoolVar(&checkSave, "save", false, "append the decision to the classification log")
	f.StringVar(&checkCaseID, "case-id", "", "case id stored with the record")
	rootCmd.AddCommand(checkCmd)
}

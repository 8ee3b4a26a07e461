package main

import (
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"usure"
)

var errViolation = errors.New("safety violation found")

func addCheckFlags(cmd *cobra.Command) {
	cmd.Flags().String(flagOrder, "", "exploration order: dfs or bfs (default dfs, or bfs with --max-depth)")
	cmd.Flags().Int(flagMaxStates, 0, "maximum number of states to explore, 0 for no limit")
	cmd.Flags().Int(flagMaxDepth, 0, "maximum depth of explored states, 0 for no limit")
	cmd.Flags().Int(flagWorkers, 1, "number of goroutines exploring the state space")
	cmd.Flags().Bool(flagDeadlock, false, "treat states without enabled transitions as unsafe")
}

func checkOptions(v *viper.Viper, log zerolog.Logger) ([]usure.CheckOption, error) {
	opts := []usure.CheckOption{usure.WithLogger(log)}

	switch order := v.GetString(flagOrder); order {
	case "":
	case "dfs":
		opts = append(opts, usure.DepthFirst())
	case "bfs":
		opts = append(opts, usure.BreadthFirst())
	default:
		return nil, errors.Errorf("unknown %v %q, expected dfs or bfs", flagOrder, order)
	}
	if n := v.GetInt(flagMaxStates); n != 0 {
		opts = append(opts, usure.MaxStates(n))
	}
	if n := v.GetInt(flagMaxDepth); n != 0 {
		opts = append(opts, usure.MaxDepth(n))
	}
	opts = append(opts, usure.Workers(v.GetInt(flagWorkers)))
	if v.GetBool(flagDeadlock) {
		opts = append(opts, usure.CheckDeadlock())
	}
	return opts, nil
}

// Check the selected model with the configured options
func runCheck(v *viper.Viper, cmd *cobra.Command) (outcome, error) {
	log, err := newLogger(v, cmd)
	if err != nil {
		return nil, err
	}
	m, err := lookupModel(v.GetString(flagModel))
	if err != nil {
		return nil, err
	}
	opts, err := checkOptions(v, log)
	if err != nil {
		return nil, err
	}

	log.Info().Str("model", v.GetString(flagModel)).Msg("checking model")
	res, err := m.check(cmd.Context(), opts)
	if err != nil {
		return nil, errors.Wrapf(err, "could not check model %v", v.GetString(flagModel))
	}

	if err := res.verify(); err != nil {
		return nil, errors.Wrap(err, "invalid counterexample")
	}

	event := log.Info()
	if res.verdict() == usure.Truncated {
		event = log.Warn()
	}
	event.Stringer("outcome", res.verdict()).Int("states", res.states()).Msg("check finished")
	return res, nil
}

func newCheckCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Explore every reachable state and report the shortest counterexample",
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := runCheck(v, cmd)
			if err != nil {
				return err
			}
			if err := res.write(cmd.OutOrStdout(), v.GetString(flagOutput)); err != nil {
				return err
			}
			if res.verdict() == usure.Unsafe {
				return errViolation
			}
			return nil
		},
	}
	addCheckFlags(cmd)
	cmd.Flags().StringP(flagOutput, "o", "text", "output format: text, json or yaml")
	return cmd
}

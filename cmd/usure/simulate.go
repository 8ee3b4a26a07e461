package main

import (
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newSimulateCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Follow a single random path through the model, or replay a trace",
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := newLogger(v, cmd)
			if err != nil {
				return err
			}
			m, err := lookupModel(v.GetString(flagModel))
			if err != nil {
				return err
			}

			labels, err := replayLabels(v)
			if err != nil {
				return err
			}
			if len(labels) > 0 {
				trace, err := m.replay(labels)
				fmt.Fprint(cmd.OutOrStdout(), trace)
				if err != nil {
					return errors.Wrap(err, "could not replay trace")
				}
				return nil
			}

			seed, length := v.GetInt64(flagSeed), v.GetInt(flagLength)
			log.Debug().Int64("seed", seed).Int("length", length).Msg("random walk")
			fmt.Fprint(cmd.OutOrStdout(), m.simulate(seed, length))
			return nil
		},
	}
	cmd.Flags().Int64(flagSeed, 1, "seed of the random walk")
	cmd.Flags().Int(flagLength, 100, "maximum number of steps of the random walk")
	cmd.Flags().String(flagReplay, "", "comma separated transition labels to replay instead of walking randomly")
	return cmd
}

// The labels to replay. A string from a flag or the environment is split on commas,
// a list from the config file is used as it is.
func replayLabels(v *viper.Viper) ([]string, error) {
	switch value := v.Get(flagReplay).(type) {
	case nil:
		return nil, nil
	case string:
		if strings.TrimSpace(value) == "" {
			return nil, nil
		}
		r := csv.NewReader(strings.NewReader(value))
		r.TrimLeadingSpace = true
		labels, err := r.Read()
		if err != nil {
			return nil, errors.Wrapf(err, "invalid %v", flagReplay)
		}
		return labels, nil
	default:
		labels, err := cast.ToStringSliceE(value)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid %v", flagReplay)
		}
		return labels, nil
	}
}

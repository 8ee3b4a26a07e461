package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newGraphCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Write the explored state graph in Graphviz DOT format",
		Long:  "Write the explored state graph in Graphviz DOT format. Unsafe states are drawn in red and the initial state has a double border.",
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := runCheck(v, cmd)
			if err != nil {
				return err
			}
			return res.writeDOT(cmd.OutOrStdout())
		},
	}
	addCheckFlags(cmd)
	return cmd
}

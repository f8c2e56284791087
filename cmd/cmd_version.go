package cmd

import (
	"fmt"

	"github.com/brc420-network/brc420-indexer/common"
	"github.com/brc420-network/brc420-indexer/common/errs"
	"github.com/brc420-network/brc420-indexer/core/constants"
	"github.com/brc420-network/brc420-indexer/modules/brc420"
	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
)

var versions = map[string]string{
	"":                            constants.Version,
	common.ModuleBRC420.String(): brc420.Version,
}

type versionCmdOptions struct {
	Modules string
}

func NewVersionCommand() *cobra.Command {
	opts := &versionCmdOptions{}

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show indexer version",
		RunE: func(cmd *cobra.Command, args []string) error {
			return versionHandler(opts, cmd, args)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.Modules, "module", "", `Show version of a specific module. E.g. "brc420"`)

	return cmd
}

func versionHandler(opts *versionCmdOptions, _ *cobra.Command, _ []string) error {
	version, ok := versions[opts.Modules]
	if !ok {
		return errors.Wrap(errs.Unsupported, "Invalid module name")
	}
	fmt.Println(version)
	return nil
}

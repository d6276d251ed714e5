package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	ecbrates "github.com/malusev998/ecb-rates"
	"github.com/malusev998/ecb-rates/logging"
	"github.com/malusev998/ecb-rates/services"
)

func logArchived(logger *slog.Logger, archived map[string][]ecbrates.RateWithID) {
	for storage, rates := range archived {
		for i, rate := range rates {
			logger.Debug("rate archived",
				"index", i,
				"storage", storage,
				"pair", rate.Pair().String(),
				"date", rate.Date.Format(ecbrates.DateLayout),
				"rate", rate.Value.String(),
				"id", rate.ID,
			)
		}
	}
}

func convert(v *viper.Viper) *cobra.Command {
	var (
		request   services.Request
		outputDir string
	)

	convertCmd := &cobra.Command{
		Use:   "convert",
		Short: "Fetch ECB rates, compute currency ratios and export them to xlsx",
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := loadConfig(v)
			if err != nil {
				return err
			}

			if outputDir != "" {
				config.Export.Dir = outputDir
			}

			logger := logging.New(logging.Config{
				Level:  config.Log.Level,
				File:   config.Log.File,
				Output: cmd.ErrOrStderr(),
			})

			pipeline, storages, err := createPipeline(cmd.Context(), config, logger)
			if err != nil {
				return err
			}

			defer closeStorages(storages, logger)

			result, err := pipeline.Run(cmd.Context(), request)
			if err != nil {
				return err
			}

			logArchived(logger, result.Archived)

			_, err = fmt.Fprintln(cmd.OutOrStdout(), result.Filename)

			return err
		},
	}

	convertCmd.Flags().StringSliceVar(&request.From, "from", []string{"EUR"}, "Currencies to convert from")
	convertCmd.Flags().StringSliceVar(&request.To, "to", []string{"USD"}, "Currencies to convert to")
	convertCmd.Flags().StringVar(&request.FromDate, "from-date", "", "First date (YYYY-MM-DD), defaults to today")
	convertCmd.Flags().StringVar(&request.ToDate, "to-date", "", "Last date (YYYY-MM-DD), defaults to today")
	convertCmd.Flags().StringVar(&outputDir, "output-dir", "", "Directory for the xlsx file, overrides export.dir")

	return convertCmd
}

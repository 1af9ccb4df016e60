package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Aleph-Alpha/facesearch/internal/config"
	faceerr "github.com/Aleph-Alpha/facesearch/pkg/errors"
)

// NewRootCmd creates the root facesearch command with all subcommands registered.
func NewRootCmd() *cobra.Command {
	v := viper.New()

	root := &cobra.Command{
		Use:           "facesearch",
		Short:         "Face embedding indexing and retrieval evaluation",
		Long:          "facesearch embeds face images with a DeepFace service, stores them in PostgreSQL, Qdrant or Redis and scores retrieval quality.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return initViper(cmd, v)
		},
	}

	root.PersistentFlags().StringP("config", "c", "", "path to config file (default ./facesearch.yaml)")
	root.PersistentFlags().String("log-level", "", "log level: debug, info, warning or error")

	root.AddCommand(
		newServeCmd(v),
		newThresholdsCmd(),
		newVersionCmd(),
	)

	return root
}

// initViper applies defaults, environment, the config file and flags to v so
// the precedence flag > env > file > defaults holds.
func initViper(cmd *cobra.Command, v *viper.Viper) error {
	config.SetDefaults(v)
	config.SetupEnv(v)

	cfgFile, _ := cmd.Flags().GetString("config")
	if err := config.ReadFile(v, cfgFile); err != nil {
		return err
	}

	if flag := cmd.Root().PersistentFlags().Lookup("log-level"); flag != nil && flag.Changed {
		if err := v.BindPFlag("logger.level", flag); err != nil {
			return faceerr.Wrap(err, faceerr.CodeConfiguration, "binding log-level flag")
		}
	}
	return nil
}

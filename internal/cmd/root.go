// Package cmd implements the paneld command line interface.
package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "paneld",
	Short: "Declarative admin panel server",
	Long: `paneld serves admin screens defined in code: record storage,
field validation, action dispatch, and export jobs behind a single
HTTP surface under /admin/.`,
}

// Execute runs the root command and returns any error encountered.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is ./paneld.yaml)")
	if err := viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config")); err != nil {
		panic(fmt.Sprintf("bind config flag: %v", err))
	}

	rootCmd.AddCommand(serveCmd)
}

func initConfig() {
	viper.SetDefault("listen_addr", ":8080")
	viper.SetDefault("log_level", "info")

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("paneld")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME/.config/paneld")
	}

	viper.SetEnvPrefix("PANELCORE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// A missing config file is fine; env vars and defaults cover everything.
	_ = viper.ReadInConfig()
}

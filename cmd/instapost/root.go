package main

import (
	"github.com/spf13/cobra"
)

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "instapost",
		Short: "Generate Instagram captions, logos and post graphics with Gemini",
		Long: `instapost generates Instagram content with Gemini models.

It can run as an HTTP JSON API (instapost serve) or generate a single
caption, logo, image or post from the command line.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load()
		},
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", "instapost.yaml", "Config file (YAML); missing file means defaults")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable debug logging")

	root.AddCommand(
		newServeCmd(a),
		newCaptionCmd(a),
		newLogoCmd(a),
		newImageCmd(a),
		newPostDetailsCmd(a),
		newPostCmd(a),
	)
	return root
}

// Package main provides the snapgen CLI entry point.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/richinex/snapgen/cli"
)

var verbose bool

func main() {
	// Load .env file if present (ignore "file not found" errors)
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			fmt.Fprintf(os.Stderr, "Warning: failed to load .env file: %v\n", err)
		}
	}

	rootCmd := &cobra.Command{
		Use:   "snapgen",
		Short: "Clipboard/shortcut AI assistant engine",
		Long: `Forward selected text or a screenshot to a generative AI model and get
the result back, with credential fallback, model fallback, and transport
fallback handled for you.

Credentials come from the preference slots (snapgen prefs set api_key ...)
or from GEMINI_API_KEY / GOOGLE_API_KEY.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show verbose output")

	rootCmd.AddCommand(askCmd())
	rootCmd.AddCommand(prefsCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func askCmd() *cobra.Command {
	var opts cli.Options

	cmd := &cobra.Command{
		Use:   "ask [prompt]",
		Short: "Generate a response for a prompt",
		Long: `Generate a response for a prompt, optionally grounded with web search
or attached to an image.

Press Ctrl-C to cancel an in-flight request.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := cli.NewApp()
			if err != nil {
				return err
			}
			defer app.Close()

			opts.Verbose = verbose
			return app.Ask(context.Background(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Model, "model", "m", "", "Model to use (falls back to the stored preference)")
	cmd.Flags().StringVarP(&opts.Tone, "tone", "t", "", "Tone preset to apply (proofread, formal, casual, translate, summarize)")
	cmd.Flags().StringVar(&opts.ImagePath, "image", "", "Path to a PNG/JPEG/WebP image to attach")
	cmd.Flags().StringVarP(&opts.OutputPath, "output", "o", "", "Path for generated image output")
	cmd.Flags().BoolVarP(&opts.Search, "search", "s", false, "Ground the answer with web search")
	cmd.Flags().BoolVarP(&opts.Interactive, "interactive", "i", false, "Low-latency shortcut mode: capped output, never cached")

	return cmd
}

func prefsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prefs",
		Short: "Manage stored preferences",
		Long: `Manage the persisted preference slots: credential slots (api_key,
api_key_backup, api_key_extra), the preferred model, and the default tone.`,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "set [key] [value]",
		Short: "Store a preference",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := cli.NewApp()
			if err != nil {
				return err
			}
			defer app.Close()
			return app.PrefSet(context.Background(), args[0], args[1])
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "get [key]",
		Short: "Show a preference (credentials are masked)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := cli.NewApp()
			if err != nil {
				return err
			}
			defer app.Close()
			return app.PrefGet(context.Background(), args[0])
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List stored preference keys",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := cli.NewApp()
			if err != nil {
				return err
			}
			defer app.Close()
			return app.PrefList(context.Background())
		},
	})

	return cmd
}

package commands

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/glintlabs/livedesk/pkg/cli"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage CLI configuration",
	Long: `Manage CLI configuration and contexts.

Contexts allow you to manage multiple API configurations,
similar to kubectl's context management.

Configuration is stored in ~/.livedesk/config.yaml`,
}

var configAddContextCmd = &cobra.Command{
	Use:   "add-context <name>",
	Short: "Add a new context",
	Long: `Add a new context with the specified name.

Required:
  - API Key: Your Gemini API key

Optional:
  - Model, voice and system instruction defaults for live sessions
  - Screen capture tuning (frame interval, capture input)

Example:
  livedesk config add-context personal --api-key YOUR_API_KEY

  livedesk config add-context work \
    --api-key YOUR_API_KEY \
    --voice Kore \
    --system "You are a code review assistant." \
    --frame-interval-ms 2000`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]

		apiKey, err := cmd.Flags().GetString("api-key")
		if err != nil {
			return fmt.Errorf("failed to read 'api-key' flag: %w", err)
		}
		if apiKey == "" {
			return fmt.Errorf("--api-key is required")
		}

		model, _ := cmd.Flags().GetString("model")
		voice, _ := cmd.Flags().GetString("voice")
		system, _ := cmd.Flags().GetString("system")
		frameIntervalMS, _ := cmd.Flags().GetInt("frame-interval-ms")
		screenInput, _ := cmd.Flags().GetString("screen-input")

		ctx := &cli.Context{
			APIKey:            apiKey,
			Model:             model,
			Voice:             voice,
			SystemInstruction: system,
			FrameIntervalMS:   frameIntervalMS,
			ScreenInput:       screenInput,
		}

		cfg := getConfig()
		if cfg == nil {
			return fmt.Errorf("configuration not initialized")
		}
		if err := cfg.AddContext(name, ctx); err != nil {
			return err
		}

		cli.PrintSuccess("Context %q added", name)
		return nil
	},
}

var configListContextsCmd = &cobra.Command{
	Use:     "list-contexts",
	Aliases: []string{"list", "ls"},
	Short:   "List all contexts",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfig()
		if cfg == nil {
			return fmt.Errorf("configuration not initialized")
		}

		if len(cfg.Contexts) == 0 {
			fmt.Println("No contexts configured. Add one with 'livedesk config add-context'.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "CURRENT\tNAME\tAPI KEY\tMODEL\tVOICE")
		for _, name := range cfg.ListContexts() {
			ctx := cfg.Contexts[name]
			current := ""
			if name == cfg.CurrentContext {
				current = "*"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				current, name, cli.MaskAPIKey(ctx.APIKey), ctx.Model, ctx.Voice)
		}
		return w.Flush()
	},
}

var configUseContextCmd = &cobra.Command{
	Use:   "use-context <name>",
	Short: "Set the current context",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfig()
		if cfg == nil {
			return fmt.Errorf("configuration not initialized")
		}
		if err := cfg.UseContext(args[0]); err != nil {
			return err
		}
		cli.PrintSuccess("Switched to context %q", args[0])
		return nil
	},
}

var configDeleteContextCmd = &cobra.Command{
	Use:   "delete-context <name>",
	Short: "Delete a context",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfig()
		if cfg == nil {
			return fmt.Errorf("configuration not initialized")
		}
		if err := cfg.DeleteContext(args[0]); err != nil {
			return err
		}
		cli.PrintSuccess("Context %q deleted", args[0])
		return nil
	},
}

var configViewCmd = &cobra.Command{
	Use:   "view [name]",
	Short: "Show a context (API key masked)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfig()
		if cfg == nil {
			return fmt.Errorf("configuration not initialized")
		}
		name := ""
		if len(args) > 0 {
			name = args[0]
		}
		ctx, err := cfg.ResolveContext(name)
		if err != nil {
			return err
		}

		masked := *ctx
		masked.APIKey = cli.MaskAPIKey(ctx.APIKey)
		return cli.Output(masked, cli.OutputOptions{File: outputFile})
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file path",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfig()
		if cfg == nil {
			return fmt.Errorf("configuration not initialized")
		}
		fmt.Println(cfg.Path())
		return nil
	},
}

func init() {
	configAddContextCmd.Flags().String("api-key", "", "Gemini API key (required)")
	configAddContextCmd.Flags().String("model", "", "live model override")
	configAddContextCmd.Flags().String("voice", "", "response voice name")
	configAddContextCmd.Flags().String("system", "", "system instruction for sessions")
	configAddContextCmd.Flags().Int("frame-interval-ms", 0, "screen sampling period in milliseconds")
	configAddContextCmd.Flags().String("screen-input", "", "ffmpeg screen capture input override")

	configCmd.AddCommand(configAddContextCmd)
	configCmd.AddCommand(configListContextsCmd)
	configCmd.AddCommand(configUseContextCmd)
	configCmd.AddCommand(configDeleteContextCmd)
	configCmd.AddCommand(configViewCmd)
	configCmd.AddCommand(configPathCmd)
}

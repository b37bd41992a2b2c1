package modelsync

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// NewCommand creates a Cobra command tree for model metadata management.
// The returned command should be added to a parent CLI's root command.
//
// Commands provided:
//   - models sync <model>
//   - models info <model>
//   - models local <model>
//   - models set-path <model> <path>
//   - models list
//   - models remove <model>
//
// Global flags: --json, --quiet
func NewCommand(cfg Config, tokens TokenProvider, opts ...ClientOption) *cobra.Command {
	var (
		jsonOutput bool
		quiet      bool
	)

	// Client will be created in PersistentPreRunE
	var client *Client

	cmd := &cobra.Command{
		Use:   "models",
		Short: "Manage ML model metadata",
		Long:  "Synchronize and inspect locally persisted ML model metadata.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Skip client creation for help commands
			if cmd.Name() == "help" || cmd.Name() == "completion" {
				return nil
			}

			var err error
			client, err = NewClient(cfg, tokens, opts...)
			if err != nil {
				return fmt.Errorf("failed to initialize client: %w", err)
			}
			return nil
		},
		SilenceUsage: true,
	}

	cmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	cmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress non-essential output")

	cmd.AddCommand(syncCmd(&client, &jsonOutput, &quiet))
	cmd.AddCommand(infoCmd(&client, &jsonOutput))
	cmd.AddCommand(localCmd(&client, &jsonOutput))
	cmd.AddCommand(setPathCmd(&client, &quiet))
	cmd.AddCommand(listCmd(&client, &jsonOutput))
	cmd.AddCommand(removeCmd(&client, &quiet))

	return cmd
}

func syncCmd(client **Client, jsonOutput, quiet *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "sync <model>",
		Short: "Synchronize model metadata with the server",
		Long:  "Ask the server whether a newer model version exists and persist its metadata if so.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := (*client).Sync(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if *jsonOutput {
				return writeJSON(cmd.OutOrStdout(), res.Info)
			}
			if !*quiet {
				switch res.Outcome {
				case OutcomeUpdated:
					fmt.Fprintf(cmd.OutOrStdout(), "Updated %s (hash %s, %d bytes)\n",
						res.Info.Name, res.Info.ModelHash, res.Info.Size)
				case OutcomeNotModified:
					fmt.Fprintf(cmd.OutOrStdout(), "%s is up to date\n", args[0])
				}
			}
			return nil
		},
	}
}

func infoCmd(client **Client, jsonOutput *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "info <model>",
		Short: "Show persisted metadata for a model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			info, err := (*client).Info(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if *jsonOutput {
				return writeJSON(cmd.OutOrStdout(), info)
			}
			return writeInfoTable(cmd.OutOrStdout(), []ModelInfo{info})
		},
	}
}

func localCmd(client **Client, jsonOutput *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "local <model>",
		Short: "Show the downloaded model descriptor",
		Long:  "Print the ready-to-use descriptor of a model whose artifact has been downloaded.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			model, err := (*client).LocalModel(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if *jsonOutput {
				return writeJSON(cmd.OutOrStdout(), model)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d bytes\t%s\t%s\n",
				model.Name, model.Size, model.Hash, model.Path)
			return nil
		},
	}
}

func setPathCmd(client **Client, quiet *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "set-path <model> <path>",
		Short: "Record where the download stage placed the artifact",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := (*client).SetLocalPath(cmd.Context(), args[0], args[1]); err != nil {
				return err
			}
			if !*quiet {
				fmt.Fprintf(cmd.OutOrStdout(), "Recorded local path for %s\n", args[0])
			}
			return nil
		},
	}
}

func listCmd(client **Client, jsonOutput *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List persisted model metadata",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			infos, err := (*client).ListModels(cmd.Context())
			if err != nil {
				return err
			}

			if *jsonOutput {
				return writeJSON(cmd.OutOrStdout(), infos)
			}
			if len(infos) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No models synced.")
				return nil
			}
			return writeInfoTable(cmd.OutOrStdout(), infos)
		},
	}
}

func removeCmd(client **Client, quiet *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <model>",
		Short: "Remove persisted metadata for a model",
		Long:  "Remove the persisted metadata record. The next sync performs an unconditional fetch.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := (*client).DeleteModel(cmd.Context(), args[0]); err != nil {
				return err
			}
			if !*quiet {
				fmt.Fprintf(cmd.OutOrStdout(), "Removed metadata for %s\n", args[0])
			}
			return nil
		},
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeInfoTable(w io.Writer, infos []ModelInfo) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tSIZE\tHASH\tDOWNLOADED\tUPDATED")
	for _, info := range infos {
		downloaded := "no"
		if info.Downloaded() {
			downloaded = "yes"
		}
		updated := "-"
		if !info.UpdatedAt.IsZero() {
			updated = info.UpdatedAt.Format("2006-01-02 15:04")
		}
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\n",
			info.Name, info.Size, info.ModelHash, downloaded, updated)
	}
	return tw.Flush()
}

package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

var knownCmd = &cobra.Command{
	Use:   "known",
	Short: "Manage known (reference) faces",
}

var knownAddCmd = &cobra.Command{
	Use:   "add <name> <image>",
	Short: "Register the first face found in an image under a name",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[1])
		if err != nil {
			return err
		}
		a, err := newApp(cfg, log, true)
		if err != nil {
			return err
		}
		defer a.close()

		face, err := a.service.RegisterKnownFace(cmd.Context(), args[0], data)
		if err != nil {
			return fmt.Errorf("%s: %w", filepath.Base(args[1]), err)
		}
		fmt.Printf("Known face saved: id=%d name=%s\n", face.ID, face.Name)
		return nil
	},
}

var knownListCmd = &cobra.Command{
	Use:   "list",
	Short: "List known faces in registration order",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cfg, log, false)
		if err != nil {
			return err
		}
		defer a.close()

		known, err := a.store.ListKnownFaces(cmd.Context())
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tCREATED")
		for _, k := range known {
			fmt.Fprintf(w, "%d\t%s\t%s\n", k.ID, k.Name, time.Unix(k.CreatedAt, 0).Format(time.DateTime))
		}
		return w.Flush()
	},
}

func init() {
	knownCmd.AddCommand(knownAddCmd, knownListCmd)
	rootCmd.AddCommand(knownCmd)
}

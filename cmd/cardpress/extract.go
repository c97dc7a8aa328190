package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/cardpress/internal/cards"
	"github.com/pdiddy/cardpress/internal/docx"
	"github.com/pdiddy/cardpress/internal/items"
)

var extractCmd = &cobra.Command{
	Use:   "extract <input>",
	Short: "Print the item names found in a file",
	Long: `Extract runs only the item extraction stage and prints one name per line.
Use it to check what a PDF menu yields before rendering.

With --from-cards the input is a card document this tool generated and the
names are read back from its cards.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		input := args[0]
		fromCards, _ := cmd.Flags().GetBool("from-cards")
		asJSON, _ := cmd.Flags().GetBool("json")

		var names []string
		if fromCards {
			doc, err := docx.Open(input)
			if err != nil {
				return err
			}
			names = cards.ReadCards(doc)
		} else {
			src, err := items.ForFile(input, items.Options{AI: cfg.AI})
			if err != nil {
				return err
			}
			names, err = src.Items(cmd.Context())
			if err != nil {
				return err
			}
		}

		out := cmd.OutOrStdout()
		if asJSON {
			if names == nil {
				names = []string{}
			}
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(names)
		}
		for _, n := range names {
			fmt.Fprintln(out, n)
		}
		return nil
	},
}

func init() {
	extractCmd.Flags().Bool("json", false, "output names as a JSON array")
	extractCmd.Flags().Bool("from-cards", false, "read names back from a generated card document")

	rootCmd.AddCommand(extractCmd)
}

package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/cardpress/internal/intake"
	"github.com/pdiddy/cardpress/internal/pipeline"
)

var renderCmd = &cobra.Command{
	Use:   "render <input>",
	Short: "Write a card document for the items in a file",
	Long: `Render reads item names from a .docx (one per body paragraph), a .txt list
(one per line) or a PDF menu (through the Claude API) and writes a Word
document with one card per item.

The output defaults to formatted_<input>.docx next to the input. With
--publish, or publish.target in the config, the document is also copied to a
directory or uploaded to an s3://bucket/prefix location.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		input := args[0]
		output, _ := cmd.Flags().GetString("output")
		if output == "" {
			output = filepath.Join(filepath.Dir(input), intake.OutputName(filepath.Base(input)))
		}

		c := cfg
		if noHistory, _ := cmd.Flags().GetBool("no-history"); noHistory {
			c.History.Enabled = false
		}

		p, closeFn, err := newPipeline(cmd.Context(), c)
		if err != nil {
			return err
		}
		defer closeFn()

		res, err := p.Run(cmd.Context(), pipeline.Request{Input: input, Output: output})
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Document created: %s\n", res.Output)
		fmt.Fprintf(out, "Items: %d\n", len(res.Items))
		fmt.Fprintf(out, "Pages: %d\n", res.Pages)
		if res.Location != "" {
			fmt.Fprintf(out, "Published: %s\n", res.Location)
		}
		return nil
	},
}

func init() {
	f := renderCmd.Flags()
	f.StringP("output", "o", "", "output document path (default: formatted_<input>.docx beside the input)")
	f.String("margins", "wide", "margin profile: wide or narrow")
	f.Bool("title-page", true, "start the document with a title page")
	f.String("title", "", "title page heading")
	f.String("subtitle", "", "title page subtitle")
	f.String("name-mode", "single", "item name layout: single or per-word")
	f.Int("cadence", 2, "cards per page")
	f.String("divider", "rule", "separator between cards on a page: rule or blank")
	f.String("styles", "", "YAML style override file")
	f.String("publish", "", "copy the document to a directory or s3://bucket/prefix")
	f.Bool("no-history", false, "do not record the job in the history database")

	for key, name := range map[string]string{
		"render.margin_profile": "margins",
		"render.title_page":     "title-page",
		"render.title":          "title",
		"render.subtitle":       "subtitle",
		"render.name_mode":      "name-mode",
		"render.cadence":        "cadence",
		"render.divider":        "divider",
		"styles_file":           "styles",
		"publish.target":        "publish",
	} {
		_ = viper.BindPFlag(key, f.Lookup(name))
	}

	rootCmd.AddCommand(renderCmd)
}

package main

import (
	"imgsort/internal/errors"
	"imgsort/internal/keyword"

	"github.com/spf13/cobra"
)

// NewMoveCmd creates the move command
func NewMoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "move",
		Short: "Move annotated images into their category folders",
		Long: `Move reads the stored ledger and moves every annotated image into a
sub-folder named after its label, creating the folder when needed. Images
that disappeared since they were annotated are skipped. Moved images leave
the ledger; the ledger file is removed once it is empty.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(false)
			if err != nil {
				return err
			}
			defer a.Close()

			report, err := a.session.MoveFiles()
			printReport(cmd.OutOrStdout(), report, err)
			return err
		},
	}
}

// NewMoveKeywordCmd creates the move-keyword command
func NewMoveKeywordCmd() *cobra.Command {
	var (
		sep string
		and bool
	)

	cmd := &cobra.Command{
		Use:   "move-keyword <phrases>",
		Short: "Move images into folders named after matching keywords",
		Long: `Move-keyword takes a comma separated list of phrases. Every image whose
name contains a phrase as a run of words is moved into a folder named after
that phrase. An image matching several phrases goes to the first one.
With --and only images matching every phrase move, all into the first
phrase's folder.`,
		Example: `  imgsort move-keyword "red car, blue car"
  imgsort move-keyword "beach" --sep _`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			phrases := keyword.ParsePhrases(args[0])
			if len(phrases) == 0 {
				return errors.NewInvalidInputError("no keyword phrases given", nil)
			}

			a, err := openApp(false)
			if err != nil {
				return err
			}
			defer a.Close()

			a.session.SetKeywords(keyword.NewSpec(phrases, sep, modeFlag(and)))
			report, err := a.session.MoveFilesByKeyword()
			printReport(cmd.OutOrStdout(), report, err)
			return err
		},
	}

	cmd.Flags().StringVar(&sep, "sep", keyword.DefaultSeparator, "separator between words in file names")
	cmd.Flags().BoolVar(&and, "and", false, "move only images matching every phrase")
	return cmd
}

package main

import (
	"fmt"
	"slices"

	"imgsort/internal/errors"
	"imgsort/internal/keyword"

	"github.com/spf13/cobra"
)

func modeFlag(and bool) keyword.Mode {
	if and {
		return keyword.And
	}
	return keyword.Or
}

// NewListCmd creates the list command
func NewListCmd() *cobra.Command {
	var (
		keywords string
		sep      string
		and      bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the images of the directory with their labels",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg.Resume = true
			a, err := openApp(false)
			if err != nil {
				return err
			}
			defer a.Close()

			s := a.session
			if phrases := keyword.ParsePhrases(keywords); len(phrases) > 0 {
				s.SetKeywords(keyword.NewSpec(phrases, sep, modeFlag(and)))
			}

			out := cmd.OutOrStdout()
			state := s.Ledger().State()
			for _, name := range s.Listing() {
				if label, ok := state.Label(name); ok {
					fmt.Fprintf(out, "%s\t%s\n", name, labelStyle.Render(label))
				} else {
					fmt.Fprintf(out, "%s\t%s\n", name, mutedStyle.Render("-"))
				}
			}

			v := s.View()
			printInfo(out, fmt.Sprintf("number of images: %d  annotated: %d", v.Total, v.Annotated))
			return nil
		},
	}

	cmd.Flags().StringVarP(&keywords, "keywords", "k", "", "comma separated keyword phrases")
	cmd.Flags().StringVar(&sep, "sep", keyword.DefaultSeparator, "separator between words in file names")
	cmd.Flags().BoolVar(&and, "and", false, "require every phrase to match (default is any)")
	return cmd
}

// NewAnnotateCmd creates the annotate command
func NewAnnotateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "annotate <file> <label>",
		Short: "Label one image",
		Long: `Annotate records a label for one image of the directory in the ledger.
The label does not have to be one of the configured categories.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, label := args[0], args[1]

			cfg.Resume = true
			a, err := openApp(false)
			if err != nil {
				return err
			}
			defer a.Close()

			s := a.session
			i := slices.Index(s.Listing(), file)
			if i < 0 {
				return errors.NewFileError("image not in directory", file, errors.FileNotFound, nil)
			}
			s.Seek(i)
			if err := s.Annotate(label); err != nil {
				return err
			}

			printSuccess(cmd.OutOrStdout(), fmt.Sprintf("%s labelled %s", file, label))
			return nil
		},
	}
}

// NewResetCmd creates the reset command
func NewResetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Discard every annotation of the directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(false)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.session.ResetAnnotations(); err != nil {
				return err
			}
			printSuccess(cmd.OutOrStdout(), "annotations reset")
			return nil
		},
	}
}

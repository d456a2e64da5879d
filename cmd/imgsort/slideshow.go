package main

import (
	"fmt"

	"imgsort/internal/viewer"

	"github.com/spf13/cobra"
)

// NewSlideshowCmd creates the slideshow command
func NewSlideshowCmd() *cobra.Command {
	var (
		shuffle    bool
		continuous bool
	)

	cmd := &cobra.Command{
		Use:   "slideshow",
		Short: "Print the images of the directory one by one at the configured pace",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(false)
			if err != nil {
				return err
			}
			defer a.Close()

			if !cmd.Flags().Changed("shuffle") {
				shuffle = cfg.Slideshow.Shuffle
			}
			if !cmd.Flags().Changed("continuous") {
				continuous = cfg.Slideshow.Continuous
			}

			p := viewer.NewPlaylist(a.session.Listing(), continuous)
			if p.Len() == 0 {
				printWarning(cmd.OutOrStdout(), "No image files in folder.")
				return nil
			}
			if shuffle {
				p.Shuffle(nil)
			}

			out := cmd.OutOrStdout()
			err = viewer.Run(cmd.Context(), p, cfg.SlideshowInterval(), func(name string) error {
				path, _ := a.session.Path(name)
				_, err := fmt.Fprintf(out, "[%d/%d] %s\n", p.Index()+1, p.Len(), path)
				return err
			})
			if err != nil && cmd.Context().Err() != nil {
				// interrupted
				return nil
			}
			return err
		},
	}

	cmd.Flags().BoolVar(&shuffle, "shuffle", false, "randomise the order (default from slideshow.shuffle)")
	cmd.Flags().BoolVar(&continuous, "continuous", false, "start over after the last image (default from slideshow.continuous)")
	return cmd
}

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"facetag/faces"
	"facetag/models"
	"facetag/utils"

	"github.com/schollz/progressbar/v3"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var scanRecursive bool

var scanCmd = &cobra.Command{
	Use:   "scan <dir>",
	Short: "Process every image in a directory as if it was uploaded",
	Args:  cobra.ExactArgs(1),
	RunE:  runScan,
}

func init() {
	scanCmd.Flags().BoolVarP(&scanRecursive, "recursive", "r", false, "Include subdirectories")
	rootCmd.AddCommand(scanCmd)
}

// findImages returns the image files of dir in lexical order
func findImages(dir string, recursive bool) ([]string, error) {
	result := []string{}
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && !recursive {
				return filepath.SkipDir
			}
			return nil
		}
		if utils.IsImageFile(d.Name()) {
			result = append(result, path)
		}
		return nil
	})
	return result, err
}

func scanFile(ctx context.Context, a *app, path string) (*models.UploadedPhoto, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return a.service.ProcessPhoto(ctx, filepath.Base(path), data)
}

func runScan(cmd *cobra.Command, args []string) error {
	files, err := findImages(args[0], scanRecursive)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		fmt.Println("No images found")
		return nil
	}
	a, err := newApp(cfg, log, true)
	if err != nil {
		return err
	}
	defer a.close()

	bar := progressbar.NewOptions(len(files),
		progressbar.OptionSetDescription("Scanning"),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowCount(),
	)
	processed, failed, found, unknown := 0, 0, 0, 0
	for _, path := range files {
		if cmd.Context().Err() != nil {
			break
		}
		photo, err := scanFile(cmd.Context(), a, path)
		if err == nil {
			processed++
			found += len(photo.DetectedFaces)
			if photo.DetectedFaces.Contains(faces.UnknownLabel) {
				unknown++
			}
		} else if !errors.Is(err, context.Canceled) {
			failed++
			log.WithError(err).WithFields(logrus.Fields{"path": path}).Warn("Skipping file")
		}
		_ = bar.Add(1)
	}
	_ = bar.Finish()
	fmt.Printf("\nProcessed %d of %d images (%d failed), %d faces found, %d photos with unknown faces\n",
		processed, len(files), failed, found, unknown)
	return cmd.Context().Err()
}

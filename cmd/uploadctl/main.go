package main

import (
	"context"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"

	"interior-media/internal/domain"
	"interior-media/internal/uploader"

	"github.com/spf13/cobra"
	"github.com/wb-go/wbf/zlog"
)

var (
	apiURL string
	token  string

	propertyID string
	roomID     string
	productID  string
	specID     string
	drawingID  string
	imageType  string
)

func main() {
	zlog.Init()

	rootCmd := &cobra.Command{
		Use:          "uploadctl",
		Short:        "Upload and manage marketplace images",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", "http://localhost:8080", "image service base URL")
	rootCmd.PersistentFlags().StringVar(&token, "token", os.Getenv("CALLER_TOKEN"), "caller identity token")

	rootCmd.AddCommand(uploadCmd(), listCmd(), deleteCmd(), setTypeCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func uploadCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "upload FILE...",
		Short: "Upload one or more image files into a scope",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			files := make([]uploader.File, 0, len(args))
			for _, path := range args {
				data, err := os.ReadFile(path)
				if err != nil {
					return fmt.Errorf("failed to read %s: %w", path, err)
				}
				name := filepath.Base(path)
				contentType := mime.TypeByExtension(filepath.Ext(name))
				if contentType == "" {
					contentType = http.DetectContentType(data)
				}
				files = append(files, uploader.File{
					Name:        name,
					ContentType: contentType,
					Data:        data,
				})
			}

			store := uploader.NewProgressStore()
			store.Subscribe(func(t domain.UploadTask) {
				line := fmt.Sprintf("%-30s %-14s %3.0f%%", t.FileName, t.Status, t.Progress*100)
				if t.Error != "" {
					line += "  " + t.Error
				}
				fmt.Println(line)
			})

			up := uploader.NewUploader(
				uploader.NewClient(apiURL, nil, &zlog.Logger),
				uploader.NewTransferEngine(nil),
				uploader.NewRetryCoordinator(uploader.MaxRetries, uploader.RetryDelay),
				store,
				&zlog.Logger,
			)
			up.OnComplete(func(img domain.Image) {
				fmt.Printf("uploaded %s (%s) -> %s\n", img.ID, img.ImageType, img.URL)
			})

			results := up.UploadAll(context.Background(), token, scopeFromFlags(), domain.ImageType(imageType), files)

			failed := 0
			for _, res := range results {
				if res.Err != nil {
					failed++
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d files failed", failed, len(results))
			}
			return nil
		},
	}

	addScopeFlags(cmd)
	cmd.Flags().StringVar(&imageType, "type", "", "force image role (MAIN, SUB or PAID)")
	return cmd
}

func listCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List images in a scope",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := uploader.NewClient(apiURL, nil, &zlog.Logger)
			images, err := client.ListImages(context.Background(), uploader.ListQuery{
				PropertyID: propertyID,
				RoomID:     roomID,
				ProductID:  productID,
			})
			if err != nil {
				return err
			}

			for _, img := range images {
				fmt.Printf("%s  %-4s  %-9s  %s\n", img.ID, img.ImageType, img.Status, img.URL)
			}
			return nil
		},
	}

	addScopeFlags(cmd)
	return cmd
}

func deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete IMAGE_ID",
		Short: "Hard-delete an image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := uploader.NewClient(apiURL, nil, &zlog.Logger)
			return client.DeleteImage(context.Background(), token, args[0])
		},
	}
}

func setTypeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set-type IMAGE_ID TYPE",
		Short: "Reassign an image's role (does not demote a prior MAIN)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := uploader.NewClient(apiURL, nil, &zlog.Logger)
			return client.UpdateImageType(context.Background(), token, args[0], domain.ImageType(args[1]))
		},
	}
}

func addScopeFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&propertyID, "property", "", "property id")
	cmd.Flags().StringVar(&roomID, "room", "", "room id")
	cmd.Flags().StringVar(&productID, "product", "", "product id")
	cmd.Flags().StringVar(&specID, "spec", "", "product specification id")
	cmd.Flags().StringVar(&drawingID, "drawing", "", "drawing id")
}

func scopeFromFlags() domain.ImageScope {
	return domain.ImageScope{
		PropertyID:             propertyID,
		RoomID:                 roomID,
		ProductID:              productID,
		ProductSpecificationID: specID,
		DrawingID:              drawingID,
	}
}

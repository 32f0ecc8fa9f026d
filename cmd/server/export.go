package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"cob-tracker/internal/export"
	"cob-tracker/internal/store"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write every COB entry as json, csv or xlsx",
	Long: `Write every COB entry as json, csv or xlsx.

With --s3-key the file is uploaded to the configured bucket instead
(S3_ENDPOINT, S3_REGION, S3_BUCKET, S3_ACCESS_KEY, S3_SECRET_KEY).

Example:
  cob-tracker export --format xlsx --out cobs.xlsx
  cob-tracker export --format csv --s3-key reports/cobs.csv`,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		out, _ := cmd.Flags().GetString("out")
		key, _ := cmd.Flags().GetString("s3-key")

		format, err := export.Normalize(format)
		if err != nil {
			return err
		}

		cfg, log, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		pool, err := connectPool(ctx, cfg, log)
		if err != nil {
			return err
		}
		defer pool.Close()

		cobs, err := store.New(pool).ListCobs(ctx)
		if err != nil {
			return err
		}

		if key != "" {
			up, err := export.NewS3Uploader(ctx, cfg.S3)
			if err != nil {
				return err
			}
			if err := up.Upload(ctx, key, format, cobs); err != nil {
				return err
			}
			log.Info("export uploaded", "bucket", cfg.S3.Bucket, "key", key, "entries", len(cobs))
			return nil
		}

		var w io.Writer = cmd.OutOrStdout()
		if out != "" && out != "-" {
			f, err := os.Create(out)
			if err != nil {
				return err
			}
			defer f.Close()
			w = f
		}
		if err := export.Write(w, format, cobs); err != nil {
			return fmt.Errorf("export: %w", err)
		}
		if out != "" && out != "-" {
			log.Info("export written", "file", out, "entries", len(cobs))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringP("format", "f", "csv", "json, csv or xlsx")
	exportCmd.Flags().StringP("out", "o", "-", "output file, - for stdout")
	exportCmd.Flags().String("s3-key", "", "upload to this object key instead of writing a file")
}

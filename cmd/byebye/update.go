package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/HendryAvila/byebyeanxiety/internal/updater"
)

var checkOnly bool

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update byebye to the latest release",
	Args:  cobra.NoArgs,
	RunE:  runUpdate,
}

func init() {
	updateCmd.Flags().BoolVar(&checkOnly, "check", false, "Only report whether an update is available")
	rootCmd.AddCommand(updateCmd)
}

func runUpdate(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
	defer cancel()

	u := updater.New()
	out := cmd.OutOrStdout()

	c, err := u.Check(ctx, version())
	if err != nil {
		return err
	}
	if !c.UpdateAvailable {
		fmt.Fprintf(out, "✅ Already at the latest version (v%s)\n", c.CurrentVersion)
		return nil
	}
	fmt.Fprintf(out, "📦 New version available: v%s → v%s\n   Release: %s\n", c.CurrentVersion, c.LatestVersion, c.ReleaseURL)
	if checkOnly {
		return nil
	}

	installed, err := u.Update(ctx, version())
	if errors.Is(err, updater.ErrUpToDate) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("update failed (download manually from %s): %w", c.ReleaseURL, err)
	}
	logger.Info("binary updated", zap.String("version", installed))
	fmt.Fprintf(out, "✅ Updated to v%s! Restart byebye to use the new version.\n", installed)
	return nil
}

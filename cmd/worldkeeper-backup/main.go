package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"

	"worldkeeper/internal/archive"
	"worldkeeper/internal/backup"
	"worldkeeper/internal/config"
)

func main() {
	// Command line flags
	var (
		rootFlag    = flag.String("root", "", "Server root directory (overrides config)")
		configFlag  = flag.String("config", "", "Path to config file")
		listFlag    = flag.Bool("list", false, "List existing backups and exit")
		verifyFlag  = flag.Bool("verify", false, "Verify existing backups and exit")
		verboseFlag = flag.Bool("verbose", false, "Show verbose output")
	)

	flag.Parse()

	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: false,
	})
	if *verboseFlag {
		logger.SetLevel(log.DebugLevel)
	}

	settings := config.DefaultSettings(".")
	if *configFlag != "" {
		var err error
		settings, err = config.Load(*configFlag)
		if err != nil {
			logger.Error("Failed to load config", "path", *configFlag, "err", err)
			os.Exit(1)
		}
	}
	if *rootFlag != "" {
		settings = config.DefaultSettings(*rootFlag)
	}

	// Handle interrupts
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Println("\nInterrupted, cancelling...")
		cancel()
	}()

	if *listFlag {
		if err := listBackups(settings); err != nil {
			logger.Error("Failed to list backups", "err", err)
			os.Exit(1)
		}
		return
	}

	if *verifyFlag {
		if err := verifyBackups(ctx, settings, logger); err != nil {
			os.Exit(1)
		}
		return
	}

	if err := createBackup(ctx, settings, logger); err != nil {
		if ctx.Err() != nil {
			fmt.Println("\nBackup cancelled.")
			os.Exit(130)
		}
		logger.Error("Backup failed", "err", err)
		os.Exit(1)
	}
}

func createBackup(ctx context.Context, settings *config.Settings, logger *log.Logger) error {
	worldDir := settings.ActiveWorldDir()
	logger.Debug("Backing up world", "dir", worldDir, "backups", settings.BackupsPath)

	totalFiles, totalBytes, err := archive.TotalSize(worldDir)
	if err != nil {
		return err
	}

	fmt.Printf("💾 Backing up %q (%d files, %.2f MB)\n", backup.LevelName(worldDir), totalFiles, float64(totalBytes)/1024/1024)

	info, err := backup.Create(ctx, worldDir, settings.BackupsPath, func(p archive.FileProgress) {
		fmt.Printf("\r  Compressing... %d/%d files", p.Files, totalFiles)
	})
	if err != nil {
		fmt.Println()
		return err
	}
	fmt.Println()

	ratio := 0.0
	if totalBytes > 0 {
		ratio = float64(info.Size) / float64(totalBytes) * 100
	}
	fmt.Printf("✨ Wrote %s (%.2f MB, %.0f%% of original)\n", info.Name, float64(info.Size)/1024/1024, ratio)
	fmt.Println()

	return listBackups(settings)
}

func listBackups(settings *config.Settings) error {
	backups, err := backup.List(settings.BackupsPath)
	if err != nil {
		return err
	}
	if len(backups) == 0 {
		fmt.Println("No backups found.")
		return nil
	}

	fmt.Printf("Backups in %s:\n", settings.BackupsPath)
	for _, info := range backups {
		fmt.Printf("  %-50s %8.2f MB  %s\n", info.Name, float64(info.Size)/1024/1024, info.ModTime.Format("2006-01-02 15:04"))
	}
	return nil
}

func verifyBackups(ctx context.Context, settings *config.Settings, logger *log.Logger) error {
	results, err := backup.Verify(ctx, settings.BackupsPath)
	if err != nil {
		logger.Error("Verify failed", "err", err)
		return err
	}
	if len(results) == 0 {
		fmt.Println("No backups found.")
		return nil
	}

	var corrupt int
	for _, result := range results {
		if result.Err != nil {
			corrupt++
			fmt.Printf("  ✗ %-50s %v\n", result.Info.Name, result.Err)
		} else {
			fmt.Printf("  ✓ %-50s %8.2f MB\n", result.Info.Name, float64(result.Info.Size)/1024/1024)
		}
	}

	if corrupt > 0 {
		fmt.Printf("\n%d of %d backup(s) failed verification.\n", corrupt, len(results))
		return fmt.Errorf("%d corrupt backup(s)", corrupt)
	}
	fmt.Printf("\nAll %d backup(s) verified.\n", len(results))
	return nil
}

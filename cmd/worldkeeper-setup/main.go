package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/charmbracelet/log"

	"worldkeeper/internal/config"
	"worldkeeper/internal/deploy"
	"worldkeeper/internal/tui"
)

func main() {
	// Command line flags
	var (
		rootFlag           = flag.String("root", "", "Server root directory (overrides config)")
		configFlag         = flag.String("config", "", "Path to config file")
		worldFlag          = flag.String("world", "", "World backup filename to import (headless mode)")
		skipWorldFlag      = flag.Bool("skip-world", false, "Keep the current world, only refresh packs (headless mode)")
		yesFlag            = flag.Bool("yes", false, "Answer yes to confirmation prompts")
		nonInteractiveFlag = flag.Bool("non-interactive", false, "Plain stdin prompts instead of the TUI")
		verboseFlag        = flag.Bool("verbose", false, "Show verbose output")
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

	headless := *worldFlag != "" || *skipWorldFlag || *nonInteractiveFlag

	if !headless {
		if err := tui.Run(settings, *verboseFlag); err != nil {
			if errors.Is(err, deploy.ErrCancelled) {
				os.Exit(1)
			}
			logger.Error("Setup failed", "err", err)
			os.Exit(1)
		}
		printNextSteps(settings)
		return
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

	manager := deploy.NewManager(settings, func(event deploy.ProgressEvent) {
		if event.Level == deploy.LevelVerbose && !*verboseFlag {
			return
		}

		prefix := ""
		switch event.Level {
		case deploy.LevelError:
			prefix = "❌ "
		case deploy.LevelWarning:
			prefix = "⚠️  "
		case deploy.LevelSuccess:
			prefix = "✅ "
		case deploy.LevelInfo:
			prefix = "ℹ️  "
		default:
			prefix = "   "
		}

		fmt.Println(prefix + event.Message)
	})
	defer manager.Close()

	var prompter deploy.Prompter
	if *worldFlag != "" || *skipWorldFlag {
		prompter = &flagPrompter{world: *worldFlag, skipWorld: *skipWorldFlag, yes: *yesFlag}
	} else {
		prompter = &stdinPrompter{reader: bufio.NewReader(os.Stdin), yes: *yesFlag}
	}

	fmt.Println("🌍 Worldkeeper Setup")
	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	fmt.Println()

	if err := deploy.Run(ctx, manager, prompter); err != nil {
		if errors.Is(err, deploy.ErrCancelled) {
			fmt.Println("\nSetup cancelled.")
			os.Exit(1)
		}
		if ctx.Err() != nil {
			os.Exit(130)
		}
		logger.Error("Setup failed", "err", err)
		os.Exit(1)
	}

	printNextSteps(settings)
}

func printNextSteps(settings *config.Settings) {
	fmt.Println()
	fmt.Println("Setup complete. Next steps:")
	if settings.DockerContainer != "" {
		fmt.Printf("  docker restart %s\n", settings.DockerContainer)
	} else {
		fmt.Println("  restart the server")
	}
}

// flagPrompter answers prompts from command line flags, for scripted
// runs.
type flagPrompter struct {
	world     string
	skipWorld bool
	yes       bool
}

func (p *flagPrompter) Choose(title string, options []string) (int, error) {
	if p.skipWorld {
		return -1, nil
	}
	for i, option := range options {
		if strings.HasPrefix(strings.TrimSpace(option), p.world) {
			return i, nil
		}
	}
	return 0, fmt.Errorf("world backup %q not found", p.world)
}

func (p *flagPrompter) Confirm(prompt string, def bool) (bool, error) {
	return p.yes || def, nil
}

// stdinPrompter asks on the terminal without the TUI.
type stdinPrompter struct {
	reader *bufio.Reader
	yes    bool
}

func (p *stdinPrompter) Choose(title string, options []string) (int, error) {
	fmt.Println(title + ":")
	for i, option := range options {
		fmt.Printf("  %d) %s\n", i+1, option)
	}
	fmt.Println("  s) Skip world import (keep current world)")

	for {
		fmt.Print("Select: ")
		line, err := p.reader.ReadString('\n')
		if err != nil {
			return 0, err
		}
		line = strings.TrimSpace(line)
		if strings.EqualFold(line, "s") {
			return -1, nil
		}
		n, err := strconv.Atoi(line)
		if err == nil && n >= 1 && n <= len(options) {
			return n - 1, nil
		}
		fmt.Println("Invalid selection.")
	}
}

func (p *stdinPrompter) Confirm(prompt string, def bool) (bool, error) {
	if p.yes {
		return true, nil
	}

	suffix := "[y/N]"
	if def {
		suffix = "[Y/n]"
	}
	fmt.Printf("%s %s ", prompt, suffix)

	line, err := p.reader.ReadString('\n')
	if err != nil {
		return false, err
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return def, nil
	}
	return strings.EqualFold(line, "y") || strings.EqualFold(line, "yes"), nil
}

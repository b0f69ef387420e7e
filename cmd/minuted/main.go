package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/calebdw/minuted/internal/bus"
	"github.com/calebdw/minuted/internal/config"
	"github.com/calebdw/minuted/internal/daemon"
	"github.com/calebdw/minuted/internal/notify"
	"github.com/calebdw/minuted/internal/tui"
)

func main() {
	// .env is optional; API keys can come from it, the environment or the
	// config file.
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "minuted",
	Short: "Live meeting transcription and minutes generation",
	Long: `minuted captures microphone audio, streams it to a realtime
transcription service and turns the resulting transcript into structured
meeting minutes.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(
		serveCmd(),
		connectCmd(),
		pauseCmd(),
		resumeCmd(),
		disconnectCmd(),
		statusCmd(),
		transcriptCmd(),
		minutesCmd(),
		versionCmd(),
		stopCmd(),
		configureCmd(),
	)
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the daemon",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgMgr, err := config.NewManager()
			if err != nil {
				if errors.Is(err, config.ErrConfigNotFound) {
					return fmt.Errorf("no configuration found, run: minuted configure")
				}
				return fmt.Errorf("failed to load config: %w", err)
			}

			cfg := cfgMgr.GetConfig()
			n := notify.New(cfg.Notifications.Type, cfg.Notifications.Enabled)

			return daemon.New(cfgMgr, n).Run()
		},
	}
}

func connectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "connect",
		Short: "Start a recording session",
		RunE:  sendCmd(bus.CmdConnect, "start session"),
	}
}

func pauseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pause",
		Short: "Pause the current session",
		RunE:  sendCmd(bus.CmdPause, "pause session"),
	}
}

func resumeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resume",
		Short: "Resume a paused session",
		RunE:  sendCmd(bus.CmdResume, "resume session"),
	}
}

func disconnectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "disconnect",
		Short: "End the current session",
		RunE:  sendCmd(bus.CmdDisconnect, "end session"),
	}
}

func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Get current session status",
		RunE:  sendCmd(bus.CmdStatus, "get status"),
	}
}

func transcriptCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "transcript",
		Short: "Print the live transcript",
		RunE:  sendCmd(bus.CmdTranscript, "get transcript"),
	}
}

func minutesCmd() *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "minutes",
		Short: "Generate meeting minutes from the current transcript",
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := bus.SendCommand(bus.CmdMinutes)
			if err != nil {
				return fmt.Errorf("failed to generate minutes: %w", err)
			}

			if outPath != "" {
				if err := os.WriteFile(outPath, []byte(resp), 0o644); err != nil {
					return fmt.Errorf("failed to write %s: %w", outPath, err)
				}
				fmt.Printf("minutes written to %s\n", outPath)
				return nil
			}

			fmt.Print(resp)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "", "write minutes JSON to a file")

	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Get daemon version",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Printf("client version=%s\n", daemon.Version)
			resp, err := bus.SendCommand(bus.CmdVersion)
			if err != nil {
				fmt.Println("daemon not running")
				return nil
			}
			fmt.Printf("daemon %s", resp)
			return nil
		},
	}
}

func stopCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "Stop the daemon",
		RunE:  sendCmd(bus.CmdQuit, "stop daemon"),
	}
}

// sendCmd builds a RunE that forwards one command byte to the daemon and
// prints its response.
func sendCmd(b byte, action string) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		resp, err := bus.SendCommand(b)
		if err != nil {
			return fmt.Errorf("failed to %s: %w", action, err)
		}
		fmt.Print(resp)
		return nil
	}
}

func configureCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "configure",
		Short: "Interactive configuration setup",
		Long: `Interactive configuration wizard for minuted.
This will guide you through setting up:
- API keys (Gemini for transcription, OpenAI for minutes)
- Live model and voice
- Notification preferences`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigure()
		},
	}
}

func runConfigure() error {
	cfg, err := config.Load()
	if err != nil && !errors.Is(err, config.ErrConfigNotFound) {
		return fmt.Errorf("failed to load config: %w", err)
	}

	result, err := tui.Run(cfg)
	if err != nil {
		return fmt.Errorf("configuration wizard error: %w", err)
	}

	if result.Cancelled {
		fmt.Println("Configuration cancelled.")
		return nil
	}

	if err := result.Config.Validate(); err != nil {
		fmt.Printf("Configuration validation failed: %v\n", err)
		return err
	}

	if err := config.Save(result.Config); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Println()
	fmt.Println("Configuration saved successfully!")
	fmt.Println()

	configPath, _ := config.GetConfigPath()
	fmt.Printf("Config file location: %s\n", configPath)
	fmt.Println()
	fmt.Println("Next steps:")
	fmt.Println("1. Start the daemon: minuted serve")
	fmt.Println("2. Begin a session:  minuted connect")

	return nil
}

package tui

import (
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/muesli/termenv"

	"github.com/calebdw/minuted/internal/config"
)

// ConfigureResult holds the configuration result from the wizard.
type ConfigureResult struct {
	Config    *config.Config
	Cancelled bool
}

var voiceOptions = []huh.Option[string]{
	huh.NewOption("Puck (default)", "Puck"),
	huh.NewOption("Charon", "Charon"),
	huh.NewOption("Kore", "Kore"),
	huh.NewOption("Fenrir", "Fenrir"),
	huh.NewOption("Aoede", "Aoede"),
}

var notificationOptions = []huh.Option[string]{
	huh.NewOption("Desktop notifications (notify-send)", "desktop"),
	huh.NewOption("Log to daemon output only", "log"),
	huh.NewOption("None (silent)", "none"),
}

// Run starts the configuration wizard. A nil existing config starts from
// defaults.
func Run(existing *config.Config) (*ConfigureResult, error) {
	cfg := config.Default()
	if existing != nil {
		cfg = existing
	}
	if cfg.Providers == nil {
		cfg.Providers = map[string]config.ProviderConfig{}
	}

	clearScreen()
	fmt.Println(Logo())
	fmt.Println()

	geminiKey := cfg.Providers["gemini"].APIKey
	openaiKey := cfg.Providers["openai"].APIKey
	model := cfg.Live.Model
	voice := cfg.Live.Voice
	notifEnabled := cfg.Notifications.Enabled
	notifType := cfg.Notifications.Type
	if notifType == "" {
		notifType = "desktop"
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Gemini API Key").
				Description("Used for live transcription. Leave empty to use the GEMINI_API_KEY environment variable.").
				EchoMode(huh.EchoModePassword).
				Value(&geminiKey),
			huh.NewInput().
				Title("OpenAI API Key").
				Description("Used for minutes generation. Leave empty to use the OPENAI_API_KEY environment variable.").
				EchoMode(huh.EchoModePassword).
				Value(&openaiKey),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Live Model").
				Description("Realtime transcription model").
				Placeholder(config.DefaultLiveModel).
				Value(&model),
			huh.NewSelect[string]().
				Title("Voice").
				Description("Voice used by the realtime session").
				Options(voiceOptions...).
				Value(&voice),
		),
		huh.NewGroup(
			huh.NewConfirm().
				Title("Enable notifications?").
				Description("Notify on session start, completion and errors").
				Value(&notifEnabled),
			huh.NewSelect[string]().
				Title("Notification Type").
				Options(notificationOptions...).
				Value(&notifType),
		),
	).WithTheme(getTheme())

	if err := form.Run(); err != nil {
		if err == huh.ErrUserAborted {
			return &ConfigureResult{Cancelled: true}, nil
		}
		return nil, err
	}

	if geminiKey != "" {
		cfg.Providers["gemini"] = config.ProviderConfig{APIKey: geminiKey}
	} else {
		delete(cfg.Providers, "gemini")
	}
	if openaiKey != "" {
		cfg.Providers["openai"] = config.ProviderConfig{APIKey: openaiKey}
	} else {
		delete(cfg.Providers, "openai")
	}
	if model != "" {
		cfg.Live.Model = model
	}
	cfg.Live.Voice = voice
	cfg.Notifications.Enabled = notifEnabled
	cfg.Notifications.Type = notifType

	confirmed, err := showSummary(cfg)
	if err != nil || !confirmed {
		return &ConfigureResult{Cancelled: true}, nil
	}

	return &ConfigureResult{Config: cfg, Cancelled: false}, nil
}

func showSummary(cfg *config.Config) (bool, error) {
	geminiStatus := StyleWarning.Render("not set (will use GEMINI_API_KEY)")
	if _, ok := cfg.Providers["gemini"]; ok {
		geminiStatus = StyleSuccess.Render("configured")
	}
	openaiStatus := StyleWarning.Render("not set (will use OPENAI_API_KEY)")
	if _, ok := cfg.Providers["openai"]; ok {
		openaiStatus = StyleSuccess.Render("configured")
	}

	fmt.Println()
	fmt.Println(StyleHeader.Render("Summary"))
	fmt.Printf("  Gemini key:    %s\n", geminiStatus)
	fmt.Printf("  OpenAI key:    %s\n", openaiStatus)
	fmt.Printf("  Live model:    %s\n", cfg.Live.Model)
	fmt.Printf("  Voice:         %s\n", cfg.Live.Voice)
	fmt.Printf("  Notifications: %s (%s)\n", enabledLabel(cfg.Notifications.Enabled), cfg.Notifications.Type)
	fmt.Println()

	var confirmed bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Save this configuration?").
				Affirmative("Save").
				Negative("Discard").
				Value(&confirmed),
		),
	).WithTheme(getTheme())

	if err := form.Run(); err != nil {
		return false, err
	}
	return confirmed, nil
}

func enabledLabel(enabled bool) string {
	if enabled {
		return "enabled"
	}
	return "disabled"
}

// clearScreen clears the terminal screen.
func clearScreen() {
	output := termenv.NewOutput(os.Stdout)
	output.ClearScreen()
}

package commands

import (
	"context"
	"fmt"
	"math"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/glintlabs/livedesk/pkg/audio/pcm"
	"github.com/glintlabs/livedesk/pkg/cli"
	"github.com/glintlabs/livedesk/pkg/geminilive"
	"github.com/glintlabs/livedesk/pkg/livesession"
	"github.com/glintlabs/livedesk/pkg/media"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start a live voice + screen session",
	Long: `Start a live session: microphone audio and periodic screen frames
stream to the model, and its spoken responses play back as they arrive.
Speaking over a response interrupts it.

The session runs until Ctrl+C or until the server ends it. Both sides
of the conversation are transcribed; use --save to write the
transcript to a file (.json or .yaml).

Examples:
  livedesk run
  livedesk run --no-screen --voice Kore
  livedesk run --system "Explain everything like I'm new to this codebase."
  livedesk run --save session.json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cliCtx, err := getContext()
		if err != nil {
			return err
		}

		noScreen, _ := cmd.Flags().GetBool("no-screen")
		model, _ := cmd.Flags().GetString("model")
		voice, _ := cmd.Flags().GetString("voice")
		system, _ := cmd.Flags().GetString("system")
		frameIntervalMS, _ := cmd.Flags().GetInt("frame-interval-ms")
		savePath, _ := cmd.Flags().GetString("save")

		// Flags override context defaults.
		if model == "" {
			model = cliCtx.Model
		}
		if voice == "" {
			voice = cliCtx.Voice
		}
		if system == "" {
			system = cliCtx.SystemInstruction
		}
		if frameIntervalMS == 0 {
			frameIntervalMS = cliCtx.FrameIntervalMS
		}

		printVerbose("Using context: %s", cliCtx.Name)

		if cliCtx.APIKey == "" {
			return fmt.Errorf("context %q has no API key", cliCtx.Name)
		}
		client := geminilive.NewClient(cliCtx.APIKey)
		connectCfg := geminilive.ConnectConfig{
			Model:             model,
			Voice:             voice,
			SystemInstruction: system,
		}

		return runSession(sessionOptions{
			client:        client,
			connectCfg:    connectCfg,
			noScreen:      noScreen,
			screenInput:   cliCtx.ScreenInput,
			frameInterval: time.Duration(frameIntervalMS) * time.Millisecond,
			savePath:      savePath,
		})
	},
}

func init() {
	runCmd.Flags().Bool("no-screen", false, "audio-only session, skip screen capture")
	runCmd.Flags().String("model", "", "live model override")
	runCmd.Flags().String("voice", "", "response voice name")
	runCmd.Flags().String("system", "", "system instruction")
	runCmd.Flags().Int("frame-interval-ms", 0, "screen sampling period in milliseconds")
	runCmd.Flags().String("save", "", "write the transcript to this file (.json or .yaml); bare names go to ~/.livedesk/transcripts")
}

type sessionOptions struct {
	client        *geminilive.Client
	connectCfg    geminilive.ConnectConfig
	noScreen      bool
	screenInput   string
	frameInterval time.Duration
	savePath      string
}

func runSession(opts sessionOptions) error {
	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ui := newSessionUI()
	stateCh := make(chan livesession.State, 8)

	cfg := livesession.Config{
		Connect: func(ctx context.Context) (geminilive.Session, error) {
			return opts.client.Connect(ctx, &opts.connectCfg)
		},
		OpenMic: func() (livesession.AudioSource, error) {
			return media.OpenMic()
		},
		OpenOutput: func() (livesession.PlaybackDevice, error) {
			return media.OpenPlayer()
		},
		FrameInterval: opts.frameInterval,
		OnState: func(s livesession.State) {
			select {
			case stateCh <- s:
			default:
			}
		},
		OnLevel:   ui.setLevel,
		OnPartial: ui.setPartial,
		OnEntry:   ui.printEntry,
	}
	if !opts.noScreen {
		cfg.OpenScreen = func() (livesession.FrameSource, error) {
			return media.OpenScreen(media.ScreenConfig{Input: opts.screenInput})
		}
	}

	ctrl, err := livesession.NewController(cfg)
	if err != nil {
		return err
	}

	fmt.Println("Starting session... (Ctrl+C to end)")
	if err := ctrl.Start(sigCtx); err != nil {
		return err
	}

	redraw := time.NewTicker(100 * time.Millisecond)
	defer redraw.Stop()

loop:
	for {
		select {
		case <-sigCtx.Done():
			break loop
		case s := <-stateCh:
			ui.setState(s)
			if s == livesession.StateIdle || s == livesession.StateError {
				// The session ended on its own (remote close or failure).
				break loop
			}
		case <-redraw.C:
			ui.drawStatus()
		}
	}

	ctrl.Stop()
	ui.clearStatus()

	stats := ctrl.Stats()
	if stats.DroppedFrames > 0 {
		cli.PrintWarning("%d uplink frames dropped", stats.DroppedFrames)
	}

	entries := ui.entries()
	fmt.Printf("Session ended: %d transcript entries.\n", len(entries))

	if opts.savePath != "" && len(entries) > 0 {
		savePath, err := resolveSavePath(opts.savePath)
		if err != nil {
			return err
		}
		format := cli.FormatYAML
		if strings.EqualFold(filepath.Ext(savePath), ".json") {
			format = cli.FormatJSON
		}
		if err := cli.Output(entries, cli.OutputOptions{Format: format, File: savePath}); err != nil {
			return err
		}
		cli.PrintSuccess("Transcript saved to %s", savePath)
	}
	return nil
}

// resolveSavePath places bare file names in the transcript directory;
// anything with a directory component is used as given.
func resolveSavePath(path string) (string, error) {
	if filepath.Base(path) != path {
		return path, nil
	}
	paths, err := cli.NewPaths()
	if err != nil {
		return "", err
	}
	if err := paths.EnsureTranscriptDir(); err != nil {
		return "", err
	}
	return paths.TranscriptPath(path), nil
}

// sessionUI renders the live status line and finalized caption lines.
// Callbacks arrive from session goroutines; rendering happens on the
// command goroutine.
type sessionUI struct {
	styles cli.Styles

	levelBits atomic.Uint64

	mu          sync.Mutex
	state       livesession.State
	partialRole livesession.Role
	partialText string
	log         []livesession.Entry
}

func newSessionUI() *sessionUI {
	return &sessionUI{styles: cli.NewStyles(cli.DefaultTheme)}
}

func (ui *sessionUI) setLevel(l pcm.Level) {
	ui.levelBits.Store(math.Float64bits(l.RMS))
}

func (ui *sessionUI) setState(s livesession.State) {
	ui.mu.Lock()
	defer ui.mu.Unlock()
	ui.state = s
}

func (ui *sessionUI) setPartial(role livesession.Role, text string) {
	ui.mu.Lock()
	defer ui.mu.Unlock()
	ui.partialRole = role
	ui.partialText = text
}

func (ui *sessionUI) printEntry(e livesession.Entry) {
	ui.mu.Lock()
	ui.log = append(ui.log, e)
	if ui.partialRole == e.Role {
		ui.partialText = ""
	}
	line := ui.styles.CaptionLine(string(e.Role), e.Text)
	ui.mu.Unlock()
	fmt.Print("\r\033[K" + line + "\n")
}

func (ui *sessionUI) entries() []livesession.Entry {
	ui.mu.Lock()
	defer ui.mu.Unlock()
	out := make([]livesession.Entry, len(ui.log))
	copy(out, ui.log)
	return out
}

func (ui *sessionUI) drawStatus() {
	rms := math.Float64frombits(ui.levelBits.Load())
	ui.mu.Lock()
	badge := ui.styles.StateBadge(ui.state.String())
	partial := ui.partialText
	ui.mu.Unlock()

	const maxPartial = 60
	if len(partial) > maxPartial {
		partial = "…" + partial[len(partial)-maxPartial:]
	}
	fmt.Print("\r\033[K" + badge + " " + ui.styles.Meter(rms) + " " + ui.styles.Partial.Render(partial))
}

func (ui *sessionUI) clearStatus() {
	fmt.Print("\r\033[K")
}

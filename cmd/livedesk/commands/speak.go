package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"google.golang.org/genai"

	"github.com/glintlabs/livedesk/pkg/audio/pcm"
	"github.com/glintlabs/livedesk/pkg/cli"
)

// defaultTTSModel is the one-shot synthesis model.
const defaultTTSModel = "gemini-2.5-flash-preview-tts"

var speakCmd = &cobra.Command{
	Use:   "speak <text>",
	Short: "One-shot text-to-speech synthesis",
	Long: `Synthesize spoken audio for a piece of text and write it to a file.

Output is a 24 kHz mono WAV file (or raw PCM with --raw).

Examples:
  livedesk speak "Build finished." -o done.wav
  livedesk speak --voice Kore "Hello" -o hello.wav
  livedesk speak -f request.yaml -o out.wav`,
	Args: cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if outputFile == "" {
			return fmt.Errorf("output file is required, use -o flag")
		}

		cliCtx, err := getContext()
		if err != nil {
			return err
		}

		voice, _ := cmd.Flags().GetString("voice")
		model, _ := cmd.Flags().GetString("model")
		raw, _ := cmd.Flags().GetBool("raw")
		reqFile, _ := cmd.Flags().GetString("file")

		text := strings.Join(args, " ")
		if reqFile != "" {
			var req speakRequest
			if err := cli.LoadRequest(reqFile, &req); err != nil {
				return err
			}
			if text == "" {
				text = req.Text
			}
			if voice == "" {
				voice = req.Voice
			}
			if model == "" {
				model = req.Model
			}
		}
		if text == "" {
			return fmt.Errorf("no text to synthesize: pass it as arguments or in a request file")
		}
		if voice == "" {
			voice = cliCtx.Voice
		}
		if model == "" {
			model = defaultTTSModel
		}

		printVerbose("Synthesizing %d characters with model %s", len(text), model)

		reqCtx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()

		client, err := genai.NewClient(reqCtx, &genai.ClientConfig{APIKey: cliCtx.APIKey})
		if err != nil {
			return fmt.Errorf("genai client: %w", err)
		}

		cfg := &genai.GenerateContentConfig{
			ResponseModalities: []string{"AUDIO"},
		}
		if voice != "" {
			cfg.SpeechConfig = &genai.SpeechConfig{
				VoiceConfig: &genai.VoiceConfig{
					PrebuiltVoiceConfig: &genai.PrebuiltVoiceConfig{VoiceName: voice},
				},
			}
		}

		resp, err := client.Models.GenerateContent(reqCtx, model, []*genai.Content{
			{Parts: []*genai.Part{{Text: text}}, Role: "user"},
		}, cfg)
		if err != nil {
			return fmt.Errorf("synthesize: %w", err)
		}

		audio := extractAudio(resp)
		if len(audio) == 0 {
			return fmt.Errorf("no audio in response")
		}

		out := audio
		if !raw {
			out = createWAV(audio, pcm.L16Mono24K)
		}
		if err := cli.OutputBytes(out, outputFile); err != nil {
			return err
		}
		cli.PrintSuccess("Wrote %s (%s of audio)",
			outputFile, cli.FormatDuration(pcm.L16Mono24K.Duration(int64(len(audio)))))
		return nil
	},
}

func init() {
	speakCmd.Flags().String("voice", "", "voice name (defaults to the context voice)")
	speakCmd.Flags().String("model", "", "synthesis model override")
	speakCmd.Flags().Bool("raw", false, "write raw PCM instead of WAV")
	speakCmd.Flags().StringP("file", "f", "", "request file (.yaml or .json) with text/voice/model")
}

// speakRequest is the request-file form of the speak command.
type speakRequest struct {
	Text  string `json:"text" yaml:"text"`
	Voice string `json:"voice,omitempty" yaml:"voice,omitempty"`
	Model string `json:"model,omitempty" yaml:"model,omitempty"`
}

// extractAudio collects inline audio bytes from a generate response.
func extractAudio(resp *genai.GenerateContentResponse) []byte {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil
	}
	var audio []byte
	for _, p := range resp.Candidates[0].Content.Parts {
		if p.InlineData != nil && strings.HasPrefix(p.InlineData.MIMEType, "audio/") {
			audio = append(audio, p.InlineData.Data...)
		}
	}
	return audio
}

package commands

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"google.golang.org/genai"

	"github.com/glintlabs/livedesk/pkg/cli"
)

// defaultDescribeModel is the batch multimodal model.
const defaultDescribeModel = "gemini-2.0-flash"

var describeCmd = &cobra.Command{
	Use:   "describe <image-or-video>",
	Short: "Describe an image or video with the model",
	Long: `Send an image or short video (e.g. a saved screenshot or screen
recording) to the model and print its description. This is the batch
counterpart to a live session: one file, one answer.

Examples:
  livedesk describe screenshot.png
  livedesk describe recording.mp4
  livedesk describe chart.jpg --prompt "What trend does this chart show?"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cliCtx, err := getContext()
		if err != nil {
			return err
		}

		prompt, _ := cmd.Flags().GetString("prompt")
		model, _ := cmd.Flags().GetString("model")
		if prompt == "" {
			prompt = "Describe what is shown in this image."
		}
		if model == "" {
			model = defaultDescribeModel
		}

		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read image: %w", err)
		}
		mimeType := http.DetectContentType(data)
		if !strings.HasPrefix(mimeType, "image/") && !strings.HasPrefix(mimeType, "video/") {
			return fmt.Errorf("%s is not an image or video (%s)", args[0], mimeType)
		}

		printVerbose("Describing %s (%s, %s)", args[0], mimeType, cli.FormatBytes(int64(len(data))))

		reqCtx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()

		client, err := genai.NewClient(reqCtx, &genai.ClientConfig{APIKey: cliCtx.APIKey})
		if err != nil {
			return fmt.Errorf("genai client: %w", err)
		}

		resp, err := client.Models.GenerateContent(reqCtx, model, []*genai.Content{
			{
				Parts: []*genai.Part{
					{Text: prompt},
					{InlineData: &genai.Blob{MIMEType: mimeType, Data: data}},
				},
				Role: "user",
			},
		}, nil)
		if err != nil {
			return fmt.Errorf("describe: %w", err)
		}

		var sb strings.Builder
		if len(resp.Candidates) > 0 && resp.Candidates[0].Content != nil {
			for _, p := range resp.Candidates[0].Content.Parts {
				if p.Text != "" {
					sb.WriteString(p.Text)
				}
			}
		}
		if sb.Len() == 0 {
			return fmt.Errorf("no description in response")
		}

		return cli.Output(sb.String(), cli.OutputOptions{Format: cli.FormatRaw, File: outputFile})
	},
}

func init() {
	describeCmd.Flags().String("prompt", "", "question to ask about the image")
	describeCmd.Flags().String("model", "", "model override")
}

package commands

import (
	"github.com/spf13/cobra"

	"github.com/glintlabs/livedesk/pkg/audio/portaudio"
)

var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "List audio devices",
	Long: `List the audio devices PortAudio can see, with their channel counts
and default sample rates. Useful when the default microphone or output
device is not the one you expect.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return portaudio.PrintDevices()
	},
}

// Local audio playback for the synthesized doctor voice. This is a
// convenience for single-host demo setups where the backend and the speaker
// are the same machine.
package doctor

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
)

// playAudio plays the file through the platform's audio player and blocks
// until playback finishes.
func playAudio(ctx context.Context, path string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.CommandContext(ctx, "afplay", path)
	case "linux":
		cmd = exec.CommandContext(ctx, "aplay", path)
	case "windows":
		cmd = exec.CommandContext(ctx, "powershell", "-c",
			fmt.Sprintf(`(New-Object Media.SoundPlayer "%s").PlaySync();`, path))
	default:
		return fmt.Errorf("unsupported operating system: %s", runtime.GOOS)
	}
	return cmd.Run()
}

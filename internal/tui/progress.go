package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/progress"

	"github.com/MKhiriev/yorlect/models"
)

const progressWidth = 40

// ProgressBar renders an owner's progress towards the recording target.
func ProgressBar(p models.Progress) string {
	bar := progress.New(progress.WithDefaultGradient(), progress.WithWidth(progressWidth))
	return fmt.Sprintf("%s\n%s", bar.ViewAs(p.Ratio), helpStyle.Render(fmt.Sprintf("%d of %d recordings, %.1f min of audio", p.Completed, p.Target, p.TotalSeconds/60)))
}

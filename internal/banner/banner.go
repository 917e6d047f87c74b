package banner

import (
	"pummel/internal/tui/styles"

	"github.com/charmbracelet/lipgloss"
)

func GetString() string {
	renderer := lipgloss.DefaultRenderer()

	style := renderer.NewStyle().
		Foreground(styles.ColorPrimary).
		Bold(true)

	ascii := `
    ____  __  ____  ______  ___________
   / __ \/ / / /  |/  /  |/  / ____/ /
  / /_/ / / / / /|_/ / /|_/ / __/ / /
 / ____/ /_/ / /  / / /  / / /___/ /___
/_/    \____/_/  /_/_/  /_/_____/_____/`

	return "\n" + style.Render(ascii) + "\n"
}

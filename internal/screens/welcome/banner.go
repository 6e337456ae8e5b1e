package welcome

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/mathmood/internal/ui/theme"
)

const bannerArt = `
 ███╗   ███╗ █████╗ ████████╗██╗  ██╗███╗   ███╗ ██████╗  ██████╗ ██████╗
 ████╗ ████║██╔══██╗╚══██╔══╝██║  ██║████╗ ████║██╔═══██╗██╔═══██╗██╔══██╗
 ██╔████╔██║███████║   ██║   ███████║██╔████╔██║██║   ██║██║   ██║██║  ██║
 ██║╚██╔╝██║██╔══██║   ██║   ██╔══██║██║╚██╔╝██║██║   ██║██║   ██║██║  ██║
 ██║ ╚═╝ ██║██║  ██║   ██║   ██║  ██║██║ ╚═╝ ██║╚██████╔╝╚██████╔╝██████╔╝
 ╚═╝     ╚═╝╚═╝  ╚═╝   ╚═╝   ╚═╝  ╚═╝╚═╝     ╚═╝ ╚═════╝  ╚═════╝ ╚═════╝`

const bannerCompact = "M A T H M O O D"

// RenderBanner returns the title banner styled in the primary color.
// Terminals narrower than 76 columns get the spaced-letter fallback.
func RenderBanner(width int) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)

	if width < 76 {
		return style.Render(bannerCompact)
	}
	return style.Render(bannerArt)
}

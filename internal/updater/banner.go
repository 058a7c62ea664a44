package updater

import (
	"fmt"

	"github.com/packages-box/box/internal/branding"
	"github.com/packages-box/box/internal/ui"
)

// PrintUpdateBanner prints the update notification when latest is newer
// than current. It prints nothing when either version does not parse.
func PrintUpdateBanner(p *ui.Printer, v Versions) {
	available, err := IsUpdateAvailable(v.Current, v.Latest)
	if err != nil || !available {
		return
	}
	p.Log("")
	p.Warn(fmt.Sprintf("Update available: %s -> %s", v.Current, p.Accent(v.Latest)))
	p.Step(fmt.Sprintf("Run `npm i -g %s` to upgrade", branding.PackageName()))
	p.Log("")
}

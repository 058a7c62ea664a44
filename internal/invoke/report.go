package invoke

import (
	"os"

	"github.com/packages-box/box/internal/config"
	"github.com/packages-box/box/internal/ui"
)

var exit = os.Exit

// Report prints err and, outside test mode, terminates the process with
// status 1. A nil err is ignored.
func Report(p *ui.Printer, env config.Env, err error) {
	if err == nil {
		return
	}
	p.Error(err.Error())
	if !env.Test {
		exit(1)
	}
}

package app

import (
	"io"

	"github.com/harel-coffee/tspipe-auto/internal/config"
	"github.com/harel-coffee/tspipe-auto/internal/execx"
	"github.com/harel-coffee/tspipe-auto/internal/hostenv"
	"github.com/harel-coffee/tspipe-auto/internal/registry"
	"github.com/harel-coffee/tspipe-auto/modules/clean"
	"github.com/harel-coffee/tspipe-auto/modules/condaenv"
	"github.com/harel-coffee/tspipe-auto/modules/print"
	"github.com/harel-coffee/tspipe-auto/modules/pyscript"
	"github.com/harel-coffee/tspipe-auto/modules/s3sync"
	"github.com/harel-coffee/tspipe-auto/modules/sbatch"
	"github.com/harel-coffee/tspipe-auto/modules/shell"
)

// coreModules is the definitive list of runner modules compiled into the
// tspipe binary, wired to the shared exec runner and host probe.
func coreModules(outW io.Writer, exec execx.Runner, host hostenv.Host, params config.Params) []registry.Module {
	return []registry.Module{
		&shell.Module{Exec: exec},
		&pyscript.Module{Exec: exec, Params: params},
		&condaenv.Module{Exec: exec, Host: host, Params: params},
		&sbatch.Module{Exec: exec},
		&clean.Module{},
		&s3sync.Module{Exec: exec, Params: params},
		&print.Module{Out: outW},
	}
}

package clock

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mitchellh/go-ps"
)

// ErrAlreadyRunning is returned when another daemon process is found.
var ErrAlreadyRunning = errors.New("another alarm clock daemon is already running")

// processLister lists running processes.
type processLister func() ([]ps.Process, error)

// ensureSingleInstance fails when another process runs the same executable.
func ensureSingleInstance() error {
	executable, err := os.Executable()
	if err != nil {
		return fmt.Errorf("detect executable: %w", err)
	}

	return checkSingleInstance(ps.Processes, filepath.Base(executable), os.Getpid())
}

func checkSingleInstance(list processLister, executable string, selfPID int) error {
	processList, err := list()
	if err != nil {
		return fmt.Errorf("list processes: %w", err)
	}

	for _, process := range processList {
		if process.Pid() == selfPID || process.Executable() != executable {
			continue
		}

		// A child started by this process, e.g. a notifier, is not a rival.
		if process.PPid() == selfPID {
			continue
		}

		return fmt.Errorf("%w (pid %d)", ErrAlreadyRunning, process.Pid())
	}

	return nil
}

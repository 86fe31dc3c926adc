package packager

import (
	"context"
	"errors"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/mitchellh/go-ps"

	"github.com/nativepc/plugin-packager/internal/logger"
)

const (
	// MarkerFilename marks that a packager is running right now to avoid
	// two instances writing the same archive.
	MarkerFilename = "plugin-packager-marker.bin"

	// markerLifetime is the period after which a stale marker is ignored.
	markerLifetime = 30 * time.Second

	// basePackagerExecutable is the binary name without platform extension.
	basePackagerExecutable = "plugin-packager"
)

// IsPackagerRunningNow checks presence of the marker file and attempts
// recovery if it looks stale.
func IsPackagerRunningNow(ctx context.Context) bool {
	logger.Debug(ctx, "Checking for the presence of a packager marker")

	fileInfo, err := os.Stat(MarkerFilename)
	if err == nil {
		if time.Since(fileInfo.ModTime()) <= markerLifetime {
			return true
		}

		logger.Info(ctx, "The packager marker is too old, attempting cleanup")

		if err = terminateProcessByName(packagerExecutable()); err != nil {
			return true
		}

		if err = os.Remove(MarkerFilename); err != nil {
			return true
		}

		return false
	}

	if errors.Is(err, os.ErrNotExist) {
		return false
	}

	logger.Infof(ctx, "Unable to read packager marker: %v", err)

	return false
}

// createMarker writes the marker file holding this process ID.
func createMarker() error {
	return os.WriteFile(MarkerFilename, []byte(strconv.Itoa(os.Getpid())), 0o600)
}

// removeMarker deletes the marker file if it exists.
func removeMarker() error {
	err := os.Remove(MarkerFilename)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}

	return err
}

// terminateProcessByName tries to kill processes with the provided executable name.
func terminateProcessByName(processName string) error {
	processList, err := ps.Processes()
	if err != nil {
		return err
	}

	thisProcessID := os.Getpid()

	for _, process := range processList {
		if process.Pid() == thisProcessID {
			continue
		}

		if process.Executable() != processName {
			continue
		}

		var runningProcess *os.Process

		runningProcess, err = os.FindProcess(process.Pid())
		if err != nil {
			return err
		}

		if err = runningProcess.Kill(); err != nil {
			return err
		}
	}

	return nil
}

// getExecutableExtension returns ".exe" on Windows and "" elsewhere.
func getExecutableExtension() string {
	if strings.Contains(strings.ToLower(runtime.GOOS), "windows") {
		return ".exe"
	}

	return ""
}

func packagerExecutable() string {
	return basePackagerExecutable + getExecutableExtension()
}

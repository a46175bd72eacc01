package version

import (
	"fmt"
	"runtime/debug"
	"time"
)

// Заполняются через -ldflags "-X maneuver-server/internal/version.BuildDate=..."
var (
	BuildDate   string // YYYY-MM-DD (UTC)
	BuildCommit string
)

// buildEpoch - день отсчета номера сборки
var buildEpoch = time.Date(2025, time.December, 4, 0, 0, 0, 0, time.UTC)

// Info describes the build metadata in structured form.
type Info struct {
	BuildID   int    `json:"buildId"`
	BuildDate string `json:"buildDate"`
	Commit    string `json:"commit"`
	GoVersion string `json:"goVersion"`
	Error     string `json:"error,omitempty"`
}

// CalculateBuildID - количество дней от buildEpoch до даты сборки
func CalculateBuildID(date string) (int, error) {
	if date == "" {
		return 0, fmt.Errorf("build date is empty")
	}

	t, err := time.ParseInLocation("2006-01-02", date, time.UTC)
	if err != nil {
		return 0, fmt.Errorf("invalid build date %q: %w", date, err)
	}
	if t.Before(buildEpoch) {
		return 0, fmt.Errorf("build date %s is before epoch", date)
	}

	// Обе даты в UTC, поэтому часы без сюрпризов с DST
	return int(t.Sub(buildEpoch).Hours() / 24), nil
}

// Current собирает сведения о текущей сборке.
// Если commit не передан через ldflags, берем его из VCS-информации бинарника.
func Current() Info {
	info := Info{BuildDate: BuildDate, Commit: BuildCommit}

	if bi, ok := debug.ReadBuildInfo(); ok {
		info.GoVersion = bi.GoVersion
		if info.Commit == "" {
			for _, s := range bi.Settings {
				if s.Key == "vcs.revision" {
					info.Commit = s.Value
				}
			}
		}
	}

	id, err := CalculateBuildID(BuildDate)
	if err != nil {
		info.Error = err.Error()
		return info
	}
	info.BuildID = id
	return info
}

// String returns a human-readable build string.
func (i Info) String() string {
	commit := i.Commit
	if commit == "" {
		commit = "unknown"
	}
	if i.Error != "" {
		return fmt.Sprintf("Build unknown commit[%s] (%s)", commit, i.Error)
	}
	return fmt.Sprintf("Build %d (%s) commit[%s]", i.BuildID, i.BuildDate, commit)
}

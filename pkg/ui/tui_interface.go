package ui

// TUI is an interface for terminal user interfaces
type TUI interface {
	StartDownload(id, set, filename string, size int64)
	UpdateDownloadProgress(id string, downloaded int64, speed float64)
	CompleteDownload(id string)
	FailDownload(id string, err error)
	UpdateProbeStatus(prefix, code string, hit bool, missStreak, missLimit int)
	LogInfo(format string, args ...interface{})
	LogSuccess(format string, args ...interface{})
	LogWarning(format string, args ...interface{})
	LogError(format string, args ...interface{})
	IsPaused() bool
}

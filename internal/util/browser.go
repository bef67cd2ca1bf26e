package util

import (
	"os/exec"
	"runtime"
)

// OpenBrowser opens url in the default browser
func OpenBrowser(url string) error {
	return browserCommand(runtime.GOOS, url).Start()
}

func browserCommand(goos, url string) *exec.Cmd {
	switch goos {
	case "windows":
		// works from Windows 7 on
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	case "darwin":
		return exec.Command("open", url)
	default:
		return exec.Command("xdg-open", url)
	}
}

// OpenBrowserWithFallback tries OpenBrowser, then known browsers
func OpenBrowserWithFallback(url string) error {
	err := OpenBrowser(url)
	if err == nil {
		return nil
	}

	switch runtime.GOOS {
	case "windows":
		return exec.Command("explorer", url).Start()
	case "linux":
		for _, browser := range []string{"google-chrome", "firefox", "chromium-browser", "sensible-browser"} {
			if err := exec.Command(browser, url).Start(); err == nil {
				return nil
			}
		}
	}
	return err
}

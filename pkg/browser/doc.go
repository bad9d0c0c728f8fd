// Package browser provides the browser collaborator pomo drives: a driver
// owning one browser process, and tabs within it.
//
// # Architecture
//
// The package is built around three small interfaces:
//
//  1. Launcher: starts a browser and returns a Driver
//  2. Driver: owns the browser process and hands out Tabs
//  3. Tab: one browsing context, with navigation, focus, script evaluation
//     and element interaction
//
// PlaywrightLauncher implements them on top of Playwright's Chromium support.
// The browsertest subpackage provides scriptable fakes so callers can be
// tested without a browser.
//
// # Locating the executable
//
// A Locator answers where an installed browser lives. PathLocator probes an
// ordered list of candidate paths and returns the first that exists;
// Candidates builds the platform list for a product (brave, chrome,
// chromium). When no local browser is wanted, the launcher can be given an
// empty ExecutablePath and Playwright resolves its own bundled Chromium.
//
// # Example Usage
//
//	locator := browser.NewPathLocator(browser.DefaultCandidates("brave"))
//	path, ok := locator.FindExecutable()
//	if !ok {
//	    return browser.NewNotFoundError("brave", locator.Candidates())
//	}
//
//	driver, err := (&browser.PlaywrightLauncher{}).Launch(ctx, browser.LaunchOptions{
//	    ExecutablePath: path,
//	})
//	defer driver.Close()
//
//	tab, err := driver.NewTab()
//	err = tab.Navigate("https://vclock.com/timer/")
package browser

// Package version provides build and version information.
package version

// Version is the current application version.
const Version = "0.3.0"

// Milestones:
// 0.3.0 - PNG snapshots with vector ray outlines, JSON export, seeded runs
// 0.2.0 - Density controller with randomized band, throttled scroll/resize
// 0.1.0 - Initial release: star and ray generation, terminal starfield

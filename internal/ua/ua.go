// internal/ua/ua.go
//
// User-Agent parsing for contact submissions and the access log.
//
// This wrapper keeps `github.com/avct/uasurfer` enums out of the rest of the
// tree; requestinfo and the templates only see Info.
package ua

import (
	"fmt"
	"strconv"
	"strings"

	surfer "github.com/avct/uasurfer"
)

// Info is the parsed header.  Names drop uasurfer's enum prefixes:
//
//	Browser   "Chrome"
//	Version   "125.0.6422"
//	OS        "MacOSX"
//	OSVersion "14.4"
//	Device    "Desktop"
//	Platform  "Mac"
//	IsBot     false
//
// Device is one of "Desktop", "Mobile", "Tablet", or "Other".
type Info struct {
	Browser   string
	Version   string
	OS        string
	OSVersion string
	Device    string
	Platform  string
	IsBot     bool
	Raw       string
}

// Parse converts a raw header into Info.  An empty header yields Device
// "Other" and empty names.
func Parse(raw string) Info {
	ua := surfer.Parse(raw)

	info := Info{
		Browser:   strings.TrimPrefix(ua.Browser.Name.String(), "Browser"),
		Version:   versionToString(ua.Browser.Version),
		OS:        strings.TrimPrefix(ua.OS.Name.String(), "OS"),
		OSVersion: versionToString(ua.OS.Version),
		Platform:  strings.TrimPrefix(ua.OS.Platform.String(), "Platform"),
		IsBot:     ua.IsBot(),
		Raw:       raw,
	}

	switch ua.DeviceType {
	case surfer.DeviceComputer:
		info.Device = "Desktop"
	case surfer.DeviceTablet:
		info.Device = "Tablet"
	case surfer.DevicePhone, surfer.DeviceWearable:
		info.Device = "Mobile"
	default:
		info.Device = "Other"
	}

	return info
}

// Summary is the short form stored with contact submissions, e.g.
// "Chrome 125 / Windows 10 / Desktop".
func (i Info) Summary() string {
	if i.Raw == "" {
		return ""
	}
	parts := make([]string, 0, 3)
	if b := strings.TrimSpace(i.Browser + " " + i.Version); b != "" && i.Browser != "Unknown" {
		parts = append(parts, b)
	}
	if o := strings.TrimSpace(i.OS + " " + i.OSVersion); o != "" && i.OS != "Unknown" {
		parts = append(parts, o)
	}
	parts = append(parts, i.Device)
	return strings.Join(parts, " / ")
}

// versionToString renders a semantic version in dotted form while trimming
// trailing zeros, e.g. 17.0.0 → "17", 17.3.0 → "17.3", 17.3.1 → "17.3.1".
func versionToString(v surfer.Version) string {
	if v.Major == 0 && v.Minor == 0 && v.Patch == 0 {
		return ""
	}
	if v.Patch != 0 {
		return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
	}
	if v.Minor != 0 {
		return fmt.Sprintf("%d.%d", v.Major, v.Minor)
	}
	return strconv.Itoa(int(v.Major))
}

package metrics

import "strings"

// Profile derives the cargo profile from the argument vector.
func Profile(args []string) string {
	for i, arg := range args {
		switch arg {
		case "--release":
			return "release"
		case "--debug":
			return "debug"
		case "--profile":
			if i+1 < len(args) {
				return args[i+1]
			}
		}
	}
	return "debug"
}

// Features derives the active feature set from the argument vector.
func Features(args []string) []string {
	var features []string
	for i, arg := range args {
		switch arg {
		case "--features":
			if i+1 < len(args) {
				for _, f := range strings.Split(args[i+1], ",") {
					features = append(features, strings.TrimSpace(f))
				}
			}
			return features
		case "--all-features":
			return []string{"all-features"}
		case "--no-default-features":
			features = append(features, "no-default-features")
		}
	}
	if len(features) == 0 {
		features = append(features, "default")
	}
	return features
}

// Incremental reports whether the argument vector requests an incremental
// build.
func Incremental(args []string) bool {
	for _, arg := range args {
		if arg == "--incremental" || arg == "-i" {
			return true
		}
	}
	return false
}

package sdk

import "strings"

// Kind discriminates the fixed set of package kinds. It is persisted in
// install records as Pkg.Kind.
type Kind int

const (
	KindTool Kind = iota
	KindPlatformTool
	KindDoc
	KindPlatform
	KindAddon
	KindSample
	KindExtra
	KindBroken
)

// String returns the record name of the kind
func (k Kind) String() string {
	switch k {
	case KindTool:
		return "tool"
	case KindPlatformTool:
		return "platform-tool"
	case KindDoc:
		return "doc"
	case KindPlatform:
		return "platform"
	case KindAddon:
		return "addon"
	case KindSample:
		return "sample"
	case KindExtra:
		return "extra"
	case KindBroken:
		return "broken"
	default:
		return "unknown"
	}
}

// ParseKind parses a kind name, case-insensitively
func ParseKind(s string) (Kind, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "tool", "tools":
		return KindTool, true
	case "platform-tool", "platform-tools":
		return KindPlatformTool, true
	case "doc", "docs":
		return KindDoc, true
	case "platform":
		return KindPlatform, true
	case "addon", "add-on":
		return KindAddon, true
	case "sample", "samples":
		return KindSample, true
	case "extra", "extras":
		return KindExtra, true
	case "broken":
		return KindBroken, true
	default:
		return KindBroken, false
	}
}

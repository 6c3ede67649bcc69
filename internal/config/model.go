package config

var defaultConfig = Config{
	Desktops:     4,
	DesktopNames: []string{},
	Rules:        []Rule{},
}

type Config struct {
	// Display selects the X display, empty for $DISPLAY.
	Display string `json:"display"`

	Desktops     uint32   `json:"desktops"`
	DesktopNames []string `json:"desktop_names"`

	// CacheFile stores remembered window state; empty disables it.
	CacheFile string `json:"cache_file"`

	Rules []Rule `json:"rules"`
}

// Rule applies startup policy to windows matched by WM_CLASS class and
// window role. Empty match fields match anything.
type Rule struct {
	UUID  string `json:"uuid"`
	Class string `json:"class"`
	Role  string `json:"role"`

	Desktop     *uint32 `json:"desktop"`
	AllDesktops bool    `json:"all_desktops"`
	Maximized   bool    `json:"maximized"`
	Fullscreen  bool    `json:"fullscreen"`
	NoTitlebar  bool    `json:"no_titlebar"`
	NoBorder    bool    `json:"no_border"`
}

// Matches reports whether the rule applies to a window with the given class
// and role.
func (r Rule) Matches(class, role string) bool {
	if r.Class != "" && r.Class != class {
		return false
	}
	if r.Role != "" && r.Role != role {
		return false
	}
	return true
}

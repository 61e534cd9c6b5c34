package model

// AppConfig holds user preferences for the slotplan tool.
type AppConfig struct {
	DefaultProfile string   `json:"default_profile"` // Engine profile path, empty = built-in geometry
	OutputDir      string   `json:"output_dir"`      // Where exports go when no path is given
	RecentLayouts  []string `json:"recent_layouts"`
	MaxRecent      int      `json:"max_recent"`
	LabelsPerPage  int      `json:"labels_per_page"` // 30 = Avery 5160
}

// DefaultAppConfig returns an AppConfig populated with sensible defaults.
func DefaultAppConfig() AppConfig {
	return AppConfig{
		DefaultProfile: "",
		OutputDir:      ".",
		RecentLayouts:  []string{},
		MaxRecent:      10,
		LabelsPerPage:  30,
	}
}

// AddRecent moves path to the front of the recent layouts list, trimming it to MaxRecent.
func (c *AppConfig) AddRecent(path string) {
	recent := []string{path}
	for _, p := range c.RecentLayouts {
		if p != path {
			recent = append(recent, p)
		}
	}
	limit := c.MaxRecent
	if limit <= 0 {
		limit = DefaultAppConfig().MaxRecent
	}
	if len(recent) > limit {
		recent = recent[:limit]
	}
	c.RecentLayouts = recent
}

package ui

// RenderRadarPanel wraps radar content with a styled border and a title row.
// The actual radar rendering is done externally to avoid import cycles.
func RenderRadarPanel(width, height int, title, radarContent, legend string) string {
	content := StylePanelTitle.Render(title) + "\n" + radarContent + "\n" + legend
	return StylePanelBorder.Width(width - 2).Height(height - 2).Render(content)
}

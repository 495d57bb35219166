package render

import "github.com/gdamore/tcell/v2"

// Palette follows the classic white-canvas debug view
var (
	RgbCanvas    = tcell.NewRGBColor(235, 235, 235) // Light canvas
	RgbMesh      = tcell.NewRGBColor(0, 0, 0)       // Black wireframe
	RgbPath      = tcell.NewRGBColor(0, 160, 0)     // Green path
	RgbWaypoint  = tcell.NewRGBColor(0, 110, 0)     // Darker green waypoint
	RgbAgent     = tcell.NewRGBColor(220, 0, 0)     // Red agent
	RgbArrived   = tcell.NewRGBColor(150, 0, 0)     // Dim red once arrived
	RgbTarget    = tcell.NewRGBColor(0, 90, 200)    // Blue destination mark
	RgbStatusBar = tcell.NewRGBColor(255, 255, 255) // White
	RgbStatusBg  = tcell.NewRGBColor(26, 27, 38)    // Dark bar
	RgbPausedBg  = tcell.NewRGBColor(120, 60, 0)    // Orange-brown bar while paused
)

package game

import (
	"strings"

	"github.com/mitchelldurbincs/RobotWantsBattery/internal/game/core"
	"github.com/mitchelldurbincs/RobotWantsBattery/internal/game/solver"
)

// This file contains all board rendering functionality for the game engine.

// ANSI color codes
const (
	ColorReset  = "\033[0m"
	ColorRed    = "\033[31m"
	ColorGreen  = "\033[32m"
	ColorYellow = "\033[33m"
	ColorBlue   = "\033[34m"
	ColorCyan   = "\033[36m"
	ColorWhite  = "\033[37m"
	ColorGray   = "\033[90m"
)

// Seat colors follow the robot sprites: blue, red, green, yellow.
var playerColors = []string{ColorBlue, ColorRed, ColorGreen, ColorYellow}

const (
	landSymbol    = "·"
	waterSymbol   = "~"
	startSymbol   = "S"
	batterySymbol = "B"
	playerSymbols = "1234"
)

// Board returns a colored text drawing of the board with every living robot
func (e *Engine) Board() string {
	return RenderBoard(e.board, e.gs.Players)
}

// HeatMap returns the win probability of every tile as whole percentages
func (e *Engine) HeatMap() string {
	return RenderHeatMap(e.board, e.field)
}

// RenderBoard draws b two columns per tile. Robots are drawn as their seat
// number; when several share a tile the lowest seat is shown.
func RenderBoard(b *core.Board, players []Player) string {
	var sb strings.Builder
	sb.Grow((b.W*12 + 4) * (b.H + 3))

	occupied := make(map[core.Coordinate]int, len(players))
	for i := len(players) - 1; i >= 0; i-- {
		if players[i].Alive {
			occupied[players[i].Pos] = players[i].ID
		}
	}

	writeColumnHeader(&sb, b.W, 2)
	for y := 0; y < b.H; y++ {
		sb.WriteString(core.IntToStringFixedWidth(y, 2))
		sb.WriteString(" ")
		for x := 0; x < b.W; x++ {
			if id, ok := occupied[core.NewCoordinate(x, y)]; ok {
				sb.WriteString(getPlayerColor(id))
				sb.WriteString(" ")
				sb.WriteByte(playerSymbols[id%len(playerSymbols)])
				sb.WriteString(ColorReset)
				continue
			}
			writeTerrain(&sb, b.At(x, y))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString(landSymbol + "=land " + waterSymbol + "=water " + startSymbol + "=start " + batterySymbol + "=battery 1-4=robots\n")
	return sb.String()
}

func writeTerrain(sb *strings.Builder, t core.Terrain) {
	switch t {
	case core.TerrainWater:
		sb.WriteString(ColorCyan + " " + waterSymbol)
	case core.TerrainStart:
		sb.WriteString(ColorWhite + " " + startSymbol)
	case core.TerrainEnd:
		sb.WriteString(ColorYellow + " " + batterySymbol)
	case core.TerrainLand:
		sb.WriteString(ColorGray + " " + landSymbol)
	}
	sb.WriteString(ColorReset)
}

// RenderHeatMap prints f four columns per tile, water as "~".
func RenderHeatMap(b *core.Board, f *solver.Field) string {
	var sb strings.Builder
	sb.Grow((b.W*4 + 4) * (b.H + 1))

	writeColumnHeader(&sb, b.W, 4)
	for y := 0; y < b.H; y++ {
		sb.WriteString(core.IntToStringFixedWidth(y, 2))
		sb.WriteString(" ")
		for x := 0; x < b.W; x++ {
			if !b.IsWalkable(x, y) {
				sb.WriteString("   " + waterSymbol)
				continue
			}
			sb.WriteString(core.PercentFixedWidth(f.At(x, y), 4))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func writeColumnHeader(sb *strings.Builder, width, cell int) {
	sb.WriteString("   ")
	for x := 0; x < width; x++ {
		sb.WriteString(core.IntToStringFixedWidth(x, cell))
	}
	sb.WriteString("\n")
}

// getPlayerColor returns the color for the given player ID
func getPlayerColor(playerID int) string {
	if playerID < 0 || playerID >= len(playerColors) {
		return ColorWhite
	}
	return playerColors[playerID]
}

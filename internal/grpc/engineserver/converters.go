package engineserver

import (
	"errors"
	"fmt"
	"math"

	"google.golang.org/protobuf/types/known/structpb"

	gameengine "github.com/mitchelldurbincs/RobotWantsBattery/internal/game"
	"github.com/mitchelldurbincs/RobotWantsBattery/internal/game/core"
	"github.com/mitchelldurbincs/RobotWantsBattery/internal/game/policy"
	"github.com/mitchelldurbincs/RobotWantsBattery/internal/game/solver"
)

var errBadRequest = errors.New("bad request")

// request wraps the decoded fields of an incoming Struct
type request map[string]interface{}

func newRequest(in *structpb.Struct) request {
	if in == nil {
		return request{}
	}
	return request(in.AsMap())
}

func (r request) has(key string) bool {
	v, ok := r[key]
	return ok && v != nil
}

func (r request) str(key string) (string, error) {
	if !r.has(key) {
		return "", nil
	}
	s, ok := r[key].(string)
	if !ok {
		return "", fmt.Errorf("%w: %s must be a string", errBadRequest, key)
	}
	return s, nil
}

func (r request) integer(key string, fallback int) (int, error) {
	if !r.has(key) {
		return fallback, nil
	}
	return toInt(key, r[key])
}

func (r request) float(key string, fallback float64) (float64, error) {
	if !r.has(key) {
		return fallback, nil
	}
	f, ok := r[key].(float64)
	if !ok {
		return 0, fmt.Errorf("%w: %s must be a number", errBadRequest, key)
	}
	return f, nil
}

func (r request) boolean(key string) (bool, error) {
	if !r.has(key) {
		return false, nil
	}
	b, ok := r[key].(bool)
	if !ok {
		return false, fmt.Errorf("%w: %s must be a bool", errBadRequest, key)
	}
	return b, nil
}

func (r request) list(key string) ([]interface{}, error) {
	if !r.has(key) {
		return nil, nil
	}
	l, ok := r[key].([]interface{})
	if !ok {
		return nil, fmt.Errorf("%w: %s must be a list", errBadRequest, key)
	}
	return l, nil
}

func (r request) strings(key string) ([]string, error) {
	items, err := r.list(key)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(items))
	for i, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("%w: %s[%d] must be a string", errBadRequest, key, i)
		}
		out[i] = s
	}
	return out, nil
}

// dice reads a two-element list; ok is false when the key is absent.
func (r request) dice(key string) (d [2]int, ok bool, err error) {
	items, err := r.list(key)
	if err != nil || items == nil {
		return d, false, err
	}
	if len(items) != 2 {
		return d, false, fmt.Errorf("%w: %s needs exactly two values", errBadRequest, key)
	}
	for i, item := range items {
		if d[i], err = toInt(key, item); err != nil {
			return d, false, err
		}
	}
	return d, true, nil
}

// directions reads a two-element list of direction names.
func (r request) directions(key string) (dirs [2]core.Direction, ok bool, err error) {
	names, err := r.strings(key)
	if err != nil || names == nil {
		return dirs, false, err
	}
	if len(names) != 2 {
		return dirs, false, fmt.Errorf("%w: %s needs exactly two values", errBadRequest, key)
	}
	for i, name := range names {
		if dirs[i], err = core.ParseDirection(name); err != nil {
			return dirs, false, err
		}
	}
	return dirs, true, nil
}

func toInt(key string, v interface{}) (int, error) {
	f, ok := v.(float64)
	if !ok || f != math.Trunc(f) {
		return 0, fmt.Errorf("%w: %s must be a whole number", errBadRequest, key)
	}
	return int(f), nil
}

func coordinateToMap(c core.Coordinate) map[string]interface{} {
	return map[string]interface{}{"x": c.X, "y": c.Y}
}

func moveToMap(m core.Move) map[string]interface{} {
	path := make([]interface{}, len(m.Path))
	for i, c := range m.Path {
		path[i] = coordinateToMap(c)
	}
	return map[string]interface{}{
		"directions": []interface{}{m.Dirs[0].String(), m.Dirs[1].String()},
		"values":     []interface{}{m.Values[0], m.Values[1]},
		"flying":     m.Flying,
		"outcome":    m.Outcome.String(),
		"target":     coordinateToMap(m.Target),
		"path":       path,
	}
}

func choiceToMap(c policy.Choice) map[string]interface{} {
	return map[string]interface{}{
		"move":  moveToMap(c.Move),
		"value": c.Value,
		"kind":  c.Kind.String(),
	}
}

func boardRows(b *core.Board) []interface{} {
	rows := b.Rows()
	out := make([]interface{}, len(rows))
	for i, r := range rows {
		out[i] = r
	}
	return out
}

func fieldRows(f *solver.Field) []interface{} {
	rows := f.Rows()
	out := make([]interface{}, len(rows))
	for y, row := range rows {
		values := make([]interface{}, len(row))
		for x, v := range row {
			values[x] = v
		}
		out[y] = values
	}
	return out
}

// stateToMap renders an engine snapshot for GetState and PlayTurn responses
func stateToMap(gameID string, e *gameengine.Engine) map[string]interface{} {
	gs := e.GameState()
	players := make([]interface{}, len(gs.Players))
	for i, p := range gs.Players {
		players[i] = map[string]interface{}{
			"id":         p.ID,
			"controller": p.Controller.String(),
			"x":          p.Pos.X,
			"y":          p.Pos.Y,
			"alive":      p.Alive,
			"moves":      p.Moves,
		}
	}

	state := map[string]interface{}{
		"game_id":       gameID,
		"phase":         e.Phase().String(),
		"round":         gs.Round,
		"score":         gs.Score,
		"active_player": gs.ActivePlayer,
		"dice":          []interface{}{gs.Dice[0], gs.Dice[1]},
		"dice_rolled":   gs.DiceRolled,
		"winner":        e.GetWinner(),
		"difficulty":    e.Difficulty().String(),
		"board":         boardRows(e.Map()),
		"end":           coordinateToMap(e.Map().End()),
		"players":       players,
	}
	if gs.LastMove != nil {
		state["last_move"] = moveToMap(*gs.LastMove)
	}
	return state
}

func toStruct(m map[string]interface{}) (*structpb.Struct, error) {
	s, err := structpb.NewStruct(m)
	if err != nil {
		return nil, fmt.Errorf("encoding response: %w", err)
	}
	return s, nil
}
